// Package main is the entry point for the vpctier CLI.
//
// vpctier provisions a small tiered lab environment on AWS: a VPC with a
// public and a private subnet, NAT-backed routing and a pair of EC2
// instances, brought up and torn down tier by tier. Teardown maps the
// dependency tree first and asks before anything destructive happens.
//
// Commands: up, down, status, version, completion.
//
// For detailed usage information, run:
//
//	vpctier --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vpctier/cmd/vpctier/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Ctrl+C cancels the context, which aborts countdowns and in-flight
	// AWS calls instead of killing the process mid-deletion.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
