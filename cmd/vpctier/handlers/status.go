package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"vpctier/internal/progress"
	"vpctier/internal/tiers"
	"vpctier/internal/ui/tui"
)

var (
	runDashboard = tui.Run
	statusOut    io.Writer = os.Stdout
)

// Status prints a snapshot of the stack, or keeps a live dashboard open when
// watch is set.
func Status(ctx context.Context, configPath string, watch bool, interval time.Duration) error {
	cfg, client, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	rep := progress.New(io.Discard, progress.WithAnimation(false))
	rep.Start()
	defer rep.Stop()
	o := tiers.New(client, cfg, rep, nil)

	if watch {
		return runDashboard(ctx, cfg.Naming().StackName(), cfg.Region, interval, o.Status)
	}

	st, err := o.Status(ctx)
	if err != nil {
		return err
	}
	printStatus(statusOut, cfg.Naming().StackName(), cfg.Region, st)
	return nil
}

func printStatus(w io.Writer, stack, region string, st *tiers.StackStatus) {
	fmt.Fprintf(w, "stack %s (%s)\n", stack, region)
	if st.Tier == "" {
		fmt.Fprintln(w, "no tier is up")
	} else {
		fmt.Fprintf(w, "tier: %s\n", st.Tier)
	}
	if len(st.Rows) == 0 {
		fmt.Fprintln(w, "no resources; run up to create the stack")
		return
	}
	for _, row := range st.Rows {
		fmt.Fprintf(w, "  %-14s %-24s %-22s %s\n", row.Kind, row.Name, row.ID, row.Detail)
	}
}
