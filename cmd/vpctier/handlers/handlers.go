// Package handlers implements the business logic behind the CLI commands.
// The cobra definitions in the commands package stay thin and delegate here.
package handlers

import (
	"context"

	"vpctier/internal/config"
	"vpctier/internal/platform/awsec2"
	"vpctier/internal/progress"
)

// Factory functions, swappable in tests.
var (
	loadConfig = config.Load

	newClient = func(ctx context.Context, cfg *config.Config) (awsec2.Client, error) {
		return awsec2.NewRealClient(ctx, cfg)
	}

	runProgress = progress.Run
)

// setup loads and validates the configuration and opens the AWS session.
func setup(ctx context.Context, configPath string) (*config.Config, awsec2.Client, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}
