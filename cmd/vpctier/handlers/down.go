package handlers

import (
	"context"
	"errors"
	"log"

	"vpctier/internal/progress"
	"vpctier/internal/tiers"
)

// Down tears the stack down to below the requested tier. Tearing down the
// network tier removes the whole stack; purge additionally removes the
// security group, key pair and local PEM. Destructive steps prompt for
// confirmation; a declined prompt aborts cleanly without an error exit.
func Down(ctx context.Context, configPath, tier string, purge bool) error {
	t, err := tiers.ParseTier(tier)
	if err != nil {
		return err
	}
	cfg, client, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	return runProgress(func(rep *progress.Reporter) error {
		o := tiers.New(client, cfg, rep, progress.NewGate(rep))
		err := o.Down(ctx, t, purge)
		if errors.Is(err, progress.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("[done] stack %s is down below tier %s", cfg.Naming().StackName(), t)
		return nil
	})
}
