package handlers

import (
	"context"
	"log"

	"vpctier/internal/progress"
	"vpctier/internal/tiers"
)

// Up brings the stack up to the requested tier, creating every resource of
// that tier and the tiers below it. Already-existing resources are reused.
func Up(ctx context.Context, configPath, tier string) error {
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
		if err := o.Up(ctx, t); err != nil {
			return err
		}
		log.Printf("[done] stack %s is up to tier %s", cfg.Naming().StackName(), t)
		return nil
	})
}
