package tiers

import (
	"context"
	"fmt"
	"log"

	"vpctier/internal/config"
	"vpctier/internal/platform/awsec2"
	"vpctier/internal/progress"
	"vpctier/internal/resources"
)

// Tier identifies one of the cumulative stack tiers.
type Tier string

const (
	TierNetwork Tier = "network"
	TierRouting Tier = "routing"
	TierCompute Tier = "compute"
)

// ParseTier validates a tier name from the command line.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierNetwork, TierRouting, TierCompute:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q (want network, routing or compute)", s)
	}
}

// Orchestrator drives tier transitions against one stack.
type Orchestrator struct {
	client   awsec2.Client
	cfg      *config.Config
	naming   config.Naming
	timeouts *config.Timeouts
	catalog  *resources.Catalog
	rep      *progress.Reporter
	gate     *progress.Gate
}

// New builds an orchestrator. rep must not be nil; run with a disabled
// reporter when no terminal is attached. gate may be nil for read-only use.
func New(client awsec2.Client, cfg *config.Config, rep *progress.Reporter, gate *progress.Gate) *Orchestrator {
	return &Orchestrator{
		client:   client,
		cfg:      cfg,
		naming:   cfg.Naming(),
		timeouts: config.LoadTimeouts(),
		catalog:  resources.NewCatalog(client, cfg),
		rep:      rep,
		gate:     gate,
	}
}

// Up brings the stack up to the requested tier, lowest tier first.
func (o *Orchestrator) Up(ctx context.Context, tier Tier) error {
	if err := o.UpNetwork(ctx); err != nil {
		return err
	}
	if tier == TierNetwork {
		return nil
	}
	if err := o.UpRouting(ctx); err != nil {
		return err
	}
	if tier == TierRouting {
		return nil
	}
	return o.UpCompute(ctx)
}

// Down tears the stack down to below the requested tier, highest tier
// first. Tearing down the network tier removes the whole stack. With purge
// the reusable leftovers (security group, key pair and local PEM) go too.
func (o *Orchestrator) Down(ctx context.Context, tier Tier, purge bool) error {
	if err := o.DownCompute(ctx, purge); err != nil {
		return err
	}
	if tier == TierCompute {
		return nil
	}
	if err := o.DownRouting(ctx); err != nil {
		return err
	}
	if tier == TierRouting {
		return nil
	}
	return o.DownNetwork(ctx, purge)
}

// findVPC locates this stack's VPC by name and CIDR, or nil when absent.
func (o *Orchestrator) findVPC(ctx context.Context) (*awsec2.VPC, error) {
	return o.client.FindVPC(ctx, o.naming.ResourceName("vpc"), o.cfg.VPCCIDR)
}

// requireVPC is findVPC for operations that cannot proceed without one.
func (o *Orchestrator) requireVPC(ctx context.Context) (*awsec2.VPC, error) {
	vpc, err := o.findVPC(ctx)
	if err != nil {
		return nil, err
	}
	if vpc == nil {
		return nil, fmt.Errorf("vpc %s not found; run up first", o.naming.ResourceName("vpc"))
	}
	return vpc, nil
}

func (o *Orchestrator) logExists(kind, name, id string) {
	log.Printf("[ok] %s %s already exists (%s)", kind, name, id)
}
