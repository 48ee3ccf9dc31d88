package commands

import (
	"github.com/spf13/cobra"

	"vpctier/cmd/vpctier/handlers"
)

// Up returns the up command.
func Up() *cobra.Command {
	var (
		configPath string
		tier       string
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring the stack up to a tier",
		Long: `Up creates the stack resources up to and including the requested tier.

Tiers are cumulative:
  network  VPC, public and private subnets, internet gateway
  routing  Elastic IP, NAT gateway, public and private route tables
  compute  security group, key pair, one instance per subnet

Resources that already exist are reused, so up can be re-run safely after
a partial failure.

Example:
  vpctier up --tier routing -c vpctier.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, tier)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default vpctier.yaml)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "compute", "Target tier: network, routing or compute")

	return cmd
}
