package commands

import (
	"github.com/spf13/cobra"

	"vpctier/cmd/vpctier/handlers"
)

// Down returns the down command.
func Down() *cobra.Command {
	var (
		configPath string
		tier       string
		purge      bool
	)

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Tear the stack down to below a tier",
		Long: `Down removes the stack resources of the requested tier and every tier
above it:

  compute  terminates the instances
  routing  additionally removes the route tables, NAT gateway and Elastic IP
  network  removes the whole stack including the VPC

The security group, key pair and local PEM are kept for the next bring-up
unless --purge is given.

Deleting the NAT gateway or the VPC is destructive, so those steps show
what will be removed and ask for confirmation with a short countdown.

Example:
  vpctier down --tier network -c vpctier.yaml

WARNING: down --tier network deletes every resource of the stack.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Down(cmd.Context(), configPath, tier, purge)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default vpctier.yaml)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "network", "Lowest tier to remove: network, routing or compute")
	cmd.Flags().BoolVar(&purge, "purge", false, "Also remove the security group, key pair and local PEM")

	return cmd
}
