package commands

import (
	"time"

	"github.com/spf13/cobra"

	"vpctier/cmd/vpctier/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var (
		configPath string
		watch      bool
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which tier is up and the state of every resource",
		Long: `Status inspects the stack and reports the highest tier that is fully up
along with every resource it found.

With --watch the report becomes a live dashboard that re-polls AWS until
you quit with q or Ctrl+C.

Example:
  vpctier status --watch -c vpctier.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, watch, interval)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default vpctier.yaml)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep a live dashboard open")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Poll interval for --watch")

	return cmd
}
