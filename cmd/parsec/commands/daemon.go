package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/parsec/internal/adapters/telemetry"
)

func (c *CLI) newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Warm the parse cache and keep it coherent with file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			telemetry.Setup(telemetry.NewBridge(c.components.Logger))
			defer func() { _ = c.components.Watcher.Stop() }()
			return c.components.App.Daemon(cmd.Context(), ".", c.components.Watcher)
		},
	}
}
