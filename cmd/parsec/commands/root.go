// Package commands implements the CLI commands for the parsec parse daemon.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/parsec/internal/app"
	"go.trai.ch/parsec/internal/build"
)

// CLI represents the command line interface for parsec.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given application components.
func New(c *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "parsec",
		Short:         "A caching parse daemon for build targets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	cli := &CLI{
		components: c,
		rootCmd:    rootCmd,
	}

	rootCmd.AddCommand(cli.newParseCmd())
	rootCmd.AddCommand(cli.newDaemonCmd())
	rootCmd.AddCommand(cli.newVersionCmd())

	return cli
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}
