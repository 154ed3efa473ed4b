// Package commands implements the CLI commands for the anvil build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anvil-build/anvil/internal/adapters/config"
	"github.com/anvil-build/anvil/internal/app"
)

// CLI represents the command line interface for anvil.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "anvil",
		Short:         "An incremental native build executor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("manifest", "m", config.DefaultFilename, "Path to the invocation manifest")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		manifest, err := cmd.Flags().GetString("manifest")
		if err != nil {
			return err
		}
		a.SetManifest(manifest)
		return nil
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
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
