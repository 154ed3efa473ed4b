package commands

import (
	"github.com/spf13/cobra"

	"github.com/anvil-build/anvil/internal/engine/scheduler"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var (
		parallelism int
		keepGoing   bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Execute the invocation graph, re-running only stale work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), scheduler.Options{
				Parallelism: parallelism,
				KeepGoing:   keepGoing,
			})
		},
	}

	cmd.Flags().IntVarP(&parallelism, "jobs", "j", 0, "Number of concurrent invocations (default: available parallelism)")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue independent work after a failure")

	return cmd
}
