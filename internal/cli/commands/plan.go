package commands

import (
	"github.com/spf13/cobra"
)

func newPlanCmd(ctx *appContext) *cobra.Command {
	opts := buildCommandOptions{dryRun: true}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview build changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildWithOptions(cmd.Context(), cmd.OutOrStdout(), ctx, opts)
		},
	}
	addBuildFlags(cmd, &opts)
	return cmd
}
