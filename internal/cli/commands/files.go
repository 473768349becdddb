package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pirakansa/bsindex/internal/cli/shared"
	"github.com/pirakansa/bsindex/internal/cli/snapshot"
	"github.com/pirakansa/bsindex/pkg/bsdata"
	"github.com/spf13/cobra"
)

func newFilesCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List source files with their data type and published name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctx.configPath)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			files, err := snapshot.Load(cmd.Context(), cfg.Source, logger)
			if err != nil {
				return newExitCodeError(shared.ExitBuildFailed, err)
			}
			names := make([]string, 0, len(files))
			for name := range files {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range names {
				dataType, compressed := bsdata.Classify(name)
				target := bsdata.CompressedName(name)
				if bsdata.IsReservedName(name) {
					target = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", name, dataType, compressed, target)
			}
			return w.Flush()
		},
	}
}
