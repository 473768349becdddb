package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pirakansa/bsindex/internal/cli/metrics"
	"github.com/pirakansa/bsindex/internal/cli/output"
	"github.com/pirakansa/bsindex/internal/cli/shared"
	"github.com/pirakansa/bsindex/internal/cli/snapshot"
	"github.com/pirakansa/bsindex/pkg/bsdata"
	"github.com/pirakansa/bsindex/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type buildCommandOptions struct {
	outDir      string
	dryRun      bool
	overwrite   bool
	strict      bool
	workers     int
	metricsFile string
}

type buildSummary struct {
	written *output.Result
	skipped []bsdata.SkippedFile
}

func newBuildCmd(ctx *appContext) *cobra.Command {
	opts := buildCommandOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compress data files and write the repository index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildWithOptions(cmd.Context(), cmd.OutOrStdout(), ctx, opts)
		},
	}
	addBuildFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show actions without writing files")
	return cmd
}

func addBuildFlags(cmd *cobra.Command, opts *buildCommandOptions) {
	cmd.Flags().StringVar(&opts.outDir, "out", "", "output directory override")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "overwrite existing files without timestamp backup")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any data file is skipped")
	cmd.Flags().IntVar(&opts.workers, "workers", -1, "parallel workers (0 = all CPUs)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus textfile metrics to this path")
}

func runBuildWithOptions(ctx context.Context, out io.Writer, app *appContext, opts buildCommandOptions) error {
	cfg, err := loadConfig(app.configPath)
	if err != nil {
		return err
	}
	applyBuildOverrides(cfg, opts)

	logger, err := app.newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.NewBuild(cfg.Repository.Name)
	started := time.Now()
	summary, err := runBuild(ctx, cfg, opts, logger, m)
	m.Finish(started, time.Now(), err)
	if cfg.Metrics.Textfile != "" {
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("failed to write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(werr))
		}
	}

	if summary != nil {
		res := summary.written
		if res == nil {
			res = &output.Result{}
		}
		fmt.Fprintf(out, "created=%d updated=%d unchanged=%d pruned=%d skipped=%d\n",
			res.Created, res.Updated, res.Unchanged, res.Pruned, len(summary.skipped))
		for _, s := range summary.skipped {
			fmt.Fprintf(out, "skipped: %s: %v\n", s.Name, s.Err)
		}
	}
	return err
}

func applyBuildOverrides(cfg *config.Config, opts buildCommandOptions) {
	if opts.outDir != "" {
		cfg.Output.Dir = opts.outDir
	}
	if opts.workers >= 0 {
		cfg.Build.Workers = opts.workers
	}
	if opts.strict {
		cfg.Build.Strict = true
	}
	if opts.metricsFile != "" {
		cfg.Metrics.Textfile = opts.metricsFile
	}
}

func runBuild(ctx context.Context, cfg *config.Config, opts buildCommandOptions, logger *zap.Logger, m *metrics.Build) (*buildSummary, error) {
	files, err := snapshot.Load(ctx, cfg.Source, logger)
	if err != nil {
		return nil, newExitCodeError(shared.ExitBuildFailed, err)
	}

	repo := bsdata.Repository{
		Name:    cfg.Repository.Name,
		BaseURL: cfg.Repository.BaseURL,
		URLs:    cfg.Repository.Mirrors,
	}
	data, err := bsdata.CreateRepositoryData(repo, files, bsdata.Options{
		Workers: cfg.Build.Workers,
		Logger:  logger,
		OnFile: func(p bsdata.FileProgress) {
			m.ObserveInput(p.Outcome, string(p.DataType))
		},
	})
	if err != nil {
		return nil, newExitCodeError(shared.ExitBuildFailed, err)
	}
	m.SetIndex(len(data.Index.Entries), len(data.Skipped))

	summary := &buildSummary{skipped: data.Skipped}
	if cfg.Build.Strict && len(data.Skipped) > 0 {
		warnings := (&bsdata.BuildResult{Skipped: data.Skipped}).Warnings()
		return summary, newExitCodeError(shared.ExitSkippedFiles, fmt.Errorf("strict build: %w", warnings))
	}

	written, err := output.Write(data.Files, output.Options{
		Dir:        cfg.Output.Dir,
		Repository: cfg.Repository.Name,
		Backup:     cfg.Output.Backup,
		Overwrite:  opts.overwrite,
		Prune:      cfg.Output.Prune,
		Mode:       cfg.Output.Mode,
		DryRun:     opts.dryRun,
		Logger:     logger,
		OnFile: func(name, outcome string) {
			m.ObserveOutput(outcome)
		},
	})
	summary.written = written
	if err != nil {
		return summary, newExitCodeError(shared.ExitBuildFailed, err)
	}
	return summary, nil
}
