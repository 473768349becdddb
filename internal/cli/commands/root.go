package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pirakansa/bsindex/internal/cli/shared"
	"github.com/pirakansa/bsindex/internal/logging"
	"github.com/pirakansa/bsindex/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type appContext struct {
	configPath string
	logLevel   string
	logFormat  string
}

func NewRootCmd(version string) *cobra.Command {
	ctx := &appContext{}
	cmd := &cobra.Command{
		Use:   "bsindex",
		Short: "Build BattleScribe data repositories and their index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&ctx.configPath, "config", config.DefaultFileName, "path to bsindex config")
	cmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "log level override: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&ctx.logFormat, "log-format", "", "log format override: json|console")

	cmd.AddCommand(newBuildCmd(ctx))
	cmd.AddCommand(newPlanCmd(ctx))
	cmd.AddCommand(newFilesCmd(ctx))
	cmd.AddCommand(newInspectCmd(ctx))
	cmd.AddCommand(newInitCmd(ctx))
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}

func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return mapExitCode(err)
	}
	return shared.ExitOK
}

func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		return shared.ExitConfigError
	}
	return shared.ExitGeneric
}

// loadConfig reads the config and resolves its relative paths against the
// config file's directory.
func loadConfig(configPath string) (*config.Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, newExitCodeError(shared.ExitConfigError, err)
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return nil, newExitCodeError(shared.ExitConfigError, err)
	}
	root := filepath.Dir(abs)
	cfg.Source.Path = resolvePath(root, cfg.Source.Path)
	cfg.Output.Dir = resolvePath(root, cfg.Output.Dir)
	if cfg.Metrics.Textfile != "" {
		cfg.Metrics.Textfile = resolvePath(root, cfg.Metrics.Textfile)
	}
	return cfg, nil
}

func resolvePath(root, value string) string {
	value = os.ExpandEnv(value)
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}

// newLogger builds the logger from config, with command-line overrides.
func (c *appContext) newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, format := "info", "console"
	if cfg != nil {
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	if c.logLevel != "" {
		level = c.logLevel
	}
	if c.logFormat != "" {
		format = c.logFormat
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, newExitCodeError(shared.ExitConfigError, err)
	}
	return logger, nil
}

type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}
