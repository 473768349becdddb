package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pirakansa/bsindex/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a bsindex.yaml template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeIfNotExists(ctx.configPath, config.Template); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized:", ctx.configPath)
			return nil
		},
	}
}

func writeIfNotExists(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
