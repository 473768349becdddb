package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/pirakansa/bsindex/pkg/config"
	"go.uber.org/zap"
)

var ErrFileTooLarge = errors.New("file exceeds max_file_size")

// Load reads every file selected by src into a map keyed by slash-separated
// path relative to the snapshot root.
func Load(ctx context.Context, src config.Source, logger *zap.Logger) (map[string][]byte, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	filter, err := NewFilter(src.Include, src.Exclude, src.MaxFileSize)
	if err != nil {
		return nil, err
	}

	var files map[string][]byte
	switch src.Type {
	case config.SourceDir:
		files, err = loadDir(ctx, src.Path, filter)
	case config.SourceArchive:
		files, err = loadArchive(ctx, src.Path, src.StripComponents, filter)
	case config.SourceGit:
		files, err = loadGit(ctx, src.Path, src.Ref, filter)
	default:
		return nil, fmt.Errorf("unsupported source type %q", src.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot %s: %w", src.Type, src.Path, err)
	}
	logger.Info("snapshot loaded",
		zap.String("type", src.Type),
		zap.String("path", src.Path),
		zap.Int("files", len(files)),
	)
	return files, nil
}
