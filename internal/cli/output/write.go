package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pirakansa/bsindex/internal/cli/shared"
	"github.com/pirakansa/bsindex/pkg/config"
	"go.uber.org/zap"
)

const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomePruned    = "pruned"
)

type Options struct {
	Dir        string
	Repository string
	// Backup is none or timestamp; Overwrite forces none.
	Backup    string
	Overwrite bool
	Prune     bool
	Mode      string
	DryRun    bool
	Now       func() time.Time
	Logger    *zap.Logger
	OnFile    func(name, outcome string)
}

// Result counts the outcome of a write.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Pruned    int
}

func (r *Result) add(outcome string) {
	switch outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomePruned:
		r.Pruned++
	}
}

// Write stores files under opts.Dir and records them in the lock file. Files
// listed in the previous lock but missing from files are removed when
// opts.Prune is set. Nothing is written in dry-run mode.
func Write(files map[string][]byte, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	backup := opts.Backup
	if opts.Overwrite || backup == "" {
		backup = shared.BackupNone
	}
	perm, err := config.ParseFileMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(opts.Dir, LockFileName)
	prev, err := LoadLock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("load lock: %w", err)
	}
	next := &LockFile{Version: lockVersion, Repository: opts.Repository, Files: map[string]LockEntry{}}
	now := opts.Now()

	res := &Result{}
	for _, name := range sortedNames(files) {
		target, err := resolveTargetPath(opts.Dir, name)
		if err != nil {
			return res, err
		}
		content := files[name]
		digest := shared.DigestOf(content)
		outcome, err := applyFile(target, content, digest, perm, backup, now, opts.DryRun)
		if err != nil {
			return res, fmt.Errorf("write %s: %w", name, err)
		}
		res.add(outcome)
		opts.Logger.Debug("output file", zap.String("file", name), zap.String("outcome", outcome))
		if opts.OnFile != nil {
			opts.OnFile(name, outcome)
		}

		entry := LockEntry{Digest: digest, UpdatedAt: now.UTC().Format(time.RFC3339)}
		if old, ok := prev.Files[name]; ok && outcome == OutcomeUnchanged && old.UpdatedAt != "" {
			entry.UpdatedAt = old.UpdatedAt
		}
		next.Files[name] = entry
	}

	for _, name := range prev.Names() {
		if _, ok := files[name]; ok {
			continue
		}
		if !opts.Prune {
			opts.Logger.Info("stale output file kept", zap.String("file", name))
			next.Files[name] = prev.Files[name]
			continue
		}
		if err := pruneFile(opts.Dir, name, opts.DryRun); err != nil {
			return res, fmt.Errorf("prune %s: %w", name, err)
		}
		res.add(OutcomePruned)
		if opts.OnFile != nil {
			opts.OnFile(name, OutcomePruned)
		}
	}

	if opts.DryRun {
		return res, nil
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return res, err
	}
	if err := SaveLock(lockPath, next); err != nil {
		return res, fmt.Errorf("save lock: %w", err)
	}
	return res, nil
}

func applyFile(targetPath string, incoming []byte, digest shared.Digest, perm os.FileMode, backup string, now time.Time, dryRun bool) (string, error) {
	current, err := os.ReadFile(targetPath)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	if exists && shared.DigestOf(current) == digest {
		return OutcomeUnchanged, nil
	}

	outcome := OutcomeCreated
	if exists {
		outcome = OutcomeUpdated
	}
	if dryRun {
		return outcome, nil
	}
	if exists {
		if err := shared.BackupFile(targetPath, current, backup, now); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(targetPath, incoming, perm); err != nil {
		return "", err
	}
	return outcome, nil
}

func pruneFile(root, name string, dryRun bool) error {
	target, err := resolveTargetPath(root, name)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func resolveTargetPath(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(root)
	cleanTarget := filepath.Clean(target)
	if cleanTarget == cleanRoot || !strings.HasPrefix(cleanTarget, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("output path escapes target root: %q", rel)
	}
	return target, nil
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
