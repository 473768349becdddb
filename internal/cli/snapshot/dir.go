package snapshot

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true, ".bzr": true}

func loadDir(ctx context.Context, root string, filter *Filter) (map[string][]byte, error) {
	files := map[string][]byte{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && vcsDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !filter.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := filter.CheckSize(rel, info.Size()); err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
