package snapshot

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects snapshot files by slash-separated relative path. A leading
// "**/" also matches files at the root.
type Filter struct {
	include     []glob.Glob
	exclude     []glob.Glob
	maxFileSize int64
}

func NewFilter(include, exclude []string, maxFileSize int64) (*Filter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, exclude: exc, maxFileSize: maxFileSize}, nil
}

// Match reports whether path passes the include and exclude patterns. An
// empty include list includes everything.
func (f *Filter) Match(path string) bool {
	if len(f.include) > 0 && !matchAny(f.include, path) {
		return false
	}
	return !matchAny(f.exclude, path)
}

// CheckSize fails when size exceeds the configured limit. Zero disables the limit.
func (f *Filter) CheckSize(path string, size int64) error {
	if f.maxFileSize > 0 && size > f.maxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, path, size, f.maxFileSize)
	}
	return nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	var compiled []glob.Glob
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			g, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			compiled = append(compiled, g)
		}
	}
	return compiled, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
