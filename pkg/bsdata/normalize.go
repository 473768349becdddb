package bsdata

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

type normalizedFile struct {
	name string
	data []byte
	err  error
}

// NormalizeFiles returns a new map in which every name is a canonical
// compressed name and every payload a compressed archive. Inputs already named
// in compressed form keep their bytes; only their directory prefix is removed.
// When several inputs map to the same name, the last one in sorted input order wins.
func NormalizeFiles(files map[string][]byte, opts Options) (map[string][]byte, error) {
	opts = opts.withDefaults()
	names := sortedNames(files)

	outputs := make([]normalizedFile, len(names))
	err := forEach(opts.Workers, len(names), func(i int) {
		outputs[i] = normalizeFile(names[i], files[names[i]])
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompression, err)
	}

	result := make(map[string][]byte, len(names))
	for i, out := range outputs {
		if out.err != nil {
			return nil, out.err
		}
		if _, exists := result[out.name]; exists {
			opts.Logger.Warn("file name collision, keeping later file",
				zap.String("file", names[i]),
				zap.String("path", out.name),
			)
		}
		result[out.name] = out.data
	}
	return result, nil
}

func normalizeFile(name string, data []byte) normalizedFile {
	if IsCompressedName(name) {
		return normalizedFile{name: BaseName(name), data: data}
	}
	compressed, err := CompressFile(name, data)
	if err != nil {
		return normalizedFile{err: err}
	}
	return normalizedFile{name: CompressedName(name), data: compressed}
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
