package bsdata

import (
	"strings"

	"go.uber.org/zap"
)

// RepositoryData is a publishable file set: every data file in compressed
// form plus the compressed index under index.bsi.
type RepositoryData struct {
	Files   map[string][]byte
	Index   *DataIndex
	Skipped []SkippedFile
}

// CreateRepositoryData indexes files, serializes the index as index.xml and
// normalizes the whole set to compressed form. The input map is not modified.
// Input files named index.xml or index.bsi are replaced by the generated index.
func CreateRepositoryData(repo Repository, files map[string][]byte, opts Options) (*RepositoryData, error) {
	opts = opts.withDefaults()

	built, err := BuildIndex(repo, files, opts)
	if err != nil {
		return nil, err
	}
	indexData, err := MarshalIndex(built.Index)
	if err != nil {
		return nil, err
	}

	dataFiles := make(map[string][]byte, len(files)+1)
	for name, data := range files {
		if IsReservedName(name) {
			opts.Logger.Warn("input file replaced by generated index", zap.String("file", name))
			continue
		}
		dataFiles[name] = data
	}
	dataFiles[IndexFileName] = indexData

	compressed, err := NormalizeFiles(dataFiles, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("repository data created",
		zap.String("repository", repo.Name),
		zap.Int("files", len(compressed)),
		zap.Int("entries", len(built.Index.Entries)),
		zap.Int("skipped", len(built.Skipped)),
	)
	return &RepositoryData{
		Files:   compressed,
		Index:   built.Index,
		Skipped: built.Skipped,
	}, nil
}

// IsReservedName reports whether name resolves to the index file name,
// ignoring case.
func IsReservedName(name string) bool {
	return strings.EqualFold(CompressedName(name), IndexCompressedFileName)
}
