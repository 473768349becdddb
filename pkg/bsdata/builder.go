package bsdata

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// BuildResult is the index built from a file set plus the files that could not be indexed.
type BuildResult struct {
	Index   *DataIndex
	Skipped []SkippedFile
}

// SkippedFile is a data file left out of the index because its document was malformed
// or its archive unreadable.
type SkippedFile struct {
	Name     string
	FilePath string
	DataType DataType
	Err      error
}

// Warnings combines the errors of every skipped file, or returns nil.
func (r *BuildResult) Warnings() error {
	var result *multierror.Error
	for _, skipped := range r.Skipped {
		result = multierror.Append(result, fmt.Errorf("%s: %w", skipped.Name, skipped.Err))
	}
	return result.ErrorOrNil()
}

type fileResult struct {
	name     string
	filePath string
	dataType DataType
	entry    *DataIndexEntry
	err      error
}

// BuildIndex classifies every file, extracts document metadata and assembles
// the repository index. Files are keyed by name; raw and compressed names are
// both accepted. Per-file failures are reported in the result, never returned.
func BuildIndex(repo Repository, files map[string][]byte, opts Options) (*BuildResult, error) {
	opts = opts.withDefaults()

	indexURL, err := IndexURL(repo.BaseURL, repo.Name)
	if err != nil {
		return nil, err
	}
	index := &DataIndex{
		Xmlns:          IndexNamespace,
		RepositoryName: repo.Name,
		IndexURL:       indexURL,
		RepositoryURLs: append([]string(nil), repo.URLs...),
	}

	names := uniqueByFilePath(files, opts.Logger)
	results := make([]fileResult, len(names))
	err = forEach(opts.Workers, len(names), func(i int) {
		results[i] = indexFile(names[i], files[names[i]])
	})
	if err != nil {
		return nil, fmt.Errorf("index files: %w", err)
	}

	var skipped []SkippedFile
	for i, res := range results {
		outcome := OutcomeIgnored
		switch {
		case res.err != nil:
			outcome = OutcomeSkipped
			skipped = append(skipped, SkippedFile{
				Name:     res.name,
				FilePath: res.filePath,
				DataType: res.dataType,
				Err:      res.err,
			})
			opts.Logger.Warn("skipping data file",
				zap.String("file", res.name),
				zap.String("data_type", string(res.dataType)),
				zap.Error(res.err),
			)
		case res.entry != nil:
			outcome = OutcomeIndexed
			index.Entries = append(index.Entries, *res.entry)
		}
		if opts.OnFile != nil {
			opts.OnFile(FileProgress{
				Index:    i + 1,
				Total:    len(results),
				Name:     res.name,
				FilePath: res.filePath,
				DataType: res.dataType,
				Outcome:  outcome,
				Err:      res.err,
			})
		}
	}

	sort.SliceStable(index.Entries, func(i, j int) bool {
		return index.Entries[i].FilePath < index.Entries[j].FilePath
	})
	warnDuplicateIDs(index.Entries, opts.Logger)

	opts.Logger.Debug("index built",
		zap.String("repository", repo.Name),
		zap.Int("files", len(names)),
		zap.Int("entries", len(index.Entries)),
		zap.Int("skipped", len(skipped)),
	)
	return &BuildResult{Index: index, Skipped: skipped}, nil
}

// IndexURL returns baseURL/repositoryName/index.bsi after checking that it is
// an absolute http or https URL.
func IndexURL(baseURL, repositoryName string) (string, error) {
	name := strings.Trim(repositoryName, "/")
	if name == "" {
		return "", fmt.Errorf("%w: repository name is empty", ErrInvalidURL)
	}
	joined := strings.TrimRight(baseURL, "/") + "/" + name + "/" + IndexCompressedFileName

	if err := validator.New().Var(joined, "required,url"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, joined)
	}
	parsed, err := url.Parse(joined)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidURL, joined, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidURL, joined, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidURL, joined)
	}
	return joined, nil
}

// uniqueByFilePath returns the sorted input names, keeping only the last name
// for each canonical file path.
func uniqueByFilePath(files map[string][]byte, logger *zap.Logger) []string {
	names := sortedNames(files)
	latest := make(map[string]int, len(names))
	for i, name := range names {
		filePath := CompressedName(name)
		if prev, ok := latest[filePath]; ok {
			logger.Warn("file name collision, keeping later file",
				zap.String("file", name),
				zap.String("ignored", names[prev]),
				zap.String("path", filePath),
			)
		}
		latest[filePath] = i
	}
	unique := names[:0]
	for i, name := range names {
		if latest[CompressedName(name)] == i {
			unique = append(unique, name)
		}
	}
	return unique
}

func indexFile(name string, data []byte) fileResult {
	dataType, compressed := Classify(name)
	res := fileResult{name: name, filePath: CompressedName(name), dataType: dataType}
	if !dataType.Indexable() {
		return res
	}
	var src io.Reader = bytes.NewReader(data)
	if compressed {
		rc, err := openCompressed(data)
		if err != nil {
			res.err = err
			return res
		}
		defer rc.Close()
		src = rc
	}
	res.entry, res.err = extractEntry(res.filePath, dataType, src)
	return res
}

func extractEntry(filePath string, dataType DataType, src io.Reader) (*DataIndexEntry, error) {
	var entry DataIndexEntry
	switch dataType {
	case DataTypeGameSystem:
		gameSystem, err := extractGameSystem(src)
		if err != nil {
			return nil, err
		}
		entry = NewGameSystemEntry(filePath, gameSystem)
	case DataTypeCatalogue:
		catalogue, err := extractCatalogue(src)
		if err != nil {
			return nil, err
		}
		entry = NewCatalogueEntry(filePath, catalogue)
	case DataTypeRoster:
		roster, err := extractRoster(src)
		if err != nil {
			return nil, err
		}
		entry = NewRosterEntry(filePath, roster)
	default:
		return nil, nil
	}
	return &entry, nil
}

func warnDuplicateIDs(entries []DataIndexEntry, logger *zap.Logger) {
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.ID == nil {
			continue
		}
		if other, ok := seen[*entry.ID]; ok {
			logger.Warn("duplicate data id",
				zap.String("id", *entry.ID),
				zap.String("path", entry.FilePath),
				zap.String("other_path", other),
			)
			continue
		}
		seen[*entry.ID] = entry.FilePath
	}
}
