package snapshot

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const (
	EncodingTarGzip = "tar+gzip"
	EncodingTarXz   = "tar+xz"
	EncodingTarZstd = "tar+zstd"
	EncodingZip     = "zip"
)

// DetectEncoding infers the archive encoding from a file name.
func DetectEncoding(name string) (string, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return EncodingTarGzip, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return EncodingTarXz, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tar.zstd"):
		return EncodingTarZstd, nil
	case strings.HasSuffix(lower, ".zip"):
		return EncodingZip, nil
	default:
		return "", fmt.Errorf("unsupported archive %q", name)
	}
}

func loadArchive(ctx context.Context, archivePath string, strip int, filter *Filter) (map[string][]byte, error) {
	encoding, err := DetectEncoding(archivePath)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, err
	}
	return ReadArchive(ctx, content, encoding, strip, filter)
}

// ReadArchive returns the regular file entries of an archive selected by filter.
func ReadArchive(ctx context.Context, content []byte, encoding string, strip int, filter *Filter) (map[string][]byte, error) {
	files := map[string][]byte{}
	add := func(name string, size int64, open func() (io.ReadCloser, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entryPath, err := normalizeArchiveEntryName(name)
		if err != nil {
			return err
		}
		entryPath, ok := stripComponents(entryPath, strip)
		if !ok || !filter.Match(entryPath) {
			return nil
		}
		if err := filter.CheckSize(entryPath, size); err != nil {
			return err
		}
		rc, err := open()
		if err != nil {
			return err
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		files[entryPath] = body
		return nil
	}

	if encoding == EncodingZip {
		if err := walkZip(content, add); err != nil {
			return nil, err
		}
		return files, nil
	}
	if err := walkTar(content, encoding, add); err != nil {
		return nil, err
	}
	return files, nil
}

type entryFunc func(name string, size int64, open func() (io.ReadCloser, error)) error

func walkZip(content []byte, fn entryFunc) error {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return err
	}
	for _, file := range reader.File {
		if !file.Mode().IsRegular() {
			continue
		}
		if err := fn(file.Name, int64(file.UncompressedSize64), file.Open); err != nil {
			return err
		}
	}
	return nil
}

func walkTar(content []byte, encoding string, fn entryFunc) error {
	reader, closer, err := openArchiveReader(content, encoding)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !header.FileInfo().Mode().IsRegular() {
			continue
		}
		err = fn(header.Name, header.Size, func() (io.ReadCloser, error) {
			return io.NopCloser(tarReader), nil
		})
		if err != nil {
			return err
		}
	}
}

func openArchiveReader(content []byte, encoding string) (io.Reader, io.Closer, error) {
	var baseReader io.Reader = bytes.NewReader(content)
	switch encoding {
	case EncodingTarGzip:
		gzipReader, err := gzip.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		return gzipReader, gzipReader, nil
	case EncodingTarXz:
		xzReader, err := xz.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		return xzReader, nil, nil
	case EncodingTarZstd:
		zstdReader, err := zstd.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		return zstdReader, zstdCloser{zstdReader}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported archive encoding %q", encoding)
	}
}

type zstdCloser struct {
	decoder *zstd.Decoder
}

func (c zstdCloser) Close() error {
	c.decoder.Close()
	return nil
}

// normalizeArchiveEntryName cleans an entry name and rejects names that
// escape the archive root.
func normalizeArchiveEntryName(value string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(value, `\`, "/"))
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("invalid archive entry path %q", value)
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("archive entry path escapes root: %q", value)
	}
	return cleaned, nil
}

func stripComponents(entryPath string, n int) (string, bool) {
	for i := 0; i < n; i++ {
		_, rest, ok := strings.Cut(entryPath, "/")
		if !ok {
			return "", false
		}
		entryPath = rest
	}
	return entryPath, entryPath != ""
}
