package bsdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// MaxDecompressedSize bounds the size of a single archive entry read back into
// memory by DecompressFile. Indexing streams entries and is not bounded by it.
const MaxDecompressedSize = 256 << 20

var decompressLimit int64 = MaxDecompressedSize

// Fixed entry timestamp so that compressing the same input twice yields identical bytes.
var archiveModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	errEmptyArchive  = errors.New("archive holds no file entry")
	errEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// CompressFile packs data into a single-entry Deflate zip archive whose entry
// is named after the base of entryName.
func CompressFile(entryName string, data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := zip.NewWriter(buf)
	entry, err := writer.CreateHeader(&zip.FileHeader{
		Name:     BaseName(entryName),
		Method:   zip.Deflate,
		Modified: archiveModTime,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create entry %q: %w", ErrCompression, entryName, err)
	}
	if _, err := entry.Write(data); err != nil {
		return nil, fmt.Errorf("%w: write entry %q: %w", ErrCompression, entryName, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: close archive %q: %w", ErrCompression, entryName, err)
	}
	return buf.Bytes(), nil
}

// DecompressFile returns the name and content of the first file entry in a
// zip archive.
func DecompressFile(data []byte) (string, []byte, error) {
	file, err := firstArchiveEntry(data)
	if err != nil {
		return "", nil, err
	}
	content, err := readArchiveEntry(file)
	if err != nil {
		return "", nil, fmt.Errorf("%w: entry %q: %w", ErrCompression, file.Name, err)
	}
	return file.Name, content, nil
}

// openCompressed streams the first file entry of a zip archive. Read errors
// are wrapped in ErrCompression.
func openCompressed(data []byte) (io.ReadCloser, error) {
	file, err := firstArchiveEntry(data)
	if err != nil {
		return nil, err
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: entry %q: %w", ErrCompression, file.Name, err)
	}
	return &entryReader{name: file.Name, rc: rc}, nil
}

func firstArchiveEntry(data []byte) (*zip.File, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompression, err)
	}
	for _, file := range reader.File {
		if !file.FileInfo().IsDir() {
			return file, nil
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrCompression, errEmptyArchive)
}

func readArchiveEntry(file *zip.File) ([]byte, error) {
	if file.UncompressedSize64 > uint64(decompressLimit) {
		return nil, errEntryTooLarge
	}
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	content, err := io.ReadAll(io.LimitReader(rc, decompressLimit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > decompressLimit {
		return nil, errEntryTooLarge
	}
	return content, nil
}

type entryReader struct {
	name string
	rc   io.ReadCloser
}

func (r *entryReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: entry %q: %w", ErrCompression, r.name, err)
	}
	return n, err
}

func (r *entryReader) Close() error {
	return r.rc.Close()
}
