package resource

import (
	"archive/zip"
	"fmt"
	"io"
)

// ZipStore serves fixtures from a zip archive. Entry names are matched
// case-insensitively. It is read-only.
type ZipStore struct {
	*FSStore
	closer io.Closer
}

// OpenZip opens the archive at path. The caller must Close the store.
func OpenZip(path string) (*ZipStore, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture archive %s: %w", path, err)
	}
	return &ZipStore{
		FSStore: NewFSStore(&rc.Reader, WithCaseInsensitive()),
		closer:  rc,
	}, nil
}

// NewZipStore reads an archive from r.
func NewZipStore(r io.ReaderAt, size int64) (*ZipStore, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture archive: %w", err)
	}
	return &ZipStore{FSStore: NewFSStore(zr, WithCaseInsensitive())}, nil
}

// Close releases the underlying archive file, if any.
func (s *ZipStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
