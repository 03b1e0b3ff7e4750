package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps fixtures in a directory tree on disk.
//
// Save writes to a uniquely named temporary file in the destination folder
// and renames it over the target, so concurrent readers see either the old
// or the new file, never a partial one. Concurrent writers to the same name
// resolve last-writer-wins.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first Save if it does not exist yet.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("fixture directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture directory: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) filename(folder, name string) (string, error) {
	rel, err := cleanPath(folder, name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// Exists implements Store.
func (s *FileStore) Exists(folder, name string) (bool, error) {
	filename, err := s.filename(folder, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Open implements Store.
func (s *FileStore) Open(folder, name string) (io.ReadCloser, bool, error) {
	filename, err := s.filename(folder, name)
	if err != nil {
		return nil, false, err
	}
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// Save implements WritableStore.
func (s *FileStore) Save(folder, name string, content io.Reader) error {
	filename, err := s.filename(folder, name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile := filename + "." + uuid.NewString() + ".tmp"
	f, err := os.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpFile, filename); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// List implements Lister.
func (s *FileStore) List(pattern string) ([]string, error) {
	if _, err := os.Stat(s.root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return list(os.DirFS(s.root), pattern)
}
