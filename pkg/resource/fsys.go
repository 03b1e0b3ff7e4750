package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
)

// FSStore serves fixtures from an fs.FS. It is read-only.
//
// With case-insensitive matching enabled, the file tree is indexed once on
// first use and names are compared after folding to lower case.
type FSStore struct {
	fsys            fs.FS
	caseInsensitive bool

	once     sync.Once
	index    map[string]string
	indexErr error
}

// FSOption configures an FSStore.
type FSOption func(*FSStore)

// WithCaseInsensitive enables case-insensitive name matching.
func WithCaseInsensitive() FSOption {
	return func(s *FSStore) { s.caseInsensitive = true }
}

// NewFSStore creates a read-only store over fsys.
func NewFSStore(fsys fs.FS, opts ...FSOption) *FSStore {
	s := &FSStore{fsys: fsys}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FSStore) buildIndex() {
	s.index = make(map[string]string)
	s.indexErr = fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			s.index[strings.ToLower(p)] = p
		}
		return nil
	})
}

// resolve maps folder/name to the actual entry name. ok is false when no
// entry matches.
func (s *FSStore) resolve(folder, name string) (string, bool, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return "", false, err
	}
	if !s.caseInsensitive {
		return p, true, nil
	}
	s.once.Do(s.buildIndex)
	if s.indexErr != nil {
		return "", false, fmt.Errorf("failed to index fixtures: %w", s.indexErr)
	}
	actual, ok := s.index[strings.ToLower(p)]
	return actual, ok, nil
}

// Exists implements Store.
func (s *FSStore) Exists(folder, name string) (bool, error) {
	p, ok, err := s.resolve(folder, name)
	if err != nil || !ok {
		return false, err
	}
	info, err := fs.Stat(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Open implements Store.
func (s *FSStore) Open(folder, name string) (io.ReadCloser, bool, error) {
	p, ok, err := s.resolve(folder, name)
	if err != nil || !ok {
		return nil, false, err
	}
	f, err := s.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// List implements Lister.
func (s *FSStore) List(pattern string) ([]string, error) {
	return list(s.fsys, pattern)
}
