package resource

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
)

// DefaultJoinChar joins folder segments and file name into a resource name.
const DefaultJoinChar = "."

// EmbeddedStore serves fixtures from a flat resource bundle, typically an
// embed.FS. The fixture at folder "www.example.com/Hello" with name
// "GET.response.json" is looked up as the single entry
// "www.example.com.Hello.GET.response.json" inside Dir.
type EmbeddedStore struct {
	fsys     fs.FS
	dir      string
	joinChar string
}

// NewEmbeddedStore creates a read-only store over the entries of fsys
// below dir ("" or "." for the top level).
func NewEmbeddedStore(fsys fs.FS, dir string) *EmbeddedStore {
	if dir == "" {
		dir = "."
	}
	return &EmbeddedStore{fsys: fsys, dir: dir, joinChar: DefaultJoinChar}
}

// ResourceName returns the flat entry name for folder/name.
func (s *EmbeddedStore) ResourceName(folder, name string) (string, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(p, "/", s.joinChar), nil
}

func (s *EmbeddedStore) entry(folder, name string) (string, error) {
	resName, err := s.ResourceName(folder, name)
	if err != nil {
		return "", err
	}
	return path.Join(s.dir, resName), nil
}

// Exists implements Store.
func (s *EmbeddedStore) Exists(folder, name string) (bool, error) {
	p, err := s.entry(folder, name)
	if err != nil {
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
func (s *EmbeddedStore) Open(folder, name string) (io.ReadCloser, bool, error) {
	p, err := s.entry(folder, name)
	if err != nil {
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

// List implements Lister. Patterns match the flat resource names.
func (s *EmbeddedStore) List(pattern string) ([]string, error) {
	sub, err := fs.Sub(s.fsys, s.dir)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		pattern = "*.response.json"
	}
	return list(sub, pattern)
}
