package resource

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Common errors
var (
	ErrReadOnly    = errors.New("store is read-only")
	ErrInvalidName = errors.New("invalid fixture name")
)

// Store is the read path every backend provides.
type Store interface {
	// Exists reports whether folder/name holds a fixture file.
	Exists(folder, name string) (bool, error)

	// Open returns a stream over folder/name. ok is false when the file
	// does not exist, in which case rc is nil and err is nil.
	Open(folder, name string) (rc io.ReadCloser, ok bool, err error)
}

// WritableStore is implemented by backends that can persist captures.
type WritableStore interface {
	Store

	// Save writes content to folder/name, creating intermediate folders.
	Save(folder, name string, content io.Reader) error
}

// Lister is implemented by backends that can enumerate their files.
type Lister interface {
	// List returns slash-separated paths matching a doublestar pattern.
	List(pattern string) ([]string, error)
}

// Load reads folder/name fully.
func Load(s Store, folder, name string) ([]byte, bool, error) {
	rc, ok, err := s.Open(folder, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path.Join(folder, name), err)
	}
	return data, true, nil
}

// LoadString reads folder/name as text.
func LoadString(s Store, folder, name string) (string, bool, error) {
	data, ok, err := Load(s, folder, name)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(data), true, nil
}

// cleanPath joins folder and name into a slash path relative to a store
// root. Empty, "." and ".." segments are rejected so a fixture cannot
// address anything outside the root.
func cleanPath(folder, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	var segments []string
	if folder != "" {
		for _, seg := range strings.Split(strings.ReplaceAll(folder, `\`, "/"), "/") {
			switch seg {
			case "":
				continue
			case ".", "..":
				return "", fmt.Errorf("%w: folder %q", ErrInvalidName, folder)
			}
			segments = append(segments, seg)
		}
	}
	if name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path.Join(append(segments, name)...), nil
}
