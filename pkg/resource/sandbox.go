package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// SandboxStore serves fixtures from a per-application data directory.
// All access goes through an os.Root, so no fixture name can reach
// outside the sandbox, symlinks included. It is read-only.
type SandboxStore struct {
	root *os.Root
	dir  string
}

// SandboxDir returns the fixture directory reserved for app, following
// the XDG base directory rules on Linux and the platform conventions on
// macOS and Windows.
func SandboxDir(app string) string {
	return filepath.Join(dataHome(), app, "fixtures")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support")
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return appData
		}
		return filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(home, ".local", "share")
}

// OpenSandbox opens the sandbox of app. The directory must already exist.
func OpenSandbox(app string) (*SandboxStore, error) {
	if app == "" || filepath.Base(app) != app {
		return nil, fmt.Errorf("%w: application name %q", ErrInvalidName, app)
	}
	return OpenSandboxDir(SandboxDir(app))
}

// OpenSandboxDir opens a sandbox rooted at dir.
func OpenSandboxDir(dir string) (*SandboxStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open sandbox %s: %w", dir, err)
	}
	return &SandboxStore{root: root, dir: dir}, nil
}

// Dir returns the sandbox directory.
func (s *SandboxStore) Dir() string {
	return s.dir
}

// Exists implements Store.
func (s *SandboxStore) Exists(folder, name string) (bool, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return false, err
	}
	info, err := s.root.Stat(filepath.FromSlash(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Open implements Store.
func (s *SandboxStore) Open(folder, name string) (io.ReadCloser, bool, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return nil, false, err
	}
	f, err := s.root.Open(filepath.FromSlash(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// List implements Lister.
func (s *SandboxStore) List(pattern string) ([]string, error) {
	return list(s.root.FS(), pattern)
}

// Close releases the sandbox root.
func (s *SandboxStore) Close() error {
	return s.root.Close()
}
