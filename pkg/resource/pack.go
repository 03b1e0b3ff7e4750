package resource

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"sort"
)

// DefaultPackPattern selects every file of a fixture tree.
const DefaultPackPattern = "**"

// WriteZip archives the files of fsys matched by any of patterns
// (DefaultPackPattern when none are given) into w, in a layout ZipStore
// reads back. It returns the archived paths in order.
func WriteZip(w io.Writer, fsys fs.FS, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPackPattern}
	}

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := list(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)

	zw := zip.NewWriter(w)
	for _, name := range files {
		if err := addZipFile(zw, fsys, name); err != nil {
			_ = zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return files, nil
}

func addZipFile(zw *zip.Writer, fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	return nil
}
