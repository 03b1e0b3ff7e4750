package resource

import (
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultListPattern matches every fixture record.
const DefaultListPattern = "**/*.response.json"

// list matches pattern against fsys and returns regular files only,
// sorted, skipping in-flight temporary files.
func list(fsys fs.FS, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultListPattern
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := matches[:0]
	for _, m := range matches {
		if strings.HasSuffix(m, ".tmp") {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}
