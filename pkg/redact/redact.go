// Package redact scrubs secrets out of captured bodies before they are
// stored as fixtures.
package redact

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultReplacement is written in place of redacted values.
const DefaultReplacement = "[REDACTED]"

// JSONPaths returns a serializing hook that replaces every value matched
// by one of paths with replacement in JSON bodies. Bodies that are not
// JSON, or do not parse, are returned unchanged. An invalid path is
// reported when the hook is built.
func JSONPaths(paths []string, replacement string) (func(*http.Response, []byte) ([]byte, error), error) {
	if replacement == "" {
		replacement = DefaultReplacement
	}
	exprs := make([]jp.Expr, 0, len(paths))
	for _, p := range paths {
		x, err := jp.ParseString(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction path %q: %w", p, err)
		}
		exprs = append(exprs, x)
	}

	return func(resp *http.Response, content []byte) ([]byte, error) {
		if len(exprs) == 0 || len(content) == 0 || !isJSON(resp) {
			return content, nil
		}
		data, err := oj.Parse(content)
		if err != nil {
			return content, nil
		}
		changed, err := Apply(data, exprs, replacement)
		if err != nil || !changed {
			return content, err
		}
		return oj.Marshal(data)
	}, nil
}

// Apply replaces, in place, the values matched by exprs in a parsed JSON
// document. Paths that match nothing are skipped rather than created.
func Apply(data any, exprs []jp.Expr, replacement string) (bool, error) {
	changed := false
	for _, x := range exprs {
		if len(x.Get(data)) == 0 {
			continue
		}
		if err := x.Set(data, replacement); err != nil {
			return changed, fmt.Errorf("failed to redact %s: %w", x.String(), err)
		}
		changed = true
	}
	return changed, nil
}

func isJSON(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "text/json" || strings.HasSuffix(mediaType, "+json")
}
