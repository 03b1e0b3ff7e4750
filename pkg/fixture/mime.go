package fixture

import (
	"mime"
	"strings"
)

// mimeExtensions maps media types to content file extensions. Media types
// missing from the map are not persisted.
var mimeExtensions = map[string]string{
	"application/json":         ".json",
	"text/json":                ".json",
	"application/xml":          ".xml",
	"text/xml":                 ".xml",
	"text/html":                ".html",
	"text/plain":               ".txt",
	"text/css":                 ".css",
	"text/csv":                 ".csv",
	"text/javascript":          ".js",
	"application/javascript":   ".js",
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/svg+xml":            ".svg",
	"application/pdf":          ".pdf",
	"application/octet-stream": ".bin",
}

// ExtensionForMIMEType returns the content file extension for a
// Content-Type header value. Parameters such as charset are ignored, and
// structured syntax suffixes (+json, +xml) map to their base format.
func ExtensionForMIMEType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}
	if mediaType == "" {
		return "", false
	}
	if ext, ok := mimeExtensions[mediaType]; ok {
		return ext, true
	}
	switch {
	case strings.HasSuffix(mediaType, "+json"):
		return ".json", true
	case strings.HasSuffix(mediaType, "+xml"):
		return ".xml", true
	}
	return "", false
}
