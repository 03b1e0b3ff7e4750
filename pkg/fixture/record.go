package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

// Marker header added to every response served from storage.
const (
	MarkerHeader = "X-From-Fixture"
	MarkerValue  = "1"
)

// contentHeaders are stored under ContentHeaders rather than ResponseHeaders.
var contentHeaders = map[string]bool{
	"Allow":               true,
	"Content-Disposition": true,
	"Content-Encoding":    true,
	"Content-Language":    true,
	"Content-Length":      true,
	"Content-Location":    true,
	"Content-Md5":         true,
	"Content-Range":       true,
	"Content-Type":        true,
	"Expires":             true,
	"Last-Modified":       true,
}

// HTTPVersion is the protocol version of a recorded response. Only major
// and minor are kept.
type HTTPVersion struct {
	Major int `json:"Major"`
	Minor int `json:"Minor"`
}

// ResponseRecord is the persisted form of a response (the response.json
// file). The body lives in a separate content file named by
// ContentFileName; nil means no body was persisted.
type ResponseRecord struct {
	HTTPVersion     HTTPVersion         `json:"HttpVersion"`
	StatusCode      int                 `json:"StatusCode"`
	BaseURI         string              `json:"BaseUri"`
	Query           string              `json:"Query"`
	ContentFileName *string             `json:"ContentFileName"`
	ResponseHeaders map[string][]string `json:"ResponseHeaders"`
	ContentHeaders  map[string][]string `json:"ContentHeaders"`
}

// PackageResponse builds the record of a live response to req. Headers
// named by filter, and the marker header, are left out.
func PackageResponse(req *http.Request, resp *http.Response, key RequestKey, filter ParameterFilter) *ResponseRecord {
	rec := &ResponseRecord{
		HTTPVersion:     HTTPVersion{Major: resp.ProtoMajor, Minor: resp.ProtoMinor},
		StatusCode:      resp.StatusCode,
		BaseURI:         baseURI(req.URL),
		Query:           key.Query,
		ResponseHeaders: make(map[string][]string),
		ContentHeaders:  make(map[string][]string),
	}
	if rec.HTTPVersion.Major == 0 {
		rec.HTTPVersion = HTTPVersion{Major: 1, Minor: 1}
	}

	for name, values := range resp.Header {
		if strings.EqualFold(name, MarkerHeader) {
			continue
		}
		if filter != nil && filter(strings.ToLower(name), "") {
			continue
		}
		target := rec.ResponseHeaders
		if contentHeaders[textproto.CanonicalMIMEHeaderKey(name)] {
			target = rec.ContentHeaders
		}
		target[name] = append([]string(nil), values...)
	}

	if ext, ok := ExtensionForMIMEType(resp.Header.Get("Content-Type")); ok {
		name := ContentName(key.LongName, ext)
		rec.ContentFileName = &name
	}
	return rec
}

func baseURI(u *url.URL) string {
	base := *u
	base.RawQuery = ""
	base.ForceQuery = false
	base.Fragment = ""
	base.RawFragment = ""
	base.User = nil
	return base.String()
}

// MarshalRecord encodes a record as indented JSON.
func MarshalRecord(rec *ResponseRecord) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// ParseRecord decodes a response.json payload.
func ParseRecord(data []byte) (*ResponseRecord, error) {
	var rec ResponseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse response record: %w", err)
	}
	if rec.StatusCode < 100 || rec.StatusCode > 999 {
		return nil, fmt.Errorf("%w: status code %d", ErrMalformedRecord, rec.StatusCode)
	}
	if rec.ContentFileName != nil && !validContentName(*rec.ContentFileName) {
		return nil, fmt.Errorf("%w: content file name %q", ErrMalformedRecord, *rec.ContentFileName)
	}
	return &rec, nil
}

// validContentName reports whether name is a plain file name inside the
// record's folder.
func validContentName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

// Reconstruct rebuilds a response to req from a record and its content.
// Stored header values are inserted without validation, so non-standard
// headers survive the round trip. Content-Length reflects content, except
// for bodiless records and HEAD requests, which keep the stored value.
func Reconstruct(req *http.Request, rec *ResponseRecord, content []byte) *http.Response {
	major, minor := rec.HTTPVersion.Major, rec.HTTPVersion.Minor
	if major == 0 {
		major, minor = 1, 1
	}

	header := make(http.Header, len(rec.ResponseHeaders)+len(rec.ContentHeaders)+1)
	addHeaders(header, rec.ResponseHeaders)
	addHeaders(header, rec.ContentHeaders)
	contentLength := int64(len(content))
	head := req != nil && req.Method == http.MethodHead
	keepStored := len(content) == 0 && (rec.ContentFileName == nil || head)
	if keepStored {
		if n, err := strconv.ParseInt(header.Get("Content-Length"), 10, 64); err == nil && head {
			contentLength = n
		}
	} else if len(content) > 0 || header["Content-Length"] != nil {
		header["Content-Length"] = []string{strconv.Itoa(len(content))}
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", rec.StatusCode, http.StatusText(rec.StatusCode)),
		StatusCode:    rec.StatusCode,
		Proto:         fmt.Sprintf("HTTP/%d.%d", major, minor),
		ProtoMajor:    major,
		ProtoMinor:    minor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(content)),
		ContentLength: contentLength,
		Request:       req,
	}
}

func addHeaders(dst http.Header, src map[string][]string) {
	for name, values := range src {
		key := textproto.CanonicalMIMEHeaderKey(name)
		dst[key] = append(dst[key], values...)
	}
}

// bareContentRecord describes a content-only fixture: a 200 JSON response
// with no captured headers.
func bareContentRecord(req *http.Request, name string) *ResponseRecord {
	return &ResponseRecord{
		HTTPVersion:     HTTPVersion{Major: 1, Minor: 1},
		StatusCode:      http.StatusOK,
		BaseURI:         baseURI(req.URL),
		ContentFileName: &name,
		ResponseHeaders: map[string][]string{},
		ContentHeaders:  map[string][]string{"Content-Type": {"application/json"}},
	}
}

// notFound synthesizes the response for a request without a fixture.
func notFound(req *http.Request) *http.Response {
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)),
		StatusCode: http.StatusNotFound,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
		Body:       http.NoBody,
		Request:    req,
	}
}
