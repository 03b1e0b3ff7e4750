package fixture

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionForMIMEType(t *testing.T) {
	tests := []struct {
		contentType string
		ext         string
		ok          bool
	}{
		{"application/json", ".json", true},
		{"application/json; charset=utf-8", ".json", true},
		{"Application/JSON", ".json", true},
		{"application/problem+json", ".json", true},
		{"application/atom+xml", ".xml", true},
		{"text/xml", ".xml", true},
		{"text/plain; charset=us-ascii", ".txt", true},
		{"text/html", ".html", true},
		{"image/jpeg", ".jpg", true},
		{"application/octet-stream", ".bin", true},
		{"video/mp4", "", false},
		{"", "", false},
		{"garbage;;", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			ext, ok := ExtensionForMIMEType(tt.contentType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestPackageResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/v1/items?b=2&a=1#frag", nil)
	key := DeriveKey(req.URL, req.Method, nil, nil)
	resp := &http.Response{
		StatusCode: http.StatusCreated,
		ProtoMajor: 2,
		ProtoMinor: 0,
		Header: http.Header{
			"Content-Type":   {"application/json"},
			"Content-Length": {"12"},
			"X-Request-Id":   {"abc", "def"},
			"Date":           {"Mon, 02 Jan 2006 15:04:05 GMT"},
			"X-From-Fixture": {"1"},
			"X-Api-Key":      {"secret"},
		},
	}

	rec := PackageResponse(req, resp, key, DefaultCallbacks().FilterParameter)

	assert.Equal(t, HTTPVersion{Major: 2, Minor: 0}, rec.HTTPVersion)
	assert.Equal(t, http.StatusCreated, rec.StatusCode)
	assert.Equal(t, "https://api.example.com/v1/items", rec.BaseURI)
	assert.Equal(t, "a=1&b=2", rec.Query)
	require.NotNil(t, rec.ContentFileName)
	assert.Equal(t, key.LongName+".content.json", *rec.ContentFileName)

	assert.Equal(t, []string{"abc", "def"}, rec.ResponseHeaders["X-Request-Id"])
	assert.Contains(t, rec.ResponseHeaders, "Date")
	assert.NotContains(t, rec.ResponseHeaders, "X-From-Fixture")
	assert.NotContains(t, rec.ResponseHeaders, "X-Api-Key")
	assert.Equal(t, []string{"application/json"}, rec.ContentHeaders["Content-Type"])
	assert.Equal(t, []string{"12"}, rec.ContentHeaders["Content-Length"])
	assert.NotContains(t, rec.ResponseHeaders, "Content-Type")
}

func TestPackageResponse_UnmappedContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com/video", nil)
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"video/mp4"}},
	}

	rec := PackageResponse(req, resp, DeriveKey(req.URL, req.Method, nil, nil), nil)

	assert.Nil(t, rec.ContentFileName)
	assert.Equal(t, HTTPVersion{Major: 1, Minor: 1}, rec.HTTPVersion)
}

func TestRecord_JSONLayout(t *testing.T) {
	name := "GET.content.json"
	rec := &ResponseRecord{
		HTTPVersion:     HTTPVersion{Major: 1, Minor: 1},
		StatusCode:      200,
		BaseURI:         "https://www.example.com/HelloWorldService",
		ContentFileName: &name,
		ResponseHeaders: map[string][]string{"X-Custom": {"v"}},
		ContentHeaders:  map[string][]string{"Content-Type": {"application/json"}},
	}

	data, err := MarshalRecord(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"HttpVersion": {"Major": 1, "Minor": 1},
		"StatusCode": 200,
		"BaseUri": "https://www.example.com/HelloWorldService",
		"Query": "",
		"ContentFileName": "GET.content.json",
		"ResponseHeaders": {"X-Custom": ["v"]},
		"ContentHeaders": {"Content-Type": ["application/json"]}
	}`, string(data))

	parsed, err := ParseRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec, parsed)
}

func TestParseRecord_Invalid(t *testing.T) {
	_, err := ParseRecord([]byte(`{ not json`))
	assert.Error(t, err)

	_, err = ParseRecord([]byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseRecord([]byte(`{"StatusCode": 200, "ContentFileName": null}`))
	assert.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../secret.json", "a/b.json", `a\b.json`} {
		data, err := json.Marshal(map[string]any{"StatusCode": 200, "ContentFileName": name})
		require.NoError(t, err)
		_, err = ParseRecord(data)
		assert.ErrorIs(t, err, ErrMalformedRecord, "content file name %q", name)
	}
}

func TestReconstruct(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com/x", nil)
	rec := &ResponseRecord{
		HTTPVersion: HTTPVersion{Major: 1, Minor: 0},
		StatusCode:  http.StatusAccepted,
		ResponseHeaders: map[string][]string{
			"x-weird header": {"value with\ttab"},
			"x-multi":        {"a", "b"},
		},
		ContentHeaders: map[string][]string{
			"Content-Type":   {"text/plain"},
			"Content-Length": {"999"},
		},
	}

	resp := Reconstruct(req, rec, []byte("hello"))

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "202 Accepted", resp.Status)
	assert.Equal(t, "HTTP/1.0", resp.Proto)
	assert.Same(t, req, resp.Request)
	assert.Equal(t, int64(5), resp.ContentLength)
	assert.Equal(t, "5", resp.Header.Get("Content-Length"))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, resp.Header.Values("X-Multi"))
	assert.Equal(t, []string{"value with\ttab"}, resp.Header["x-weird header"])

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestReconstruct_NoContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "https://example.com/x", nil)
	resp := Reconstruct(req, &ResponseRecord{StatusCode: http.StatusNoContent}, nil)

	assert.Equal(t, "HTTP/1.1", resp.Proto)
	assert.Empty(t, resp.Header.Get("Content-Length"))
	assert.Equal(t, int64(0), resp.ContentLength)
}

func TestReconstruct_KeepsStoredLengthWithoutBody(t *testing.T) {
	name := "HEAD.content.json"
	stored := map[string][]string{"Content-Length": {"42"}}

	head := httptest.NewRequest(http.MethodHead, "https://example.com/x", nil)
	resp := Reconstruct(head, &ResponseRecord{StatusCode: http.StatusOK, ContentFileName: &name, ContentHeaders: stored}, nil)
	assert.Equal(t, "42", resp.Header.Get("Content-Length"))
	assert.Equal(t, int64(42), resp.ContentLength)

	get := httptest.NewRequest(http.MethodGet, "https://example.com/x", nil)
	resp = Reconstruct(get, &ResponseRecord{StatusCode: http.StatusOK, ContentHeaders: stored}, nil)
	assert.Equal(t, "42", resp.Header.Get("Content-Length"))

	// A persisted body that turned out empty still reports its real length.
	resp = Reconstruct(get, &ResponseRecord{StatusCode: http.StatusOK, ContentFileName: &name, ContentHeaders: stored}, nil)
	assert.Equal(t, "0", resp.Header.Get("Content-Length"))
}
