package fixturetest

import (
	"net/http"
	"net/url"
	"testing"
)

// RequestLog is a request handled by a Recorder.
type RequestLog struct {
	Method      string
	Host        string
	Path        string
	QueryString string
	// StatusCode is zero when the round trip failed.
	StatusCode int
	// FromFixture reports whether the response was served from storage.
	FromFixture bool
	Err         error
}

// AssertFromFixture asserts that the request was answered by a stored
// fixture rather than a live call or a fixture miss.
func (r RequestLog) AssertFromFixture(t testing.TB) {
	t.Helper()

	switch {
	case r.Err != nil:
		t.Errorf("%s %s failed: %v", r.Method, r.Path, r.Err)
	case !r.FromFixture:
		t.Errorf("%s %s was not served from a fixture", r.Method, r.Path)
	case r.StatusCode == http.StatusNotFound:
		t.Errorf("%s %s has no fixture (404)", r.Method, r.Path)
	}
}

// AssertStatus asserts the response status code.
func (r RequestLog) AssertStatus(t testing.TB, expected int) {
	t.Helper()

	if r.StatusCode != expected {
		t.Errorf("%s %s: expected status %d, got %d", r.Method, r.Path, expected, r.StatusCode)
	}
}

// AssertQueryParam asserts that the request carried a query parameter with
// the expected value.
func (r RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	values, err := url.ParseQuery(r.QueryString)
	if err != nil {
		t.Errorf("failed to parse query %q: %v", r.QueryString, err)
		return
	}
	if !values.Has(key) {
		t.Errorf("expected query param %q to exist, but it was not found", key)
		return
	}
	if actual := values.Get(key); actual != expected {
		t.Errorf("query param %q does not match\nexpected: %q\nactual: %q", key, expected, actual)
	}
}
