package fixturetest

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/getmockd/httpfixture/pkg/config"
	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/getmockd/httpfixture/pkg/resource"
)

// DefaultDir is the fixture directory used when none is configured.
var DefaultDir = filepath.Join("testdata", "fixtures")

// Recorder is a test helper wrapping a fixture transport. It logs every
// request it handles so tests can assert on them.
type Recorder struct {
	t  testing.TB
	tr *fixture.Transport

	mu       sync.Mutex
	requests []RequestLog
}

type options struct {
	mode      fixture.Mode
	dir       string
	store     resource.Store
	callbacks fixture.Callbacks
	next      http.RoundTripper
	logger    *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithMode sets the mode, overriding HTTPFIXTURE_MODE.
func WithMode(mode fixture.Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithDir stores fixtures in dir, overriding HTTPFIXTURE_DIR.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithStore uses store instead of a directory.
func WithStore(store resource.Store) Option {
	return func(o *options) { o.store = store }
}

// WithCallbacks sets the callback policy.
func WithCallbacks(cb fixture.Callbacks) Option {
	return func(o *options) { o.callbacks = cb }
}

// WithTransport sets the transport used for live calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.next = rt }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Recorder. Configuration errors fail the test immediately.
// The transport is closed when the test completes.
func New(t testing.TB, opts ...Option) *Recorder {
	t.Helper()

	o := options{dir: DefaultDir}
	if dir := os.Getenv(config.EnvDir); dir != "" {
		o.dir = dir
	}
	if mode := os.Getenv(config.EnvMode); mode != "" {
		m, err := fixture.ParseMode(mode)
		if err != nil {
			t.Fatalf("fixturetest: %s: %v", config.EnvMode, err)
		}
		o.mode = m
	}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		fileStore, err := resource.NewFileStore(o.dir)
		if err != nil {
			t.Fatalf("fixturetest: %v", err)
		}
		store = fileStore
	}

	tr, err := fixture.NewTransport(fixture.Options{
		Mode:      o.mode,
		Store:     store,
		Transport: o.next,
		Callbacks: o.callbacks,
		Logger:    o.logger,
	})
	if err != nil {
		t.Fatalf("fixturetest: %v", err)
	}

	r := &Recorder{t: t, tr: tr}
	t.Cleanup(func() { _ = tr.Close() })
	return r
}

// Transport returns the underlying fixture transport.
func (r *Recorder) Transport() *fixture.Transport {
	return r.tr
}

// Mode returns the mode in effect.
func (r *Recorder) Mode() fixture.Mode {
	return r.tr.Mode()
}

// Client returns an http.Client whose requests go through the recorder.
func (r *Recorder) Client() *http.Client {
	return &http.Client{Transport: r}
}

// RoundTrip implements http.RoundTripper.
func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	entry := RequestLog{
		Method:      req.Method,
		Host:        req.URL.Hostname(),
		Path:        req.URL.Path,
		QueryString: req.URL.RawQuery,
	}
	resp, err := r.tr.RoundTrip(req)
	if err != nil {
		entry.Err = err
	} else {
		entry.StatusCode = resp.StatusCode
		entry.FromFixture = resp.Header.Get(fixture.MarkerHeader) != ""
	}

	r.mu.Lock()
	r.requests = append(r.requests, entry)
	r.mu.Unlock()
	return resp, err
}

// Requests returns a copy of the requests handled so far.
func (r *Recorder) Requests() []RequestLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RequestLog, len(r.requests))
	copy(out, r.requests)
	return out
}

// Reset clears the request log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.requests = nil
	r.mu.Unlock()
}

// AssertCalled asserts that an endpoint was called at least once.
func (r *Recorder) AssertCalled(t testing.TB, method, path string) {
	t.Helper()

	count := r.countCalls(method, path)
	if count == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (r *Recorder) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()

	count := r.countCalls(method, path)
	if count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (r *Recorder) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()

	count := r.countCalls(method, path)
	if count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

// AssertAllFromFixtures asserts that every response so far came from
// storage, and none of them was a fixture miss.
func (r *Recorder) AssertAllFromFixtures(t testing.TB) {
	t.Helper()

	for _, req := range r.Requests() {
		req.AssertFromFixture(t)
	}
}

func (r *Recorder) countCalls(method, path string) int {
	count := 0
	for _, req := range r.Requests() {
		if strings.EqualFold(req.Method, method) && matchesPath(req.Path, path) {
			count++
		}
	}
	return count
}

// matchesPath checks if a request path matches the expected path pattern.
// Supports exact matching and path parameters ({id} patterns).
func matchesPath(actual, expected string) bool {
	if actual == expected {
		return true
	}

	actualParts := strings.Split(actual, "/")
	expectedParts := strings.Split(expected, "/")

	if len(actualParts) != len(expectedParts) {
		return false
	}

	for i := range expectedParts {
		exp := expectedParts[i]
		if strings.HasPrefix(exp, "{") && strings.HasSuffix(exp, "}") {
			continue
		}
		if exp != actualParts[i] {
			return false
		}
	}

	return true
}
