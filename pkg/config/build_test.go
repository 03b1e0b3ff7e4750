package config

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/getmockd/httpfixture/pkg/logging"
	"github.com/getmockd/httpfixture/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secretServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc","name":"ann"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestNewTransport_CaptureThenReplay(t *testing.T) {
	srv, calls := secretServer(t)
	dir := t.TempDir()

	capture := Default()
	capture.Mode = "capture"
	capture.Store.Path = dir
	capture.Callbacks.FilterExpression = `name startsWith "utm_"`
	capture.Callbacks.RedactPaths = []string{"$.token"}
	capture.Callbacks.RedactValue = "***"

	tr, err := capture.NewTransport(nil, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, fixture.ModeCapture, tr.Mode())

	resp, err := tr.Client().Get(srv.URL + "/profile?utm_source=mail&id=7")
	require.NoError(t, err)
	body, err := fixture.ContentString(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"***","name":"ann"}`, body)
	assert.Equal(t, int32(1), calls.Load())

	replay := *capture
	replay.Mode = "replay"
	tr, err = replay.NewTransport(nil, nil)
	require.NoError(t, err)

	resp, err = tr.Client().Get(srv.URL + "/profile?id=7&utm_source=ads")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fixture.MarkerValue, resp.Header.Get(fixture.MarkerHeader))
	body, err = fixture.ContentString(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"***","name":"ann"}`, body)
	assert.Equal(t, int32(1), calls.Load())

	store, err := resource.NewFileStore(dir)
	require.NoError(t, err)
	files, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "127.0.0.1/profile", filepath.ToSlash(filepath.Dir(files[0])))
}

func TestNewTransport_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Mode = "sideways"
	_, err := cfg.NewTransport(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewTransport_CaptureNeedsWritableStore(t *testing.T) {
	cfg := Default()
	cfg.Mode = "capture"
	cfg.Store = StoreConfig{Kind: StoreDir, Path: t.TempDir()}

	_, err := cfg.NewTransport(nil, nil)
	assert.ErrorIs(t, err, resource.ErrReadOnly)
}

func TestNewTransport_MissingZip(t *testing.T) {
	cfg := Default()
	cfg.Store = StoreConfig{Kind: StoreZip, Path: filepath.Join(t.TempDir(), "missing.zip")}

	_, err := cfg.NewTransport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open store")
}

func TestOpenStore_Kinds(t *testing.T) {
	tests := []struct {
		store    StoreConfig
		writable bool
	}{
		{StoreConfig{Kind: StoreFile, Path: t.TempDir()}, true},
		{StoreConfig{Kind: StoreDir, Path: t.TempDir(), CaseInsensitive: true}, false},
		{StoreConfig{Kind: StoreMemory}, true},
	}
	for _, tt := range tests {
		t.Run(tt.store.Kind, func(t *testing.T) {
			cfg := Default()
			cfg.Store = tt.store
			store, err := cfg.OpenStore()
			require.NoError(t, err)
			_, ok := store.(resource.WritableStore)
			assert.Equal(t, tt.writable, ok)
		})
	}
}

func TestBuildCallbacks_Defaults(t *testing.T) {
	cb, err := Default().BuildCallbacks()
	require.NoError(t, err)
	assert.True(t, cb.FilterParameter("apikey", "x"))
	assert.False(t, cb.FilterParameter("q", "x"))
}

func TestBuildCallbacks_Overrides(t *testing.T) {
	off := false
	cfg := Default()
	cfg.Callbacks.FilterSensitive = &off
	cfg.Callbacks.FilterParameters = []string{"Session"}

	cb, err := cfg.BuildCallbacks()
	require.NoError(t, err)
	assert.False(t, cb.FilterParameter("apikey", "x"))
	assert.True(t, cb.FilterParameter("session", "x"))
}
