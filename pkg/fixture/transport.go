package fixture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/getmockd/httpfixture/pkg/logging"
	"github.com/getmockd/httpfixture/pkg/resource"
	"golang.org/x/sync/singleflight"
)

// Options configures a Transport.
type Options struct {
	// Mode is the operating mode. Defaults to ModeReplay.
	Mode Mode

	// Store holds the fixtures. Required unless Mode is ModeOnline.
	// ModeCapture and ModeAutomatic need a resource.WritableStore.
	Store resource.Store

	// Transport performs live calls. Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	// Callbacks is the storage policy. Nil hooks use DefaultCallbacks.
	Callbacks Callbacks

	// Hash names fixtures after their normalized query. Defaults to SHA1Hex.
	Hash HashFunc

	// Logger for fixture activity (nil = no logging).
	Logger *slog.Logger
}

// Transport is an http.RoundTripper that records and replays fixtures.
type Transport struct {
	mode      Mode
	store     resource.Store
	writer    resource.WritableStore
	next      http.RoundTripper
	callbacks Callbacks
	resolver  *Resolver
	logger    *slog.Logger

	locks  keyLocks
	flight singleflight.Group
}

var _ http.RoundTripper = (*Transport)(nil)

// NewTransport creates a Transport. Missing or unusable dependencies are
// reported here rather than on first use.
func NewTransport(opts Options) (*Transport, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeReplay
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if opts.Store == nil && mode != ModeOnline {
		return nil, ErrNoStore
	}

	var writer resource.WritableStore
	if mode.writes() {
		w, ok := opts.Store.(resource.WritableStore)
		if !ok {
			return nil, fmt.Errorf("%w: mode %s needs a writable store", resource.ErrReadOnly, mode)
		}
		writer = w
	}

	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logging.Component(logger, "fixture")
	callbacks := opts.Callbacks.withDefaults()

	return &Transport{
		mode:      mode,
		store:     opts.Store,
		writer:    writer,
		next:      next,
		callbacks: callbacks,
		resolver:  NewResolver(opts.Store, callbacks, opts.Hash, logger),
		logger:    logger,
		locks:     keyLocks{locks: make(map[string]*keyLock)},
	}, nil
}

// Mode returns the operating mode.
func (t *Transport) Mode() Mode {
	return t.mode
}

// Resolver returns the resolver reading t's store.
func (t *Transport) Resolver() *Resolver {
	return t.resolver
}

// Client returns an http.Client using t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// Close closes the store if it holds resources.
func (t *Transport) Close() error {
	if c, ok := t.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RoundTrip implements http.RoundTripper.
//
//	ModeOnline:     the live transport answers.
//	ModeCapture:    live call, persist, then answer from storage.
//	ModeReplay:     answer from storage; a miss is a 404.
//	ModeAutomatic:  replay when a fixture exists, capture otherwise.
//
// Responses answered from storage carry the marker header. Storage and
// transport errors are returned as they are.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.mode {
	case ModeOnline:
		return t.next.RoundTrip(req)
	case ModeCapture:
		return t.roundTripCapture(req)
	case ModeAutomatic:
		return t.roundTripAutomatic(req)
	default:
		return t.roundTripReplay(req)
	}
}

func (t *Transport) roundTripReplay(req *http.Request) (*http.Response, error) {
	closeRequestBody(req)
	resp, err := t.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}
	return serve(req, resp)
}

func (t *Transport) roundTripCapture(req *http.Request) (*http.Response, error) {
	key := t.resolver.Key(req)

	unlock := t.locks.lock(key.ID())
	defer unlock()

	if err := t.capture(req, key); err != nil {
		return nil, err
	}
	resp, err := t.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}
	return serve(req, resp)
}

func (t *Transport) roundTripAutomatic(req *http.Request) (*http.Response, error) {
	key := t.resolver.Key(req)

	resp, found, err := t.resolver.lookup(req, key)
	if err != nil {
		return nil, err
	}
	if found {
		closeRequestBody(req)
		return serve(req, resp)
	}

	// Concurrent misses on one key share a single live call. The shared
	// call outlives any one caller; each caller checks its own context in
	// serve.
	captured := false
	_, err, _ = t.flight.Do(key.ID(), func() (any, error) {
		captured = true
		unlock := t.locks.lock(key.ID())
		defer unlock()

		resp, found, err := t.resolver.lookup(req, key)
		if err != nil {
			return nil, err
		}
		if found {
			_ = resp.Body.Close()
			closeRequestBody(req)
			return nil, nil
		}
		shared := req.Clone(context.WithoutCancel(req.Context()))
		return nil, t.capture(shared, key)
	})
	if !captured {
		closeRequestBody(req)
	}
	if err != nil {
		return nil, err
	}

	resp, err = t.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}
	return serve(req, resp)
}

// capture performs the live call and persists its response under key.
// The content file is written before the record so a visible record never
// refers to missing content.
func (t *Transport) capture(req *http.Request, key RequestKey) error {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := req.Context().Err(); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	rec := PackageResponse(req, resp, key, t.callbacks.FilterParameter)
	content, err := t.callbacks.OnSerializing(resp, body)
	if err != nil {
		return err
	}

	if rec.ContentFileName != nil {
		if err := t.writer.Save(key.Folder, *rec.ContentFileName, bytes.NewReader(content)); err != nil {
			return err
		}
	}
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}
	if err := t.writer.Save(key.Folder, RecordName(key.LongName), bytes.NewReader(data)); err != nil {
		return err
	}

	t.logger.Info("captured fixture",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"folder", key.Folder,
		"fixture", RecordName(key.LongName),
	)
	return nil
}

// serve hands resp to the caller unless the request was canceled.
func serve(req *http.Request, resp *http.Response) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}

// keyLocks hands out one mutex per fixture key. Entries are dropped when
// no goroutine holds or waits for them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (l *keyLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	kl, ok := l.locks[id]
	if !ok {
		kl = &keyLock{}
		l.locks[id] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
