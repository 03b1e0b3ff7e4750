package fixture

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/httpfixture/pkg/logging"
	"github.com/getmockd/httpfixture/pkg/resource"
)

// Resolver finds the stored response for a request. It holds no state of
// its own beyond its collaborators and is safe for concurrent use.
type Resolver struct {
	store     resource.Store
	callbacks Callbacks
	hash      HashFunc
	logger    *slog.Logger
}

// NewResolver creates a Resolver over store. Nil hooks in callbacks use
// the defaults; a nil hash uses SHA1Hex; a nil logger discards output.
func NewResolver(store resource.Store, callbacks Callbacks, hash HashFunc, logger *slog.Logger) *Resolver {
	if hash == nil {
		hash = SHA1Hex
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{
		store:     store,
		callbacks: callbacks.withDefaults(),
		hash:      hash,
		logger:    logger,
	}
}

// Key derives the fixture key of req.
func (r *Resolver) Key(req *http.Request) RequestKey {
	return DeriveKey(req.URL, req.Method, r.callbacks.FilterParameter, r.hash)
}

// Resolve returns the stored response for req, or a synthesized 404
// carrying req when nothing matches. The result always carries the marker
// header.
func (r *Resolver) Resolve(req *http.Request) (*http.Response, error) {
	resp, found, err := r.Lookup(req)
	if err != nil {
		return nil, err
	}
	if !found {
		r.logger.Debug("no fixture", "method", req.Method, "url", req.URL.String())
		resp = notFound(req)
		resp.Header.Set(MarkerHeader, MarkerValue)
	}
	return resp, nil
}

// Lookup is Resolve without the 404 fallback: found is false when no tier
// matched.
func (r *Resolver) Lookup(req *http.Request) (*http.Response, bool, error) {
	return r.lookup(req, r.Key(req))
}

// lookup tries, for the long name and then the short name, a full record
// followed by a bare content fixture. Corrupt records count as absent.
func (r *Resolver) lookup(req *http.Request, key RequestKey) (*http.Response, bool, error) {
	for tier, name := range key.Names() {
		rec, err := r.loadRecord(key.Folder, name)
		if err != nil {
			return nil, false, err
		}
		if rec == nil {
			rec, err = r.bareContent(req, key.Folder, name)
			if err != nil {
				return nil, false, err
			}
		}
		if rec == nil {
			continue
		}

		resp, err := r.respond(req, key.Folder, rec)
		if err != nil {
			return nil, false, err
		}
		r.logger.Debug("serving fixture",
			"method", req.Method,
			"url", req.URL.String(),
			"folder", key.Folder,
			"fixture", name,
			"tier", tier,
		)
		return resp, true, nil
	}
	return nil, false, nil
}

// loadRecord returns nil when the record is missing or corrupt.
func (r *Resolver) loadRecord(folder, name string) (*ResponseRecord, error) {
	data, ok, err := resource.Load(r.store, folder, RecordName(name))
	if err != nil || !ok {
		return nil, err
	}
	rec, err := ParseRecord(data)
	if err != nil {
		r.logger.Warn("skipping corrupt fixture",
			"folder", folder,
			"fixture", RecordName(name),
			"error", err,
		)
		return nil, nil
	}
	return rec, nil
}

func (r *Resolver) bareContent(req *http.Request, folder, name string) (*ResponseRecord, error) {
	contentName := BareContentName(name)
	ok, err := r.store.Exists(folder, contentName)
	if err != nil || !ok {
		return nil, err
	}
	return bareContentRecord(req, contentName), nil
}

func (r *Resolver) respond(req *http.Request, folder string, rec *ResponseRecord) (*http.Response, error) {
	var content []byte
	if rec.ContentFileName != nil {
		data, ok, err := resource.Load(r.store, folder, *rec.ContentFileName)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.logger.Warn("fixture content missing",
				"folder", folder,
				"content", *rec.ContentFileName,
			)
		}
		content = data
	}

	content, err := r.callbacks.OnDeserialized(rec, content)
	if err != nil {
		return nil, err
	}

	resp := Reconstruct(req, rec, content)
	resp.Header.Set(MarkerHeader, MarkerValue)
	return resp, nil
}
