package fixture

import (
	"net/http"
	"strings"
	"time"
)

// ParameterFilter reports whether a query parameter (or header) should be
// left out of keys and records. Name and value arrive lower-cased.
type ParameterFilter func(name, value string) bool

// SerializeFunc rewrites a live response body before it is persisted.
type SerializeFunc func(resp *http.Response, content []byte) ([]byte, error)

// DeserializeFunc rewrites a stored body after it is loaded. It may also
// mutate the in-memory record; the change is never written back.
type DeserializeFunc func(rec *ResponseRecord, content []byte) ([]byte, error)

// Callbacks is the policy applied around storage. A nil field falls back
// to the corresponding hook of DefaultCallbacks, so callers set only the
// hooks they need.
type Callbacks struct {
	// FilterParameter drops parameters from the key and the stored Query.
	FilterParameter ParameterFilter
	// OnSerializing runs on a captured body before it is stored.
	OnSerializing SerializeFunc
	// OnDeserialized runs on a stored body before it is served.
	OnDeserialized DeserializeFunc
}

// SensitiveParameters are the names filtered when
// CallbackOptions.FilterCommonSensitiveValues is set.
var SensitiveParameters = []string{
	"x-api-key",
	"api-key",
	"api_key",
	"apikey",
	"key",
	"subscription-key",
	"access_token",
	"accesstoken",
	"refresh_token",
	"id_token",
	"client_secret",
	"password",
	"passwd",
	"pwd",
	"secret",
	"signature",
	"sig",
	"token",
	"authorization",
}

// CallbackOptions configures NewCallbacks.
type CallbackOptions struct {
	// FilterCommonSensitiveValues filters SensitiveParameters.
	FilterCommonSensitiveValues bool

	// SetHeaderDate rewrites a stored Date response header to the current
	// time on load.
	SetHeaderDate bool

	// ExtraParameters are filtered in addition to SensitiveParameters.
	ExtraParameters []string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultCallbackOptions enables sensitive value filtering and Date
// rewriting.
func DefaultCallbackOptions() CallbackOptions {
	return CallbackOptions{
		FilterCommonSensitiveValues: true,
		SetHeaderDate:               true,
	}
}

// DefaultCallbacks returns NewCallbacks(DefaultCallbackOptions()).
func DefaultCallbacks() Callbacks {
	return NewCallbacks(DefaultCallbackOptions())
}

// NewCallbacks builds the standard policy. Bodies pass through
// OnSerializing unchanged.
func NewCallbacks(opts CallbackOptions) Callbacks {
	filtered := make(map[string]bool)
	if opts.FilterCommonSensitiveValues {
		for _, name := range SensitiveParameters {
			filtered[name] = true
		}
	}
	for _, name := range opts.ExtraParameters {
		filtered[strings.ToLower(name)] = true
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Callbacks{
		FilterParameter: func(name, _ string) bool {
			return filtered[name]
		},
		OnSerializing: func(_ *http.Response, content []byte) ([]byte, error) {
			return content, nil
		},
		OnDeserialized: func(rec *ResponseRecord, content []byte) ([]byte, error) {
			if opts.SetHeaderDate {
				refreshDate(rec, now())
			}
			return content, nil
		},
	}
}

// refreshDate replaces the value of a Date response header, if present.
func refreshDate(rec *ResponseRecord, now time.Time) {
	for name := range rec.ResponseHeaders {
		if strings.EqualFold(name, "Date") {
			rec.ResponseHeaders[name] = []string{now.UTC().Format(http.TimeFormat)}
		}
	}
}

// withDefaults fills nil hooks from DefaultCallbacks.
func (c Callbacks) withDefaults() Callbacks {
	defaults := DefaultCallbacks()
	if c.FilterParameter == nil {
		c.FilterParameter = defaults.FilterParameter
	}
	if c.OnSerializing == nil {
		c.OnSerializing = defaults.OnSerializing
	}
	if c.OnDeserialized == nil {
		c.OnDeserialized = defaults.OnDeserialized
	}
	return c
}

// Chain runs filters in order and reports true if any of them does.
func Chain(filters ...ParameterFilter) ParameterFilter {
	return func(name, value string) bool {
		for _, f := range filters {
			if f != nil && f(name, value) {
				return true
			}
		}
		return false
	}
}
