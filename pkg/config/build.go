package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/getmockd/httpfixture/pkg/logging"
	"github.com/getmockd/httpfixture/pkg/redact"
	"github.com/getmockd/httpfixture/pkg/resource"
)

// ParsedMode returns the configured mode, defaulting to replay.
func (c *Config) ParsedMode() (fixture.Mode, error) {
	if c.Mode == "" {
		return fixture.ModeReplay, nil
	}
	return fixture.ParseMode(c.Mode)
}

// OpenStore opens the configured backend. Stores that hold resources
// implement io.Closer.
func (c *Config) OpenStore() (resource.Store, error) {
	s := c.Store
	switch s.kind() {
	case StoreFile:
		return resource.NewFileStore(s.Path)
	case StoreDir:
		var opts []resource.FSOption
		if s.CaseInsensitive {
			opts = append(opts, resource.WithCaseInsensitive())
		}
		return resource.NewFSStore(os.DirFS(s.Path), opts...), nil
	case StoreZip:
		return resource.OpenZip(s.Path)
	case StoreSandbox:
		return resource.OpenSandbox(s.App)
	case StoreMemory:
		return resource.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, s.Kind)
	}
}

// BuildCallbacks assembles the callback policy.
func (c *Config) BuildCallbacks() (fixture.Callbacks, error) {
	cb := c.Callbacks

	opts := fixture.DefaultCallbackOptions()
	opts.FilterCommonSensitiveValues = boolOr(cb.FilterSensitive, true)
	opts.SetHeaderDate = boolOr(cb.SetHeaderDate, true)
	opts.ExtraParameters = cb.FilterParameters
	callbacks := fixture.NewCallbacks(opts)

	if cb.FilterExpression != "" {
		filter, err := CompileFilter(cb.FilterExpression)
		if err != nil {
			return fixture.Callbacks{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		callbacks.FilterParameter = fixture.Chain(callbacks.FilterParameter, filter)
	}

	if len(cb.RedactPaths) > 0 {
		hook, err := redact.JSONPaths(cb.RedactPaths, cb.RedactValue)
		if err != nil {
			return fixture.Callbacks{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		callbacks.OnSerializing = hook
	}

	return callbacks, nil
}

// Logger builds a logger writing to out.
func (c *Config) Logger(out io.Writer) *slog.Logger {
	return logging.New(logging.Config{
		Level:     logging.ParseLevel(c.Logging.Level),
		Format:    logging.ParseFormat(c.Logging.Format),
		Output:    out,
		AddSource: c.Logging.AddSource,
	})
}

// NewTransport validates the configuration and builds a fixture transport
// that performs live calls through next (nil = http.DefaultTransport).
func (c *Config) NewTransport(next http.RoundTripper, logger *slog.Logger) (*fixture.Transport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, err := c.ParsedMode()
	if err != nil {
		return nil, err
	}
	callbacks, err := c.BuildCallbacks()
	if err != nil {
		return nil, err
	}

	store, err := c.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	tr, err := fixture.NewTransport(fixture.Options{
		Mode:      mode,
		Store:     store,
		Transport: next,
		Callbacks: callbacks,
		Logger:    logger,
	})
	if err != nil {
		if closer, ok := store.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	return tr, nil
}
