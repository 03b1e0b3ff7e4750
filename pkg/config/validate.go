package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/ohler55/ojg/jp"
)

var validLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validFormats = map[string]bool{
	"":     true,
	"text": true,
	"json": true,
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Mode != "" {
		if _, err := fixture.ParseMode(c.Mode); err != nil {
			errs = append(errs, fmt.Errorf("mode: %w", err))
		}
	}

	errs = append(errs, c.Store.validate()...)

	if c.Callbacks.FilterExpression != "" {
		if _, err := CompileFilter(c.Callbacks.FilterExpression); err != nil {
			errs = append(errs, fmt.Errorf("callbacks.filterExpression: %w", err))
		}
	}
	for i, p := range c.Callbacks.RedactPaths {
		if _, err := jp.ParseString(p); err != nil {
			errs = append(errs, fmt.Errorf("callbacks.redactPaths[%d]: %w", i, err))
		}
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (s StoreConfig) validate() []error {
	var errs []error
	switch s.kind() {
	case StoreFile, StoreDir, StoreZip:
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for kind %s", s.kind()))
		}
	case StoreSandbox:
		if s.App == "" {
			errs = append(errs, errors.New("store.app is required for kind sandbox"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("store.kind: unknown kind %q", s.Kind))
	}
	if s.CaseInsensitive && s.kind() != StoreDir && s.kind() != StoreZip {
		errs = append(errs, fmt.Errorf("store.caseInsensitive is not supported for kind %s", s.kind()))
	}
	return errs
}

func (s StoreConfig) kind() string {
	if s.Kind == "" {
		return StoreFile
	}
	return strings.ToLower(s.Kind)
}
