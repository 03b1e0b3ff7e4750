// Package logging builds the structured loggers used across httpfixture.
//
// It wraps log/slog. Components accept a *slog.Logger through their
// options; a nil logger means logging.Nop().
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger = logging.Component(logger, "fixture")
//	logger.Info("captured fixture", "folder", "api.example.com/v1")
package logging
