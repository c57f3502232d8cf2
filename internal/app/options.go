package app

import (
	"log/slog"

	"github.com/thenoetrevino/todo/internal/docstore"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	driver docstore.Driver
	logger *slog.Logger
}

// WithDriver uses driver instead of opening the configured store.
// The App takes ownership and closes it.
func WithDriver(driver docstore.Driver) Option {
	return func(cfg *appConfig) {
		cfg.driver = driver
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}
