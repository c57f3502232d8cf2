package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thenoetrevino/todo/internal/app"
	"github.com/thenoetrevino/todo/internal/config"
	"github.com/thenoetrevino/todo/internal/logging"
)

type contextKey string

const appKey contextKey = "app"

// ErrNoApp is returned when a command runs without an application.
var ErrNoApp = errors.New("application not initialized")

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	Logger *slog.Logger

	owned     bool
	logCloser io.Closer
}

// WithApp makes GetCLIFromContext reuse application instead of building one.
// The caller keeps ownership of application.
func WithApp(ctx context.Context, application *app.App) context.Context {
	return context.WithValue(ctx, appKey, application)
}

// NewCLI loads configuration, sets up logging and opens the configured store.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	application, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		// Restores the default loggers before the file goes away.
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return &CLI{
		App:       application,
		Config:    cfg,
		Logger:    logger,
		owned:     true,
		logCloser: logCloser,
	}, nil
}

// GetCLIFromContext returns a CLI around the application stored by WithApp,
// or builds a new one.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if application, ok := ctx.Value(appKey).(*app.App); ok {
		if application == nil {
			return nil, ErrNoApp
		}
		return &CLI{
			App:    application,
			Config: application.Config(),
			Logger: slog.Default(),
		}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources
func (c *CLI) Close(ctx context.Context) error {
	if !c.owned {
		return nil
	}
	return errors.Join(c.App.Close(ctx), c.logCloser.Close())
}
