package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/todo/internal/config"
	"github.com/thenoetrevino/todo/internal/docstore"
	"github.com/thenoetrevino/todo/internal/metrics"
	taskservice "github.com/thenoetrevino/todo/internal/services/task"
	"github.com/thenoetrevino/todo/internal/telemetry"
	"github.com/thenoetrevino/todo/internal/web"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// Data access layer, built once per process
	Store *docstore.DB

	Metrics   *metrics.Metrics
	Telemetry *telemetry.Provider

	// Service layer (business logic)
	TaskService taskservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	ac := appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&ac)
	}

	tp, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	driver := ac.driver
	if driver == nil {
		driver, err = openDriver(ctx, cfg.Store, ac.logger)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, err
		}
	}

	m := metrics.New(cfg.Metrics.Enabled)
	store := docstore.New(driver,
		docstore.WithLogger(ac.logger),
		docstore.WithTracer(tp.Tracer),
		docstore.WithRecorder(m),
	)

	ac.logger.Debug("application initialized",
		"driver", cfg.Store.Driver,
		"metrics", m.Enabled(),
		"exporter", cfg.Telemetry.Exporter,
	)

	return &App{
		cfg:         cfg,
		logger:      ac.logger,
		Store:       store,
		Metrics:     m,
		Telemetry:   tp,
		TaskService: taskservice.NewService(store),
	}, nil
}

// openDriver connects to the configured document store.
func openDriver(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (docstore.Driver, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		driver, err := docstore.OpenSQLite(ctx, cfg.SQLitePath, docstore.WithSQLiteLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return driver, nil
	case config.DriverMongo:
		driver, err := docstore.OpenMongo(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		return driver, nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// Config returns the configuration the application was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Server builds the web server over the task service.
func (a *App) Server() *web.Server {
	return web.NewServer(a.cfg.HTTP, a.TaskService,
		web.WithLogger(a.logger),
		web.WithTracerProvider(a.Telemetry.TracerProvider),
		web.WithMetrics(a.Metrics),
	)
}

// Close releases the store connection and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Store.Close(ctx),
		a.Telemetry.Shutdown(ctx),
	)
}
