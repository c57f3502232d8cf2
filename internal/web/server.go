// Package web serves the to-do pages over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/thenoetrevino/todo/internal/config"
	taskservice "github.com/thenoetrevino/todo/internal/services/task"
)

// Server hosts the web handlers.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	tracerProvider  trace.TracerProvider
	metrics         MetricsHandler
	handler         http.Handler
	httpServer      *http.Server
}

// MetricsHandler records requests and exposes the collected metrics.
type MetricsHandler interface {
	HTTPRecorder
	Enabled() bool
	Handler() http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and failure logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider sets the provider for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// WithMetrics records requests and mounts GET /metrics when m is enabled.
func WithMetrics(m MetricsHandler) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer builds the server for cfg. Nothing listens until ListenAndServe.
func NewServer(cfg config.HTTPConfig, tasks taskservice.Service, opts ...Option) *Server {
	s := &Server{
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          slog.Default(),
		tracerProvider:  nooptrace.NewTracerProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()
	h := &handlers{tasks: tasks, logger: s.logger}
	h.register(mux)

	var recorder HTTPRecorder
	if s.metrics != nil && s.metrics.Enabled() {
		mux.Handle("GET /metrics", s.metrics.Handler())
		recorder = s.metrics
	}

	s.handler = Chain(mux,
		RecoverPanic(s.logger),
		RequestID(),
		Trace(s.tracerProvider),
		Observe(s.logger, recorder),
	)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until ctx ends.
//
// On cancellation it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	s.logger.Info("web server listening", "addr", ln.Addr().String())
	go func() {
		serveErr <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info("web server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
