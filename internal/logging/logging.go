package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thenoetrevino/todo/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// restoreCloser puts the previous loggers back before releasing the output,
// so nothing is left writing to a closed file.
type restoreCloser struct {
	closer   io.Closer
	logger   *slog.Logger
	logOut   io.Writer
	logFlags int
}

func (c *restoreCloser) Close() error {
	slog.SetDefault(c.logger)
	log.SetOutput(c.logOut)
	log.SetFlags(c.logFlags)
	return c.closer.Close()
}

// New builds the application logger from cfg, installs it as the slog default
// and redirects the standard log package to the same output.
// The returned Closer restores the previous loggers and releases the log
// file, if any.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}

		// Open log file in append mode
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out, closer = file, file
	}

	logger, err := NewWithWriter(out, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}

	restore := &restoreCloser{
		closer:   closer,
		logger:   slog.Default(),
		logOut:   log.Writer(),
		logFlags: log.Flags(),
	}

	slog.SetDefault(logger)
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return logger, restore, nil
}

// NewWithWriter builds a logger writing to w without touching globals.
func NewWithWriter(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// ParseLevel maps a config level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
