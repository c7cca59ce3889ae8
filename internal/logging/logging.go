package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options selects the handler used by New.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	App    string
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}

	return level, nil
}

// New builds a logger writing to w and tagging every record with the app name.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler

	switch opts.Format {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With("app", opts.App)
	}

	return logger, nil
}

// Setup builds the logger and installs it as the slog default.
func Setup(w io.Writer, opts Options) error {
	logger, err := New(w, opts)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	return nil
}
