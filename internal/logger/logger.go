// Package logger owns process-wide slog configuration for allockit tools.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger instance. It discards all output until Init enables it.
var L = slog.New(slog.DiscardHandler)

// Options configures the logger initialization.
type Options struct {
	Verbose bool       // Text records to Stderr at debug level
	File    string     // JSON records appended to this file; takes precedence over Verbose
	Level   slog.Level // Minimum level for File output. Default: LevelInfo
	Stderr  io.Writer  // Destination for Verbose output. Default: os.Stderr
}

// Init configures L and returns a function that releases any opened file.
// With neither Verbose nor File set, all output is discarded.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return noop, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return noop, err
		}
		level := opts.Level
		if level == 0 {
			level = slog.LevelInfo
		}
		L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		return f.Close, nil
	}

	if opts.Verbose {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return noop, nil
	}

	L = slog.New(slog.DiscardHandler)
	return noop, nil
}
