// Package logging configures slog for the two run modes: the TUI logs to a
// file only, the headless server to the file and stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/luki/sensores/internal/config"
)

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init builds the logger. With stdout set, records also go to os.Stdout
// and a log file that cannot be opened is reported and skipped. Without it
// the file is the only sink, so failing to open it is an error. The
// returned closer closes the log file; it is never nil on success.
func Init(cfg config.LogConfig, stdout bool) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var writers []io.Writer
	if stdout {
		writers = append(writers, os.Stdout)
	}

	var closer io.Closer = nopCloser{}
	var fileErr error
	if cfg.File != "" {
		f, err := openFile(cfg.File)
		switch {
		case err == nil:
			writers = append(writers, f)
			closer = f
		case stdout:
			fileErr = err
		default:
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = io.MultiWriter(writers...)
	}
	logger := slog.New(slog.NewTextHandler(w, opts))
	if fileErr != nil {
		logger.Warn("log file unavailable, logging to stdout only", "file", cfg.File, "error", fileErr)
	}

	// make legacy stdlib log align to our writers too
	log.SetOutput(w)
	return logger, closer, nil
}

func openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
