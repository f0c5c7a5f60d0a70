// Package logging builds metasys's two loggers: the operator-facing
// diagnostic logger (JSON, stderr, gated by -v count) and the
// supervisor's own on-disk log file, one timestamped line per record.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the diagnostic *slog.Logger used for CLI-mode errors and
// operator-facing messages that happen before (or independent of) the
// daemon log file being open. level follows the -v repeat count: 0 is
// warn, 1 is info, 2+ is debug.
func New(verbosity int, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: levelForVerbosity(verbosity)}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func levelForVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// ValidateLevel reports whether s names a recognized slog level.
func ValidateLevel(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", s)
	}
}

// DaemonLogger opens logPath in append mode and returns a *slog.Logger
// backed by LineHandler, plus a cleanup function that closes the file.
// This is the supervisor's own metasys.log, never the diagnostic
// logger returned by New.
func DaemonLogger(logPath string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %s: %w", logPath, err)
	}
	logger := slog.New(NewLineHandler(f))
	return logger, func() { f.Close() }, nil
}
