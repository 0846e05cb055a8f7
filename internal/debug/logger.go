package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	writer io.Writer = io.Discard
	logger           = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// SetOutput sets the debug output destination.
// Level and format come from LOG_LEVEL (debug|info|warn|error) and LOG_FORMAT (text|json).
func SetOutput(w io.Writer) {
	writer = w
	logger = slog.New(newHandler(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
	slog.SetDefault(logger)
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	lvl := slog.LevelDebug
	switch strings.ToLower(level) {
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// L returns the debug logger
func L() *slog.Logger {
	return logger
}

// Log writes a printf-style debug message
func Log(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...))
}

// Warn records a recoverable failure with structured attributes
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return writer != io.Discard && logger.Enabled(context.Background(), slog.LevelDebug)
}
