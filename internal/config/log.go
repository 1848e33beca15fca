package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetLogLevel installs the default logger. LOG_LEVEL picks the level and
// LOG_FORMAT=json switches from text to JSON output.
func SetLogLevel() {
	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		slog.Error("Invalid log level", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stderr, level, os.Getenv("LOG_FORMAT")))
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToUpper(value) {
	case "":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", value)
	}
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
