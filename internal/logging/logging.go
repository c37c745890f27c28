// Package logging builds the slog loggers shared by the cpusched commands.
// Reports go to stdout, so logs default to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func NewLogger(level slog.Level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter returns a JSON logger when format is "json" and a text
// logger for anything else.
func NewLoggerWithWriter(level slog.Level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel reads a --log-level value. It accepts slog's names, offsets such
// as "debug+2", and "warning". Unknown values mean info.
func ParseLevel(s string) slog.Level {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}
