package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the app's logger from the configured level and format.
// The logger is owned by the App rather than installed globally, so
// concurrent model runs in tests log in isolation. Unrecognized levels
// fall back to info; the CLI validates its input before this point, and
// programmatic callers get a sane default instead of a hard failure.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(formatStr, "json") {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
