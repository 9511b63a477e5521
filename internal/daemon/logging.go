package daemon

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config log_level to a slog level. Unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the daemon's text logger. The returned LevelVar lets a
// config reload change verbosity in place.
func NewLogger(w io.Writer, level string) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	return slog.New(handler), lv
}
