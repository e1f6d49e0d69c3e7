package logging

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps LOG_LEVEL values to slog levels; unknown values mean info.
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

// Setup installs the global slog logger: JSON to stdout at level, plus any
// extra sinks such as a DBHandler.
func Setup(level string, sinks ...slog.Handler) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	var handler slog.Handler = stdout
	if len(sinks) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{stdout}, sinks...)...)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
