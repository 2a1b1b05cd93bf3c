package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs a JSON logger tagged with the service name as the slog default.
func InitLogger(serviceName, level string) *slog.Logger {
	return initLogger(os.Stdout, serviceName, level)
}

func initLogger(w io.Writer, serviceName, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	logger := slog.New(handler).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
