package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithRequest returns a logger with chat request fields attached.
// Use this for all logging within one concierge pipeline run.
func WithRequest(requestID, role string) *slog.Logger {
	return slog.With(
		"request_id", requestID,
		"role", role,
	)
}

// WithStore returns a logger scoped to a record store backend.
func WithStore(backend string) *slog.Logger {
	return slog.With("store", backend)
}
