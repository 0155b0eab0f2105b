package assistant

import (
	"context"
	"log/slog"

	"fgperfume/internal/models"
)

// QueryStore is where customer questions are appended
type QueryStore interface {
	AddQueryLog(ctx context.Context, query string, timestamp int64) (models.UserQueryLog, error)
}

// QueryLogger appends every customer question to the store
type QueryLogger struct {
	store QueryStore
}

// NewQueryLogger creates a logger writing to s
func NewQueryLogger(s QueryStore) *QueryLogger {
	return &QueryLogger{store: s}
}

// Record appends query. Failures are logged and never returned.
func (l *QueryLogger) Record(ctx context.Context, query string, timestamp int64) {
	if _, err := l.store.AddQueryLog(ctx, query, timestamp); err != nil {
		slog.Warn("failed to log user query", "error", err)
	}
}
