package store

import (
	"context"
	"log/slog"
	"time"

	"grocery-manager/internal/gateway"
	"grocery-manager/internal/models"
)

// EventLogger provides structured logging for store operations
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger creates a new store event logger
func NewEventLogger(logger *slog.Logger) EventLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogger{logger: logger}
}

// LogOperationCompleted logs a committed operation
func (l *EventLogger) LogOperationCompleted(ctx context.Context, operation string, category models.Category, itemCount int, durationMs int64) {
	l.logger.InfoContext(ctx, "store operation committed",
		slog.String("event_type", operation+"_committed"),
		slog.String("category", category.String()),
		slog.Int("item_count", itemCount),
		slog.Int64("duration_ms", durationMs),
		slog.String("trace_id", traceID(ctx)),
	)
}

// LogOperationFailed logs a gateway failure that left the snapshot unchanged
func (l *EventLogger) LogOperationFailed(ctx context.Context, operation string, category models.Category, errorMsg string, durationMs int64) {
	l.logger.WarnContext(ctx, "store operation failed",
		slog.String("event_type", operation+"_failed"),
		slog.String("category", category.String()),
		slog.String("error", errorMsg),
		slog.Int64("duration_ms", durationMs),
		slog.String("trace_id", traceID(ctx)),
	)
}

// LogValidationFailure logs input rejected before any network call
func (l *EventLogger) LogValidationFailure(ctx context.Context, operation string, errorMsg string) {
	l.logger.WarnContext(ctx, "validation failure",
		slog.String("event_type", "validation_failure"),
		slog.String("operation", operation),
		slog.String("error", errorMsg),
		slog.String("trace_id", traceID(ctx)),
	)
}

// LogRefreshSuperseded logs a refresh whose result was discarded
func (l *EventLogger) LogRefreshSuperseded(ctx context.Context, generation, current uint64) {
	l.logger.DebugContext(ctx, "refresh superseded",
		slog.String("event_type", "refresh_superseded"),
		slog.Uint64("generation", generation),
		slog.Uint64("current_generation", current),
		slog.Time("timestamp", time.Now()),
	)
}

func traceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(gateway.TraceIDKey{}).(string); ok {
		return id
	}
	return ""
}
