package store

import (
	"context"
	"time"

	"grocery-manager/internal/models"
)

// StoreInterface is the view layer's handle on the grocery state
type StoreInterface interface {
	// RefreshAll reloads every category and the titles in parallel and replaces
	// the snapshot only if all fetches succeed
	RefreshAll(ctx context.Context, userID string) error

	// AddItem validates the draft, creates it remotely and appends the result
	AddItem(ctx context.Context, category models.Category, draft Draft, userID string) (Item, error)

	// UpdateItem replaces an existing item remotely and in place locally
	UpdateItem(ctx context.Context, category models.Category, id string, draft Draft, userID string) (Item, error)

	// DeleteItem removes an existing item remotely and locally
	DeleteItem(ctx context.Context, category models.Category, id string, userID string) error

	// RenameCategory persists the title remotely and then applies it locally
	RenameCategory(ctx context.Context, category models.Category, title string, userID string) error

	// Search queries the backend for a category's items matching query. The
	// snapshot's items are not changed.
	Search(ctx context.Context, category models.Category, query string, userID string) ([]Item, error)

	Snapshot() Snapshot
	Items(category models.Category) []Item
	Item(category models.Category, id string) (Item, bool)
	Title(category models.Category) string
	ComputeTotal(category models.Category) string
	ShareText(category models.Category) string
	Loading() bool
	LastError() string
}

// EventLoggerInterface records store events
type EventLoggerInterface interface {
	LogOperationCompleted(ctx context.Context, operation string, category models.Category, itemCount int, durationMs int64)
	LogOperationFailed(ctx context.Context, operation string, category models.Category, errorMsg string, durationMs int64)
	LogValidationFailure(ctx context.Context, operation string, errorMsg string)
	LogRefreshSuperseded(ctx context.Context, generation, current uint64)
}

// MetricsRecorderInterface records store metrics
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
