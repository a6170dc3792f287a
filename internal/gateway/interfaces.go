package gateway

import (
	"context"

	"grocery-manager/internal/dto"
	"grocery-manager/internal/models"
)

// ListOptions narrows a list call. Empty fields are not sent.
type ListOptions struct {
	UserID string
	Query  string
}

// GatewayInterface translates store intents into operations on the list
// backend's flat collections. Implementations hold no list state.
type GatewayInterface interface {
	// ListItems returns the records of one item collection in backend order
	ListItems(ctx context.Context, category models.Category, opts ListOptions) ([]dto.ItemRecord, error)

	// GetItem fetches one record; ErrNotFound when absent
	GetItem(ctx context.Context, category models.Category, id string) (dto.ItemRecord, error)

	// CreateItem persists a record and returns it with its assigned identifier
	CreateItem(ctx context.Context, category models.Category, record dto.ItemRecord) (dto.ItemRecord, error)

	// ReplaceItem replaces the full record at id; ErrNotFound when absent
	ReplaceItem(ctx context.Context, category models.Category, id string, record dto.ItemRecord) (dto.ItemRecord, error)

	// RemoveItem deletes the record at id. A missing id counts as deleted.
	RemoveItem(ctx context.Context, category models.Category, id string) error

	// ListTitles returns the records of the titles collection
	ListTitles(ctx context.Context, opts ListOptions) ([]dto.TitleRecord, error)

	// CreateTitle persists a new title record
	CreateTitle(ctx context.Context, record dto.TitleRecord) (dto.TitleRecord, error)

	// ReplaceTitle replaces the title record at id; ErrNotFound when absent
	ReplaceTitle(ctx context.Context, id string, record dto.TitleRecord) (dto.TitleRecord, error)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() CircuitBreakerState
	Reset()
	GetFailureCount() int
}
