package repositories

import (
	"errors"

	"grocery-manager/internal/models"
)

// ErrNotFound is returned when no row matches the lookup
var ErrNotFound = errors.New("record not found")

// ListFilter narrows a collection listing. Empty fields match everything.
type ListFilter struct {
	UserID string
	Query  string
}

// ItemRepositoryInterface defines the contract for item repository operations
type ItemRepositoryInterface interface {
	Create(item *models.Item) error
	GetByID(category models.Category, id string) (*models.Item, error)
	List(category models.Category, filter ListFilter) ([]models.Item, error)
	Update(item *models.Item) error
	Delete(category models.Category, id string) error
	Count(category models.Category) (int64, error)
}

// TitleRepositoryInterface defines the contract for title repository operations
type TitleRepositoryInterface interface {
	Create(title *models.Title) error
	GetByID(id string) (*models.Title, error)
	List(filter ListFilter) ([]models.Title, error)
	Update(title *models.Title) error
	Delete(id string) error
}
