package repositories

import (
	"errors"
	"fmt"

	"grocery-manager/internal/models"

	"gorm.io/gorm"
)

// ItemRepository handles database operations for grocery items
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepositoryInterface {
	return &ItemRepository{
		db: db,
	}
}

// Create inserts the item at the end of its category
func (r *ItemRepository) Create(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Item{}).
			Where("category = ?", item.Category).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read item position: %w", err)
		}

		item.Position = last + 1
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an item of the category by its ID
func (r *ItemRepository) GetByID(category models.Category, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.Where("category = ? AND id = ?", category, id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return &item, nil
}

// List returns the category's items in insertion order
func (r *ItemRepository) List(category models.Category, filter ListFilter) ([]models.Item, error) {
	query := r.db.Model(&models.Item{}).Where("category = ?", category)

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Query != "" {
		pattern := containsPattern(filter.Query)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(notes) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	items := []models.Item{}
	if err := query.Order("position ASC").Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// Update replaces the editable fields of an existing item
func (r *ItemRepository) Update(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	result := r.db.Model(item).
		Where("category = ?", item.Category).
		Select("name", "quantity", "price", "notes", "user_id", "updated_at").
		Updates(item)
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an item from its category
func (r *ItemRepository) Delete(category models.Category, id string) error {
	result := r.db.Where("category = ? AND id = ?", category, id).Delete(&models.Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of items in the category
func (r *ItemRepository) Count(category models.Category) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Item{}).Where("category = ?", category).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
