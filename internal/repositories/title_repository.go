package repositories

import (
	"errors"
	"fmt"

	"grocery-manager/internal/models"

	"gorm.io/gorm"
)

// TitleRepository handles database operations for category titles
type TitleRepository struct {
	db *gorm.DB
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db *gorm.DB) TitleRepositoryInterface {
	return &TitleRepository{
		db: db,
	}
}

// Create inserts a title record after all existing ones
func (r *TitleRepository) Create(title *models.Title) error {
	if title == nil {
		return errors.New("title cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Title{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read title position: %w", err)
		}

		title.Position = last + 1
		if err := tx.Create(title).Error; err != nil {
			return fmt.Errorf("failed to create title: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a title record by its ID
func (r *TitleRepository) GetByID(id string) (*models.Title, error) {
	var title models.Title
	if err := r.db.Where("id = ?", id).First(&title).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get title by ID: %w", err)
	}

	return &title, nil
}

// List returns title records in insertion order
func (r *TitleRepository) List(filter ListFilter) ([]models.Title, error) {
	query := r.db.Model(&models.Title{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Query != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(filter.Query))
	}

	titles := []models.Title{}
	if err := query.Order("position ASC").Order("created_at ASC").Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}

	return titles, nil
}

// Update replaces the category, title and owner of an existing record
func (r *TitleRepository) Update(title *models.Title) error {
	if title == nil {
		return errors.New("title cannot be nil")
	}

	result := r.db.Model(title).
		Select("category", "title", "user_id", "updated_at").
		Updates(title)
	if result.Error != nil {
		return fmt.Errorf("failed to update title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a title record
func (r *TitleRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Title{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
