package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrItemNameRequired     = errors.New("item name is required")
	ErrItemCategoryRequired = errors.New("item category is invalid")
)

// Item is a persisted grocery line. Quantity and price are kept as the text
// the user entered; totals parse them on read.
type Item struct {
	ID        string    `gorm:"type:varchar(36);primary_key" json:"id"`
	Category  Category  `gorm:"type:varchar(32);not null;index:idx_items_category_user,priority:1" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  string    `gorm:"type:varchar(64);not null" json:"quantity"`
	Price     string    `gorm:"type:varchar(64);not null" json:"price"`
	Notes     string    `gorm:"type:text" json:"notes"`
	UserID    string    `gorm:"type:varchar(255);index:idx_items_category_user,priority:2" json:"userId,omitempty"`
	Position  int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// BeforeCreate assigns the identifier and timestamps
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = now
	}

	return i.Validate()
}

// BeforeUpdate hook for Item
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return i.Validate()
}

// Validate validates the item fields
func (i *Item) Validate() error {
	if !i.Category.IsValid() {
		return ErrItemCategoryRequired
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrItemNameRequired
	}
	return nil
}

// Matches reports whether the free-text query appears in the name or notes
func (i *Item) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(i.Name), q) ||
		strings.Contains(strings.ToLower(i.Notes), q)
}
