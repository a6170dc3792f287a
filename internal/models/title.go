package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTitleCategoryInvalid = errors.New("title category is invalid")

// Title is a user-edited label for one category
type Title struct {
	ID        string    `gorm:"type:varchar(36);primary_key" json:"id"`
	Category  Category  `gorm:"type:varchar(32);not null;index:idx_titles_category_user,priority:1" json:"category"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	UserID    string    `gorm:"type:varchar(255);index:idx_titles_category_user,priority:2" json:"userId,omitempty"`
	Position  int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// BeforeCreate hook for Title
func (t *Title) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Title
func (t *Title) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the title fields. An empty title is allowed.
func (t *Title) Validate() error {
	if !t.Category.IsValid() {
		return ErrTitleCategoryInvalid
	}
	return nil
}

// Matches reports whether the free-text query appears in the title
func (t *Title) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(query))
}
