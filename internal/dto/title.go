package dto

import (
	"grocery-manager/internal/models"
)

// TitleRecord is the wire shape of a record in the titles collection
type TitleRecord struct {
	ID       FlexString      `json:"id,omitempty"`
	Category models.Category `json:"category"`
	Title    string          `json:"title"`
	UserID   string          `json:"userId,omitempty"`
}

// TitleRequest is the body accepted by POST and PUT on the titles collection
type TitleRequest struct {
	Category string `json:"category" validate:"required,category"`
	Title    string `json:"title" validate:"max=255"`
	UserID   string `json:"userId,omitempty" validate:"max=255"`
}

// ToModel converts the request into a persistence model
func (r *TitleRequest) ToModel() *models.Title {
	return &models.Title{
		Category: models.Category(r.Category),
		Title:    r.Title,
		UserID:   r.UserID,
	}
}

// NewTitleRecord converts a persistence model to its wire shape
func NewTitleRecord(title *models.Title) TitleRecord {
	return TitleRecord{
		ID:       FlexString(title.ID),
		Category: title.Category,
		Title:    title.Title,
		UserID:   title.UserID,
	}
}

// NewTitleRecords converts a slice of persistence models
func NewTitleRecords(titles []models.Title) []TitleRecord {
	records := make([]TitleRecord, 0, len(titles))
	for i := range titles {
		records = append(records, NewTitleRecord(&titles[i]))
	}
	return records
}
