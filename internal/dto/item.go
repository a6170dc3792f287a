package dto

import (
	"grocery-manager/internal/models"
)

// ItemRecord is the wire shape of an item in any of the four item collections
type ItemRecord struct {
	ID       FlexString `json:"id,omitempty"`
	Name     string     `json:"name"`
	Quantity FlexString `json:"quantity"`
	Price    FlexString `json:"price"`
	Notes    string     `json:"notes"`
	UserID   string     `json:"userId,omitempty"`
}

// ItemRequest is the body accepted by POST and PUT on an item collection
type ItemRequest struct {
	Name     string     `json:"name" validate:"notblank,max=255"`
	Quantity FlexString `json:"quantity" validate:"notblank,max=64"`
	Price    FlexString `json:"price" validate:"notblank,max=64"`
	Notes    string     `json:"notes"`
	UserID   string     `json:"userId,omitempty" validate:"max=255"`
}

// ToModel converts the request into a persistence model for the category
func (r *ItemRequest) ToModel(category models.Category) *models.Item {
	return &models.Item{
		Category: category,
		Name:     r.Name,
		Quantity: r.Quantity.String(),
		Price:    r.Price.String(),
		Notes:    r.Notes,
		UserID:   r.UserID,
	}
}

// NewItemRecord converts a persistence model to its wire shape
func NewItemRecord(item *models.Item) ItemRecord {
	return ItemRecord{
		ID:       FlexString(item.ID),
		Name:     item.Name,
		Quantity: FlexString(item.Quantity),
		Price:    FlexString(item.Price),
		Notes:    item.Notes,
		UserID:   item.UserID,
	}
}

// NewItemRecords converts a slice of persistence models
func NewItemRecords(items []models.Item) []ItemRecord {
	records := make([]ItemRecord, 0, len(items))
	for i := range items {
		records = append(records, NewItemRecord(&items[i]))
	}
	return records
}
