package store

import (
	"grocery-manager/internal/dto"
	"grocery-manager/internal/validation"
)

// Draft holds user-entered item fields before they are persisted. Text is
// kept as entered; only blank checks are applied.
type Draft struct {
	Name     string `json:"name" validate:"notblank"`
	Quantity string `json:"quantity" validate:"notblank"`
	Price    string `json:"price" validate:"notblank"`
	Notes    string `json:"notes"`
}

// Validate returns a *ValidationError naming every blank required field
func (d Draft) Validate() error {
	if err := validation.GetValidator().Struct(d); err != nil {
		if fields := validation.FieldErrors(err); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

func (d Draft) record(userID string) dto.ItemRecord {
	return dto.ItemRecord{
		Name:     d.Name,
		Quantity: dto.FlexString(d.Quantity),
		Price:    dto.FlexString(d.Price),
		Notes:    d.Notes,
		UserID:   userID,
	}
}

type titleDraft struct {
	Title string `json:"title" validate:"notblank,max=255"`
}

func validateTitle(title string) error {
	if err := validation.GetValidator().Struct(titleDraft{Title: title}); err != nil {
		if fields := validation.FieldErrors(err); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}
