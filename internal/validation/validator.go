package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"grocery-manager/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("category", validateCategory)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct and returns validator.ValidationErrors on failure
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldErrors flattens a validation error into field -> message pairs.
// Returns nil when err is not a validator.ValidationErrors.
func FieldErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = FormatFieldError(fe)
	}
	return fields
}

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "category":
		return "must be one of: fruitVeg, meat, beverages, bathing"
	default:
		return "failed validation for '" + fe.Tag() + "'"
	}
}

// validateNotBlank rejects empty and whitespace-only strings
func validateNotBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateCategory validates that the value is one of the fixed category keys
func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).IsValid()
}
