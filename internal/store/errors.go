package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"grocery-manager/internal/gateway"
	"grocery-manager/internal/models"
)

var (
	// ErrNotFound is returned when an id is not in the category, either locally
	// or according to the backend
	ErrNotFound = errors.New("item not found")

	// ErrRefreshSuperseded is returned by a refresh that a newer refresh replaced.
	// The snapshot and the error slot are left as the newer refresh sets them.
	ErrRefreshSuperseded = errors.New("refresh superseded by a newer refresh")
)

// ValidationError reports malformed local input. No network call is made and
// the store's error slot is not touched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+e.Fields[field])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// RemoteError wraps a gateway failure surfaced through the store's error slot
type RemoteError struct {
	Op       string
	Category models.Category
	Err      error
}

func (e *RemoteError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Category, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets a backend 404 match ErrNotFound
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && gateway.IsNotFound(e.Err)
}

func categoryError(category models.Category) error {
	return &ValidationError{Fields: map[string]string{
		"category": fmt.Sprintf("unknown category %q", string(category)),
	}}
}
