package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the addressed record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrCircuitOpen is returned without a network call while the breaker is open
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// TransportError describes a failed call to the list backend: either the
// request never completed or the backend answered with a non-success status.
type TransportError struct {
	Op         string
	Resource   string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Resource, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.Resource, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
	default:
		return fmt.Sprintf("%s %s: transport failure", e.Op, e.Resource)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure says nothing about the request itself
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err means the addressed record is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
