package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope every list backend error is sent in
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption adjusts a response built by NewErrorResponse
type ErrorOption func(*ErrorResponse)

func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage replaces the code's default message
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the envelope for code with its default message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
			Details: []string{},
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError answers VALIDATION_001 with one "field: message" detail
// per entry, ordered by field name.
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, fieldErrors[field]))
	}

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError pairs the generic SYSTEM_001 response with err. Only the
// response goes to the client; err is for the server log.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// WrapDatabaseError is WrapSystemError for storage failures (SYSTEM_002)
func WrapDatabaseError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemDatabaseError, traceID), err
}

// GetHTTPStatus maps an error code to its HTTP status; unknown codes are 500
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ItemInvalidID, TitleCategoryInvalid:
		return http.StatusBadRequest
	case ResourceUnknown, ItemNotFound, TitleNotFound:
		return http.StatusNotFound
	case SystemRateLimitExceeded:
		return http.StatusTooManyRequests
	case SystemServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
