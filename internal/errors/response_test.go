package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ResponseTestSuite defines the test suite for error responses
type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

// SetupTest runs before each test
func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

// TestResponseTestSuite runs the test suite
func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(ItemNotFound, s.traceID)

	s.Equal("ITEM_001", response.Error.Code)
	s.Equal("Item not found", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithDetails() {
	details := []string{"name: is required", "price: is required"}
	response := NewErrorResponse(ValidationGeneral, s.traceID, WithDetails(details...))

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Equal(details, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithCustomMessage() {
	response := NewErrorResponse(SystemInternalError, s.traceID, WithMessage("boom"))
	s.Equal("boom", response.Error.Message)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedDetails() {
	response := NewValidationError(map[string]string{
		"quantity": "is required",
		"name":     "is required",
		"price":    "is required",
	}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{"name: is required", "price: is required", "quantity: is required"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternalError() {
	internal := errors.New("sql: connection refused")
	response, err := WrapSystemError(internal, s.traceID)

	s.Equal(internal, err)
	s.Equal(string(SystemInternalError), response.Error.Code)
	s.NotContains(response.Error.Message, "sql")
}

func (s *ResponseTestSuite) TestWrapDatabaseError_HidesInternalError() {
	internal := errors.New("database is locked")
	response, err := WrapDatabaseError(internal, s.traceID)

	s.Equal(internal, err)
	s.Equal(string(SystemDatabaseError), response.Error.Code)
	s.Equal(http.StatusInternalServerError, response.GetHTTPStatus())
	s.Equal(s.traceID, response.Error.TraceID)
	s.NotContains(response.Error.Message, "locked")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code   ErrorCode
		status int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ItemInvalidID, http.StatusBadRequest},
		{ResourceUnknown, http.StatusNotFound},
		{ItemNotFound, http.StatusNotFound},
		{TitleNotFound, http.StatusNotFound},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.status, GetHTTPStatus(tc.code))
		})
	}
}
