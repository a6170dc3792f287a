package handlers

import (
	"log/slog"
	"net/http"

	"grocery-manager/internal/errors"
	"grocery-manager/internal/validation"

	"github.com/labstack/echo/v4"
)

// Handlers answer errors through two helpers:
//
// SendError for client errors (4xx): unknown resources, missing records,
// malformed or invalid bodies.
//
// SendDatabaseError for repository failures (SYSTEM_002, 500). The internal
// error is logged with the trace id and never sent to the client. Errors
// that escape a handler get SYSTEM_001 from the HTTP error handler.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendDatabaseError logs err and sends the generic SYSTEM_002 response
func SendDatabaseError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapDatabaseError(err, traceID)

	slog.ErrorContext(c.Request().Context(), "repository call failed",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", internal.Error(),
	)

	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendValidationError sends VALIDATION_001 with one detail per invalid field
func SendValidationError(c echo.Context, err error) error {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	errorResponse := errors.NewValidationError(fields, getTraceID(c))
	return c.JSON(http.StatusBadRequest, errorResponse)
}
