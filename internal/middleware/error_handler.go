package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"grocery-manager/internal/errors"
	"grocery-manager/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_api_errors_total",
			Help: "Total number of list backend errors by code, endpoint, and status",
		},
		[]string{"code", "endpoint", "status"},
	)
)

// CustomHTTPErrorHandler writes errors that escaped the handlers (routing
// misses, bind failures, panics turned into errors) as ErrorResponse
// envelopes and counts them.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var (
		errorResponse  *errors.ErrorResponse
		httpStatus     int
		echoErr        *echo.HTTPError
		validationErrs validator.ValidationErrors
	)

	switch {
	case stderrors.As(err, &echoErr):
		errorResponse = errors.NewErrorResponse(
			mapHTTPStatusToErrorCode(echoErr.Code),
			traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		)
		httpStatus = echoErr.Code
	case stderrors.As(err, &validationErrs):
		errorResponse = errors.NewValidationError(validation.FieldErrors(validationErrs), traceID)
		httpStatus = http.StatusBadRequest
	default:
		errorResponse, _ = errors.WrapSystemError(err, traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	}

	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}

	slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", errorResponse.Error.Code,
		"status", httpStatus,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(
		errorResponse.Error.Code,
		c.Path(),
		fmt.Sprintf("%d", httpStatus),
	).Inc()

	if sendErr := c.JSON(httpStatus, errorResponse); sendErr != nil {
		slog.Error("Failed to send error response",
			"trace_id", traceID,
			"error", sendErr.Error(),
		)
	}
}

func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.ValidationGeneral
	case http.StatusUnsupportedMediaType:
		return errors.ValidationInvalidFormat
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ResourceUnknown
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}
