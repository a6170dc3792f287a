package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"grocery-manager/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a handler panic into a SYSTEM_001 response and logs the
// stack with the request's trace id.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				if c.Response().Committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, errors.NewErrorResponse(errors.SystemInternalError, traceID))
			}()

			return next(c)
		}
	}
}
