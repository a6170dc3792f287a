package handlers

import (
	"net/http"
	"time"

	"grocery-manager/internal/errors"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck() error
}

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db HealthChecker
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db HealthChecker) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck answers 200 when the database responds to a ping and 503
// (SYSTEM_003) otherwise.
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	if err := h.db.HealthCheck(); err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
