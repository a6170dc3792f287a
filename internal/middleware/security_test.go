package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	handler := SecurityHeaders()(okHandler)

	rec := httptest.NewRecorder()
	err := handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/titles", nil), rec))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	headers := rec.Header()
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", headers.Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer", headers.Get("Referrer-Policy"))
	assert.Equal(t, "no-store", headers.Get("Cache-Control"))
}

func TestSecurityHeaders_SetOnErrorResponses(t *testing.T) {
	e := echo.New()
	handler := SecurityHeaders()(func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "missing"})
	})

	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/nope", nil), rec))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
