package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func requestFrom(e *echo.Echo, handler echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/meat", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	handler := NewRateLimiter(1, 3).Middleware()(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, requestFrom(e, handler, "10.0.0.1").Code, "request %d within burst", i)
	}

	rec := requestFrom(e, handler, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_BucketsArePerClient(t *testing.T) {
	e := echo.New()
	handler := NewRateLimiter(1, 1).Middleware()(okHandler)

	assert.Equal(t, http.StatusOK, requestFrom(e, handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(e, handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, requestFrom(e, handler, "10.0.0.2").Code)
}

func TestRateLimiter_FirstForwardedHop(t *testing.T) {
	e := echo.New()
	handler := NewRateLimiter(1, 1).Middleware()(okHandler)

	assert.Equal(t, http.StatusOK, requestFrom(e, handler, "10.0.0.1, 172.16.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(e, handler, "10.0.0.1, 172.16.0.9").Code)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, 5)
	rl.now = func() time.Time { return clock }

	rl.visitor("10.0.0.1")
	clock = clock.Add(2 * time.Minute)
	rl.visitor("10.0.0.2")
	clock = clock.Add(2 * time.Minute)

	rl.evictIdle()

	require.Equal(t, 1, rl.size())
	_, kept := rl.visitors["10.0.0.2"]
	assert.True(t, kept)
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		NewRateLimiter(1, 1).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
