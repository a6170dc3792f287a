package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(maxFailures int, reset time.Duration) (*CircuitBreaker, *time.Time) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:     maxFailures,
		ResetTimeout:    reset,
		HalfOpenMaxSucc: 1,
	}).(*CircuitBreaker)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 2, cb.GetFailureCount())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.False(t, cb.IsOpen())
	assert.Equal(t, 1, cb.GetFailureCount())
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Minute)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	*clock = clock.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, StateHalfOpen, cb.GetState())

	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Minute)

	cb.RecordFailure()
	*clock = clock.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_DisabledWhenMaxFailuresZero(t *testing.T) {
	cb, _ := newTestBreaker(0, time.Minute)

	for i := 0; i < 10; i++ {
		cb.RecordFailure()
	}
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(1, time.Minute)

	cb.RecordFailure()
	cb.Reset()

	assert.False(t, cb.IsOpen())
	assert.Equal(t, 0, cb.GetFailureCount())
}

func TestCircuitBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitBreakerState(9).String())
}
