package gateway

import (
	"sync"
	"time"
)

// CircuitBreakerState is the breaker position
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

type CircuitBreakerConfig struct {
	MaxFailures     int
	ResetTimeout    time.Duration
	HalfOpenMaxSucc int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:     5,
		ResetTimeout:    30 * time.Second,
		HalfOpenMaxSucc: 1,
	}
}

type CircuitBreaker struct {
	mu                sync.RWMutex
	config            CircuitBreakerConfig
	state             CircuitBreakerState
	failures          int
	halfOpenSuccesses int
	lastFailureTime   time.Time
	now               func() time.Time
}

func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreakerInterface {
	if config.HalfOpenMaxSucc <= 0 {
		config.HalfOpenMaxSucc = 1
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// IsOpen reports whether calls must be rejected. An open breaker moves to
// half-open once ResetTimeout has passed since the last failure.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.config.MaxFailures <= 0 {
		return false
	}

	if cb.state == StateOpen && cb.now().Sub(cb.lastFailureTime) > cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenSuccesses = 0
		return false
	}

	return cb.state == StateOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		cb.halfOpenSuccesses++
		if cb.halfOpenSuccesses >= cb.config.HalfOpenMaxSucc {
			cb.transitionToClosed()
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) transitionToClosed() {
	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenSuccesses = 0
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = cb.now()

	switch cb.state {
	case StateHalfOpen:
		cb.transitionToOpen()
	case StateClosed:
		cb.failures++
		if cb.config.MaxFailures > 0 && cb.failures >= cb.config.MaxFailures {
			cb.transitionToOpen()
		}
	}
}

func (cb *CircuitBreaker) transitionToOpen() {
	cb.state = StateOpen
	cb.halfOpenSuccesses = 0
}

func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionToClosed()
}

func (cb *CircuitBreaker) GetFailureCount() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}
