package llm

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Allow while the provider is considered down.
var ErrCircuitOpen = errors.New("llm circuit open")

// CircuitState is the breaker's view of the provider.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Calls flow normally
	CircuitOpen                         // Calls are refused until the cooldown passes
	CircuitHalfOpen                     // One trial call is in flight
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("CircuitState(%d)", int(s))
	}
}

// CircuitBreakerConfig sets when the breaker trips and how long it stays open.
type CircuitBreakerConfig struct {
	Threshold int           `yaml:"threshold" env:"HINT_BREAKER_THRESHOLD" env-default:"3"`
	Cooldown  time.Duration `yaml:"cooldown" env:"HINT_BREAKER_COOLDOWN" env-default:"1m"`
}

// CircuitBreaker stops calling a provider after Threshold consecutive failed
// requests. After Cooldown a single trial request is let through; its outcome
// closes or re-opens the circuit.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
}

// NewCircuitBreaker builds a closed breaker. Non-positive settings fall back
// to 3 failures and a one minute cooldown.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Allow reports whether a request may be sent. The returned error wraps
// ErrCircuitOpen.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		waited := cb.now().Sub(cb.openedAt)
		if waited >= cb.cfg.Cooldown {
			cb.state = CircuitHalfOpen
			return nil
		}
		return fmt.Errorf("%w after %d failures, retry in %s", ErrCircuitOpen, cb.failures, (cb.cfg.Cooldown - waited).Round(time.Second))
	default:
		return fmt.Errorf("%w: trial request in flight", ErrCircuitOpen)
	}
}

// Record feeds the outcome of an allowed request back into the breaker.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.state = CircuitClosed
		return
	}

	cb.failures++
	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.Threshold {
		cb.state = CircuitOpen
		cb.openedAt = cb.now()
	}
}

// State returns the current state without changing it.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
