package llm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold int, cooldown time.Duration) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: threshold, Cooldown: cooldown})
	cb.now = clock.now
	return cb, clock
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)
	boom := errors.New("503")

	require.NoError(t, cb.Allow())
	cb.Record(boom)
	assert.Equal(t, CircuitClosed, cb.State())

	require.NoError(t, cb.Allow())
	cb.Record(boom)
	assert.Equal(t, CircuitOpen, cb.State())

	err := cb.Allow()
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)

	cb.Record(errors.New("timeout"))
	cb.Record(nil)
	cb.Record(errors.New("timeout"))

	assert.Equal(t, CircuitClosed, cb.State(), "failures must be consecutive")
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Minute)
	cb.Record(errors.New("down"))
	require.Equal(t, CircuitOpen, cb.State())

	clock.advance(59 * time.Second)
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)

	clock.advance(time.Second)
	require.NoError(t, cb.Allow(), "cooldown passed, one trial allowed")
	assert.Equal(t, CircuitHalfOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen, "only one trial at a time")

	cb.Record(errors.New("still down"))
	assert.Equal(t, CircuitOpen, cb.State())

	clock.advance(time.Minute)
	require.NoError(t, cb.Allow())
	cb.Record(nil)
	assert.Equal(t, CircuitClosed, cb.State())
	assert.NoError(t, cb.Allow())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, 3, cb.cfg.Threshold)
	assert.Equal(t, time.Minute, cb.cfg.Cooldown)
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
}
