package observability

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

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestBreaker(maxFailures int, cooldown time.Duration) (*CircuitBreaker, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cb := NewCircuitBreaker("test", maxFailures, cooldown)
	cb.now = clk.Now
	return cb, clk
}

var errBoom = errors.New("boom")

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	t.Parallel()
	cb, _ := newTestBreaker(3, time.Second)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
	assert.NoError(t, cb.Call(func() error { return nil }))
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()
	cb, _ := newTestBreaker(2, time.Second)

	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailuresWhenClosed(t *testing.T) {
	t.Parallel()
	cb, _ := newTestBreaker(2, time.Second)
	_ = cb.Call(func() error { return errBoom })
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, 0, cb.Failures())
	_ = cb.Call(func() error { return errBoom })
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()
	cb, clk := newTestBreaker(1, time.Second)
	_ = cb.Call(func() error { return errBoom })
	require.Equal(t, StateOpen, cb.State())

	clk.Advance(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()
	cb, clk := newTestBreaker(3, time.Second)
	for i := 0; i < 3; i++ {
		_ = cb.Call(func() error { return errBoom })
	}
	require.Equal(t, StateOpen, cb.State())

	clk.Advance(2 * time.Second)
	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Call(func() error { return nil }), ErrBreakerOpen)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	t.Parallel()
	cb, _ := newTestBreaker(1, time.Hour)
	_ = cb.Call(func() error { return errBoom })
	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Call(func() error { return nil }))
}

func TestBreakerSet_PerKey(t *testing.T) {
	t.Parallel()
	set := NewBreakerSet("oracle", 1, time.Hour)
	_ = set.Get("rating").Call(func() error { return errBoom })

	assert.Same(t, set.Get("rating"), set.Get("rating"))
	assert.Equal(t, StateOpen, set.Get("rating").State())
	assert.Equal(t, StateClosed, set.Get("number").State())
}

func TestBreakerState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(9).String())
}
