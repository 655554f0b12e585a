package observability

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// BreakerState is the state of a CircuitBreaker.
type BreakerState int

const (
	// StateClosed lets every call through.
	StateClosed BreakerState = iota
	// StateOpen rejects calls until the cooldown has elapsed.
	StateOpen
	// StateHalfOpen admits a few trial calls.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Call when the breaker rejects the call.
var ErrBreakerOpen = errors.New("circuit breaker open")

// CircuitBreaker trips after maxFailures consecutive failures and stays open
// for cooldown. The protected function runs outside the lock, so concurrent
// callers are not serialized.
type CircuitBreaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	halfOpenMax int
	now         func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	inFlight    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(name string, maxFailures int, cooldown time.Duration) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		halfOpenMax: 3,
		now:         time.Now,
	}
}

// Call runs fn if the breaker admits it and records the outcome.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.admit() {
		return fmt.Errorf("%w: %s", ErrBreakerOpen, cb.name)
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.now().Sub(cb.lastFailure) >= cb.cooldown {
		cb.setState(StateHalfOpen)
		cb.successes = 0
		cb.inFlight = 0
	}
	switch cb.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.inFlight+cb.successes >= cb.halfOpenMax {
			return false
		}
		cb.inFlight++
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateHalfOpen && cb.inFlight > 0 {
		cb.inFlight--
	}
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			cb.setState(StateOpen)
		}
		return
	}
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.halfOpenMax {
			cb.failures = 0
			cb.successes = 0
			cb.setState(StateClosed)
		}
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(s BreakerState) {
	cb.state = s
	RecordBreakerState(cb.name, s)
}

// State returns the current state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures, cb.successes, cb.inFlight = 0, 0, 0
	cb.setState(StateClosed)
}

// BreakerSet lazily creates one breaker per key, all sharing a policy.
type BreakerSet struct {
	prefix      string
	maxFailures int
	cooldown    time.Duration

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerSet returns an empty set; breaker names are prefix + ":" + key.
func NewBreakerSet(prefix string, maxFailures int, cooldown time.Duration) *BreakerSet {
	return &BreakerSet{
		prefix:      prefix,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		breakers:    make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for key, creating it on first use.
func (s *BreakerSet) Get(key string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cb, ok := s.breakers[key]; ok {
		return cb
	}
	cb := NewCircuitBreaker(s.prefix+":"+key, s.maxFailures, s.cooldown)
	s.breakers[key] = cb
	return cb
}
