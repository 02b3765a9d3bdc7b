package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(maxFailures, halfOpen int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       time.Minute,
		HalfOpenLimit: halfOpen,
	})
	cb.now = clock.now

	return cb, clock
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(3, 1)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())

	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State(), "success resets the failure count")

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	tests := []struct {
		name      string
		probes    []bool
		wantState State
	}{
		{name: "enough successes close", probes: []bool{true, true}, wantState: StateClosed},
		{name: "one success stays half-open", probes: []bool{true}, wantState: StateHalfOpen},
		{name: "failure reopens", probes: []bool{true, false}, wantState: StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newTestBreaker(1, 2)

			cb.RecordFailure()
			require.Equal(t, StateOpen, cb.State())

			clock.advance(30 * time.Second)
			assert.False(t, cb.Allow(), "still cooling down")

			clock.advance(31 * time.Second)

			for _, ok := range tt.probes {
				require.True(t, cb.Allow())

				if ok {
					cb.RecordSuccess()
				} else {
					cb.RecordFailure()
				}
			}

			assert.Equal(t, tt.wantState, cb.State())
		})
	}
}

func TestCircuitBreaker_LimitsConcurrentProbes(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)

	cb.RecordFailure()
	clock.advance(2 * time.Minute)

	assert.True(t, cb.Allow())
	assert.True(t, cb.Allow())
	assert.False(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_NotifiesStateChanges(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)

	var (
		mu          sync.Mutex
		transitions []string
		done        = make(chan struct{}, 1)
	)

	cb.OnStateChange(func(from, to State) {
		mu.Lock()
		transitions = append(transitions, from.String()+"->"+to.String())
		mu.Unlock()
		done <- struct{}{}
	})

	cb.RecordFailure()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("state change callback not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
