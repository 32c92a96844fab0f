package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func failing() error { return errUpstream }
func healthy() error { return nil }

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errUpstream)
		assert.Equal(t, CBClosed, cb.State())
	}
	assert.ErrorIs(t, cb.Execute(failing), errUpstream)
	assert.Equal(t, CBOpen, cb.State())

	// While open, the call is never attempted.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Hour})

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(healthy))
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, CBClosed, cb.State(), "non-consecutive failures do not trip")
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failing))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	// Failed probe reopens.
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.NoError(t, cb.Execute(healthy))
	assert.Equal(t, CBHalfOpen, cb.State(), "one success short of the close threshold")
	require.NoError(t, cb.Execute(healthy))
	assert.Equal(t, CBClosed, cb.State())
}

func TestBreakerZeroConfigUsesDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}
