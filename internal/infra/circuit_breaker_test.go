package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func failingCB(cfg CircuitBreakerConfig, failures int) *CircuitBreaker {
	cb := NewCircuitBreaker(cfg)
	for i := 0; i < failures; i++ {
		_ = cb.Execute(func() error { return errUpstream })
	}
	return cb
}

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := failingCB(CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Minute}, 2)
	assert.Equal(t, CBClosed, cb.State())

	_ = cb.Execute(func() error { return errUpstream })
	assert.Equal(t, CBOpen, cb.State())

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})

	_ = cb.Execute(func() error { return errUpstream })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errUpstream })

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := failingCB(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      10 * time.Millisecond,
	}, 1)
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	cb := failingCB(CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      10 * time.Millisecond,
	}, 1)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errUpstream })
	assert.Equal(t, CBOpen, cb.State())
}
