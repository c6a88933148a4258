package infra_test

// circuit_breaker_test.go
// State machine tests for the push gateway circuit breaker:
// closed → open after consecutive failures, open → half-open after the
// timeout, half-open → closed after enough good probes (or back to open on
// a bad one).

import (
	"errors"
	"testing"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGatewayDown = errors.New("gateway returned 502")

func failing() error { return errGatewayDown }
func passing() error { return nil }

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, infra.CBClosed, cb.State())
		err := cb.Execute(failing)
		assert.ErrorIs(t, err, errGatewayDown)
	}
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestCircuitBreaker_Open_FastFailsWithoutCalling(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})
	require.Error(t, cb.Execute(failing))
	require.Equal(t, infra.CBOpen, cb.State())

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Zero(t, calls, "open breaker must not invoke the wrapped call")
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	// Two failures, then a success, then two more failures: streak broken,
	// breaker stays closed.
	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(passing))
	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))

	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenAfterTimeout_ClosesOnGoodProbes(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Millisecond,
	})

	require.Error(t, cb.Execute(failing))
	require.Equal(t, infra.CBOpen, cb.State())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, infra.CBHalfOpen, cb.State())

	// First good probe keeps it half-open, second closes it
	require.NoError(t, cb.Execute(passing))
	assert.Equal(t, infra.CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(passing))
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbe_ReOpens(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Millisecond,
	})

	require.Error(t, cb.Execute(failing))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, infra.CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestNewCircuitBreaker_ZeroConfigFallsBackToDefaults(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{})

	// Defaults trip after 5 consecutive failures
	for i := 0; i < 4; i++ {
		require.Error(t, cb.Execute(failing))
		assert.Equal(t, infra.CBClosed, cb.State())
	}
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", infra.CBClosed.String())
	assert.Equal(t, "open", infra.CBOpen.String())
	assert.Equal(t, "half-open", infra.CBHalfOpen.String())
	assert.Equal(t, "unknown", infra.CBState(99).String())
}
