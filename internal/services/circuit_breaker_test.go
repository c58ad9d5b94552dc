package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenMaxSucc: 1})
	cb.now = func() time.Time { return now }

	failing := errors.New("upload failed")
	calls := 0
	fail := func() error { calls++; return failing }
	succeed := func() error { calls++; return nil }

	assert.ErrorIs(t, cb.Execute(fail), failing)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), failing)
	assert.Equal(t, StateOpen, cb.State())

	// open: fn is not called
	assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitBreakerOpen)
	assert.Equal(t, 2, calls)

	now = now.Add(time.Minute)
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 3, calls)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute, HalfOpenMaxSucc: 2})
	cb.now = func() time.Time { return now }
	failing := errors.New("boom")

	assert.ErrorIs(t, cb.Execute(func() error { return failing }), failing)
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State(), "needs two successes to close")

	assert.ErrorIs(t, cb.Execute(func() error { return failing }), failing)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitBreakerOpen)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenMaxSucc: 1})
	failing := errors.New("boom")

	_ = cb.Execute(func() error { return failing })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return failing })

	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}
