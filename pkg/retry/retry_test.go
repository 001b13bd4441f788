package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0, MaxElapsedTime: time.Second}
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1.0}
	err := Do(context.Background(), cfg, func() error {
		calls++
		return NewNonRetryableError(sentinel)
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, sentinel)
}

func TestDoRespectsMaxElapsedTime(t *testing.T) {
	calls := 0
	cfg := Config{
		MaxAttempts:    100,
		InitialDelay:   20 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     1.0,
		MaxElapsedTime: 30 * time.Millisecond,
	}
	err := Do(context.Background(), cfg, func() error {
		calls++
		return errors.New("always fails")
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retry budget")
	assert.Less(t, calls, cfg.MaxAttempts)
}

func TestDoStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Millisecond, Multiplier: 1.0}
	err := Do(ctx, cfg, func() error {
		return errors.New("always fails")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJitterDurationStaysWithinExpectedRange(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		j := jitterDuration(d)
		assert.GreaterOrEqual(t, j, time.Duration(float64(d)*0.5))
		assert.Less(t, j, time.Duration(float64(d)*1.5)+time.Microsecond)
	}
}
