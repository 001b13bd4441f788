package concurrency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphoreAcquireRelease(t *testing.T) {
	sem := NewSemaphore(2)
	assert.Equal(t, 2, sem.Available())

	require.NoError(t, sem.Acquire(context.Background()))
	assert.Equal(t, 1, sem.Available())

	require.NoError(t, sem.Acquire(context.Background()))
	assert.Equal(t, 0, sem.Available())

	sem.Release()
	assert.Equal(t, 1, sem.Available())
}

func TestSemaphoreTryAcquire(t *testing.T) {
	sem := NewSemaphore(1)
	assert.True(t, sem.TryAcquire())
	assert.False(t, sem.TryAcquire())
	sem.Release()
	assert.True(t, sem.TryAcquire())
}

func TestSemaphoreAcquireBlocksUntilContextCancelled(t *testing.T) {
	sem := NewSemaphore(1)
	require.NoError(t, sem.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := sem.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
