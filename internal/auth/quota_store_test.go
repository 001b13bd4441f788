package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQuotaStoreEnforcesLimit(t *testing.T) {
	store := NewInMemoryQuotaStore(2)

	require.NoError(t, store.CheckAndIncrement("caller-1"))
	require.NoError(t, store.CheckAndIncrement("caller-1"))

	err := store.CheckAndIncrement("caller-1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestInMemoryQuotaStoreTracksCallersIndependently(t *testing.T) {
	store := NewInMemoryQuotaStore(1)

	require.NoError(t, store.CheckAndIncrement("caller-1"))
	require.NoError(t, store.CheckAndIncrement("caller-2"))

	assert.ErrorIs(t, store.CheckAndIncrement("caller-1"), ErrQuotaExceeded)
}

func TestInMemoryQuotaStoreDefaultsWhenLimitNonPositive(t *testing.T) {
	store := NewInMemoryQuotaStore(0)
	assert.Equal(t, DefaultMonthlyRunLimit, store.monthlyLimit)
}
