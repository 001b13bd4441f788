package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedEnforcesLimitWithinWindow(t *testing.T) {
	rl := &RateLimiter{requests: make(map[string]*callerRateLimit), window: time.Minute, limit: 2}

	allowed, _, _ := rl.isAllowed("caller-1")
	assert.True(t, allowed)
	allowed, _, _ = rl.isAllowed("caller-1")
	assert.True(t, allowed)
	allowed, remaining, _ := rl.isAllowed("caller-1")
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestIsAllowedResetsAfterWindowElapses(t *testing.T) {
	rl := &RateLimiter{requests: make(map[string]*callerRateLimit), window: 10 * time.Millisecond, limit: 1}

	allowed, _, _ := rl.isAllowed("caller-1")
	assert.True(t, allowed)
	allowed, _, _ = rl.isAllowed("caller-1")
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)
	allowed, _, _ = rl.isAllowed("caller-1")
	assert.True(t, allowed)
}

func TestNewRateLimiterAppliesDefaultWhenLimitNonPositive(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 0)
	assert.Equal(t, defaultRequestsPerWindow, rl.limit)
}
