package auth

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// defaultRequestsPerWindow bounds how often a single caller may hit the
// HTTP surface, independent of the heavier per-run quota in quota.go.
const defaultRequestsPerWindow = 30

// RateLimiter tracks request rates per caller.
type RateLimiter struct {
	requests map[string]*callerRateLimit
	mu       sync.RWMutex
	window   time.Duration
	limit    int
}

type callerRateLimit struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// NewRateLimiter creates a rate limiter with the given window and per-window limit.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	if limit <= 0 {
		limit = defaultRequestsPerWindow
	}
	rl := &RateLimiter{
		requests: make(map[string]*callerRateLimit),
		window:   window,
		limit:    limit,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for callerID, limit := range rl.requests {
			limit.mu.Lock()
			expired := now.After(limit.resetAt.Add(time.Minute))
			limit.mu.Unlock()
			if expired {
				delete(rl.requests, callerID)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) isAllowed(callerID string) (bool, int, time.Duration) {
	rl.mu.Lock()
	cl, exists := rl.requests[callerID]
	if !exists {
		cl = &callerRateLimit{resetAt: time.Now().Add(rl.window)}
		rl.requests[callerID] = cl
	}
	rl.mu.Unlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	if now.After(cl.resetAt) {
		cl.count = 0
		cl.resetAt = now.Add(rl.window)
	}

	if cl.count >= rl.limit {
		return false, rl.limit - cl.count, time.Until(cl.resetAt)
	}

	cl.count++
	return true, rl.limit - cl.count, time.Until(cl.resetAt)
}

// RateLimit creates a Gin middleware enforcing the configured per-caller rate limit.
func RateLimit(rl *RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := GetCallerID(c)
		if !ok {
			c.Next()
			return
		}

		allowed, remaining, resetIn := rl.isAllowed(callerID)
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(resetIn).Unix()))

		if !allowed {
			logger.Warn("rate limit exceeded", zap.String("caller_id", callerID))
			c.JSON(http.StatusTooManyRequests, pipelineerr.ErrorResponse{
				Error: pipelineerr.NewAPIError(
					&pipelineerr.APIError{Code: "RATE_LIMIT_EXCEEDED", Message: "rate limit exceeded", Status: http.StatusTooManyRequests},
					fmt.Sprintf("rate limit of %d requests exceeded", rl.limit),
					map[string]interface{}{"reset_in_seconds": resetIn.Seconds()},
				),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
