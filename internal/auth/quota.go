package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// ErrQuotaExceeded is returned by a QuotaStore when a caller has started
// as many runs as their period allows.
var ErrQuotaExceeded = errors.New("run quota exceeded")

// QuotaStore is the persistence contract behind QuotaEnforcement. It is
// satisfied both by a DynamoDB-backed store and by an in-memory store
// for local development.
type QuotaStore interface {
	CheckAndIncrement(callerID string) error
}

// QuotaEnforcement gates run-starting endpoints (POST .../runs/logos)
// behind a per-caller monthly run quota, adapted from the reference
// backend's video-generation quota middleware.
func QuotaEnforcement(store QuotaStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := GetCallerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, pipelineerr.ErrorResponse{Error: pipelineerr.ErrUnauthorized})
			c.Abort()
			return
		}

		if err := store.CheckAndIncrement(callerID); err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				logger.Warn("run quota exceeded", zap.String("caller_id", callerID))
				c.JSON(http.StatusForbidden, pipelineerr.ErrorResponse{
					Error: pipelineerr.NewAPIError(pipelineerr.ErrForbidden, "monthly run quota exceeded", nil),
				})
				c.Abort()
				return
			}
			logger.Error("failed to check run quota", zap.String("caller_id", callerID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, pipelineerr.ErrorResponse{Error: pipelineerr.ErrInternal})
			c.Abort()
			return
		}

		c.Next()
	}
}
