package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/brandforge/pipeline/internal/domain"
)

// Context keys for storing auth information in the Gin context.
const (
	CallerClaimsKey = "caller_claims"
	CallerIDKey     = "caller_id"
	CallerKey       = "caller"
)

// SetCaller stores the validated caller's claims in the Gin context.
func SetCaller(c *gin.Context, claims *domain.CallerClaims) {
	c.Set(CallerClaimsKey, claims)
	c.Set(CallerIDKey, claims.Sub)
	c.Set(CallerKey, claims.ToCaller())
}

// GetCallerClaims retrieves the caller's claims from the Gin context.
func GetCallerClaims(c *gin.Context) (*domain.CallerClaims, bool) {
	v, exists := c.Get(CallerClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*domain.CallerClaims)
	return claims, ok
}

// GetCallerID retrieves the caller ID from the Gin context.
func GetCallerID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CallerIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// MustGetCallerID retrieves the caller ID or panics if missing. Only safe
// to call downstream of RequireAuth.
func MustGetCallerID(c *gin.Context) string {
	id, ok := GetCallerID(c)
	if !ok {
		panic("caller ID not found in context")
	}
	return id
}

// GetCaller retrieves the caller model from the Gin context.
func GetCaller(c *gin.Context) (*domain.Caller, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return nil, false
	}
	caller, ok := v.(*domain.Caller)
	return caller, ok
}

// IsAuthenticated reports whether the current request carries a validated caller.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(CallerIDKey)
	return exists
}
