package domain

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestCallerClaimsToCaller(t *testing.T) {
	claims := &CallerClaims{Sub: "user-1", Email: "a@example.com", AuthTime: 1700000000}
	caller := claims.ToCaller()
	assert.Equal(t, "user-1", caller.ID)
	assert.Equal(t, "a@example.com", caller.Email)
	assert.Equal(t, time.Unix(1700000000, 0), caller.LastLogin)
}

func TestCallerClaimsIsAccessToken(t *testing.T) {
	assert.True(t, (&CallerClaims{TokenUse: "access"}).IsAccessToken())
	assert.False(t, (&CallerClaims{TokenUse: "id"}).IsAccessToken())
}

func TestCallerClaimsIsExpired(t *testing.T) {
	noExpiry := &CallerClaims{}
	assert.False(t, noExpiry.IsExpired())

	expired := &CallerClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}
	assert.True(t, expired.IsExpired())

	notExpired := &CallerClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	assert.False(t, notExpired.IsExpired())
}

func TestRunQuotaHasRemainingAndIncrement(t *testing.T) {
	q := &RunQuota{RunsStarted: 0, MonthlyLimit: 1}
	assert.True(t, q.HasRemaining())

	q.Increment()
	assert.Equal(t, 1, q.RunsStarted)
	assert.False(t, q.HasRemaining())
	assert.WithinDuration(t, time.Now(), q.LastUpdated, time.Second)
}
