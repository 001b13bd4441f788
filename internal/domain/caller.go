package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Caller is the authenticated identity behind a request to the optional
// HTTP surface (§12.1/§12.2). The core pipeline itself is caller-agnostic
// — Caller only exists at the HTTP boundary.
type Caller struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	LastLogin time.Time `json:"last_login"`
}

// CallerClaims are the JWT claims extracted from a bearer token presented
// to the HTTP surface.
type CallerClaims struct {
	jwt.RegisteredClaims
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
	AuthTime int64  `json:"auth_time"`
}

// ToCaller converts CallerClaims to a Caller.
func (c *CallerClaims) ToCaller() *Caller {
	return &Caller{
		ID:        c.Sub,
		Email:     c.Email,
		LastLogin: time.Unix(c.AuthTime, 0),
	}
}

// IsAccessToken reports whether the token is an access token.
func (c *CallerClaims) IsAccessToken() bool { return c.TokenUse == "access" }

// IsExpired reports whether the token has expired.
func (c *CallerClaims) IsExpired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(time.Now())
}

// RunQuota tracks how many pipeline runs a caller has started within the
// current period, gating the optional HTTP surface (§12.1). It carries
// no brand content — only a counter — so it does not reintroduce the
// persistent multi-tenant brand state excluded by the Non-goals.
type RunQuota struct {
	CallerID       string    `json:"caller_id"`
	Period         string    `json:"period"` // "YYYY-MM"
	RunsStarted    int       `json:"runs_started"`
	MonthlyLimit   int       `json:"monthly_limit"`
	LastUpdated    time.Time `json:"last_updated"`
}

// HasRemaining reports whether the caller may start another run this period.
func (q *RunQuota) HasRemaining() bool {
	return q.RunsStarted < q.MonthlyLimit
}

// Increment records a started run.
func (q *RunQuota) Increment() {
	q.RunsStarted++
	q.LastUpdated = time.Now()
}
