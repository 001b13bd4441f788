// The HTTP surface never issues tokens itself — a caller authenticates
// against Cognito out of band and presents the resulting ID token either
// as a cookie (browser clients) or a bearer header (service clients).
// This file only needs to read that token back out.
package auth

import (
	"github.com/gin-gonic/gin"
)

// IDTokenCookie is the cookie name a browser client is expected to carry
// its Cognito ID token under.
const IDTokenCookie = "id_token"

// GetTokenFromCookie retrieves a token from cookies, falls back to Authorization header
func GetTokenFromCookie(c *gin.Context) string {
	// First, try to get ID token from cookie
	idToken, err := c.Cookie(IDTokenCookie)
	if err == nil && idToken != "" {
		return idToken
	}

	// Fall back to Authorization header (for backwards compatibility)
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return ""
}
