package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nived-m/chathaven/internal/auth"
)

// Context keys for the claims stored on gin.Context by AuthMiddleware.
const (
	ContextKeyEmail       = "email"
	ContextKeyDisplayName = "display_name"
)

// AuthMiddleware validates the bearer token and stashes the caller's
// identity on the request context. The chat core only trusts identities
// that arrive this way; a missing or invalid token never reaches a
// handler.
//
// Websocket clients can't set headers from a browser, so the token is also
// accepted as a ?token= query parameter on upgrade requests.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		header := c.GetHeader("Authorization")
		switch {
		case header != "":
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status": "error",
					"error":  "invalid authorization format, expected: Bearer <token>",
				})
				return
			}
			tokenString = parts[1]
		case c.Query("token") != "":
			tokenString = c.Query("token")
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "missing authorization header",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyDisplayName, claims.DisplayName)
		c.Next()
	}
}

// CallerEmail returns the authenticated caller's email, or "" when the
// request did not pass through AuthMiddleware.
func CallerEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}

// CallerDisplayName returns the authenticated caller's display name.
func CallerDisplayName(c *gin.Context) string {
	val, exists := c.Get(ContextKeyDisplayName)
	if !exists {
		return ""
	}
	name, ok := val.(string)
	if !ok {
		return ""
	}
	return name
}
