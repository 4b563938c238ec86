package middleware

import (
	"context"
	"net/http"
	"strings"

	userapp "socialblog/internal/core/user/service"

	"github.com/gin-gonic/gin"
)

// Keys under which the authenticated caller is stored on the gin context.
const (
	UserIDKey         = "userID"
	TokenIDKey        = "tokenID"
	TokenExpiresAtKey = "tokenExpiresAt"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*userapp.Claims, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to perform that action"})
			return
		}
		claims, err := v.VerifyToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sorry, you must provide a valid token"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the visitor when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := v.VerifyToken(c.Request.Context(), raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func setClaims(c *gin.Context, claims *userapp.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(TokenIDKey, claims.TokenID)
	c.Set(TokenExpiresAtKey, claims.ExpiresAt)
}
