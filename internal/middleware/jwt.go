package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"wallet_ledger/internal/domain" // Error kinds
	"wallet_ledger/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	AccountIDKey = "accountID"
	RoleKey      = "role"
)

// JWTAuthMiddleware validates JWT tokens and stores the caller identity
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, domain.KindUnauthorized, "missing or invalid Authorization header")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, domain.KindUnauthorized, "invalid or expired token")
			return
		}
		c.Set(AccountIDKey, claims.AccountID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func abort(c *gin.Context, status int, kind domain.Kind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"kind": kind, "message": msg}})
}
