package middleware

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/domain" // Role permission table

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequirePermission rejects callers whose role lacks p. Approval state is
// checked later by the service, which reads it from the database.
func RequirePermission(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(RoleKey)
		if !ok {
			abort(c, http.StatusUnauthorized, domain.KindUnauthorized, "authentication required")
			return
		}
		r, _ := role.(domain.Role)
		if !r.Can(p) {
			abort(c, http.StatusForbidden, domain.KindForbidden, "access denied")
			return
		}
		c.Next()
	}
}
