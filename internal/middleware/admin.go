package middleware

import (
	"net/http"                   // HTTP status codes
	"vnc_manager/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware allows continuation only for the ADMIN role.
// The role verified by JWTAuthMiddleware is authoritative for the request,
// so no database lookup happens here.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := Identity(c) // Get verified identity from context
		// Check if identity exists in context
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Check if user role is admin
		if role != domain.RoleAdmin {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
