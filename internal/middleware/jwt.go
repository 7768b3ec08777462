package middleware

import (
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation
	"vnc_manager/internal/auth" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware for downstream handlers
const (
	CtxUserID   = "userID"   // uint, verified identity
	CtxUserRole = "userRole" // string, verified role claim
)

// JWTAuthMiddleware validates JWT tokens and extracts user identity and role
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := auth.ParseJWT(tokenStr, secret)        // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(CtxUserID, claims.UserID)   // Store userID in context
		c.Set(CtxUserRole, claims.Role)   // Store role in context
		c.Next()                          // Proceed to the next handler
	}
}

// Identity reads the verified user ID and role from the request context.
// The role claim is authoritative for the duration of the request.
func Identity(c *gin.Context) (uint, string, bool) {
	id, ok := c.Get(CtxUserID) // Get userID from context
	if !ok {
		return 0, "", false // No verified identity on this request
	}
	return id.(uint), c.GetString(CtxUserRole), true
}
