package api

import (
	"net/http"                        // HTTP status codes
	"vnc_manager/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires all routes onto a gin engine. Kept out of main so tests
// can run requests against the same routing table.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Health check for the reverse proxy / dashboard
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db, jwtSecret)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(db, jwtSecret))       // Login endpoint
	// Current-user endpoint requires a valid token
	authGroup.GET("/me", middleware.JWTAuthMiddleware(jwtSecret), MeHandler(db))

	// Machine routes (protected by JWT)
	machineGroup := r.Group("/machines")
	machineGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))   // All machine routes need a token
	machineGroup.GET("", ListMachinesHandler(db))               // List visible machines
	machineGroup.GET("/:id", GetMachineHandler(db, rdb))        // Fetch one machine
	machineGroup.POST("", CreateMachineHandler(db))             // Register a machine
	machineGroup.PATCH("/:id", UpdateMachineHandler(db, rdb))   // Partial update
	machineGroup.DELETE("/:id", DeleteMachineHandler(db, rdb))  // Delete a machine

	// User routes (protected, admin only)
	userGroup := r.Group("/users")
	userGroup.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.AdminOnlyMiddleware())
	userGroup.GET("", ListUsersHandler(db, rdb))           // List users endpoint
	userGroup.PATCH("/:id", UpdateUserRoleHandler(db, rdb)) // Role update endpoint
	userGroup.DELETE("/:id", DeleteUserHandler(db, rdb))    // Delete user endpoint

	return r
}
