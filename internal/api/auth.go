package api

import (
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation
	"time"                         // Response timestamps
	"vnc_manager/internal/auth"    // JWT utility functions
	"vnc_manager/internal/domain"  // Importing domain models
	"vnc_manager/internal/middleware" // Identity extraction

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`       // Valid email required
	Password string `json:"password" binding:"required,min=8,max=72"` // Bcrypt caps input at 72 bytes
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// UserResponse is the user shape returned to clients, password hash excluded
type UserResponse struct {
	ID        uint      `json:"id"`        // User ID
	Email     string    `json:"email"`     // Email
	Role      string    `json:"role"`      // Role: ADMIN or USER
	CreatedAt time.Time `json:"createdAt"` // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"` // Timestamp of last update
}

// AuthResponse pairs a fresh token with the authenticated user
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  UserResponse `json:"user"`  // Authenticated user
}

// userResponse shapes a domain user for the wire
func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,        // User ID
		Email:     u.Email,     // Email
		Role:      u.Role,      // Role
		CreatedAt: u.CreatedAt, // Created timestamp
		UpdatedAt: u.UpdatedAt, // Updated timestamp
	}
}

// RegisterHandler creates a new USER account and returns a token for it
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err) // Structured validation failure
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Create user with lowercase email to ensure uniqueness
		user := domain.User{Email: strings.ToLower(req.Email), Password: string(hash), Role: domain.RoleUser}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate email), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		// Generate JWT token for the new account
		token, err := auth.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
		// Return token and user in the response
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: userResponse(&user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err) // Structured validation failure
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token carrying identity and role claims
		token, err := auth.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token and user in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: userResponse(&user)})
	}
}

// MeHandler returns the account behind the presented token
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch a fresh record, the token may outlive role changes
		if err := db.First(&user, userID).Error; err != nil {
			// Account deleted since the token was issued
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.JSON(http.StatusOK, userResponse(&user)) // Password hash excluded
	}
}
