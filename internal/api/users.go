package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTLs

	"vnc_manager/internal/cache"      // Redis cache helpers
	"vnc_manager/internal/domain"     // Importing domain models
	"vnc_manager/internal/middleware" // Identity extraction
	"vnc_manager/internal/policy"     // Access policy checks

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// usersCacheKey caches the admin user listing as a whole
const usersCacheKey = "admin:users"

// usersCacheTTL bounds staleness of the admin user listing
const usersCacheTTL = 60 * time.Second

// UpdateUserRequest is the payload for role changes
type UpdateUserRequest struct {
	Role *string `json:"role" binding:"omitempty,oneof=ADMIN USER"` // New role when present
}

// ListUsersHandler returns all users, newest first, password hashes excluded.
// Admin-only, enforced by the route group.
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Try the cached listing first
		var cached []UserResponse
		if found, err := cache.Get(ctx, rdb, usersCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Serve from cache
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("List users failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Shape each record, password hash excluded
		resp := make([]UserResponse, len(users))
		for i := range users {
			resp[i] = userResponse(&users[i])
		}
		// Cache the listing for subsequent reads, best effort
		_ = cache.Set(ctx, rdb, usersCacheKey, resp, usersCacheTTL)
		c.JSON(http.StatusOK, resp) // Return the users
	}
}

// UpdateUserRoleHandler changes a user's role. Admin-only; an admin can
// never demote themselves, so the system always keeps at least one admin.
func UpdateUserRoleHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse user ID from path
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err) // Structured validation failure
			return
		}
		// Role is the only mutable field; nothing to do without it
		if req.Role == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No updates provided"})
			return
		}
		// Self-demotion guard runs before touching the store
		if err := policy.CheckRoleChange(callerID, uint(id), *req.Role); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot demote yourself"})
			return
		}
		var user domain.User // Fetch the target record
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Get user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Apply the role change
		if err := db.Model(&user).Update("role", *req.Role).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Update user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Invalidate the cached user listing
		_ = cache.Delete(context.Background(), rdb, usersCacheKey)
		// Log the role change with context
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,   // Target user
			"caller_id": callerID,  // Acting admin
			"role":      user.Role, // New role
		}).Info("User role updated")
		// Return the updated user fields
		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID,        // User ID
			"email":     user.Email,     // Email
			"role":      user.Role,      // New role
			"updatedAt": user.UpdatedAt, // Updated timestamp
		})
	}
}

// DeleteUserHandler removes a user and their personal machines. Admin-only;
// self-deletion is forbidden. Machines owned by the deleted user go with
// them in the same transaction, so no machine is left with a dangling owner
// or silently widened to shared visibility.
func DeleteUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse user ID from path
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		// Self-deletion guard runs before touching the store
		if err := policy.CheckUserDelete(callerID, uint(id)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
			return
		}
		var user domain.User // Fetch the target record
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Get user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Collect owned machine IDs so their caches can be invalidated after commit
		var ownedIDs []uint
		if err := db.Model(&domain.Machine{}).Where("owner_id = ?", user.ID).Pluck("id", &ownedIDs).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("List owned machines failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Atomic removal of the user and their personal machines
		err = db.Transaction(func(tx *gorm.DB) error {
			// Delete owned machines first to keep the ownership invariant
			if err := tx.Where("owner_id = ?", user.ID).Delete(&domain.Machine{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Delete the user record itself
			if err := tx.Delete(&user).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":   id,          // Target user
				"caller_id": callerID,    // Acting admin
				"error":     err.Error(), // Error message
			}).Error("Delete user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Invalidate the cached user listing and any cached owned machines
		keys := []string{usersCacheKey}
		for _, mid := range ownedIDs {
			keys = append(keys, machineCacheKey(mid))
		}
		_ = cache.Delete(context.Background(), rdb, keys...)
		// Log the deletion with context
		logrus.WithFields(logrus.Fields{
			"user_id":          id,            // Deleted user
			"caller_id":        callerID,      // Acting admin
			"machines_removed": len(ownedIDs), // Cascaded personal machines
		}).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"}) // Confirmation
	}
}
