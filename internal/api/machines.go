package api

import (
	"bytes"         // Trimming raw JSON values
	"context"       // Context for Redis operations
	"encoding/json" // Raw JSON handling for nullable fields
	"errors"        // Error matching
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"time"          // Cache TTLs

	"vnc_manager/internal/cache"      // Redis cache helpers
	"vnc_manager/internal/domain"     // Importing domain models
	"vnc_manager/internal/middleware" // Identity extraction
	"vnc_manager/internal/policy"     // Access policy checks

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// machineCacheTTL bounds staleness of single-record machine caches
const machineCacheTTL = 60 * time.Second

// CreateMachineRequest is the payload for registering a VNC machine
type CreateMachineRequest struct {
	Name     string  `json:"name" binding:"required,min=1"`          // Display name
	Host     string  `json:"host" binding:"required,min=1"`          // VNC host address
	Port     int     `json:"port" binding:"omitempty,min=1,max=65535"` // Defaults to 5900 when omitted
	Password *string `json:"password"`                               // Optional VNC password
	IsShared bool    `json:"isShared"`                               // Shared machines are admin-only
}

// UpdateMachineRequest is the partial payload for PATCH. Password uses raw
// JSON so an explicit null (clear the password) is distinguishable from the
// field being absent (leave it unchanged).
type UpdateMachineRequest struct {
	Name     *string         `json:"name" binding:"omitempty,min=1"`           // Optional new name
	Host     *string         `json:"host" binding:"omitempty,min=1"`           // Optional new host
	Port     *int            `json:"port" binding:"omitempty,min=1,max=65535"` // Optional new port
	Password json.RawMessage `json:"password" binding:"-"`                     // Absent, null, or string
}

// OwnerRef is the owner shape embedded in machine responses
type OwnerRef struct {
	ID    uint   `json:"id"`    // Owner user ID
	Email string `json:"email"` // Owner email
}

// MachineResponse is the machine shape returned to clients
type MachineResponse struct {
	ID        uint      `json:"id"`        // Machine ID
	Name      string    `json:"name"`      // Display name
	Host      string    `json:"host"`      // VNC host address
	Port      int       `json:"port"`      // VNC port
	Password  *string   `json:"password"`  // VNC password as stored
	OwnerID   *uint     `json:"ownerId"`   // Owning user, null for shared
	Owner     *OwnerRef `json:"owner"`     // Owner summary, null for shared
	CreatedAt time.Time `json:"createdAt"` // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"` // Timestamp of last update
}

// machineResponse shapes a domain machine for the wire
func machineResponse(m *domain.Machine) MachineResponse {
	resp := MachineResponse{
		ID:        m.ID,        // Machine ID
		Name:      m.Name,      // Display name
		Host:      m.Host,      // Host address
		Port:      m.Port,      // Port
		Password:  m.Password,  // Password as stored
		OwnerID:   m.OwnerID,   // Owner ID or null
		CreatedAt: m.CreatedAt, // Created timestamp
		UpdatedAt: m.UpdatedAt, // Updated timestamp
	}
	// Embed the owner summary when the relation is loaded
	if m.Owner != nil {
		resp.Owner = &OwnerRef{ID: m.Owner.ID, Email: m.Owner.Email}
	}
	return resp
}

// machineCacheKey builds the cache key for a single machine record
func machineCacheKey(id uint) string {
	return "machine:" + strconv.Itoa(int(id))
}

// ListMachinesHandler returns all machines visible to the caller, newest first.
// Visible means shared (no owner) or owned by the caller.
func ListMachinesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var machines []domain.Machine // Slice to hold visible machines
		// Shared machines plus the caller's own, newest first
		err := db.Where("owner_id IS NULL OR owner_id = ?", userID).
			Preload("Owner").
			Order("created_at desc").
			Find(&machines).Error
		if err != nil {
			// Log the error with context, respond opaquely
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("List machines failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Shape each record for the response
		resp := make([]MachineResponse, len(machines))
		for i := range machines {
			resp[i] = machineResponse(&machines[i])
		}
		c.JSON(http.StatusOK, resp) // Return the visible machines
	}
}

// GetMachineHandler returns a single machine if the caller may view it
func GetMachineHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse machine ID from path
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid machine ID"})
			return
		}
		ctx := context.Background() // Context for Redis operations
		var machine domain.Machine
		// Try the cache first; the access check still runs on cached records
		found, cerr := cache.Get(ctx, rdb, machineCacheKey(uint(id)), &machine)
		if cerr != nil || !found {
			// Cache miss, fetch from the database with the owner relation
			if err := db.Preload("Owner").First(&machine, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
					return
				}
				logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Get machine failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			// Cache the record for subsequent reads, best effort
			_ = cache.Set(ctx, rdb, machineCacheKey(machine.ID), machine, machineCacheTTL)
		}
		// Shared and own machines are readable; other personal machines are not
		if !policy.CanViewMachine(userID, &machine) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusOK, machineResponse(&machine)) // Return the record
	}
}

// CreateMachineHandler registers a new machine. Anyone may create a personal
// machine; shared machines (no owner) are admin-only.
func CreateMachineHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateMachineRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err) // Structured validation failure
			return
		}
		// Shared creation is gated to admins
		if err := policy.CheckCreateMachine(role, req.IsShared); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create shared machines"})
			return
		}
		// Default VNC port when unspecified
		if req.Port == 0 {
			req.Port = 5900
		}
		// Shared machines carry no owner; personal ones belong to the caller
		var ownerID *uint
		if !req.IsShared {
			ownerID = &userID
		}
		machine := domain.Machine{
			Name:     req.Name,     // Display name
			Host:     req.Host,     // Host address
			Port:     req.Port,     // Port, defaulted above
			Password: req.Password, // Optional password
			OwnerID:  ownerID,      // Ownership decided above
		}
		// Attempt to create the machine in the database
		if err := db.Create(&machine).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Create machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Reload with the owner relation for response shaping
		if err := db.Preload("Owner").First(&machine, machine.ID).Error; err != nil {
			logrus.WithFields(logrus.Fields{"machine_id": machine.ID, "error": err.Error()}).Error("Reload machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Log the creation with context
		logrus.WithFields(logrus.Fields{
			"machine_id": machine.ID,   // New machine ID
			"user_id":    userID,       // Creator
			"shared":     req.IsShared, // Shared or personal
		}).Info("Machine created")
		c.JSON(http.StatusCreated, machineResponse(&machine)) // Return the created record
	}
}

// UpdateMachineHandler applies a partial update to a machine. Owners may
// update their own machines; admins may update any. Ownership itself is
// never mutable here.
func UpdateMachineHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse machine ID from path
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid machine ID"})
			return
		}
		var req UpdateMachineRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err) // Structured validation failure
			return
		}
		var machine domain.Machine // Fetch the target record
		if err := db.First(&machine, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Get machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Only the owner or an admin may mutate
		if !policy.CanMutateMachine(userID, role, &machine) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		// Collect only the fields present in the request
		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Host != nil {
			updates["host"] = *req.Host
		}
		if req.Port != nil {
			updates["port"] = *req.Port
		}
		// Password: absent leaves it, null clears it, a string replaces it
		if req.Password != nil {
			if bytes.Equal(bytes.TrimSpace(req.Password), []byte("null")) {
				updates["password"] = nil // Explicit null clears the password
			} else {
				var pw string
				if err := json.Unmarshal(req.Password, &pw); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{
						"error":   "Validation failed",
						"details": []string{"password must be a string or null"},
					})
					return
				}
				updates["password"] = pw
			}
		}
		// Apply the partial update when anything was provided
		if len(updates) > 0 {
			if err := db.Model(&machine).Updates(updates).Error; err != nil {
				logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Update machine failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}
		// Reload with the owner relation for response shaping
		if err := db.Preload("Owner").First(&machine, id).Error; err != nil {
			logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Reload machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Invalidate the single-record cache for this machine
		_ = cache.Delete(context.Background(), rdb, machineCacheKey(machine.ID))
		c.JSON(http.StatusOK, machineResponse(&machine)) // Return the updated record
	}
}

// DeleteMachineHandler removes a machine. Owners may delete their own
// machines; admins may delete any.
func DeleteMachineHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := middleware.Identity(c) // Get verified identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse machine ID from path
		if err != nil || id < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid machine ID"})
			return
		}
		var machine domain.Machine // Fetch the target record
		if err := db.First(&machine, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Get machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Only the owner or an admin may mutate
		if !policy.CanMutateMachine(userID, role, &machine) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		// Remove the record, no cascade beyond the row itself
		if err := db.Delete(&machine).Error; err != nil {
			logrus.WithFields(logrus.Fields{"machine_id": id, "error": err.Error()}).Error("Delete machine failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		// Invalidate the single-record cache for this machine
		_ = cache.Delete(context.Background(), rdb, machineCacheKey(machine.ID))
		// Log the deletion with context
		logrus.WithFields(logrus.Fields{"machine_id": id, "user_id": userID}).Info("Machine deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Machine deleted successfully"}) // Confirmation
	}
}
