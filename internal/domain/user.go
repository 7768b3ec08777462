package domain

import "time" // Timestamps

// Role values stored on User.Role and carried in JWT claims
const (
	RoleAdmin = "ADMIN" // Full access, may manage users and shared machines
	RoleUser  = "USER"  // May only manage personal machines
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`         // Primary key
	Email     string    `gorm:"unique;not null" json:"email"` // Unique email, login identifier
	Password  string    `gorm:"not null" json:"-"`            // Bcrypt hash, never serialized
	Role      string    `gorm:"default:USER" json:"role"`     // Role: ADMIN or USER
	CreatedAt time.Time `json:"createdAt"`                    // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                    // Timestamp of last update
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin // Only ADMIN counts
}
