package domain

import "time" // Timestamps

// Machine Model (a remote VNC endpoint reachable through the websockify gateway)
type Machine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                       // Primary key
	Name      string    `gorm:"not null" json:"name"`                                       // Display name
	Host      string    `gorm:"not null" json:"host"`                                       // VNC host address
	Port      int       `gorm:"not null;default:5900" json:"port"`                          // VNC port, defaults to 5900
	Password  *string   `json:"password"`                                                   // Optional VNC password, stored as given
	OwnerID   *uint     `json:"ownerId"`                                                    // Owning user; nil means shared
	Owner     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"owner"` // Owner relation for response shaping
	CreatedAt time.Time `json:"createdAt"`                                                  // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                                                  // Timestamp of last update
}

// IsShared reports whether the machine has no owning user
func (m *Machine) IsShared() bool {
	return m.OwnerID == nil // nil owner means visible to everyone
}

// OwnedBy reports whether the machine is the personal machine of userID
func (m *Machine) OwnedBy(userID uint) bool {
	return m.OwnerID != nil && *m.OwnerID == userID // Shared machines are owned by nobody
}
