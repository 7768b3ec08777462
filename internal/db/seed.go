package db

import (
	"errors" // Error matching

	"vnc_manager/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Default admin credentials created by Seed. Change the password after
// first login.
const (
	SeedAdminEmail    = "admin@vnc-manager.local"
	seedAdminPassword = "admin123"
)

// Seed creates the default admin account when no user with its email exists
func Seed(db *gorm.DB) error {
	var existing domain.User // Check if the admin already exists
	err := db.Where("email = ?", SeedAdminEmail).First(&existing).Error
	if err == nil {
		logrus.Info("Admin user already exists, skipping seed.") // Nothing to do
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err // Unexpected store failure
	}
	// Hash the default password
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// Create the default admin user
	admin := domain.User{Email: SeedAdminEmail, Password: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"email": SeedAdminEmail}).Warn("Created default admin user, change its password after first login")
	return nil
}
