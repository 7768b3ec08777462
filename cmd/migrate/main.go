package main

import (
	"vnc_manager/internal/config" // Custom import path (Config)
	"vnc_manager/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration and seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	conn := db.Migrate(cfg.DSN()) // Run schema migration
	// Seed the default admin account
	if err := db.Seed(conn); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
}
