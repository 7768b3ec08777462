package main

import (
	"bufio"   // Buffered stdin reading
	"fmt"     // Prompt output
	"os"      // Stdin handle
	"strings" // Input trimming

	"vnc_manager/internal/config" // Custom import path (Config)
	"vnc_manager/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// prompt reads one trimmed line from stdin after printing a label
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// Main entry point for interactive admin creation
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Create Admin User ===")
	email := strings.ToLower(prompt(reader, "Email: "))
	password := prompt(reader, "Password: ")

	// Both fields are required
	if email == "" || password == "" {
		logrus.Fatal("email and password are required")
	}

	// Refuse to overwrite an existing account
	var existing domain.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		logrus.Fatalf("user with email %s already exists", email)
	}

	// Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}

	// Create the admin user
	user := domain.User{Email: email, Password: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created: id=%d email=%s role=%s\n", user.ID, user.Email, user.Role)
}
