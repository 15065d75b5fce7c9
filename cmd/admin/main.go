// Package main provides staff management utilities for Mafather.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"mafather/internal/config"
	"mafather/internal/database"
	"mafather/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <email>     - Grant staff access")
		fmt.Println("  go run ./cmd/admin/main.go demote <email>      - Revoke staff access")
		fmt.Println("  go run ./cmd/admin/main.go list-staff          - List all staff users")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <email>")
			os.Exit(1)
		}
		setStaff(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go demote <email>")
			os.Exit(1)
		}
		setStaff(db, os.Args[2], false)

	case "list-staff":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setStaff(db *gorm.DB, email string, staff bool) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with email %s not found\n", email)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.IsStaff == staff {
		fmt.Printf("User %s (%s) already has is_staff=%v\n", user.Name, user.Email, staff)
		return
	}

	user.IsStaff = staff
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if staff {
		fmt.Printf("User %s (%s) is now staff\n", user.Name, user.Email)
	} else {
		fmt.Printf("User %s (%s) is no longer staff\n", user.Name, user.Email)
	}
}

func listStaff(db *gorm.DB) {
	var staff []models.User
	if err := db.Where("is_staff = ?", true).Order("created_at ASC").Find(&staff).Error; err != nil {
		log.Fatalf("Failed to list staff: %v", err)
	}

	if len(staff) == 0 {
		fmt.Println("No staff users found")
		return
	}

	fmt.Printf("%d staff user(s):\n", len(staff))
	for _, user := range staff {
		fmt.Printf("  %s  %s  (%s)\n", user.ID, user.Email, user.Name)
	}
}
