// Command migrate applies the database schema explicitly. Connect skips
// AutoMigrate in production, so deploys run this before starting the server.
package main

import (
	"fmt"
	"log"

	"mafather/internal/config"
	"mafather/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("schema applied")
	return nil
}
