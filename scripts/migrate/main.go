package main

import (
	"log"
	"os"

	"github.com/voiceattendance/voice-attendance/internal/infrastructure/database"
	"github.com/voiceattendance/voice-attendance/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database using GORM
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	// Apply migrations
	if err := database.MigrateUp(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	os.Exit(0)
}
