package main

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/database"
	"github.com/voiceattendance/voice-attendance/internal/usecase/auth"
	"github.com/voiceattendance/voice-attendance/pkg/config"
)

func main() {
	log.Println("🚀 Starting demo data seed...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.MigrateUp(db, cfg.Database.Driver); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("🔑 Creating default admin...")
	if err := seedAdmin(db, "admin", "admin@voiceattendance.com", "admin123"); err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}

	log.Println("🎓 Creating demo students...")
	demoStudents := []struct {
		StudentID string
		Name      string
		Branch    string
		Year      int
	}{
		{StudentID: "CS001", Name: "John Doe", Branch: "Computer Science", Year: 3},
		{StudentID: "CS002", Name: "Jane Smith", Branch: "Computer Science", Year: 2},
		{StudentID: "EE001", Name: "Mike Johnson", Branch: "Electrical Engineering", Year: 4},
	}
	for _, s := range demoStudents {
		if err := seedStudent(db, s.StudentID, s.Name, s.Branch, s.Year); err != nil {
			log.Fatalf("❌ Failed to seed student %s: %v", s.StudentID, err)
		}
	}

	log.Println("✅ Demo data seeded successfully!")
	log.Println("\n💡 Usage:")
	log.Println("   Admin login:   POST /api/v1/auth/admin/login   {\"username\": \"admin\", \"password\": \"admin123\"}")
	log.Println("   Student login: POST /api/v1/auth/student/login {\"student_id\": \"CS001\"}")
}

// seedAdmin inserts the admin unless the username is already taken
func seedAdmin(db *gorm.DB, username, email, password string) error {
	var count int64
	if err := db.Model(&entities.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin: %w", err)
	}
	if count > 0 {
		log.Printf("⏭️  Admin %q already exists, skipping", username)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.Create(entities.NewAdmin(username, email, hash)).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("🟢 Admin created: %s / %s", username, password)
	return nil
}

// seedStudent inserts the student unless the student id is already taken
func seedStudent(db *gorm.DB, studentID, name, branch string, year int) error {
	var count int64
	if err := db.Model(&entities.Student{}).Where("student_id = ?", studentID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if count > 0 {
		log.Printf("⏭️  Student %s already exists, skipping", studentID)
		return nil
	}

	if err := db.Create(entities.NewStudent(studentID, name, branch, year)).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	log.Printf("🟢 Student created: %s (%s, %s year %d)", studentID, name, branch, year)
	return nil
}
