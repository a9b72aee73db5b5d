package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	// Create creates a new student
	Create(ctx context.Context, student *entities.Student) error

	// FindByID finds a student by internal ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Student, error)

	// FindByStudentID finds a student by external student ID (e.g. CS001)
	FindByStudentID(ctx context.Context, studentID string) (*entities.Student, error)

	// Update updates a student
	Update(ctx context.Context, student *entities.Student) error

	// Delete deletes a student
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated list of students with the total count
	List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error)

	// Count returns the total number of students
	Count(ctx context.Context) (int64, error)

	// CountEnrolled returns the number of students with a voice profile
	CountEnrolled(ctx context.Context) (int64, error)
}
