package student

import (
	"context"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// Service defines the roster management operations
type Service interface {
	// Register adds a student to the roster
	Register(ctx context.Context, input RegisterInput) (*entities.Student, error)

	// Get returns a student by external student id
	Get(ctx context.Context, studentID string) (*entities.Student, error)

	// Update changes a student's editable fields
	Update(ctx context.Context, studentID string, input UpdateInput) (*entities.Student, error)

	// Remove deletes a student together with their voice profile
	Remove(ctx context.Context, studentID string) error

	// List returns a page of the roster with the total count
	List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error)
}

var _ Service = (*StudentService)(nil)
