package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AttendanceSessionRepository defines the interface for session data access
type AttendanceSessionRepository interface {
	// Create creates a new attendance session
	Create(ctx context.Context, session *entities.AttendanceSession) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AttendanceSession, error)

	// FindByQRCode finds a session by its QR token
	FindByQRCode(ctx context.Context, qrCode string) (*entities.AttendanceSession, error)

	// Update updates a session
	Update(ctx context.Context, session *entities.AttendanceSession) error

	// List returns an admin's sessions ordered by date, newest first, with the total count
	List(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error)

	// FindActive returns currently active sessions; the nil admin ID
	// selects every admin's sessions
	FindActive(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error)

	// CountActive returns the number of an admin's active sessions
	CountActive(ctx context.Context, adminID uuid.UUID) (int64, error)
}
