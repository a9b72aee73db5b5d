package attendance

import (
	"context"

	"github.com/google/uuid"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// Service defines the attendance business logic contract
type Service interface {
	// CreateSession opens a new attendance session with a fresh QR token and
	// a sample of challenge words
	CreateSession(ctx context.Context, input CreateSessionInput) (*entities.AttendanceSession, error)

	// GenerateSessionQR creates a session and renders its QR code image in
	// one step
	GenerateSessionQR(ctx context.Context, input CreateSessionInput) (*QRSession, error)

	// ListSessions returns an admin's sessions with the total count
	ListSessions(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error)

	// ActiveSessions returns an admin's currently active sessions
	ActiveSessions(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error)

	// EndSession deactivates a session owned by the admin
	EndSession(ctx context.Context, adminID, sessionID uuid.UUID) error

	// JoinSession resolves a scanned QR payload and issues the student a
	// challenge word
	JoinSession(ctx context.Context, input JoinInput) (*JoinResult, error)

	// Mark verifies the student's voice and writes the attendance record.
	// A failed verification still marks the student, as absent.
	Mark(ctx context.Context, input MarkInput) (*MarkResult, error)

	// History returns a student's attendance records, newest first
	History(ctx context.Context, studentID string, limit, offset int) ([]*entities.AttendanceRecord, error)

	// SessionAttendance returns a session owned by the admin together with
	// its records
	SessionAttendance(ctx context.Context, adminID, sessionID uuid.UUID) (*SessionAttendance, error)

	// Stats aggregates dashboard numbers for an admin
	Stats(ctx context.Context, adminID uuid.UUID) (*Stats, error)

	// ExportCSV renders an admin's attendance records as a CSV document,
	// optionally restricted to one session
	ExportCSV(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]byte, error)
}

// Ensure AttendanceService implements Service interface
var _ Service = (*AttendanceService)(nil)
