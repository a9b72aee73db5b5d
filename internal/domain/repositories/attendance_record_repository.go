package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AttendanceRecordRepository defines the interface for attendance data access
type AttendanceRecordRepository interface {
	// Create creates an attendance record. Marking the same student twice in
	// one session returns entities.ErrAlreadyMarked.
	Create(ctx context.Context, record *entities.AttendanceRecord) error

	// HasMarked reports whether the student already has a record in the session
	HasMarked(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error)

	// ListBySession returns all records for a session with student info
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.AttendanceRecord, error)

	// ListByStudent returns a student's records with session info, newest first
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entities.AttendanceRecord, error)

	// ListForExport returns an admin's records with student and session info,
	// optionally filtered to one session
	ListForExport(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]*entities.AttendanceRecord, error)

	// CountByStatusSince counts records with the given status marked at or
	// after the given time, scoped to sessions owned by the admin
	CountByStatusSince(ctx context.Context, adminID uuid.UUID, status entities.AttendanceStatus, since time.Time) (int64, error)
}
