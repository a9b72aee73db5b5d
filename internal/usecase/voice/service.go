package voice

import (
	"context"

	"github.com/google/uuid"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// Service defines the interface for the voice use case
type Service interface {
	// Enroll normalizes an uploaded recording and stores it as the student's
	// reference voice profile
	Enroll(ctx context.Context, input EnrollInput) (*EnrollResult, error)

	// Verify runs the full verification flow for a student against a session:
	// existence and activity checks, normalization, comparison, audit
	Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error)

	// VerifyAgainstProfile compares a clip against an already-resolved
	// student's reference profile and writes the audit row. Callers are
	// responsible for session checks.
	VerifyAgainstProfile(ctx context.Context, student *entities.Student, sessionID *uuid.UUID, clip []byte, hint, expectedWord string) (*VerifyResult, error)

	// HasProfile reports whether a usable reference profile exists on disk
	HasProfile(studentID string) bool

	// RandomWord picks one challenge word
	RandomWord() string

	// RandomWords samples count distinct challenge words
	RandomWords(count int) []string

	// ProfileStatus returns profile existence and file metadata
	ProfileStatus(ctx context.Context, studentID string) (*ProfileStatus, error)

	// DeleteProfile removes the reference recording and its DB row
	DeleteProfile(ctx context.Context, studentID string) error

	// StartSweeper starts the background temp-file sweeper
	StartSweeper(ctx context.Context) error

	// StopSweeper gracefully stops the sweeper
	StopSweeper() error
}

// Ensure VoiceService implements Service interface
var _ Service = (*VoiceService)(nil)
