package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// VoiceVerificationRepository defines the interface for verification audit rows
type VoiceVerificationRepository interface {
	// Create records a verification attempt
	Create(ctx context.Context, verification *entities.VoiceVerification) error

	// ListByStudent returns a student's verification history, newest first
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entities.VoiceVerification, error)

	// ListBySession returns all verification attempts for a session
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.VoiceVerification, error)
}
