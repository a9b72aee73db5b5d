package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// VoiceProfileRepository defines the interface for voice profile rows
type VoiceProfileRepository interface {
	// Upsert creates the profile row or refreshes it on re-enrollment
	Upsert(ctx context.Context, profile *entities.VoiceProfile) error

	// FindByStudentID finds the profile row for a student
	FindByStudentID(ctx context.Context, studentID uuid.UUID) (*entities.VoiceProfile, error)

	// Delete removes the profile row for a student
	Delete(ctx context.Context, studentID uuid.UUID) error
}
