package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// VoiceVerificationRepository implements the verification audit repository using GORM
type VoiceVerificationRepository struct {
	db *gorm.DB
}

// NewVoiceVerificationRepository creates a new verification audit repository
func NewVoiceVerificationRepository(db *gorm.DB) *VoiceVerificationRepository {
	return &VoiceVerificationRepository{
		db: db,
	}
}

// Create records a verification attempt
func (r *VoiceVerificationRepository) Create(ctx context.Context, verification *entities.VoiceVerification) error {
	if err := r.db.WithContext(ctx).Create(verification).Error; err != nil {
		return fmt.Errorf("failed to create verification record: %w", err)
	}
	return nil
}

// ListByStudent returns a student's verification history, newest first
func (r *VoiceVerificationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entities.VoiceVerification, error) {
	var verifications []*entities.VoiceVerification
	query := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&verifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list verifications by student: %w", err)
	}
	return verifications, nil
}

// ListBySession returns all verification attempts for a session
func (r *VoiceVerificationRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.VoiceVerification, error) {
	var verifications []*entities.VoiceVerification
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&verifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list verifications by session: %w", err)
	}
	return verifications, nil
}
