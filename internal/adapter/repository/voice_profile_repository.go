package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// VoiceProfileRepository implements the voice profile repository interface using GORM
type VoiceProfileRepository struct {
	db *gorm.DB
}

// NewVoiceProfileRepository creates a new voice profile repository
func NewVoiceProfileRepository(db *gorm.DB) *VoiceProfileRepository {
	return &VoiceProfileRepository{
		db: db,
	}
}

// Upsert creates the profile row or refreshes it on re-enrollment
func (r *VoiceProfileRepository) Upsert(ctx context.Context, profile *entities.VoiceProfile) error {
	var existing entities.VoiceProfile
	err := r.db.WithContext(ctx).Where("student_id = ?", profile.StudentID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create voice profile: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up voice profile: %w", err)
	}

	existing.FilePath = profile.FilePath
	existing.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update voice profile: %w", err)
	}
	return nil
}

// FindByStudentID finds the profile row for a student
func (r *VoiceProfileRepository) FindByStudentID(ctx context.Context, studentID uuid.UUID) (*entities.VoiceProfile, error) {
	var profile entities.VoiceProfile
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrVoiceProfileNotFound
		}
		return nil, fmt.Errorf("failed to find voice profile: %w", err)
	}
	return &profile, nil
}

// Delete removes the profile row for a student
func (r *VoiceProfileRepository) Delete(ctx context.Context, studentID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&entities.VoiceProfile{}).Error; err != nil {
		return fmt.Errorf("failed to delete voice profile: %w", err)
	}
	return nil
}
