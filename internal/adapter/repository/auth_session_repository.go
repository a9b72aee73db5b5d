package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AuthSessionRepository implements the refresh session repository using GORM
type AuthSessionRepository struct {
	db *gorm.DB
}

// NewAuthSessionRepository creates a new auth session repository
func NewAuthSessionRepository(db *gorm.DB) *AuthSessionRepository {
	return &AuthSessionRepository{
		db: db,
	}
}

// Create creates a new refresh session
func (r *AuthSessionRepository) Create(ctx context.Context, session *entities.AuthSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create auth session: %w", err)
	}
	return nil
}

// FindByToken finds a session by refresh token
func (r *AuthSessionRepository) FindByToken(ctx context.Context, refreshToken string) (*entities.AuthSession, error) {
	var session entities.AuthSession
	if err := r.db.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find auth session by token: %w", err)
	}
	return &session, nil
}

// UpdateLastUsed updates the last used timestamp
func (r *AuthSessionRepository) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&entities.AuthSession{}).
		Where("id = ?", sessionID).
		Update("last_used_at", now).Error; err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}
	return nil
}

// Revoke revokes a session
func (r *AuthSessionRepository) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&entities.AuthSession{}).
		Where("id = ?", sessionID).
		Update("revoked_at", now).Error; err != nil {
		return fmt.Errorf("failed to revoke auth session: %w", err)
	}
	return nil
}

// RevokeAllBySubject revokes all sessions for an admin or student
func (r *AuthSessionRepository) RevokeAllBySubject(ctx context.Context, subjectID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&entities.AuthSession{}).
		Where("subject_id = ? AND revoked_at IS NULL", subjectID).
		Update("revoked_at", now).Error; err != nil {
		return fmt.Errorf("failed to revoke auth sessions: %w", err)
	}
	return nil
}

// DeleteExpired deletes sessions that expired before the given time
func (r *AuthSessionRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	if err := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&entities.AuthSession{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired auth sessions: %w", err)
	}
	return nil
}
