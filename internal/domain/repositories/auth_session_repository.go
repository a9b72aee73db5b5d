package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AuthSessionRepository defines the interface for refresh session data access
type AuthSessionRepository interface {
	// Create creates a new refresh session
	Create(ctx context.Context, session *entities.AuthSession) error

	// FindByToken finds a session by refresh token
	FindByToken(ctx context.Context, refreshToken string) (*entities.AuthSession, error)

	// UpdateLastUsed updates the last used timestamp
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	// Revoke revokes a session
	Revoke(ctx context.Context, sessionID uuid.UUID) error

	// RevokeAllBySubject revokes all sessions for an admin or student
	RevokeAllBySubject(ctx context.Context, subjectID uuid.UUID) error

	// DeleteExpired deletes sessions that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) error
}
