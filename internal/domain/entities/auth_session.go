package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuthSession represents an issued refresh token for an admin or student
type AuthSession struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SubjectID    uuid.UUID `json:"subject_id" gorm:"type:uuid;not null;index"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null"`
	RefreshToken string    `json:"-" gorm:"column:refresh_token;type:text;uniqueIndex;not null"`

	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"type:timestamp;not null;index"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty" gorm:"type:timestamp"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" gorm:"type:timestamp"`

	// Device info
	IPAddress *string `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	UserAgent *string `json:"user_agent,omitempty" gorm:"type:text"`
}

// NewAuthSession creates a new refresh session
func NewAuthSession(subjectID uuid.UUID, role, refreshToken string, expiresAt time.Time) *AuthSession {
	return &AuthSession{
		ID:           uuid.New(),
		SubjectID:    subjectID,
		Role:         role,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
	}
}

// IsExpired checks if the session is expired
func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if the session is usable (not expired and not revoked)
func (s *AuthSession) IsValid() bool {
	if s == nil {
		return false
	}
	return !s.IsExpired() && s.RevokedAt == nil
}

// Revoke revokes the session
func (s *AuthSession) Revoke() {
	now := time.Now()
	s.RevokedAt = &now
}

// UpdateLastUsed updates the last used timestamp
func (s *AuthSession) UpdateLastUsed() {
	now := time.Now()
	s.LastUsedAt = &now
}

// WithDeviceInfo adds device information
func (s *AuthSession) WithDeviceInfo(ip, userAgent string) *AuthSession {
	s.IPAddress = &ip
	s.UserAgent = &userAgent
	return s
}
