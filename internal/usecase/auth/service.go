package auth

import (
	"context"

	"github.com/google/uuid"

	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
)

// Service defines the authentication operations
type Service interface {
	// LoginAdmin authenticates an admin by username and password
	LoginAdmin(ctx context.Context, input AdminLoginInput) (*TokenPair, error)

	// LoginStudent authenticates a student by student id. The kiosk flow has
	// no password; the voice verification at marking time is the credential.
	LoginStudent(ctx context.Context, input StudentLoginInput) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair and
	// revokes the session behind the old one
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the session behind a refresh token
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll revokes every session of an admin or student
	LogoutAll(ctx context.Context, subjectID uuid.UUID) error

	// Me returns the current identity behind validated claims
	Me(ctx context.Context, claims *appjwt.Claims) (*Identity, error)

	// GoogleEnabled reports whether Google sign-in is configured
	GoogleEnabled() bool

	// GoogleAuthURL generates the Google consent URL with a one-time state
	GoogleAuthURL(ctx context.Context) (*GoogleAuthURL, error)

	// GoogleCallback exchanges the OAuth callback for a token pair, linking
	// or provisioning the admin account by email
	GoogleCallback(ctx context.Context, code, state string) (*TokenPair, error)

	// PruneSessions deletes refresh sessions that are past expiry
	PruneSessions(ctx context.Context) error
}

var _ Service = (*AuthService)(nil)
