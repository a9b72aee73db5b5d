package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	// Create creates a new admin
	Create(ctx context.Context, admin *entities.Admin) error

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error)

	// FindByUsername finds an admin by username
	FindByUsername(ctx context.Context, username string) (*entities.Admin, error)

	// FindByEmail finds an admin by email
	FindByEmail(ctx context.Context, email string) (*entities.Admin, error)

	// FindByGoogleID finds an admin linked to a Google account
	FindByGoogleID(ctx context.Context, googleID string) (*entities.Admin, error)

	// Update updates an admin
	Update(ctx context.Context, admin *entities.Admin) error
}
