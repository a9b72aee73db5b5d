package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AdminRepository implements the admin repository interface using GORM
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

// Create creates a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *entities.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// FindByID finds an admin by ID
func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by ID: %w", err)
	}
	return &admin, nil
}

// FindByUsername finds an admin by username
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by username: %w", err)
	}
	return &admin, nil
}

// FindByEmail finds an admin by email
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	return &admin, nil
}

// FindByGoogleID finds an admin linked to a Google account
func (r *AdminRepository) FindByGoogleID(ctx context.Context, googleID string) (*entities.Admin, error) {
	var admin entities.Admin
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by Google ID: %w", err)
	}
	return &admin, nil
}

// Update updates an admin
func (r *AdminRepository) Update(ctx context.Context, admin *entities.Admin) error {
	if err := r.db.WithContext(ctx).Save(admin).Error; err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}
	return nil
}
