package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AttendanceSessionRepository implements the session repository interface using GORM
type AttendanceSessionRepository struct {
	db *gorm.DB
}

// NewAttendanceSessionRepository creates a new session repository
func NewAttendanceSessionRepository(db *gorm.DB) *AttendanceSessionRepository {
	return &AttendanceSessionRepository{
		db: db,
	}
}

// Create creates a new attendance session
func (r *AttendanceSessionRepository) Create(ctx context.Context, session *entities.AttendanceSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID finds a session by ID
func (r *AttendanceSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AttendanceSession, error) {
	var session entities.AttendanceSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return &session, nil
}

// FindByQRCode finds a session by its QR token
func (r *AttendanceSessionRepository) FindByQRCode(ctx context.Context, qrCode string) (*entities.AttendanceSession, error) {
	var session entities.AttendanceSession
	if err := r.db.WithContext(ctx).Where("qr_code = ?", qrCode).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session by QR code: %w", err)
	}
	return &session, nil
}

// Update updates a session
func (r *AttendanceSessionRepository) Update(ctx context.Context, session *entities.AttendanceSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// List returns an admin's sessions ordered by date, newest first, with the total count
func (r *AttendanceSessionRepository) List(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error) {
	var sessions []*entities.AttendanceSession
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entities.AttendanceSession{}).
		Where("admin_id = ?", adminID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query = query.Order("session_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

// FindActive returns currently active sessions. The nil admin ID selects
// every admin's sessions; the kiosk listing uses that.
func (r *AttendanceSessionRepository) FindActive(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error) {
	var sessions []*entities.AttendanceSession
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if adminID != uuid.Nil {
		query = query.Where("admin_id = ?", adminID)
	}
	if err := query.Order("session_date DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to find active sessions: %w", err)
	}
	return sessions, nil
}

// CountActive returns the number of an admin's active sessions
func (r *AttendanceSessionRepository) CountActive(ctx context.Context, adminID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entities.AttendanceSession{}).
		Where("admin_id = ? AND is_active = ?", adminID, true).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return total, nil
}
