package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// AttendanceRecordRepository implements the attendance repository interface using GORM
type AttendanceRecordRepository struct {
	db *gorm.DB
}

// NewAttendanceRecordRepository creates a new attendance record repository
func NewAttendanceRecordRepository(db *gorm.DB) *AttendanceRecordRepository {
	return &AttendanceRecordRepository{
		db: db,
	}
}

// Create creates an attendance record. The unique index on
// (session_id, student_id) is the backstop; the explicit check keeps the
// error mapping driver-independent.
func (r *AttendanceRecordRepository) Create(ctx context.Context, record *entities.AttendanceRecord) error {
	marked, err := r.HasMarked(ctx, record.SessionID, record.StudentID)
	if err != nil {
		return err
	}
	if marked {
		return entities.ErrAlreadyMarked
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

// HasMarked reports whether the student already has a record in the session
func (r *AttendanceRecordRepository) HasMarked(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.AttendanceRecord{}).
		Where("session_id = ? AND student_id = ?", sessionID, studentID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	return count > 0, nil
}

// ListBySession returns all records for a session with student info
func (r *AttendanceRecordRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("session_id = ?", sessionID).
		Order("marked_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list session attendance: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's records with session info, newest first
func (r *AttendanceRecordRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	query := r.db.WithContext(ctx).
		Preload("Session").
		Where("student_id = ?", studentID).
		Order("marked_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list student attendance: %w", err)
	}
	return records, nil
}

// ListForExport returns an admin's records with student and session info,
// optionally filtered to one session
func (r *AttendanceRecordRepository) ListForExport(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var records []*entities.AttendanceRecord
	query := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Session").
		Joins("JOIN attendance_sessions ON attendance_sessions.id = attendance_records.session_id").
		Where("attendance_sessions.admin_id = ?", adminID).
		Order("marked_at ASC")
	if sessionID != nil {
		query = query.Where("attendance_records.session_id = ?", *sessionID)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance for export: %w", err)
	}
	return records, nil
}

// CountByStatusSince counts records with the given status marked at or after
// the given time, scoped to sessions owned by the admin
func (r *AttendanceRecordRepository) CountByStatusSince(ctx context.Context, adminID uuid.UUID, status entities.AttendanceStatus, since time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entities.AttendanceRecord{}).
		Joins("JOIN attendance_sessions ON attendance_sessions.id = attendance_records.session_id").
		Where("attendance_sessions.admin_id = ?", adminID).
		Where("attendance_records.status = ? AND attendance_records.marked_at >= ?", status, since).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	return total, nil
}
