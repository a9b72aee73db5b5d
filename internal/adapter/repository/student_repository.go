package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// StudentRepository implements the student repository interface using GORM
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// Create creates a new student
func (r *StudentRepository) Create(ctx context.Context, student *entities.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// FindByID finds a student by internal ID
func (r *StudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Student, error) {
	var student entities.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student by ID: %w", err)
	}
	return &student, nil
}

// FindByStudentID finds a student by external student ID
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*entities.Student, error) {
	var student entities.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student by student ID: %w", err)
	}
	return &student, nil
}

// Update updates a student
func (r *StudentRepository) Update(ctx context.Context, student *entities.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// Delete deletes a student
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Student{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

// List returns a paginated list of students with the total count
func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error) {
	var students []*entities.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Student{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query = query.Order("student_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}

// Count returns the total number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.Student{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, nil
}

// CountEnrolled returns the number of students with a voice profile
func (r *StudentRepository) CountEnrolled(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Student{}).
		Where("voice_profile_path IS NOT NULL AND voice_profile_path != ''").
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrolled students: %w", err)
	}
	return total, nil
}
