package student

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/domain/repositories"
	"github.com/voiceattendance/voice-attendance/internal/usecase/voice"
)

// RegisterInput carries a new roster entry
type RegisterInput struct {
	StudentID string
	Name      string
	Branch    string
	Year      int
}

// UpdateInput carries the editable student fields. Nil fields are left
// unchanged.
type UpdateInput struct {
	Name   *string
	Branch *string
	Year   *int
}

// StudentService implements Service on the student table
type StudentService struct {
	studentRepo repositories.StudentRepository
	voice       voice.Service // nil skips profile cleanup on removal
	logger      *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(
	studentRepo repositories.StudentRepository,
	voiceService voice.Service,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		voice:       voiceService,
		logger:      logger,
	}
}

// Register adds a student to the roster
func (s *StudentService) Register(ctx context.Context, input RegisterInput) (*entities.Student, error) {
	if _, err := s.studentRepo.FindByStudentID(ctx, input.StudentID); err == nil {
		return nil, apperrors.ErrStudentAlreadyExists(input.StudentID)
	} else if !errors.Is(err, entities.ErrStudentNotFound) {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}

	student := entities.NewStudent(input.StudentID, input.Name, input.Branch, input.Year)
	if err := student.Validate(); err != nil {
		return nil, apperrors.ErrInvalidArgument(err.Error())
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📋 Student registered",
			zap.String("student_id", student.StudentID),
			zap.String("name", student.Name))
	}

	return student, nil
}

// Get returns a student by external student id
func (s *StudentService) Get(ctx context.Context, studentID string) (*entities.Student, error) {
	student, err := s.studentRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(studentID)
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return student, nil
}

// Update changes a student's editable fields
func (s *StudentService) Update(ctx context.Context, studentID string, input UpdateInput) (*entities.Student, error) {
	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Branch != nil {
		student.Branch = *input.Branch
	}
	if input.Year != nil {
		student.Year = *input.Year
	}
	if err := student.Validate(); err != nil {
		return nil, apperrors.ErrInvalidArgument(err.Error())
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✏️ Student updated",
			zap.String("student_id", student.StudentID))
	}

	return student, nil
}

// Remove deletes a student together with their voice profile
func (s *StudentService) Remove(ctx context.Context, studentID string) error {
	student, err := s.Get(ctx, studentID)
	if err != nil {
		return err
	}

	// Best effort: a half-removed profile must not block the roster change.
	if s.voice != nil && s.voice.HasProfile(studentID) {
		if err := s.voice.DeleteProfile(ctx, studentID); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Voice profile cleanup failed",
				zap.String("student_id", studentID),
				zap.Error(err))
		}
	}

	if err := s.studentRepo.Delete(ctx, student.ID); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Student removed",
			zap.String("student_id", studentID))
	}

	return nil
}

// List returns a page of the roster with the total count
func (s *StudentService) List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error) {
	students, total, err := s.studentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}
