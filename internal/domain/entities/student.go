package entities

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an enrolled student
type Student struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	StudentID string    `json:"student_id" gorm:"column:student_id;type:varchar(50);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Branch    string    `json:"branch" gorm:"type:varchar(100);not null"`
	Year      int       `json:"year" gorm:"not null"`

	// Voice enrollment
	VoiceProfilePath *string `json:"voice_profile_path,omitempty" gorm:"type:varchar(500)"`

	// Timestamps
	EnrollmentDate time.Time `json:"enrollment_date" gorm:"type:timestamp;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewStudent creates a new student record
func NewStudent(studentID, name, branch string, year int) *Student {
	now := time.Now()
	return &Student{
		ID:             uuid.New(),
		StudentID:      studentID,
		Name:           name,
		Branch:         branch,
		Year:           year,
		EnrollmentDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// HasVoiceProfile checks if the student has enrolled a voice profile
func (s *Student) HasVoiceProfile() bool {
	return s.VoiceProfilePath != nil && *s.VoiceProfilePath != ""
}

// SetVoiceProfile records the path of the enrolled profile file
func (s *Student) SetVoiceProfile(path string) {
	s.VoiceProfilePath = &path
	s.UpdatedAt = time.Now()
}

// ClearVoiceProfile removes the profile reference
func (s *Student) ClearVoiceProfile() {
	s.VoiceProfilePath = nil
	s.UpdatedAt = time.Now()
}

// Validate validates student data
func (s *Student) Validate() error {
	if s.StudentID == "" {
		return ErrInvalidStudentID
	}
	if s.Name == "" {
		return ErrInvalidName
	}
	if s.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}
