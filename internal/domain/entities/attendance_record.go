package entities

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus defines attendance outcomes
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// IsValid checks if the attendance status is valid
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent:
		return true
	}
	return false
}

// AttendanceRecord represents one student's attendance outcome for a session.
// A student can hold at most one record per session.
type AttendanceRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_attendance_session_student"`
	StudentID uuid.UUID `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_attendance_session_student"`

	Status            AttendanceStatus `json:"status" gorm:"type:varchar(20);not null"`
	VerificationScore float64          `json:"verification_score"`
	SpokenWord        *string          `json:"spoken_word,omitempty" gorm:"type:varchar(100)"`
	MarkedAt          time.Time        `json:"marked_at" gorm:"type:timestamp;not null"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Session *AttendanceSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Student *Student           `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// NewAttendanceRecord creates an attendance record for a verification outcome
func NewAttendanceRecord(sessionID, studentID uuid.UUID, status AttendanceStatus, score float64, spokenWord string) *AttendanceRecord {
	record := &AttendanceRecord{
		ID:                uuid.New(),
		SessionID:         sessionID,
		StudentID:         studentID,
		Status:            status,
		VerificationScore: score,
		MarkedAt:          time.Now(),
	}
	if spokenWord != "" {
		record.SpokenWord = &spokenWord
	}
	return record
}

// Validate validates attendance record data
func (r *AttendanceRecord) Validate() error {
	if r.SessionID == uuid.Nil || r.StudentID == uuid.Nil {
		return ErrInvalidRequest
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
