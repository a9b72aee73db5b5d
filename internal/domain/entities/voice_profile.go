package entities

import (
	"time"

	"github.com/google/uuid"
)

// VoiceProfile tracks a student's enrolled voice reference. The WAV file on
// disk is authoritative; this row exists for queries and dashboard counts.
type VoiceProfile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	StudentID uuid.UUID `json:"student_id" gorm:"type:uuid;uniqueIndex;not null"`
	FilePath  string    `json:"file_path" gorm:"type:varchar(500);not null"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Student *Student `json:"-" gorm:"foreignKey:StudentID"`
}

// NewVoiceProfile creates a voice profile row for an enrolled reference
func NewVoiceProfile(studentID uuid.UUID, filePath string) *VoiceProfile {
	now := time.Now()
	return &VoiceProfile{
		ID:        uuid.New(),
		StudentID: studentID,
		FilePath:  filePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
