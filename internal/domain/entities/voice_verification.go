package entities

import (
	"time"

	"github.com/google/uuid"
)

// VoiceVerification is an audit row written for every verification attempt,
// matched or not, so decisions can be reviewed later.
type VoiceVerification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	StudentID uuid.UUID  `json:"student_id" gorm:"type:uuid;not null;index"`
	SessionID *uuid.UUID `json:"session_id,omitempty" gorm:"type:uuid;index"`

	// AudioObjectKey points at the archived clip in object storage, when
	// archiving is enabled
	AudioObjectKey *string `json:"audio_object_key,omitempty" gorm:"type:varchar(500)"`

	SimilarityScore float64 `json:"similarity_score"`
	IsMatch         bool    `json:"is_match"`
	Backend         string  `json:"backend" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewVoiceVerification creates an audit row for a verification attempt
func NewVoiceVerification(studentID uuid.UUID, sessionID *uuid.UUID, score float64, isMatch bool, backend string) *VoiceVerification {
	return &VoiceVerification{
		ID:              uuid.New(),
		StudentID:       studentID,
		SessionID:       sessionID,
		SimilarityScore: score,
		IsMatch:         isMatch,
		Backend:         backend,
		CreatedAt:       time.Now(),
	}
}
