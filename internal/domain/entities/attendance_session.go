package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AttendanceSession represents a class session students mark attendance for
type AttendanceSession struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClassName  string    `json:"class_name" gorm:"type:varchar(255);not null"`
	RoomNumber string    `json:"room_number" gorm:"type:varchar(50);not null"`
	AdminID    uuid.UUID `json:"admin_id" gorm:"type:uuid;not null;index"`

	// QRCode is the opaque token embedded in the session QR payload
	QRCode      string    `json:"qr_code" gorm:"column:qr_code;type:varchar(100);uniqueIndex;not null"`
	SessionDate time.Time `json:"session_date" gorm:"type:timestamp;not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true;not null"`

	// ChallengeWords holds the words sampled for this session
	ChallengeWords datatypes.JSON `json:"challenge_words"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Admin *Admin `json:"-" gorm:"foreignKey:AdminID"`
}

// NewAttendanceSession creates an active session with a fresh QR token
func NewAttendanceSession(className, roomNumber string, adminID uuid.UUID, challengeWords []string) *AttendanceSession {
	now := time.Now()
	words, _ := json.Marshal(challengeWords)

	return &AttendanceSession{
		ID:             uuid.New(),
		ClassName:      className,
		RoomNumber:     roomNumber,
		AdminID:        adminID,
		QRCode:         uuid.NewString(),
		SessionDate:    now,
		IsActive:       true,
		ChallengeWords: words,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ChallengeWordList decodes the stored challenge words
func (s *AttendanceSession) ChallengeWordList() []string {
	var words []string
	if err := json.Unmarshal(s.ChallengeWords, &words); err != nil {
		return nil
	}
	return words
}

// End deactivates the session
func (s *AttendanceSession) End() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
}

// IsJoinable checks if students can still join this session
func (s *AttendanceSession) IsJoinable() bool {
	return s.IsActive
}

// Validate validates session data
func (s *AttendanceSession) Validate() error {
	if s.ClassName == "" {
		return ErrInvalidClassName
	}
	if s.AdminID == uuid.Nil {
		return ErrInvalidRequest
	}
	return nil
}
