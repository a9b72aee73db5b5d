package attendance

import (
	"time"

	"github.com/voiceattendance/voice-attendance/internal/adapter/dto/session"
)

// JoinResponse tells the student which session they joined and which word
// to speak
type JoinResponse struct {
	Session       *session.SessionResponse `json:"session"`
	ChallengeWord string                   `json:"challenge_word"`
	Message       string                   `json:"message"`
}

// MarkResponse is the outcome of one attendance attempt
type MarkResponse struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	Score     float64   `json:"similarity_score"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordResponse represents one attendance record in responses
type RecordResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	ClassName   string    `json:"class_name,omitempty"`
	RoomNumber  string    `json:"room_number,omitempty"`
	SessionDate time.Time `json:"session_date,omitempty"`
	Status      string    `json:"status"`
	Score       float64   `json:"verification_score"`
	SpokenWord  string    `json:"spoken_word,omitempty"`
	MarkedAt    time.Time `json:"marked_at"`
}

// SessionAttendanceResponse pairs a session with its records, including the
// students behind them
type SessionAttendanceResponse struct {
	Session *session.SessionResponse `json:"session"`
	Records []*SessionRecordResponse `json:"records"`
	Total   int                      `json:"total"`
}

// SessionRecordResponse is a record row in the admin session view
type SessionRecordResponse struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Name       string    `json:"name,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	Year       int       `json:"year,omitempty"`
	Status     string    `json:"status"`
	Score      float64   `json:"verification_score"`
	SpokenWord string    `json:"spoken_word,omitempty"`
	MarkedAt   time.Time `json:"marked_at"`
}
