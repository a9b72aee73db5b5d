package session

import "time"

// SessionResponse represents an attendance session in responses
type SessionResponse struct {
	ID             string    `json:"id"`
	ClassName      string    `json:"class_name"`
	RoomNumber     string    `json:"room_number"`
	QRCode         string    `json:"qr_code,omitempty"`
	SessionDate    time.Time `json:"session_date"`
	IsActive       bool      `json:"is_active"`
	ChallengeWords []string  `json:"challenge_words,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionQRResponse bundles a created session with its rendered QR image
type SessionQRResponse struct {
	Session   *SessionResponse `json:"session"`
	QRImage   string           `json:"qr_image"` // base64 PNG
	ExpiresAt time.Time        `json:"expires_at"`
}

// StatsResponse represents the admin dashboard numbers
type StatsResponse struct {
	TotalSessions  int64   `json:"total_sessions"`
	ActiveSessions int64   `json:"active_sessions"`
	TotalStudents  int64   `json:"total_students"`
	PresentToday   int64   `json:"present_today"`
	AbsentToday    int64   `json:"absent_today"`
	AttendanceRate float64 `json:"attendance_rate"`
}
