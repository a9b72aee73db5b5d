package student

import "time"

// StudentResponse represents a roster entry in responses
type StudentResponse struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	Name           string    `json:"name"`
	Branch         string    `json:"branch"`
	Year           int       `json:"year"`
	VoiceEnrolled  bool      `json:"voice_enrolled"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
