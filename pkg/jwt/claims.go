package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in access tokens
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Claims represents JWT custom claims
type Claims struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Role      string    `json:"role"`
	Username  string    `json:"username,omitempty"`
	StudentID string    `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to an admin
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsStudent reports whether the token belongs to a student
func (c *Claims) IsStudent() bool {
	return c.Role == RoleStudent
}
