package entities

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents a staff account that manages students and sessions
type Admin struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text;not null"` // Never expose in JSON
	GoogleID     *string   `json:"-" gorm:"column:google_id;type:varchar(255);index"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewAdmin creates a new admin with a hashed password
func NewAdmin(username, email, passwordHash string) *Admin {
	now := time.Now()
	return &Admin{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates admin data
func (a *Admin) Validate() error {
	if a.Username == "" {
		return ErrInvalidUsername
	}
	if a.Email == "" {
		return ErrInvalidEmail
	}
	if a.PasswordHash == "" && a.GoogleID == nil {
		return ErrInvalidPassword
	}
	return nil
}

// PublicAdmin returns an admin with sensitive fields removed
type PublicAdmin struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts Admin to PublicAdmin
func (a *Admin) ToPublic() *PublicAdmin {
	return &PublicAdmin{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
