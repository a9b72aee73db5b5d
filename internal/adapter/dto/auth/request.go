package auth

// AdminLoginRequest represents an admin credential login
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

// StudentLoginRequest represents the kiosk student login. There is no
// password; the voice check at marking time is the credential.
type StudentLoginRequest struct {
	StudentID string `json:"student_id" validate:"required,min=1,max=50,student_id"`
}

// RefreshTokenRequest represents the request to refresh access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents the request to logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
