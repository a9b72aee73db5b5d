package auth

// IdentityResponse represents the authenticated account in responses
type IdentityResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// TokenPairResponse represents the authentication response with tokens
type TokenPairResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"` // seconds
	TokenType    string            `json:"token_type"` // "bearer"
	Identity     *IdentityResponse `json:"identity"`
}

// GoogleAuthURLResponse carries the consent URL for the Google code flow
type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
