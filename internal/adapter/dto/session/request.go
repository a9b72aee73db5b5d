package session

// CreateSessionRequest represents the request to open an attendance session
type CreateSessionRequest struct {
	ClassName  string `json:"class_name" validate:"required,min=1,max=255"`
	RoomNumber string `json:"room_number" validate:"required,min=1,max=50"`
}

// ListSessionsRequest represents query parameters for listing sessions
type ListSessionsRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
