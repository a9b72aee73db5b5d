package attendance

// JoinSessionRequest represents a student's scanned QR payload. The payload
// may be the signed JSON the QR encodes or the bare session token.
type JoinSessionRequest struct {
	QRPayload string `json:"qr_payload" validate:"required"`
}

// MarkRequest carries the multipart form fields of a marking attempt. The
// recording arrives as the "audio" file part.
type MarkRequest struct {
	SessionID  string `form:"session_id" validate:"required,uuid"`
	SpokenWord string `form:"spoken_word" validate:"omitempty,max=100"`
}

// HistoryRequest represents query parameters for attendance history
type HistoryRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
