package voice

// EnrollRequest carries the multipart form fields of an enrollment upload.
// The audio blob itself arrives as the "audio" file part.
type EnrollRequest struct {
	StudentID string `form:"student_id" validate:"omitempty,min=1,max=50,student_id"`
}

// WordsRequest represents query parameters for sampling challenge words
type WordsRequest struct {
	Count int `query:"count" validate:"omitempty,min=1,max=25"`
}
