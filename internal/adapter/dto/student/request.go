package student

// CreateStudentRequest represents the request to add a student to the roster
type CreateStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,min=1,max=50,student_id"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Branch    string `json:"branch" validate:"required,min=1,max=100"`
	Year      int    `json:"year" validate:"required,min=1,max=10"`
}

// UpdateStudentRequest represents the request to update a student. Omitted
// fields are left unchanged.
type UpdateStudentRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Branch *string `json:"branch,omitempty" validate:"omitempty,min=1,max=100"`
	Year   *int    `json:"year,omitempty" validate:"omitempty,min=1,max=10"`
}

// ListStudentsRequest represents query parameters for listing the roster
type ListStudentsRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
