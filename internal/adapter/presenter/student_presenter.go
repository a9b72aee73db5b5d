package presenter

import (
	studentDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/student"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
)

// ToStudentResponse converts a Student entity to its response DTO
func ToStudentResponse(s *entities.Student) *studentDTO.StudentResponse {
	if s == nil {
		return nil
	}
	return &studentDTO.StudentResponse{
		ID:             s.ID.String(),
		StudentID:      s.StudentID,
		Name:           s.Name,
		Branch:         s.Branch,
		Year:           s.Year,
		VoiceEnrolled:  s.HasVoiceProfile(),
		EnrollmentDate: s.EnrollmentDate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToStudentResponses converts a page of students
func ToStudentResponses(students []*entities.Student) []*studentDTO.StudentResponse {
	responses := make([]*studentDTO.StudentResponse, 0, len(students))
	for _, s := range students {
		responses = append(responses, ToStudentResponse(s))
	}
	return responses
}
