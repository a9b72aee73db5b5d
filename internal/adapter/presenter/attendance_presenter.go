package presenter

import (
	attendanceDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/attendance"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
)

// ToRecordResponse converts an AttendanceRecord to the student-facing DTO,
// folding in session info when preloaded
func ToRecordResponse(r *entities.AttendanceRecord) *attendanceDTO.RecordResponse {
	if r == nil {
		return nil
	}
	resp := &attendanceDTO.RecordResponse{
		ID:        r.ID.String(),
		SessionID: r.SessionID.String(),
		Status:    string(r.Status),
		Score:     r.VerificationScore,
		MarkedAt:  r.MarkedAt,
	}
	if r.SpokenWord != nil {
		resp.SpokenWord = *r.SpokenWord
	}
	if r.Session != nil {
		resp.ClassName = r.Session.ClassName
		resp.RoomNumber = r.Session.RoomNumber
		resp.SessionDate = r.Session.SessionDate
	}
	return resp
}

// ToRecordResponses converts a page of attendance records
func ToRecordResponses(records []*entities.AttendanceRecord) []*attendanceDTO.RecordResponse {
	responses := make([]*attendanceDTO.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, ToRecordResponse(r))
	}
	return responses
}

// ToSessionAttendanceResponse converts the admin session view with its
// records and the students behind them
func ToSessionAttendanceResponse(sa *attendance.SessionAttendance) *attendanceDTO.SessionAttendanceResponse {
	if sa == nil {
		return nil
	}
	records := make([]*attendanceDTO.SessionRecordResponse, 0, len(sa.Records))
	for _, r := range sa.Records {
		row := &attendanceDTO.SessionRecordResponse{
			ID:       r.ID.String(),
			Status:   string(r.Status),
			Score:    r.VerificationScore,
			MarkedAt: r.MarkedAt,
		}
		if r.SpokenWord != nil {
			row.SpokenWord = *r.SpokenWord
		}
		if r.Student != nil {
			row.StudentID = r.Student.StudentID
			row.Name = r.Student.Name
			row.Branch = r.Student.Branch
			row.Year = r.Student.Year
		}
		records = append(records, row)
	}
	return &attendanceDTO.SessionAttendanceResponse{
		Session: ToSessionResponse(sa.Session),
		Records: records,
		Total:   len(records),
	}
}
