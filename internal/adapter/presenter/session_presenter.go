package presenter

import (
	sessionDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/session"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
)

// ToSessionResponse converts an AttendanceSession entity to its response
// DTO. Challenge words are included; students receive only their single
// issued word through the join flow.
func ToSessionResponse(s *entities.AttendanceSession) *sessionDTO.SessionResponse {
	if s == nil {
		return nil
	}
	return &sessionDTO.SessionResponse{
		ID:             s.ID.String(),
		ClassName:      s.ClassName,
		RoomNumber:     s.RoomNumber,
		QRCode:         s.QRCode,
		SessionDate:    s.SessionDate,
		IsActive:       s.IsActive,
		ChallengeWords: s.ChallengeWordList(),
		CreatedAt:      s.CreatedAt,
	}
}

// ToPublicSessionResponse is the student-facing view: the QR token and the
// word list stay hidden.
func ToPublicSessionResponse(s *entities.AttendanceSession) *sessionDTO.SessionResponse {
	resp := ToSessionResponse(s)
	if resp == nil {
		return nil
	}
	resp.QRCode = ""
	resp.ChallengeWords = nil
	return resp
}

// ToSessionResponses converts a page of sessions
func ToSessionResponses(sessions []*entities.AttendanceSession) []*sessionDTO.SessionResponse {
	responses := make([]*sessionDTO.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, ToSessionResponse(s))
	}
	return responses
}

// ToSessionQRResponse converts a created session plus its QR image
func ToSessionQRResponse(qs *attendance.QRSession) *sessionDTO.SessionQRResponse {
	if qs == nil {
		return nil
	}
	return &sessionDTO.SessionQRResponse{
		Session:   ToSessionResponse(qs.Session),
		QRImage:   qs.QRImage,
		ExpiresAt: qs.ExpiresAt,
	}
}

// ToStatsResponse converts the dashboard aggregates
func ToStatsResponse(st *attendance.Stats) *sessionDTO.StatsResponse {
	if st == nil {
		return nil
	}
	return &sessionDTO.StatsResponse{
		TotalSessions:  st.TotalSessions,
		ActiveSessions: st.ActiveSessions,
		TotalStudents:  st.TotalStudents,
		PresentToday:   st.PresentToday,
		AbsentToday:    st.AbsentToday,
		AttendanceRate: st.AttendanceRate,
	}
}
