package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	attendanceDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/attendance"
	"github.com/voiceattendance/voice-attendance/internal/adapter/presenter"
	attendanceUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
)

// Attendance handles the student-facing join and mark flows
type Attendance struct {
	attendanceService attendanceUsecase.Service
	logger            *zap.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService attendanceUsecase.Service, logger *zap.Logger) *Attendance {
	return &Attendance{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// Join handles POST /attendance/join
// @Summary      Join a session
// @Description  Resolves a scanned QR payload and issues the student a challenge word
// @Tags         Attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      attendance.JoinSessionRequest  true  "Scanned QR payload"
// @Success      200      {object}  attendance.JoinResponse        "Session joined"
// @Failure      400      {object}  map[string]interface{}         "Session inactive or no voice profile"
// @Failure      404      {object}  map[string]interface{}         "Invalid QR code"
// @Router       /attendance/join [post]
func (h *Attendance) Join(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req attendanceDTO.JoinSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.attendanceService.JoinSession(c.Request().Context(), attendanceUsecase.JoinInput{
		StudentID: claims.StudentID,
		QRPayload: req.QRPayload,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, attendanceDTO.JoinResponse{
		Session:       presenter.ToPublicSessionResponse(result.Session),
		ChallengeWord: result.Word,
		Message:       "Speak the challenge word to mark your attendance",
	})
}

// Mark handles POST /attendance/mark (multipart)
// @Summary      Mark attendance
// @Description  Verifies the student's voice against their reference profile and records the attendance outcome
// @Tags         Attendance
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        session_id   formData  string  true   "Session ID (UUID)"
// @Param        spoken_word  formData  string  false  "Challenge word the student spoke"
// @Param        audio        formData  file    true   "Verification recording"
// @Success      200  {object}  attendance.MarkResponse  "Attendance outcome"
// @Failure      400  {object}  map[string]interface{}   "Already marked, inactive session, or no profile"
// @Router       /attendance/mark [post]
func (h *Attendance) Mark(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req attendanceDTO.MarkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id must be a valid UUID")
	}

	audio, hint, err := readAudioUpload(c, "audio")
	if err != nil {
		return err
	}

	result, err := h.attendanceService.Mark(c.Request().Context(), attendanceUsecase.MarkInput{
		StudentID:  claims.StudentID,
		SessionID:  sessionID,
		SpokenWord: req.SpokenWord,
		Audio:      audio,
		Hint:       hint,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, attendanceDTO.MarkResponse{
		Success:   result.IsMatch,
		Status:    string(result.Status),
		Score:     result.Score,
		Message:   result.Message,
		Timestamp: result.Timestamp,
	})
}

// My handles GET /attendance/my
// @Summary      My attendance history
// @Description  Returns the student's attendance records with session info, newest first
// @Tags         Attendance
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (default: 1)"
// @Param        page_size  query     int  false  "Items per page (default: 20)"
// @Success      200        {object}  map[string]interface{}  "Attendance history"
// @Router       /attendance/my [get]
func (h *Attendance) My(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req attendanceDTO.HistoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	limit, offset := pageParams(req.Page, req.PageSize)
	records, err := h.attendanceService.History(c.Request().Context(), claims.StudentID, limit, offset)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": presenter.ToRecordResponses(records),
		"total":   len(records),
	})
}

// ActiveSessions handles GET /attendance/sessions/active
// @Summary      Active sessions
// @Description  Lists currently joinable sessions for the kiosk screen
// @Tags         Attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}  "Active sessions"
// @Router       /attendance/sessions/active [get]
func (h *Attendance) ActiveSessions(c echo.Context) error {
	// The kiosk view spans all admins; uuid.Nil selects every active session.
	sessions, err := h.attendanceService.ActiveSessions(c.Request().Context(), uuid.Nil)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	public := make([]interface{}, 0, len(sessions))
	for _, s := range sessions {
		public = append(public, presenter.ToPublicSessionResponse(s))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": public,
		"total":    len(public),
	})
}
