package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voiceattendance/voice-attendance/internal/adapter/dto/common"
	sessionDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/session"
	"github.com/voiceattendance/voice-attendance/internal/adapter/presenter"
	attendanceUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
)

// Session handles attendance session management (admin only)
type Session struct {
	attendanceService attendanceUsecase.Service
	logger            *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(attendanceService attendanceUsecase.Service, logger *zap.Logger) *Session {
	return &Session{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// Create handles POST /admin/sessions
// @Summary      Open an attendance session
// @Description  Creates a session with a fresh QR token, sampled challenge words, and the rendered QR image
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      session.CreateSessionRequest  true  "New session"
// @Success      201      {object}  session.SessionQRResponse     "Session with QR image"
// @Failure      400      {object}  map[string]interface{}        "Invalid request"
// @Router       /admin/sessions [post]
func (h *Session) Create(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req sessionDTO.CreateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	qrSession, err := h.attendanceService.GenerateSessionQR(c.Request().Context(), attendanceUsecase.CreateSessionInput{
		AdminID:    claims.SubjectID,
		ClassName:  req.ClassName,
		RoomNumber: req.RoomNumber,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToSessionQRResponse(qrSession))
}

// List handles GET /admin/sessions
// @Summary      List sessions
// @Description  Returns a page of the admin's sessions, newest first
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (default: 1)"
// @Param        page_size  query     int  false  "Items per page (default: 20)"
// @Success      200        {object}  common.ListResponse  "Session page"
// @Router       /admin/sessions [get]
func (h *Session) List(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req sessionDTO.ListSessionsRequest
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
	sessions, total, err := h.attendanceService.ListSessions(c.Request().Context(), claims.SubjectID, limit, offset)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, common.ListResponse{
		Data:       presenter.ToSessionResponses(sessions),
		Pagination: common.NewPagination(req.Page, req.PageSize, total),
	})
}

// Get handles GET /admin/sessions/:id
// @Summary      Get a session
// @Description  Returns one of the admin's sessions with its QR token and word list
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Session ID (UUID)"
// @Success      200  {object}  session.SessionResponse  "Session"
// @Failure      404  {object}  map[string]interface{}   "Session not found"
// @Router       /admin/sessions/{id} [get]
func (h *Session) Get(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Session ID must be a valid UUID")
	}

	sa, err := h.attendanceService.SessionAttendance(c.Request().Context(), claims.SubjectID, sessionID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToSessionResponse(sa.Session))
}

// End handles POST /admin/sessions/:id/end
// @Summary      End a session
// @Description  Deactivates a session so students can no longer join or mark
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Session ID (UUID)"
// @Success      200  {object}  map[string]string       "Session ended"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /admin/sessions/{id}/end [post]
func (h *Session) End(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Session ID must be a valid UUID")
	}

	if err := h.attendanceService.EndSession(c.Request().Context(), claims.SubjectID, sessionID); err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Session ended successfully",
	})
}

// Attendance handles GET /admin/sessions/:id/attendance
// @Summary      Session attendance
// @Description  Returns a session together with its attendance records
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Session ID (UUID)"
// @Success      200  {object}  attendance.SessionAttendanceResponse  "Session with records"
// @Failure      404  {object}  map[string]interface{}                "Session not found"
// @Router       /admin/sessions/{id}/attendance [get]
func (h *Session) Attendance(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Session ID must be a valid UUID")
	}

	sa, err := h.attendanceService.SessionAttendance(c.Request().Context(), claims.SubjectID, sessionID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToSessionAttendanceResponse(sa))
}

// Stats handles GET /admin/stats
// @Summary      Dashboard stats
// @Description  Aggregates session, roster, and today's attendance numbers
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  session.StatsResponse  "Dashboard numbers"
// @Router       /admin/stats [get]
func (h *Session) Stats(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.attendanceService.Stats(c.Request().Context(), claims.SubjectID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToStatsResponse(stats))
}

// Export handles GET /admin/export
// @Summary      Export attendance CSV
// @Description  Streams the admin's attendance records as a CSV download, optionally restricted to one session
// @Tags         Sessions
// @Produce      text/csv
// @Security     BearerAuth
// @Param        session_id  query  string  false  "Restrict to one session (UUID)"
// @Success      200  {string}  string                  "CSV document"
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /admin/export [get]
func (h *Session) Export(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var sessionID *uuid.UUID
	if raw := c.QueryParam("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "session_id must be a valid UUID")
		}
		sessionID = &id
	}

	data, err := h.attendanceService.ExportCSV(c.Request().Context(), claims.SubjectID, sessionID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	filename := fmt.Sprintf("attendance_export_%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
