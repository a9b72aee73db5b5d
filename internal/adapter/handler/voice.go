package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	voiceDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/voice"
	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"

	voiceUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/voice"
)

// Voice handles enrollment and profile HTTP requests
type Voice struct {
	voiceService voiceUsecase.Service
	logger       *zap.Logger
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(voiceService voiceUsecase.Service, logger *zap.Logger) *Voice {
	return &Voice{
		voiceService: voiceService,
		logger:       logger,
	}
}

// Enroll handles POST /voice/enroll (multipart)
// @Summary      Enroll a voice profile
// @Description  Normalizes the uploaded recording and stores it as the reference profile. Students enroll themselves; admins may pass student_id.
// @Tags         Voice
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio       formData  file    true   "Reference recording"
// @Param        student_id  formData  string  false  "Target student (admin only)"
// @Success      200  {object}  voice.EnrollResponse    "Profile stored"
// @Failure      400  {object}  map[string]interface{}  "Invalid or too-short audio"
// @Router       /voice/enroll [post]
func (h *Voice) Enroll(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req voiceDTO.EnrollRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	studentID, err := resolveStudentID(claims, req.StudentID)
	if err != nil {
		return err
	}

	audio, hint, err := readAudioUpload(c, "audio")
	if err != nil {
		return err
	}

	result, err := h.voiceService.Enroll(c.Request().Context(), voiceUsecase.EnrollInput{
		StudentID: studentID,
		Audio:     audio,
		Hint:      hint,
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, voiceDTO.EnrollResponse{
		Message:     "Voice profile enrolled successfully",
		StudentID:   studentID,
		ProfilePath: result.ProfilePath,
		Duration:    result.Duration,
	})
}

// Status handles GET /voice/status/:student_id
// @Summary      Profile status
// @Description  Reports profile existence and on-demand file metadata
// @Tags         Voice
// @Produce      json
// @Security     BearerAuth
// @Param        student_id  path      string  true  "Student ID"
// @Success      200         {object}  voice.ProfileStatusResponse  "Profile status"
// @Failure      404         {object}  map[string]interface{}       "Student not found"
// @Router       /voice/status/{student_id} [get]
func (h *Voice) Status(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	studentID := c.Param("student_id")
	// Students may only inspect their own profile.
	if claims.IsStudent() && claims.StudentID != studentID {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	status, err := h.voiceService.ProfileStatus(c.Request().Context(), studentID)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, voiceDTO.ProfileStatusResponse{
		StudentID:  studentID,
		Exists:     status.Exists,
		Duration:   status.Duration,
		SampleRate: status.SampleRate,
		Channels:   status.Channels,
		FileSize:   status.FileSize,
	})
}

// Delete handles DELETE /voice/profile/:student_id (admin only)
// @Summary      Delete a voice profile
// @Description  Removes the reference recording and its database row
// @Tags         Voice
// @Produce      json
// @Security     BearerAuth
// @Param        student_id  path      string  true  "Student ID"
// @Success      200         {object}  map[string]string       "Profile deleted"
// @Failure      404         {object}  map[string]interface{}  "Profile not found"
// @Router       /voice/profile/{student_id} [delete]
func (h *Voice) Delete(c echo.Context) error {
	if err := h.voiceService.DeleteProfile(c.Request().Context(), c.Param("student_id")); err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Voice profile deleted successfully",
	})
}

// Words handles GET /voice/words
// @Summary      Sample challenge words
// @Description  Returns distinct random words from the challenge vocabulary
// @Tags         Voice
// @Produce      json
// @Security     BearerAuth
// @Param        count  query     int  false  "Number of words (default: 1, max: 25)"
// @Success      200    {object}  voice.WordsResponse  "Sampled words"
// @Router       /voice/words [get]
func (h *Voice) Words(c echo.Context) error {
	var req voiceDTO.WordsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Count == 0 {
		req.Count = 1
	}

	return c.JSON(http.StatusOK, voiceDTO.WordsResponse{
		Words: h.voiceService.RandomWords(req.Count),
	})
}

// resolveStudentID decides whose profile an enrollment targets. Students
// always act on themselves; admins must name a student.
func resolveStudentID(claims *appjwt.Claims, requested string) (string, error) {
	if claims.IsStudent() {
		if requested != "" && requested != claims.StudentID {
			return "", echo.NewHTTPError(http.StatusForbidden, "Students can only enroll their own voice")
		}
		return claims.StudentID, nil
	}
	if requested == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "student_id is required")
	}
	return requested, nil
}
