package handler

import (
	stdErrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/http/middleware"
	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
)

// maxAudioUploadBytes caps the accepted recording size. Browser clips of a
// few seconds stay well under this.
const maxAudioUploadBytes = 10 << 20 // 10 MiB

// respondError translates application errors into the wire shape
// {"error": "snake_code", "message": ...} and logs them
func respondError(logger *zap.Logger, c echo.Context, err error) error {
	var appErr apperrors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("path", c.Path()),
				zap.String("code", appErr.Code.String()),
				zap.Error(err),
			)
		}
		body := map[string]interface{}{
			"error":   strings.ToLower(appErr.Code.String()),
			"message": appErr.Message,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		return c.JSON(appErr.HTTPCode, body)
	}

	// Anything unclassified is an internal fault.
	if logger != nil {
		logger.Error("http.response.error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":   "internal",
		"message": "Internal server error",
	})
}

// bindAndValidate binds the request into v and runs validator tags
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// requireClaims returns the authenticated claims or a 401
func requireClaims(c echo.Context) (*appjwt.Claims, error) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return claims, nil
}

// readAudioUpload reads the uploaded recording from the named multipart
// field, returning the raw bytes and the declared content type. The
// declared type is passed downstream as a hint only; the decoder never
// trusts it.
func readAudioUpload(c echo.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Missing audio file")
	}
	if fileHeader.Size > maxAudioUploadBytes {
		return nil, "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Audio file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Failed to open audio file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAudioUploadBytes+1))
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Failed to read audio file")
	}
	if len(data) == 0 {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "Empty audio file")
	}
	if int64(len(data)) > maxAudioUploadBytes {
		return nil, "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Audio file too large")
	}

	return data, fileHeader.Header.Get("Content-Type"), nil
}

// pageParams normalizes page/page_size into limit/offset
func pageParams(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
