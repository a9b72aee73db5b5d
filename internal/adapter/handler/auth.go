package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/auth"
	"github.com/voiceattendance/voice-attendance/internal/adapter/presenter"
	authUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService authUsecase.Service
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService authUsecase.Service, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// AdminLogin handles POST /auth/admin/login
// @Summary      Admin login
// @Description  Authenticates an admin with username and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.AdminLoginRequest  true  "Admin credentials"
// @Success      200      {object}  auth.TokenPairResponse  "Issued token pair"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      401      {object}  map[string]interface{}  "Invalid credentials"
// @Router       /auth/admin/login [post]
func (h *Auth) AdminLogin(c echo.Context) error {
	var req authDTO.AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.LoginAdmin(c.Request().Context(), authUsecase.AdminLoginInput{
		Username: req.Username,
		Password: req.Password,
		Device:   deviceInfo(c),
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToTokenPairResponse(pair))
}

// StudentLogin handles POST /auth/student/login
// @Summary      Student kiosk login
// @Description  Authenticates a student by student ID for the kiosk flow
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.StudentLoginRequest  true  "Student ID"
// @Success      200      {object}  auth.TokenPairResponse    "Issued token pair"
// @Failure      400      {object}  map[string]interface{}    "Invalid request"
// @Failure      401      {object}  map[string]interface{}    "Student not found"
// @Router       /auth/student/login [post]
func (h *Auth) StudentLogin(c echo.Context) error {
	var req authDTO.StudentLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.LoginStudent(c.Request().Context(), authUsecase.StudentLoginInput{
		StudentID: req.StudentID,
		Device:    deviceInfo(c),
	})
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToTokenPairResponse(pair))
}

// Refresh handles POST /auth/refresh
// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new pair; the old session is revoked
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  auth.TokenPairResponse    "New token pair"
// @Failure      401      {object}  map[string]interface{}    "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *Auth) Refresh(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToTokenPairResponse(pair))
}

// Logout handles POST /auth/logout
// @Summary      Logout
// @Description  Revokes the session behind a refresh token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.LogoutRequest      true  "Refresh token"
// @Success      200      {object}  map[string]string       "Logged out"
// @Failure      401      {object}  map[string]interface{}  "Invalid refresh token"
// @Router       /auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me handles GET /auth/me
// @Summary      Current identity
// @Description  Returns the account behind the presented access token
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  auth.IdentityResponse   "Current identity"
// @Failure      401  {object}  map[string]interface{}  "Not authenticated"
// @Router       /auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	identity, err := h.authService.Me(c.Request().Context(), claims)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToIdentityResponse(identity))
}

// GoogleLogin handles GET /auth/google/login
// @Summary      Google sign-in
// @Description  Redirects the admin to the Google consent page
// @Tags         Auth
// @Success      307  "Redirect to Google"
// @Failure      404  {object}  map[string]interface{}  "Google sign-in not configured"
// @Router       /auth/google/login [get]
func (h *Auth) GoogleLogin(c echo.Context) error {
	if !h.authService.GoogleEnabled() {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error":   "not_found",
			"message": "Google sign-in is not configured",
		})
	}

	authURL, err := h.authService.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.Redirect(http.StatusTemporaryRedirect, authURL.URL)
}

// GoogleCallback handles GET /auth/google/callback
// @Summary      Google OAuth callback
// @Description  Exchanges the OAuth callback for a token pair
// @Tags         Auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "CSRF state"
// @Success      200    {object}  auth.TokenPairResponse  "Issued token pair"
// @Failure      401    {object}  map[string]interface{}  "Authentication failed"
// @Router       /auth/google/callback [get]
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": "Missing code or state parameter",
		})
	}

	pair, err := h.authService.GoogleCallback(c.Request().Context(), code, state)
	if err != nil {
		return respondError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToTokenPairResponse(pair))
}

// deviceInfo captures where the login came from for the session audit trail
func deviceInfo(c echo.Context) authUsecase.DeviceInfo {
	return authUsecase.DeviceInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
