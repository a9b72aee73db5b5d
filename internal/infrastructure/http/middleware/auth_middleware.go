package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
)

// ClaimsContextKey is the Echo context key for the authenticated claims
const ClaimsContextKey = "claims"

// AuthMiddleware validates access tokens on protected routes
type AuthMiddleware struct {
	tokens *appjwt.Manager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *appjwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate validates the JWT token and adds claims to the context
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
		}

		claims, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(ClaimsContextKey, claims)
		return next(c)
	}
}

// RequireRole restricts a route to the given roles. It must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetClaims retrieves the authenticated claims from the Echo context
func GetClaims(c echo.Context) (*appjwt.Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*appjwt.Claims)
	return claims, ok
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
