package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpmw "github.com/voiceattendance/voice-attendance/internal/infrastructure/http/middleware"
	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
	"github.com/voiceattendance/voice-attendance/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	authMW            *httpmw.AuthMiddleware
	authHandler       *Auth
	studentHandler    *Student
	sessionHandler    *Session
	voiceHandler      *Voice
	attendanceHandler *Attendance
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authMW *httpmw.AuthMiddleware,
	authHandler *Auth,
	studentHandler *Student,
	sessionHandler *Session,
	voiceHandler *Voice,
	attendanceHandler *Attendance,
) *Router {
	return &Router{
		cfg:               cfg,
		authMW:            authMW,
		authHandler:       authHandler,
		studentHandler:    studentHandler,
		sessionHandler:    sessionHandler,
		voiceHandler:      voiceHandler,
		attendanceHandler: attendanceHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/", rt.root)
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/api/v1")

	rt.setupAuthRoutes(v1)
	rt.setupAdminRoutes(v1)
	rt.setupStudentRoutes(v1)
	rt.setupVoiceRoutes(v1)
	rt.setupAttendanceRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/admin/login", rt.authHandler.AdminLogin)
	authGroup.POST("/student/login", rt.authHandler.StudentLogin)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.POST("/logout", rt.authHandler.Logout)
	authGroup.GET("/me", rt.authHandler.Me, rt.authMW.Authenticate)
	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
}

// setupAdminRoutes configures roster and session management routes
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	adminGroup := g.Group("/admin",
		rt.authMW.Authenticate,
		rt.authMW.RequireRole(appjwt.RoleAdmin),
	)

	adminGroup.POST("/students", rt.studentHandler.Create)
	adminGroup.GET("/students", rt.studentHandler.List)
	adminGroup.GET("/students/:student_id", rt.studentHandler.Get)
	adminGroup.PUT("/students/:student_id", rt.studentHandler.Update)
	adminGroup.DELETE("/students/:student_id", rt.studentHandler.Delete)

	adminGroup.POST("/sessions", rt.sessionHandler.Create)
	adminGroup.GET("/sessions", rt.sessionHandler.List)
	adminGroup.GET("/sessions/:id", rt.sessionHandler.Get)
	adminGroup.POST("/sessions/:id/end", rt.sessionHandler.End)
	adminGroup.GET("/sessions/:id/attendance", rt.sessionHandler.Attendance)

	adminGroup.GET("/stats", rt.sessionHandler.Stats)
	adminGroup.GET("/export", rt.sessionHandler.Export)
}

// setupStudentRoutes configures the student self-service routes
func (rt *Router) setupStudentRoutes(g *echo.Group) {
	studentGroup := g.Group("/student",
		rt.authMW.Authenticate,
		rt.authMW.RequireRole(appjwt.RoleStudent),
	)

	studentGroup.GET("/profile", rt.studentHandler.Profile)
	studentGroup.GET("/sessions/active", rt.attendanceHandler.ActiveSessions)
}

// setupVoiceRoutes configures enrollment and profile routes
func (rt *Router) setupVoiceRoutes(g *echo.Group) {
	voiceGroup := g.Group("/voice", rt.authMW.Authenticate)

	voiceGroup.POST("/enroll", rt.voiceHandler.Enroll)
	voiceGroup.GET("/status/:student_id", rt.voiceHandler.Status)
	voiceGroup.GET("/words", rt.voiceHandler.Words)
	voiceGroup.DELETE("/profile/:student_id", rt.voiceHandler.Delete,
		rt.authMW.RequireRole(appjwt.RoleAdmin))
}

// setupAttendanceRoutes configures the join and mark flows
func (rt *Router) setupAttendanceRoutes(g *echo.Group) {
	attendanceGroup := g.Group("/attendance",
		rt.authMW.Authenticate,
		rt.authMW.RequireRole(appjwt.RoleStudent),
	)

	attendanceGroup.POST("/join", rt.attendanceHandler.Join)
	attendanceGroup.POST("/mark", rt.attendanceHandler.Mark)
	attendanceGroup.GET("/my", rt.attendanceHandler.My)
}

// root returns the service banner
func (rt *Router) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Voice Attendance System API",
		"status":  "running",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"environment": rt.cfg.Server.Environment,
	})
}
