package entities

import "errors"

// Domain errors
var (
	// Admin errors
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin already exists")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")

	// Student errors
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentAlreadyExists = errors.New("student already exists")
	ErrInvalidStudentID     = errors.New("invalid student id")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidYear          = errors.New("invalid year")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionInactive  = errors.New("session is not active")
	ErrInvalidClassName = errors.New("invalid class name")

	// Attendance errors
	ErrAlreadyMarked = errors.New("attendance already marked for this session")
	ErrInvalidStatus = errors.New("invalid attendance status")

	// Voice errors
	ErrVoiceProfileNotFound = errors.New("voice profile not found")
	ErrChallengeNotFound    = errors.New("challenge word not found or expired")

	// OAuth errors
	ErrOAuthProviderNotSupported = errors.New("oauth provider not supported")
	ErrOAuthStateMismatch        = errors.New("oauth state mismatch")
	ErrOAuthCodeInvalid          = errors.New("oauth code invalid")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Generic errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)
