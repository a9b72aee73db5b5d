package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionRevoked     = errors.New("auth session revoked")
	ErrSessionExpired     = errors.New("auth session expired")
)

// Voice errors
var (
	ErrAudioUnreadable     = errors.New("audio could not be decoded")
	ErrAudioTooShort       = errors.New("audio too short")
	ErrProfileMissing      = errors.New("voice profile not found")
	ErrVerificationFailed  = errors.New("voice verification failed")
	ErrChallengeMissing    = errors.New("challenge word not found")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// Attendance errors
var (
	ErrSessionNotFound = errors.New("attendance session not found")
	ErrSessionInactive = errors.New("attendance session is not active")
	ErrAlreadyMarked   = errors.New("attendance already marked")
)
