package errors

import "fmt"

// ErrorCode identifies an application error category on the wire
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_PROCESSING_FAILED ErrorCode = 1008

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS   ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2004

	// Students
	ErrorCode_STUDENT_NOT_FOUND      ErrorCode = 3000
	ErrorCode_STUDENT_ALREADY_EXISTS ErrorCode = 3001

	// Attendance sessions
	ErrorCode_SESSION_NOT_FOUND  ErrorCode = 4000
	ErrorCode_SESSION_INACTIVE   ErrorCode = 4001
	ErrorCode_SESSION_INVALID_QR ErrorCode = 4002

	// Voice pipeline
	ErrorCode_VOICE_INVALID_AUDIO        ErrorCode = 5000
	ErrorCode_VOICE_ENROLLMENT_TOO_SHORT ErrorCode = 5001
	ErrorCode_VOICE_PROFILE_NOT_FOUND    ErrorCode = 5002
	ErrorCode_VOICE_VERIFICATION_FAILED  ErrorCode = 5003
	ErrorCode_VOICE_MODEL_UNAVAILABLE    ErrorCode = 5004
	ErrorCode_VOICE_TRANSCRIPTION_FAILED ErrorCode = 5005

	// Attendance records
	ErrorCode_ATTENDANCE_ALREADY_MARKED ErrorCode = 6000
	ErrorCode_ATTENDANCE_EXPORT_FAILED  ErrorCode = 6001
	ErrorCode_CHALLENGE_EXPIRED         ErrorCode = 6002

	// Database
	ErrorCode_DB_CONNECTION_FAILED    ErrorCode = 7000
	ErrorCode_DB_QUERY_FAILED         ErrorCode = 7001
	ErrorCode_DB_TRANSACTION_FAILED   ErrorCode = 7002
	ErrorCode_DB_CONSTRAINT_VIOLATION ErrorCode = 7003

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 8000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 8001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 8002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED: "UNSPECIFIED",
	ErrorCode_HTTP_OK:     "HTTP_OK",

	ErrorCode_INTERNAL:          "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:  "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:         "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:    "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED: "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:   "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:         "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:   "INVALID_PAYLOAD",
	ErrorCode_PROCESSING_FAILED: "PROCESSING_FAILED",

	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:   "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",

	ErrorCode_STUDENT_NOT_FOUND:      "STUDENT_NOT_FOUND",
	ErrorCode_STUDENT_ALREADY_EXISTS: "STUDENT_ALREADY_EXISTS",

	ErrorCode_SESSION_NOT_FOUND:  "SESSION_NOT_FOUND",
	ErrorCode_SESSION_INACTIVE:   "SESSION_INACTIVE",
	ErrorCode_SESSION_INVALID_QR: "SESSION_INVALID_QR",

	ErrorCode_VOICE_INVALID_AUDIO:        "VOICE_INVALID_AUDIO",
	ErrorCode_VOICE_ENROLLMENT_TOO_SHORT: "VOICE_ENROLLMENT_TOO_SHORT",
	ErrorCode_VOICE_PROFILE_NOT_FOUND:    "VOICE_PROFILE_NOT_FOUND",
	ErrorCode_VOICE_VERIFICATION_FAILED:  "VOICE_VERIFICATION_FAILED",
	ErrorCode_VOICE_MODEL_UNAVAILABLE:    "VOICE_MODEL_UNAVAILABLE",
	ErrorCode_VOICE_TRANSCRIPTION_FAILED: "VOICE_TRANSCRIPTION_FAILED",

	ErrorCode_ATTENDANCE_ALREADY_MARKED: "ATTENDANCE_ALREADY_MARKED",
	ErrorCode_ATTENDANCE_EXPORT_FAILED:  "ATTENDANCE_EXPORT_FAILED",
	ErrorCode_CHALLENGE_EXPIRED:         "CHALLENGE_EXPIRED",

	ErrorCode_DB_CONNECTION_FAILED:    "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:         "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:   "DB_TRANSACTION_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION: "DB_CONSTRAINT_VIOLATION",

	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERROR_CODE_%d", int32(c))
}
