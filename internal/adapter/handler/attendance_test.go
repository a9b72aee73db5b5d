package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/http/middleware"
	attendanceUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/attendance"
	appjwt "github.com/voiceattendance/voice-attendance/pkg/jwt"
)

type stubAttendanceService struct {
	joinResult *attendanceUsecase.JoinResult
	joinErr    error
	markResult *attendanceUsecase.MarkResult
	markInput  attendanceUsecase.MarkInput
	active     []*entities.AttendanceSession
}

func (s *stubAttendanceService) CreateSession(ctx context.Context, input attendanceUsecase.CreateSessionInput) (*entities.AttendanceSession, error) {
	return entities.NewAttendanceSession(input.ClassName, input.RoomNumber, input.AdminID, []string{"falcon"}), nil
}

func (s *stubAttendanceService) GenerateSessionQR(ctx context.Context, input attendanceUsecase.CreateSessionInput) (*attendanceUsecase.QRSession, error) {
	session, _ := s.CreateSession(ctx, input)
	return &attendanceUsecase.QRSession{
		Session:   session,
		QRImage:   "aGVsbG8=",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

func (s *stubAttendanceService) ListSessions(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error) {
	return nil, 0, nil
}

func (s *stubAttendanceService) ActiveSessions(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error) {
	return s.active, nil
}

func (s *stubAttendanceService) EndSession(ctx context.Context, adminID, sessionID uuid.UUID) error {
	return nil
}

func (s *stubAttendanceService) JoinSession(ctx context.Context, input attendanceUsecase.JoinInput) (*attendanceUsecase.JoinResult, error) {
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return s.joinResult, nil
}

func (s *stubAttendanceService) Mark(ctx context.Context, input attendanceUsecase.MarkInput) (*attendanceUsecase.MarkResult, error) {
	s.markInput = input
	return s.markResult, nil
}

func (s *stubAttendanceService) History(ctx context.Context, studentID string, limit, offset int) ([]*entities.AttendanceRecord, error) {
	return nil, nil
}

func (s *stubAttendanceService) SessionAttendance(ctx context.Context, adminID, sessionID uuid.UUID) (*attendanceUsecase.SessionAttendance, error) {
	return nil, nil
}

func (s *stubAttendanceService) Stats(ctx context.Context, adminID uuid.UUID) (*attendanceUsecase.Stats, error) {
	return &attendanceUsecase.Stats{}, nil
}

func (s *stubAttendanceService) ExportCSV(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]byte, error) {
	return []byte("student_id\n"), nil
}

func studentContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, studentID string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsContextKey, &appjwt.Claims{
		SubjectID: uuid.New(),
		Role:      appjwt.RoleStudent,
		StudentID: studentID,
	})
	return c
}

func TestJoinIssuesChallengeWord(t *testing.T) {
	session := entities.NewAttendanceSession("Algorithms", "A-101", uuid.New(), []string{"falcon", "ember"})
	svc := &stubAttendanceService{
		joinResult: &attendanceUsecase.JoinResult{Session: session, Word: "falcon"},
	}
	h := NewAttendanceHandler(svc, nil)
	e := newTestEcho()

	body := `{"qr_payload": "` + session.QRCode + `"}`
	req := httptest.NewRequest(http.MethodPost, "/attendance/join", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := studentContext(e, req, rec, "CS001")

	if err := h.Join(c); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["challenge_word"] != "falcon" {
		t.Errorf("challenge_word = %v, want falcon", resp["challenge_word"])
	}
	// The public session view must not leak the QR token or word list.
	sess, ok := resp["session"].(map[string]interface{})
	if !ok {
		t.Fatal("session missing from response")
	}
	if _, leaked := sess["qr_code"]; leaked {
		t.Error("public session view leaked the QR token")
	}
}

func TestJoinRequiresAuthentication(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{}, nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/attendance/join", strings.NewReader(`{"qr_payload": "x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Join(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("error = %v, want 401", err)
	}
}

func TestMarkRequiresAudioFile(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{}, nil)
	e := newTestEcho()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("session_id", uuid.NewString())
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/attendance/mark", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := studentContext(e, req, rec, "CS001")

	err := h.Mark(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
}

func TestMarkRejectsMalformedSessionID(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{}, nil)
	e := newTestEcho()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("session_id", "not-a-uuid")
	fw, _ := w.CreateFormFile("audio", "clip.wav")
	_, _ = fw.Write([]byte("RIFF fake"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/attendance/mark", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := studentContext(e, req, rec, "CS001")

	err := h.Mark(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
}

func TestMarkReportsVerificationOutcome(t *testing.T) {
	sessionID := uuid.New()
	svc := &stubAttendanceService{
		markResult: &attendanceUsecase.MarkResult{
			Status:    entities.StatusPresent,
			Score:     0.82,
			IsMatch:   true,
			Message:   "Voice verified successfully",
			Timestamp: time.Now(),
		},
	}
	h := NewAttendanceHandler(svc, nil)
	e := newTestEcho()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("session_id", sessionID.String())
	_ = w.WriteField("spoken_word", "falcon")
	fw, _ := w.CreateFormFile("audio", "clip.wav")
	_, _ = fw.Write([]byte("RIFF fake wav payload"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/attendance/mark", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := studentContext(e, req, rec, "CS001")

	if err := h.Mark(c); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.markInput.StudentID != "CS001" {
		t.Errorf("service got student %q, want CS001", svc.markInput.StudentID)
	}
	if svc.markInput.SessionID != sessionID {
		t.Errorf("service got session %s, want %s", svc.markInput.SessionID, sessionID)
	}
	if svc.markInput.SpokenWord != "falcon" {
		t.Errorf("service got word %q, want falcon", svc.markInput.SpokenWord)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["status"] != string(entities.StatusPresent) {
		t.Errorf("status = %v, want %s", resp["status"], entities.StatusPresent)
	}
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}
}
