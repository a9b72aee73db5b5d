package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	studentUsecase "github.com/voiceattendance/voice-attendance/internal/usecase/student"
	pkgvalidator "github.com/voiceattendance/voice-attendance/pkg/validator"
)

type stubStudentService struct {
	registered *entities.Student
	getErr     error
	students   []*entities.Student
}

func (s *stubStudentService) Register(ctx context.Context, input studentUsecase.RegisterInput) (*entities.Student, error) {
	created := entities.NewStudent(input.StudentID, input.Name, input.Branch, input.Year)
	s.registered = created
	return created, nil
}

func (s *stubStudentService) Get(ctx context.Context, studentID string) (*entities.Student, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, st := range s.students {
		if st.StudentID == studentID {
			return st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound(studentID)
}

func (s *stubStudentService) Update(ctx context.Context, studentID string, input studentUsecase.UpdateInput) (*entities.Student, error) {
	return s.Get(ctx, studentID)
}

func (s *stubStudentService) Remove(ctx context.Context, studentID string) error {
	_, err := s.Get(ctx, studentID)
	return err
}

func (s *stubStudentService) List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error) {
	return s.students, int64(len(s.students)), nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func TestStudentCreateReturnsCreated(t *testing.T) {
	svc := &stubStudentService{}
	h := NewStudentHandler(svc, nil)
	e := newTestEcho()

	body := `{"student_id": "CS001", "name": "John Doe", "branch": "Computer Science", "year": 3}`
	req := httptest.NewRequest(http.MethodPost, "/admin/students", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["student_id"] != "CS001" {
		t.Errorf("student_id = %v, want CS001", resp["student_id"])
	}
	if svc.registered == nil || svc.registered.Name != "John Doe" {
		t.Errorf("service received %+v, want name John Doe", svc.registered)
	}
}

func TestStudentCreateRejectsMissingName(t *testing.T) {
	h := NewStudentHandler(&stubStudentService{}, nil)
	e := newTestEcho()

	body := `{"student_id": "CS001", "year": 3}`
	req := httptest.NewRequest(http.MethodPost, "/admin/students", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
}

func TestStudentCreateRejectsMalformedStudentID(t *testing.T) {
	h := NewStudentHandler(&stubStudentService{}, nil)
	e := newTestEcho()

	body := `{"student_id": "CS 001!", "name": "John Doe", "branch": "CS", "year": 3}`
	req := httptest.NewRequest(http.MethodPost, "/admin/students", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400", err)
	}
}

func TestStudentGetMapsNotFound(t *testing.T) {
	h := NewStudentHandler(&stubStudentService{}, nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/admin/students/CS999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("student_id")
	c.SetParamValues("CS999")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["error"] != "student_not_found" {
		t.Errorf("error = %v, want student_not_found", resp["error"])
	}
}

func TestStudentListIncludesPagination(t *testing.T) {
	svc := &stubStudentService{
		students: []*entities.Student{
			entities.NewStudent("CS001", "John Doe", "Computer Science", 3),
			entities.NewStudent("CS002", "Jane Smith", "Computer Science", 2),
		},
	}
	h := NewStudentHandler(svc, nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/admin/students?page=1&page_size=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("data length = %d, want 2", len(resp.Data))
	}
	if resp.Pagination.TotalItems != 2 {
		t.Errorf("total_items = %d, want 2", resp.Pagination.TotalItems)
	}
}
