package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/cache"
	"github.com/voiceattendance/voice-attendance/internal/usecase/voice"
)

type fakeStudentRepo struct {
	students map[string]*entities.Student
}

func newFakeStudentRepo(students ...*entities.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: map[string]*entities.Student{}}
	for _, s := range students {
		r.students[s.StudentID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *entities.Student) error {
	r.students[s.StudentID] = s
	return nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, entities.ErrStudentNotFound
}

func (r *fakeStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*entities.Student, error) {
	s, ok := r.students[studentID]
	if !ok {
		return nil, entities.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, s *entities.Student) error { return nil }

func (r *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeStudentRepo) List(ctx context.Context, limit, offset int) ([]*entities.Student, int64, error) {
	return nil, 0, nil
}

func (r *fakeStudentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.students)), nil
}

func (r *fakeStudentRepo) CountEnrolled(ctx context.Context) (int64, error) { return 0, nil }

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entities.AttendanceSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entities.AttendanceSession{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entities.AttendanceSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.AttendanceSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindByQRCode(ctx context.Context, qrCode string) (*entities.AttendanceSession, error) {
	for _, s := range r.sessions {
		if s.QRCode == qrCode {
			return s, nil
		}
	}
	return nil, entities.ErrSessionNotFound
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *entities.AttendanceSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) List(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error) {
	var out []*entities.AttendanceSession
	for _, s := range r.sessions {
		if s.AdminID == adminID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSessionRepo) FindActive(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error) {
	var out []*entities.AttendanceSession
	for _, s := range r.sessions {
		if s.AdminID == adminID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) CountActive(ctx context.Context, adminID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.AdminID == adminID && s.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeRecordRepo struct {
	rows      []*entities.AttendanceRecord
	createErr error
}

func (r *fakeRecordRepo) Create(ctx context.Context, record *entities.AttendanceRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, row := range r.rows {
		if row.SessionID == record.SessionID && row.StudentID == record.StudentID {
			return entities.ErrAlreadyMarked
		}
	}
	r.rows = append(r.rows, record)
	return nil
}

func (r *fakeRecordRepo) HasMarked(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	for _, row := range r.rows {
		if row.SessionID == sessionID && row.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRecordRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var out []*entities.AttendanceRecord
	for _, row := range r.rows {
		if row.SessionID == sessionID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*entities.AttendanceRecord, error) {
	var out []*entities.AttendanceRecord
	for _, row := range r.rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) ListForExport(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var out []*entities.AttendanceRecord
	for _, row := range r.rows {
		if row.Session == nil || row.Session.AdminID != adminID {
			continue
		}
		if sessionID != nil && row.SessionID != *sessionID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeRecordRepo) CountByStatusSince(ctx context.Context, adminID uuid.UUID, status entities.AttendanceStatus, since time.Time) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.Session == nil || row.Session.AdminID != adminID {
			continue
		}
		if row.Status == status && !row.MarkedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeVoiceService struct {
	profiles      map[string]bool
	sample        []string
	fallbackWord  string
	result        *voice.VerifyResult
	verifyErr     error
	lastExpected  string
	lastSessionID *uuid.UUID
}

func (f *fakeVoiceService) Enroll(ctx context.Context, input voice.EnrollInput) (*voice.EnrollResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeVoiceService) Verify(ctx context.Context, input voice.VerifyInput) (*voice.VerifyResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeVoiceService) VerifyAgainstProfile(ctx context.Context, student *entities.Student, sessionID *uuid.UUID, clip []byte, hint, expectedWord string) (*voice.VerifyResult, error) {
	f.lastExpected = expectedWord
	f.lastSessionID = sessionID
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	out := *f.result
	out.Timestamp = time.Now().UTC()
	return &out, nil
}

func (f *fakeVoiceService) HasProfile(studentID string) bool { return f.profiles[studentID] }

func (f *fakeVoiceService) RandomWord() string {
	if f.fallbackWord == "" {
		return "attendance"
	}
	return f.fallbackWord
}

func (f *fakeVoiceService) RandomWords(count int) []string {
	if count < len(f.sample) {
		return f.sample[:count]
	}
	return f.sample
}

func (f *fakeVoiceService) ProfileStatus(ctx context.Context, studentID string) (*voice.ProfileStatus, error) {
	return &voice.ProfileStatus{Exists: f.profiles[studentID]}, nil
}

func (f *fakeVoiceService) DeleteProfile(ctx context.Context, studentID string) error { return nil }

func (f *fakeVoiceService) StartSweeper(ctx context.Context) error { return nil }

func (f *fakeVoiceService) StopSweeper() error { return nil }

type attEnv struct {
	svc        *AttendanceService
	sessions   *fakeSessionRepo
	records    *fakeRecordRepo
	students   *fakeStudentRepo
	voice      *fakeVoiceService
	challenges *cache.ChallengeStore
}

func newAttEnv(t *testing.T, students ...*entities.Student) *attEnv {
	t.Helper()

	memory := cache.NewMemoryStore()
	t.Cleanup(func() { memory.Close() })

	env := &attEnv{
		sessions: newFakeSessionRepo(),
		records:  &fakeRecordRepo{},
		students: newFakeStudentRepo(students...),
		voice: &fakeVoiceService{
			profiles: map[string]bool{},
			sample:   []string{"attendance", "present", "student", "class", "system"},
			result: &voice.VerifyResult{
				Score:   0.92,
				IsMatch: true,
				Message: "Voice verified successfully",
				Backend: "embedding",
			},
		},
		challenges: cache.NewChallengeStore(memory, time.Minute),
	}
	env.svc = NewAttendanceService(
		env.sessions,
		env.records,
		env.students,
		env.voice,
		env.challenges,
		nil,
		rand.New(rand.NewSource(3)),
	)
	return env
}

func appErrorOf(t *testing.T, err error) apperrors.AppError {
	t.Helper()
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T (%v), want AppError", err, err)
	}
	return appErr
}

func TestCreateSessionSamplesChallengeWords(t *testing.T) {
	env := newAttEnv(t)
	adminID := uuid.New()

	session, err := env.svc.CreateSession(context.Background(), CreateSessionInput{
		AdminID:    adminID,
		ClassName:  "Algorithms",
		RoomNumber: "101",
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.QRCode == "" {
		t.Error("session has no QR token")
	}
	if !session.IsActive {
		t.Error("new session must be active")
	}
	words := session.ChallengeWordList()
	if len(words) != challengeWordsPerSession {
		t.Errorf("sampled %d words, want %d", len(words), challengeWordsPerSession)
	}
	if _, ok := env.sessions.sessions[session.ID]; !ok {
		t.Error("session was not persisted")
	}
}

func TestCreateSessionValidatesInput(t *testing.T) {
	env := newAttEnv(t)

	_, err := env.svc.CreateSession(context.Background(), CreateSessionInput{
		AdminID:    uuid.New(),
		ClassName:  "",
		RoomNumber: "101",
	})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 400 {
		t.Fatalf("got %d, want 400 for an empty class name", appErr.HTTPCode)
	}
	if len(env.sessions.sessions) != 0 {
		t.Error("invalid session was persisted")
	}
}

func TestGenerateSessionQR(t *testing.T) {
	env := newAttEnv(t)

	result, err := env.svc.GenerateSessionQR(context.Background(), CreateSessionInput{
		AdminID:    uuid.New(),
		ClassName:  "Algorithms",
		RoomNumber: "101",
	})
	if err != nil {
		t.Fatalf("GenerateSessionQR failed: %v", err)
	}
	if result.QRImage == "" {
		t.Error("no QR image rendered")
	}
	until := time.Until(result.ExpiresAt)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("expiry %v from now, want ~24h", until)
	}
}

func TestJoinSessionIssuesChallengeWord(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)
	env.voice.profiles["CS001"] = true

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), []string{"present", "system"})
	env.sessions.sessions[session.ID] = session

	result, err := env.svc.JoinSession(context.Background(), JoinInput{
		StudentID: "CS001",
		QRPayload: session.QRCode,
	})
	if err != nil {
		t.Fatalf("JoinSession failed: %v", err)
	}
	if result.Session.ID != session.ID {
		t.Error("joined the wrong session")
	}
	if result.Word != "present" && result.Word != "system" {
		t.Errorf("word %q not from the session's sample", result.Word)
	}
	if stored, ok := env.challenges.Get(session.ID.String(), "CS001"); !ok || stored != result.Word {
		t.Errorf("challenge store holds %q/%v, want the issued word", stored, ok)
	}
}

func TestJoinSessionAcceptsScannedPayload(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)
	env.voice.profiles["CS001"] = true

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session

	// Phone scanners deliver the full JSON payload, not the bare token.
	payload := `{"session_id":"` + session.ID.String() + `","qr_code":"` + session.QRCode + `","type":"attendance_session"}`
	result, err := env.svc.JoinSession(context.Background(), JoinInput{StudentID: "CS001", QRPayload: payload})
	if err != nil {
		t.Fatalf("JoinSession with JSON payload failed: %v", err)
	}
	if result.Word == "" {
		t.Error("no challenge word issued")
	}
}

func TestJoinSessionGuards(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	ended := entities.NewAttendanceSession("Databases", "102", uuid.New(), nil)
	ended.End()
	env.sessions.sessions[session.ID] = session
	env.sessions.sessions[ended.ID] = ended

	_, err := env.svc.JoinSession(context.Background(), JoinInput{StudentID: "CS001", QRPayload: "no-such-token"})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Message != "Invalid QR code or session not found" {
		t.Errorf("unknown token: got %d/%q", appErr.HTTPCode, appErr.Message)
	}

	_, err = env.svc.JoinSession(context.Background(), JoinInput{StudentID: "CS001", QRPayload: ended.QRCode})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 400 || appErr.Message != "Session is not active" {
		t.Errorf("ended session: got %d/%q", appErr.HTTPCode, appErr.Message)
	}

	_, err = env.svc.JoinSession(context.Background(), JoinInput{StudentID: "CS404", QRPayload: session.QRCode})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Code != apperrors.ErrorCode_STUDENT_NOT_FOUND {
		t.Errorf("unknown student: got %d/%s", appErr.HTTPCode, appErr.Code.String())
	}

	// CS001 has no voice profile in this environment.
	_, err = env.svc.JoinSession(context.Background(), JoinInput{StudentID: "CS001", QRPayload: session.QRCode})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 400 || appErr.Message != "Voice profile not found. Please enroll your voice first." {
		t.Errorf("missing profile: got %d/%q", appErr.HTTPCode, appErr.Message)
	}
}

func TestMarkPresentOnMatch(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session

	result, err := env.svc.Mark(context.Background(), MarkInput{
		StudentID:  "CS001",
		SessionID:  session.ID,
		SpokenWord: "present",
		Audio:      []byte("clip"),
	})
	if err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if result.Status != entities.StatusPresent || !result.IsMatch {
		t.Fatalf("result = %+v, want present/match", result)
	}
	if result.Message != "Attendance marked as present. Voice verified successfully" {
		t.Errorf("message = %q", result.Message)
	}
	if result.Score != 0.92 {
		t.Errorf("score = %v", result.Score)
	}

	if len(env.records.rows) != 1 {
		t.Fatalf("records = %d, want 1", len(env.records.rows))
	}
	row := env.records.rows[0]
	if row.Status != entities.StatusPresent || row.VerificationScore != 0.92 {
		t.Errorf("record = %+v", row)
	}
	if row.SpokenWord == nil || *row.SpokenWord != "present" {
		t.Error("submitted word was not recorded")
	}
	if env.voice.lastSessionID == nil || *env.voice.lastSessionID != session.ID {
		t.Error("verification was not attributed to the session")
	}
}

func TestMarkAbsentOnMismatch(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)
	env.voice.result = &voice.VerifyResult{
		Score:   0.21,
		IsMatch: false,
		Message: "Voice verification failed",
		Backend: "embedding",
	}

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session

	// A failed verification is a result, not an error: the student is
	// marked absent.
	result, err := env.svc.Mark(context.Background(), MarkInput{
		StudentID: "CS001",
		SessionID: session.ID,
		Audio:     []byte("clip"),
	})
	if err != nil {
		t.Fatalf("Mark failed: %v", err)
	}
	if result.Status != entities.StatusAbsent || result.IsMatch {
		t.Fatalf("result = %+v, want absent/no-match", result)
	}
	if result.Message != "Attendance marked as absent. Voice verification failed" {
		t.Errorf("message = %q", result.Message)
	}
	if len(env.records.rows) != 1 || env.records.rows[0].Status != entities.StatusAbsent {
		t.Error("absent record was not written")
	}
}

func TestMarkPrefersStoredChallengeWord(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session
	env.challenges.Put(session.ID.String(), "CS001", "algorithm")

	if _, err := env.svc.Mark(context.Background(), MarkInput{
		StudentID:  "CS001",
		SessionID:  session.ID,
		SpokenWord: "banana",
		Audio:      []byte("clip"),
	}); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}

	if env.voice.lastExpected != "algorithm" {
		t.Errorf("verified against %q, want the stored challenge word", env.voice.lastExpected)
	}
	if _, ok := env.challenges.Get(session.ID.String(), "CS001"); ok {
		t.Error("challenge word was not consumed")
	}
}

func TestMarkGuards(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	ended := entities.NewAttendanceSession("Databases", "102", uuid.New(), nil)
	ended.End()
	env.sessions.sessions[session.ID] = session
	env.sessions.sessions[ended.ID] = ended

	_, err := env.svc.Mark(context.Background(), MarkInput{StudentID: "CS404", SessionID: session.ID})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Code != apperrors.ErrorCode_STUDENT_NOT_FOUND {
		t.Errorf("unknown student: got %d/%s", appErr.HTTPCode, appErr.Code.String())
	}

	_, err = env.svc.Mark(context.Background(), MarkInput{StudentID: "CS001", SessionID: uuid.New()})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Message != "Session not found" {
		t.Errorf("unknown session: got %d/%q", appErr.HTTPCode, appErr.Message)
	}

	_, err = env.svc.Mark(context.Background(), MarkInput{StudentID: "CS001", SessionID: ended.ID})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 400 || appErr.Message != "Session is not active" {
		t.Errorf("ended session: got %d/%q", appErr.HTTPCode, appErr.Message)
	}

	if _, err := env.svc.Mark(context.Background(), MarkInput{StudentID: "CS001", SessionID: session.ID, Audio: []byte("clip")}); err != nil {
		t.Fatalf("first Mark failed: %v", err)
	}
	_, err = env.svc.Mark(context.Background(), MarkInput{StudentID: "CS001", SessionID: session.ID, Audio: []byte("clip")})
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 400 || appErr.Message != "Attendance already marked for this session" {
		t.Errorf("duplicate: got %d/%q", appErr.HTTPCode, appErr.Message)
	}
}

func TestMarkDuplicateRace(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)

	session := entities.NewAttendanceSession("Algorithms", "101", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session

	// The precheck passes but the insert loses the race on the unique index.
	env.records.createErr = entities.ErrAlreadyMarked

	_, err := env.svc.Mark(context.Background(), MarkInput{
		StudentID: "CS001",
		SessionID: session.ID,
		Audio:     []byte("clip"),
	})
	if appErr := appErrorOf(t, err); appErr.Code != apperrors.ErrorCode_ATTENDANCE_ALREADY_MARKED {
		t.Fatalf("got %s, want ATTENDANCE_ALREADY_MARKED", appErr.Code.String())
	}
}

func TestEndSessionScopedToOwner(t *testing.T) {
	env := newAttEnv(t)
	owner := uuid.New()

	session := entities.NewAttendanceSession("Algorithms", "101", owner, nil)
	env.sessions.sessions[session.ID] = session

	err := env.svc.EndSession(context.Background(), uuid.New(), session.ID)
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Message != "Session not found or access denied" {
		t.Fatalf("foreign admin: got %d/%q", appErr.HTTPCode, appErr.Message)
	}
	if !session.IsActive {
		t.Fatal("foreign admin deactivated the session")
	}

	if err := env.svc.EndSession(context.Background(), owner, session.ID); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if session.IsActive {
		t.Fatal("session still active after EndSession")
	}

	// Ending twice is fine.
	if err := env.svc.EndSession(context.Background(), owner, session.ID); err != nil {
		t.Fatalf("second EndSession failed: %v", err)
	}
}

func TestStatsComputesDailyRate(t *testing.T) {
	env := newAttEnv(t)
	adminID := uuid.New()

	session := entities.NewAttendanceSession("Algorithms", "101", adminID, nil)
	other := entities.NewAttendanceSession("Databases", "102", uuid.New(), nil)
	env.sessions.sessions[session.ID] = session
	env.sessions.sessions[other.ID] = other

	addRecord := func(owner *entities.AttendanceSession, status entities.AttendanceStatus, markedAt time.Time) {
		r := entities.NewAttendanceRecord(owner.ID, uuid.New(), status, 0.9, "present")
		r.MarkedAt = markedAt
		r.Session = owner
		env.records.rows = append(env.records.rows, r)
	}

	now := time.Now().UTC()
	addRecord(session, entities.StatusPresent, now)
	addRecord(session, entities.StatusPresent, now)
	addRecord(session, entities.StatusPresent, now)
	addRecord(session, entities.StatusAbsent, now)
	// Yesterday's record and another admin's record must not count.
	addRecord(session, entities.StatusAbsent, now.Add(-48*time.Hour))
	addRecord(other, entities.StatusPresent, now)

	stats, err := env.svc.Stats(context.Background(), adminID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSessions != 1 || stats.ActiveSessions != 1 {
		t.Errorf("sessions = %d/%d, want 1/1", stats.TotalSessions, stats.ActiveSessions)
	}
	if stats.PresentToday != 3 || stats.AbsentToday != 1 {
		t.Errorf("today = %d present / %d absent, want 3/1", stats.PresentToday, stats.AbsentToday)
	}
	if stats.AttendanceRate != 75.0 {
		t.Errorf("rate = %v, want 75.0", stats.AttendanceRate)
	}
}

func TestStatsEmptyDay(t *testing.T) {
	env := newAttEnv(t)

	stats, err := env.svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.AttendanceRate != 0 {
		t.Errorf("rate = %v on an empty day, want 0", stats.AttendanceRate)
	}
}

func TestExportCSV(t *testing.T) {
	student := entities.NewStudent("CS001", "John Doe", "CS", 3)
	env := newAttEnv(t, student)
	adminID := uuid.New()

	session := entities.NewAttendanceSession("Algorithms", "101", adminID, nil)
	env.sessions.sessions[session.ID] = session

	record := entities.NewAttendanceRecord(session.ID, student.ID, entities.StatusPresent, 0.92, "present")
	record.Student = student
	record.Session = session
	env.records.rows = append(env.records.rows, record)

	data, err := env.svc.ExportCSV(context.Background(), adminID, nil)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("export has %d rows, want header plus one record", len(rows))
	}
	if rows[0][0] != "student_id" || rows[0][len(rows[0])-1] != "session_date" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "CS001" || rows[1][4] != "present" || rows[1][8] != "Algorithms" {
		t.Errorf("unexpected record row %v", rows[1])
	}
}

func TestExportCSVScopedSession(t *testing.T) {
	env := newAttEnv(t)
	adminID := uuid.New()

	session := entities.NewAttendanceSession("Algorithms", "101", adminID, nil)
	env.sessions.sessions[session.ID] = session

	_, err := env.svc.ExportCSV(context.Background(), uuid.New(), &session.ID)
	if appErr := appErrorOf(t, err); appErr.HTTPCode != 404 || appErr.Message != "Session not found or access denied" {
		t.Fatalf("foreign admin export: got %d/%q", appErr.HTTPCode, appErr.Message)
	}

	data, err := env.svc.ExportCSV(context.Background(), adminID, &session.ID)
	if err != nil {
		t.Fatalf("owner export failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "student_id,") {
		t.Error("export missing header")
	}
}
