package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/domain/repositories"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/cache"
	"github.com/voiceattendance/voice-attendance/internal/usecase/voice"
	"github.com/voiceattendance/voice-attendance/pkg/qr"
)

// challengeWordsPerSession is how many words are sampled into each new
// session.
const challengeWordsPerSession = 5

// qrValidity is how long a generated QR code is advertised as usable.
const qrValidity = 24 * time.Hour

// exportHeader fixes the CSV column order for attendance exports.
var exportHeader = []string{
	"student_id", "student_name", "branch", "year",
	"status", "verification_score", "timestamp", "spoken_word",
	"class_name", "room_number", "session_date",
}

// CreateSessionInput carries a new session request
type CreateSessionInput struct {
	AdminID    uuid.UUID
	ClassName  string
	RoomNumber string
}

// QRSession bundles a created session with its rendered QR code
type QRSession struct {
	Session   *entities.AttendanceSession
	QRImage   string // base64 PNG
	ExpiresAt time.Time
}

// JoinInput carries a student's scanned QR payload
type JoinInput struct {
	StudentID string
	QRPayload string
}

// JoinResult tells the student which session they joined and which word to
// speak
type JoinResult struct {
	Session *entities.AttendanceSession
	Word    string
}

// MarkInput carries one attendance attempt
type MarkInput struct {
	StudentID  string
	SessionID  uuid.UUID
	SpokenWord string
	Audio      []byte
	Hint       string
}

// MarkResult is the outcome of one attendance attempt
type MarkResult struct {
	Status    entities.AttendanceStatus `json:"status"`
	Score     float64                   `json:"similarity_score"`
	IsMatch   bool                      `json:"success"`
	Message   string                    `json:"message"`
	Timestamp time.Time                 `json:"timestamp"`
}

// SessionAttendance pairs a session with its attendance records
type SessionAttendance struct {
	Session *entities.AttendanceSession
	Records []*entities.AttendanceRecord
}

// Stats aggregates an admin's dashboard numbers
type Stats struct {
	TotalSessions  int64   `json:"total_sessions"`
	ActiveSessions int64   `json:"active_sessions"`
	TotalStudents  int64   `json:"total_students"`
	PresentToday   int64   `json:"present_today"`
	AbsentToday    int64   `json:"absent_today"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceService implements the attendance flows on top of the voice
// verification service
type AttendanceService struct {
	sessionRepo repositories.AttendanceSessionRepository
	recordRepo  repositories.AttendanceRecordRepository
	studentRepo repositories.StudentRepository
	voice       voice.Service
	challenges  *cache.ChallengeStore
	logger      *zap.Logger

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewAttendanceService constructs the attendance service. Pass a seeded rng
// to pin challenge word selection in tests.
func NewAttendanceService(
	sessionRepo repositories.AttendanceSessionRepository,
	recordRepo repositories.AttendanceRecordRepository,
	studentRepo repositories.StudentRepository,
	voiceService voice.Service,
	challenges *cache.ChallengeStore,
	logger *zap.Logger,
	rng *rand.Rand,
) *AttendanceService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AttendanceService{
		sessionRepo: sessionRepo,
		recordRepo:  recordRepo,
		studentRepo: studentRepo,
		voice:       voiceService,
		challenges:  challenges,
		logger:      logger,
		rng:         rng,
	}
}

// CreateSession opens a new attendance session with a fresh QR token and a
// sample of challenge words
func (s *AttendanceService) CreateSession(ctx context.Context, input CreateSessionInput) (*entities.AttendanceSession, error) {
	words := s.voice.RandomWords(challengeWordsPerSession)
	session := entities.NewAttendanceSession(input.ClassName, input.RoomNumber, input.AdminID, words)
	if err := session.Validate(); err != nil {
		return nil, apperrors.ErrInvalidArgument(err.Error())
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📋 Attendance session created",
			zap.String("session_id", session.ID.String()),
			zap.String("class_name", session.ClassName),
			zap.String("admin_id", input.AdminID.String()),
		)
	}
	return session, nil
}

// GenerateSessionQR creates a session and renders its QR code image in one
// step
func (s *AttendanceService) GenerateSessionQR(ctx context.Context, input CreateSessionInput) (*QRSession, error) {
	session, err := s.CreateSession(ctx, input)
	if err != nil {
		return nil, err
	}

	image, err := qr.GenerateSessionQR(session.ID.String(), session.QRCode)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &QRSession{
		Session:   session,
		QRImage:   image,
		ExpiresAt: time.Now().UTC().Add(qrValidity),
	}, nil
}

// ListSessions returns an admin's sessions with the total count
func (s *AttendanceService) ListSessions(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*entities.AttendanceSession, int64, error) {
	sessions, total, err := s.sessionRepo.List(ctx, adminID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

// ActiveSessions returns an admin's currently active sessions
func (s *AttendanceService) ActiveSessions(ctx context.Context, adminID uuid.UUID) ([]*entities.AttendanceSession, error) {
	sessions, err := s.sessionRepo.FindActive(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return sessions, nil
}

// EndSession deactivates a session owned by the admin. Ending an already
// ended session succeeds.
func (s *AttendanceService) EndSession(ctx context.Context, adminID, sessionID uuid.UUID) error {
	session, err := s.ownedSession(ctx, adminID, sessionID)
	if err != nil {
		return err
	}

	session.End()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🛑 Session deactivated",
			zap.String("session_id", sessionID.String()),
			zap.String("admin_id", adminID.String()),
		)
	}
	return nil
}

// JoinSession resolves a scanned QR payload and issues the student a
// challenge word
func (s *AttendanceService) JoinSession(ctx context.Context, input JoinInput) (*JoinResult, error) {
	token, err := qr.ExtractToken(input.QRPayload)
	if err != nil {
		return nil, apperrors.ErrInvalidSessionQR()
	}

	session, err := s.sessionRepo.FindByQRCode(ctx, token)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, apperrors.ErrInvalidSessionQR()
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if !session.IsJoinable() {
		return nil, apperrors.ErrSessionInactive()
	}

	student, err := s.studentRepo.FindByStudentID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(input.StudentID)
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if !s.voice.HasProfile(student.StudentID) {
		return nil, apperrors.ErrVoiceProfileNotFound("Voice profile not found. Please enroll your voice first.")
	}

	word := s.pickChallengeWord(session)
	if s.challenges != nil {
		s.challenges.Put(session.ID.String(), student.StudentID, word)
	}

	if s.logger != nil {
		s.logger.Info("🎯 Student joined session",
			zap.String("session_id", session.ID.String()),
			zap.String("student_id", student.StudentID),
			zap.String("word", word),
		)
	}
	return &JoinResult{Session: session, Word: word}, nil
}

// Mark verifies the student's voice and writes the attendance record
func (s *AttendanceService) Mark(ctx context.Context, input MarkInput) (*MarkResult, error) {
	student, err := s.studentRepo.FindByStudentID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(input.StudentID)
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	session, err := s.sessionRepo.FindByID(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound()
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if !session.IsActive {
		return nil, apperrors.ErrSessionInactive()
	}

	marked, err := s.recordRepo.HasMarked(ctx, session.ID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}
	if marked {
		return nil, apperrors.ErrAttendanceAlreadyMarked()
	}

	// The stored challenge word wins over whatever the client submitted; a
	// missing entry (expired, or issued before a restart) falls back to the
	// submitted word so marking stays possible.
	expected := input.SpokenWord
	if s.challenges != nil {
		if stored, ok := s.challenges.Get(session.ID.String(), student.StudentID); ok && stored != "" {
			expected = stored
		}
	}

	result, err := s.voice.VerifyAgainstProfile(ctx, student, &session.ID, input.Audio, input.Hint, expected)
	if err != nil {
		return nil, err
	}

	status := entities.StatusAbsent
	if result.IsMatch {
		status = entities.StatusPresent
	}

	wordForRecord := input.SpokenWord
	if wordForRecord == "" {
		wordForRecord = expected
	}

	record := entities.NewAttendanceRecord(session.ID, student.ID, status, result.Score, wordForRecord)
	if err := s.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, entities.ErrAlreadyMarked) {
			return nil, apperrors.ErrAttendanceAlreadyMarked()
		}
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}

	if s.challenges != nil {
		s.challenges.Delete(session.ID.String(), student.StudentID)
	}

	if s.logger != nil {
		s.logger.Info("✅ Attendance marked",
			zap.String("session_id", session.ID.String()),
			zap.String("student_id", student.StudentID),
			zap.String("status", string(status)),
			zap.Float64("score", result.Score),
		)
	}

	return &MarkResult{
		Status:    status,
		Score:     result.Score,
		IsMatch:   result.IsMatch,
		Message:   fmt.Sprintf("Attendance marked as %s. %s", status, result.Message),
		Timestamp: time.Now().UTC(),
	}, nil
}

// History returns a student's attendance records, newest first
func (s *AttendanceService) History(ctx context.Context, studentID string, limit, offset int) ([]*entities.AttendanceRecord, error) {
	student, err := s.studentRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(studentID)
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	records, err := s.recordRepo.ListByStudent(ctx, student.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}
	return records, nil
}

// SessionAttendance returns a session owned by the admin together with its
// records
func (s *AttendanceService) SessionAttendance(ctx context.Context, adminID, sessionID uuid.UUID) (*SessionAttendance, error) {
	session, err := s.ownedSession(ctx, adminID, sessionID)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session attendance: %w", err)
	}
	return &SessionAttendance{Session: session, Records: records}, nil
}

// Stats aggregates dashboard numbers for an admin. Present and absent counts
// cover the current UTC day.
func (s *AttendanceService) Stats(ctx context.Context, adminID uuid.UUID) (*Stats, error) {
	_, totalSessions, err := s.sessionRepo.List(ctx, adminID, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	activeSessions, err := s.sessionRepo.CountActive(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}

	totalStudents, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	presentToday, err := s.recordRepo.CountByStatusSince(ctx, adminID, entities.StatusPresent, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to count present records: %w", err)
	}
	absentToday, err := s.recordRepo.CountByStatusSince(ctx, adminID, entities.StatusAbsent, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to count absent records: %w", err)
	}

	var rate float64
	if total := presentToday + absentToday; total > 0 {
		rate = math.Round(float64(presentToday)/float64(total)*10000) / 100
	}

	return &Stats{
		TotalSessions:  totalSessions,
		ActiveSessions: activeSessions,
		TotalStudents:  totalStudents,
		PresentToday:   presentToday,
		AbsentToday:    absentToday,
		AttendanceRate: rate,
	}, nil
}

// ExportCSV renders an admin's attendance records as a CSV document
func (s *AttendanceService) ExportCSV(ctx context.Context, adminID uuid.UUID, sessionID *uuid.UUID) ([]byte, error) {
	if sessionID != nil {
		if _, err := s.ownedSession(ctx, adminID, *sessionID); err != nil {
			return nil, err
		}
	}

	records, err := s.recordRepo.ListForExport(ctx, adminID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load export data: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeader); err != nil {
		return nil, apperrors.ErrExportFailed(err)
	}

	for _, record := range records {
		// Rows missing their student were orphaned by a deletion; skip them
		// rather than export half a line.
		if record.Student == nil {
			continue
		}
		row := []string{
			record.Student.StudentID,
			record.Student.Name,
			record.Student.Branch,
			strconv.Itoa(record.Student.Year),
			string(record.Status),
			strconv.FormatFloat(record.VerificationScore, 'f', -1, 64),
			record.MarkedAt.UTC().Format(time.RFC3339),
		}
		if record.SpokenWord != nil {
			row = append(row, *record.SpokenWord)
		} else {
			row = append(row, "")
		}
		if record.Session != nil {
			row = append(row,
				record.Session.ClassName,
				record.Session.RoomNumber,
				record.Session.SessionDate.UTC().Format(time.RFC3339),
			)
		} else {
			row = append(row, "", "", "")
		}
		if err := writer.Write(row); err != nil {
			return nil, apperrors.ErrExportFailed(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.ErrExportFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("📤 Attendance exported",
			zap.String("admin_id", adminID.String()),
			zap.Int("records", len(records)),
		)
	}
	return buf.Bytes(), nil
}

// ownedSession loads a session and hides it from admins who do not own it
func (s *AttendanceService) ownedSession(ctx context.Context, adminID, sessionID uuid.UUID) (*entities.AttendanceSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionAccessDenied()
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session.AdminID != adminID {
		return nil, apperrors.ErrSessionAccessDenied()
	}
	return session, nil
}

// pickChallengeWord picks from the session's sampled words, falling back to
// the full vocabulary for sessions created without any
func (s *AttendanceService) pickChallengeWord(session *entities.AttendanceSession) string {
	words := session.ChallengeWordList()
	if len(words) == 0 {
		return s.voice.RandomWord()
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return words[s.rng.Intn(len(words))]
}
