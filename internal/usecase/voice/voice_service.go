package voice

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/voiceattendance/voice-attendance/errors"
	"github.com/voiceattendance/voice-attendance/internal/domain/entities"
	"github.com/voiceattendance/voice-attendance/internal/domain/repositories"
	profilestore "github.com/voiceattendance/voice-attendance/internal/infrastructure/profiles"
	"github.com/voiceattendance/voice-attendance/internal/infrastructure/storage"
	pkgai "github.com/voiceattendance/voice-attendance/pkg/ai"
	"github.com/voiceattendance/voice-attendance/pkg/audio"
	"github.com/voiceattendance/voice-attendance/pkg/speaker"
)

// challengeWords is the fixed vocabulary students are asked to speak when
// marking attendance.
var challengeWords = []string{
	"attendance", "present", "verification", "student", "class",
	"education", "learning", "knowledge", "university", "college",
	"engineering", "technology", "science", "mathematics", "computer",
	"artificial", "intelligence", "machine", "algorithm", "data",
	"programming", "software", "hardware", "network", "system",
}

// EnrollInput carries one enrollment upload
type EnrollInput struct {
	StudentID string
	Audio     []byte
	Hint      string // declared content type, recorded but never trusted
}

// EnrollResult reports a stored reference profile
type EnrollResult struct {
	ProfilePath string  `json:"profile_path"`
	Duration    float64 `json:"duration"`
}

// VerifyInput carries one verification upload
type VerifyInput struct {
	StudentID  string
	SessionID  uuid.UUID
	SpokenWord string
	Audio      []byte
	Hint       string
}

// VerifyResult is the outcome of one verification attempt
type VerifyResult struct {
	Score       float64   `json:"similarity_score"`
	IsMatch     bool      `json:"verification_result"`
	Message     string    `json:"message"`
	Backend     string    `json:"backend"`
	WordChecked bool      `json:"word_checked"`
	WordHeard   bool      `json:"word_heard"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProfileStatus mirrors the on-disk reference profile
type ProfileStatus struct {
	Exists     bool    `json:"exists"`
	Path       string  `json:"path,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	FileSize   int64   `json:"file_size,omitempty"`
}

// Options tunes upload handling and the temp sweeper
type Options struct {
	UploadDir     string
	TempMaxAge    time.Duration
	SweepInterval time.Duration
}

// VoiceService orchestrates enrollment and verification around the profile
// store and the speaker engine
type VoiceService struct {
	studentRepo      repositories.StudentRepository
	profileRepo      repositories.VoiceProfileRepository
	verificationRepo repositories.VoiceVerificationRepository
	sessionRepo      repositories.AttendanceSessionRepository
	store            *profilestore.Store
	engine           *speaker.Engine
	decoder          *audio.Decoder
	checker          *pkgai.WordChecker   // nil disables the spoken-word check
	archive          *storage.MinIOClient // nil disables clip archiving
	opts             Options
	logger           *zap.Logger

	rng   *rand.Rand
	rngMu sync.Mutex

	sweeperStop chan struct{}
	sweeperWg   sync.WaitGroup
	sweeperOn   bool
	sweeperMu   sync.Mutex
}

// NewVoiceService constructs the voice service. Pass a seeded rng to pin
// challenge word selection in tests.
func NewVoiceService(
	studentRepo repositories.StudentRepository,
	profileRepo repositories.VoiceProfileRepository,
	verificationRepo repositories.VoiceVerificationRepository,
	sessionRepo repositories.AttendanceSessionRepository,
	store *profilestore.Store,
	engine *speaker.Engine,
	decoder *audio.Decoder,
	checker *pkgai.WordChecker,
	archive *storage.MinIOClient,
	opts Options,
	logger *zap.Logger,
	rng *rand.Rand,
) *VoiceService {
	if opts.UploadDir == "" {
		opts.UploadDir = "./uploads/audio"
	}
	if opts.TempMaxAge <= 0 {
		opts.TempMaxAge = 24 * time.Hour
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Hour
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := os.MkdirAll(opts.UploadDir, 0o755); err != nil && logger != nil {
		logger.Warn("⚠️ Failed to create upload directory",
			zap.String("dir", opts.UploadDir),
			zap.Error(err))
	}

	return &VoiceService{
		studentRepo:      studentRepo,
		profileRepo:      profileRepo,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
		store:            store,
		engine:           engine,
		decoder:          decoder,
		checker:          checker,
		archive:          archive,
		opts:             opts,
		logger:           logger,
		rng:              rng,
	}
}

// Enroll normalizes an uploaded recording and stores it as the student's
// reference voice profile
func (s *VoiceService) Enroll(ctx context.Context, input EnrollInput) (*EnrollResult, error) {
	student, err := s.studentRepo.FindByStudentID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(input.StudentID)
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	wave, diag, err := s.decoder.Normalize(input.Audio, input.Hint)
	if err != nil {
		return nil, apperrors.ErrProcessingFailed(err)
	}
	if diag.Placeholder {
		// The normalizer substitutes a synthetic tone when nothing decodes;
		// enrolling that tone would let every student match it.
		return nil, apperrors.ErrInvalidAudio("Failed to load audio file")
	}

	if s.logger != nil {
		s.logger.Info("🎤 Enrollment audio normalized",
			zap.String("student_id", input.StudentID),
			zap.String("strategy", diag.Strategy),
			zap.Float64("duration", wave.Duration()),
		)
	}

	profile, err := s.store.Enroll(input.StudentID, wave)
	if err != nil {
		var tooShort *profilestore.TooShortError
		if errors.As(err, &tooShort) {
			return nil, apperrors.ErrEnrollmentTooShort(tooShort.Measured, tooShort.Required)
		}
		return nil, fmt.Errorf("failed to store voice profile: %w", err)
	}

	if err := s.profileRepo.Upsert(ctx, entities.NewVoiceProfile(student.ID, profile.Path)); err != nil {
		return nil, fmt.Errorf("failed to save profile row: %w", err)
	}

	student.SetVoiceProfile(profile.Path)
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.archiveProfileSnapshot(ctx, input.StudentID, profile.Path)

	if s.logger != nil {
		s.logger.Info("✅ Voice profile enrolled",
			zap.String("student_id", input.StudentID),
			zap.String("path", profile.Path),
			zap.Float64("duration", profile.Duration),
		)
	}

	return &EnrollResult{ProfilePath: profile.Path, Duration: profile.Duration}, nil
}

// Verify runs the full verification flow for a student against a session
func (s *VoiceService) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
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

	if !s.store.Exists(student.StudentID) {
		return nil, apperrors.ErrVoiceProfileNotFound("Voice profile not found. Please enroll first.")
	}

	sid := session.ID
	return s.VerifyAgainstProfile(ctx, student, &sid, input.Audio, input.Hint, input.SpokenWord)
}

// VerifyAgainstProfile compares a clip against the student's reference,
// optionally checks the spoken word, archives the clip, and always writes
// the audit row. Session checks are the caller's responsibility.
func (s *VoiceService) VerifyAgainstProfile(ctx context.Context, student *entities.Student, sessionID *uuid.UUID, clip []byte, hint, expectedWord string) (*VerifyResult, error) {
	wave, diag, err := s.decoder.Normalize(clip, hint)
	if err != nil {
		return nil, apperrors.ErrVerificationFailed(err)
	}
	if diag.Placeholder && s.logger != nil {
		// Scoring proceeds anyway; the tone will not match a real reference.
		s.logger.Warn("⚠️ Test clip did not decode, scoring placeholder tone",
			zap.String("student_id", student.StudentID),
			zap.String("container", diag.Container),
			zap.String("hint", hint),
		)
	}

	ref, err := s.store.Reference(student.StudentID)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			return nil, apperrors.ErrVoiceProfileNotFound("Voice profile not found. Please enroll first.")
		}
		return nil, apperrors.ErrVerificationFailed(err)
	}

	outcome := s.engine.Verify(ref, wave, 0)

	result := &VerifyResult{
		Score:     outcome.Score,
		IsMatch:   outcome.IsMatch,
		Message:   outcomeMessage(outcome),
		Backend:   outcome.Backend,
		Timestamp: time.Now().UTC(),
	}

	if s.logger != nil {
		s.logger.Info("🔍 Voice verification scored",
			zap.String("student_id", student.StudentID),
			zap.Float64("score", result.Score),
			zap.Bool("is_match", result.IsMatch),
			zap.String("backend", result.Backend),
		)
	}

	var clipBytes []byte
	wantWordCheck := s.checker != nil && s.checker.Enabled() && expectedWord != "" && !diag.Placeholder
	if wantWordCheck || s.archive != nil {
		clipBytes, err = s.waveformBytes(wave)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to render clip bytes", zap.Error(err))
			}
			clipBytes = nil
		}
	}

	if wantWordCheck && len(clipBytes) > 0 {
		check, cerr := s.checker.Check(ctx, clipBytes, expectedWord)
		if cerr != nil {
			// ASR availability must never block attendance
			if s.logger != nil {
				s.logger.Warn("⚠️ Spoken-word check skipped", zap.Error(cerr))
			}
		} else {
			result.WordChecked = true
			result.WordHeard = check.Heard
			if !check.Heard {
				result.IsMatch = false
				result.Message = "Challenge word not detected in recording"
			}
		}
	}

	var objectKey *string
	if s.archive != nil && sessionID != nil && len(clipBytes) > 0 {
		key := storage.VerificationKey(sessionID.String(), student.StudentID, result.Timestamp)
		if uerr := s.archive.UploadWAV(ctx, key, clipBytes); uerr != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to archive verification clip", zap.Error(uerr))
			}
		} else {
			objectKey = &key
		}
	}

	audit := entities.NewVoiceVerification(student.ID, sessionID, result.Score, result.IsMatch, result.Backend)
	audit.AudioObjectKey = objectKey
	if err := s.verificationRepo.Create(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to record verification: %w", err)
	}

	return result, nil
}

// HasProfile reports whether a usable reference profile exists on disk
func (s *VoiceService) HasProfile(studentID string) bool {
	return s.store.Exists(studentID)
}

// RandomWord picks one challenge word
func (s *VoiceService) RandomWord() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return challengeWords[s.rng.Intn(len(challengeWords))]
}

// RandomWords samples count distinct challenge words
func (s *VoiceService) RandomWords(count int) []string {
	if count <= 0 {
		count = 1
	}
	if count > len(challengeWords) {
		count = len(challengeWords)
	}
	s.rngMu.Lock()
	perm := s.rng.Perm(len(challengeWords))
	s.rngMu.Unlock()

	words := make([]string, count)
	for i := 0; i < count; i++ {
		words[i] = challengeWords[perm[i]]
	}
	return words
}

// ProfileStatus returns profile existence and file metadata
func (s *VoiceService) ProfileStatus(ctx context.Context, studentID string) (*ProfileStatus, error) {
	if _, err := s.studentRepo.FindByStudentID(ctx, studentID); err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound(studentID)
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	meta, err := s.store.Metadata(studentID)
	if err != nil {
		// Missing or unreadable both read as no usable profile
		return &ProfileStatus{Exists: false}, nil
	}
	return &ProfileStatus{
		Exists:     true,
		Path:       meta.Path,
		Duration:   meta.Duration,
		SampleRate: meta.SampleRate,
		Channels:   meta.Channels,
		FileSize:   meta.SizeBytes,
	}, nil
}

// DeleteProfile removes the reference recording and its DB row
func (s *VoiceService) DeleteProfile(ctx context.Context, studentID string) error {
	student, err := s.studentRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, entities.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound(studentID)
		}
		return fmt.Errorf("failed to look up student: %w", err)
	}

	if !s.store.Delete(studentID) {
		return apperrors.ErrNotFound("Voice profile")
	}

	if err := s.profileRepo.Delete(ctx, student.ID); err != nil {
		return fmt.Errorf("failed to delete profile row: %w", err)
	}

	student.ClearVoiceProfile()
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Voice profile deleted", zap.String("student_id", studentID))
	}
	return nil
}

// StartSweeper starts the background temp-file sweeper
func (s *VoiceService) StartSweeper(ctx context.Context) error {
	s.sweeperMu.Lock()
	defer s.sweeperMu.Unlock()

	if s.sweeperOn {
		return fmt.Errorf("sweeper already running")
	}
	s.sweeperOn = true
	s.sweeperStop = make(chan struct{})

	s.sweeperWg.Add(1)
	go s.sweepLoop(ctx)

	if s.logger != nil {
		s.logger.Info("🧹 Temp sweeper started",
			zap.String("dir", s.opts.UploadDir),
			zap.Duration("interval", s.opts.SweepInterval),
			zap.Duration("max_age", s.opts.TempMaxAge),
		)
	}
	return nil
}

// StopSweeper gracefully stops the sweeper
func (s *VoiceService) StopSweeper() error {
	s.sweeperMu.Lock()
	defer s.sweeperMu.Unlock()

	if !s.sweeperOn {
		return fmt.Errorf("sweeper not running")
	}
	close(s.sweeperStop)
	s.sweeperWg.Wait()
	s.sweeperOn = false

	if s.logger != nil {
		s.logger.Info("✅ Temp sweeper stopped")
	}
	return nil
}

func (s *VoiceService) sweepLoop(ctx context.Context) {
	defer s.sweeperWg.Done()

	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweeperStop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

// sweepOnce removes stale files from the upload dir. The profiles dir is
// never touched; enrolled references have no expiry.
func (s *VoiceService) sweepOnce() {
	entries, err := os.ReadDir(s.opts.UploadDir)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Temp sweep failed", zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-s.opts.TempMaxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.opts.UploadDir, entry.Name())) == nil {
				removed++
			}
		}
	}

	if removed > 0 && s.logger != nil {
		s.logger.Info("🧹 Removed stale temp audio files", zap.Int("count", removed))
	}
}

// archiveProfileSnapshot mirrors the enrolled reference into object storage
func (s *VoiceService) archiveProfileSnapshot(ctx context.Context, studentID, path string) {
	if s.archive == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err == nil {
		err = s.archive.UploadWAV(ctx, storage.ProfileKey(studentID), data)
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to archive profile snapshot",
			zap.String("student_id", studentID),
			zap.Error(err),
		)
	}
}

// waveformBytes renders the normalized waveform as WAV bytes through a
// scratch file in the upload dir; the sweeper reaps any leak.
func (s *VoiceService) waveformBytes(w *audio.Waveform) ([]byte, error) {
	path := filepath.Join(s.opts.UploadDir, fmt.Sprintf("verify_%s.wav", uuid.New().String()))
	if err := audio.WriteWAVFile(w, path); err != nil {
		return nil, err
	}
	defer os.Remove(path)
	return os.ReadFile(path)
}

// outcomeMessage translates engine outcomes into the API's user-facing
// messages
func outcomeMessage(out speaker.Outcome) string {
	switch out.Message {
	case "match":
		return "Voice verified successfully"
	case "no match":
		return "Voice verification failed"
	case "invalid audio":
		return "Invalid test audio file"
	default:
		return "Verification error"
	}
}
