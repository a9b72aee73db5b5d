// Package profiles stores one canonical voice reference per student on disk.
// The WAV file is the single source of truth: metadata is derived from it on
// demand and existence checks re-decode the file rather than trusting an index.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"time"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

// ErrNotFound is returned when a student has no stored voice profile.
var ErrNotFound = errors.New("voice profile not found")

// TooShortError reports an enrollment sample below the duration floor.
type TooShortError struct {
	Measured float64
	Required float64
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("audio too short for enrollment: %.2fs recorded, %.1fs required", e.Measured, e.Required)
}

// Profile describes a stored voice reference.
type Profile struct {
	StudentID  string    `json:"student_id"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`
	SizeBytes  int64     `json:"size_bytes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists voice profiles as 16 kHz mono WAV files, one per student,
// at <dir>/<student_id>_profile.wav.
type Store struct {
	dir        string
	minSeconds float64
}

// NewStore creates the profiles directory if needed and returns a store.
func NewStore(dir string, minSeconds float64) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("profiles directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profiles directory: %w", err)
	}
	if minSeconds <= 0 {
		minSeconds = 3.0
	}
	return &Store{dir: dir, minSeconds: minSeconds}, nil
}

// Dir returns the profiles directory.
func (s *Store) Dir() string {
	return s.dir
}

// MinSeconds returns the enrollment duration floor.
func (s *Store) MinSeconds() float64 {
	return s.minSeconds
}

// Path returns the canonical profile path for a student.
func (s *Store) Path(studentID string) string {
	return filepath.Join(s.dir, studentID+"_profile.wav")
}

// Enroll writes the waveform as the student's reference profile. The file is
// written to a temporary path and renamed into place so concurrent readers
// never observe a partial profile. Re-enrolling overwrites the previous
// reference.
func (s *Store) Enroll(studentID string, w *audio.Waveform) (*Profile, error) {
	if studentID == "" {
		return nil, fmt.Errorf("student ID is required")
	}
	if w == nil || w.IsEmpty() {
		return nil, fmt.Errorf("cannot enroll empty waveform")
	}
	if w.Channels != 1 {
		return nil, fmt.Errorf("profile audio must be mono, got %d channels", w.Channels)
	}
	if d := w.Duration(); d < s.minSeconds {
		return nil, &TooShortError{Measured: d, Required: s.minSeconds}
	}

	dest := s.Path(studentID)
	// Unique temp name per writer: concurrent enrolls for the same student
	// must not interleave into a shared partial file.
	tmpFile, err := os.CreateTemp(s.dir, studentID+"_*.partial")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp profile: %w", err)
	}
	tmp := tmpFile.Name()
	tmpFile.Close()
	if err := audio.WriteWAVFile(w, tmp); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to finalize profile: %w", err)
	}
	return s.Metadata(studentID)
}

// Exists reports whether the student has a usable profile. The file must be
// present, decodable and long enough to verify against.
func (s *Store) Exists(studentID string) bool {
	w, err := audio.ReadWAVFile(s.Path(studentID))
	if err != nil {
		return false
	}
	return w.Duration() >= s.minSeconds
}

// Reference loads the stored reference waveform.
func (s *Store) Reference(studentID string) (*audio.Waveform, error) {
	path := s.Path(studentID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat profile: %w", err)
	}
	w, err := audio.ReadWAVFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return w, nil
}

// Delete removes the student's profile and reports whether a file was
// actually removed. Deleting an absent profile is not an error.
func (s *Store) Delete(studentID string) bool {
	return os.Remove(s.Path(studentID)) == nil
}

// Metadata reads the stored profile file and returns its properties.
func (s *Store) Metadata(studentID string) (*Profile, error) {
	path := s.Path(studentID)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat profile: %w", err)
	}
	w, err := audio.ReadWAVFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return &Profile{
		StudentID:  studentID,
		Path:       path,
		Duration:   w.Duration(),
		SampleRate: w.SampleRate,
		Channels:   w.Channels,
		SizeBytes:  info.Size(),
		UpdatedAt:  info.ModTime(),
	}, nil
}
