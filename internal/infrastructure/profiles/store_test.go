package profiles

import (
	"errors"
	"math"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

func toneWave(freq, seconds float64) *audio.Waveform {
	rate := 16000
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return &audio.Waveform{Samples: samples, SampleRate: rate, Channels: 1}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 3.0)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestEnrollCreatesProfile(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Enroll("CS001", toneWave(220, 4.0))
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if p.SampleRate != 16000 || p.Channels != 1 {
		t.Errorf("profile format = %dHz/%dch, want 16000Hz/1ch", p.SampleRate, p.Channels)
	}
	if math.Abs(p.Duration-4.0) > 1e-6 {
		t.Errorf("profile duration = %v, want 4.0", p.Duration)
	}
	if p.SizeBytes == 0 {
		t.Error("profile size is zero")
	}
	if !strings.HasSuffix(p.Path, "CS001_profile.wav") {
		t.Errorf("profile path = %q, want <dir>/CS001_profile.wav", p.Path)
	}
	if !s.Exists("CS001") {
		t.Error("Exists = false after Enroll")
	}
}

func TestEnrollRejectsShortAudio(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Enroll("CS001", toneWave(220, 2.0))
	if err == nil {
		t.Fatal("Enroll accepted 2s audio below the 3s floor")
	}
	var tooShort *TooShortError
	if !errors.As(err, &tooShort) {
		t.Fatalf("error type = %T, want *TooShortError", err)
	}
	if math.Abs(tooShort.Measured-2.0) > 1e-6 || tooShort.Required != 3.0 {
		t.Errorf("TooShortError = %v/%v, want 2.0/3.0", tooShort.Measured, tooShort.Required)
	}
	if !strings.Contains(err.Error(), "2.00s") || !strings.Contains(err.Error(), "3.0s") {
		t.Errorf("error message %q should name measured and required durations", err.Error())
	}
	if s.Exists("CS001") {
		t.Error("Exists = true after rejected enrollment")
	}
}

func TestEnrollRejectsMultichannel(t *testing.T) {
	s := newTestStore(t)

	w := toneWave(220, 4.0)
	w.Channels = 2
	if _, err := s.Enroll("CS001", w); err == nil {
		t.Fatal("Enroll accepted stereo waveform")
	}
}

func TestReEnrollOverwritesReference(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Enroll("CS001", toneWave(220, 4.0)); err != nil {
		t.Fatalf("first Enroll failed: %v", err)
	}
	if _, err := s.Enroll("CS001", toneWave(330, 5.0)); err != nil {
		t.Fatalf("second Enroll failed: %v", err)
	}

	ref, err := s.Reference("CS001")
	if err != nil {
		t.Fatalf("Reference failed: %v", err)
	}
	if math.Abs(ref.Duration()-5.0) > 1e-6 {
		t.Errorf("reference duration = %v, want the re-enrolled 5.0", ref.Duration())
	}
}

func TestReferenceMissingProfile(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Reference("CS404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Reference error = %v, want ErrNotFound", err)
	}
	if _, err := s.Metadata("CS404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Metadata error = %v, want ErrNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Enroll("CS001", toneWave(220, 4.0)); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if !s.Delete("CS001") {
		t.Error("Delete = false for an existing profile")
	}
	if s.Exists("CS001") {
		t.Error("Exists = true after Delete")
	}
	if s.Delete("CS001") {
		t.Error("Delete = true for an already-deleted profile")
	}
}

func TestEnrollLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Enroll("CS001", toneWave(220, 4.0)); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("profiles dir holds %d entries, want only the profile", len(entries))
	}
	if strings.HasSuffix(entries[0].Name(), ".partial") {
		t.Errorf("partial file %q left behind", entries[0].Name())
	}
}

func TestConcurrentEnrollsLeaveValidProfile(t *testing.T) {
	s := newTestStore(t)

	// Two racing enrollments for the same student must not interleave into
	// each other's temp file: whichever rename wins, the reference must
	// decode cleanly as one complete recording.
	waves := []*audio.Waveform{toneWave(220, 4.0), toneWave(330, 5.0)}
	var wg sync.WaitGroup
	for _, w := range waves {
		wg.Add(1)
		go func(w *audio.Waveform) {
			defer wg.Done()
			if _, err := s.Enroll("CS001", w); err != nil {
				t.Errorf("Enroll failed: %v", err)
			}
		}(w)
	}
	wg.Wait()

	ref, err := s.Reference("CS001")
	if err != nil {
		t.Fatalf("Reference failed after concurrent enrolls: %v", err)
	}
	d := ref.Duration()
	if math.Abs(d-4.0) > 1e-6 && math.Abs(d-5.0) > 1e-6 {
		t.Errorf("reference duration = %v, want one complete recording (4.0 or 5.0)", d)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".partial") {
			t.Errorf("partial file %q left behind", e.Name())
		}
	}
}

func TestExistsRevalidatesFileContent(t *testing.T) {
	s := newTestStore(t)

	// A present but undecodable file must not count as enrolled.
	if err := os.WriteFile(s.Path("CS009"), []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if s.Exists("CS009") {
		t.Error("Exists = true for an undecodable profile file")
	}

	// Same for a decodable file shorter than the enrollment floor.
	if err := audio.WriteWAVFile(toneWave(220, 1.0), s.Path("CS010")); err != nil {
		t.Fatalf("WriteWAVFile failed: %v", err)
	}
	if s.Exists("CS010") {
		t.Error("Exists = true for a profile below the duration floor")
	}
}
