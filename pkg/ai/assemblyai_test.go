package ai

import (
	"context"
	"testing"

	"github.com/voiceattendance/voice-attendance/pkg/config"
)

func TestContainsWord(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		word       string
		want       bool
	}{
		{"exact", "attendance", "attendance", true},
		{"case insensitive", "Attendance.", "attendance", true},
		{"within sentence", "I said the word algorithm loudly", "Algorithm", true},
		{"absent", "completely different words", "attendance", false},
		{"empty transcript", "", "attendance", false},
		{"empty word", "attendance", "", false},
		{"whitespace word", "attendance", "   ", false},
		{"word with padding", "present and accounted for", " present ", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContainsWord(tc.transcript, tc.word); got != tc.want {
				t.Errorf("ContainsWord(%q, %q) = %v, want %v", tc.transcript, tc.word, got, tc.want)
			}
		})
	}
}

func TestCheckerDisabledWithoutKey(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	checker := NewWordChecker(&config.AssemblyAIConfig{}, nil)
	if checker.Enabled() {
		t.Fatal("checker should be disabled without an API key")
	}
	if _, err := checker.Check(context.Background(), []byte{1, 2, 3}, "word"); err == nil {
		t.Fatal("Check should fail when disabled")
	}
}

func TestCheckRejectsEmptyClip(t *testing.T) {
	checker := NewWordChecker(&config.AssemblyAIConfig{APIKey: "test-key"}, nil)
	if _, err := checker.Check(context.Background(), nil, "word"); err == nil {
		t.Fatal("Check should reject an empty clip")
	}
}
