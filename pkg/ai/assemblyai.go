// Package ai holds the AssemblyAI transcription client used for the optional
// spoken-word check during attendance marking.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/voiceattendance/voice-attendance/pkg/config"
)

// WordChecker transcribes short verification clips and reports whether the
// expected challenge word was spoken.
type WordChecker struct {
	apiKey  string
	client  *aai.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewWordChecker creates a word checker using the provided config. Pass a nil
// config to fall back to environment variables.
func NewWordChecker(cfg *config.AssemblyAIConfig, logger *zap.Logger) *WordChecker {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &WordChecker{
		apiKey: apiKey,
		client: aai.NewClient(apiKey),
		logger: logger,
		// TranscribeFromURL polls until the transcript reaches a terminal
		// state, so the budget covers upload plus processing time.
		timeout: 90 * time.Second,
	}
}

// Enabled reports whether an API key is configured.
func (c *WordChecker) Enabled() bool {
	return c.apiKey != ""
}

// CheckResult is the outcome of one spoken-word check.
type CheckResult struct {
	Heard      bool
	Transcript string
}

// Check uploads the WAV clip, transcribes it, and tests whether the expected
// word occurs in the transcript. Transport failures are retried with
// exponential backoff; an AssemblyAI processing error is not.
func (c *WordChecker) Check(ctx context.Context, wavData []byte, word string) (*CheckResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("assemblyai API key not configured")
	}
	if len(wavData) == 0 {
		return nil, fmt.Errorf("empty audio clip")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var transcriptText string
	submitFn := func() error {
		uploadURL, err := c.client.Upload(ctx, bytes.NewReader(wavData))
		if err != nil {
			return fmt.Errorf("failed to upload clip to AssemblyAI: %w", err)
		}

		if c.logger != nil {
			c.logger.Debug("📤 Clip uploaded to AssemblyAI",
				zap.String("upload_url", uploadURL),
				zap.Int("bytes", len(wavData)),
			)
		}

		params := &aai.TranscriptOptionalParams{
			LanguageCode: aai.TranscriptLanguageCode("en"),
		}
		transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
		if err != nil {
			return fmt.Errorf("failed to transcribe clip: %w", err)
		}

		if transcript.Status == aai.TranscriptStatusError {
			msg := "transcription failed"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return backoff.Permanent(fmt.Errorf("assemblyai error: %s", msg))
		}

		if transcript.Text != nil {
			transcriptText = *transcript.Text
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	result := &CheckResult{
		Heard:      ContainsWord(transcriptText, word),
		Transcript: transcriptText,
	}

	if c.logger != nil {
		c.logger.Info("🎙️ Spoken-word check completed",
			zap.String("expected", word),
			zap.Bool("heard", result.Heard),
			zap.String("transcript", transcriptText),
		)
	}

	return result, nil
}

// ContainsWord reports whether the expected word occurs in the transcript,
// ignoring case and surrounding whitespace.
func ContainsWord(transcript, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	return strings.Contains(strings.ToLower(transcript), word)
}
