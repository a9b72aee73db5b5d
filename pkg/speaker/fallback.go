package speaker

import (
	"math/rand"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
	"github.com/voiceattendance/voice-attendance/pkg/voiceprint"
)

// FallbackBackend scores with heuristic acoustic fingerprints. It exists so
// verification keeps working when no embedding model can be loaded; it is a
// degraded-mode substitute, not real speaker verification, and every
// diagnostic surface must make that visible.
type FallbackBackend struct {
	cmp *voiceprint.Comparator
}

// NewFallbackBackend builds the fingerprint comparator. Pass a seeded rng
// to pin the perturbation in tests; nil gets a time-seeded source.
func NewFallbackBackend(rng *rand.Rand) *FallbackBackend {
	return &FallbackBackend{cmp: voiceprint.NewComparator(rng)}
}

// Comparator exposes the underlying comparator so callers can adjust the
// noise amplitude.
func (b *FallbackBackend) Comparator() *voiceprint.Comparator { return b.cmp }

func (b *FallbackBackend) Name() string { return BackendFingerprint }

// Compare fingerprints both sides and returns their weighted similarity.
// Extraction failure on either side scores 0 rather than erroring: a
// verification decision fails closed.
func (b *FallbackBackend) Compare(ref, probe *audio.Waveform) (float64, error) {
	refFP := voiceprint.Extract(ref)
	probeFP := voiceprint.Extract(probe)
	if refFP == nil || probeFP == nil {
		return 0, nil
	}
	return b.cmp.Similarity(refFP, probeFP), nil
}
