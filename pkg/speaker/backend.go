// Package speaker scores whether two recordings carry the same voice. The
// primary backend embeds waveforms with a pretrained speaker model; when no
// model can be loaded the engine degrades to the heuristic fingerprint
// comparator and says so loudly.
package speaker

import (
	"errors"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

// Backend is the capability every verifier implementation provides: a
// pairwise similarity score for two canonical waveforms. Score semantics
// are backend-defined; the primary model emits cosine similarity, which is
// not bounded to [0, 1].
type Backend interface {
	Name() string
	Compare(ref, probe *audio.Waveform) (float64, error)
}

// ErrModelUnavailable reports that every model loading strategy failed and
// the engine is running on the fingerprint fallback.
var ErrModelUnavailable = errors.New("no speaker embedding model available")

// Backend names as reported by Name() and recorded in audit rows.
const (
	BackendEmbedding   = "embedding"
	BackendFingerprint = "fingerprint"
)
