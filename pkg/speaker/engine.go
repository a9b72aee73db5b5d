package speaker

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

// Config tunes the verification engine.
type Config struct {
	MinSeconds        float64 // duration floor both waveforms must meet
	PrimaryThreshold  float64 // default decision cutoff for the embedding backend
	FallbackThreshold float64 // default cutoff for the fingerprint fallback
	Loader            LoaderConfig
}

// DefaultConfig carries the production defaults. The primary threshold is
// deliberately stricter than the fallback one; the two backends emit scores
// on different scales and degraded mode must not become more permissive by
// accident.
func DefaultConfig() Config {
	return Config{
		MinSeconds:        2.0,
		PrimaryThreshold:  0.60,
		FallbackThreshold: 0.40,
		Loader:            DefaultLoaderConfig(),
	}
}

// Outcome is the result of one verification decision.
type Outcome struct {
	Score   float64 `json:"score"`
	IsMatch bool    `json:"is_match"`
	Message string  `json:"message"`
	Backend string  `json:"backend"`
}

// Engine owns backend selection and the match decision. The embedding
// backend is loaded at most once eagerly and retried once lazily on first
// use; after that the outcome is fixed for the process lifetime.
type Engine struct {
	cfg      Config
	logger   *zap.Logger
	fallback *FallbackBackend
	chain    []loadStrategy

	mu      sync.Mutex
	active  Backend
	retried bool
}

// NewEngine builds the engine and eagerly attempts to load the embedding
// model. Pass a seeded rng to pin the fallback perturbation in tests.
func NewEngine(cfg Config, logger *zap.Logger, rng *rand.Rand) *Engine {
	if cfg.MinSeconds <= 0 {
		cfg.MinSeconds = 2.0
	}
	if cfg.PrimaryThreshold <= 0 {
		cfg.PrimaryThreshold = 0.60
	}
	if cfg.FallbackThreshold <= 0 {
		cfg.FallbackThreshold = 0.40
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		fallback: NewFallbackBackend(rng),
		chain:    loaderChain(cfg.Loader),
	}
	e.attemptLoad()
	return e
}

// attemptLoad walks the loader chain and adopts the first backend that
// comes up. Safe to call concurrently; redundant loads are tolerated.
func (e *Engine) attemptLoad() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return
	}
	for _, st := range e.chain {
		b, err := st.load()
		if err != nil {
			if e.logger != nil {
				e.logger.Debug("speaker model loader failed",
					zap.String("strategy", st.name),
					zap.Error(err),
				)
			}
			continue
		}
		e.active = b
		if e.logger != nil {
			e.logger.Info("✅ Speaker embedding backend loaded",
				zap.String("strategy", st.name),
				zap.String("backend", b.Name()),
			)
		}
		return
	}
	if e.logger != nil {
		e.logger.Warn("⚠️ All speaker model loaders failed, using fingerprint fallback",
			zap.Error(ErrModelUnavailable),
		)
	}
}

// backend returns the active backend, retrying the load chain exactly once
// if nothing is loaded yet.
func (e *Engine) backend() Backend {
	e.mu.Lock()
	if e.active == nil && !e.retried {
		e.retried = true
		e.mu.Unlock()
		e.attemptLoad()
		e.mu.Lock()
	}
	b := Backend(e.fallback)
	if e.active != nil {
		b = e.active
	}
	e.mu.Unlock()
	return b
}

// Degraded reports whether verification is running on the fingerprint
// fallback instead of a real embedding model.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active == nil
}

// DefaultThreshold returns the configured decision cutoff for a backend.
func (e *Engine) DefaultThreshold(backendName string) float64 {
	if backendName == BackendFingerprint {
		return e.cfg.FallbackThreshold
	}
	return e.cfg.PrimaryThreshold
}

// Verify scores the probe waveform against the reference and applies the
// threshold. A non-positive threshold selects the active backend's default.
// Invalid input is rejected locally without invoking any backend; backend
// errors fail closed with score 0.
func (e *Engine) Verify(ref, probe *audio.Waveform, threshold float64) Outcome {
	if !e.validWaveform(ref) || !e.validWaveform(probe) {
		return Outcome{Score: 0, IsMatch: false, Message: "invalid audio"}
	}

	b := e.backend()
	score, err := b.Compare(ref, probe)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("voice comparison failed",
				zap.String("backend", b.Name()),
				zap.Error(err),
			)
		}
		return Outcome{Score: 0, IsMatch: false, Message: "comparison failed", Backend: b.Name()}
	}

	if threshold <= 0 {
		threshold = e.DefaultThreshold(b.Name())
	}
	out := Outcome{Score: score, IsMatch: score > threshold, Backend: b.Name()}
	if out.IsMatch {
		out.Message = "match"
	} else {
		out.Message = "no match"
	}
	return out
}

func (e *Engine) validWaveform(w *audio.Waveform) bool {
	return w != nil && !w.IsEmpty() && w.Channels == 1 && w.Duration() >= e.cfg.MinSeconds
}

// Close releases the embedding backend if one was loaded.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if eb, ok := e.active.(*EmbeddingBackend); ok {
		eb.Close()
	}
	e.active = nil
}
