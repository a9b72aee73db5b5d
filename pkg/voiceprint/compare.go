package voiceprint

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultNoise is the half-width of the symmetric perturbation added to
// fallback similarity scores to emulate measurement noise.
const DefaultNoise = 0.05

// featureWeights drives the weighted similarity. Each raw feature
// difference becomes a similarity via max(0, 1-|diff|*scale); the weights
// sum to 1.
var featureWeights = []struct {
	weight float64
	scale  float64
	value  func(*Fingerprint) float64
}{
	{0.15, 100, func(fp *Fingerprint) float64 { return fp.Mean }},
	{0.15, 50, func(fp *Fingerprint) float64 { return fp.Std }},
	{0.20, 10000, func(fp *Fingerprint) float64 { return fp.Energy }},
	{0.20, 1000, func(fp *Fingerprint) float64 { return fp.ZeroCrossingRate }},
	{0.15, 1000, func(fp *Fingerprint) float64 { return fp.EnergyVariance }},
	{0.10, 10, func(fp *Fingerprint) float64 { return fp.EnergySkewness }},
	{0.05, 100, func(fp *Fingerprint) float64 { return fp.PitchStrength }},
}

// Comparator scores two fingerprints in [0, 1]. Noise can be set to 0 for
// deterministic scores; the random source is injectable so tests can pin
// it.
type Comparator struct {
	Noise float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewComparator builds a comparator with the default noise amplitude. A nil
// rng falls back to a time-seeded source.
func NewComparator(rng *rand.Rand) *Comparator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Comparator{Noise: DefaultNoise, rng: rng}
}

// Similarity returns the weighted per-feature similarity of two
// fingerprints, perturbed by at most ±Noise and clamped to [0, 1]. A nil
// fingerprint on either side scores 0: extraction failure must read as
// "different speaker", never as a pass.
func (c *Comparator) Similarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}

	sim := 0.0
	for _, fw := range featureWeights {
		diff := fw.value(a) - fw.value(b)
		if diff < 0 {
			diff = -diff
		}
		featureSim := 1 - diff*fw.scale
		if featureSim < 0 {
			featureSim = 0
		}
		sim += fw.weight * featureSim
	}

	if c.Noise > 0 {
		c.mu.Lock()
		sim += (c.rng.Float64()*2 - 1) * c.Noise
		c.mu.Unlock()
	}

	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
