// Package voiceprint computes heuristic acoustic fingerprints used when no
// trained speaker-embedding model is available. The features are cheap
// amplitude, texture and pitch statistics; they separate grossly different
// voices but are nowhere near true speaker verification.
package voiceprint

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

// Fingerprint is a deterministic scalar descriptor of a normalized
// waveform. Values are rounded to fixed precision so repeated extraction
// over identical input is bit-identical.
type Fingerprint struct {
	Mean             float64 `json:"mean"`
	Std              float64 `json:"std"`
	Duration         float64 `json:"duration"`
	Energy           float64 `json:"energy"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	EnergyVariance   float64 `json:"energy_variance"`
	EnergySkewness   float64 `json:"energy_skewness"`
	PitchStrength    float64 `json:"pitch_strength"`
	PitchLag         int     `json:"pitch_lag"`
	SampleCount      int     `json:"sample_count"`
}

const (
	windowSeconds = 0.1 // short-time energy window
	pitchLowHz    = 50  // lower bound of the voiced-pitch search band
	pitchHighHz   = 1000
)

// Extract computes the fingerprint of a waveform. Returns nil for empty or
// degenerate input rather than a partially filled record.
func Extract(w *audio.Waveform) *Fingerprint {
	if w.IsEmpty() || w.SampleRate <= 0 {
		return nil
	}
	s := w.Samples
	n := len(s)

	mean := stat.Mean(s, nil)
	variance := stat.MomentAbout(2, s, mean, nil)
	std := math.Sqrt(variance)
	energy := floats.Dot(s, s) / float64(n)

	crossings := 0
	for i := 1; i < n; i++ {
		if (s[i-1] >= 0) != (s[i] >= 0) {
			crossings++
		}
	}
	zcr := float64(crossings) / float64(n)

	evar, eskew := windowEnergyMoments(s, w.SampleRate)
	pitchStrength, pitchLag := pitchProfile(s, w.SampleRate)

	fp := &Fingerprint{
		Mean:             roundTo(mean, 6),
		Std:              roundTo(std, 6),
		Duration:         roundTo(w.Duration(), 2),
		Energy:           roundTo(energy, 8),
		ZeroCrossingRate: roundTo(zcr, 6),
		EnergyVariance:   roundTo(evar, 8),
		EnergySkewness:   roundTo(eskew, 4),
		PitchStrength:    roundTo(pitchStrength, 6),
		PitchLag:         pitchLag,
		SampleCount:      n,
	}
	if !fp.finite() {
		return nil
	}
	return fp
}

// windowEnergyMoments slices the signal into ~100 ms windows with 50%
// overlap and returns the variance and skewness of per-window energy.
// These track prosody and voice texture differences between speakers.
func windowEnergyMoments(s []float64, rate int) (variance, skewness float64) {
	window := int(windowSeconds * float64(rate))
	if window < 1 {
		window = 1
	}
	hop := window / 2
	if hop < 1 {
		hop = 1
	}

	var energies []float64
	for start := 0; start+window <= len(s); start += hop {
		seg := s[start : start+window]
		energies = append(energies, floats.Dot(seg, seg)/float64(window))
	}
	if len(energies) < 2 {
		return 0, 0
	}

	mean := stat.Mean(energies, nil)
	variance = stat.MomentAbout(2, energies, mean, nil)
	std := math.Sqrt(variance)
	if std == 0 {
		return variance, 0
	}
	skewness = stat.MomentAbout(3, energies, mean, nil) / (std * std * std)
	return variance, skewness
}

// pitchProfile runs a band-limited autocorrelation over lags corresponding
// to 50-1000 Hz and returns the peak normalized correlation and its lag.
func pitchProfile(s []float64, rate int) (strength float64, lag int) {
	minLag := rate / pitchHighHz
	maxLag := rate / pitchLowHz
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(s) {
		maxLag = len(s) - 1
	}
	if maxLag < minLag {
		return 0, 0
	}

	zeroLag := floats.Dot(s, s)
	if zeroLag == 0 {
		return 0, 0
	}

	best := 0.0
	bestLag := 0
	for l := minLag; l <= maxLag; l++ {
		acc := floats.Dot(s[:len(s)-l], s[l:])
		if acc > best {
			best = acc
			bestLag = l
		}
	}
	return best / zeroLag, bestLag
}

func (fp *Fingerprint) finite() bool {
	for _, v := range []float64{
		fp.Mean, fp.Std, fp.Duration, fp.Energy, fp.ZeroCrossingRate,
		fp.EnergyVariance, fp.EnergySkewness, fp.PitchStrength,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
