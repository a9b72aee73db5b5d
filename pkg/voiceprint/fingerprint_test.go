package voiceprint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

func tone(freq float64, seconds float64, rate int, amp float64) *audio.Waveform {
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(rate)
		samples[i] = amp * math.Sin(2*math.Pi*freq*t)
	}
	return &audio.Waveform{Samples: samples, SampleRate: rate, Channels: 1}
}

func noise(seconds float64, rate int, amp float64, seed int64) *audio.Waveform {
	rng := rand.New(rand.NewSource(seed))
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * (rng.Float64()*2 - 1)
	}
	return &audio.Waveform{Samples: samples, SampleRate: rate, Channels: 1}
}

func TestExtractDeterministic(t *testing.T) {
	w := tone(440, 3.0, 16000, 0.5)
	a := Extract(w)
	b := Extract(w)
	if a == nil || b == nil {
		t.Fatal("extraction failed on a clean tone")
	}
	if *a != *b {
		t.Fatalf("extraction not deterministic:\n%+v\n%+v", *a, *b)
	}
}

func TestExtractEmptyReturnsNil(t *testing.T) {
	if fp := Extract(&audio.Waveform{SampleRate: 16000, Channels: 1}); fp != nil {
		t.Fatalf("expected nil for empty waveform, got %+v", fp)
	}
	if fp := Extract(nil); fp != nil {
		t.Fatalf("expected nil for nil waveform, got %+v", fp)
	}
}

func TestExtractToneFeatures(t *testing.T) {
	fp := Extract(tone(440, 3.0, 16000, 0.5))
	if fp == nil {
		t.Fatal("extraction failed")
	}

	// A 440 Hz sine crosses zero twice per cycle.
	wantZCR := 2 * 440.0 / 16000.0
	if math.Abs(fp.ZeroCrossingRate-wantZCR) > 0.005 {
		t.Errorf("zcr: expected ~%v, got %v", wantZCR, fp.ZeroCrossingRate)
	}

	// Mean squared energy of a sine is amp^2/2.
	if math.Abs(fp.Energy-0.125) > 0.005 {
		t.Errorf("energy: expected ~0.125, got %v", fp.Energy)
	}

	// The autocorrelation peak sits near a multiple of the 440 Hz period.
	// 16000/440 ≈ 36.36 samples is off the sample grid, so the raw argmax
	// lands on whichever harmonic lag carries the smallest phase error, not
	// necessarily the fundamental.
	period := 16000.0 / 440.0
	cycles := math.Round(float64(fp.PitchLag) / period)
	if cycles < 1 || math.Abs(float64(fp.PitchLag)-cycles*period) > 2 {
		t.Errorf("pitch lag: expected a near-multiple of %.2f samples, got %d", period, fp.PitchLag)
	}
	if fp.PitchStrength < 0.8 {
		t.Errorf("pitch strength: expected strong periodicity, got %v", fp.PitchStrength)
	}

	if fp.Duration != 3.0 {
		t.Errorf("duration: expected 3.0, got %v", fp.Duration)
	}
	if fp.SampleCount != 48000 {
		t.Errorf("sample count: expected 48000, got %d", fp.SampleCount)
	}
}

func TestExtractRoundsToFixedPrecision(t *testing.T) {
	fp := Extract(noise(2.5, 16000, 0.4, 7))
	if fp == nil {
		t.Fatal("extraction failed")
	}
	checks := []struct {
		name   string
		value  float64
		places int
	}{
		{"mean", fp.Mean, 6},
		{"std", fp.Std, 6},
		{"duration", fp.Duration, 2},
		{"energy", fp.Energy, 8},
		{"zero_crossing_rate", fp.ZeroCrossingRate, 6},
		{"energy_variance", fp.EnergyVariance, 8},
		{"energy_skewness", fp.EnergySkewness, 4},
		{"pitch_strength", fp.PitchStrength, 6},
	}
	for _, c := range checks {
		scaled := c.value * math.Pow10(c.places)
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Errorf("%s not rounded to %d places: %v", c.name, c.places, c.value)
		}
	}
}

func TestExtractSeparatesToneFromNoise(t *testing.T) {
	toneFP := Extract(tone(440, 3.0, 16000, 0.5))
	noiseFP := Extract(noise(3.0, 16000, 1.0, 99))
	if toneFP == nil || noiseFP == nil {
		t.Fatal("extraction failed")
	}
	if noiseFP.ZeroCrossingRate < toneFP.ZeroCrossingRate*3 {
		t.Errorf("white noise should cross zero far more often: tone %v, noise %v",
			toneFP.ZeroCrossingRate, noiseFP.ZeroCrossingRate)
	}
	if noiseFP.PitchStrength > toneFP.PitchStrength {
		t.Errorf("a pure tone should show stronger periodicity: tone %v, noise %v",
			toneFP.PitchStrength, noiseFP.PitchStrength)
	}
}
