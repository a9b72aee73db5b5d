package audio

import (
	"fmt"
	"math"
)

// Waveform is a decoded audio signal. Samples are float64 in [-1, 1].
// When Channels > 1 the samples are interleaved frame by frame.
type Waveform struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// Duration returns the length of the waveform in seconds.
func (w *Waveform) Duration() float64 {
	if w == nil || w.SampleRate <= 0 || w.Channels <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate*w.Channels)
}

// IsEmpty reports whether the waveform carries no samples.
func (w *Waveform) IsEmpty() bool {
	return w == nil || len(w.Samples) == 0
}

// DownmixMono averages interleaved channels into a single channel.
// A waveform that is already mono is returned unchanged.
func (w *Waveform) DownmixMono() *Waveform {
	if w == nil || w.Channels <= 1 {
		return w
	}
	frames := len(w.Samples) / w.Channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < w.Channels; ch++ {
			sum += w.Samples[i*w.Channels+ch]
		}
		mono[i] = sum / float64(w.Channels)
	}
	return &Waveform{Samples: mono, SampleRate: w.SampleRate, Channels: 1}
}

// Resample converts a mono waveform to the target rate using linear
// interpolation. Good enough for speech; callers needing studio quality
// should decode through ffmpeg instead.
func (w *Waveform) Resample(targetRate int) (*Waveform, error) {
	if w == nil || targetRate <= 0 {
		return nil, fmt.Errorf("invalid resample target rate %d", targetRate)
	}
	if w.Channels > 1 {
		return nil, fmt.Errorf("resample requires mono input, got %d channels", w.Channels)
	}
	if w.SampleRate == targetRate || len(w.Samples) == 0 {
		return &Waveform{Samples: w.Samples, SampleRate: targetRate, Channels: 1}, nil
	}

	ratio := float64(w.SampleRate) / float64(targetRate)
	outLen := int(float64(len(w.Samples)) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(w.Samples)-1 {
			out[i] = w.Samples[len(w.Samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = w.Samples[idx]*(1-frac) + w.Samples[idx+1]*frac
	}
	return &Waveform{Samples: out, SampleRate: targetRate, Channels: 1}, nil
}

// PadToDuration right-pads a mono waveform with zeros until it spans at
// least minSeconds. Longer input is returned unchanged.
func (w *Waveform) PadToDuration(minSeconds float64) *Waveform {
	if w == nil || w.SampleRate <= 0 {
		return w
	}
	want := int(math.Ceil(minSeconds * float64(w.SampleRate)))
	if len(w.Samples) >= want {
		return w
	}
	padded := make([]float64, want)
	copy(padded, w.Samples)
	return &Waveform{Samples: padded, SampleRate: w.SampleRate, Channels: 1}
}

// Float32Samples returns the samples converted to float32, the layout
// expected by the embedding runtime.
func (w *Waveform) Float32Samples() []float32 {
	out := make([]float32, len(w.Samples))
	for i, s := range w.Samples {
		out[i] = float32(s)
	}
	return out
}
