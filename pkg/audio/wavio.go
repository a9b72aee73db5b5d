package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAVFile persists a mono waveform as 16-bit PCM WAV. Used for the
// canonical profile references and archived verification clips.
func WriteWAVFile(w *Waveform, path string) error {
	if w == nil || len(w.Samples) == 0 {
		return fmt.Errorf("cannot write empty waveform")
	}
	if w.Channels != 1 {
		return fmt.Errorf("cannot write %d-channel waveform, downmix first", w.Channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, w.SampleRate, 16, 1, 1)
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		data[i] = int(s * 32767)
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return nil
}

// ReadWAVFile loads a WAV file from disk without canonicalizing it.
func ReadWAVFile(path string) (*Waveform, error) {
	return decodeWAVFile(path)
}
