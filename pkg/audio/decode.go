package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
)

// ErrNoAudio is returned by individual decode attempts that produced no
// usable samples. The normalizer itself never surfaces it; exhausting every
// attempt substitutes the placeholder tone instead.
var ErrNoAudio = errors.New("no decodable audio data")

// Config controls how uploads are normalized into canonical waveforms.
type Config struct {
	FFmpegBin          string  // ffmpeg binary, resolved via PATH when bare
	TargetRate         int     // canonical sample rate in Hz
	MinSeconds         float64 // every normalized waveform is padded to at least this
	PlaceholderSeconds float64 // duration of the synthesized fallback tone
	TempDir            string  // scratch dir for per-attempt temp files
}

// DefaultConfig returns the settings used by the attendance pipeline:
// 16 kHz mono with a 2 second floor.
func DefaultConfig() Config {
	return Config{
		FFmpegBin:          "ffmpeg",
		TargetRate:         16000,
		MinSeconds:         2.0,
		PlaceholderSeconds: 10.0,
		TempDir:            os.TempDir(),
	}
}

// Diagnostics reports how an upload was decoded. Callers must check
// Placeholder: a placeholder waveform is safe to pass downstream but
// meaningless to score against.
type Diagnostics struct {
	Strategy        string // name of the decode attempt that succeeded
	Container       string // container guessed from magic bytes
	ContentTypeHint string // what the client claimed, never trusted
	Placeholder     bool   // true when the synthesized tone was substituted
	Attempts        int    // decode attempts made before success or fallback
	SourceRate      int    // sample rate before resampling
	SourceChannels  int    // channel count before downmix
}

// Decoder normalizes arbitrary uploaded audio bytes into mono waveforms at
// a fixed target rate, trying a fixed list of container interpretations in
// order and synthesizing a flagged placeholder tone when all of them fail.
type Decoder struct {
	cfg Config
}

func NewDecoder(cfg Config) *Decoder {
	if cfg.FFmpegBin == "" {
		cfg.FFmpegBin = "ffmpeg"
	}
	if cfg.TargetRate <= 0 {
		cfg.TargetRate = 16000
	}
	if cfg.MinSeconds <= 0 {
		cfg.MinSeconds = 2.0
	}
	if cfg.PlaceholderSeconds <= 0 {
		cfg.PlaceholderSeconds = 10.0
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Decoder{cfg: cfg}
}

type decodeStrategy struct {
	name   string
	suffix string
	decode func(path string) (*Waveform, error)
}

// strategies lists the decode attempts in the order they are tried. Browser
// recordings arrive as webm/opus most of the time, so ffmpeg goes first;
// the native wav and ogg decoders keep the pipeline alive on hosts without
// ffmpeg installed.
func (d *Decoder) strategies() []decodeStrategy {
	return []decodeStrategy{
		{name: "webm-ffmpeg", suffix: ".webm", decode: d.decodeWithFFmpeg},
		{name: "wav-native", suffix: ".wav", decode: decodeWAVFile},
		{name: "ogg-native", suffix: ".ogg", decode: decodeOggFile},
		{name: "ogg-ffmpeg", suffix: ".ogg", decode: d.decodeWithFFmpeg},
		{name: "mp3-ffmpeg", suffix: ".mp3", decode: d.decodeWithFFmpeg},
		{name: "m4a-ffmpeg", suffix: ".m4a", decode: d.decodeWithFFmpeg},
	}
}

// Normalize decodes raw upload bytes into a canonical waveform: mono,
// target rate, padded to the minimum duration. The content-type hint is
// recorded in the diagnostics but never trusted for decoding. When every
// attempt fails the returned waveform is a synthesized tone and
// Diagnostics.Placeholder is set; an error is returned only if the
// canonicalization steps themselves fail.
func (d *Decoder) Normalize(raw []byte, hint string) (*Waveform, *Diagnostics, error) {
	diag := &Diagnostics{
		ContentTypeHint: hint,
		Container:       sniffContainer(raw),
	}

	var wave *Waveform
	if len(raw) > 0 {
		for _, st := range d.strategies() {
			diag.Attempts++
			w, err := d.tryStrategy(st, raw)
			if err != nil {
				continue
			}
			wave = w
			diag.Strategy = st.name
			diag.SourceRate = w.SampleRate
			diag.SourceChannels = w.Channels
			break
		}
	}

	if wave == nil {
		wave = d.placeholderTone()
		diag.Strategy = "placeholder"
		diag.Placeholder = true
		diag.SourceRate = wave.SampleRate
		diag.SourceChannels = wave.Channels
	}

	wave = wave.DownmixMono()
	wave, err := wave.Resample(d.cfg.TargetRate)
	if err != nil {
		return nil, diag, fmt.Errorf("failed to resample decoded audio: %w", err)
	}
	wave = wave.PadToDuration(d.cfg.MinSeconds)
	return wave, diag, nil
}

// tryStrategy writes the bytes under the strategy's suffix and runs its
// decoder. The temp file is removed before returning, success or not.
func (d *Decoder) tryStrategy(st decodeStrategy, raw []byte) (*Waveform, error) {
	f, err := os.CreateTemp(d.cfg.TempDir, "voice_upload_*"+st.suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(raw); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return st.decode(path)
}

// decodeWithFFmpeg shells out to ffmpeg and reads raw little-endian float64
// samples from stdout, already downmixed and resampled to the target rate.
func (d *Decoder) decodeWithFFmpeg(path string) (*Waveform, error) {
	cmd := exec.Command(d.cfg.FFmpegBin,
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.cfg.TargetRate),
		"pipe:1",
	)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}
	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}
	return &Waveform{Samples: samples, SampleRate: d.cfg.TargetRate, Channels: 1}, nil
}

// decodeWAVFile decodes PCM WAV without external tools.
func decodeWAVFile(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}
	format := decoder.Format()

	buf, err := decoder.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read pcm buffer: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrNoAudio
	}

	bits := buf.SourceBitDepth
	if bits <= 0 {
		bits = 16
	}
	scale := 1.0 / float64(int64(1)<<(bits-1))

	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) * scale
	}
	return &Waveform{
		Samples:    samples,
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
	}, nil
}

// decodeOggFile decodes Ogg Vorbis without external tools.
func decodeOggFile(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ogg file: %w", err)
	}
	defer f.Close()

	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create ogg decoder: %w", err)
	}

	var samples []float64
	chunk := make([]float32, 16384)
	for {
		n, err := reader.Read(chunk)
		for i := 0; i < n; i++ {
			samples = append(samples, float64(chunk[i]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ogg data: %w", err)
		}
	}
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}
	return &Waveform{
		Samples:    samples,
		SampleRate: reader.SampleRate(),
		Channels:   reader.Channels(),
	}, nil
}

// placeholderTone synthesizes the deterministic two-harmonic tone that
// stands in for undecodable uploads. Scoring against it is meaningless, so
// callers must honor the Placeholder diagnostic.
func (d *Decoder) placeholderTone() *Waveform {
	n := int(d.cfg.PlaceholderSeconds * float64(d.cfg.TargetRate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(d.cfg.TargetRate)
		samples[i] = 0.1 * (math.Sin(2*math.Pi*440*t) + 0.5*math.Sin(2*math.Pi*880*t))
	}
	return &Waveform{Samples: samples, SampleRate: d.cfg.TargetRate, Channels: 1}
}

// sniffContainer guesses the container from magic bytes. Diagnostic only;
// the decode order never depends on it.
func sniffContainer(data []byte) string {
	if len(data) < 12 {
		return "unknown"
	}
	switch {
	case bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "wav"
	case bytes.Equal(data[0:4], []byte("OggS")):
		return "ogg"
	case bytes.Equal(data[0:4], []byte("fLaC")):
		return "flac"
	case bytes.Equal(data[0:4], []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "webm"
	case bytes.Equal(data[4:8], []byte("ftyp")):
		return "m4a"
	case data[0] == 'I' && data[1] == 'D' && data[2] == '3':
		return "mp3"
	case data[0] == 0xFF && (data[1]&0xE0) == 0xE0:
		return "mp3"
	default:
		return "unknown"
	}
}

// bytesToFloat64 reinterprets ffmpeg's f64le stream as samples.
func bytesToFloat64(data []byte) []float64 {
	n := len(data) / 8
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
