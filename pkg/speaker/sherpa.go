package speaker

import (
	"fmt"
	"math"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/voiceattendance/voice-attendance/pkg/audio"
)

// EmbeddingBackend wraps a pretrained speaker-embedding ONNX model. Scores
// are the cosine similarity of the two embeddings.
type EmbeddingBackend struct {
	modelPath string
	extractor *sherpa.SpeakerEmbeddingExtractor

	// the native extractor streams are not safe for concurrent use
	mu sync.Mutex
}

// newEmbeddingBackend loads the model at modelPath. The native constructor
// reports failure by returning nil, not an error.
func newEmbeddingBackend(modelPath string, numThreads int) (*EmbeddingBackend, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("no model path configured")
	}
	if numThreads <= 0 {
		numThreads = 1
	}

	cfg := &sherpa.SpeakerEmbeddingExtractorConfig{
		Model:      modelPath,
		NumThreads: numThreads,
		Debug:      0,
		Provider:   "cpu",
	}
	extractor := sherpa.NewSpeakerEmbeddingExtractor(cfg)
	if extractor == nil {
		return nil, fmt.Errorf("failed to create embedding extractor from %s", modelPath)
	}
	return &EmbeddingBackend{modelPath: modelPath, extractor: extractor}, nil
}

func (b *EmbeddingBackend) Name() string { return BackendEmbedding }

// ModelPath returns where the active model was loaded from.
func (b *EmbeddingBackend) ModelPath() string { return b.modelPath }

// Compare embeds both waveforms and returns their cosine similarity.
func (b *EmbeddingBackend) Compare(ref, probe *audio.Waveform) (float64, error) {
	refEmb, err := b.embed(ref)
	if err != nil {
		return 0, fmt.Errorf("failed to embed reference: %w", err)
	}
	probeEmb, err := b.embed(probe)
	if err != nil {
		return 0, fmt.Errorf("failed to embed probe: %w", err)
	}
	return cosineSimilarity(refEmb, probeEmb), nil
}

func (b *EmbeddingBackend) embed(w *audio.Waveform) ([]float32, error) {
	if w.IsEmpty() {
		return nil, fmt.Errorf("empty waveform")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	stream := b.extractor.CreateStream()
	defer sherpa.DeleteOnlineStream(stream)

	stream.AcceptWaveform(w.SampleRate, w.Float32Samples())
	stream.InputFinished()

	if !b.extractor.IsReady(stream) {
		return nil, fmt.Errorf("insufficient audio for embedding extraction")
	}
	embedding := b.extractor.Compute(stream)
	if len(embedding) == 0 {
		return nil, fmt.Errorf("extractor produced an empty embedding")
	}
	return embedding, nil
}

// Close releases the native extractor.
func (b *EmbeddingBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.extractor != nil {
		sherpa.DeleteSpeakerEmbeddingExtractor(b.extractor)
		b.extractor = nil
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
