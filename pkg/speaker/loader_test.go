package speaker

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderChainAdoptsFirstSuccess(t *testing.T) {
	var calls []string
	winner := &stubBackend{name: BackendEmbedding, score: 0.9}

	e := &Engine{
		cfg:      DefaultConfig(),
		fallback: NewFallbackBackend(rand.New(rand.NewSource(1))),
		chain: []loadStrategy{
			{name: "first", load: func() (Backend, error) {
				calls = append(calls, "first")
				return nil, fmt.Errorf("cache dir not writable")
			}},
			{name: "second", load: func() (Backend, error) {
				calls = append(calls, "second")
				return winner, nil
			}},
			{name: "third", load: func() (Backend, error) {
				calls = append(calls, "third")
				return &stubBackend{name: BackendEmbedding}, nil
			}},
		},
	}
	e.attemptLoad()

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected exactly [first second], got %v", calls)
	}
	if e.backend() != Backend(winner) {
		t.Fatal("engine should adopt the first successful backend")
	}
	// A second attempt must not reload once a backend is active.
	e.attemptLoad()
	if len(calls) != 2 {
		t.Fatalf("loaders ran again after success: %v", calls)
	}
}

func TestLoaderChainRetriesOnceLazily(t *testing.T) {
	attempts := 0
	e := &Engine{
		cfg:      DefaultConfig(),
		fallback: NewFallbackBackend(rand.New(rand.NewSource(1))),
		chain: []loadStrategy{
			{name: "only", load: func() (Backend, error) {
				attempts++
				return nil, fmt.Errorf("model missing")
			}},
		},
	}
	e.fallback.Comparator().Noise = 0

	ref := testTone(440, 5.0, 0.5)
	e.Verify(ref, ref, 0)
	e.Verify(ref, ref, 0)
	e.Verify(ref, ref, 0)

	if attempts != 1 {
		t.Fatalf("expected exactly one lazy load attempt, got %d", attempts)
	}
}

func TestMaterializeModelCopiesAndCaches(t *testing.T) {
	src := filepath.Join(t.TempDir(), "voice_model.onnx")
	if err := os.WriteFile(src, []byte("onnx bytes"), 0o644); err != nil {
		t.Fatalf("failed to write source model: %v", err)
	}
	cache := filepath.Join(t.TempDir(), "cache")
	cfg := LoaderConfig{ModelPath: src, CacheDir: cache}

	dest, err := materializeModel(cfg, cache)
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if filepath.Base(dest) != "voice_model.onnx" {
		t.Fatalf("unexpected dest name %s", dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "onnx bytes" {
		t.Fatalf("copy mismatch: %v %q", err, data)
	}

	// Second call should reuse the cached copy even if the source is gone.
	os.Remove(src)
	again, err := materializeModel(cfg, cache)
	if err != nil {
		t.Fatalf("cached materialize failed: %v", err)
	}
	if again != dest {
		t.Fatalf("expected cached path %s, got %s", dest, again)
	}
}

func TestMaterializeModelWithoutSourceFails(t *testing.T) {
	if _, err := materializeModel(LoaderConfig{}, t.TempDir()); err == nil {
		t.Fatal("expected error when no model source is configured")
	}
}

func TestFindPretrainedModel(t *testing.T) {
	dir := t.TempDir()
	if _, err := findPretrainedModel(dir); err == nil {
		t.Fatal("expected error for empty pretrained dir")
	}
	model := filepath.Join(dir, "ecapa.onnx")
	if err := os.WriteFile(model, []byte("m"), 0o644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}
	got, err := findPretrainedModel(dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got != model {
		t.Fatalf("expected %s, got %s", model, got)
	}
}

func TestModelFileName(t *testing.T) {
	cases := []struct {
		cfg  LoaderConfig
		want string
	}{
		{LoaderConfig{ModelPath: "/opt/models/ecapa.onnx"}, "ecapa.onnx"},
		{LoaderConfig{ModelURL: "https://host/models/voxceleb.onnx?token=abc"}, "voxceleb.onnx"},
		{LoaderConfig{}, ""},
	}
	for _, tc := range cases {
		if got := modelFileName(tc.cfg); got != tc.want {
			t.Errorf("modelFileName(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
