package speaker

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// LoaderConfig describes where the embedding model may come from. Any of
// the fields may be empty; strategies that need a missing field fail fast
// and the chain moves on.
type LoaderConfig struct {
	ModelPath     string // local model file to load or copy from
	ModelURL      string // remote model to download when no local file exists
	CacheDir      string // dedicated writable cache location
	PretrainedDir string // pre-populated local model directory
	NumThreads    int
	HTTPTimeout   time.Duration
}

// DefaultLoaderConfig points the cache at the user's home cache dir.
func DefaultLoaderConfig() LoaderConfig {
	cache := ".cache/voice-attendance/models"
	if home, err := os.UserHomeDir(); err == nil {
		cache = filepath.Join(home, ".cache", "voice-attendance", "models")
	}
	return LoaderConfig{
		CacheDir:      cache,
		PretrainedDir: filepath.Join("pretrained_models", "speaker_recognition"),
		NumThreads:    1,
		HTTPTimeout:   60 * time.Second,
	}
}

type loadStrategy struct {
	name string
	load func() (Backend, error)
}

// loaderChain builds the ordered list of loading strategies. The first one
// that returns a working backend wins for the process lifetime:
//  1. materialize the model into the dedicated cache dir and load it there
//  2. materialize into a fresh temp dir
//  3. load the configured model path exactly as given
//  4. load whatever model sits in the pre-populated local dir
func loaderChain(cfg LoaderConfig) []loadStrategy {
	return []loadStrategy{
		{name: "cache-dir", load: func() (Backend, error) {
			if cfg.CacheDir == "" {
				return nil, fmt.Errorf("no cache dir configured")
			}
			path, err := materializeModel(cfg, cfg.CacheDir)
			if err != nil {
				return nil, err
			}
			return newEmbeddingBackend(path, cfg.NumThreads)
		}},
		{name: "temp-dir", load: func() (Backend, error) {
			dir, err := os.MkdirTemp("", "voice_model_")
			if err != nil {
				return nil, fmt.Errorf("failed to create temp model dir: %w", err)
			}
			path, err := materializeModel(cfg, dir)
			if err != nil {
				os.RemoveAll(dir)
				return nil, err
			}
			return newEmbeddingBackend(path, cfg.NumThreads)
		}},
		{name: "default-path", load: func() (Backend, error) {
			if cfg.ModelPath == "" {
				return nil, fmt.Errorf("no model path configured")
			}
			return newEmbeddingBackend(cfg.ModelPath, cfg.NumThreads)
		}},
		{name: "pretrained-dir", load: func() (Backend, error) {
			path, err := findPretrainedModel(cfg.PretrainedDir)
			if err != nil {
				return nil, err
			}
			return newEmbeddingBackend(path, cfg.NumThreads)
		}},
	}
}

// materializeModel ensures a model file exists inside dir, copying the
// configured local file or downloading the configured URL as needed.
func materializeModel(cfg LoaderConfig, dir string) (string, error) {
	name := modelFileName(cfg)
	if name == "" {
		return "", fmt.Errorf("no model source configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model dir: %w", err)
	}

	dest := filepath.Join(dir, name)
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		return dest, nil
	}

	if cfg.ModelPath != "" {
		if err := copyFile(cfg.ModelPath, dest); err == nil {
			return dest, nil
		} else if cfg.ModelURL == "" {
			return "", err
		}
	}
	if cfg.ModelURL != "" {
		if err := downloadModel(cfg, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("model source %s not found", cfg.ModelPath)
}

func modelFileName(cfg LoaderConfig) string {
	if cfg.ModelPath != "" {
		return filepath.Base(cfg.ModelPath)
	}
	if cfg.ModelURL != "" {
		if base := filepath.Base(strings.SplitN(cfg.ModelURL, "?", 2)[0]); base != "." && base != "/" {
			return base
		}
		return "speaker_embedding.onnx"
	}
	return ""
}

func findPretrainedModel(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("no pretrained dir configured")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read pretrained dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".onnx") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no onnx model in %s", dir)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open model source: %w", err)
	}
	defer in.Close()

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create model copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to copy model: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to flush model copy: %w", err)
	}
	return os.Rename(tmp, dest)
}

// downloadModel fetches the model over HTTP with bounded retries.
func downloadModel(cfg LoaderConfig, dest string) error {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	fetch := func() error {
		resp, err := client.Get(cfg.ModelURL)
		if err != nil {
			return fmt.Errorf("failed to download model: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("model download returned status %d", resp.StatusCode)
		}

		tmp := dest + ".partial"
		out, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("failed to create model file: %w", err)
		}
		if _, err := io.Copy(out, resp.Body); err != nil {
			out.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write model file: %w", err)
		}
		if err := out.Close(); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("failed to flush model file: %w", err)
		}
		return os.Rename(tmp, dest)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 2 * timeout
	return backoff.Retry(fetch, bo)
}
