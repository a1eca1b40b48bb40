package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Encoder.Type != "linear" {
		t.Errorf("encoder type %q, want linear", cfg.Encoder.Type)
	}
	if cfg.Store.Type != "file" {
		t.Errorf("store type %q, want file", cfg.Store.Type)
	}
	if cfg.Verify.Text == "" {
		t.Error("default verify text is empty")
	}
	if cfg.Verify.Tolerance != 1e-4 {
		t.Errorf("tolerance %g, want 1e-4", cfg.Verify.Tolerance)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vecsnap.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
weights: /models/clip.ckpt
context_length: 77
cache_size: 64
encoder:
  type: openai
  model: text-embedding-3-small
  api_key_env: OPENAI_API_KEY
store:
  type: redis
  redis:
    url: redis://localhost:6379/0
verify:
  text: a photo of a cat
  tolerance: 1e-5
  checkpoint: nightly
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Weights != "/models/clip.ckpt" {
		t.Errorf("weights = %q", cfg.Weights)
	}
	if cfg.ContextLength != 77 || cfg.CacheSize != 64 {
		t.Errorf("context %d cache %d", cfg.ContextLength, cfg.CacheSize)
	}
	if cfg.Encoder.Type != "openai" || cfg.Encoder.Model != "text-embedding-3-small" {
		t.Errorf("encoder = %+v", cfg.Encoder)
	}
	if cfg.Store.Type != "redis" || cfg.Store.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Verify.Checkpoint != "nightly" || cfg.Verify.Tolerance != 1e-5 {
		t.Errorf("verify = %+v", cfg.Verify)
	}
}

func TestLoadRejectsUnknownTypes(t *testing.T) {
	for _, body := range []string{
		"encoder:\n  type: quantum\n",
		"store:\n  type: floppy\n",
		"verify:\n  tolerance: -1\n",
	} {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("config %q accepted", body)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing named config accepted")
	}
}

func TestAPIKey(t *testing.T) {
	cfg := Default()
	if key := cfg.APIKey(); key != "" {
		t.Errorf("key without env var = %q", key)
	}
	cfg.Encoder.APIKeyEnv = "VECSNAP_TEST_KEY"
	t.Setenv("VECSNAP_TEST_KEY", "secret")
	if key := cfg.APIKey(); key != "secret" {
		t.Errorf("key = %q, want secret", key)
	}
}
