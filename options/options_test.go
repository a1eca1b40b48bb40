package options

import (
	"context"
	"errors"
	"testing"

	"github.com/vecsnap/vecsnap/types"
)

type fakeTokenizer struct{}

func (fakeTokenizer) Tokenize(texts []string) (types.TokenBatch, error) {
	return types.TokenBatch{}, nil
}
func (fakeTokenizer) ContextLength() int { return 4 }

type fakeTokenEncoder struct{}

func (fakeTokenEncoder) EncodeTokens(ctx context.Context, batch types.TokenBatch) ([][]float32, error) {
	return nil, nil
}
func (fakeTokenEncoder) Close() {}

type fakeImageEncoder struct{}

func (fakeImageEncoder) EncodeImages(ctx context.Context, pixels [][]float32) ([][]float32, error) {
	return nil, nil
}
func (fakeImageEncoder) Close() {}

func TestValidateRequiresEncoder(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("empty config validated")
	}
}

func TestValidateRequiresTokenizerWithTokenEncoder(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Apply(WithTokenEncoder(fakeTokenEncoder{})); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("token encoder without tokenizer validated")
	}

	if err := cfg.Apply(WithTokenizer(fakeTokenizer{})); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestImageOnlyConfig(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Apply(WithImageEncoder(fakeImageEncoder{})); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestOptionRejectsNil(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Apply(WithTokenizer(nil)); err == nil {
		t.Error("nil tokenizer accepted")
	}
	if err := cfg.Apply(WithTokenEncoder(nil)); err == nil {
		t.Error("nil token encoder accepted")
	}
	if err := cfg.Apply(WithImageEncoder(nil)); err == nil {
		t.Error("nil image encoder accepted")
	}
	if err := cfg.Apply(WithTextEncoder(nil)); err == nil {
		t.Error("nil text encoder accepted")
	}
	if err := cfg.Apply(WithCustomLinearEncoder(nil)); err == nil {
		t.Error("nil linear encoder accepted")
	}
	if err := cfg.Apply(WithTokenCounter(nil, 10)); err == nil {
		t.Error("nil counter accepted")
	}
	if err := cfg.Apply(WithCache(0)); err == nil {
		t.Error("zero cache size accepted")
	}
}

func TestApplyStopsOnError(t *testing.T) {
	cfg := NewConfig()
	sentinel := errors.New("boom")
	failing := func(*Config) error { return sentinel }

	err := cfg.Apply(failing, WithImageEncoder(fakeImageEncoder{}))
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want sentinel", err)
	}
	if cfg.ImageEncoder != nil {
		t.Error("options after the failing one were applied")
	}
}

func TestWithLinearEncoderMissingFile(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Apply(WithLinearEncoder("/does/not/exist.ckpt")); err == nil {
		t.Error("missing weight file accepted")
	}
}
