// Package vecsnap wraps pluggable text and image encoders behind a single
// dispatch API that returns L2-unit-normalized embedding vectors, with
// parameter snapshot and restore hooks for the checkpoint machinery.
package vecsnap

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/options"
	"github.com/vecsnap/vecsnap/types"
)

var (
	// ErrEmptyInput is returned when Embed is called with no input content.
	ErrEmptyInput = errors.New("input must carry at least one text or image")

	// ErrZeroNorm is returned when a raw embedding row has zero L2 norm and
	// cannot be unit-normalized.
	ErrZeroNorm = errors.New("embedding has zero norm")

	// ErrNoTextEncoder is returned for text inputs when no text branch is
	// configured.
	ErrNoTextEncoder = errors.New("no text encoder configured")

	// ErrNoImageEncoder is returned for image inputs when no image branch is
	// configured.
	ErrNoImageEncoder = errors.New("no image encoder configured")

	// ErrTokenBudget is returned when a text exceeds the configured token
	// budget for a remote encoder.
	ErrTokenBudget = errors.New("text exceeds token budget")
)

// Wrapper dispatches tagged inputs to the configured encoder branch and
// unit-normalizes the result. Construct it with New and close it when done.
type Wrapper struct {
	tokenizer types.Tokenizer
	tokens    types.TokenEncoder
	text      types.TextEncoder
	image     types.ImageEncoder

	counter types.TokenCounter
	budget  int

	cache *embedCache
}

// New creates a Wrapper from functional options.
func New(opts ...options.Option) (*Wrapper, error) {
	cfg := options.NewConfig()
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Wrapper{
		tokenizer: cfg.Tokenizer,
		tokens:    cfg.TokenEncoder,
		text:      cfg.TextEncoder,
		image:     cfg.ImageEncoder,
		counter:   cfg.TokenCounter,
		budget:    cfg.TokenBudget,
	}
	if cfg.CacheSize > 0 {
		cache, err := newEmbedCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		w.cache = cache
	}
	return w, nil
}

// Embed dispatches the input to the matching encoder branch and returns one
// unit-normalized embedding row per input item.
func (w *Wrapper) Embed(ctx context.Context, in Input) ([][]float32, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var key string
	if w.cache != nil {
		key = in.digest()
		if rows, ok := w.cache.get(key); ok {
			return rows, nil
		}
	}

	var raw [][]float32
	var err error
	switch in.Kind() {
	case KindText:
		raw, err = w.encodeText(ctx, in.Texts())
	case KindImage:
		if w.image == nil {
			return nil, ErrNoImageEncoder
		}
		raw, err = w.image.EncodeImages(ctx, in.Pixels())
	}
	if err != nil {
		return nil, err
	}

	out, err := normalizeRows(raw)
	if err != nil {
		return nil, err
	}
	if w.cache != nil {
		w.cache.add(key, out)
	}
	return out, nil
}

func (w *Wrapper) encodeText(ctx context.Context, texts []string) ([][]float32, error) {
	if w.tokens != nil {
		batch, err := w.tokenizer.Tokenize(texts)
		if err != nil {
			return nil, err
		}
		return w.tokens.EncodeTokens(ctx, batch)
	}
	if w.text == nil {
		return nil, ErrNoTextEncoder
	}

	if w.counter != nil {
		for i, text := range texts {
			n, err := w.counter.CountTokens(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("counting tokens for text %d: %w", i, err)
			}
			if n > w.budget {
				return nil, fmt.Errorf("text %d: %d tokens: %w (budget %d)",
					i, n, ErrTokenBudget, w.budget)
			}
		}
	}
	return w.text.EncodeTexts(ctx, texts)
}

// normalizeRows divides each row by its L2 norm. A zero-norm row is an
// ErrZeroNorm error rather than a silent non-finite result.
func normalizeRows(raw [][]float32) ([][]float32, error) {
	out := make([][]float32, len(raw))
	for i, row := range raw {
		var sum float64
		for _, v := range row {
			sum += float64(v) * float64(v)
		}
		norm := math.Sqrt(sum)
		if norm == 0 {
			return nil, fmt.Errorf("row %d: %w", i, ErrZeroNorm)
		}
		inv := float32(1 / norm)
		normalized := make([]float32, len(row))
		for j, v := range row {
			normalized[j] = v * inv
		}
		out[i] = normalized
	}
	return out, nil
}

// statefuls returns the distinct encoder components that expose parameters.
// The linear encoder serves both branches, so duplicates are dropped.
func (w *Wrapper) statefuls() []checkpoint.Stateful {
	seen := make(map[checkpoint.Stateful]bool)
	var out []checkpoint.Stateful
	for _, c := range []any{w.tokens, w.text, w.image} {
		s, ok := c.(checkpoint.Stateful)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// StateDict returns a deep copy of all checkpointable parameters held by the
// wrapper's encoders. Stateless remote encoders contribute nothing.
func (w *Wrapper) StateDict() checkpoint.State {
	state := make(checkpoint.State)
	for _, s := range w.statefuls() {
		for name, t := range s.StateDict() {
			state[name] = t
		}
	}
	return state
}

// LoadStateDict restores parameters into the wrapper's encoders and drops
// any memoized embeddings, since they were computed with the old parameters.
func (w *Wrapper) LoadStateDict(state checkpoint.State) error {
	claimed := make(map[string]bool, len(state))
	for _, s := range w.statefuls() {
		own := s.StateDict()
		sub := make(checkpoint.State)
		for name, t := range state {
			if _, ok := own[name]; ok {
				sub[name] = t
				claimed[name] = true
			}
		}
		if len(sub) == 0 {
			continue
		}
		if err := s.LoadStateDict(sub); err != nil {
			return err
		}
	}
	for name := range state {
		if !claimed[name] {
			return fmt.Errorf("unknown parameter %q", name)
		}
	}
	if w.cache != nil {
		w.cache.purge()
	}
	return nil
}

// Close closes every distinct encoder held by the wrapper.
func (w *Wrapper) Close() {
	type closer interface{ Close() }
	seen := make(map[closer]bool)
	for _, c := range []any{w.tokens, w.text, w.image} {
		cl, ok := c.(closer)
		if !ok || cl == nil || seen[cl] {
			continue
		}
		seen[cl] = true
		cl.Close()
	}
}
