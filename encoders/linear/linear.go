// Package linear implements a deterministic linear encoder whose parameters
// are loaded from a pretrained weight file. The text branch mean-pools token
// embeddings and projects them; the image branch projects flattened pixel
// rows. It is the parameterized encoder the checkpoint machinery exercises.
package linear

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/types"
)

// Parameter names in the weight file and in checkpoints.
const (
	ParamTokenEmbedding   = "text.token_embedding" // [vocab, hidden]
	ParamTextProjection   = "text.projection"      // [hidden, embed]
	ParamVisualProjection = "visual.projection"    // [pixels, embed]
)

var errMissingParam = errors.New("missing parameter")

// Encoder is a linear text/image encoder. All methods are safe for
// concurrent use; LoadStateDict excludes in-flight encodes.
type Encoder struct {
	mu    sync.RWMutex
	state checkpoint.State

	vocab    int
	hidden   int
	embedDim int
	pixelDim int
}

// New builds an encoder from a parameter state. The state must contain the
// three linear parameters with mutually consistent shapes.
func New(state checkpoint.State) (*Encoder, error) {
	tok, ok := state[ParamTokenEmbedding]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errMissingParam, ParamTokenEmbedding)
	}
	proj, ok := state[ParamTextProjection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errMissingParam, ParamTextProjection)
	}
	vis, ok := state[ParamVisualProjection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errMissingParam, ParamVisualProjection)
	}
	if len(tok.Shape) != 2 || len(proj.Shape) != 2 || len(vis.Shape) != 2 {
		return nil, errors.New("linear encoder parameters must be rank 2")
	}
	if tok.Shape[1] != proj.Shape[0] {
		return nil, fmt.Errorf("hidden size mismatch: token embedding %v vs text projection %v",
			tok.Shape, proj.Shape)
	}
	if proj.Shape[1] != vis.Shape[1] {
		return nil, fmt.Errorf("embed size mismatch: text projection %v vs visual projection %v",
			proj.Shape, vis.Shape)
	}

	return &Encoder{
		state:    state.Clone(),
		vocab:    tok.Shape[0],
		hidden:   tok.Shape[1],
		embedDim: proj.Shape[1],
		pixelDim: vis.Shape[0],
	}, nil
}

// NewFromFile loads pretrained weights from a named weight file.
func NewFromFile(path string) (*Encoder, error) {
	ckpt, err := checkpoint.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading pretrained weights from %s: %w", path, err)
	}
	return New(ckpt.State)
}

// RandomConfig sizes a randomly initialized encoder.
type RandomConfig struct {
	Vocab    int
	Hidden   int
	EmbedDim int
	PixelDim int
}

// Random builds an encoder with deterministic pseudo-random parameters.
// The same seed and config always produce the same parameters, so tests and
// weight-file generation are reproducible.
func Random(cfg RandomConfig, seed int64) (*Encoder, error) {
	rng := rand.New(rand.NewSource(seed))
	state := checkpoint.State{
		ParamTokenEmbedding:   randomTensor(rng, cfg.Vocab, cfg.Hidden),
		ParamTextProjection:   randomTensor(rng, cfg.Hidden, cfg.EmbedDim),
		ParamVisualProjection: randomTensor(rng, cfg.PixelDim, cfg.EmbedDim),
	}
	return New(state)
}

func randomTensor(rng *rand.Rand, rows, cols int) checkpoint.Tensor {
	t := checkpoint.NewTensor(rows, cols)
	for i := range t.Data {
		t.Data[i] = float32(rng.NormFloat64())
	}
	return t
}

// Dimensions returns the output embedding size.
func (e *Encoder) Dimensions() int { return e.embedDim }

// PixelDim returns the flattened pixel length the image branch expects.
func (e *Encoder) PixelDim() int { return e.pixelDim }

// EncodeTokens mean-pools the token embeddings of each row's real tokens and
// projects the pooled vector to the embedding space. Token IDs outside the
// vocabulary are folded in by modulo.
func (e *Encoder) EncodeTokens(ctx context.Context, batch types.TokenBatch) ([][]float32, error) {
	if len(batch.IDs) == 0 {
		return nil, errors.New("empty token batch")
	}
	if len(batch.Lengths) != len(batch.IDs) {
		return nil, errors.New("token batch lengths do not match rows")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	tok := e.state[ParamTokenEmbedding]
	proj := e.state[ParamTextProjection]

	out := make([][]float32, len(batch.IDs))
	pooled := make([]float32, e.hidden)
	for i, row := range batch.IDs {
		n := batch.Lengths[i]
		if n > len(row) {
			return nil, fmt.Errorf("row %d: length %d exceeds %d tokens", i, n, len(row))
		}

		for d := range pooled {
			pooled[d] = 0
		}
		for _, id := range row[:n] {
			if id < 0 {
				return nil, fmt.Errorf("row %d: negative token id %d", i, id)
			}
			base := (id % e.vocab) * e.hidden
			for d := 0; d < e.hidden; d++ {
				pooled[d] += tok.Data[base+d]
			}
		}
		if n > 0 {
			inv := 1 / float32(n)
			for d := range pooled {
				pooled[d] *= inv
			}
		}

		out[i] = project(pooled, proj, e.embedDim)
	}
	return out, nil
}

// EncodeImages projects each flattened pixel row to the embedding space.
func (e *Encoder) EncodeImages(ctx context.Context, pixels [][]float32) ([][]float32, error) {
	if len(pixels) == 0 {
		return nil, errors.New("empty image batch")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	vis := e.state[ParamVisualProjection]

	out := make([][]float32, len(pixels))
	for i, row := range pixels {
		if len(row) != e.pixelDim {
			return nil, fmt.Errorf("image %d: %d pixels, encoder expects %d",
				i, len(row), e.pixelDim)
		}
		out[i] = project(row, vis, e.embedDim)
	}
	return out, nil
}

// project computes in × weight for a [len(in), embedDim] weight tensor.
func project(in []float32, weight checkpoint.Tensor, embedDim int) []float32 {
	out := make([]float32, embedDim)
	for d, v := range in {
		if v == 0 {
			continue
		}
		base := d * embedDim
		for k := 0; k < embedDim; k++ {
			out[k] += v * weight.Data[base+k]
		}
	}
	return out
}

// StateDict returns a deep copy of the encoder's parameters.
func (e *Encoder) StateDict() checkpoint.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// LoadStateDict replaces the encoder's parameters. Incoming names must match
// the existing parameters in name and shape.
func (e *Encoder) LoadStateDict(state checkpoint.State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Merge(state)
}

// Close is a no-op; the encoder holds no external resources.
func (e *Encoder) Close() {}
