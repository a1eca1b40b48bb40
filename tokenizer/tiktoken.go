// Package tokenizer converts raw text into the padded token-id batches
// consumed by local token encoders, and counts tokens for remote encoders.
package tokenizer

import (
	"errors"
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/vecsnap/vecsnap/types"
)

// DefaultContextLength is the fixed token window every batch row is padded
// or truncated to.
const DefaultContextLength = 77

// PadID fills row positions past the real token length. Batch Lengths mark
// which positions carry real tokens.
const PadID = 0

// Tiktoken tokenizes text with the cl100k_base BPE vocabulary. It is
// stateless after construction and safe for concurrent use.
type Tiktoken struct {
	codec      tokenizer.Codec
	contextLen int
}

// NewTiktoken creates a tokenizer with the given context length.
// A non-positive contextLen selects DefaultContextLength.
func NewTiktoken(contextLen int) (*Tiktoken, error) {
	if contextLen <= 0 {
		contextLen = DefaultContextLength
	}
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base codec: %w", err)
	}
	return &Tiktoken{codec: codec, contextLen: contextLen}, nil
}

// ContextLength returns the fixed row width of produced batches.
func (t *Tiktoken) ContextLength() int { return t.contextLen }

// Tokenize encodes each text into token IDs, truncating rows longer than the
// context length and padding shorter ones with PadID.
func (t *Tiktoken) Tokenize(texts []string) (types.TokenBatch, error) {
	if len(texts) == 0 {
		return types.TokenBatch{}, errors.New("no texts to tokenize")
	}

	batch := types.TokenBatch{
		IDs:     make([][]int, len(texts)),
		Lengths: make([]int, len(texts)),
	}
	for i, text := range texts {
		ids, _, err := t.codec.Encode(text)
		if err != nil {
			return types.TokenBatch{}, fmt.Errorf("encoding text %d: %w", i, err)
		}
		if len(ids) > t.contextLen {
			ids = ids[:t.contextLen]
		}

		row := make([]int, t.contextLen)
		for j, id := range ids {
			row[j] = int(id)
		}
		for j := len(ids); j < t.contextLen; j++ {
			row[j] = PadID
		}
		batch.IDs[i] = row
		batch.Lengths[i] = len(ids)
	}
	return batch, nil
}
