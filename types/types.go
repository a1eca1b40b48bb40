package types

import "context"

// TokenBatch is a padded, fixed-width batch of token IDs produced by a
// tokenizer. Lengths records the number of real (non-pad) tokens per row.
type TokenBatch struct {
	IDs     [][]int
	Lengths []int
}

// Tokenizer converts raw strings into a padded token-id batch.
type Tokenizer interface {
	// Tokenize encodes each text into token IDs, truncating or padding every
	// row to the tokenizer's context length.
	Tokenize(texts []string) (TokenBatch, error)

	// ContextLength returns the fixed row width of produced batches.
	ContextLength() int
}

// TextEncoder embeds raw text directly, typically by calling a remote API.
type TextEncoder interface {
	// EncodeTexts turns a batch of texts into raw (unnormalized) embeddings.
	EncodeTexts(ctx context.Context, texts []string) ([][]float32, error)
	// Close frees any resources held by the encoder.
	Close()
}

// TokenEncoder embeds pre-tokenized text. Local encoders with their own
// parameters implement this instead of TextEncoder.
type TokenEncoder interface {
	// EncodeTokens turns a token batch into raw (unnormalized) embeddings.
	EncodeTokens(ctx context.Context, batch TokenBatch) ([][]float32, error)
	// Close frees any resources held by the encoder.
	Close()
}

// ImageEncoder embeds image tensors. Each row of pixels is one flattened
// image; all rows must share the same length.
type ImageEncoder interface {
	// EncodeImages turns a batch of flattened images into raw embeddings.
	EncodeImages(ctx context.Context, pixels [][]float32) ([][]float32, error)
	// Close frees any resources held by the encoder.
	Close()
}

// TokenCounter reports how many tokens a text occupies, typically via a
// provider's native counting endpoint. Used to validate inputs against a
// remote encoder's context budget before sending them.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// EncoderType identifies a built-in encoder implementation.
type EncoderType string

const (
	EncoderLinear EncoderType = "linear"
	EncoderOpenAI EncoderType = "openai"
	EncoderGemini EncoderType = "gemini"
)
