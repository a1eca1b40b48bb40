package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-embedding-001"

// Encoder embeds text via the Gemini API. It is stateless: it holds no
// checkpointable parameters.
type Encoder struct {
	client *genai.Client
	model  string
}

// Config provides configuration options for the Gemini encoder.
type Config struct {
	APIKey string
	Model  string
}

// New creates a Gemini text encoder. The API key falls back to the
// GEMINI_API_KEY environment variable.
func New(ctx context.Context, config Config) (*Encoder, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, errors.New("Gemini API key is required")
		}
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Encoder{client: client, model: model}, nil
}

// EncodeTexts sends one embedding request for the whole batch.
func (e *Encoder) EncodeTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to encode")
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("Gemini returned %d embeddings for %d texts",
			len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		out[i] = append([]float32(nil), emb.Values...)
	}
	return out, nil
}

// Close is a no-op; the client needs no teardown.
func (e *Encoder) Close() {}
