package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const DefaultModel = openai.EmbeddingModelTextEmbedding3Small

// Encoder embeds text via OpenAI's embeddings API. It is stateless: it holds
// no checkpointable parameters.
type Encoder struct {
	client *openai.Client
	model  string
}

// Config provides configuration options for the OpenAI encoder.
type Config struct {
	APIKey  string
	BaseURL string
	OrgID   string
	Model   string
}

// New creates an OpenAI text encoder. The API key falls back to the
// OPENAI_API_KEY environment variable.
func New(config Config) (*Encoder, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, errors.New("OpenAI API key is required")
		}
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.OrgID != "" {
		opts = append(opts, option.WithOrganization(config.OrgID))
	}

	client := openai.NewClient(opts...)
	return &Encoder{client: &client, model: model}, nil
}

// EncodeTexts sends one embedding request for the whole batch.
func (e *Encoder) EncodeTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to encode")
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d texts",
			len(resp.Data), len(texts))
	}

	// OpenAI returns []float64; convert to []float32.
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		row := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			row[j] = float32(v)
		}
		out[i] = row
	}
	return out, nil
}

// Close is a no-op; the client needs no teardown.
func (e *Encoder) Close() {}
