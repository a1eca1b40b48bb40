// Package encoders constructs built-in encoder implementations by type.
package encoders

import (
	"context"
	"errors"

	"github.com/vecsnap/vecsnap/encoders/gemini"
	"github.com/vecsnap/vecsnap/encoders/linear"
	"github.com/vecsnap/vecsnap/encoders/openai"
	"github.com/vecsnap/vecsnap/types"
)

var ErrUnsupportedEncoder = errors.New("unsupported encoder type")

// Config carries settings for any built-in encoder type. Only the fields
// relevant to the chosen type are read.
type Config struct {
	// WeightsPath locates the pretrained weight file for the linear encoder.
	WeightsPath string

	// Remote encoder settings.
	APIKey  string
	BaseURL string
	Model   string
}

// NewTextEncoder creates a remote text encoder of the given type.
func NewTextEncoder(ctx context.Context, encoderType types.EncoderType, cfg Config) (types.TextEncoder, error) {
	switch encoderType {
	case types.EncoderOpenAI:
		return openai.New(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case types.EncoderGemini:
		return gemini.New(ctx, gemini.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, ErrUnsupportedEncoder
	}
}

// NewLinearEncoder loads the linear encoder from cfg.WeightsPath.
func NewLinearEncoder(cfg Config) (*linear.Encoder, error) {
	return linear.NewFromFile(cfg.WeightsPath)
}
