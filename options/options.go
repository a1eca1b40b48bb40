// Package options provides functional options for configuring Wrapper
// instances.
package options

import (
	"context"
	"errors"

	"github.com/vecsnap/vecsnap/encoders/gemini"
	"github.com/vecsnap/vecsnap/encoders/linear"
	"github.com/vecsnap/vecsnap/encoders/openai"
	"github.com/vecsnap/vecsnap/tokenizer"
	"github.com/vecsnap/vecsnap/types"
)

// Option represents a configuration option for a Wrapper.
type Option func(*Config) error

// Config holds the configuration for building a Wrapper.
type Config struct {
	Tokenizer    types.Tokenizer
	TokenEncoder types.TokenEncoder
	TextEncoder  types.TextEncoder
	ImageEncoder types.ImageEncoder

	TokenCounter types.TokenCounter
	TokenBudget  int

	CacheSize int
}

// NewConfig creates an empty configuration.
func NewConfig() *Config {
	return &Config{}
}

// Apply applies all the given options to the config.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the configuration describes at least one usable branch.
func (c *Config) Validate() error {
	if c.TokenEncoder == nil && c.TextEncoder == nil && c.ImageEncoder == nil {
		return errors.New("at least one encoder is required - use WithLinearEncoder, WithOpenAIEncoder, etc.")
	}
	if c.TokenEncoder != nil && c.Tokenizer == nil {
		return errors.New("a tokenizer is required with a token encoder - use WithTiktokenTokenizer")
	}
	return nil
}

// WithTiktokenTokenizer sets up a cl100k_base tokenizer with the given
// context length (non-positive selects the default).
func WithTiktokenTokenizer(contextLen int) Option {
	return func(cfg *Config) error {
		tok, err := tokenizer.NewTiktoken(contextLen)
		if err != nil {
			return err
		}
		cfg.Tokenizer = tok
		return nil
	}
}

// WithTokenizer allows using a pre-configured tokenizer.
func WithTokenizer(tok types.Tokenizer) Option {
	return func(cfg *Config) error {
		if tok == nil {
			return errors.New("tokenizer cannot be nil")
		}
		cfg.Tokenizer = tok
		return nil
	}
}

// WithLinearEncoder loads the pretrained linear encoder from a weight file
// and wires it into both the text and image branches.
func WithLinearEncoder(weightsPath string) Option {
	return func(cfg *Config) error {
		enc, err := linear.NewFromFile(weightsPath)
		if err != nil {
			return err
		}
		cfg.TokenEncoder = enc
		cfg.ImageEncoder = enc
		return nil
	}
}

// WithCustomLinearEncoder wires a pre-built linear encoder into both the
// text and image branches.
func WithCustomLinearEncoder(enc *linear.Encoder) Option {
	return func(cfg *Config) error {
		if enc == nil {
			return errors.New("encoder cannot be nil")
		}
		cfg.TokenEncoder = enc
		cfg.ImageEncoder = enc
		return nil
	}
}

// WithOpenAIEncoder sets up an OpenAI text encoder.
func WithOpenAIEncoder(apiKey string, model ...string) Option {
	return func(cfg *Config) error {
		config := openai.Config{APIKey: apiKey}
		if len(model) > 0 {
			config.Model = model[0]
		}
		enc, err := openai.New(config)
		if err != nil {
			return err
		}
		cfg.TextEncoder = enc
		return nil
	}
}

// WithGeminiEncoder sets up a Gemini text encoder.
func WithGeminiEncoder(ctx context.Context, apiKey string, model ...string) Option {
	return func(cfg *Config) error {
		config := gemini.Config{APIKey: apiKey}
		if len(model) > 0 {
			config.Model = model[0]
		}
		enc, err := gemini.New(ctx, config)
		if err != nil {
			return err
		}
		cfg.TextEncoder = enc
		return nil
	}
}

// WithTextEncoder allows using a pre-configured remote text encoder.
func WithTextEncoder(enc types.TextEncoder) Option {
	return func(cfg *Config) error {
		if enc == nil {
			return errors.New("text encoder cannot be nil")
		}
		cfg.TextEncoder = enc
		return nil
	}
}

// WithTokenEncoder allows using a pre-configured token encoder.
func WithTokenEncoder(enc types.TokenEncoder) Option {
	return func(cfg *Config) error {
		if enc == nil {
			return errors.New("token encoder cannot be nil")
		}
		cfg.TokenEncoder = enc
		return nil
	}
}

// WithImageEncoder allows using a pre-configured image encoder.
func WithImageEncoder(enc types.ImageEncoder) Option {
	return func(cfg *Config) error {
		if enc == nil {
			return errors.New("image encoder cannot be nil")
		}
		cfg.ImageEncoder = enc
		return nil
	}
}

// WithTokenCounter validates text inputs against budget tokens using the
// given counter before they are sent to a remote text encoder.
func WithTokenCounter(counter types.TokenCounter, budget int) Option {
	return func(cfg *Config) error {
		if counter == nil {
			return errors.New("token counter cannot be nil")
		}
		if budget <= 0 {
			return errors.New("token budget must be positive")
		}
		cfg.TokenCounter = counter
		cfg.TokenBudget = budget
		return nil
	}
}

// WithCache memoizes up to size embed results keyed by input content.
func WithCache(size int) Option {
	return func(cfg *Config) error {
		if size <= 0 {
			return errors.New("cache size must be positive")
		}
		cfg.CacheSize = size
		return nil
	}
}
