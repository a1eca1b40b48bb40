// Package config loads YAML configuration for the vecsnap CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EncoderConfig selects and configures the encoder implementation.
type EncoderConfig struct {
	// Type is one of "linear", "openai", "gemini".
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// RedisStoreConfig contains connection details for a Redis checkpoint store.
type RedisStoreConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}

// StoreConfig selects and configures the checkpoint store implementation.
type StoreConfig struct {
	// Type is one of "file", "redis", "memory".
	Type  string           `yaml:"type"`
	Dir   string           `yaml:"dir"`
	Redis RedisStoreConfig `yaml:"redis"`
}

// VerifyConfig configures the round-trip verification run.
type VerifyConfig struct {
	Text       string  `yaml:"text"`
	Tolerance  float64 `yaml:"tolerance"`
	Checkpoint string  `yaml:"checkpoint"`
}

// Config stores vecsnap CLI configuration.
type Config struct {
	Weights       string        `yaml:"weights"`
	ContextLength int           `yaml:"context_length"`
	CacheSize     int           `yaml:"cache_size"`
	Encoder       EncoderConfig `yaml:"encoder"`
	Store         StoreConfig   `yaml:"store"`
	Verify        VerifyConfig  `yaml:"verify"`
}

// Default returns a configuration usable without a config file: the linear
// encoder over a local weight file and a file checkpoint store.
func Default() *Config {
	return &Config{
		Weights: "weights.ckpt",
		Encoder: EncoderConfig{Type: "linear"},
		Store:   StoreConfig{Type: "file", Dir: ".vecsnap"},
		Verify: VerifyConfig{
			Text:       "a photo of a cat",
			Tolerance:  1e-4,
			Checkpoint: "roundtrip",
		},
	}
}

// Load reads the config file at path, layered over defaults. A missing file
// with an empty path is not an error; a named file that cannot be read is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Encoder.Type {
	case "linear", "openai", "gemini":
	default:
		return fmt.Errorf("unknown encoder type %q", c.Encoder.Type)
	}
	switch c.Store.Type {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Verify.Tolerance < 0 {
		return fmt.Errorf("tolerance cannot be negative")
	}
	return nil
}

// APIKey resolves the encoder API key from the configured environment
// variable, if any.
func (c *Config) APIKey() string {
	if c.Encoder.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Encoder.APIKeyEnv)
}
