package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vecsnap/vecsnap"
	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/internal/config"
	"github.com/vecsnap/vecsnap/options"
	"github.com/vecsnap/vecsnap/types"
)

var (
	configPath string
	verbose    bool

	globalConfig *config.Config
	logger       *slog.Logger
)

var (
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var rootCmd = &cobra.Command{
	Use:   "vecsnap",
	Short: "Embedding wrapper with checkpoint round-trip verification",
	Long: `vecsnap wraps text and image encoders behind one embedding API and
verifies that saving and reloading encoder parameters reproduces the
same inference output.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; explicit config errors are not.
		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		globalConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(initWeightsCmd)
}

// buildWrapper constructs a wrapper from the loaded config.
func buildWrapper(ctx context.Context, cfg *config.Config) (*vecsnap.Wrapper, error) {
	var opts []options.Option
	switch types.EncoderType(cfg.Encoder.Type) {
	case types.EncoderLinear:
		opts = append(opts,
			options.WithLinearEncoder(cfg.Weights),
			options.WithTiktokenTokenizer(cfg.ContextLength),
		)
	case types.EncoderOpenAI:
		opts = append(opts, options.WithOpenAIEncoder(cfg.APIKey(), cfg.Encoder.Model))
	case types.EncoderGemini:
		opts = append(opts, options.WithGeminiEncoder(ctx, cfg.APIKey(), cfg.Encoder.Model))
	default:
		return nil, fmt.Errorf("unknown encoder type %q", cfg.Encoder.Type)
	}
	if cfg.CacheSize > 0 {
		opts = append(opts, options.WithCache(cfg.CacheSize))
	}
	return vecsnap.New(opts...)
}

// buildStore constructs a checkpoint store from the loaded config.
func buildStore(ctx context.Context, cfg *config.Config) (checkpoint.Store, error) {
	switch cfg.Store.Type {
	case "file":
		return checkpoint.NewFileStore(cfg.Store.Dir)
	case "redis":
		return checkpoint.NewRedisStore(ctx, checkpoint.RedisConfig{
			ConnectionString: cfg.Store.Redis.URL,
			Prefix:           cfg.Store.Redis.Prefix,
		})
	case "memory":
		return checkpoint.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
