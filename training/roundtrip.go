package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vecsnap/vecsnap"
	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/similarity"
)

// DefaultTolerance is the per-element absolute tolerance for comparing
// embeddings across a save/reload cycle.
const DefaultTolerance = 1e-4

// ErrMismatch is returned when a reloaded wrapper does not reproduce the
// pre-save embedding. It indicates a serialization or parameter-mapping
// defect, not a recoverable condition.
var ErrMismatch = errors.New("embedding mismatch after checkpoint reload")

// RoundTripConfig configures a save/reload/verify cycle.
type RoundTripConfig struct {
	// Store persists the checkpoint between the two wrapper instances.
	Store checkpoint.Store

	// Fresh constructs the second wrapper instance the checkpoint is loaded
	// into. It must be structurally identical to the wrapper under test.
	Fresh func() (*vecsnap.Wrapper, error)

	// Input is embedded before the save and again after the reload.
	Input vecsnap.Input

	// Tolerance defaults to DefaultTolerance.
	Tolerance float64

	// CheckpointName defaults to "roundtrip".
	CheckpointName string

	// Dataset feeds the zero-step runner. Defaults to a small synthetic
	// dataset.
	Dataset Dataset

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// RoundTripReport records the outcome of a successful round trip.
type RoundTripReport struct {
	RunID          uuid.UUID
	CheckpointName string
	Rows           int

	// MaxDiff is the largest element-wise absolute difference observed
	// between the pre-save and post-reload embeddings.
	MaxDiff float64

	// MinCosine is the smallest per-row cosine similarity between the two
	// embeddings. A clean round trip sits at 1 up to float arithmetic.
	MinCosine float32
}

// VerifyRoundTrip drives a zero-step run through wrapper, saves a
// checkpoint, restores it into a fresh wrapper, re-embeds the same input,
// and confirms the output matches within tolerance.
func VerifyRoundTrip(ctx context.Context, wrapper *vecsnap.Wrapper, cfg RoundTripConfig) (*RoundTripReport, error) {
	if wrapper == nil {
		return nil, errors.New("wrapper is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("checkpoint store is required")
	}
	if cfg.Fresh == nil {
		return nil, errors.New("fresh wrapper factory is required")
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.CheckpointName == "" {
		cfg.CheckpointName = "roundtrip"
	}
	if cfg.Dataset == nil {
		cfg.Dataset = NewSyntheticDataset(2, 1)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	before, err := wrapper.Embed(ctx, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("pre-save embed: %w", err)
	}

	runner, err := NewRunner(wrapper, cfg.Store, Config{
		Steps:   0,
		Dataset: cfg.Dataset,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	runReport, err := runner.Run(ctx, cfg.CheckpointName)
	if err != nil {
		return nil, err
	}

	fresh, err := cfg.Fresh()
	if err != nil {
		return nil, fmt.Errorf("constructing fresh wrapper: %w", err)
	}
	defer fresh.Close()

	ckpt, err := cfg.Store.Load(ctx, cfg.CheckpointName)
	if err != nil {
		return nil, err
	}
	if err := fresh.LoadStateDict(ckpt.State); err != nil {
		return nil, fmt.Errorf("restoring checkpoint: %w", err)
	}

	after, err := fresh.Embed(ctx, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("post-reload embed: %w", err)
	}

	if len(after) != len(before) {
		return nil, fmt.Errorf("%w: %d rows before save, %d after reload",
			ErrMismatch, len(before), len(after))
	}

	report := &RoundTripReport{
		RunID:          runReport.RunID,
		CheckpointName: cfg.CheckpointName,
		Rows:           len(before),
		MinCosine:      1,
	}
	for i := range before {
		diff, idx := similarity.MaxAbsDiff(before[i], after[i])
		if diff > cfg.Tolerance {
			return nil, fmt.Errorf("%w: row %d element %d differs by %g (tolerance %g)",
				ErrMismatch, i, idx, diff, cfg.Tolerance)
		}
		if diff > report.MaxDiff {
			report.MaxDiff = diff
		}
		if cos := similarity.Cosine(before[i], after[i]); cos < report.MinCosine {
			report.MinCosine = cos
		}
	}

	logger.Info("round trip verified",
		"checkpoint", cfg.CheckpointName,
		"rows", report.Rows,
		"max_diff", report.MaxDiff,
		"min_cosine", report.MinCosine)
	return report, nil
}
