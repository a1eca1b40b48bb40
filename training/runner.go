// Package training owns the explicit loop controller and the checkpoint
// round-trip verification built on top of it. The runner composes a plain
// embed call, a loss function, and an optional parameter update; there are
// no framework lifecycle hooks.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vecsnap/vecsnap"
	"github.com/vecsnap/vecsnap/checkpoint"
)

// LossFunc scores a batch of embeddings against the batch's constant target.
type LossFunc func(embeddings [][]float32, target float32) float64

// MeanSquaredLoss is the default loss: mean squared difference between every
// embedding element and the target value.
func MeanSquaredLoss(embeddings [][]float32, target float32) float64 {
	var sum float64
	var n int
	for _, row := range embeddings {
		for _, v := range row {
			d := float64(v) - float64(target)
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// UpdateFunc mutates the parameter state after a step. A nil update leaves
// parameters untouched, which is the zero-step checkpoint exercise case.
type UpdateFunc func(state checkpoint.State, step int) error

// Config controls a run.
type Config struct {
	// Steps is the number of optimization steps to drive. Zero runs the full
	// save path with parameters unchanged from initialization.
	Steps int

	// Dataset supplies batches. Required when Steps > 0.
	Dataset Dataset

	// Loss defaults to MeanSquaredLoss.
	Loss LossFunc

	// Update is applied to the wrapper state after each step, if set.
	Update UpdateFunc

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Report summarizes a completed run.
type Report struct {
	RunID          uuid.UUID
	Steps          uint64
	FinalLoss      float64
	CheckpointName string
}

// Runner drives batches through a wrapper and saves a checkpoint at the end.
type Runner struct {
	wrapper *vecsnap.Wrapper
	store   checkpoint.Store
	cfg     Config
	logger  *slog.Logger
}

// NewRunner validates the configuration and binds it to a wrapper and store.
func NewRunner(wrapper *vecsnap.Wrapper, store checkpoint.Store, cfg Config) (*Runner, error) {
	if wrapper == nil {
		return nil, errors.New("wrapper is required")
	}
	if store == nil {
		return nil, errors.New("checkpoint store is required")
	}
	if cfg.Steps < 0 {
		return nil, errors.New("steps cannot be negative")
	}
	if cfg.Steps > 0 && cfg.Dataset == nil {
		return nil, errors.New("dataset is required when steps > 0")
	}
	if cfg.Dataset != nil && cfg.Dataset.Len() == 0 {
		return nil, errors.New("dataset is empty")
	}
	if cfg.Loss == nil {
		cfg.Loss = MeanSquaredLoss
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{wrapper: wrapper, store: store, cfg: cfg, logger: logger}, nil
}

// Run drives cfg.Steps steps and saves a checkpoint under name.
func (r *Runner) Run(ctx context.Context, name string) (*Report, error) {
	var finalLoss float64

	for step := 0; step < r.cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := r.cfg.Dataset.Batch(step % r.cfg.Dataset.Len())

		embeddings, err := r.wrapper.Embed(ctx, batch.Input)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		finalLoss = r.cfg.Loss(embeddings, batch.Target)
		r.logger.Info("training step", "step", step, "loss", finalLoss)

		if r.cfg.Update != nil {
			state := r.wrapper.StateDict()
			if err := r.cfg.Update(state, step); err != nil {
				return nil, fmt.Errorf("step %d: update: %w", step, err)
			}
			if err := r.wrapper.LoadStateDict(state); err != nil {
				return nil, fmt.Errorf("step %d: %w", step, err)
			}
		}
	}
	if r.cfg.Steps == 0 {
		r.logger.Info("zero-step run, parameters unchanged from initialization")
	}

	ckpt := checkpoint.New(r.wrapper.StateDict(), uint64(r.cfg.Steps))
	if err := r.store.Save(ctx, name, ckpt); err != nil {
		return nil, fmt.Errorf("saving checkpoint %q: %w", name, err)
	}
	r.logger.Info("checkpoint saved",
		"name", name, "run_id", ckpt.Meta.RunID, "step", ckpt.Meta.Step)

	return &Report{
		RunID:          ckpt.Meta.RunID,
		Steps:          ckpt.Meta.Step,
		FinalLoss:      finalLoss,
		CheckpointName: name,
	}, nil
}
