// Package checkpoint persists and restores encoder parameter state.
//
// A checkpoint is a named snapshot of a parameter-name -> tensor mapping plus
// a small amount of bookkeeping (run ID, step count, save time). The same
// binary container is used for pretrained weight files and for checkpoints
// written during a run, so a weight file can be loaded anywhere a checkpoint
// can.
package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a named checkpoint does not exist in a store.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrShapeMismatch is returned when a loaded tensor's shape does not match
	// the destination parameter.
	ErrShapeMismatch = errors.New("tensor shape mismatch")
)

// Tensor is a dense float32 tensor with an explicit shape.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zero tensor with the given shape.
func NewTensor(shape ...int) Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
}

// Len returns the number of elements implied by the shape.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Clone returns a deep copy of the tensor.
func (t Tensor) Clone() Tensor {
	return Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float32(nil), t.Data...),
	}
}

// SameShape reports whether two tensors have identical shapes.
func (t Tensor) SameShape(other Tensor) bool {
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

// State maps parameter names to tensor values.
type State map[string]Tensor

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for name, t := range s {
		out[name] = t.Clone()
	}
	return out
}

// Equal reports whether two states hold bit-identical parameters.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for name, t := range s {
		o, ok := other[name]
		if !ok || !t.SameShape(o) {
			return false
		}
		for i := range t.Data {
			if t.Data[i] != o.Data[i] {
				return false
			}
		}
	}
	return true
}

// Merge copies tensors from src into s, validating that every incoming
// parameter exists with a matching shape. Unknown names and shape mismatches
// are load errors rather than silent drops.
func (s State) Merge(src State) error {
	for name, t := range src {
		dst, ok := s[name]
		if !ok {
			return fmt.Errorf("unknown parameter %q", name)
		}
		if !dst.SameShape(t) {
			return fmt.Errorf("parameter %q: %w: have %v, want %v",
				name, ErrShapeMismatch, t.Shape, dst.Shape)
		}
		s[name] = t.Clone()
	}
	return nil
}

// Metadata carries run bookkeeping saved alongside the parameters.
type Metadata struct {
	RunID   uuid.UUID
	Step    uint64
	SavedAt time.Time
}

// Checkpoint is a parameter snapshot plus its metadata.
type Checkpoint struct {
	Meta  Metadata
	State State
}

// New wraps a state into a checkpoint with fresh metadata.
func New(state State, step uint64) *Checkpoint {
	return &Checkpoint{
		Meta: Metadata{
			RunID:   uuid.New(),
			Step:    step,
			SavedAt: time.Now().UTC(),
		},
		State: state,
	}
}

// Stateful is implemented by components whose parameters can be snapshotted
// and restored.
type Stateful interface {
	// StateDict returns a deep copy of the component's parameters.
	StateDict() State

	// LoadStateDict replaces the component's parameters with the given state.
	// Every incoming name must exist with a matching shape.
	LoadStateDict(State) error
}
