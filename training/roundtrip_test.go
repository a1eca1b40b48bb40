package training

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vecsnap/vecsnap"
	"github.com/vecsnap/vecsnap/checkpoint"
	"github.com/vecsnap/vecsnap/encoders/linear"
	"github.com/vecsnap/vecsnap/options"
)

func TestVerifyRoundTripText(t *testing.T) {
	wrapper := newLinearWrapper(t, 1)
	defer wrapper.Close()
	store := checkpoint.NewMemStore()
	defer store.Close()

	// The fresh wrapper starts from different parameters; a passing round
	// trip proves the checkpoint load fully restored the saved state.
	report, err := VerifyRoundTrip(context.Background(), wrapper, RoundTripConfig{
		Store: store,
		Fresh: func() (*vecsnap.Wrapper, error) {
			return newLinearWrapper(t, 99), nil
		},
		Input: vecsnap.Text("a photo of a cat"),
	})
	if err != nil {
		t.Fatalf("VerifyRoundTrip: %v", err)
	}
	if report.Rows != 1 {
		t.Errorf("rows = %d, want 1", report.Rows)
	}
	if report.MaxDiff > DefaultTolerance {
		t.Errorf("max diff %g exceeds tolerance", report.MaxDiff)
	}
	if report.MinCosine < 0.9999 {
		t.Errorf("min cosine %f, want ~1", report.MinCosine)
	}
}

func TestVerifyRoundTripImage(t *testing.T) {
	wrapper := newLinearWrapper(t, 2)
	defer wrapper.Close()
	store := checkpoint.NewMemStore()
	defer store.Close()

	report, err := VerifyRoundTrip(context.Background(), wrapper, RoundTripConfig{
		Store: store,
		Fresh: func() (*vecsnap.Wrapper, error) {
			return newLinearWrapper(t, 3), nil
		},
		Input: vecsnap.Image(
			[]float32{1, 2, 3, 4, 5, 6},
			[]float32{0.5, 0, -0.5, 1, -1, 0.25},
		),
	})
	if err != nil {
		t.Fatalf("VerifyRoundTrip: %v", err)
	}
	if report.Rows != 2 {
		t.Errorf("rows = %d, want 2", report.Rows)
	}
}

// corruptingStore flips a parameter value on load to simulate a
// serialization defect.
type corruptingStore struct {
	checkpoint.Store
}

func (s *corruptingStore) Load(ctx context.Context, name string) (*checkpoint.Checkpoint, error) {
	ckpt, err := s.Store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	ckpt.State[linear.ParamTextProjection].Data[0] += 1
	return ckpt, nil
}

func TestVerifyRoundTripDetectsCorruption(t *testing.T) {
	wrapper := newLinearWrapper(t, 4)
	defer wrapper.Close()
	store := &corruptingStore{Store: checkpoint.NewMemStore()}
	defer store.Close()

	_, err := VerifyRoundTrip(context.Background(), wrapper, RoundTripConfig{
		Store: store,
		Fresh: func() (*vecsnap.Wrapper, error) {
			return newLinearWrapper(t, 4), nil
		},
		Input: vecsnap.Text("a photo of a cat"),
	})
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("got %v, want ErrMismatch", err)
	}
}

func TestWeightFileLoadDeterminism(t *testing.T) {
	enc, err := linear.Random(linear.RandomConfig{
		Vocab:    128,
		Hidden:   8,
		EmbedDim: 16,
		PixelDim: 6,
	}, 5)
	if err != nil {
		t.Fatalf("linear.Random: %v", err)
	}
	path := filepath.Join(t.TempDir(), "weights.ckpt")
	if err := checkpoint.WriteFile(path, checkpoint.New(enc.StateDict(), 0)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	build := func() *vecsnap.Wrapper {
		w, err := vecsnap.New(
			options.WithLinearEncoder(path),
			options.WithTiktokenTokenizer(16),
		)
		if err != nil {
			t.Fatalf("vecsnap.New: %v", err)
		}
		return w
	}
	a := build()
	defer a.Close()
	b := build()
	defer b.Close()

	in := vecsnap.Text("a photo of a cat")
	ea, err := a.Embed(context.Background(), in)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	eb, err := b.Embed(context.Background(), in)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range ea[0] {
		if ea[0][i] != eb[0][i] {
			t.Fatalf("wrappers from the same weight file disagree at %d", i)
		}
	}
}
