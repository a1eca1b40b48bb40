package similarity

import (
	"math"
	"testing"
)

func TestSimilarityFunctions(t *testing.T) {
	vec1 := []float32{1, 0, 0}
	vec2 := []float32{0, 1, 0}
	vec3 := []float32{1, 0, 0}

	t.Run("Cosine", func(t *testing.T) {
		if sim := Cosine(vec1, vec2); sim != 0 {
			t.Errorf("orthogonal vectors: got %f, want 0", sim)
		}
		if sim := Cosine(vec1, vec3); math.Abs(float64(sim)-1) > 0.001 {
			t.Errorf("identical vectors: got %f, want 1", sim)
		}
		if sim := Cosine(nil, nil); sim != 0 {
			t.Errorf("empty vectors: got %f, want 0", sim)
		}
		if sim := Cosine(vec1, []float32{1, 0}); sim != 0 {
			t.Errorf("length mismatch: got %f, want 0", sim)
		}
		if sim := Cosine([]float32{0, 0}, []float32{1, 1}); sim != 0 {
			t.Errorf("zero vector: got %f, want 0", sim)
		}
	})

	t.Run("DotProduct", func(t *testing.T) {
		if sim := DotProduct(vec1, vec2); sim != 0 {
			t.Errorf("orthogonal vectors: got %f, want 0", sim)
		}
		if sim := DotProduct(vec1, vec3); sim != 1 {
			t.Errorf("identical unit vectors: got %f, want 1", sim)
		}
	})

	t.Run("Euclidean", func(t *testing.T) {
		if sim := Euclidean(vec1, vec3); sim != 1 {
			t.Errorf("identical vectors: got %f, want 1", sim)
		}
		if sim := Euclidean(vec1, vec2); sim >= 1 {
			t.Errorf("different vectors: got %f, want < 1", sim)
		}
	})
}

func TestMaxAbsDiff(t *testing.T) {
	diff, idx := MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 3})
	if math.Abs(diff-0.5) > 1e-9 || idx != 1 {
		t.Errorf("got diff %f at %d, want 0.5 at 1", diff, idx)
	}

	diff, idx = MaxAbsDiff([]float32{1}, []float32{1})
	if diff != 0 || idx != -1 {
		t.Errorf("identical vectors: got diff %f at %d, want 0 at -1", diff, idx)
	}

	diff, idx = MaxAbsDiff([]float32{1}, []float32{1, 2})
	if !math.IsInf(diff, 1) || idx != -1 {
		t.Errorf("length mismatch: got diff %f at %d, want +Inf at -1", diff, idx)
	}
}
