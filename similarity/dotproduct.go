package similarity

// DotProduct computes the dot product between two vectors. No normalization
// is applied, so results depend on vector magnitudes. For unit-normalized
// embeddings this equals cosine similarity.
func DotProduct(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
