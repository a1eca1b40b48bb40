package similarity

import "math"

// Euclidean computes similarity based on Euclidean distance.
// Returns 1 / (1 + distance), so 1 means identical vectors.
func Euclidean(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return float32(1 / (1 + math.Sqrt(sum)))
}

// MaxAbsDiff returns the largest element-wise absolute difference between two
// vectors, and the index where it occurs. Used for tolerance checks after
// checkpoint reloads. Returns math.Inf(1) and -1 for length mismatches.
func MaxAbsDiff(a, b []float32) (float64, int) {
	if len(a) != len(b) {
		return math.Inf(1), -1
	}
	var worst float64
	idx := -1
	for i := range a {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if d > worst {
			worst = d
			idx = i
		}
	}
	return worst, idx
}
