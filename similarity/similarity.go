// Package similarity provides vector comparison functions used to score
// embeddings and to verify checkpoint round trips.
package similarity

// Func computes similarity between two embedding vectors. Higher values
// indicate greater similarity.
type Func func(a, b []float32) float32
