package formulas

import (
	"gonum.org/v1/gonum/floats"
)

// EuclideanDistance calculates the L2 distance between two vectors.
// Mismatched lengths return 0.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	return floats.Distance(a, b, 2)
}

// CosineSimilarity calculates the cosine similarity between two vectors,
// in [-1, 1]. Zero-norm vectors (and mismatched lengths) return 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
