package refdata

import (
	"fmt"

	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/pkg/formulas"
)

// Classifier assigns scaled feature vectors to the nearest of the eight
// frozen centroids (standard k-means assignment, Euclidean distance).
// Centroids are trained offline and never mutated at runtime.
type Classifier struct {
	centroids [][]float64
}

// NewClassifier builds a classifier from the fitted centroids.
func NewClassifier(centroids [][]float64) (*Classifier, error) {
	if len(centroids) != domain.ClusterCount {
		return nil, fmt.Errorf("classifier expects %d centroids, got %d",
			domain.ClusterCount, len(centroids))
	}
	copied := make([][]float64, len(centroids))
	for i, c := range centroids {
		if len(c) != domain.FeatureCount {
			return nil, fmt.Errorf("centroid %d has %d dims, want %d",
				i, len(c), domain.FeatureCount)
		}
		copied[i] = make([]float64, domain.FeatureCount)
		copy(copied[i], c)
	}
	return &Classifier{centroids: copied}, nil
}

// Predict returns the cluster label (0-7) of the nearest centroid.
// Ties resolve to the lowest label, keeping assignment deterministic.
func (c *Classifier) Predict(scaled []float64) int {
	best := 0
	bestDist := formulas.EuclideanDistance(scaled, c.centroids[0])
	for i := 1; i < len(c.centroids); i++ {
		if d := formulas.EuclideanDistance(scaled, c.centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// PredictBatch classifies every row with the same semantics as Predict.
func (c *Classifier) PredictBatch(scaled [][]float64) []int {
	labels := make([]int, len(scaled))
	for i, row := range scaled {
		labels[i] = c.Predict(row)
	}
	return labels
}
