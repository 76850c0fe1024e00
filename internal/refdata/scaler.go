package refdata

import (
	"fmt"
	"math"

	"github.com/stockit/analyzer/internal/domain"
)

// Scaler applies the frozen affine transform fitted by the offline training
// pipeline: z = (x - mean) / std per feature. It never refits at runtime.
type Scaler struct {
	means []float64
	stds  []float64
}

// NewScaler builds a scaler from fitted per-feature means and stds.
// Dimensionality is checked here, once, so per-call paths can stay unchecked.
func NewScaler(means, stds []float64) (*Scaler, error) {
	if len(means) != domain.FeatureCount || len(stds) != domain.FeatureCount {
		return nil, fmt.Errorf("scaler expects %d features, got mean=%d std=%d",
			domain.FeatureCount, len(means), len(stds))
	}
	for i, std := range stds {
		if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
			return nil, fmt.Errorf("scaler std for feature %d is degenerate (%v)", i, std)
		}
	}
	s := &Scaler{
		means: make([]float64, domain.FeatureCount),
		stds:  make([]float64, domain.FeatureCount),
	}
	copy(s.means, means)
	copy(s.stds, stds)
	return s, nil
}

// Transform scales one raw feature record into the model's space.
// Non-finite values are replaced with 0 before scaling; the row is never dropped.
func (s *Scaler) Transform(f domain.RawFeatures) []float64 {
	raw := f.Vector()
	scaled := make([]float64, domain.FeatureCount)
	for i, x := range raw {
		scaled[i] = (sanitize(x) - s.means[i]) / s.stds[i]
	}
	return scaled
}

// TransformBatch scales a whole universe table with identical per-row semantics.
func (s *Scaler) TransformBatch(features []domain.RawFeatures) [][]float64 {
	out := make([][]float64, len(features))
	for i, f := range features {
		out[i] = s.Transform(f)
	}
	return out
}

// sanitize maps NaN and ±Inf from upstream collector noise to 0.
func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
