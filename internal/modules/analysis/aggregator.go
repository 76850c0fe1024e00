package analysis

import (
	"github.com/stockit/analyzer/internal/domain"
)

// ClusterWeight pairs a holding's cluster assignment with its invested amount.
type ClusterWeight struct {
	Cluster int
	Amount  float64
}

// AggregateStyleVector turns per-holding cluster assignments and investment
// amounts into the portfolio's normalized style distribution.
//
// Entries with a non-positive amount or an out-of-range cluster are dropped,
// not errored: upstream noise must never take the whole portfolio down. When
// nothing survives the filter the vector is undefined and the caller gets
// domain.ErrDegenerateAggregation. Summation is commutative, so holding order
// does not matter.
func AggregateStyleVector(entries []ClusterWeight) (domain.StyleVector, error) {
	var total float64
	for _, e := range entries {
		if e.Amount > 0 && e.Cluster >= 0 && e.Cluster < domain.ClusterCount {
			total += e.Amount
		}
	}
	if total <= 0 {
		return domain.StyleVector{}, domain.ErrDegenerateAggregation
	}

	var acc domain.StyleVector
	for _, e := range entries {
		if e.Amount > 0 && e.Cluster >= 0 && e.Cluster < domain.ClusterCount {
			acc[e.Cluster] += e.Amount / total
		}
	}

	// Renormalize so the components sum to exactly 1 despite float drift.
	sum := acc.Sum()
	if sum <= 0 {
		return domain.StyleVector{}, domain.ErrDegenerateAggregation
	}
	for i := range acc {
		acc[i] /= sum
	}
	return acc, nil
}
