package scoring

import (
	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/refdata"
	"github.com/stockit/analyzer/pkg/formulas"
)

// NeutralSimilarity is used when no user style vector is available: without a
// portfolio to compare against, every stock is an equally plausible match.
const NeutralSimilarity = 50.0

// GrowthScore rates growth potential from ROE and PER, 0-100.
//
// ROE (60%): 0 at or below 0%, full marks at 20% or above, linear between.
// PER (40%): full marks in the 10-20 sweet spot, ramping up from 5, ramping
// down to 35, zero outside (and zero for non-positive or >100 PER).
func GrowthScore(roe, per float64) float64 {
	var roeComponent float64
	switch {
	case roe <= 0:
		roeComponent = 0
	case roe >= 20:
		roeComponent = 100
	default:
		roeComponent = roe / 20 * 100
	}

	var perComponent float64
	switch {
	case per <= 0 || per > 100:
		perComponent = 0
	case per >= 10 && per <= 20:
		perComponent = 100
	case per >= 5 && per < 10:
		perComponent = (per - 5) / 5 * 100
	case per > 20 && per <= 35:
		perComponent = (35 - per) / 15 * 100
	default:
		perComponent = 0
	}

	return round2(clamp(0.6*roeComponent + 0.4*perComponent))
}

// StabilityScore rates financial stability from debt ratio and dividend
// yield, 0-100.
//
// Debt ratio (60%): full marks at or below 50%, ramping to zero at 200%.
// Dividend yield (40%): 0 at or below 0%, full marks at 5% or above.
func StabilityScore(debtRatio, dividendYield float64) float64 {
	var debtComponent float64
	switch {
	case debtRatio <= 50:
		debtComponent = 100
	case debtRatio <= 200:
		debtComponent = (200 - debtRatio) / 150 * 100
	default:
		debtComponent = 0
	}

	var dividendComponent float64
	switch {
	case dividendYield <= 0:
		dividendComponent = 0
	case dividendYield >= 5:
		dividendComponent = 100
	default:
		dividendComponent = dividendYield / 5 * 100
	}

	return round2(clamp(0.6*debtComponent + 0.4*dividendComponent))
}

// SimilarityScore maps the cosine similarity between the user's style vector
// and the stock's one-hot cluster vector from [-1,1] to [0,100]. A nil user
// vector yields NeutralSimilarity.
func SimilarityScore(user *domain.StyleVector, cluster int) float64 {
	if user == nil {
		return NeutralSimilarity
	}
	stock := domain.OneHot(cluster)
	cos := formulas.CosineSimilarity(user.Slice(), stock.Slice())
	return round2(clamp((cos + 1) / 2.0 * 100))
}

// CompositeScore combines the three sub-scores under a persona weight triple.
func CompositeScore(similarity, growth, stability float64, w refdata.WeightTriple) float64 {
	return round2(clamp(w.Similarity*similarity + w.Growth*growth + w.Stability*stability))
}

// Scorer evaluates stocks against the loaded reference context. All methods
// are pure: same inputs, same bundle.
type Scorer struct {
	ref *refdata.Context
}

// NewScorer creates a multi-factor scorer.
func NewScorer(ref *refdata.Context) *Scorer {
	return &Scorer{ref: ref}
}

// Score classifies the stock and computes the full score bundle. The user
// style vector is optional; persona resolves through the persona table with
// the default triple as fallback.
func (s *Scorer) Score(features domain.RawFeatures, user *domain.StyleVector, persona string) domain.ScoreBundle {
	cluster := s.ref.Classify(features)
	return s.ScoreClassified(features, cluster, user, persona)
}

// ScoreClassified computes the bundle for a stock whose cluster is already
// known, sparing the ranker a second classification pass.
func (s *Scorer) ScoreClassified(features domain.RawFeatures, cluster int, user *domain.StyleVector, persona string) domain.ScoreBundle {
	growth := GrowthScore(features.ROE, features.PER)
	stability := StabilityScore(features.DebtRatio, features.DividendYield)
	similarity := SimilarityScore(user, cluster)
	weights := s.ref.Personas().WeightsFor(persona)

	return domain.ScoreBundle{
		Growth:     growth,
		Stability:  stability,
		Similarity: similarity,
		Composite:  CompositeScore(similarity, growth, stability, weights),
	}
}
