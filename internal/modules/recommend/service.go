package recommend

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/modules/analysis"
	"github.com/stockit/analyzer/internal/modules/scoring"
	"github.com/stockit/analyzer/internal/modules/universe"
	"github.com/stockit/analyzer/internal/refdata"
)

// Bounds on the result size. Requests outside the range are clamped, not
// rejected, matching the forgiving posture of the rest of the pipeline.
const (
	DefaultTopN = 10
	MaxTopN     = 50
)

// Recommendation is one ranked stock with its full score bundle.
type Recommendation struct {
	StockCode string `json:"stock_code"`
	StockName string `json:"stock_name"`
	Cluster   int    `json:"cluster"`
	StyleTag  string `json:"style_tag"`
	domain.ScoreBundle
}

// Result is the response of one recommendation run.
type Result struct {
	Persona         string           `json:"persona,omitempty"`
	TotalScored     int              `json:"total_scored"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Service ranks the whole universe by composite score for one user.
type Service struct {
	ref    *refdata.Context
	uni    *universe.Service
	scorer *scoring.CachedScorer
	log    zerolog.Logger
}

// NewService creates the recommendation service.
func NewService(ref *refdata.Context, uni *universe.Service, scorer *scoring.CachedScorer, log zerolog.Logger) *Service {
	return &Service{
		ref:    ref,
		uni:    uni,
		scorer: scorer,
		log:    log.With().Str("module", "recommend").Logger(),
	}
}

// Recommend scores every analyzable stock in the universe against the user's
// aggregated style vector and returns the topN by composite score,
// descending. Ties keep universe table order (stable sort). The holdings are
// optional: with none resolvable the similarity sub-score is neutral for
// every candidate.
func (s *Service) Recommend(ctx context.Context, holdings []domain.Holding, persona string, topN int) (*Result, error) {
	topN = clampTopN(topN)
	user := s.userVector(holdings)

	candidates := s.eligible()
	if len(candidates) == 0 {
		return &Result{Persona: persona, Recommendations: []Recommendation{}}, nil
	}

	features := make([]domain.RawFeatures, len(candidates))
	for i, st := range candidates {
		features[i] = st.Features
	}
	clusters := s.ref.ClassifyBatch(features)

	recs := make([]Recommendation, len(candidates))
	for i, st := range candidates {
		bundle := s.scorer.Score(ctx, st.Code, st.Features, user, persona)
		recs[i] = Recommendation{
			StockCode:   st.Code,
			StockName:   st.CleanName(),
			Cluster:     clusters[i],
			StyleTag:    refdata.StyleTag(clusters[i]),
			ScoreBundle: bundle,
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Composite > recs[j].Composite
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}

	return &Result{
		Persona:         persona,
		TotalScored:     len(candidates),
		Recommendations: recs,
	}, nil
}

// userVector aggregates the user's holdings into a style vector. Aggregation
// failure (empty or nothing resolvable) is not an error here: it means no
// portfolio signal, so similarity falls back to neutral.
func (s *Service) userVector(holdings []domain.Holding) *domain.StyleVector {
	var entries []analysis.ClusterWeight
	for _, h := range holdings {
		if h.InvestmentAmount <= 0 {
			continue
		}
		var f domain.RawFeatures
		if h.Features != nil {
			f = *h.Features
		} else if st, ok := s.uni.Lookup(h.StockCode); ok {
			f = st.Features
		} else {
			continue
		}
		entries = append(entries, analysis.ClusterWeight{
			Cluster: s.ref.Classify(f),
			Amount:  h.InvestmentAmount,
		})
	}

	vec, err := analysis.AggregateStyleVector(entries)
	if err != nil {
		if !errors.Is(err, domain.ErrDegenerateAggregation) {
			s.log.Warn().Err(err).Msg("User style aggregation failed, using neutral similarity")
		}
		return nil
	}
	return &vec
}

// eligible filters the universe snapshot through the name validity filter.
func (s *Service) eligible() []universe.Stock {
	all := s.uni.All()
	out := make([]universe.Stock, 0, len(all))
	for _, st := range all {
		if universe.IsAnalyzableName(st.Name) {
			out = append(out, st)
		}
	}
	return out
}

func clampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}
