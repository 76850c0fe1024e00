package analysis

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/modules/universe"
	"github.com/stockit/analyzer/internal/refdata"
	"github.com/stockit/analyzer/pkg/formulas"
)

// UniverseLookup is the slice of the universe service the analyzer needs.
type UniverseLookup interface {
	Lookup(code string) (universe.Stock, bool)
}

// Service runs the portfolio analysis pipeline: resolve holdings, classify,
// aggregate into a style vector and match personas. Stateless per call; it
// only reads the injected reference context and universe snapshot.
type Service struct {
	ref *refdata.Context
	uni UniverseLookup
	log zerolog.Logger
}

// NewService creates a portfolio analysis service.
func NewService(ref *refdata.Context, uni UniverseLookup, log zerolog.Logger) *Service {
	return &Service{
		ref: ref,
		uni: uni,
		log: log.With().Str("module", "analysis").Logger(),
	}
}

// HoldingDetail is the per-holding classification result.
type HoldingDetail struct {
	StockCode   string  `json:"stock_code"`
	StockName   string  `json:"stock_name"`
	Cluster     int     `json:"cluster"`
	StyleTag    string  `json:"style_tag"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

// StyleShare is one non-zero slot of the style breakdown, as a percentage.
type StyleShare struct {
	StyleTag   string  `json:"style_tag"`
	Percentage float64 `json:"percentage"`
}

// PortfolioAnalysis is the full result of AnalyzePortfolio.
type PortfolioAnalysis struct {
	ReportID       string             `json:"report_id"`
	StyleVector    []float64          `json:"portfolio_style_vector"`
	StyleBreakdown []StyleShare       `json:"user_style_breakdown"`
	Summary        domain.RawFeatures `json:"summary"`
	PersonaMatches []PersonaMatch     `json:"persona_match"`
	Holdings       []HoldingDetail    `json:"stock_details"`
}

// resolvedHolding is a holding that survived resolution and filtering.
type resolvedHolding struct {
	code     string
	name     string
	amount   float64
	features domain.RawFeatures
}

// AnalyzePortfolio classifies every resolvable holding, aggregates the
// weighted style distribution, computes the weighted feature summary and
// matches the result against the persona table.
//
// Holdings with non-positive amounts are excluded from weighting. Holdings
// whose features cannot be resolved (inline or from the universe) are skipped
// with a warning. If nothing remains, the portfolio is unanalyzable and the
// caller receives domain.ErrDegenerateAggregation as a plain failure value.
func (s *Service) AnalyzePortfolio(holdings []domain.Holding) (*PortfolioAnalysis, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: empty portfolio", domain.ErrInvalidInput)
	}

	resolved := s.resolve(holdings)
	if len(resolved) == 0 {
		return nil, domain.ErrDegenerateAggregation
	}

	features := make([]domain.RawFeatures, len(resolved))
	for i, h := range resolved {
		features[i] = h.features
	}
	clusters := s.ref.ClassifyBatch(features)

	entries := make([]ClusterWeight, len(resolved))
	for i, h := range resolved {
		entries[i] = ClusterWeight{Cluster: clusters[i], Amount: h.amount}
	}
	styleVector, err := AggregateStyleVector(entries)
	if err != nil {
		return nil, err
	}

	var totalAmount float64
	for _, h := range resolved {
		totalAmount += h.amount
	}

	details := make([]HoldingDetail, len(resolved))
	weights := make([]float64, len(resolved))
	for i, h := range resolved {
		w := h.amount / totalAmount
		weights[i] = w
		details[i] = HoldingDetail{
			StockCode:   h.code,
			StockName:   h.name,
			Cluster:     clusters[i],
			StyleTag:    refdata.StyleTag(clusters[i]),
			Description: refdata.StyleDescription(clusters[i]),
			Weight:      round4(w),
		}
	}

	return &PortfolioAnalysis{
		ReportID:       uuid.NewString(),
		StyleVector:    styleVector.Slice(),
		StyleBreakdown: styleBreakdown(styleVector),
		Summary:        weightedSummary(features, weights),
		PersonaMatches: MatchPersonas(styleVector, s.ref.Personas()),
		Holdings:       details,
	}, nil
}

// resolve joins holdings with the universe table, sanitizing amounts.
func (s *Service) resolve(holdings []domain.Holding) []resolvedHolding {
	var out []resolvedHolding
	for _, h := range holdings {
		if h.InvestmentAmount <= 0 {
			continue
		}

		r := resolvedHolding{code: h.StockCode, amount: h.InvestmentAmount}
		if stock, ok := s.uni.Lookup(h.StockCode); ok {
			r.name = stock.CleanName()
			if h.Features != nil {
				r.features = *h.Features
			} else {
				r.features = stock.Features
			}
		} else if h.Features != nil {
			r.features = *h.Features
		} else {
			s.log.Warn().Str("stock_code", h.StockCode).Msg("Holding not in universe, skipping")
			continue
		}
		out = append(out, r)
	}
	return out
}

// styleBreakdown lists the non-zero clusters as percentages, largest first.
// The sort is stable so equal shares keep cluster order.
func styleBreakdown(v domain.StyleVector) []StyleShare {
	var shares []StyleShare
	for i, x := range v {
		if x > 0 {
			shares = append(shares, StyleShare{
				StyleTag:   refdata.StyleTag(i),
				Percentage: round2(x * 100),
			})
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})
	return shares
}

// weightedSummary computes the investment-weighted average of each raw
// feature across the resolved holdings.
func weightedSummary(features []domain.RawFeatures, weights []float64) domain.RawFeatures {
	n := len(features)
	cols := make([][]float64, domain.FeatureCount)
	for i := range cols {
		cols[i] = make([]float64, n)
	}
	for j, f := range features {
		for i, x := range f.Vector() {
			cols[i][j] = x
		}
	}
	return domain.RawFeatures{
		MarketCap:     round2(formulas.WeightedMean(cols[0], weights)),
		PER:           round2(formulas.WeightedMean(cols[1], weights)),
		PBR:           round2(formulas.WeightedMean(cols[2], weights)),
		ROE:           round2(formulas.WeightedMean(cols[3], weights)),
		DebtRatio:     round2(formulas.WeightedMean(cols[4], weights)),
		DividendYield: round2(formulas.WeightedMean(cols[5], weights)),
	}
}
