package universe

import (
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/stockit/analyzer/pkg/formulas"
)

// snapshot is an immutable view of the universe table. Requests read whatever
// snapshot is current; the refresh job swaps in a new one atomically, so no
// request ever sees a half-loaded table.
type snapshot struct {
	stocks []Stock
	byCode map[string]int
}

// Service exposes the universe to the analysis and recommendation pipelines.
type Service struct {
	repo *Repository
	log  zerolog.Logger
	snap atomic.Pointer[snapshot]
}

// NewService creates the universe service. Call Refresh once before serving.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	s := &Service{
		repo: repo,
		log:  log.With().Str("component", "universe").Logger(),
	}
	s.snap.Store(&snapshot{byCode: map[string]int{}})
	return s
}

// NewStaticService builds a service over a fixed stock list, with no backing
// repository. Used by tests and offline tooling.
func NewStaticService(stocks []Stock, log zerolog.Logger) *Service {
	s := NewService(nil, log)
	s.snap.Store(buildSnapshot(stocks))
	return s
}

// Refresh reloads the table and swaps the snapshot. Serving continues on the
// previous snapshot until the new one is fully built.
func (s *Service) Refresh() error {
	stocks, err := s.repo.GetAll()
	if err != nil {
		return err
	}
	s.snap.Store(buildSnapshot(stocks))
	s.log.Info().Int("stocks", len(stocks)).Msg("Universe snapshot refreshed")
	return nil
}

func buildSnapshot(stocks []Stock) *snapshot {
	byCode := make(map[string]int, len(stocks))
	for i, st := range stocks {
		byCode[strings.TrimSpace(st.Code)] = i
	}
	return &snapshot{stocks: stocks, byCode: byCode}
}

// All returns the current snapshot's stocks in table order. Callers must not
// mutate the returned slice.
func (s *Service) All() []Stock {
	return s.snap.Load().stocks
}

// Size returns the number of stocks in the current snapshot.
func (s *Service) Size() int {
	return len(s.snap.Load().stocks)
}

// Lookup finds a stock by its (whitespace-tolerant) short code.
func (s *Service) Lookup(code string) (Stock, bool) {
	snap := s.snap.Load()
	i, ok := snap.byCode[strings.TrimSpace(code)]
	if !ok {
		return Stock{}, false
	}
	return snap.stocks[i], true
}

// FeatureStats summarizes one feature column of the current snapshot.
type FeatureStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// MarketCapStats summarizes the market cap column. The status endpoint
// reports it so a degenerate collector load (all zeros, no spread) is visible
// without querying the table.
func (s *Service) MarketCapStats() FeatureStats {
	stocks := s.snap.Load().stocks
	caps := make([]float64, len(stocks))
	for i, st := range stocks {
		caps[i] = st.Features.MarketCap
	}
	return FeatureStats{
		Mean:   formulas.Mean(caps),
		StdDev: formulas.StdDev(caps),
	}
}

// CheckAnalyzable reports whether the coded stock exists and passes the name
// validity filter.
func (s *Service) CheckAnalyzable(code string) Analyzability {
	st, ok := s.Lookup(code)
	if !ok {
		return Analyzability{Reason: ReasonNotInUniverse}
	}
	return CheckName(st.Name)
}
