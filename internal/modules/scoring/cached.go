package scoring

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stockit/analyzer/internal/cache"
	"github.com/stockit/analyzer/internal/domain"
)

// CachedScorer wraps a Scorer with cache-aside reads. Backend failures fall
// through to direct computation, so scoring works identically with redis
// down; only latency differs.
type CachedScorer struct {
	scorer *Scorer
	cache  *cache.Cache
	log    zerolog.Logger
}

// NewCachedScorer wraps the scorer. A nil cache disables caching entirely.
func NewCachedScorer(scorer *Scorer, c *cache.Cache, log zerolog.Logger) *CachedScorer {
	return &CachedScorer{
		scorer: scorer,
		cache:  c,
		log:    log.With().Str("module", "scoring").Logger(),
	}
}

// Score returns the cached bundle when present, computing and writing back on
// miss. The key covers the stock code, the exact feature bits, the persona
// and the user vector, so a hit is always equivalent to recomputation.
func (cs *CachedScorer) Score(ctx context.Context, code string, features domain.RawFeatures, user *domain.StyleVector, persona string) domain.ScoreBundle {
	if cs.cache == nil {
		return cs.scorer.Score(features, user, persona)
	}

	key := cache.ScoreKey(code, features, persona, user)
	var bundle domain.ScoreBundle
	if cs.cache.Get(ctx, key, &bundle) == cache.Hit {
		return bundle
	}

	bundle = cs.scorer.Score(features, user, persona)
	cs.cache.SetAnalysis(ctx, key, bundle)
	return bundle
}
