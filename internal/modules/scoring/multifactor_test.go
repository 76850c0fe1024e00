package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/stockit/analyzer/internal/cache"
	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/refdata"
)

func TestGrowthScore(t *testing.T) {
	tests := []struct {
		name string
		roe  float64
		per  float64
		want float64
	}{
		{"sweet spot is a perfect score", 20, 15, 100},
		{"roe above cap saturates", 35, 15, 100},
		{"zero roe drops the roe component", 0, 15, 40},
		{"negative roe drops the roe component", -5, 15, 40},
		{"roe midpoint", 10, 15, 70},
		{"per below ramp scores no per component", 4, 20, 60},
		{"per lower ramp midpoint", 20, 7.5, 80},
		{"per upper ramp midpoint", 20, 27.5, 80},
		{"per above 35 scores no per component", 20, 50, 60},
		{"per above 100 treated as invalid", 20, 150, 60},
		{"negative per treated as invalid", 20, -3, 60},
		{"everything bad is zero", -1, 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GrowthScore(tt.roe, tt.per), 1e-9)
		})
	}
}

func TestStabilityScore(t *testing.T) {
	tests := []struct {
		name          string
		debtRatio     float64
		dividendYield float64
		want          float64
	}{
		{"low debt and high yield is a perfect score", 50, 5, 100},
		{"zero debt saturates", 0, 5, 100},
		{"debt ramp midpoint", 125, 5, 70},
		{"debt above 200 scores nothing", 300, 5, 40},
		{"zero yield drops the dividend component", 50, 0, 60},
		{"yield midpoint", 50, 2.5, 80},
		{"yield above cap saturates", 50, 9, 100},
		{"everything bad is zero", 250, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StabilityScore(tt.debtRatio, tt.dividendYield), 1e-9)
		})
	}
}

func TestSimilarityScore(t *testing.T) {
	t.Run("nil user vector is neutral", func(t *testing.T) {
		assert.Equal(t, NeutralSimilarity, SimilarityScore(nil, 3))
	})

	t.Run("matching one-hot is 100", func(t *testing.T) {
		user := domain.OneHot(3)
		assert.Equal(t, 100.0, SimilarityScore(&user, 3))
	})

	t.Run("orthogonal one-hot maps to 50", func(t *testing.T) {
		user := domain.OneHot(3)
		assert.Equal(t, 50.0, SimilarityScore(&user, 5))
	})

	t.Run("partial overlap lands between", func(t *testing.T) {
		user := domain.StyleVector{3: 0.5, 5: 0.5}
		got := SimilarityScore(&user, 3)
		assert.Greater(t, got, 50.0)
		assert.Less(t, got, 100.0)
	})
}

func TestCompositeScore(t *testing.T) {
	w := refdata.WeightTriple{Similarity: 0.4, Growth: 0.3, Stability: 0.3}
	assert.InDelta(t, 0.4*50+0.3*80+0.3*60, CompositeScore(50, 80, 60, w), 1e-9)
	assert.Equal(t, 100.0, CompositeScore(100, 100, 100, w))
	assert.Equal(t, 0.0, CompositeScore(0, 0, 0, w))
}

func testScorer(t *testing.T) *Scorer {
	t.Helper()

	scaler, err := refdata.NewScaler(make([]float64, domain.FeatureCount), []float64{1, 1, 1, 1, 1, 1})
	require.NoError(t, err)

	centroids := make([][]float64, domain.ClusterCount)
	for i := range centroids {
		centroids[i] = make([]float64, domain.FeatureCount)
		centroids[i][0] = float64(i) * 10
	}
	classifier, err := refdata.NewClassifier(centroids)
	require.NoError(t, err)

	personas, err := refdata.NewPersonaTable([]refdata.Persona{
		{
			Name:    "워렌 버핏",
			Weights: map[int]float64{0: 0.6, 1: 0.4},
			Scoring: refdata.WeightTriple{Similarity: 0.3, Growth: 0.3, Stability: 0.4},
		},
	})
	require.NoError(t, err)

	return NewScorer(refdata.NewContext(scaler, classifier, personas))
}

func TestScorerScore(t *testing.T) {
	scorer := testScorer(t)
	features := domain.RawFeatures{MarketCap: 30, PER: 15, ROE: 20, DebtRatio: 50, DividendYield: 5}

	t.Run("purity: identical inputs give identical bundles", func(t *testing.T) {
		a := scorer.Score(features, nil, "")
		b := scorer.Score(features, nil, "")
		assert.Equal(t, a, b)
	})

	t.Run("default weights apply without a persona", func(t *testing.T) {
		got := scorer.Score(features, nil, "")
		assert.Equal(t, 100.0, got.Growth)
		assert.Equal(t, 100.0, got.Stability)
		assert.Equal(t, NeutralSimilarity, got.Similarity)
		// 0.4*50 + 0.3*100 + 0.3*100
		assert.InDelta(t, 80.0, got.Composite, 1e-9)
	})

	t.Run("unknown persona falls back to default weights", func(t *testing.T) {
		assert.Equal(t, scorer.Score(features, nil, ""), scorer.Score(features, nil, "없는 페르소나"))
	})

	t.Run("known persona applies its own triple", func(t *testing.T) {
		got := scorer.Score(features, nil, "워렌 버핏")
		// 0.3*50 + 0.3*100 + 0.4*100
		assert.InDelta(t, 85.0, got.Composite, 1e-9)
	})

	t.Run("user vector drives similarity", func(t *testing.T) {
		user := domain.OneHot(3) // features classify into cluster 3
		got := scorer.Score(features, &user, "")
		assert.Equal(t, 100.0, got.Similarity)
	})
}

func TestCachedScorer(t *testing.T) {
	ctx := context.Background()
	features := domain.RawFeatures{MarketCap: 30, PER: 15, ROE: 20, DebtRatio: 50, DividendYield: 5}

	t.Run("miss computes and writes back", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.New(cache.NewRedisBackendFromClient(client), time.Hour, 3*time.Hour, zerolog.Nop())
		cs := NewCachedScorer(testScorer(t), c, zerolog.Nop())

		want := testScorer(t).Score(features, nil, "")
		raw, err := msgpack.Marshal(want)
		require.NoError(t, err)

		key := cache.ScoreKey("005930", features, "", nil)
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, raw, time.Hour).SetVal("OK")

		got := cs.Score(ctx, "005930", features, nil, "")
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit equals the computed value", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.New(cache.NewRedisBackendFromClient(client), time.Hour, 3*time.Hour, zerolog.Nop())
		cs := NewCachedScorer(testScorer(t), c, zerolog.Nop())

		want := testScorer(t).Score(features, nil, "")
		raw, err := msgpack.Marshal(want)
		require.NoError(t, err)

		mock.ExpectGet(cache.ScoreKey("005930", features, "", nil)).SetVal(string(raw))

		got := cs.Score(ctx, "005930", features, nil, "")
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backend error falls back to direct computation", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := cache.New(cache.NewRedisBackendFromClient(client), time.Hour, 3*time.Hour, zerolog.Nop())
		cs := NewCachedScorer(testScorer(t), c, zerolog.Nop())

		key := cache.ScoreKey("005930", features, "", nil)
		mock.ExpectGet(key).SetErr(assert.AnError)
		want := testScorer(t).Score(features, nil, "")
		raw, err := msgpack.Marshal(want)
		require.NoError(t, err)
		mock.ExpectSet(key, raw, time.Hour).SetVal("OK")

		got := cs.Score(ctx, "005930", features, nil, "")
		assert.Equal(t, want, got)
	})

	t.Run("nil cache computes directly", func(t *testing.T) {
		cs := NewCachedScorer(testScorer(t), nil, zerolog.Nop())
		got := cs.Score(ctx, "005930", features, nil, "")
		assert.Equal(t, testScorer(t).Score(features, nil, ""), got)
	})
}
