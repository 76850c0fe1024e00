package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/modules/analysis"
	"github.com/stockit/analyzer/internal/modules/recommend"
	"github.com/stockit/analyzer/internal/modules/scoring"
	"github.com/stockit/analyzer/internal/modules/universe"
	"github.com/stockit/analyzer/internal/refdata"
)

func testServer(t *testing.T) *Server {
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
			Weights: map[int]float64{0: 1},
			Scoring: refdata.WeightTriple{Similarity: 0.3, Growth: 0.4, Stability: 0.3},
		},
	})
	require.NoError(t, err)

	ref := refdata.NewContext(scaler, classifier, personas)
	uni := universe.NewStaticService([]universe.Stock{
		{Code: "005930", Name: "삼성전자", Features: domain.RawFeatures{MarketCap: 30, PER: 15, ROE: 20, DebtRatio: 50, DividendYield: 5}},
		{Code: "005935", Name: "삼성전자우", Features: domain.RawFeatures{MarketCap: 10}},
	}, zerolog.Nop())
	scorer := scoring.NewCachedScorer(scoring.NewScorer(ref), nil, zerolog.Nop())

	return New(Config{
		Port:      0,
		Log:       zerolog.Nop(),
		Ref:       ref,
		Universe:  uni,
		Analysis:  analysis.NewService(ref, uni, zerolog.Nop()),
		Scorer:    scorer,
		Recommend: recommend.NewService(ref, uni, scorer, zerolog.Nop()),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleSystemStatus(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/api/system/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Status)
	assert.Equal(t, 2, resp.UniverseSize)
	assert.InDelta(t, 20.0, resp.MarketCap.Mean, 1e-9)
	assert.Equal(t, 1, resp.Personas)
	assert.False(t, resp.CacheHealthy)
}

func TestHandleStockAnalyze(t *testing.T) {
	s := testServer(t)

	t.Run("known stock classifies from universe features", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/analyze", map[string]string{"stock_code": "005930"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp stockAnalyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Analyzable)
		assert.Equal(t, 3, resp.Cluster)
		assert.Equal(t, refdata.StyleTag(3), resp.StyleTag)
	})

	t.Run("preferred share is analyzable=false, not an error", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/analyze", map[string]string{"stock_code": "005935"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp stockAnalyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Analyzable)
		assert.Equal(t, universe.ReasonPreferredShare, resp.Reason)
	})

	t.Run("missing stock_code is a 400", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/analyze", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleStockScore(t *testing.T) {
	s := testServer(t)

	t.Run("scores a known stock", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/score", map[string]string{"stock_code": "005930"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp stockScoreResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 100.0, resp.Growth)
		assert.Equal(t, 100.0, resp.Stability)
		assert.Equal(t, scoring.NeutralSimilarity, resp.Similarity)
	})

	t.Run("unknown stock without features is a 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/score", map[string]string{"stock_code": "999999"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad user vector length is a 400", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/stock/score", map[string]interface{}{
			"stock_code":        "005930",
			"user_style_vector": []float64{1, 0},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePortfolioAnalyze(t *testing.T) {
	s := testServer(t)

	t.Run("analyzes a resolvable portfolio", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{
			"holdings": []map[string]interface{}{
				{"stock_code": "005930", "investment_amount": 1_000_000},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp analysis.PortfolioAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ReportID)
		assert.InDelta(t, 1.0, resp.StyleVector[3], 1e-9)
	})

	t.Run("empty portfolio is a 400", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{"holdings": []interface{}{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unmatched portfolio is a 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/portfolio/analyze", map[string]interface{}{
			"holdings": []map[string]interface{}{
				{"stock_code": "999999", "investment_amount": 1_000_000},
			},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleRecommend(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/recommend", map[string]interface{}{"top_n": 10})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// The preferred share is filtered out of the candidate set.
	assert.Equal(t, 1, resp.TotalScored)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "005930", resp.Recommendations[0].StockCode)
}
