package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockit/analyzer/internal/cache"
	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/modules/analysis"
	"github.com/stockit/analyzer/internal/modules/universe"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "stockit-analyzer",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// stockAnalyzeRequest asks for one stock's style classification. Features are
// optional; when absent they resolve from the universe snapshot.
type stockAnalyzeRequest struct {
	StockCode string              `json:"stock_code"`
	Features  *domain.RawFeatures `json:"features,omitempty"`
}

type stockAnalyzeResponse struct {
	StockCode   string              `json:"stock_code"`
	StockName   string              `json:"stock_name,omitempty"`
	Analyzable  bool                `json:"analyzable"`
	Reason      string              `json:"reason,omitempty"`
	Cluster     int                 `json:"cluster"`
	StyleTag    string              `json:"style_tag,omitempty"`
	Description string              `json:"description,omitempty"`
	Features    *domain.RawFeatures `json:"features,omitempty"`
}

// handleStockAnalyze classifies a single stock. Unanalyzable stocks are a
// first-class 200 response with analyzable=false, not an error: callers
// branch on the flag.
func (s *Server) handleStockAnalyze(w http.ResponseWriter, r *http.Request) {
	var req stockAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StockCode == "" {
		s.writeError(w, http.StatusBadRequest, "stock_code is required")
		return
	}

	resp := stockAnalyzeResponse{StockCode: req.StockCode}

	features := req.Features
	if st, ok := s.universe.Lookup(req.StockCode); ok {
		resp.StockName = st.CleanName()
		check := s.universe.CheckAnalyzable(req.StockCode)
		if !check.Analyzable {
			resp.Reason = check.Reason
			s.writeJSON(w, http.StatusOK, resp)
			return
		}
		if features == nil {
			f := st.Features
			features = &f
		}
	} else if features == nil {
		resp.Reason = universe.ReasonNotInUniverse
		s.writeJSON(w, http.StatusOK, resp)
		return
	}

	cluster, tag, description := s.ref.ClassifyStock(*features)
	resp.Analyzable = true
	resp.Cluster = cluster
	resp.StyleTag = tag
	resp.Description = description
	resp.Features = features
	s.writeJSON(w, http.StatusOK, resp)
}

type stockScoreRequest struct {
	StockCode       string              `json:"stock_code"`
	Features        *domain.RawFeatures `json:"features,omitempty"`
	Persona         string              `json:"persona,omitempty"`
	UserStyleVector []float64           `json:"user_style_vector,omitempty"`
}

type stockScoreResponse struct {
	StockCode string `json:"stock_code"`
	Cluster   int    `json:"cluster"`
	StyleTag  string `json:"style_tag"`
	domain.ScoreBundle
}

// handleStockScore computes the multi-factor score bundle for one stock.
func (s *Server) handleStockScore(w http.ResponseWriter, r *http.Request) {
	var req stockScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StockCode == "" {
		s.writeError(w, http.StatusBadRequest, "stock_code is required")
		return
	}

	features := req.Features
	if features == nil {
		st, ok := s.universe.Lookup(req.StockCode)
		if !ok {
			s.writeError(w, http.StatusNotFound, "stock not found in universe and no features supplied")
			return
		}
		f := st.Features
		features = &f
	}

	user, err := parseStyleVector(req.UserStyleVector)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cluster, tag, _ := s.ref.ClassifyStock(*features)
	bundle := s.scorer.Score(r.Context(), req.StockCode, *features, user, req.Persona)

	s.writeJSON(w, http.StatusOK, stockScoreResponse{
		StockCode:   req.StockCode,
		Cluster:     cluster,
		StyleTag:    tag,
		ScoreBundle: bundle,
	})
}

type portfolioAnalyzeRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

// handlePortfolioAnalyze runs the full portfolio pipeline behind a
// cache-aside read keyed on the holdings themselves.
func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request) {
	var req portfolioAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := cache.AnalysisKey(req.Holdings)
	var cached analysis.PortfolioAnalysis
	if s.cache != nil && s.cache.Get(r.Context(), key, &cached) == cache.Hit {
		s.writeJSON(w, http.StatusOK, &cached)
		return
	}

	result, err := s.analysis.AnalyzePortfolio(req.Holdings)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	if s.cache != nil {
		s.cache.SetAnalysis(r.Context(), key, result)
	}
	s.writeJSON(w, http.StatusOK, result)
}

type recommendRequest struct {
	Holdings []domain.Holding `json:"holdings,omitempty"`
	Persona  string           `json:"persona,omitempty"`
	TopN     int              `json:"top_n,omitempty"`
}

// handleRecommend ranks the universe for the requesting user.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.recommend.Recommend(r.Context(), req.Holdings, req.Persona, req.TopN)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// parseStyleVector validates an optional 8-dim user vector from a request.
func parseStyleVector(raw []float64) (*domain.StyleVector, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) != domain.ClusterCount {
		return nil, errors.New("user_style_vector must have exactly 8 components")
	}
	var v domain.StyleVector
	copy(v[:], raw)
	return &v, nil
}

// writePipelineError maps pipeline failure values to HTTP statuses.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDegenerateAggregation):
		s.writeError(w, http.StatusNotFound, "no holdings could be matched to the universe")
	default:
		s.log.Error().Err(err).Msg("Pipeline error")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
