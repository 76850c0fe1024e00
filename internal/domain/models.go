package domain

// FeatureCount is the fixed width of the raw feature vector.
// The order is frozen by the offline training pipeline and must never change:
// market_cap, per, pbr, roe, debt_ratio, dividend_yield.
const FeatureCount = 6

// ClusterCount is the number of style clusters produced by the pretrained model.
const ClusterCount = 8

// RawFeatures holds the six fundamental indicators for a single stock,
// exactly as delivered by the data collector. Values may be NaN or ±Inf;
// the normalizer sanitizes them before scaling.
type RawFeatures struct {
	MarketCap     float64 `json:"market_cap"`
	PER           float64 `json:"per"`
	PBR           float64 `json:"pbr"`
	ROE           float64 `json:"roe"`
	DebtRatio     float64 `json:"debt_ratio"`
	DividendYield float64 `json:"dividend_yield"`
}

// Vector returns the features in the frozen training order.
func (f RawFeatures) Vector() []float64 {
	return []float64{f.MarketCap, f.PER, f.PBR, f.ROE, f.DebtRatio, f.DividendYield}
}

// Holding is a single position in a user portfolio. Features may be supplied
// inline (recommendation requests) or resolved from the universe table by
// stock code (portfolio analysis requests).
type Holding struct {
	StockCode        string       `json:"stock_code"`
	InvestmentAmount float64      `json:"investment_amount"`
	Features         *RawFeatures `json:"features,omitempty"`
}

// StyleVector is a portfolio's weighted distribution over the eight style
// clusters. A well-formed vector is nonnegative and sums to 1.
type StyleVector [ClusterCount]float64

// Slice returns the vector as a []float64 for math helpers.
func (v StyleVector) Slice() []float64 {
	out := make([]float64, ClusterCount)
	copy(out, v[:])
	return out
}

// Sum returns the total mass of the vector.
func (v StyleVector) Sum() float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

// OneHot returns the pure style vector concentrated in a single cluster.
// Out-of-range clusters yield the zero vector.
func OneHot(cluster int) StyleVector {
	var v StyleVector
	if cluster >= 0 && cluster < ClusterCount {
		v[cluster] = 1.0
	}
	return v
}

// ScoreBundle holds the multi-factor scores for one stock.
// All values are in [0, 100], rounded to 2 decimals.
type ScoreBundle struct {
	Growth     float64 `json:"growth_score"`
	Stability  float64 `json:"stability_score"`
	Similarity float64 `json:"similarity_score"`
	Composite  float64 `json:"composite_score"`
}
