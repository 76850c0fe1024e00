package universe

import "github.com/stockit/analyzer/internal/domain"

// Stock is one row of the universe feature table: identity plus the six raw
// fundamentals the collector keeps in sync.
type Stock struct {
	Code     string             `json:"stock_code"`
	Name     string             `json:"stock_name"`
	Features domain.RawFeatures `json:"features"`
}

// CleanName returns the display name with any trailing market annotation
// stripped (the collector appends exchange suffixes after a space).
func (s Stock) CleanName() string {
	return cleanName(s.Name)
}

// Analyzability reports whether a stock can receive a style tag, and why not
// when it can't. It is a first-class result, not an error: callers branch on
// it (e.g. to block a trade) without unwrapping anything.
type Analyzability struct {
	Analyzable bool   `json:"analyzable"`
	Reason     string `json:"reason,omitempty"`
}

// Reason codes for unanalyzable stocks.
const (
	ReasonNotInUniverse    = "not_in_universe"
	ReasonUnknownName      = "unknown_name"
	ReasonPreferredShare   = "preferred_share"
	ReasonSPAC             = "spac"
	ReasonInverseLeveraged = "inverse_leveraged"
)
