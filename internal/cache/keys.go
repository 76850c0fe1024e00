package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/stockit/analyzer/internal/domain"
)

// Key namespaces. Versioned so a format change never decodes stale entries.
const (
	scoreKeyPrefix    = "stockit:score:v1:"
	analysisKeyPrefix = "stockit:analysis:v1:"
)

// ScoreKey derives the cache key for one stock's score bundle. The exact bit
// patterns of all six features go into the hash, so any feature change,
// however small, yields a fresh key and implicitly invalidates the old entry.
// The persona and optional user vector are part of the identity too: the
// same stock scores differently under different weight triples.
func ScoreKey(code string, features domain.RawFeatures, persona string, user *domain.StyleVector) string {
	h := sha256.New()
	h.Write([]byte(code))
	h.Write([]byte{0})
	writeFloats(h, features.Vector())
	h.Write([]byte(persona))
	h.Write([]byte{0})
	if user != nil {
		writeFloats(h, user.Slice())
	}
	return scoreKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// AnalysisKey derives the cache key for a full portfolio analysis from the
// holdings' codes, amounts and inline features.
func AnalysisKey(holdings []domain.Holding) string {
	h := sha256.New()
	for _, holding := range holdings {
		h.Write([]byte(holding.StockCode))
		h.Write([]byte{0})
		writeFloats(h, []float64{holding.InvestmentAmount})
		if holding.Features != nil {
			writeFloats(h, holding.Features.Vector())
		}
		h.Write([]byte{1})
	}
	return analysisKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func writeFloats(h hash.Hash, values []float64) {
	var buf [8]byte
	for _, v := range values {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
