package analysis

import (
	"math"
	"sort"

	"github.com/stockit/analyzer/internal/domain"
	"github.com/stockit/analyzer/internal/refdata"
	"github.com/stockit/analyzer/pkg/formulas"
)

// maxStyleDistance is the largest possible distance between two pure style
// vectors: one-hot distributions in different clusters sit √(1²+1²) apart.
var maxStyleDistance = math.Sqrt(2.0)

// PersonaMatch is one persona's similarity to a user's style vector.
type PersonaMatch struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"percentage"`
	Reason     string  `json:"reason,omitempty"`
	Philosophy string  `json:"philosophy,omitempty"`
}

// MatchPersonas compares a style vector against every persona and returns the
// matches sorted by similarity, descending. The sort is stable, so equal
// similarities keep the persona table's declaration order.
func MatchPersonas(user domain.StyleVector, table *refdata.PersonaTable) []PersonaMatch {
	personas := table.All()
	matches := make([]PersonaMatch, 0, len(personas))
	for _, p := range personas {
		matches = append(matches, PersonaMatch{
			Name:       p.Name,
			Similarity: styleSimilarity(user, p.StyleVector()),
			Reason:     p.Reason,
			Philosophy: p.Philosophy,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// styleSimilarity converts the Euclidean distance between two style vectors
// into a 0-100 match percentage, rounded to 2 decimals.
func styleSimilarity(user, persona domain.StyleVector) float64 {
	d := formulas.EuclideanDistance(user.Slice(), persona.Slice())
	sim := 100 * (1 - d/maxStyleDistance)
	if sim < 0 {
		sim = 0
	}
	return math.Round(sim*100) / 100
}
