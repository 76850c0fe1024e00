package refdata

import (
	"fmt"
	"math"

	"github.com/stockit/analyzer/internal/domain"
)

// WeightTriple holds the scoring weights a persona applies to the three
// sub-scores. A valid triple sums to 1.
type WeightTriple struct {
	Similarity float64 `json:"similarity"`
	Growth     float64 `json:"growth"`
	Stability  float64 `json:"stability"`
}

// DefaultWeights is the guaranteed fallback used when no persona is supplied
// or the supplied name is unknown.
var DefaultWeights = WeightTriple{Similarity: 0.4, Growth: 0.3, Stability: 0.3}

// Persona is a reference investor archetype: a sparse distribution over the
// style clusters plus scoring weights and explanation texts. Loaded once at
// startup and treated as read-only.
type Persona struct {
	Name       string          `json:"name"`
	Weights    map[int]float64 `json:"weights"`
	Scoring    WeightTriple    `json:"scoring"`
	Reason     string          `json:"reason"`
	Philosophy string          `json:"philosophy"`
}

// StyleVector zero-pads the sparse cluster-weight map into a dense vector.
func (p Persona) StyleVector() domain.StyleVector {
	var v domain.StyleVector
	for cluster, w := range p.Weights {
		if cluster >= 0 && cluster < domain.ClusterCount {
			v[cluster] = w
		}
	}
	return v
}

// PersonaTable is the immutable set of personas, preserving declaration order
// so that similarity ties resolve the same way on every call.
type PersonaTable struct {
	personas []Persona
	byName   map[string]int
}

// NewPersonaTable validates the persona set and freezes its order.
func NewPersonaTable(personas []Persona) (*PersonaTable, error) {
	if len(personas) == 0 {
		return nil, fmt.Errorf("persona table is empty")
	}
	byName := make(map[string]int, len(personas))
	for i, p := range personas {
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d has no name", i)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate persona %q", p.Name)
		}
		sum := p.Scoring.Similarity + p.Scoring.Growth + p.Scoring.Stability
		if math.Abs(sum-1.0) > 1e-6 {
			return nil, fmt.Errorf("persona %q scoring weights sum to %v, want 1", p.Name, sum)
		}
		for cluster := range p.Weights {
			if cluster < 0 || cluster >= domain.ClusterCount {
				return nil, fmt.Errorf("persona %q references cluster %d", p.Name, cluster)
			}
		}
		byName[p.Name] = i
	}
	return &PersonaTable{personas: personas, byName: byName}, nil
}

// All returns the personas in declaration order.
func (t *PersonaTable) All() []Persona {
	return t.personas
}

// Get looks up a persona by name.
func (t *PersonaTable) Get(name string) (Persona, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Persona{}, false
	}
	return t.personas[i], true
}

// WeightsFor resolves the scoring triple for a persona name, falling back to
// DefaultWeights for the empty string or an unknown name. Unknown names are
// not an error here: the recommender treats them as "no persona".
func (t *PersonaTable) WeightsFor(name string) WeightTriple {
	if p, ok := t.Get(name); ok {
		return p.Scoring
	}
	return DefaultWeights
}
