package analyzer

import "deadscope/internal/graph"

// Scoring is additive: each category starts from a base score, each signal
// that the symbol might be reachable through a path the call graph cannot
// see (polymorphic dispatch, external consumers) subtracts a fixed penalty,
// and the result is clamped and bucketed. Penalties are large enough that an
// override or exported symbol can never land in the high bucket regardless
// of category.
const (
	reachabilityPenalty = 0.25

	highCutoff   = 0.85
	mediumCutoff = 0.55
)

// categoryBaseScore orders categories by specificity: no-external-visibility
// categories warrant higher baseline confidence than public surface.
var categoryBaseScore = map[Category]float64{
	CategoryInterfaceBloat:         0.90,
	CategoryDeadPrivateMethod:      0.90,
	CategoryDeadFunction:           0.75,
	CategoryDeadClass:              0.75,
	CategoryOrphanedImplementation: 0.60,
	CategoryDeadPublicMethod:       0.60,
	CategoryUnusedExport:           0.45,
}

// Scorer assigns a confidence level to each finding.
type Scorer struct {
	overrides graph.SymbolSet
	exported  graph.SymbolSet
}

// NewScorer builds a scorer over the run's override and exported sets.
func NewScorer(overrides, exported graph.SymbolSet) *Scorer {
	return &Scorer{overrides: overrides, exported: exported}
}

// Score is monotonic in the reachability signals: adding override or export
// membership can only lower the result, never raise it.
func (s *Scorer) Score(c graph.Candidate, cat Category) Confidence {
	score := categoryBaseScore[cat]

	if s.overrides.Contains(c.ID) {
		score -= reachabilityPenalty
	}
	if s.exported.Contains(c.ID) {
		score -= reachabilityPenalty
	}
	if score < 0 {
		score = 0
	}

	switch {
	case score >= highCutoff:
		return ConfidenceHigh
	case score >= mediumCutoff:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
