package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deadscope/internal/graph"
	"deadscope/internal/storage"
)

func TestScore(t *testing.T) {
	t.Run("category baselines", func(t *testing.T) {
		s := NewScorer(nil, nil)
		c := cand("s1", "x", storage.KindMethod, "src/a.ts")

		assert.Equal(t, ConfidenceHigh, s.Score(c, CategoryInterfaceBloat))
		assert.Equal(t, ConfidenceHigh, s.Score(c, CategoryDeadPrivateMethod))
		assert.Equal(t, ConfidenceMedium, s.Score(c, CategoryDeadFunction))
		assert.Equal(t, ConfidenceMedium, s.Score(c, CategoryDeadClass))
		assert.Equal(t, ConfidenceMedium, s.Score(c, CategoryDeadPublicMethod))
		assert.Equal(t, ConfidenceLow, s.Score(c, CategoryUnusedExport))
	})

	t.Run("override symbols never score high", func(t *testing.T) {
		s := NewScorer(graph.SymbolSet{"s1": true}, nil)
		c := cand("s1", "x", storage.KindMethod, "src/a.ts")

		for _, cat := range []Category{
			CategoryInterfaceBloat, CategoryUnusedExport, CategoryDeadClass,
			CategoryOrphanedImplementation, CategoryDeadPublicMethod,
			CategoryDeadPrivateMethod, CategoryDeadFunction,
		} {
			assert.NotEqual(t, ConfidenceHigh, s.Score(c, cat), "category %s", cat)
		}
	})

	t.Run("exported symbols never score high", func(t *testing.T) {
		s := NewScorer(nil, graph.SymbolSet{"s1": true})
		c := cand("s1", "x", storage.KindMethod, "src/a.ts")

		for _, cat := range []Category{
			CategoryInterfaceBloat, CategoryDeadPrivateMethod, CategoryDeadFunction,
		} {
			assert.NotEqual(t, ConfidenceHigh, s.Score(c, cat), "category %s", cat)
		}
	})

	t.Run("monotonic in reachability signals", func(t *testing.T) {
		clean := NewScorer(nil, nil)
		override := NewScorer(graph.SymbolSet{"s1": true}, nil)
		both := NewScorer(graph.SymbolSet{"s1": true}, graph.SymbolSet{"s1": true})
		c := cand("s1", "x", storage.KindMethod, "src/a.ts")

		for cat := range categoryBaseScore {
			base := clean.Score(c, cat).Rank()
			one := override.Score(c, cat).Rank()
			two := both.Score(c, cat).Rank()
			assert.LessOrEqual(t, base, one, "category %s", cat)
			assert.LessOrEqual(t, one, two, "category %s", cat)
		}
	})
}

func TestConfidenceRank(t *testing.T) {
	assert.Equal(t, 0, ConfidenceHigh.Rank())
	assert.Equal(t, 1, ConfidenceMedium.Rank())
	assert.Equal(t, 2, ConfidenceLow.Rank())
}

func TestParseConfidence(t *testing.T) {
	for _, s := range []string{"high", "medium", "low"} {
		c, err := ParseConfidence(s)
		assert.NoError(t, err)
		assert.Equal(t, Confidence(s), c)
	}
	_, err := ParseConfidence("certain")
	assert.Error(t, err)
}
