package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deadscope/internal/graph"
	"deadscope/internal/storage"
)

func newCategorizer(pairs []graph.InterfaceImplementationPair, candidates, exported graph.SymbolSet) *Categorizer {
	return NewCategorizer(NewInterfaceAnalyzer(pairs, candidates), exported)
}

func TestCategorize(t *testing.T) {
	t.Run("interface bloat wins over everything", func(t *testing.T) {
		pairs := []graph.InterfaceImplementationPair{
			{InterfaceName: "IFoo", MethodName: "Bar", ImplSymbolID: "m1"},
		}
		cz := newCategorizer(pairs, graph.SymbolSet{"m1": true}, graph.SymbolSet{"m1": true})

		c := cand("m1", "Bar", storage.KindMethod, "src/foo.ts")
		// Also exported: interface bloat is still more specific.
		assert.Equal(t, CategoryInterfaceBloat, cz.Categorize(c))
	})

	t.Run("unused export beats dead class", func(t *testing.T) {
		cz := newCategorizer(nil, nil, graph.SymbolSet{"c1": true})

		c := cand("c1", "UserService", storage.KindClass, "src/a.ts")
		assert.Equal(t, CategoryUnusedExport, cz.Categorize(c))
	})

	t.Run("class-like kinds", func(t *testing.T) {
		cz := newCategorizer(nil, nil, nil)

		assert.Equal(t, CategoryDeadClass, cz.Categorize(cand("s1", "UserService", storage.KindClass, "src/a.ts")))
		assert.Equal(t, CategoryDeadClass, cz.Categorize(cand("s2", "UserID", storage.KindTypeAlias, "src/a.ts")))
		assert.Equal(t, CategoryDeadClass, cz.Categorize(cand("s3", "Point", storage.KindStruct, "src/a.go")))

		c := withEntityKind(cand("s4", "Legacy", storage.KindFunction, "src/a.py"), "class")
		assert.Equal(t, CategoryDeadClass, cz.Categorize(c))
	})

	t.Run("method visibility", func(t *testing.T) {
		cz := newCategorizer(nil, nil, nil)

		// Explicit keyword wins.
		c := withSignature(cand("s1", "helper", storage.KindMethod, "src/a.ts"), "private helper(): void")
		assert.Equal(t, CategoryDeadPrivateMethod, cz.Categorize(c))

		c = withSignature(cand("s2", "helper", storage.KindMethod, "src/a.ts"), "protected helper(): void")
		assert.Equal(t, CategoryDeadPrivateMethod, cz.Categorize(c))

		// Name prefix conventions.
		assert.Equal(t, CategoryDeadPrivateMethod, cz.Categorize(cand("s3", "_helper", storage.KindMethod, "src/a.py")))
		assert.Equal(t, CategoryDeadPrivateMethod, cz.Categorize(cand("s4", "#helper", storage.KindMethod, "src/a.ts")))

		// Default is public.
		assert.Equal(t, CategoryDeadPublicMethod, cz.Categorize(cand("s5", "helper", storage.KindMethod, "src/a.ts")))

		// entity_kind can mark method-likeness on its own.
		c = withEntityKind(cand("s6", "helper", storage.KindFunction, "src/a.py"), "class_method")
		assert.Equal(t, CategoryDeadPublicMethod, cz.Categorize(c))
	})

	t.Run("standalone function is the default", func(t *testing.T) {
		cz := newCategorizer(nil, nil, nil)
		assert.Equal(t, CategoryDeadFunction, cz.Categorize(cand("s1", "compute", storage.KindFunction, "src/a.ts")))
	})

	t.Run("deterministic", func(t *testing.T) {
		cz := newCategorizer(nil, nil, nil)
		c := cand("s1", "compute", storage.KindFunction, "src/a.ts")
		first := cz.Categorize(c)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, cz.Categorize(c))
		}
	})
}

func TestGenerateReason(t *testing.T) {
	pairs := []graph.InterfaceImplementationPair{
		{InterfaceName: "IFoo", MethodName: "Bar", ImplSymbolID: "m1"},
	}
	cz := newCategorizer(pairs, graph.SymbolSet{"m1": true}, nil)

	c := cand("m1", "Bar", storage.KindMethod, "src/foo.ts")
	reason := cz.GenerateReason(c, CategoryInterfaceBloat)
	assert.Contains(t, reason, "IFoo")

	c = cand("s2", "compute", storage.KindFunction, "src/a.ts")
	assert.Contains(t, cz.GenerateReason(c, CategoryDeadFunction), "compute")
}

func TestInterfaceAnalyzer(t *testing.T) {
	pairs := []graph.InterfaceImplementationPair{
		{InterfaceName: "IFoo", MethodName: "Bar", ImplSymbolID: "m1"},
		{InterfaceName: "IBar", MethodName: "Baz", ImplSymbolID: "m2"},
	}
	candidates := graph.SymbolSet{"m1": true}
	a := NewInterfaceAnalyzer(pairs, candidates)

	assert.True(t, a.ImplementsInterface("m1"))
	assert.True(t, a.ImplementsInterface("m2"))
	assert.False(t, a.ImplementsInterface("m3"))

	name, ok := a.InterfaceInfo("m1")
	assert.True(t, ok)
	assert.Equal(t, "IFoo", name)
	_, ok = a.InterfaceInfo("m3")
	assert.False(t, ok)

	// Bloat needs both: implemented and a zero-caller candidate.
	assert.True(t, a.IsInterfaceBloat("m1"))
	assert.False(t, a.IsInterfaceBloat("m2"), "m2 has callers")
	assert.False(t, a.IsInterfaceBloat("m3"))
}
