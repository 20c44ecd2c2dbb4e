package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deadscope/internal/graph"
	"deadscope/internal/rules"
	"deadscope/internal/storage"
)

func newFilter(overrides, exported graph.SymbolSet, includeExports bool) *Filter {
	return NewFilter(rules.Default(), overrides, exported, includeExports)
}

func TestFilterExportedSymbols(t *testing.T) {
	exported := graph.SymbolSet{"s1": true}

	c := cand("s1", "formatPrice", storage.KindFunction, "src/util.ts")

	assert.True(t, newFilter(nil, exported, false).IsFalsePositive(c))
	assert.False(t, newFilter(nil, exported, true).IsFalsePositive(c))
}

func TestFilterEntryPoints(t *testing.T) {
	f := newFilter(nil, nil, true)

	t.Run("constructor and destructor kinds", func(t *testing.T) {
		assert.True(t, f.IsFalsePositive(cand("s1", "UserService", storage.KindConstructor, "src/a.ts")))
		assert.True(t, f.IsFalsePositive(cand("s2", "~UserService", storage.KindDestructor, "src/a.cs")))
	})

	t.Run("framework entity kinds", func(t *testing.T) {
		for _, ek := range []string{"controller", "route", "middleware", "command", "listener"} {
			c := withEntityKind(cand("s1", "handle", storage.KindMethod, "src/a.ts"), ek)
			assert.True(t, f.IsFalsePositive(c), "entity kind %s", ek)
		}
		c := withEntityKind(cand("s1", "obscureName", storage.KindMethod, "src/a.ts"), "repository")
		assert.False(t, f.IsFalsePositive(c))
	})

	t.Run("configured names", func(t *testing.T) {
		assert.True(t, f.IsFalsePositive(cand("s1", "main", storage.KindFunction, "src/a.ts")))
		assert.True(t, f.IsFalsePositive(cand("s2", "bootstrap", storage.KindFunction, "src/a.ts")))
		assert.False(t, f.IsFalsePositive(cand("s3", "mainframe", storage.KindFunction, "src/a.ts")))
	})
}

func TestFilterFrameworkCallbacks(t *testing.T) {
	f := newFilter(nil, nil, true)

	c := withSignature(cand("s1", "setup", storage.KindMethod, "src/a.ts"), "onModuleInit(): void")
	assert.True(t, f.IsFalsePositive(c))

	c = withSignature(cand("s2", "get_queryset", storage.KindMethod, "src/views.py"), "def get_queryset(self):")
	assert.True(t, f.IsFalsePositive(c))

	c = cand("s3", "setup", storage.KindMethod, "src/a.ts") // no signature
	assert.False(t, f.IsFalsePositive(c))
}

func TestFilterTestArtifacts(t *testing.T) {
	f := newFilter(nil, nil, true)

	t.Run("by path", func(t *testing.T) {
		assert.True(t, f.IsFalsePositive(cand("s1", "seedUsers", storage.KindFunction, "src/user.spec.ts")))
		assert.True(t, f.IsFalsePositive(cand("s2", "seedUsers", storage.KindFunction, "src/tests/seed.ts")))
		assert.True(t, f.IsFalsePositive(cand("s3", "Seed", storage.KindMethod, "src/UserTests.cs")))
	})

	t.Run("by name", func(t *testing.T) {
		assert.True(t, f.IsFalsePositive(cand("s1", "test_login", storage.KindFunction, "src/helpers.py")))
		assert.True(t, f.IsFalsePositive(cand("s2", "setUp", storage.KindMethod, "src/helpers.py")))
	})

	t.Run("by signature annotation", func(t *testing.T) {
		c := withSignature(cand("s1", "CreatesUser", storage.KindMethod, "src/a.cs"), "[Fact] public void CreatesUser()")
		assert.True(t, f.IsFalsePositive(c))
	})

	t.Run("plain symbol in plain path survives", func(t *testing.T) {
		assert.False(t, f.IsFalsePositive(cand("s1", "seedUsers", storage.KindFunction, "src/user.ts")))
	})
}

func TestFilterImplicitCallables(t *testing.T) {
	f := newFilter(nil, nil, true)

	t.Run("by kind", func(t *testing.T) {
		assert.True(t, f.IsFalsePositive(cand("s1", "name", storage.KindGetter, "src/a.ts")))
		assert.True(t, f.IsFalsePositive(cand("s2", "name", storage.KindSetter, "src/a.ts")))
		assert.True(t, f.IsFalsePositive(cand("s3", "name", storage.KindProperty, "src/a.cs")))
	})

	t.Run("by accessor signature", func(t *testing.T) {
		c := withSignature(cand("s1", "fullName", storage.KindMethod, "src/a.ts"), "get fullName() { return ... }")
		assert.True(t, f.IsFalsePositive(c))
	})

	t.Run("get name requires accessor syntax", func(t *testing.T) {
		// get-prefixed name with an empty parameter list: excluded.
		c := withSignature(cand("s1", "getName", storage.KindMethod, "src/a.ts"), "getName(): string")
		assert.True(t, f.IsFalsePositive(c))

		// get-prefixed name taking parameters: an ordinary method, kept.
		c = withSignature(cand("s2", "getUser", storage.KindMethod, "src/a.ts"), "getUser(id: string): User")
		assert.False(t, f.IsFalsePositive(c))

		// Accessor-looking signature without the naming convention: kept.
		c = withSignature(cand("s3", "refresh", storage.KindMethod, "src/a.ts"), "refresh(): void")
		assert.False(t, f.IsFalsePositive(c))
	})
}

func TestFilterSignalHandlers(t *testing.T) {
	f := newFilter(nil, nil, true)

	assert.True(t, f.IsFalsePositive(cand("s1", "onUserCreated", storage.KindMethod, "src/a.ts")))
	assert.True(t, f.IsFalsePositive(withSignature(
		cand("s2", "created", storage.KindMethod, "src/a.py"), "@receiver(post_save, sender=User)",
	)))
	assert.False(t, f.IsFalsePositive(cand("s3", "once", storage.KindFunction, "src/a.ts")))
}

func TestFilterDeprecated(t *testing.T) {
	f := newFilter(nil, nil, true)

	assert.True(t, f.IsFalsePositive(withSignature(
		cand("s1", "oldApi", storage.KindFunction, "src/a.ts"), "/** @deprecated */ oldApi(): void",
	)))
	assert.True(t, f.IsFalsePositive(withSignature(
		cand("s2", "OldApi", storage.KindMethod, "src/a.cs"), `[Obsolete("use V2")] public void OldApi()`,
	)))
}

func TestFilterExplicitInterfaceImpls(t *testing.T) {
	f := newFilter(nil, nil, true)

	assert.True(t, f.IsFalsePositive(withSignature(
		cand("s1", "Dispose", storage.KindMethod, "src/a.cs"), "void IDisposable.Dispose()",
	)))
	assert.False(t, f.IsFalsePositive(withSignature(
		cand("s2", "Dispose", storage.KindMethod, "src/a.cs"), "public void Dispose()",
	)))
}

func TestFilterMonotonicity(t *testing.T) {
	exported := graph.SymbolSet{"e1": true, "e2": true}
	candidates := []graph.Candidate{
		cand("e1", "formatPrice", storage.KindFunction, "src/a.ts"),
		cand("e2", "parsePrice", storage.KindFunction, "src/a.ts"),
		cand("p1", "internalHelper", storage.KindFunction, "src/a.ts"),
	}

	without := NewFilter(rules.Default(), nil, exported, false).Apply(candidates)
	with := NewFilter(rules.Default(), nil, exported, true).Apply(candidates)

	// includeExports=true yields a superset, differing only in exported
	// symbols.
	withoutIDs := map[string]bool{}
	for _, c := range without {
		withoutIDs[c.ID] = true
	}
	for _, c := range without {
		assert.False(t, exported.Contains(c.ID))
	}
	for _, c := range with {
		if !withoutIDs[c.ID] {
			assert.True(t, exported.Contains(c.ID))
		}
	}
	assert.Len(t, without, 1)
	assert.Len(t, with, 3)
}
