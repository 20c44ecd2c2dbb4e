package analyzer

import (
	"regexp"
	"strings"

	"deadscope/internal/graph"
	"deadscope/internal/rules"
)

// entryPointEntityKinds are framework-level roles that are invoked by the
// framework itself, never by in-repo call edges.
var entryPointEntityKinds = map[string]bool{
	"controller": true,
	"route":      true,
	"middleware": true,
	"command":    true,
	"listener":   true,
}

// testPathMarkers are the path substrings that mark test artifacts.
// Must stay in sync with the store-side exclusion the candidate scan applies;
// the filter re-checks paths because includeTests=true still routes test
// symbols through rule 4's name/signature checks.
var testPathMarkers = []string{
	".test.",
	".spec.",
	"/tests/",
	"/test/",
	"/__tests__/",
	"_test.",
	"Test.",
	"Tests.",
}

// accessorSyntaxRe detects an accessor body with an empty parameter list,
// e.g. `get foo() {`, `Name() =>`, `name();`. Required in conjunction with
// the get/set naming convention so ordinary methods that merely sound like
// accessors are not swallowed.
var accessorSyntaxRe = regexp.MustCompile(`\(\s*\)\s*[{=:;]`)

// Filter removes zero-caller candidates that are plausibly live anyway:
// entry points, framework callbacks, tests, implicit callables, signal
// handlers, deprecated API surface, and explicit interface implementations.
// Eight rules, evaluated independently, logical OR; order never changes the
// outcome.
type Filter struct {
	rules          *rules.Config
	overrides      graph.SymbolSet
	exported       graph.SymbolSet
	includeExports bool
}

// NewFilter builds a filter over the given rule configuration and context
// sets. The sets are not copied; callers must not mutate them afterwards.
func NewFilter(cfg *rules.Config, overrides, exported graph.SymbolSet, includeExports bool) *Filter {
	return &Filter{
		rules:          cfg,
		overrides:      overrides,
		exported:       exported,
		includeExports: includeExports,
	}
}

// Apply returns the candidates that survive all exclusion rules.
func (f *Filter) Apply(candidates []graph.Candidate) []graph.Candidate {
	kept := []graph.Candidate{}
	for _, c := range candidates {
		if f.IsFalsePositive(c) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// IsFalsePositive reports whether the candidate should be treated as live
// despite having zero direct callers.
func (f *Filter) IsFalsePositive(c graph.Candidate) bool {
	return f.isExcludedExport(c) ||
		f.isEntryPoint(c) ||
		f.isFrameworkCallback(c) ||
		f.isTestArtifact(c) ||
		f.isImplicitCallable(c) ||
		f.isSignalHandler(c) ||
		f.isDeprecated(c) ||
		f.isExplicitInterfaceImpl(c)
}

// Rule 1: exported symbols are part of the public API surface and are only
// candidates when the caller opted in.
func (f *Filter) isExcludedExport(c graph.Candidate) bool {
	return !f.includeExports && f.exported.Contains(c.ID)
}

// Rule 2: entry points. Constructors and destructors are invoked by the
// runtime; controller/route/middleware/command/listener entities by the
// framework; configured entry-point names (main, handler, ...) by convention.
func (f *Filter) isEntryPoint(c graph.Candidate) bool {
	if c.Kind == "constructor" || c.Kind == "destructor" {
		return true
	}
	if c.EntityKind != nil && entryPointEntityKinds[*c.EntityKind] {
		return true
	}
	return f.rules.MatchName(rules.CategoryEntryPoint, c.Name)
}

// Rule 3: framework lifecycle callbacks, recognized by signature.
func (f *Filter) isFrameworkCallback(c graph.Candidate) bool {
	return f.rules.MatchSignature(rules.CategoryCallback, signature(c))
}

// Rule 4: test artifacts, by path convention, name convention, or test
// annotation in the signature.
func (f *Filter) isTestArtifact(c graph.Candidate) bool {
	if isTestPath(c.FilePath) {
		return true
	}
	if f.rules.MatchName(rules.CategoryTest, c.Name) {
		return true
	}
	return f.rules.MatchSignature(rules.CategoryTest, signature(c))
}

// Rule 5: implicitly callable members (property/getter/setter idiom). A
// get/set name alone is not enough; the conjunction with accessor syntax
// keeps ordinary zero-argument methods in the candidate pool.
func (f *Filter) isImplicitCallable(c graph.Candidate) bool {
	if rules.ImplicitKinds[c.Kind] {
		return true
	}
	sig := signature(c)
	if f.rules.MatchSignature(rules.CategoryImplicit, sig) {
		return true
	}
	return rules.MatchAccessorName(c.Name) && accessorSyntaxRe.MatchString(sig)
}

// Rule 6: signal/event handlers, by name or signature.
func (f *Filter) isSignalHandler(c graph.Candidate) bool {
	return f.rules.MatchName(rules.CategorySignal, c.Name) ||
		f.rules.MatchSignature(rules.CategorySignal, signature(c))
}

// Rule 7: symbols kept for API compatibility (deprecated/obsolete markers).
func (f *Filter) isDeprecated(c graph.Candidate) bool {
	return f.rules.MatchName(rules.CategoryDeprecated, c.Name) ||
		f.rules.MatchSignature(rules.CategoryDeprecated, signature(c))
}

// Rule 8: explicit interface implementations, only reachable through an
// interface reference.
func (f *Filter) isExplicitInterfaceImpl(c graph.Candidate) bool {
	return f.rules.MatchSignature(rules.CategoryExplicitIface, signature(c))
}

// isTestPath reports whether the path matches any test-path convention.
// Case-sensitive, matching the store-side GLOB exclusions.
func isTestPath(path string) bool {
	for _, marker := range testPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

func signature(c graph.Candidate) string {
	if c.Signature == nil {
		return ""
	}
	return *c.Signature
}
