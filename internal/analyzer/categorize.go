package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"deadscope/internal/graph"
	"deadscope/internal/storage"
)

// classKinds are symbol kinds categorized as dead_class.
var classKinds = map[string]bool{
	storage.KindClass:     true,
	storage.KindTypeAlias: true,
	storage.KindStruct:    true,
}

// methodEntityKinds mark method-like symbols when the kind column alone is
// not conclusive.
var methodEntityKinds = map[string]bool{
	"method":       true,
	"class_method": true,
}

// privateSignatureRe detects explicit visibility keywords in a signature.
var privateSignatureRe = regexp.MustCompile(`\b(private|protected)\b`)

// Categorizer assigns exactly one category to every surviving candidate.
// The decision chain is ordered most-specific-first; the first match wins.
type Categorizer struct {
	interfaces *InterfaceAnalyzer
	exported   graph.SymbolSet
}

// NewCategorizer builds a categorizer over the run's interface analysis and
// exported set.
func NewCategorizer(interfaces *InterfaceAnalyzer, exported graph.SymbolSet) *Categorizer {
	return &Categorizer{interfaces: interfaces, exported: exported}
}

// Categorize is total and deterministic: identical input always yields the
// same category, and every candidate gets one.
func (cz *Categorizer) Categorize(c graph.Candidate) Category {
	if cz.interfaces.IsInterfaceBloat(c.ID) {
		return CategoryInterfaceBloat
	}
	if cz.exported.Contains(c.ID) {
		return CategoryUnusedExport
	}
	if classKinds[c.Kind] || (c.EntityKind != nil && *c.EntityKind == "class") {
		return CategoryDeadClass
	}
	if cz.isOrphanedImplementation(c) {
		return CategoryOrphanedImplementation
	}
	if isMethodLike(c) {
		if isPrivate(c) {
			return CategoryDeadPrivateMethod
		}
		return CategoryDeadPublicMethod
	}
	return CategoryDeadFunction
}

// isOrphanedImplementation would flag implementations of interfaces that are
// themselves fully dead. Deliberately inert: the interface-liveness pass it
// depends on does not exist yet, and the slot in the chain must not change
// the categories around it in the meantime.
func (cz *Categorizer) isOrphanedImplementation(graph.Candidate) bool {
	return false
}

func isMethodLike(c graph.Candidate) bool {
	if c.Kind == storage.KindMethod {
		return true
	}
	return c.EntityKind != nil && methodEntityKinds[*c.EntityKind]
}

// isPrivate decides visibility: an explicit private/protected keyword in the
// signature wins; otherwise a `#` or `_` name prefix marks private; public
// is the default.
func isPrivate(c graph.Candidate) bool {
	if sig := signature(c); sig != "" && privateSignatureRe.MatchString(sig) {
		return true
	}
	return strings.HasPrefix(c.Name, "#") || strings.HasPrefix(c.Name, "_")
}

// GenerateReason renders the human-readable explanation for a finding.
// Reporting only; nothing downstream parses these.
func (cz *Categorizer) GenerateReason(c graph.Candidate, cat Category) string {
	switch cat {
	case CategoryInterfaceBloat:
		name, _ := cz.interfaces.InterfaceInfo(c.ID)
		return fmt.Sprintf("implements %s but is never called, directly or through the interface", name)
	case CategoryUnusedExport:
		return fmt.Sprintf("exported %s %q has no callers in this repository", c.Kind, c.Name)
	case CategoryDeadClass:
		return fmt.Sprintf("%s %q is never instantiated or referenced", c.Kind, c.Name)
	case CategoryOrphanedImplementation:
		return fmt.Sprintf("%q implements an interface that is itself dead", c.Name)
	case CategoryDeadPrivateMethod:
		return fmt.Sprintf("private method %q is never called within its class", c.Name)
	case CategoryDeadPublicMethod:
		return fmt.Sprintf("public method %q has no callers", c.Name)
	default:
		return fmt.Sprintf("function %q is never called", c.Name)
	}
}
