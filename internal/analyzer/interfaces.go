package analyzer

import "deadscope/internal/graph"

// InterfaceAnalyzer answers interface-membership questions about candidate
// symbols. Built once per run from the implementation-pair list and the
// zero-caller candidate id set; all lookups are O(1).
type InterfaceAnalyzer struct {
	// interfaceByImpl maps an implementing method's symbol id to the name
	// of the interface it satisfies. First pair wins for symbols that
	// implement several interfaces.
	interfaceByImpl map[string]string
	candidates      graph.SymbolSet
}

// NewInterfaceAnalyzer indexes the pair list against the candidate set.
func NewInterfaceAnalyzer(pairs []graph.InterfaceImplementationPair, candidates graph.SymbolSet) *InterfaceAnalyzer {
	byImpl := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, seen := byImpl[p.ImplSymbolID]; !seen {
			byImpl[p.ImplSymbolID] = p.InterfaceName
		}
	}
	return &InterfaceAnalyzer{interfaceByImpl: byImpl, candidates: candidates}
}

// ImplementsInterface reports whether the symbol is a matched interface
// method implementation.
func (a *InterfaceAnalyzer) ImplementsInterface(symbolID string) bool {
	_, ok := a.interfaceByImpl[symbolID]
	return ok
}

// InterfaceInfo returns the name of the interface the symbol implements.
func (a *InterfaceAnalyzer) InterfaceInfo(symbolID string) (string, bool) {
	name, ok := a.interfaceByImpl[symbolID]
	return name, ok
}

// IsInterfaceBloat reports whether the symbol implements an interface method
// that nothing ever calls, directly or via the interface.
func (a *InterfaceAnalyzer) IsInterfaceBloat(symbolID string) bool {
	return a.ImplementsInterface(symbolID) && a.candidates.Contains(symbolID)
}
