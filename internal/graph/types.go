package graph

import "deadscope/internal/storage"

// Candidate is a symbol with zero incoming call edges, joined with its
// owning file path. CallerCount is computed per analysis run, never stored.
type Candidate struct {
	storage.Symbol
	FilePath    string
	CallerCount int
}

// InterfaceImplementationPair correlates an interface method symbol with the
// same-named method symbol of an implementing class. Derived per run by
// structural matching; never persisted.
type InterfaceImplementationPair struct {
	InterfaceID       string // symbol id of the interface type
	InterfaceName     string // interface type name
	InterfaceMethodID string // symbol id of the method on the interface
	MethodName        string // matched method name
	ClassID           string // symbol id of the implementing class
	ClassName         string // implementing class name
	ImplSymbolID      string // symbol id of the method on the implementing class
}

// SymbolSet is a membership set of symbol ids.
type SymbolSet map[string]bool

// Contains reports whether id is in the set. Safe on a nil set.
func (s SymbolSet) Contains(id string) bool {
	return s[id]
}
