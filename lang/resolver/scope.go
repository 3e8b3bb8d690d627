package resolver

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// SymbolKind classifies what a scope.Symbol names.
type SymbolKind int

const (
	SymType SymbolKind = iota
	SymVar
	SymFunction
	SymStruct
)

// Symbol is one name bound in a scope: a variable, a function, a struct, or
// (in the root scope only) a primitive type name reserved to block
// variables from shadowing it.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	TypeID  types.ID
	Mutable bool
	Pos     token.Position
}

// scope is one lexical block's bindings, linked to its enclosing scope.
type scope struct {
	bindings map[string]*Symbol
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]*Symbol), parent: parent}
}

// define adds sym to s, returning false if the name is already bound in
// this exact scope (shadowing an outer scope's binding is always allowed).
func (s *scope) define(sym *Symbol) bool {
	if _, ok := s.bindings[sym.Name]; ok {
		return false
	}
	s.bindings[sym.Name] = sym
	return true
}

// lookup searches s and its ancestors for name.
func (s *scope) lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.bindings[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// names returns the names bound directly in s, sorted for determinism.
// Map iteration order is randomized by the runtime, which makes it unfit
// for anything that gets compared or printed; this is what a debug dump of
// a scope, or a test asserting on the set of top-level bindings, needs
// instead.
func (s *scope) names() []string {
	names := maps.Keys(s.bindings)
	slices.Sort(names)
	return names
}
