// Package environment implements Graphoid's lexical scope chain
//: a mapping from name to value.Value with a pointer to
// a parent scope. Lookup walks parents; assignment to an existing name
// updates the scope that owns it; assignment to a new name defines it
// in the current scope.
package environment

import "github.com/xvandervort/graphoid/pkg/value"

// Scope is one lexical frame.
type Scope struct {
	vars   map[string]value.Value
	parent *Scope
}

// New creates a root scope with no parent (a module's or the
// top-level script's own root scope, this design).
func New() *Scope {
	return &Scope{vars: map[string]value.Value{}}
}

// Child creates a new scope whose parent is s. Function calls push a
// child of the function's *captured* scope, not the caller's.
func (s *Scope) Child() *Scope {
	return &Scope{vars: map[string]value.Value{}, parent: s}
}

// Get walks the parent chain looking for name.
func (s *Scope) Get(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Define binds name in this scope, shadowing any outer binding.
func (s *Scope) Define(name string, v value.Value) {
	s.vars[name] = v
}

// Assign updates an existing binding in whichever scope owns it. If
// name is not yet bound anywhere in the chain, it is defined in s (the
// current scope), matching this design's "assignment to a new name
// defines it in the current scope".
func (s *Scope) Assign(name string, v value.Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// Names returns every name bound directly in this scope (not parents)
// — used for module exports and `include()`.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.vars))
	for k := range s.vars {
		out = append(out, k)
	}
	return out
}

// Parent returns the enclosing scope, or nil at a root.
func (s *Scope) Parent() *Scope { return s.parent }
