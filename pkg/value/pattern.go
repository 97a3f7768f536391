package value

import "sort"

// PatternNode is a node constraint produced by the `node(...)`
// built-in pattern constructor.
type PatternNode struct {
	Var  string
	Type string // "" = unconstrained
}

// PatternEdge is a single-hop edge constraint produced by `edge(...)`.
type PatternEdge struct {
	EdgeType  string // "" = unconstrained
	Direction string // "outgoing" | "incoming" | "both"
}

// PatternPath is a variable-length edge constraint produced by
// `path(...)`.
type PatternPath struct {
	EdgeType  string
	Min, Max  int
	Direction string
}

// MatchResults is the value returned by graph.match(...) (this design
// §4.4.8): a reproducible-order collection of variable→node-id
// bindings, plus the source graph so `where`/`return_properties` can
// look up node values.
type MatchResults struct {
	Bindings []map[string]string
	Source   *Graph
}

// Where retains only bindings for which predicate is truthy. The
// predicate receives the binding as a Hash keyed by pattern variable
// name, mapping to each bound node's Value.
func (m *MatchResults) Where(predicate func(binding map[string]Value) (bool, error)) (*MatchResults, error) {
	out := &MatchResults{Source: m.Source}
	for _, b := range m.Bindings {
		vb := m.bindingValues(b)
		ok, err := predicate(vb)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Bindings = append(out.Bindings, b)
		}
	}
	return out, nil
}

func (m *MatchResults) bindingValues(b map[string]string) map[string]Value {
	out := map[string]Value{}
	for k, id := range b {
		if rec, ok := m.Source.Nodes[id]; ok {
			out[k] = rec.Value
		} else {
			out[k] = None()
		}
	}
	return out
}

// ReturnVars projects each binding down to the listed variable names,
// returning a List of Hashes.
func (m *MatchResults) ReturnVars(names []string) *List {
	rows := make([]Value, 0, len(m.Bindings))
	for _, b := range m.Bindings {
		entries := map[string]Value{}
		for _, n := range names {
			if id, ok := b[n]; ok {
				if rec, ok := m.Source.Nodes[id]; ok {
					entries[n] = rec.Value
				} else {
					entries[n] = None()
				}
			}
		}
		rows = append(rows, FromHash(NewHash(entries)))
	}
	return NewList(rows)
}

// ReturnProperties projects by looking up "var.prop"-style paths
// against each bound node's Value (which must itself be a Hash for
// the property to resolve; otherwise the entry is none).
func (m *MatchResults) ReturnProperties(paths []string) *List {
	rows := make([]Value, 0, len(m.Bindings))
	for _, b := range m.Bindings {
		entries := map[string]Value{}
		for _, p := range paths {
			varName, prop, ok := splitVarProp(p)
			if !ok {
				continue
			}
			id, ok := b[varName]
			if !ok {
				entries[p] = None()
				continue
			}
			rec, ok := m.Source.Nodes[id]
			if !ok {
				entries[p] = None()
				continue
			}
			if rec.Value.Kind == KindHash {
				if v, ok := rec.Value.Hash.Get(prop); ok {
					entries[p] = v
					continue
				}
			}
			entries[p] = None()
		}
		rows = append(rows, FromHash(NewHash(entries)))
	}
	return NewList(rows)
}

func splitVarProp(path string) (varName, prop string, ok bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return "", "", false
}

// SortedVars returns the set of variable names bound across every
// match, in a stable sorted order (diagnostic/iteration convenience).
func (m *MatchResults) SortedVars() []string {
	set := map[string]bool{}
	for _, b := range m.Bindings {
		for k := range b {
			set[k] = true
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
