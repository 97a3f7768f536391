package value

import "sort"

// Hash is the handle variant described in this design: a Graph whose
// node ids are the hash's keys and whose node values are the hash's
// values. Edges are unused; a Hash is a flat key/value projection of
// a Graph, kept for the same sharing and cloning semantics as List
// and Graph.
type Hash struct {
	g *Graph
}

// NewHash builds a hash graph from entries, in iteration order of the
// supplied map (callers that need deterministic construction order
// should build incrementally with Set instead).
func NewHash(entries map[string]Value) *Hash {
	h := &Hash{g: NewGraph("directed")}
	for k, v := range entries {
		_, _ = h.g.AddNode(k, v)
	}
	return h
}

// Underlying exposes the backing Graph.
func (h *Hash) Underlying() *Graph { return h.g }

// Len returns the number of keys.
func (h *Hash) Len() int { return len(h.g.DataNodeIDs(false)) }

// Get looks up a key.
func (h *Hash) Get(key string) (Value, bool) {
	rec, ok := h.g.Nodes[key]
	if !ok {
		return Value{}, false
	}
	return rec.Value, true
}

// Set inserts or updates a key. New keys run behaviors+rules via
// Graph.AddNode; existing keys only run behaviors (an update is not a
// new-node mutation for rule purposes).
func (h *Hash) Set(key string, v Value) (Value, error) {
	if rec, ok := h.g.Nodes[key]; ok {
		transformed, err := h.g.applyBehaviors(v)
		if err != nil {
			return Value{}, err
		}
		rec.Value = transformed
		return transformed, nil
	}
	return h.g.AddNode(key, v)
}

// Delete removes a key.
func (h *Hash) Delete(key string) error { return h.g.RemoveNode(key) }

// Keys returns every key in sorted order.
func (h *Hash) Keys() []string {
	ids := h.g.DataNodeIDs(false)
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// Clone returns a deep, independent copy — including any rules or
// behaviors installed on the hash, the same contract List.Clone keeps.
func (h *Hash) Clone() *Hash {
	return &Hash{g: h.g.Clone()}
}

// Merge combines h with other; on key collision, other's value wins
// (this design: "on hashes merges (right wins)").
func (h *Hash) Merge(other *Hash) *Hash {
	out := h.Clone()
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		_, _ = out.Set(k, v)
	}
	return out
}
