package value

import (
	"fmt"
	"sort"

	"github.com/xvandervort/graphoid/internal/gerr"
)

// List is the handle variant described in this design: a Graph whose
// nodes form a linear chain of "next" edges, plus the id bookkeeping
// needed for O(1) length and O(n) positional access without walking
// edges every time.
type List struct {
	g      *Graph
	ids    []string
	nextID int
}

// NewList builds a list graph containing elems in order.
func NewList(elems []Value) *List {
	l := &List{g: NewGraph("directed")}
	for _, e := range elems {
		_ = l.appendEnd(e)
	}
	return l
}

// Underlying exposes the backing Graph (for `graph.match`-style
// builtins that want to treat a list as a graph, and for Clone).
func (l *List) Underlying() *Graph { return l.g }

func (l *List) freshID() string {
	id := fmt.Sprintf("n%d", l.nextID)
	l.nextID++
	return id
}

func (l *List) appendEnd(v Value) error {
	id := l.freshID()
	if _, err := l.g.AddNode(id, v); err != nil {
		return err
	}
	if n := len(l.ids); n > 0 {
		if err := l.g.AddEdge(l.ids[n-1], id, "next", nil, nil); err != nil {
			return err
		}
	}
	l.ids = append(l.ids, id)
	return nil
}

// Len returns the list's length, always equal to its underlying
// graph's data-node count.
func (l *List) Len() int { return len(l.ids) }

// At returns the element at a 0-based index.
func (l *List) At(i int) (Value, error) {
	if i < 0 || i >= len(l.ids) {
		return Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "index %d out of range (len %d)", i, len(l.ids))
	}
	return l.g.Nodes[l.ids[i]].Value, nil
}

// Elements returns every element in order.
func (l *List) Elements() []Value {
	out := make([]Value, len(l.ids))
	for i, id := range l.ids {
		out[i] = l.g.Nodes[id].Value
	}
	return out
}

// Clone returns a deep, independent copy (new backing graph, own ids) —
// including any rules, behaviors, and ordering comparator installed on
// the list, so a pure method built on Clone (append, sort, ...) keeps
// enforcing them on the value it returns.
func (l *List) Clone() *List {
	return &List{g: l.g.Clone(), ids: append([]string(nil), l.ids...), nextID: l.nextID}
}

// AppendInPlace is the `!`-suffixed mutating append: it runs the
// list's behaviors then rules on v via Graph.AddNode, and — when an
// ordering behavior has set OrderCmp — inserts v at the sorted
// position rather than at the end.
func (l *List) AppendInPlace(v Value) error {
	id := l.freshID()
	stored, err := l.g.AddNode(id, v)
	if err != nil {
		return err
	}
	if l.g.OrderCmp == nil {
		if n := len(l.ids); n > 0 {
			if err := l.g.AddEdge(l.ids[n-1], id, "next", nil, nil); err != nil {
				return err
			}
		}
		l.ids = append(l.ids, id)
		return nil
	}
	pos, err := l.sortedPosition(stored)
	if err != nil {
		return err
	}
	return l.linkAt(pos, id)
}

// sortedPosition binary-searches for the insertion point that keeps
// the list sorted by Graph.OrderCmp.
func (l *List) sortedPosition(v Value) (int, error) {
	var searchErr error
	pos := sort.Search(len(l.ids), func(i int) bool {
		if searchErr != nil {
			return true
		}
		less, err := l.g.OrderCmp(v, l.g.Nodes[l.ids[i]].Value)
		if err != nil {
			searchErr = err
			return true
		}
		return less
	})
	return pos, searchErr
}

// linkAt splices node id into position pos of the chain, rewiring the
// surrounding "next" edges.
func (l *List) linkAt(pos int, id string) error {
	if pos > 0 && pos < len(l.ids) {
		delete(l.g.Nodes[l.ids[pos-1]].Neighbors, l.ids[pos])
	}
	if pos > 0 {
		if err := l.g.AddEdge(l.ids[pos-1], id, "next", nil, nil); err != nil {
			return err
		}
	}
	if pos < len(l.ids) {
		if err := l.g.AddEdge(id, l.ids[pos], "next", nil, nil); err != nil {
			return err
		}
	}
	l.ids = append(l.ids, "")
	copy(l.ids[pos+1:], l.ids[pos:])
	l.ids[pos] = id
	return nil
}

// StableReorder re-sorts the list's current elements in place by cmp,
// stably, and rewires the underlying "next" chain to match the new
// order. Used when installing `:ordering(cmp)`/`:maintain_order` onto a
// list that already holds elements ("upon install, existing elements
// are sorted stably").
func (l *List) StableReorder(cmp func(a, b Value) (bool, error)) error {
	type entry struct {
		id string
		v  Value
	}
	entries := make([]entry, len(l.ids))
	for i, id := range l.ids {
		entries[i] = entry{id: id, v: l.g.Nodes[id].Value}
	}
	var sortErr error
	sort.SliceStable(entries, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := cmp(entries[i].v, entries[j].v)
		if err != nil {
			sortErr = err
			return false
		}
		return less
	})
	if sortErr != nil {
		return sortErr
	}
	newIDs := make([]string, len(entries))
	for i, e := range entries {
		newIDs[i] = e.id
	}
	for i, id := range newIDs {
		rec := l.g.Nodes[id]
		rec.Neighbors = map[string]*EdgeInfo{}
		if i+1 < len(newIDs) {
			rec.Neighbors[newIDs[i+1]] = &EdgeInfo{EdgeType: "next"}
		}
	}
	l.ids = newIDs
	return nil
}

// Compact drops ids whose nodes are gone from the backing graph (a
// retroactive rule clean removes nodes without going through the list
// handle) and rewires the "next" chain over the survivors.
func (l *List) Compact() {
	survivors := l.ids[:0]
	for _, id := range l.ids {
		if _, ok := l.g.Nodes[id]; ok {
			survivors = append(survivors, id)
		}
	}
	l.ids = survivors
	for i, id := range l.ids {
		rec := l.g.Nodes[id]
		rec.Neighbors = map[string]*EdgeInfo{}
		if i+1 < len(l.ids) {
			rec.Neighbors[l.ids[i+1]] = &EdgeInfo{EdgeType: "next"}
		}
	}
}

// SetAt replaces the element at index i (running behaviors but not
// the add-node rule set, since the slot already exists).
func (l *List) SetAt(i int, v Value) error {
	if i < 0 || i >= len(l.ids) {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "index %d out of range (len %d)", i, len(l.ids))
	}
	transformed, err := l.g.applyBehaviors(v)
	if err != nil {
		return err
	}
	l.g.Nodes[l.ids[i]].Value = transformed
	return nil
}

// InsertAt inserts v at position i (0 <= i <= Len()), running the
// list's behaviors then rules via Graph.AddNode the same way append
// does, then splicing the new node into the chain at i.
func (l *List) InsertAt(i int, v Value) error {
	if i < 0 || i > len(l.ids) {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "index %d out of range (len %d)", i, len(l.ids))
	}
	id := l.freshID()
	if _, err := l.g.AddNode(id, v); err != nil {
		return err
	}
	return l.linkAt(i, id)
}

// ReorderInPlace rewrites the list's values, index for index, to
// order (same length as the list) — used by the mutating `reverse!`/
// `sort!` methods, which rearrange existing elements rather than
// inserting new ones.
func (l *List) ReorderInPlace(order []Value) error {
	if len(order) != len(l.ids) {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "reorder length %d does not match list length %d", len(order), len(l.ids))
	}
	for i, v := range order {
		if err := l.SetAt(i, v); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAt deletes the element at index i.
func (l *List) RemoveAt(i int) error {
	if i < 0 || i >= len(l.ids) {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "index %d out of range (len %d)", i, len(l.ids))
	}
	id := l.ids[i]
	if err := l.g.RemoveNode(id); err != nil {
		return err
	}
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	if i > 0 && i < len(l.ids) {
		_ = l.g.AddEdge(l.ids[i-1], l.ids[i], "next", nil, nil)
	}
	return nil
}

// Slice returns a new List over elements [from, to).
func (l *List) Slice(from, to int) *List {
	if from < 0 {
		from = 0
	}
	if to > len(l.ids) {
		to = len(l.ids)
	}
	if from >= to {
		return NewList(nil)
	}
	return NewList(l.Elements()[from:to])
}
