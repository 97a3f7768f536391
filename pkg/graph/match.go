package graph

import (
	"sort"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/value"
)

// Match implements this design: pattern is a flattened sequence
// [N1, E1, N2, E2, N3, ...] alternating value.Value of Kind
// PatternNode and Kind PatternEdge|PatternPath. It returns every
// complete match, in backtracking-search order (a stable order for a
// given graph, per this design).
//
// Variable-length PatternPath hops are resolved by bounded breadth-
// first expansion over (node, hop-count) states (see pathCandidates),
// so a node matches when any walk with a length in [min, max] reaches
// it. End nodes are collected as a set rather than by enumerating
// every walk, which avoids the combinatorial blowup of walk
// enumeration in a graph with cycles.
func Match(g *value.Graph, pattern []value.Value) (*value.MatchResults, error) {
	if len(pattern) == 0 || len(pattern)%2 == 0 {
		return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "graph pattern must alternate node/edge starting and ending on a node")
	}
	nodes := make([]*value.PatternNode, 0, len(pattern)/2+1)
	connectors := make([]value.Value, 0, len(pattern)/2)
	for i, elem := range pattern {
		if i%2 == 0 {
			if elem.Kind != value.KindPatternNode {
				return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "pattern position %d must be a pattern node", i)
			}
			nodes = append(nodes, elem.PNode)
		} else {
			if elem.Kind != value.KindPatternEdge && elem.Kind != value.KindPatternPath {
				return nil, gerr.New(gerr.RuntimeError, gerr.Position{}, "pattern position %d must be a pattern edge or path", i)
			}
			connectors = append(connectors, elem)
		}
	}

	m := &matcher{g: g, nodes: nodes, connectors: connectors, results: &value.MatchResults{Source: g}}
	for _, id := range dataIDsSorted(g) {
		if !nodeMatchesType(g, id, nodes[0].Type) {
			continue
		}
		bindings := map[string]string{}
		if nodes[0].Var != "" {
			bindings[nodes[0].Var] = id
		}
		m.extend(0, id, bindings)
	}
	return m.results, nil
}

type matcher struct {
	g          *value.Graph
	nodes      []*value.PatternNode
	connectors []value.Value
	results    *value.MatchResults
}

func (m *matcher) extend(connIdx int, curID string, bindings map[string]string) {
	if connIdx == len(m.connectors) {
		out := map[string]string{}
		for k, v := range bindings {
			out[k] = v
		}
		m.results.Bindings = append(m.results.Bindings, out)
		return
	}
	nextConstraint := m.nodes[connIdx+1]
	connector := m.connectors[connIdx]

	candidates := map[string]bool{}
	if connector.Kind == value.KindPatternEdge {
		for _, cand := range m.edgeCandidates(curID, connector.PEdge) {
			candidates[cand] = true
		}
	} else {
		for cand := range m.pathCandidates(curID, connector.PPath) {
			candidates[cand] = true
		}
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !nodeMatchesType(m.g, id, nextConstraint.Type) {
			continue
		}
		if nextConstraint.Var != "" {
			if bound, ok := bindings[nextConstraint.Var]; ok && bound != id {
				continue // repeated variable must bind the same node (value.MatchResults semantics)
			}
		}
		next := map[string]string{}
		for k, v := range bindings {
			next[k] = v
		}
		if nextConstraint.Var != "" {
			next[nextConstraint.Var] = id
		}
		m.extend(connIdx+1, id, next)
	}
}

// edgeCandidates returns every node reachable from cur by one hop
// honoring the edge's type constraint and direction.
func (m *matcher) edgeCandidates(cur string, pe *value.PatternEdge) []string {
	var out []string
	dir := pe.Direction
	if dir == "" {
		dir = "outgoing"
	}
	if dir == "outgoing" || dir == "both" {
		for n, e := range m.g.Nodes[cur].Neighbors {
			if !m.g.IsReservedNode(n) && edgeTypeMatches(e.EdgeType, pe.EdgeType) {
				out = append(out, n)
			}
		}
	}
	if dir == "incoming" || dir == "both" {
		for _, id := range dataIDsSorted(m.g) {
			if e, ok := m.g.Nodes[id].Neighbors[cur]; ok && edgeTypeMatches(e.EdgeType, pe.EdgeType) {
				out = append(out, id)
			}
		}
	}
	return out
}

// pathCandidates returns every node reachable from cur by a walk whose
// length falls in [pp.Min, pp.Max], honoring direction and edge-type
// constraints, including cur itself when pp.Min == 0 (the zero-length
// path case, this design and DESIGN.md's Open Question decision).
//
// Breadth-first expansion bounded by max, permitting revisits within
// the bound: a node is re-enqueued at every distinct hop count it is
// reachable at, so a cycle can legitimately satisfy a bound the
// shortest walk does not reach (A→B, B→C, C→B matches B at both 1 and
// 3 hops). Visited states are (node, depth) pairs, never bare nodes.
func (m *matcher) pathCandidates(cur string, pp *value.PatternPath) map[string]bool {
	min, max := pp.Min, pp.Max
	if min < 0 {
		min = 0
	}
	// Any walk longer than min+|V| contains an excisable simple cycle
	// (length <= |V|) whose removal leaves a walk still of length >= min,
	// so membership in [min, max] is decided within min+|V| hops. This
	// caps the unbounded-max case and keeps the state space finite.
	limit := max
	if bound := min + len(m.g.DataNodeIDs(false)); max <= 0 || max > bound {
		limit = bound
	}
	out := map[string]bool{}
	if min == 0 {
		out[cur] = true
	}
	type hop struct {
		id    string
		depth int
	}
	seen := map[hop]bool{{cur, 0}: true}
	frontier := []string{cur}
	for depth := 1; depth <= limit && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, n := range m.pathNeighbors(id, pp) {
				st := hop{n, depth}
				if seen[st] {
					continue
				}
				seen[st] = true
				if depth >= min && (max <= 0 || depth <= max) {
					out[n] = true
				}
				next = append(next, n)
			}
		}
		frontier = next
	}
	return out
}

func (m *matcher) pathNeighbors(id string, pp *value.PatternPath) []string {
	dir := pp.Direction
	if dir == "" {
		dir = "outgoing"
	}
	var out []string
	if dir == "outgoing" || dir == "both" {
		for n, e := range m.g.Nodes[id].Neighbors {
			if !m.g.IsReservedNode(n) && edgeTypeMatches(e.EdgeType, pp.EdgeType) {
				out = append(out, n)
			}
		}
	}
	if dir == "incoming" || dir == "both" {
		for _, oid := range dataIDsSorted(m.g) {
			if e, ok := m.g.Nodes[oid].Neighbors[id]; ok && edgeTypeMatches(e.EdgeType, pp.EdgeType) {
				out = append(out, oid)
			}
		}
	}
	return out
}

func edgeTypeMatches(actual, constraint string) bool {
	return constraint == "" || actual == constraint
}

func nodeMatchesType(g *value.Graph, id, typeConstraint string) bool {
	if typeConstraint == "" {
		return true
	}
	rec, ok := g.Nodes[id]
	if !ok {
		return false
	}
	if rec.Value.Kind != value.KindHash {
		return false
	}
	tv, ok := rec.Value.Hash.Get("type")
	if !ok {
		return false
	}
	return tv.Str == typeConstraint
}

func dataIDsSorted(g *value.Graph) []string {
	ids := g.DataNodeIDs(false)
	sort.Strings(ids)
	return ids
}
