// Package rule is Graphoid's rule engine catalog: the
// built-in RuleSpecs and the ruleset installers (:tree, :binary_tree,
// :bst, :dag) that `graph.with_ruleset(...)` and `tree{}` install.
// The RuleInstance/RuleSpec machinery itself lives in pkg/value (see
// DESIGN.md for why); this package is just the catalog of named
// constraint kinds, factored out for its size.
package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xvandervort/graphoid/pkg/builtin"
	"github.com/xvandervort/graphoid/pkg/value"
)

// Spec looks up a built-in rule spec by name (the bare keyword used in
// `add_rule(:name, ...)`), or nil if name is unknown.
func Spec(name string) *value.RuleSpec {
	switch name {
	case "no_cycles":
		return noCyclesSpec
	case "single_root":
		return singleRootSpec
	case "connected":
		return connectedSpec
	case "no_duplicates":
		return noDuplicatesSpec
	case "positive":
		return positiveSpec
	case "max_degree":
		return maxDegreeSpec
	case "weighted_edges":
		return weightedEdgesSpec
	case "unweighted_edges":
		return unweightedEdgesSpec
	case "no_node_additions":
		return methodConstraintSpec("no_node_additions", func(before, after snapshot) bool { return after.nodes > before.nodes })
	case "no_node_removals":
		return methodConstraintSpec("no_node_removals", func(before, after snapshot) bool { return after.nodes < before.nodes })
	case "no_edge_additions":
		return methodConstraintSpec("no_edge_additions", func(before, after snapshot) bool { return after.edges > before.edges })
	case "no_edge_removals":
		return methodConstraintSpec("no_edge_removals", func(before, after snapshot) bool { return after.edges < before.edges })
	case "read_only":
		return methodConstraintSpec("read_only", func(before, after snapshot) bool {
			return after.nodes != before.nodes || after.edges != before.edges
		})
	default:
		if strings.HasPrefix(name, "max_children_") {
			n, err := strconv.Atoi(strings.TrimPrefix(name, "max_children_"))
			if err != nil {
				return nil
			}
			return maxChildrenSpec(name, n)
		}
		return nil
	}
}

// maxChildrenSpec is the :max_children_N family — the out-degree-only
// variant of :max_degree for directed graphs.
func maxChildrenSpec(name string, limit int) *value.RuleSpec {
	return &value.RuleSpec{
		Name: name,
		Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
			if op.Kind != value.OpAddEdge {
				return nil
			}
			if outDegree(g, op.FromID)+1 > limit {
				return &value.RuleFailure{Reason: fmt.Sprintf("node %s would exceed %s", op.FromID, name)}
			}
			return nil
		},
	}
}

func outDegree(g *value.Graph, id string) int {
	rec, ok := g.Nodes[id]
	if !ok {
		return 0
	}
	n := 0
	for to := range rec.Neighbors {
		if !g.IsReservedNode(to) {
			n++
		}
	}
	return n
}

var noCyclesSpec = &value.RuleSpec{
	Name: "no_cycles",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind != value.OpAddEdge {
			return nil
		}
		if wouldCreateCycle(g, op.FromID, op.ToID) {
			return &value.RuleFailure{Reason: fmt.Sprintf("edge %s -> %s would create a cycle", op.FromID, op.ToID)}
		}
		return nil
	},
}

// wouldCreateCycle checks whether `to` can already reach `from`; if so
// adding from->to closes a cycle.
func wouldCreateCycle(g *value.Graph, from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{}
	var walk func(id string) bool
	walk = func(id string) bool {
		if id == from {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		rec, ok := g.Nodes[id]
		if !ok {
			return false
		}
		for n := range rec.Neighbors {
			if walk(n) {
				return true
			}
		}
		return false
	}
	return walk(to)
}

var singleRootSpec = &value.RuleSpec{
	Name: "single_root",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		switch op.Kind {
		case value.OpAddEdge, value.OpRemoveNode, value.OpRemoveEdge:
			// Checked against the post-mutation state; a fresh node added
			// before its parent edge is a transient root and is allowed.
			if countRootsAfter(g, op) > 1 {
				return &value.RuleFailure{Reason: "graph would have more than one root"}
			}
		}
		return nil
	},
}

// countRootsAfter counts predecessor-less data nodes as they would
// stand once op is applied.
func countRootsAfter(g *value.Graph, op value.Operation) int {
	hasIncoming := map[string]bool{}
	for _, id := range g.DataNodeIDs(false) {
		if op.Kind == value.OpRemoveNode && id == op.NodeID {
			continue
		}
		for n := range g.Nodes[id].Neighbors {
			if g.IsReservedNode(n) {
				continue
			}
			if op.Kind == value.OpRemoveNode && n == op.NodeID {
				continue
			}
			if op.Kind == value.OpRemoveEdge && id == op.FromID && n == op.ToID {
				continue
			}
			hasIncoming[n] = true
		}
	}
	if op.Kind == value.OpAddEdge {
		hasIncoming[op.ToID] = true
	}
	count := 0
	for _, id := range g.DataNodeIDs(false) {
		if op.Kind == value.OpRemoveNode && id == op.NodeID {
			continue
		}
		if !hasIncoming[id] {
			count++
		}
	}
	return count
}

var connectedSpec = &value.RuleSpec{
	Name: "connected",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind != value.OpRemoveEdge && op.Kind != value.OpRemoveNode {
			return nil
		}
		if !weaklyConnectedAfter(g, op) {
			return &value.RuleFailure{Reason: "graph would become disconnected"}
		}
		return nil
	},
}

// weaklyConnectedAfter simulates the removal op and checks weak
// connectivity of what remains: edges are followed in both directions
// (weak connectivity ignores edge direction), the removed node/edge is
// skipped.
func weaklyConnectedAfter(g *value.Graph, op value.Operation) bool {
	removedNode := ""
	if op.Kind == value.OpRemoveNode {
		removedNode = op.NodeID
	}
	skipEdge := func(from, to string) bool {
		if op.Kind != value.OpRemoveEdge {
			return false
		}
		if from == op.FromID && to == op.ToID {
			return true
		}
		return g.Type == "undirected" && from == op.ToID && to == op.FromID
	}

	// undirected adjacency over the surviving data layer
	adj := map[string][]string{}
	var ids []string
	for _, id := range g.DataNodeIDs(false) {
		if id == removedNode {
			continue
		}
		ids = append(ids, id)
		for to := range g.Nodes[id].Neighbors {
			if g.IsReservedNode(to) || to == removedNode || skipEdge(id, to) {
				continue
			}
			adj[id] = append(adj[id], to)
			adj[to] = append(adj[to], id)
		}
	}
	if len(ids) <= 1 {
		return true
	}
	visited := map[string]bool{ids[0]: true}
	queue := []string{ids[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(visited) >= len(ids)
}

// Dedup checks bucket values by their secure_hash digest
// (builtin.SecureHash, blake2b over the canonical display form) so
// only hash-colliding candidates pay for a structural Equals: distinct
// display forms can never be structurally equal, but equal display
// forms can still differ in kind (the string "1" vs the number 1), so
// a bucket hit always confirms with Equals.
var noDuplicatesSpec = &value.RuleSpec{
	Name: "no_duplicates",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind != value.OpAddNode {
			return nil
		}
		candidate, _ := builtin.SecureHash(op.Value)
		for _, id := range g.DataNodeIDs(false) {
			if id == op.NodeID {
				continue
			}
			h, _ := builtin.SecureHash(g.Nodes[id].Value)
			if h == candidate && value.Equals(g.Nodes[id].Value, op.Value) {
				return &value.RuleFailure{Reason: "duplicate node value"}
			}
		}
		return nil
	},
	Clean: func(g *value.Graph, _ map[string]value.Value) error {
		seen := map[string][]value.Value{}
		for _, id := range g.DataNodeIDs(false) {
			v := g.Nodes[id].Value
			h, _ := builtin.SecureHash(v)
			dup := false
			for _, s := range seen[h] {
				if value.Equals(s, v) {
					dup = true
					break
				}
			}
			if dup {
				if err := g.RemoveNode(id); err != nil {
					return err
				}
				continue
			}
			seen[h] = append(seen[h], v)
		}
		return nil
	},
}

// positiveSpec is the :positive rule: rejects inserting a negative
// number (non-number values pass through untouched, same convention
// the :positive behavior uses for non-numbers).
var positiveSpec = &value.RuleSpec{
	Name: "positive",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind != value.OpAddNode {
			return nil
		}
		if op.Value.Kind == value.KindNumber && op.Value.Num < 0 {
			return &value.RuleFailure{Reason: fmt.Sprintf("value %v violates :positive", op.Value.Num)}
		}
		return nil
	},
}

var maxDegreeSpec = &value.RuleSpec{
	Name: "max_degree",
	Validate: func(g *value.Graph, op value.Operation, params map[string]value.Value) *value.RuleFailure {
		if op.Kind != value.OpAddEdge {
			return nil
		}
		n, ok := params["n"]
		if !ok || n.Kind != value.KindNumber {
			return nil
		}
		limit := int(n.Num)
		// The new edge raises both endpoints' degrees by one.
		for _, id := range []string{op.FromID, op.ToID} {
			if degree(g, id)+1 > limit {
				return &value.RuleFailure{Reason: fmt.Sprintf("node %s would exceed max_degree(%d)", id, limit)}
			}
		}
		return nil
	},
}

// degree counts every edge touching id, outgoing and incoming, over the
// data layer. Undirected graphs store the reverse arc explicitly, so
// the incoming scan only adds arcs a directed graph would otherwise
// miss.
func degree(g *value.Graph, id string) int {
	n := outDegree(g, id)
	if g.Type == "undirected" {
		return n
	}
	for _, other := range g.DataNodeIDs(false) {
		if other == id {
			continue
		}
		if _, ok := g.Nodes[other].Neighbors[id]; ok {
			n++
		}
	}
	return n
}

var weightedEdgesSpec = &value.RuleSpec{
	Name: "weighted_edges",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind == value.OpAddEdge && op.Weight == nil {
			return &value.RuleFailure{Reason: "edge must carry a weight under :weighted_edges"}
		}
		return nil
	},
}

var unweightedEdgesSpec = &value.RuleSpec{
	Name: "unweighted_edges",
	Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
		if op.Kind == value.OpAddEdge && op.Weight != nil {
			return &value.RuleFailure{Reason: "edge must not carry a weight under :unweighted_edges"}
		}
		return nil
	},
}

type snapshot struct{ nodes, edges int }

// methodConstraintSpec builds a rule that inspects a method call's
// before/after snapshot (populated onto Operation by the evaluator's
// method dispatch, this design) and rejects when violated reports
// true.
func methodConstraintSpec(name string, violated func(before, after snapshot) bool) *value.RuleSpec {
	return &value.RuleSpec{
		Name: name,
		Validate: func(g *value.Graph, op value.Operation, _ map[string]value.Value) *value.RuleFailure {
			if op.Kind != value.OpMethodCall {
				return nil
			}
			before := snapshot{nodes: op.SnapshotNodeCount, edges: op.SnapshotEdgeCount}
			after := snapshot{nodes: len(g.Nodes), edges: countEdges(g)}
			if violated(before, after) {
				return &value.RuleFailure{Reason: fmt.Sprintf("method %s violates :%s", op.MethodName, name)}
			}
			return nil
		},
	}
}

func countEdges(g *value.Graph) int {
	n := 0
	for _, rec := range g.Nodes {
		n += len(rec.Neighbors)
	}
	return n
}

// Ruleset returns the RuleInstances a named ruleset installs
//.
func Ruleset(name string) []*value.RuleInstance {
	mk := func(spec *value.RuleSpec, params map[string]value.Value) *value.RuleInstance {
		return &value.RuleInstance{Spec: spec, Params: params, Severity: value.SeverityError, Retro: value.RetroEnforce}
	}
	switch name {
	case "tree":
		return []*value.RuleInstance{mk(noCyclesSpec, nil), mk(singleRootSpec, nil), mk(connectedSpec, nil)}
	case "binary_tree":
		return []*value.RuleInstance{mk(noCyclesSpec, nil), mk(singleRootSpec, nil), mk(connectedSpec, nil),
			mk(maxChildrenSpec("max_children_2", 2), nil)}
	case "bst":
		return []*value.RuleInstance{mk(noCyclesSpec, nil), mk(singleRootSpec, nil), mk(connectedSpec, nil),
			mk(maxChildrenSpec("max_children_2", 2), nil)}
	case "dag":
		return []*value.RuleInstance{mk(noCyclesSpec, nil)}
	default:
		return nil
	}
}
