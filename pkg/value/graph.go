package value

import (
	"fmt"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/internal/rtlog"
)

// MethodsBranchRoot is the reserved node id under which a graph's
// attached methods live. Reserved branches are excluded
// from the data-layer projection rule validators and pattern matching
// operate over.
const MethodsBranchRoot = "__methods__"

// EdgeInfo is the payload of one directed arc stored in a NodeRecord's
// Neighbors map.
type EdgeInfo struct {
	EdgeType   string
	Weight     *float64
	Properties map[string]Value
}

// NodeRecord is one graph node: its value and its outgoing edges,
// keyed by neighbor node id.
type NodeRecord struct {
	Value     Value
	Neighbors map[string]*EdgeInfo
}

// Graph is the shared backing store for the Graph, List, and Hash
// Value variants.
type Graph struct {
	Type  string // "directed" | "undirected"
	Nodes map[string]*NodeRecord
	// order preserves node insertion order so iteration, pattern-match
	// result order, and list-handle traversal are reproducible
	//.
	order []string

	Rules     []*RuleInstance
	Behaviors []*BehaviorInstance
	Rulesets  []string

	// OrderCmp, when set, implements a `:ordering(cmp)` behavior's
	// comparator (less-than) for list insertion. It is
	// a plain function rather than a Graphoid Function Value so that
	// pkg/value never needs to call back into the evaluator; the
	// builtin that installs the ordering behavior wraps the user's
	// comparator lambda into this closure.
	OrderCmp func(a, b Value) (bool, error)

	methodBranch map[string]bool
}

// NewGraph creates an empty graph of the given type ("directed" or
// "undirected").
func NewGraph(graphType string) *Graph {
	return &Graph{
		Type:         graphType,
		Nodes:        map[string]*NodeRecord{},
		methodBranch: map[string]bool{},
	}
}

// OpKind identifies the kind of mutating operation a rule or behavior
// is being asked to validate/transform.
type OpKind int

const (
	OpAddNode OpKind = iota
	OpAddEdge
	OpRemoveNode
	OpRemoveEdge
	OpSetEdgeWeight
	OpMethodCall
)

// Operation describes a single attempted mutation, passed to every
// active rule's validator in turn.
type Operation struct {
	Kind       OpKind
	NodeID     string
	FromID     string
	ToID       string
	EdgeType   string
	Weight     *float64
	Value      Value
	MethodName string
	// SnapshotNodeCount/SnapshotEdgeCount are filled in by method-call
	// dispatch for method-constraint rules (:read_only, :no_*_additions).
	SnapshotNodeCount int
	SnapshotEdgeCount int
}

// IsReservedNode reports whether id falls under the method branch and
// so is invisible to ordinary data-layer operations.
func (g *Graph) IsReservedNode(id string) bool {
	return id == MethodsBranchRoot || g.methodBranch[id]
}

// DataNodeIDs returns node ids in insertion order, excluding the
// method branch, unless includeAll is true (the `:all` query opt-in).
func (g *Graph) DataNodeIDs(includeAll bool) []string {
	ids := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if _, ok := g.Nodes[id]; !ok {
			continue // removed
		}
		if !includeAll && g.IsReservedNode(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// validate runs every active rule against op, honoring severity: Silent
// and Warning both surface as RuntimeError (Silent without a
// diagnostic, Warning with one logged first); only Error severity
// produces a structured RuleViolation/MethodConstraintViolation.
// Returns nil if the operation is allowed.
func (g *Graph) validate(op Operation) *gerr.Error {
	for _, ri := range g.Rules {
		if ri.Spec.Validate == nil {
			continue
		}
		if failure := ri.Spec.Validate(g, op, ri.Params); failure != nil {
			switch ri.Severity {
			case SeveritySilent:
				return gerr.New(gerr.RuntimeError, gerr.Position{}, "rule %s: %s", ri.Spec.Name, failure.Reason)
			case SeverityWarning:
				rtlog.Warn("rule %s violated: %s", ri.Spec.Name, failure.Reason)
				return gerr.New(gerr.RuntimeError, gerr.Position{}, "rule %s: %s", ri.Spec.Name, failure.Reason)
			default: // SeverityError
				rtlog.Error("rule %s violated: %s", ri.Spec.Name, failure.Reason)
				kind := gerr.RuleViolation
				if op.Kind == OpMethodCall {
					kind = gerr.MethodConstraintViolation
				}
				return gerr.New(kind, gerr.Position{}, "rule %s: %s", ri.Spec.Name, failure.Reason)
			}
		}
	}
	return nil
}

// applyBehaviors runs every installed behavior's transform over v, in
// installation order, before the value reaches rule validation or
// storage.
func (g *Graph) applyBehaviors(v Value) (Value, error) {
	cur := v
	for _, bi := range g.Behaviors {
		if bi.Spec.Transform == nil {
			continue
		}
		next, err := bi.Spec.Transform(g, cur, bi.Params)
		if err != nil {
			return Value{}, gerr.Wrap(gerr.BehaviorError, gerr.Position{}, err, "behavior %s", bi.Spec.Name)
		}
		cur = next
	}
	return cur, nil
}

// AddNode inserts a new node after running behaviors then rules. It is
// atomic: if validation rejects the operation the graph is unchanged.
func (g *Graph) AddNode(id string, v Value) (Value, error) {
	if _, exists := g.Nodes[id]; exists {
		return Value{}, gerr.New(gerr.RuntimeError, gerr.Position{}, "node %q already exists", id)
	}
	transformed, err := g.applyBehaviors(v)
	if err != nil {
		return Value{}, err
	}
	op := Operation{Kind: OpAddNode, NodeID: id, Value: transformed}
	if failure := g.validate(op); failure != nil {
		return Value{}, failure
	}
	g.Nodes[id] = &NodeRecord{Value: transformed, Neighbors: map[string]*EdgeInfo{}}
	g.order = append(g.order, id)
	return transformed, nil
}

// AddEdge requires both endpoints to pre-exist (this design
// invariant). For undirected graphs the reverse edge is stored
// symmetrically with identical edge_type and weight.
func (g *Graph) AddEdge(from, to, edgeType string, weight *float64, props map[string]Value) error {
	fromRec, ok := g.Nodes[from]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "add_edge: node %q does not exist", from)
	}
	toRec, ok := g.Nodes[to]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "add_edge: node %q does not exist", to)
	}
	op := Operation{Kind: OpAddEdge, FromID: from, ToID: to, EdgeType: edgeType, Weight: weight}
	if failure := g.validate(op); failure != nil {
		return failure
	}
	if from == MethodsBranchRoot || g.methodBranch[from] {
		g.methodBranch[to] = true
	}
	fromRec.Neighbors[to] = &EdgeInfo{EdgeType: edgeType, Weight: weight, Properties: props}
	if g.Type == "undirected" {
		toRec.Neighbors[from] = &EdgeInfo{EdgeType: edgeType, Weight: weight, Properties: props}
	}
	return nil
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.Nodes[id]; !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "remove_node: node %q does not exist", id)
	}
	op := Operation{Kind: OpRemoveNode, NodeID: id}
	if failure := g.validate(op); failure != nil {
		return failure
	}
	delete(g.Nodes, id)
	delete(g.methodBranch, id)
	for _, rec := range g.Nodes {
		delete(rec.Neighbors, id)
	}
	return nil
}

// RemoveEdge deletes the edge from→to (and its symmetric twin for
// undirected graphs).
func (g *Graph) RemoveEdge(from, to string) error {
	fromRec, ok := g.Nodes[from]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "remove_edge: node %q does not exist", from)
	}
	op := Operation{Kind: OpRemoveEdge, FromID: from, ToID: to}
	if failure := g.validate(op); failure != nil {
		return failure
	}
	delete(fromRec.Neighbors, to)
	if g.Type == "undirected" {
		if toRec, ok := g.Nodes[to]; ok {
			delete(toRec.Neighbors, from)
		}
	}
	return nil
}

// SetEdgeWeight updates an existing edge's weight in place.
func (g *Graph) SetEdgeWeight(from, to string, w float64) error {
	fromRec, ok := g.Nodes[from]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "set_edge_weight: node %q does not exist", from)
	}
	edge, ok := fromRec.Neighbors[to]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "set_edge_weight: no edge %s -> %s", from, to)
	}
	op := Operation{Kind: OpSetEdgeWeight, FromID: from, ToID: to, Weight: &w}
	if failure := g.validate(op); failure != nil {
		return failure
	}
	edge.Weight = &w
	if g.Type == "undirected" {
		if toRec, ok := g.Nodes[to]; ok {
			if rev, ok := toRec.Neighbors[from]; ok {
				rev.Weight = &w
			}
		}
	}
	return nil
}

// Clone performs a deep copy including the method branch (this design
// §3.2's lifecycle note).
func (g *Graph) Clone() *Graph {
	out := NewGraph(g.Type)
	out.order = append([]string(nil), g.order...)
	out.Rulesets = append([]string(nil), g.Rulesets...)
	for id, mb := range g.methodBranch {
		out.methodBranch[id] = mb
	}
	for id, rec := range g.Nodes {
		neighbors := map[string]*EdgeInfo{}
		for nid, e := range rec.Neighbors {
			propsCopy := map[string]Value{}
			for k, v := range e.Properties {
				propsCopy[k] = v
			}
			var wCopy *float64
			if e.Weight != nil {
				w := *e.Weight
				wCopy = &w
			}
			neighbors[nid] = &EdgeInfo{EdgeType: e.EdgeType, Weight: wCopy, Properties: propsCopy}
		}
		out.Nodes[id] = &NodeRecord{Value: rec.Value, Neighbors: neighbors}
	}
	out.Rules = append([]*RuleInstance(nil), g.Rules...)
	out.Behaviors = append([]*BehaviorInstance(nil), g.Behaviors...)
	out.OrderCmp = g.OrderCmp
	return out
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph(type=%s, nodes=%d)", g.Type, len(g.Nodes))
}

// CountEdges returns the total number of directed arcs stored across
// every node's Neighbors map (an undirected edge counts twice, once
// per direction, matching how AddEdge stores it).
func (g *Graph) CountEdges() int {
	n := 0
	for _, rec := range g.Nodes {
		n += len(rec.Neighbors)
	}
	return n
}

// CheckMethodConstraints runs the method-constraint rules (:read_only,
// :no_node_additions, ...) against a before/after snapshot taken around
// a method call. The method's effects are already
// applied by the time this runs; a violation is surfaced after the
// fact rather than rolled back, per this design's documented choice.
func (g *Graph) CheckMethodConstraints(methodName string, beforeNodes, beforeEdges int) error {
	op := Operation{
		Kind:              OpMethodCall,
		MethodName:        methodName,
		SnapshotNodeCount: beforeNodes,
		SnapshotEdgeCount: beforeEdges,
	}
	if failure := g.validate(op); failure != nil {
		return failure
	}
	return nil
}

// SetNodeValue overwrites an existing node's value, running installed
// behaviors but not insertion rules (the slot already exists; this is
// an update, not a new-node mutation for rule-validation purposes, the
// same convention Hash.Set uses for existing keys).
func (g *Graph) SetNodeValue(id string, v Value) error {
	rec, ok := g.Nodes[id]
	if !ok {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "node %q does not exist", id)
	}
	transformed, err := g.applyBehaviors(v)
	if err != nil {
		return err
	}
	rec.Value = transformed
	return nil
}

// EnsureMethodsRoot creates the reserved __methods__ node if absent,
// bypassing rules/behaviors (the method branch is invisible to the
// data layer those operate over).
func (g *Graph) EnsureMethodsRoot() {
	if _, ok := g.Nodes[MethodsBranchRoot]; ok {
		return
	}
	g.Nodes[MethodsBranchRoot] = &NodeRecord{Value: None(), Neighbors: map[string]*EdgeInfo{}}
	g.order = append(g.order, MethodsBranchRoot)
	g.methodBranch[MethodsBranchRoot] = true
}

// SetMethod installs or overwrites a method function under the
// __methods__ branch. Bypasses rules/behaviors
// and data-layer bookkeeping entirely, matching the method branch's
// "invisible to data queries" contract.
func (g *Graph) SetMethod(name string, fn Value) {
	g.EnsureMethodsRoot()
	if rec, ok := g.Nodes[name]; ok && g.methodBranch[name] {
		rec.Value = fn
		return
	}
	g.Nodes[name] = &NodeRecord{Value: fn, Neighbors: map[string]*EdgeInfo{}}
	g.order = append(g.order, name)
	g.methodBranch[name] = true
	g.Nodes[MethodsBranchRoot].Neighbors[name] = &EdgeInfo{EdgeType: "method"}
}

// Method looks up a method function by name. ok is false if name is
// not a method-branch node or is not a Function value.
func (g *Graph) Method(name string) (Value, bool) {
	rec, ok := g.Nodes[name]
	if !ok || !g.methodBranch[name] {
		return Value{}, false
	}
	if rec.Value.Kind != KindFunction {
		return Value{}, false
	}
	return rec.Value, true
}

// HasDataField reports whether id names a non-reserved (data-layer)
// node — used by implicit-self field resolution.
func (g *Graph) HasDataField(id string) bool {
	_, ok := g.Nodes[id]
	return ok && !g.IsReservedNode(id)
}

// MethodNames returns every name installed under the __methods__
// branch, in insertion order — used by `include(mixin)` (this design
// §4.4.6) to enumerate what to copy.
func (g *Graph) MethodNames() []string {
	var out []string
	for _, id := range g.order {
		if id != MethodsBranchRoot && g.methodBranch[id] {
			out = append(out, id)
		}
	}
	return out
}
