package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xvandervort/graphoid/internal/gerr"
	"github.com/xvandervort/graphoid/pkg/behavior"
	algo "github.com/xvandervort/graphoid/pkg/graph"
	"github.com/xvandervort/graphoid/pkg/rule"
	"github.com/xvandervort/graphoid/pkg/value"
)

// callGraphMethod dispatches `receiver.name(args)` for a KindGraph
// receiver: a `__methods__`-branch method first, then
// the built-in graph method table.
func (e *Evaluator) callGraphMethod(recv value.Value, name string, args []value.Value, p gerr.Position) (value.Value, error) {
	g := recv.Graph
	if fn, ok := g.Method(name); ok {
		return e.callMethod(recv, fn.Fn, args, name)
	}
	switch name {
	case "new":
		return value.FromGraph(g.Clone()), nil
	case "clone":
		return value.FromGraph(g.Clone()), nil
	case "add_node":
		return e.graphAddNode(g, args, p)
	case "add_edge":
		return e.graphAddEdge(g, args, p)
	case "remove_node":
		return value.None(), requireString(args, 0, p, func(id string) error { return g.RemoveNode(id) })
	case "remove_edge":
		return e.graphRemoveEdge(g, args, p)
	case "set_edge_weight":
		return e.graphSetEdgeWeight(g, args, p)
	case "nodes":
		return value.FromList(value.NewList(idsToValues(g.DataNodeIDs(wantsAll(args))))), nil
	case "edges":
		return value.FromList(value.NewList(edgeValues(g))), nil
	case "visualize":
		return value.Str(visualizeGraph(g, wantsAll(args))), nil
	case "match":
		pattern := args
		if len(args) == 1 && args[0].Kind == value.KindList {
			pattern = args[0].List.Elements()
		}
		results, err := algo.Match(g, pattern)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindMatchResults, Results: results}, nil
	case "with_ruleset":
		return e.graphWithRuleset(g, args, p)
	case "include":
		return e.graphInclude(g, args, p)
	case "bfs":
		return e.graphBFS(g, args, p)
	case "dfs":
		return e.graphDFS(g, args, p)
	case "dijkstra":
		return e.graphDijkstra(g, args, p)
	case "shortest_path":
		return e.graphShortestPath(g, args, p)
	case "all_shortest_paths":
		return e.graphAllShortestPaths(g, args, p)
	case "topo_sort":
		order, err := algo.TopoSort(g)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromList(value.NewList(idsToValues(order))), nil
	case "add_rule":
		return e.graphAddRule(g, args, p)
	case "remove_rule":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		g.RemoveRule(n)
		return value.None(), nil
	case "has_rule":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(g.HasRule(n)), nil
	case "rule":
		return e.graphRuleParam(g, args, p)
	case "clear_rules":
		g.ClearRules()
		return value.None(), nil
	case "add_behavior":
		return e.graphAddBehavior(g, args, p)
	case "has_behavior":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(g.HasBehavior(n)), nil
	default:
		return value.Value{}, gerr.New(gerr.NameError, p, "graph has no method %q", name)
	}
}

// wantsAll reports whether an argument list opts into reserved-branch
// visibility with the `:all` symbol.
func wantsAll(args []value.Value) bool {
	for _, a := range args {
		if a.Kind == value.KindSymbol && a.Str == "all" {
			return true
		}
	}
	return false
}

func idsToValues(ids []string) []value.Value {
	out := make([]value.Value, len(ids))
	for i, id := range ids {
		out[i] = value.Str(id)
	}
	return out
}

// edgeValues renders the data layer's edges as [from, to, type]
// triples in a reproducible order: source nodes in insertion order,
// targets sorted within each source.
func edgeValues(g *value.Graph) []value.Value {
	var out []value.Value
	for _, from := range g.DataNodeIDs(false) {
		targets := make([]string, 0, len(g.Nodes[from].Neighbors))
		for to := range g.Nodes[from].Neighbors {
			if !g.IsReservedNode(to) {
				targets = append(targets, to)
			}
		}
		sort.Strings(targets)
		for _, to := range targets {
			ei := g.Nodes[from].Neighbors[to]
			triple := []value.Value{value.Str(from), value.Str(to), value.Str(ei.EdgeType)}
			out = append(out, value.FromList(value.NewList(triple)))
		}
	}
	return out
}

// visualizeGraph renders a graph as stable text, one node per line with
// its outgoing edges — the same output for a graph and its clone at the
// same includeAll setting.
func visualizeGraph(g *value.Graph, includeAll bool) string {
	ids := append([]string(nil), g.DataNodeIDs(includeAll)...)
	sort.Strings(ids)
	var sb strings.Builder
	fmt.Fprintf(&sb, "graph (%s)\n", g.Type)
	for _, id := range ids {
		rec := g.Nodes[id]
		fmt.Fprintf(&sb, "  %s: %s\n", id, value.Display(rec.Value))
		targets := make([]string, 0, len(rec.Neighbors))
		for to := range rec.Neighbors {
			if includeAll || !g.IsReservedNode(to) {
				targets = append(targets, to)
			}
		}
		sort.Strings(targets)
		for _, to := range targets {
			ei := rec.Neighbors[to]
			if ei.Weight != nil {
				fmt.Fprintf(&sb, "    -> %s [%s, %s]\n", to, ei.EdgeType, value.Display(value.Num(*ei.Weight)))
			} else {
				fmt.Fprintf(&sb, "    -> %s [%s]\n", to, ei.EdgeType)
			}
		}
	}
	return sb.String()
}

func requireString(args []value.Value, i int, p gerr.Position, f func(string) error) error {
	s, err := argString(args, i, p)
	if err != nil {
		return err
	}
	return f(s)
}

func argString(args []value.Value, i int, p gerr.Position) (string, error) {
	if i >= len(args) || args[i].Kind != value.KindString {
		return "", gerr.New(gerr.TypeError, p, "expected a string argument at position %d", i)
	}
	return args[i].Str, nil
}

func argNumber(args []value.Value, i int, p gerr.Position) (float64, error) {
	if i >= len(args) || args[i].Kind != value.KindNumber {
		return 0, gerr.New(gerr.TypeError, p, "expected a number argument at position %d", i)
	}
	return args[i].Num, nil
}

func (e *Evaluator) graphAddNode(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	id, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	v := value.None()
	if len(args) > 1 {
		v = args[1]
	}
	return g.AddNode(id, v)
}

func (e *Evaluator) graphAddEdge(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	from, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	to, err := argString(args, 1, p)
	if err != nil {
		return value.Value{}, err
	}
	edgeType := ""
	if len(args) > 2 && args[2].Kind == value.KindString {
		edgeType = args[2].Str
	}
	var weight *float64
	if len(args) > 3 && args[3].Kind == value.KindNumber {
		w := args[3].Num
		weight = &w
	}
	var props map[string]value.Value
	if len(args) > 4 && args[4].Kind == value.KindHash {
		props = map[string]value.Value{}
		for _, k := range args[4].Hash.Keys() {
			v, _ := args[4].Hash.Get(k)
			props[k] = v
		}
	}
	return value.None(), g.AddEdge(from, to, edgeType, weight, props)
}

func (e *Evaluator) graphRemoveEdge(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	from, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	to, err := argString(args, 1, p)
	if err != nil {
		return value.Value{}, err
	}
	return value.None(), g.RemoveEdge(from, to)
}

func (e *Evaluator) graphSetEdgeWeight(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	from, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	to, err := argString(args, 1, p)
	if err != nil {
		return value.Value{}, err
	}
	w, err := argNumber(args, 2, p)
	if err != nil {
		return value.Value{}, err
	}
	return value.None(), g.SetEdgeWeight(from, to, w)
}

func (e *Evaluator) graphWithRuleset(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	name, err := argSymbolOrString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromGraph(g), applyRuleset(g, name)
}

// applyRuleset installs a named ruleset's rule instances (this design
// §3.2, §4.6; `tree{}` desugars to `graph{}.with_ruleset(:tree)`).
func applyRuleset(g *value.Graph, name string) error {
	instances := rule.Ruleset(name)
	if instances == nil {
		return gerr.New(gerr.RuntimeError, gerr.Position{}, "unknown ruleset %q", name)
	}
	for _, ri := range instances {
		if err := g.AddRule(ri); err != nil {
			return err
		}
	}
	g.Rulesets = append(g.Rulesets, name)
	return nil
}

func (e *Evaluator) graphInclude(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	if len(args) == 0 || args[0].Kind != value.KindGraph {
		return value.Value{}, gerr.New(gerr.TypeError, p, "include() requires a graph argument")
	}
	mixin := args[0].Graph
	for _, name := range mixin.MethodNames() {
		if fn, ok := mixin.Method(name); ok {
			g.SetMethod(name, fn)
		}
	}
	return value.FromGraph(g), nil
}

func (e *Evaluator) graphBFS(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	start, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	ids, err := algo.BFS(g, start)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromList(value.NewList(idsToValues(ids))), nil
}

func (e *Evaluator) graphDFS(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	start, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	ids, err := algo.DFS(g, start)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromList(value.NewList(idsToValues(ids))), nil
}

func (e *Evaluator) graphDijkstra(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	start, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	end, err := argString(args, 1, p)
	if err != nil {
		return value.Value{}, err
	}
	path, dist, err := algo.Dijkstra(g, start, end)
	if err != nil {
		return value.Value{}, err
	}
	if path == nil {
		return value.None(), nil
	}
	h := value.NewHash(nil)
	_, _ = h.Set("path", value.FromList(value.NewList(idsToValues(path))))
	_, _ = h.Set("distance", value.Num(dist))
	return value.FromHash(h), nil
}

func (e *Evaluator) graphShortestPath(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	start, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	end, err := argString(args, 1, p)
	if err != nil {
		return value.Value{}, err
	}
	path, _, err := algo.Dijkstra(g, start, end)
	if err != nil {
		return value.Value{}, err
	}
	if path == nil {
		return value.None(), nil
	}
	return value.FromList(value.NewList(idsToValues(path))), nil
}

func (e *Evaluator) graphAllShortestPaths(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	start, err := argString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	out := value.NewHash(nil)
	for _, id := range g.DataNodeIDs(false) {
		if id == start {
			continue
		}
		path, _, err := algo.Dijkstra(g, start, id)
		if err != nil {
			return value.Value{}, err
		}
		if path == nil {
			continue
		}
		_, _ = out.Set(id, value.FromList(value.NewList(idsToValues(path))))
	}
	return value.FromHash(out), nil
}

func argSymbolOrString(args []value.Value, i int, p gerr.Position) (string, error) {
	if i >= len(args) || (args[i].Kind != value.KindSymbol && args[i].Kind != value.KindString) {
		return "", gerr.New(gerr.TypeError, p, "expected a symbol or string argument at position %d", i)
	}
	return args[i].Str, nil
}

func hashParams(v value.Value) map[string]value.Value {
	if v.Kind != value.KindHash {
		return nil
	}
	out := map[string]value.Value{}
	for _, k := range v.Hash.Keys() {
		val, _ := v.Hash.Get(k)
		out[k] = val
	}
	return out
}

func parseSeverity(v value.Value) value.Severity {
	switch v.Str {
	case "silent":
		return value.SeveritySilent
	case "error":
		return value.SeverityError
	default:
		return value.SeverityWarning
	}
}

func parseRetro(v value.Value) value.RetroactivePolicy {
	switch v.Str {
	case "warn":
		return value.RetroWarn
	case "enforce":
		return value.RetroEnforce
	case "ignore":
		return value.RetroIgnore
	default:
		return value.RetroClean
	}
}

func (e *Evaluator) graphAddRule(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	name, err := argSymbolOrString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	spec := rule.Spec(name)
	if spec == nil {
		return value.Value{}, gerr.New(gerr.RuntimeError, p, "unknown rule %q", name)
	}
	var params map[string]value.Value
	severity := value.SeverityWarning
	retro := value.RetroClean
	rest := args[1:]
	if len(rest) > 0 && rest[0].Kind == value.KindHash {
		params = hashParams(rest[0])
		rest = rest[1:]
	} else if len(rest) > 0 && rest[0].Kind == value.KindNumber {
		// add_rule(:max_degree, 3) shorthand for the single-parameter rules.
		params = map[string]value.Value{"n": rest[0]}
		rest = rest[1:]
	}
	if len(rest) > 0 {
		severity = parseSeverity(rest[0])
		rest = rest[1:]
	}
	if len(rest) > 0 {
		retro = parseRetro(rest[0])
	}
	return value.None(), g.AddRule(&value.RuleInstance{Spec: spec, Params: params, Severity: severity, Retro: retro})
}

func (e *Evaluator) graphRuleParam(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	name, err := argSymbolOrString(args, 0, p)
	if err != nil {
		return value.Value{}, err
	}
	ri := g.Rule(name)
	if ri == nil {
		return value.None(), nil
	}
	if n, ok := ri.Params["n"]; ok {
		return n, nil
	}
	return value.Bool(true), nil
}

func (e *Evaluator) graphAddBehavior(g *value.Graph, args []value.Value, p gerr.Position) (value.Value, error) {
	spec, retro, orderCmp, err := e.resolveBehavior(args, p)
	if err != nil {
		return value.Value{}, err
	}
	if err := g.AddBehavior(&value.BehaviorInstance{Spec: spec, Retro: retro}); err != nil {
		return value.Value{}, err
	}
	if orderCmp != nil {
		g.OrderCmp = orderCmp
	}
	return value.None(), nil
}

// resolveBehavior implements add_behavior's argument conventions
//: a bare symbol for the parameterless specs, a symbol
// plus parameters for :validate_range/:mapping/:conditional, :ordering
// with a comparator lambda, :maintain_order with none, or a bare
// Function value for the custom-transform form. An optional trailing
// retro-policy symbol (:warn/:enforce/:ignore) overrides the RetroClean
// default.
func (e *Evaluator) resolveBehavior(args []value.Value, p gerr.Position) (*value.BehaviorSpec, value.RetroactivePolicy, func(a, b value.Value) (bool, error), error) {
	if len(args) == 0 {
		return nil, 0, nil, gerr.New(gerr.TypeError, p, "add_behavior() requires at least one argument")
	}
	retro := value.RetroClean
	rest := args
	if last := args[len(args)-1]; last.Kind == value.KindSymbol && isRetroSymbol(last.Str) {
		retro = parseRetro(last)
		rest = args[:len(args)-1]
	}

	if rest[0].Kind == value.KindFunction {
		return behavior.Custom(e, rest[0]), retro, nil, nil
	}
	if rest[0].Kind != value.KindSymbol && rest[0].Kind != value.KindString {
		return nil, 0, nil, gerr.New(gerr.TypeError, p, "add_behavior() expects a symbol or function, got %s", value.TypeName(rest[0]))
	}

	name := rest[0].Str
	params := rest[1:]
	switch name {
	case "validate_range":
		min, err := argNumber(params, 0, p)
		if err != nil {
			return nil, 0, nil, err
		}
		max, err := argNumber(params, 1, p)
		if err != nil {
			return nil, 0, nil, err
		}
		return behavior.ValidateRange(min, max), retro, nil, nil
	case "mapping":
		if len(params) == 0 || params[0].Kind != value.KindHash {
			return nil, 0, nil, gerr.New(gerr.TypeError, p, "add_behavior(:mapping, ...) requires a hash")
		}
		hasFallback := len(params) > 1
		var fallback value.Value
		if hasFallback {
			fallback = params[1]
		}
		return behavior.Mapping(params[0].Hash, fallback, hasFallback), retro, nil, nil
	case "conditional":
		if len(params) < 2 {
			return nil, 0, nil, gerr.New(gerr.TypeError, p, "add_behavior(:conditional, predicate, transform, ...) requires at least two functions")
		}
		var fallback *value.Value
		if len(params) > 2 {
			fallback = &params[2]
		}
		return behavior.Conditional(e, params[0], params[1], fallback), retro, nil, nil
	case "ordering":
		if len(params) == 0 {
			return nil, 0, nil, gerr.New(gerr.TypeError, p, "add_behavior(:ordering, cmp) requires a comparator")
		}
		spec, cmp := behavior.InstallOrdering(e, params[0])
		return spec, retro, cmp, nil
	case "maintain_order":
		spec, cmp := behavior.MaintainOrder()
		return spec, retro, cmp, nil
	default:
		spec := behavior.Spec(name)
		if spec == nil {
			return nil, 0, nil, gerr.New(gerr.RuntimeError, p, "unknown behavior %q", name)
		}
		return spec, retro, nil, nil
	}
}

func isRetroSymbol(s string) bool {
	switch s {
	case "warn", "enforce", "ignore", "clean":
		return true
	default:
		return false
	}
}

// ruleBehaviorMethodNames is the subset of graphMethodNames that List
// and Hash also expose (this design's §4.6/§4.7: List/Hash are Graph
// handles, so a rule or behavior installed on one "applies uniformly" —
// there is no rule-unaware mutation path for collections).
var ruleBehaviorMethodNames = setOf(
	"add_rule", "remove_rule", "has_rule", "rule", "clear_rules",
	"add_behavior", "has_behavior",
)

// dispatchRuleOrBehavior handles the rule/behavior method names shared
// by every Graph-backed Value variant (Graph, List, Hash), operating
// directly on the collection's underlying *value.Graph. ok is false
// when name isn't one of these shared names, so callers can fall
// through to their own method table.
func (e *Evaluator) dispatchRuleOrBehavior(g *value.Graph, name string, args []value.Value, p gerr.Position) (result value.Value, ok bool, err error) {
	switch name {
	case "add_rule":
		v, err := e.graphAddRule(g, args, p)
		return v, true, err
	case "remove_rule":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, true, err
		}
		g.RemoveRule(n)
		return value.None(), true, nil
	case "has_rule":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, true, err
		}
		return value.Bool(g.HasRule(n)), true, nil
	case "rule":
		v, err := e.graphRuleParam(g, args, p)
		return v, true, err
	case "clear_rules":
		g.ClearRules()
		return value.None(), true, nil
	case "add_behavior":
		v, err := e.graphAddBehavior(g, args, p)
		return v, true, err
	case "has_behavior":
		n, err := argSymbolOrString(args, 0, p)
		if err != nil {
			return value.Value{}, true, err
		}
		return value.Bool(g.HasBehavior(n)), true, nil
	default:
		return value.Value{}, false, nil
	}
}
