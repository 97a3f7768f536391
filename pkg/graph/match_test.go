package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func typedNode(typ string) value.Value {
	return value.FromHash(value.NewHash(map[string]value.Value{"type": value.Str(typ)}))
}

func buildSocialGraph(t *testing.T) *value.Graph {
	t.Helper()
	g := value.NewGraph("directed")
	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := g.AddNode(id, typedNode("Person"))
		require.NoError(t, err)
	}
	require.NoError(t, g.AddEdge("alice", "bob", "knows", nil, nil))
	require.NoError(t, g.AddEdge("bob", "carol", "knows", nil, nil))
	return g
}

func TestMatch_SingleHopEdge(t *testing.T) {
	g := buildSocialGraph(t)
	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "a", Type: "Person"}},
		{Kind: value.KindPatternEdge, PEdge: &value.PatternEdge{EdgeType: "knows", Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "b", Type: "Person"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)
	assert.Len(t, results.Bindings, 2) // alice->bob, bob->carol

	found := map[string]bool{}
	for _, b := range results.Bindings {
		found[b["a"]+"->"+b["b"]] = true
	}
	assert.True(t, found["alice->bob"])
	assert.True(t, found["bob->carol"])
}

func TestMatch_RepeatedVariableMustBindSameNode(t *testing.T) {
	// a mutual 2-cycle: a->b and b->a, so "x -> y -> x" has exactly one
	// valid round trip starting from each node.
	g := value.NewGraph("directed")
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, typedNode("N"))
	}
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "a", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "c", "e", nil, nil)) // one-way spur, no way back to b

	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "x"}},
		{Kind: value.KindPatternEdge, PEdge: &value.PatternEdge{Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "y"}},
		{Kind: value.KindPatternEdge, PEdge: &value.PatternEdge{Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "x"}}, // must re-bind to same node as first x
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)
	require.Len(t, results.Bindings, 2, "only a->b->a and b->a->b round-trip back to x")
	pairs := map[string]string{}
	for _, b := range results.Bindings {
		pairs[b["x"]] = b["y"]
	}
	assert.Equal(t, "b", pairs["a"])
	assert.Equal(t, "a", pairs["b"])
	_, spurCounted := pairs["c"]
	assert.False(t, spurCounted, "c has no outgoing edge back, so no round trip starts there")
}

func TestMatch_PathZeroLengthBindsSameNode(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", typedNode("N"))
	_, _ = g.AddNode("b", typedNode("N"))
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))

	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "x"}},
		{Kind: value.KindPatternPath, PPath: &value.PatternPath{Min: 0, Max: 1, Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "y"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)

	sameNodeSeen := false
	for _, b := range results.Bindings {
		if b["x"] == "a" && b["y"] == "a" {
			sameNodeSeen = true
		}
	}
	assert.True(t, sameNodeSeen, "zero-length path must include a binding where y is the same node as x")
}

func TestMatch_PathRespectsMinMaxBounds(t *testing.T) {
	g := chain(t, "directed", "a", "b", "c", "d")
	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "start"}},
		{Kind: value.KindPatternPath, PPath: &value.PatternPath{EdgeType: "next", Min: 2, Max: 2, Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "end"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)

	pairs := map[string]string{}
	for _, b := range results.Bindings {
		pairs[b["start"]] = b["end"]
	}
	assert.Equal(t, "c", pairs["a"])
	assert.Equal(t, "d", pairs["b"])
	assert.Len(t, results.Bindings, 2, "c and d have no 2-hop successor within the chain")
}

func TestMatch_PathRevisitsNodeThroughCycleWithinBound(t *testing.T) {
	// A->B, B->C, C->B: B's shortest walk from A is 1 hop, but the
	// cycle also reaches it at 3 (A->B->C->B). A min:3 bound must still
	// match B — revisits within the bound are legitimate walks.
	g := value.NewGraph("directed")
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, typedNode("N"))
	}
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "c", "e", nil, nil))
	require.NoError(t, g.AddEdge("c", "b", "e", nil, nil))

	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "s"}},
		{Kind: value.KindPatternPath, PPath: &value.PatternPath{Min: 3, Max: 3, Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "t"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)

	found := map[string]bool{}
	for _, b := range results.Bindings {
		found[b["s"]+"->"+b["t"]] = true
	}
	assert.True(t, found["a->b"], "a reaches b in exactly 3 hops via the b/c cycle")
	assert.True(t, found["b->c"], "b->c->b->c is a 3-hop walk")
	assert.True(t, found["c->b"], "c->b->c->b is a 3-hop walk")
	assert.False(t, found["a->c"], "a reaches c only at 2 hops, never 3")
}

func TestMatch_PathUnboundedMaxTerminatesOnCycle(t *testing.T) {
	// max unset (<=0) on a cyclic graph must terminate via the
	// min+|V| excision cap and still find every reachable node.
	g := value.NewGraph("directed")
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, typedNode("N"))
	}
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "c", "e", nil, nil))
	require.NoError(t, g.AddEdge("c", "a", "e", nil, nil))

	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "s"}},
		{Kind: value.KindPatternPath, PPath: &value.PatternPath{Min: 1, Max: -1, Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "t"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)
	assert.Len(t, results.Bindings, 9, "every node reaches every node (itself included) around the cycle")
}

func TestMatch_TypeConstraintFilters(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("p1", typedNode("Person"))
	_, _ = g.AddNode("c1", typedNode("Company"))
	require.NoError(t, g.AddEdge("p1", "c1", "works_at", nil, nil))

	pattern := []value.Value{
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "p", Type: "Person"}},
		{Kind: value.KindPatternEdge, PEdge: &value.PatternEdge{Direction: "outgoing"}},
		{Kind: value.KindPatternNode, PNode: &value.PatternNode{Var: "c", Type: "Company"}},
	}
	results, err := Match(g, pattern)
	require.NoError(t, err)
	require.Len(t, results.Bindings, 1)
	assert.Equal(t, "p1", results.Bindings[0]["p"])
	assert.Equal(t, "c1", results.Bindings[0]["c"])
}
