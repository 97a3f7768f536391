package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/value"
)

func installErrorRule(t *testing.T, g *value.Graph, name string, params map[string]value.Value) {
	t.Helper()
	spec := Spec(name)
	require.NotNil(t, spec, "rule %q must be a known built-in", name)
	require.NoError(t, g.AddRule(&value.RuleInstance{
		Spec: spec, Params: params, Severity: value.SeverityError, Retro: value.RetroIgnore,
	}))
}

func TestNoCycles_RejectsEdgeThatClosesACycle(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	installErrorRule(t, g, "no_cycles", nil)

	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	assert.Error(t, g.AddEdge("b", "a", "e", nil, nil))
}

func TestSingleRoot_AllowsIncrementalBuildRejectsOrphaningRemoval(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	installErrorRule(t, g, "single_root", nil)

	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	// A fresh node is a transient root until its parent edge arrives.
	_, err := g.AddNode("c", value.None())
	require.NoError(t, err)
	require.NoError(t, g.AddEdge("b", "c", "e", nil, nil))

	// Removing a->b would leave both a and b predecessor-less.
	assert.Error(t, g.RemoveEdge("a", "b"))
}

func TestConnected_RejectsEdgeRemovalThatSplitsTheGraph(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	_, _ = g.AddNode("c", value.None())
	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	require.NoError(t, g.AddEdge("b", "c", "e", nil, nil))
	installErrorRule(t, g, "connected", nil)

	assert.Error(t, g.RemoveEdge("b", "c"), "removing b->c would strand c")
}

func TestNoDuplicates_RejectsDuplicateValue(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.Num(1))
	installErrorRule(t, g, "no_duplicates", nil)

	_, err := g.AddNode("b", value.Num(1))
	assert.Error(t, err)
	_, err = g.AddNode("c", value.Num(2))
	assert.NoError(t, err)
}

func TestNoDuplicates_HashCollisionStillChecksStructuralEquality(t *testing.T) {
	// The string "1" and the number 1 share a canonical display form
	// (and so a secure_hash digest) but are not structurally equal;
	// neither may be rejected as a duplicate of the other.
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.Num(1))
	installErrorRule(t, g, "no_duplicates", nil)

	_, err := g.AddNode("b", value.Str("1"))
	assert.NoError(t, err)
}

func TestNoDuplicates_CleanRemovesExistingDuplicatesOnInstall(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.Num(1))
	_, _ = g.AddNode("b", value.Num(1))
	_, _ = g.AddNode("c", value.Num(2))

	spec := Spec("no_duplicates")
	require.NoError(t, g.AddRule(&value.RuleInstance{Spec: spec, Retro: value.RetroClean}))

	assert.Len(t, g.DataNodeIDs(false), 2, "the later duplicate node must be cleaned away")
}

func TestPositive_RejectsNegativeNumber(t *testing.T) {
	g := value.NewGraph("directed")
	installErrorRule(t, g, "positive", nil)

	_, err := g.AddNode("a", value.Num(-5))
	assert.Error(t, err)
	_, err = g.AddNode("b", value.Num(5))
	assert.NoError(t, err)
}

func TestMaxDegree_RejectsExcessEdges(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	_, _ = g.AddNode("c", value.None())
	installErrorRule(t, g, "max_degree", map[string]value.Value{"n": value.Num(1)})

	require.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
	assert.Error(t, g.AddEdge("a", "c", "e", nil, nil), "a already has degree 1")
}

func TestWeightedEdges_RequiresWeight(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	installErrorRule(t, g, "weighted_edges", nil)

	assert.Error(t, g.AddEdge("a", "b", "e", nil, nil))
	w := 1.5
	assert.NoError(t, g.AddEdge("a", "b", "e", &w, nil))
}

func TestUnweightedEdges_RejectsWeight(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	_, _ = g.AddNode("b", value.None())
	installErrorRule(t, g, "unweighted_edges", nil)

	w := 1.5
	assert.Error(t, g.AddEdge("a", "b", "e", &w, nil))
	assert.NoError(t, g.AddEdge("a", "b", "e", nil, nil))
}

func TestReadOnly_RejectsAnyMethodThatMutates(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("a", value.None())
	installErrorRule(t, g, "read_only", nil)

	op := value.Operation{Kind: value.OpMethodCall, MethodName: "add_node", SnapshotNodeCount: 1, SnapshotEdgeCount: 0}
	spec := Spec("read_only")
	failure := spec.Validate(g, op, nil)
	assert.Nil(t, failure, "validating against the unchanged graph itself must not trip the rule")

	_, _ = g.AddNode("b", value.None()) // simulate the method's mutation having already happened
	failure = spec.Validate(g, op, nil)
	assert.NotNil(t, failure, "node count changed since the method call's snapshot")
}

func TestRuleset_TreeInstallsExpectedRules(t *testing.T) {
	rules := Ruleset("tree")
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Spec.Name
	}
	assert.ElementsMatch(t, []string{"no_cycles", "single_root", "connected"}, names)
}

func TestRuleset_BinaryTreeCapsChildrenAtTwo(t *testing.T) {
	rules := Ruleset("binary_tree")
	var childCap *value.RuleInstance
	for _, r := range rules {
		if r.Spec.Name == "max_children_2" {
			childCap = r
		}
	}
	require.NotNil(t, childCap, "binary_tree must install the out-degree cap")
}

func TestMaxChildren_OutDegreeOnly(t *testing.T) {
	g := value.NewGraph("directed")
	_, _ = g.AddNode("root", value.None())
	_, _ = g.AddNode("l", value.None())
	_, _ = g.AddNode("r", value.None())
	_, _ = g.AddNode("extra", value.None())
	installErrorRule(t, g, "max_children_2", nil)

	require.NoError(t, g.AddEdge("root", "l", "child", nil, nil))
	require.NoError(t, g.AddEdge("root", "r", "child", nil, nil))
	assert.Error(t, g.AddEdge("root", "extra", "child", nil, nil))
	// Incoming edges don't count toward the children cap.
	require.NoError(t, g.AddEdge("extra", "root", "back", nil, nil))
}

func TestRuleset_UnknownNameReturnsNil(t *testing.T) {
	assert.Nil(t, Ruleset("not_a_ruleset"))
}
