package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/parser"
	"github.com/xvandervort/graphoid/pkg/value"
)

// run parses and evaluates src against a fresh Evaluator, returning
// the last expression-statement's value (this design's REPL "print
// result" contract, pkg/eval/eval.go's Run).
func run(t *testing.T, src string) value.Value {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "parse: %s", src)
	e := New()
	v, err := e.Run(prog)
	require.NoError(t, err, "eval: %s", src)
	return v
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "parse: %s", src)
	e := New()
	_, err = e.Run(prog)
	return err
}

// Pattern matching rest binding.
func TestMatch_RestBinding(t *testing.T) {
	v := run(t, `match [1, 2, 3, 4] {
  |[first, ...rest]| => [first, rest]
}
`)
	assert.Equal(t, "[1, [2, 3, 4]]", value.Display(v))
}

func TestMatch_EmptyRest(t *testing.T) {
	v := run(t, `match [1] {
  |[first, ...rest]| => rest
}
`)
	assert.Equal(t, "[]", value.Display(v))
}

func TestMatch_NoClauseMatches(t *testing.T) {
	v := run(t, `match [1, 2] {
  |[a]| => a
}
`)
	assert.True(t, v.IsNone())
}

// Rule enforcement atomicity.
func TestGraph_NoCyclesRuleRejectsAtomically(t *testing.T) {
	src := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_edge("A", "B", "e", none, {})
g.add_rule(:no_cycles)
g.add_edge("B", "A", "e", none, {})
`
	err := runErr(t, src)
	require.Error(t, err)

	ok := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_edge("A", "B", "e", none, {})
g.add_rule(:no_cycles)
try {
  g.add_edge("B", "A", "e", none, {})
} catch e {
  x = 1
}
g.edges().length()
`
	v := run(t, ok)
	assert.Equal(t, float64(1), v.Num)
}

// Method mutation persistence.
func TestMethod_MutationPersistence(t *testing.T) {
	src := `graph Counter { n: 0
  fn inc() { n = n + 1 }
}
c = Counter.new()
c.inc()
c.inc()
c.inc()
c.n
`
	v := run(t, src)
	assert.Equal(t, float64(3), v.Num)
}

// The :positive behavior turns a negative insert into its absolute value.
func TestList_PositiveBehaviorNegatesNegativeInsert(t *testing.T) {
	src := `xs = []
xs.add_behavior(:positive)
xs.append(-5)
xs
`
	v := run(t, src)
	assert.Equal(t, "[5]", value.Display(v))
}

// A :positive rule would reject -5 outright, but the
// :negate_if_negative behavior transforms it to 5 before the rule ever
// sees it, so the insertion succeeds and the mutation persists through
// the plain (no-bang) append.
func TestList_PositiveRuleSeesBehaviorTransformedValue(t *testing.T) {
	src := `xs = []
xs.add_rule(:positive)
xs.add_behavior(:negate_if_negative)
xs.append(-5)
xs
`
	v := run(t, src)
	assert.Equal(t, "[5]", value.Display(v))
}

// Installing :maintain_order on a list that already holds elements
// must sort the existing elements, not just future appends.
func TestList_MaintainOrderSortsExistingElementsOnInstall(t *testing.T) {
	src := `xs = [3, 1, 2]
xs.add_behavior(:maintain_order)
xs
`
	v := run(t, src)
	assert.Equal(t, "[1, 2, 3]", value.Display(v))
}

func TestList_MaintainOrderKeepsFutureAppendsSorted(t *testing.T) {
	src := `xs = [3, 1, 2]
xs.add_behavior(:maintain_order)
xs.append!(0)
xs.append!(5)
xs
`
	v := run(t, src)
	assert.Equal(t, "[0, 1, 2, 3, 5]", value.Display(v))
}

func TestList_NoDuplicatesRejectsRepeat(t *testing.T) {
	src := `xs = [1, 2, 3]
xs.add_rule(:no_duplicates)
xs.append!(2)
`
	err := runErr(t, src)
	require.Error(t, err)

	lenSrc := `xs = [1, 2, 3]
xs.add_rule(:no_duplicates)
try {
  y = xs.append(2)
} catch e {
  y = none
}
xs.length()
`
	v := run(t, lenSrc)
	assert.Equal(t, float64(3), v.Num, "rejected insertion must not change the original list's length")
}

func TestList_InsertAtPosition(t *testing.T) {
	v := run(t, `xs = [1, 2, 4]
xs.insert!(2, 3)
xs
`)
	assert.Equal(t, "[1, 2, 3, 4]", value.Display(v))
}

func TestList_PureInsertLeavesOriginalUnchanged(t *testing.T) {
	v := run(t, `xs = [1, 2, 4]
ys = xs.insert(2, 3)
xs
`)
	assert.Equal(t, "[1, 2, 4]", value.Display(v))
}

func TestList_ReverseBang(t *testing.T) {
	v := run(t, `xs = [3, 1, 2]
xs.reverse!()
xs
`)
	assert.Equal(t, "[2, 1, 3]", value.Display(v))
}

func TestList_SortBang(t *testing.T) {
	v := run(t, `xs = [3, 1, 2]
xs.sort!()
xs
`)
	assert.Equal(t, "[1, 2, 3]", value.Display(v))
}

func TestHash_AddBehaviorRoundsOnSet(t *testing.T) {
	v := run(t, `h = hash{}
h.add_behavior(:round_to_int)
h.set!("a", 1.6)
h.get("a")
`)
	assert.Equal(t, float64(2), v.Num)
}

func TestGraph_MethodBranchInvisibleToDataQueries(t *testing.T) {
	src := `graph Counter { n: 0
  fn inc() { n = n + 1 }
}
c = Counter.new()
c.nodes().contains?("__methods__")
`
	v := run(t, src)
	assert.False(t, v.Bool)
}

func TestInheritance_SuperCall(t *testing.T) {
	src := `graph Base {
  fn greet() { return "base" }
}
graph Child from Base {
  fn greet() { return super.greet() + "+child" }
}
c = Child.new()
c.greet()
`
	v := run(t, src)
	assert.Equal(t, "base+child", value.Display(v))
}

// A function body with no explicit return falls through to none.
func TestFunction_FallsThroughToNone(t *testing.T) {
	v := run(t, `fn f() { 42 }
f()
`)
	assert.True(t, v.IsNone())
}

func TestConfigure_ErrorModeCollect(t *testing.T) {
	src := `errs = []
configure { error_mode: :collect } {
  x = 1 / 0
  y = 2
}
y
`
	v := run(t, src)
	assert.Equal(t, float64(2), v.Num)
}

func TestTryCatch_BindsError(t *testing.T) {
	src := `result = none
try {
  x = 1 / 0
} catch e {
  result = "caught"
}
result
`
	v := run(t, src)
	assert.Equal(t, "caught", value.Display(v))
}

func TestElementWiseOperators(t *testing.T) {
	v := run(t, `[1, 2, 3] .+ [10, 20, 30, 40]`)
	assert.Equal(t, "[11, 22, 33]", value.Display(v))
}

func TestTruthiness_AndOrReturnOperand(t *testing.T) {
	v := run(t, `0 or "fallback"`)
	assert.Equal(t, "fallback", value.Display(v))

	v2 := run(t, `"x" and 42`)
	assert.Equal(t, float64(42), v2.Num)
}

func TestInOperator(t *testing.T) {
	assert.True(t, run(t, `2 in [1, 2, 3]`).Bool)
	assert.False(t, run(t, `9 in [1, 2, 3]`).Bool)
	assert.True(t, run(t, `"a" in {a: 1}`).Bool)
	assert.True(t, run(t, `"ell" in "hello"`).Bool)
}

// Scenario B's observable shape: edges() is a list of [from, to, type]
// triples.
func TestGraph_EdgesAreTriples(t *testing.T) {
	v := run(t, `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_edge("A", "B", "e", none, {})
g.edges()
`)
	assert.Equal(t, `[["A", "B", "e"]]`, value.Display(v))
}

// Scenario C: variable-length path with min 1, max 2 over a LINK chain.
func TestGraph_VariableLengthPathMatch(t *testing.T) {
	src := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_node("C", 3)
g.add_node("D", 4)
g.add_edge("A", "B", "LINK", none, {})
g.add_edge("B", "C", "LINK", none, {})
g.add_edge("C", "D", "LINK", none, {})
g.match([ node("s"), path(type: "LINK", min: 1, max: 2), node("t") ]).length()
`
	v := run(t, src)
	assert.Equal(t, float64(5), v.Num, "A->B, A->C, B->C, B->D, C->D")
}

func TestGraph_NodesAllShowsMethodBranch(t *testing.T) {
	src := `graph Counter { n: 0
  fn inc() { n = n + 1 }
}
c = Counter.new()
c.nodes(:all).contains?("__methods__")
`
	assert.True(t, run(t, src).Bool)
}

func TestGraph_VisualizeCloneRoundTrip(t *testing.T) {
	src := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_edge("A", "B", "e", 2, {})
g.clone().visualize() == g.visualize()
`
	assert.True(t, run(t, src).Bool)
}

func TestConfigure_CollectExposesErrors(t *testing.T) {
	src := `n = 0
configure { error_mode: :collect } {
  x = 1 / 0
  n = errors().length()
}
n
`
	v := run(t, src)
	assert.Equal(t, float64(1), v.Num)
}

func TestMatch_StandaloneRestPattern(t *testing.T) {
	v := run(t, `match [1, 2, 3] {
  |[first, ...]| => first
}
`)
	assert.Equal(t, float64(1), v.Num)
}

func TestConfigure_PrecisionDirective(t *testing.T) {
	v := run(t, `configure { :precision 2 } {
  r = 10 / 3
}
r
`)
	assert.Equal(t, 3.33, v.Num)
}

func TestConfigure_IntegerDirective(t *testing.T) {
	v := run(t, `configure { :integer } {
  r = 7 / 2
}
r
`)
	assert.Equal(t, float64(3), v.Num)
}

func TestGraph_MaxDegreeZeroForbidsEveryEdge(t *testing.T) {
	src := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_rule(:max_degree, 0)
g.add_edge("A", "B", "e", none, {})
`
	require.Error(t, runErr(t, src))
}

func TestGraph_MaxChildrenVariant(t *testing.T) {
	src := `g = graph { type: :directed }
g.add_node("A", 1)
g.add_node("B", 2)
g.add_node("C", 3)
g.add_rule(:max_children_1)
g.add_edge("A", "B", "e", none, {})
g.add_edge("A", "C", "e", none, {})
`
	require.Error(t, runErr(t, src))
}

func TestDivisionByZeroRaises(t *testing.T) {
	require.Error(t, runErr(t, `1 / 0`))
}

func TestGraph_ReadOnlyMethodConstraint(t *testing.T) {
	src := `graph Store { n: 0
  fn grow() { self.add_node("extra", 1) }
}
s = Store.new()
s.add_rule(:read_only)
s.grow()
`
	err := runErr(t, src)
	require.Error(t, err)
}

func TestTreeSugarInstallsRuleset(t *testing.T) {
	v := run(t, `tr = tree{}
tr.has_rule("no_cycles")
`)
	assert.True(t, v.Bool)
}

func TestMixin_IncludeCopiesMethods(t *testing.T) {
	src := `graph Greeter {
  fn greet() { return "hi" }
}
graph Host {
  include(Greeter)
  fn own() { return "own" }
}
h = Host.new()
h.greet()
`
	v := run(t, src)
	assert.Equal(t, "hi", value.Display(v))
}

func TestList_NoDuplicatesCleanPrunesExisting(t *testing.T) {
	v := run(t, `xs = [1, 1, 2]
xs.add_rule(:no_duplicates)
xs
`)
	assert.Equal(t, "[1, 2]", value.Display(v))
}

func TestRecursionDepthCeiling(t *testing.T) {
	src := `fn loop(n) { return loop(n + 1) }
loop(0)
`
	err := runErr(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call depth")
}

func TestForLoopOverRange(t *testing.T) {
	v := run(t, `total = 0
for i in range(1, 5) {
  total = total + i
}
total
`)
	assert.Equal(t, float64(10), v.Num)
}
