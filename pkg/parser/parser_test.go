package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/token"
)

func TestParse_Statements(t *testing.T) {
	t.Run("let_and_arithmetic_precedence", func(t *testing.T) {
		prog, err := Parse("x = 1 + 2 * 3\n")
		require.NoError(t, err)
		require.Len(t, prog.Statements, 1)
		let, ok := prog.Statements[0].(*ast.LetStatement)
		require.True(t, ok)
		assert.Equal(t, "x", let.Name)
		bin, ok := let.Value.(*ast.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, token.PLUS, bin.Op)
		rhs, ok := bin.Right.(*ast.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, token.STAR, rhs.Op)
	})

	t.Run("exponent_is_right_associative", func(t *testing.T) {
		prog, err := Parse("x = 2 ** 3 ** 2\n")
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		top, ok := let.Value.(*ast.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, token.STAR2, top.Op)
		_, leftIsLit := top.Left.(*ast.NumberLiteral)
		assert.True(t, leftIsLit)
		_, rightIsBin := top.Right.(*ast.BinaryExpr)
		assert.True(t, rightIsBin, "2 ** 3 ** 2 should parse as 2 ** (3 ** 2)")
	})

	t.Run("newline_inside_call_args_is_swallowed", func(t *testing.T) {
		_, err := Parse("f(\n  1,\n  2\n)\n")
		require.NoError(t, err)
	})

	t.Run("if_else_if_chain", func(t *testing.T) {
		src := `if x {
  y = 1
} else if z {
  y = 2
} else {
  y = 3
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
		require.True(t, ok)
		require.Len(t, ifStmt.Else, 1)
		_, ok = ifStmt.Else[0].(*ast.IfStatement)
		assert.True(t, ok)
	})

	t.Run("function_with_pattern_clauses", func(t *testing.T) {
		src := `fn fact(n) {
  |0| => 1
  |n| => n
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		fn, ok := prog.Statements[0].(*ast.FunctionDecl)
		require.True(t, ok)
		require.Len(t, fn.Clauses, 2)
		_, ok = fn.Clauses[0].Pattern.(*ast.LiteralPattern)
		assert.True(t, ok)
		_, ok = fn.Clauses[1].Pattern.(*ast.VariablePattern)
		assert.True(t, ok)
	})

	t.Run("list_pattern_with_rest", func(t *testing.T) {
		src := `fn head_tail(xs) {
  |[h, ...t]| => h
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		fn := prog.Statements[0].(*ast.FunctionDecl)
		lp, ok := fn.Clauses[0].Pattern.(*ast.ListPattern)
		require.True(t, ok)
		require.Len(t, lp.Elements, 1)
		assert.Equal(t, "t", lp.Rest)
	})

	t.Run("lambda_expression", func(t *testing.T) {
		prog, err := Parse("f = x => x * 2\n")
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		lam, ok := let.Value.(*ast.LambdaExpr)
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, lam.Params)
	})

	t.Run("match_expression", func(t *testing.T) {
		src := "result = match x {\n  |0| => \"zero\"\n  |_| => \"other\"\n}\n"
		prog, err := Parse(src)
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		m, ok := let.Value.(*ast.MatchExpr)
		require.True(t, ok)
		require.Len(t, m.Clauses, 2)
	})

	t.Run("graph_literal_with_nodes_and_edges", func(t *testing.T) {
		src := `g = graph {
  node("a", 1)
  node("b", 2)
  edge("a", "b", "knows")
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		g, ok := let.Value.(*ast.GraphLiteral)
		require.True(t, ok)
		assert.Len(t, g.Nodes, 2)
		assert.Len(t, g.Edges, 1)
	})

	t.Run("tree_sugar_desugars_to_with_ruleset", func(t *testing.T) {
		src := `t = tree {
  node("root", 1)
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		wr, ok := let.Value.(*ast.WithRulesetExpr)
		require.True(t, ok)
		assert.Equal(t, "tree", wr.Ruleset)
		_, ok = wr.Target.(*ast.GraphLiteral)
		assert.True(t, ok)
	})

	t.Run("method_call_and_member_chain", func(t *testing.T) {
		prog, err := Parse("x = a.b.c(1, 2)\n")
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		call, ok := let.Value.(*ast.MethodCallExpr)
		require.True(t, ok)
		assert.Equal(t, "c", call.Name)
		_, ok = call.Receiver.(*ast.MemberExpr)
		assert.True(t, ok)
	})

	t.Run("index_and_slice", func(t *testing.T) {
		prog, err := Parse("y = xs[0]\nz = xs[1:3]\n")
		require.NoError(t, err)
		require.Len(t, prog.Statements, 2)
		_, ok := prog.Statements[0].(*ast.LetStatement).Value.(*ast.IndexExpr)
		assert.True(t, ok)
		_, ok = prog.Statements[1].(*ast.LetStatement).Value.(*ast.SliceExpr)
		assert.True(t, ok)
	})

	t.Run("node_edge_path_pattern_constructors", func(t *testing.T) {
		prog, err := Parse(`p = node("n", type: :Person)` + "\n")
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		pc, ok := let.Value.(*ast.PatternConstructorExpr)
		require.True(t, ok)
		assert.Equal(t, "node", pc.Kind)
		assert.Equal(t, "n", pc.Var)
		require.Contains(t, pc.Args, "type")
	})

	t.Run("configure_block_with_directives_and_body", func(t *testing.T) {
		src := `configure {
  precision: 10
} {
  x = 1
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		cfg, ok := prog.Statements[0].(*ast.ConfigureStatement)
		require.True(t, ok)
		require.Len(t, cfg.Directives, 1)
		assert.Equal(t, "precision", cfg.Directives[0].Key)
		require.NotNil(t, cfg.Body)
	})

	t.Run("try_catch", func(t *testing.T) {
		src := `try {
  x = 1
} catch e {
  y = 2
}
`
		prog, err := Parse(src)
		require.NoError(t, err)
		_, ok := prog.Statements[0].(*ast.TryStatement)
		assert.True(t, ok)
	})

	t.Run("element_wise_operator_parses_as_binary", func(t *testing.T) {
		prog, err := Parse("z = a .+ b\n")
		require.NoError(t, err)
		let := prog.Statements[0].(*ast.LetStatement)
		bin, ok := let.Value.(*ast.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, token.DOTPLUS, bin.Op)
	})

	t.Run("unexpected_token_is_parse_error", func(t *testing.T) {
		_, err := Parse(")\n")
		require.Error(t, err)
		var perr *Error
		require.ErrorAs(t, err, &perr)
	})
}
