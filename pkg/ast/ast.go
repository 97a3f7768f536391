// Package ast defines the Graphoid abstract syntax tree produced by the
// parser and walked by the evaluator.
package ast

import "github.com/xvandervort/graphoid/pkg/token"

// Node is the common interface for every AST node.
type Node interface {
	Pos() token.Position
}

// Statement is an AST node that appears at statement position.
type Statement interface {
	Node
	stmtNode()
}

// Expression is an AST node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Program is the root of a parsed file.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{Line: 1, Column: 1}
	}
	return p.Statements[0].Pos()
}

// ---- Statements ----

// LetStatement binds an expression's value to a name: `name = expr`.
type LetStatement struct {
	Position token.Position
	Name     string
	Value    Expression
}

func (s *LetStatement) Pos() token.Position { return s.Position }
func (*LetStatement) stmtNode()             {}

// ExprStatement wraps an expression used in statement position.
type ExprStatement struct {
	Position token.Position
	Expr     Expression
}

func (s *ExprStatement) Pos() token.Position { return s.Position }
func (*ExprStatement) stmtNode()             {}

// FunctionDecl declares a named function: `fn name(params) { body }`, or
// a pattern-matching function when Clauses is non-empty.
type FunctionDecl struct {
	Position token.Position
	Name     string
	Private  bool
	Params   []string
	Body     []Statement
	Clauses  []*FunctionClause // non-nil for pattern-matching functions
}

func (s *FunctionDecl) Pos() token.Position { return s.Position }
func (*FunctionDecl) stmtNode()             {}

// FunctionClause is one `|pattern| => expr` clause of a pattern-matching
// function or lambda.
type FunctionClause struct {
	Position token.Position
	Pattern  Pattern
	Body     Expression
}

func (c *FunctionClause) Pos() token.Position { return c.Position }

// GraphDecl declares a graph-as-class: `graph Name [from Parent] { ... }`.
type GraphDecl struct {
	Position token.Position
	Name     string
	Parent   string // empty if no `from Parent`
	Fields   []*FieldDecl
	Methods  []*FunctionDecl
	Includes []Expression // mixin graphs named by `include(...)` entries
}

func (s *GraphDecl) Pos() token.Position { return s.Position }
func (*GraphDecl) stmtNode()             {}

// FieldDecl is a data member of a GraphDecl: `name: initExpr`.
type FieldDecl struct {
	Position token.Position
	Name     string
	Init     Expression
}

// ModuleDecl declares the enclosing file's module identity.
type ModuleDecl struct {
	Position token.Position
	Name     string
	Alias    string // empty if no `alias a`
}

func (s *ModuleDecl) Pos() token.Position { return s.Position }
func (*ModuleDecl) stmtNode()             {}

// ImportStatement is `import "path" [as alias]`.
type ImportStatement struct {
	Position token.Position
	Path     string
	Alias    string
}

func (s *ImportStatement) Pos() token.Position { return s.Position }
func (*ImportStatement) stmtNode()             {}

// LoadStatement is `load "path"`.
type LoadStatement struct {
	Position token.Position
	Path     string
}

func (s *LoadStatement) Pos() token.Position { return s.Position }
func (*LoadStatement) stmtNode()             {}

// IfStatement is `if cond { then } [else { else }]`.
type IfStatement struct {
	Position token.Position
	Cond     Expression
	Then     []Statement
	Else     []Statement // nil if no else branch
}

func (s *IfStatement) Pos() token.Position { return s.Position }
func (*IfStatement) stmtNode()             {}

// WhileStatement is `while cond { body }`.
type WhileStatement struct {
	Position token.Position
	Cond     Expression
	Body     []Statement
}

func (s *WhileStatement) Pos() token.Position { return s.Position }
func (*WhileStatement) stmtNode()             {}

// ForStatement is `for name in iterable { body }`.
type ForStatement struct {
	Position token.Position
	Var      string
	Iterable Expression
	Body     []Statement
}

func (s *ForStatement) Pos() token.Position { return s.Position }
func (*ForStatement) stmtNode()             {}

// ReturnStatement is `return [expr]`.
type ReturnStatement struct {
	Position token.Position
	Value    Expression // nil if bare `return`
}

func (s *ReturnStatement) Pos() token.Position { return s.Position }
func (*ReturnStatement) stmtNode()             {}

// BreakStatement is `break`.
type BreakStatement struct{ Position token.Position }

func (s *BreakStatement) Pos() token.Position { return s.Position }
func (*BreakStatement) stmtNode()             {}

// ContinueStatement is `continue`.
type ContinueStatement struct{ Position token.Position }

func (s *ContinueStatement) Pos() token.Position { return s.Position }
func (*ContinueStatement) stmtNode()             {}

// TryStatement is `try { Body } catch name { Handler }`.
type TryStatement struct {
	Position   token.Position
	Body       []Statement
	CatchName  string
	Handler    []Statement
}

func (s *TryStatement) Pos() token.Position { return s.Position }
func (*TryStatement) stmtNode()             {}

// ConfigureStatement is `configure { directives... } [{ Body }]`.
//
// Directives holds raw key/value pairs (`:integer`, `precision: 10`,
// `error_mode: :strict`, …); the evaluator interprets them (this design
// §4.4.3, §4.4.9).
type ConfigureStatement struct {
	Position   token.Position
	Directives []ConfigDirective
	Body       []Statement // nil for a file-prelude configure with no block body
}

func (s *ConfigureStatement) Pos() token.Position { return s.Position }
func (*ConfigureStatement) stmtNode()             {}

// ConfigDirective is one entry of a configure block: either a bare
// symbol directive (`:integer`) or a key: value pair.
type ConfigDirective struct {
	Key   string
	Value Expression // nil for bare symbol directives
}

// ---- Expressions ----

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Position token.Position
	Value    float64
}

func (e *NumberLiteral) Pos() token.Position { return e.Position }
func (*NumberLiteral) exprNode()             {}

// StringLiteral is a string literal.
type StringLiteral struct {
	Position token.Position
	Value    string
}

func (e *StringLiteral) Pos() token.Position { return e.Position }
func (*StringLiteral) exprNode()             {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Position token.Position
	Value    bool
}

func (e *BoolLiteral) Pos() token.Position { return e.Position }
func (*BoolLiteral) exprNode()             {}

// NoneLiteral is `none`.
type NoneLiteral struct{ Position token.Position }

func (e *NoneLiteral) Pos() token.Position { return e.Position }
func (*NoneLiteral) exprNode()             {}

// SymbolLiteral is `:name`.
type SymbolLiteral struct {
	Position token.Position
	Name     string
}

func (e *SymbolLiteral) Pos() token.Position { return e.Position }
func (*SymbolLiteral) exprNode()             {}

// Identifier is a variable reference.
type Identifier struct {
	Position token.Position
	Name     string
}

func (e *Identifier) Pos() token.Position { return e.Position }
func (*Identifier) exprNode()             {}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Position token.Position
	Op       token.Kind
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Position }
func (*BinaryExpr) exprNode()             {}

// UnaryExpr is `op operand` (`-x`, `not x`).
type UnaryExpr struct {
	Position token.Position
	Op       token.Kind
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Position }
func (*UnaryExpr) exprNode()             {}

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	Position token.Position
	Receiver Expression
	Index    Expression
}

func (e *IndexExpr) Pos() token.Position { return e.Position }
func (*IndexExpr) exprNode()             {}

// SliceExpr is `receiver[from:to]`; either bound may be nil.
type SliceExpr struct {
	Position token.Position
	Receiver Expression
	From     Expression
	To       Expression
}

func (e *SliceExpr) Pos() token.Position { return e.Position }
func (*SliceExpr) exprNode()             {}

// MemberExpr is `receiver.name`.
type MemberExpr struct {
	Position token.Position
	Receiver Expression
	Name     string
}

func (e *MemberExpr) Pos() token.Position { return e.Position }
func (*MemberExpr) exprNode()             {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Position token.Position
	Callee   Expression
	Args     []Expression
}

func (e *CallExpr) Pos() token.Position { return e.Position }
func (*CallExpr) exprNode()             {}

// MethodCallExpr is `receiver.name(args...)`.
type MethodCallExpr struct {
	Position token.Position
	Receiver Expression
	Name     string
	Args     []Expression
}

func (e *MethodCallExpr) Pos() token.Position { return e.Position }
func (*MethodCallExpr) exprNode()             {}

// SuperCallExpr is `super.name(args...)`.
type SuperCallExpr struct {
	Position token.Position
	Name     string
	Args     []Expression
}

func (e *SuperCallExpr) Pos() token.Position { return e.Position }
func (*SuperCallExpr) exprNode()             {}

// RespondsToExpr is `receiver.responds_to?(name)`.
type RespondsToExpr struct {
	Position token.Position
	Receiver Expression
	Name     Expression
}

func (e *RespondsToExpr) Pos() token.Position { return e.Position }
func (*RespondsToExpr) exprNode()             {}

// LambdaExpr is `params => expr` or a multi-clause pattern-matching lambda.
type LambdaExpr struct {
	Position token.Position
	Params   []string
	Body     Expression
	Clauses  []*FunctionClause
}

func (e *LambdaExpr) Pos() token.Position { return e.Position }
func (*LambdaExpr) exprNode()             {}

// MatchExpr is `match e { |pat| => expr ... }`.
type MatchExpr struct {
	Position token.Position
	Subject  Expression
	Clauses  []*FunctionClause
}

func (e *MatchExpr) Pos() token.Position { return e.Position }
func (*MatchExpr) exprNode()             {}

// ListLiteral is `[e1, e2, ...]` or `list[e1, e2, ...]`.
type ListLiteral struct {
	Position token.Position
	Elements []Expression
}

func (e *ListLiteral) Pos() token.Position { return e.Position }
func (*ListLiteral) exprNode()             {}

// HashEntry is one `key: value` pair of a HashLiteral.
type HashEntry struct {
	Key   Expression
	Value Expression
}

// HashLiteral is `hash{ k: v, ... }` or `{ k: v, ... }`.
type HashLiteral struct {
	Position token.Position
	Entries  []HashEntry
}

func (e *HashLiteral) Pos() token.Position { return e.Position }
func (*HashLiteral) exprNode()             {}

// GraphLiteral is `graph{ ... }`; Ruleset is non-empty when parsed from
// `tree{ ... }` sugar (graph{...}.with_ruleset(:tree)).
type GraphLiteral struct {
	Position  token.Position
	GraphType string // "directed" | "undirected"
	Ruleset   string // "" unless sugar-expanded from `tree{}`
	Nodes     []GraphNodeLiteral
	Edges     []GraphEdgeLiteral
}

func (e *GraphLiteral) Pos() token.Position { return e.Position }
func (*GraphLiteral) exprNode()             {}

// GraphNodeLiteral is one `node("id", value)` entry of a graph literal body.
type GraphNodeLiteral struct {
	ID    Expression
	Value Expression
}

// GraphEdgeLiteral is one `edge("from", "to", "type", weight?, props?)`
// entry of a graph literal body.
type GraphEdgeLiteral struct {
	From     Expression
	To       Expression
	EdgeType Expression
	Weight   Expression // nil if omitted
	Props    Expression // nil if omitted
}

// WithRulesetExpr is `expr.with_ruleset(:name)`, the desugaring target
// of `tree{ ... }`.
type WithRulesetExpr struct {
	Position token.Position
	Target   Expression
	Ruleset  string
}

func (e *WithRulesetExpr) Pos() token.Position { return e.Position }
func (*WithRulesetExpr) exprNode()             {}

// PatternConstructorExpr represents a call to one of the built-in
// pattern constructors `node(...)`, `edge(...)`, `path(...)` (this design
// §4.5). Args are keyword arguments as parsed (var/type/direction/min/max).
type PatternConstructorExpr struct {
	Position token.Position
	Kind     string // "node" | "edge" | "path"
	Var      string // only meaningful for "node"
	Args     map[string]Expression
}

func (e *PatternConstructorExpr) Pos() token.Position { return e.Position }
func (*PatternConstructorExpr) exprNode()             {}
