package ast

import "github.com/xvandervort/graphoid/pkg/token"

// Pattern is a value pattern as used in function clauses and `match`
// expressions.
type Pattern interface {
	Node
	patternNode()
}

// LiteralPattern matches a literal number, string, bool, or none value.
type LiteralPattern struct {
	Position token.Position
	Value    Expression // NumberLiteral | StringLiteral | BoolLiteral | NoneLiteral
}

func (p *LiteralPattern) Pos() token.Position { return p.Position }
func (*LiteralPattern) patternNode()          {}

// WildcardPattern matches any value and binds nothing: `_`.
type WildcardPattern struct{ Position token.Position }

func (p *WildcardPattern) Pos() token.Position { return p.Position }
func (*WildcardPattern) patternNode()          {}

// VariablePattern matches any value and binds it to Name.
type VariablePattern struct {
	Position token.Position
	Name     string
}

func (p *VariablePattern) Pos() token.Position { return p.Position }
func (*VariablePattern) patternNode()          {}

// ListPattern matches a list of exact length, element-by-element; if
// Rest is non-empty it matches a list of at least len(Elements) and
// binds the remainder to Rest.
type ListPattern struct {
	Position token.Position
	Elements []Pattern
	Rest     string // "" if no `...rest` tail
}

func (p *ListPattern) Pos() token.Position { return p.Position }
func (*ListPattern) patternNode()          {}
