package parser

import (
	"fmt"

	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/token"
)

// parsePattern parses a value pattern as used in function clauses and
// `match` expressions: a literal, `_`, a bare
// variable name, or a list pattern `[p1, p2, ...rest]`.
func (p *Parser) parsePattern() (ast.Pattern, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, err := numberFromLiteral(tok.Literal)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("invalid number literal %q", tok.Literal)}
		}
		return &ast.LiteralPattern{Position: tok.Pos, Value: &ast.NumberLiteral{Position: tok.Pos, Value: val}}, nil
	case token.STRING:
		p.advance()
		return &ast.LiteralPattern{Position: tok.Pos, Value: &ast.StringLiteral{Position: tok.Pos, Value: tok.Literal}}, nil
	case token.TRUE:
		p.advance()
		return &ast.LiteralPattern{Position: tok.Pos, Value: &ast.BoolLiteral{Position: tok.Pos, Value: true}}, nil
	case token.FALSE:
		p.advance()
		return &ast.LiteralPattern{Position: tok.Pos, Value: &ast.BoolLiteral{Position: tok.Pos, Value: false}}, nil
	case token.NONE:
		p.advance()
		return &ast.LiteralPattern{Position: tok.Pos, Value: &ast.NoneLiteral{Position: tok.Pos}}, nil
	case token.IDENT:
		p.advance()
		if tok.Literal == "_" {
			return &ast.WildcardPattern{Position: tok.Pos}, nil
		}
		return &ast.VariablePattern{Position: tok.Pos, Name: tok.Literal}, nil
	case token.LBRACKET:
		return p.parseListPattern()
	default:
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token in pattern: %s %q", tok.Kind, tok.Literal)}
	}
}

func (p *Parser) parseListPattern() (ast.Pattern, error) {
	pos := p.advance().Pos // '['
	var elems []ast.Pattern
	rest := ""
	p.skipNewlines()
	for !p.check(token.RBRACKET) {
		if p.check(token.REST) {
			p.advance()
			// `...rest` binds the remainder; a standalone `...` matches it
			// without binding.
			if p.check(token.IDENT) {
				rest = p.advance().Literal
			} else {
				rest = "_"
			}
			p.skipNewlines()
			break
		}
		elem, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListPattern{Position: pos, Elements: elems, Rest: rest}, nil
}
