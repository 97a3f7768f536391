package parser

import (
	"fmt"

	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/token"
)

// parseExpr is the entry point for expression parsing; it also handles
// lambda expressions (`params => expr`), which start with what looks
// like a primary expression and only resolve to a lambda once `=>` is
// seen, and `match` expressions.
func (p *Parser) parseExpr() (ast.Expression, error) {
	if p.check(token.MATCH) {
		return p.parseMatchExpr()
	}
	if lam, ok, err := p.tryParseLambda(); err != nil {
		return nil, err
	} else if ok {
		return lam, nil
	}
	return p.parseOr()
}

// tryParseLambda speculatively parses a lambda parameter list. Graphoid
// lambdas are `x => expr` or `(a, b) => expr`; a single bare identifier
// followed by `=>` is also a lambda, not a variable reference.
func (p *Parser) tryParseLambda() (ast.Expression, bool, error) {
	start := p.pos
	pos := p.cur().Pos

	var params []string
	switch {
	case p.check(token.IDENT) && p.peekAt(1).Kind == token.ARROW:
		params = []string{p.advance().Literal}
	case p.check(token.LPAREN):
		save := p.pos
		p.advance()
		var names []string
		ok := true
		for !p.check(token.RPAREN) {
			if !p.check(token.IDENT) {
				ok = false
				break
			}
			names = append(names, p.advance().Literal)
			if !p.match(token.COMMA) {
				break
			}
		}
		if !ok || !p.check(token.RPAREN) {
			p.pos = save
			return nil, false, nil
		}
		p.advance() // ')'
		if !p.check(token.ARROW) {
			p.pos = save
			return nil, false, nil
		}
		params = names
	default:
		return nil, false, nil
	}

	p.advance() // '=>'
	if p.check(token.PIPE) {
		p.pos = start
		return nil, false, nil
	}
	body, err := p.parseOr()
	if err != nil {
		return nil, false, err
	}
	return &ast.LambdaExpr{Position: pos, Params: params, Body: body}, true, nil
}

func (p *Parser) parseMatchExpr() (ast.Expression, error) {
	pos := p.advance().Pos
	subject, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	clauses, err := p.parseFunctionClauses()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.MatchExpr{Position: pos, Subject: subject, Clauses: clauses}, nil
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		pos := p.advance().Pos
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		pos := p.advance().Pos
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expression, error) {
	if p.check(token.NOT) {
		pos := p.advance().Pos
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: pos, Op: token.NOT, Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]bool{
	token.EQ: true, token.NEQ: true, token.LT: true, token.LTE: true,
	token.GT: true, token.GTE: true, token.IN: true,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for comparisonOps[p.curKind()] {
		op := p.curKind()
		pos := p.advance().Pos
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

var additiveOps = map[token.Kind]bool{
	token.PLUS: true, token.MINUS: true, token.DOTPLUS: true, token.DOTMINUS: true,
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for additiveOps[p.curKind()] {
		op := p.curKind()
		pos := p.advance().Pos
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

var multiplicativeOps = map[token.Kind]bool{
	token.STAR: true, token.SLASH: true, token.SLASH2: true, token.PERCENT: true,
	token.DOTSTAR: true, token.DOTSLASH: true,
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for multiplicativeOps[p.curKind()] {
		op := p.curKind()
		pos := p.advance().Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(token.MINUS) || p.check(token.NOT) {
		op := p.curKind()
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: pos, Op: op, Operand: operand}, nil
	}
	return p.parseExponent()
}

// parseExponent implements right-associative `**`.
func (p *Parser) parseExponent() (ast.Expression, error) {
	left, err := p.parseCallChain()
	if err != nil {
		return nil, err
	}
	if p.check(token.STAR2) {
		pos := p.advance().Pos
		right, err := p.parseUnary() // right side may itself start with unary `-`
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Position: pos, Op: token.STAR2, Left: left, Right: right}, nil
	}
	return left, nil
}

// parseCallChain parses call/index/member/slice postfix chains binding
// at the tightest precedence.
func (p *Parser) parseCallChain() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.LPAREN):
			pos := p.advance().Pos
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Position: pos, Callee: expr, Args: args}
		case p.check(token.LBRACKET):
			pos := p.advance().Pos
			if p.check(token.COLON) {
				p.advance()
				toExpr, err := p.parseSliceBound()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBRACKET); err != nil {
					return nil, err
				}
				expr = &ast.SliceExpr{Position: pos, Receiver: expr, To: toExpr}
				continue
			}
			first, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if p.match(token.COLON) {
				toExpr, err := p.parseSliceBound()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBRACKET); err != nil {
					return nil, err
				}
				expr = &ast.SliceExpr{Position: pos, Receiver: expr, From: first, To: toExpr}
				continue
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Position: pos, Receiver: expr, Index: first}
		case p.check(token.DOT):
			pos := p.advance().Pos
			if p.check(token.SUPER) {
				return nil, &Error{Pos: pos, Msg: "unexpected 'super' after '.'"}
			}
			nameTok, err := p.expectMemberName()
			if err != nil {
				return nil, err
			}
			if p.check(token.LPAREN) {
				p.advance()
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				if nameTok == "responds_to?" && len(args) == 1 {
					expr = &ast.RespondsToExpr{Position: pos, Receiver: expr, Name: args[0]}
				} else {
					expr = &ast.MethodCallExpr{Position: pos, Receiver: expr, Name: nameTok, Args: args}
				}
			} else {
				expr = &ast.MemberExpr{Position: pos, Receiver: expr, Name: nameTok}
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseSliceBound() (ast.Expression, error) {
	if p.check(token.RBRACKET) {
		return nil, nil
	}
	return p.parseOr()
}

// expectMemberName accepts an IDENT, or any keyword used loosely as a
// method/field name (graphs commonly define methods named after
// keywords like `list`).
func (p *Parser) expectMemberName() (string, error) {
	if p.check(token.IDENT) {
		return p.advance().Literal, nil
	}
	// Fall back: accept keyword tokens as identifiers in member position.
	tok := p.cur()
	if tok.Literal != "" {
		p.advance()
		return tok.Literal, nil
	}
	return "", &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected member name, got %s", tok.Kind)}
}

func (p *Parser) parseArgList() ([]ast.Expression, error) {
	var args []ast.Expression
	p.skipNewlines()
	for !p.check(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, err := numberFromLiteral(tok.Literal)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("invalid number literal %q", tok.Literal)}
		}
		return &ast.NumberLiteral{Position: tok.Pos, Value: val}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Position: tok.Pos, Value: tok.Literal}, nil
	case token.SYMBOL:
		p.advance()
		return &ast.SymbolLiteral{Position: tok.Pos, Name: tok.Literal}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Position: tok.Pos, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Position: tok.Pos, Value: false}, nil
	case token.NONE:
		p.advance()
		return &ast.NoneLiteral{Position: tok.Pos}, nil
	case token.SUPER:
		return p.parseSuperCall()
	case token.IDENT:
		return p.parseIdentOrPatternCtor()
	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LIST:
		p.advance()
		return p.parseListLiteral()
	case token.HASH:
		p.advance()
		return p.parseHashLiteral()
	case token.LBRACE:
		return p.parseHashLiteral()
	case token.GRAPH:
		return p.parseGraphLiteral("directed")
	case token.TREE:
		return p.parseTreeLiteral()
	default:
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s %q", tok.Kind, tok.Literal)}
	}
}

func (p *Parser) parseSuperCall() (ast.Expression, error) {
	pos := p.advance().Pos // 'super'
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	name, err := p.expectMemberName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.SuperCallExpr{Position: pos, Name: name, Args: args}, nil
}

// parseIdentOrPatternCtor parses a bare identifier, recognizing the
// built-in pattern constructors `node(...)`, `edge(...)`, `path(...)`
// by name when immediately followed by `(`.
func (p *Parser) parseIdentOrPatternCtor() (ast.Expression, error) {
	tok := p.advance()
	if (tok.Literal == "node" || tok.Literal == "edge" || tok.Literal == "path") && p.check(token.LPAREN) {
		return p.parsePatternConstructor(tok)
	}
	return &ast.Identifier{Position: tok.Pos, Name: tok.Literal}, nil
}

func (p *Parser) parsePatternConstructor(nameTok token.Token) (ast.Expression, error) {
	p.advance() // '('
	args := map[string]ast.Expression{}
	varName := ""
	first := true
	p.skipNewlines()
	for !p.check(token.RPAREN) {
		if first && nameTok.Literal == "node" && p.check(token.STRING) {
			varName = p.advance().Literal
			first = false
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
			continue
		}
		first = false
		key, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args[key.Literal] = val
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.PatternConstructorExpr{Position: nameTok.Pos, Kind: nameTok.Literal, Var: varName, Args: args}, nil
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	pos, err := p.expect(token.LBRACKET)
	if err != nil {
		return nil, err
	}
	var elems []ast.Expression
	p.skipNewlines()
	for !p.check(token.RBRACKET) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
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
	return &ast.ListLiteral{Position: pos.Pos, Elements: elems}, nil
}

func (p *Parser) parseHashLiteral() (ast.Expression, error) {
	pos, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var entries []ast.HashEntry
	p.skipNewlines()
	for !p.check(token.RBRACE) {
		var key ast.Expression
		if p.check(token.IDENT) && p.peekAt(1).Kind == token.COLON {
			tok := p.advance()
			key = &ast.StringLiteral{Position: tok.Pos, Value: tok.Literal}
		} else {
			k, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			key = k
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.HashEntry{Key: key, Value: val})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.skipNewlines()
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.HashLiteral{Position: pos.Pos, Entries: entries}, nil
}

func (p *Parser) parseGraphLiteral(defaultType string) (ast.Expression, error) {
	pos := p.advance().Pos // 'graph'
	lit := &ast.GraphLiteral{Position: pos, GraphType: defaultType}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if p.check(token.IDENT) && p.cur().Literal == "type" && p.peekAt(1).Kind == token.COLON {
			p.advance()
			p.advance()
			sym, err := p.expect(token.SYMBOL)
			if err != nil {
				return nil, err
			}
			lit.GraphType = sym.Literal
		} else if p.check(token.IDENT) && p.cur().Literal == "node" {
			p.advance()
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if len(args) >= 1 {
				n := ast.GraphNodeLiteral{ID: args[0]}
				if len(args) >= 2 {
					n.Value = args[1]
				}
				lit.Nodes = append(lit.Nodes, n)
			}
		} else if p.check(token.IDENT) && p.cur().Literal == "edge" {
			p.advance()
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			e := ast.GraphEdgeLiteral{}
			if len(args) > 0 {
				e.From = args[0]
			}
			if len(args) > 1 {
				e.To = args[1]
			}
			if len(args) > 2 {
				e.EdgeType = args[2]
			}
			if len(args) > 3 {
				e.Weight = args[3]
			}
			if len(args) > 4 {
				e.Props = args[4]
			}
			lit.Edges = append(lit.Edges, e)
		} else {
			return nil, &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf("unexpected token in graph literal body: %s", p.curKind())}
		}
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseTreeLiteral implements `tree{ ... }` as sugar for
// `graph{ ... }.with_ruleset(:tree)`.
func (p *Parser) parseTreeLiteral() (ast.Expression, error) {
	pos := p.cur().Pos
	p.toks[p.pos].Kind = token.GRAPH // reuse the graph-literal-body parser
	g, err := p.parseGraphLiteral("directed")
	if err != nil {
		return nil, err
	}
	return &ast.WithRulesetExpr{Position: pos, Target: g, Ruleset: "tree"}, nil
}
