// Package parser implements Graphoid's recursive-descent parser: tokens
// from pkg/lexer in, an *ast.Program out.
package parser

import (
	"fmt"
	"strconv"

	"github.com/xvandervort/graphoid/pkg/ast"
	"github.com/xvandervort/graphoid/pkg/lexer"
	"github.com/xvandervort/graphoid/pkg/token"
)

// Error is a parse error with a single source position and a
// human-readable expected/actual description.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// Parser consumes a token stream and builds an AST.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse lexes and parses src into a *ast.Program.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) curKind() token.Kind { return p.toks[p.pos].Kind }

func (p *Parser) peekAt(off int) token.Token {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.curKind() == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf("expected %s, got %s %q", k, p.curKind(), p.cur().Literal)}
	}
	return p.advance(), nil
}

// skipNewlines consumes any number of statement-separator newlines.
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipNewlines()
	}
	return prog, nil
}

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curKind() {
	case token.FN:
		return p.parseFunctionDecl(false)
	case token.PRIV:
		p.advance()
		return p.parseFunctionDecl(true)
	case token.GRAPH:
		// `graph Name {` declares a class; `graph {` in statement position
		// is a graph-literal expression.
		if p.peekAt(1).Kind == token.IDENT {
			return p.parseGraphDecl()
		}
		return p.parseExprOrLetStatement()
	case token.MODULE:
		return p.parseModuleDecl()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.LOAD:
		return p.parseLoadStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		pos := p.advance().Pos
		return &ast.BreakStatement{Position: pos}, nil
	case token.CONTINUE:
		pos := p.advance().Pos
		return &ast.ContinueStatement{Position: pos}, nil
	case token.TRY:
		return p.parseTryStatement()
	case token.CONFIGURE:
		return p.parseConfigureStatement()
	default:
		return p.parseExprOrLetStatement()
	}
}

func (p *Parser) parseExprOrLetStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	if p.check(token.IDENT) && p.peekAt(1).Kind == token.ASSIGN {
		name := p.advance().Literal
		p.advance() // '='
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LetStatement{Position: pos, Name: name, Value: val}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStatement{Position: pos, Expr: expr}, nil
}

func (p *Parser) parseFunctionDecl(priv bool) (ast.Statement, error) {
	pos := p.advance().Pos // 'fn'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.RPAREN) {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, id.Literal)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()

	if p.check(token.PIPE) {
		clauses, err := p.parseFunctionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.FunctionDecl{Position: pos, Name: name.Literal, Private: priv, Params: params, Clauses: clauses}, nil
	}

	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Position: pos, Name: name.Literal, Private: priv, Params: params, Body: stmts}, nil
}

// parseFunctionClauses parses a sequence of `|pattern| => expr` clauses.
func (p *Parser) parseFunctionClauses() ([]*ast.FunctionClause, error) {
	var clauses []*ast.FunctionClause
	for p.check(token.PIPE) {
		clausePos := p.cur().Pos
		p.advance()
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.PIPE); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ARROW); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, &ast.FunctionClause{Position: clausePos, Pattern: pat, Body: body})
		p.match(token.COMMA)
		p.skipNewlines()
	}
	return clauses, nil
}

func (p *Parser) parseGraphDecl() (ast.Statement, error) {
	pos := p.advance().Pos // 'graph'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.GraphDecl{Position: pos, Name: name.Literal}
	if p.match(token.FROM) {
		parent, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		decl.Parent = parent.Literal
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		priv := p.match(token.PRIV)
		if p.check(token.FN) {
			fn, err := p.parseFunctionDecl(priv)
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, fn.(*ast.FunctionDecl))
		} else if p.check(token.IDENT) && p.cur().Literal == "include" && p.peekAt(1).Kind == token.LPAREN {
			p.advance()
			p.advance()
			mixin, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			decl.Includes = append(decl.Includes, mixin)
		} else {
			fieldPos := p.cur().Pos
			fname, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			init, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			decl.Fields = append(decl.Fields, &ast.FieldDecl{Position: fieldPos, Name: fname.Literal, Init: init})
		}
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseModuleDecl() (ast.Statement, error) {
	pos := p.advance().Pos
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.ModuleDecl{Position: pos, Name: name.Literal}
	if p.match(token.ALIAS) {
		alias, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		decl.Alias = alias.Literal
	}
	return decl, nil
}

func (p *Parser) parseImportStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStatement{Position: pos, Path: pathTok.Literal}
	if p.match(token.AS) {
		alias, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Alias = alias.Literal
	}
	return stmt, nil
}

func (p *Parser) parseLoadStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	return &ast.LoadStatement{Position: pos, Path: pathTok.Literal}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Position: pos, Cond: cond, Then: then}
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			elseIf, err := p.parseIfStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Statement{elseIf}
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Position: pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseForStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Position: pos, Var: name.Literal, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	if p.check(token.NEWLINE) || p.check(token.RBRACE) || p.check(token.EOF) {
		return &ast.ReturnStatement{Position: pos}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Position: pos, Value: val}, nil
}

func (p *Parser) parseTryStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CATCH); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	handler, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.TryStatement{Position: pos, Body: body, CatchName: name.Literal, Handler: handler}, nil
}

func (p *Parser) parseConfigureStatement() (ast.Statement, error) {
	pos := p.advance().Pos
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()
	var directives []ast.ConfigDirective
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if p.check(token.SYMBOL) {
			sym := p.advance().Literal
			// `:precision 10` carries a value after the bare symbol form.
			if p.check(token.NUMBER) {
				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				directives = append(directives, ast.ConfigDirective{Key: sym, Value: val})
			} else {
				directives = append(directives, ast.ConfigDirective{Key: sym})
			}
		} else {
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
			directives = append(directives, ast.ConfigDirective{Key: key.Literal, Value: val})
		}
		p.match(token.COMMA)
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	stmt := &ast.ConfigureStatement{Position: pos, Directives: directives}
	if p.check(token.LBRACE) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
	}
	return stmt, nil
}

// numberFromLiteral parses a numeric token's literal text into a float64.
func numberFromLiteral(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
