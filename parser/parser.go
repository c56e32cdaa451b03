// Package parser implements a recursive-descent parser over the token
// stream produced by package lexer, covering the language surface of
// spec.md §6.1: variable declaration and assignment, the full expression
// grammar, control-flow statements, and func/class/enum/switch
// declarations recognized structurally per original_source/src/parser.c.
// The parser is single-pass and, per spec.md §9's lexer/parser coupling
// note, not restartable — a failed parse must be retried with a fresh
// Parser over a fresh Lexer.
package parser

import (
	"fmt"

	"github.com/concoctist/concoct-go/ast"
	"github.com/concoctist/concoct-go/lexer"
)

// Parser consumes tokens from a Lexer one at a time, with one token of
// lookahead buffered for the rare construct that needs it (e.g.
// distinguishing an assignment from a bare expression statement).
type Parser struct {
	lex    *lexer.Lexer
	cur    lexer.Token
	peeked *lexer.Token
}

// New constructs a Parser over lex, primed with the first token.
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
		return nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return &Error{Line: lexErr.Line, Message: lexErr.Message}
		}
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) peek() (lexer.Token, error) {
	if p.peeked != nil {
		return *p.peeked, nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return lexer.Token{}, &Error{Line: lexErr.Line, Message: lexErr.Message}
		}
		return lexer.Token{}, err
	}
	p.peeked = &tok
	return tok, nil
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &Error{Line: p.cur.Line, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != tt {
		return lexer.Token{}, p.errf("expected %s at line %d, got %s", tt, p.cur.Line, p.cur.Type)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// skipEOLs consumes zero or more end-of-line tokens, which this grammar
// treats as statement separators, not significant whitespace within an
// expression.
func (p *Parser) skipEOLs() error {
	for p.cur.Type == lexer.EOL {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// Parse consumes the entire token stream and returns the resulting
// Program, or the first parse error encountered.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	for p.cur.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Type {
	case lexer.Var:
		return p.parseVarDecl()
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.If:
		return p.parseIf()
	case lexer.While:
		return p.parseWhile()
	case lexer.Do:
		return p.parseDoWhile()
	case lexer.For:
		return p.parseFor()
	case lexer.Func:
		return p.parseFuncDecl()
	case lexer.Return:
		return p.parseReturn()
	case lexer.Break:
		line := p.cur.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBreak(line), nil
	case lexer.Continue:
		line := p.cur.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewContinue(line), nil
	case lexer.Class:
		return p.parseClassDecl()
	case lexer.Enum:
		return p.parseEnumDecl()
	case lexer.Switch:
		return p.parseSwitch()
	case lexer.Use:
		return p.parseUse()
	case lexer.Namespace:
		return p.parseNamespace()
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement handles `ident = expr` (assignment) and bare
// expression statements, disambiguated by one token of lookahead.
func (p *Parser) parseSimpleStatement() (ast.Stmt, error) {
	line := p.cur.Line
	if p.cur.Type == lexer.Ident {
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.Type == lexer.Assign {
			name := p.cur.Text
			if err := p.advance(); err != nil { // consume ident
				return nil, err
			}
			if err := p.advance(); err != nil { // consume '='
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return ast.NewAssign(line, name, value), nil
		}
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewExprStmt(line, expr), nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil { // consume 'var'
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.cur.Type == lexer.Assign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewVarDecl(line, name.Text, init), nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	line := p.cur.Line
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != lexer.RBrace {
		if p.cur.Type == lexer.EOF {
			return nil, p.errf("expected '}' at line %d, got EOF", line)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewBlock(line, stmts), nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	save := p.cur
	if err := p.skipEOLsPeekOnly(); err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.Else {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == lexer.If {
			elseStmt, err = p.parseIf()
		} else {
			elseStmt, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	} else {
		p.cur = save
	}
	return ast.NewIf(line, cond, then, elseStmt), nil
}

// skipEOLsPeekOnly is used where an `else` may follow a block across a
// line break, but an EOL with no following `else` must not be consumed
// (it terminates the enclosing statement). Since this grammar has no
// significant-newline ambiguity beyond this one spot, a simple lookahead
// via peek() suffices without a full backtracking token buffer.
func (p *Parser) skipEOLsPeekOnly() error {
	for p.cur.Type == lexer.EOL {
		next, err := p.peek()
		if err != nil {
			return err
		}
		if next.Type != lexer.Else {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(line, cond, body), nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.While); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewDoWhile(line, body, cond), nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var init ast.Stmt
	var err error
	if p.cur.Type != lexer.Comma {
		init, err = p.parseSimpleOrVar()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Comma); err != nil {
		return nil, err
	}
	var cond ast.Expr
	if p.cur.Type != lexer.Comma {
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Comma); err != nil {
		return nil, err
	}
	var post ast.Stmt
	if p.cur.Type != lexer.RParen {
		post, err = p.parseSimpleOrVar()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(line, init, cond, post, body), nil
}

func (p *Parser) parseSimpleOrVar() (ast.Stmt, error) {
	if p.cur.Type == lexer.Var {
		return p.parseVarDecl()
	}
	return p.parseSimpleStatement()
}

func (p *Parser) parseFuncDecl() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []string
	for p.cur.Type != lexer.RParen {
		param, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, param.Text)
		if p.cur.Type == lexer.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(line, name.Text, params, body), nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.EOL || p.cur.Type == lexer.RBrace || p.cur.Type == lexer.EOF {
		return ast.NewReturn(line, nil), nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(line, value), nil
}

func (p *Parser) parseClassDecl() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var members []ast.Stmt
	for p.cur.Type != lexer.RBrace {
		if p.cur.Type == lexer.EOF {
			return nil, p.errf("expected '}' at line %d, got EOF", line)
		}
		member, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewClassDecl(line, name.Text, members), nil
}

func (p *Parser) parseEnumDecl() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var values []string
	for p.cur.Type != lexer.RBrace {
		v, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		values = append(values, v.Text)
		if p.cur.Type == lexer.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewEnumDecl(line, name.Text, values), nil
}

func (p *Parser) parseSwitch() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var cases []ast.SwitchCase
	for p.cur.Type != lexer.RBrace {
		switch p.cur.Type {
		case lexer.Case:
			if err := p.advance(); err != nil {
				return nil, err
			}
			var values []ast.Expr
			for {
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				if p.cur.Type != lexer.Comma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{Values: values, Body: body})
		case lexer.Default:
			if err := p.advance(); err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{Default: true, Body: body})
		default:
			return nil, p.errf("expected 'case' or 'default' at line %d, got %s", p.cur.Line, p.cur.Type)
		}
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewSwitch(line, subject, cases), nil
}

// parseCaseBody parses the statements following a case/default arm's
// expression list up to the next case, default, or closing brace.
// spec.md §6.1's punctuation set has no ':' token, so a case arm's body
// is delimited purely by what follows, not by an introducer punctuation.
func (p *Parser) parseCaseBody() ([]ast.Stmt, error) {
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != lexer.Case && p.cur.Type != lexer.Default && p.cur.Type != lexer.RBrace {
		if p.cur.Type == lexer.EOF {
			return nil, p.errf("expected case body to end before EOF")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

func (p *Parser) parseUse() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	return ast.NewUseStmt(line, name.Text), nil
}

func (p *Parser) parseNamespace() (ast.Stmt, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	if err := p.skipEOLs(); err != nil {
		return nil, err
	}
	var members []ast.Stmt
	for p.cur.Type != lexer.RBrace {
		if p.cur.Type == lexer.EOF {
			return nil, p.errf("expected '}' at line %d, got EOF", line)
		}
		member, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
		if err := p.skipEOLs(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewNamespaceDecl(line, name.Text, members), nil
}
