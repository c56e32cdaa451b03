package parser

import (
	"github.com/concoctist/concoct-go/ast"
	"github.com/concoctist/concoct-go/lexer"
)

// Operator precedence, lowest to highest, following conventional C-family
// ordering (spec.md §6.1 lists the operator set but not a precedence
// table, so this is a judgment call recorded in DESIGN.md): || , && ,
// bitwise |/^/&, equality (==, !=, $=, $!), relational, shift, additive,
// multiplicative, ** (right-associative), then unary and postfix.

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseLogicalOr() }

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseLogicalAnd, lexer.Or)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseBitOr, lexer.And)
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseBitXor, lexer.BitOr)
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseBitAnd, lexer.BitXor)
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseEquality, lexer.BitAnd)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseRelational, lexer.Equal, lexer.NotEqual, lexer.StrLenEqual, lexer.StrLenNotEqual)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseShift, lexer.Greater, lexer.Less, lexer.GreaterEqual, lexer.LessEqual)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseAdditive, lexer.Shl, lexer.Shr)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parseMultiplicative, lexer.Add, lexer.Sub)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinaryLeft(p.parsePower, lexer.Mul, lexer.Div, lexer.Mod)
}

// parsePower is right-associative, unlike every level above it.
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.Pow {
		return left, nil
	}
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(line, lexer.Pow.String(), left, right), nil
}

// parseBinaryLeft parses a left-associative chain of binary operators at
// one precedence level, sharing the same structure across every level
// above to avoid duplicating the climb.
func (p *Parser) parseBinaryLeft(next func() (ast.Expr, error), ops ...lexer.TokenType) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for matchAny(p.cur.Type, ops) {
		op := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op.Line, op.Type.String(), left, right)
	}
	return left, nil
}

func matchAny(t lexer.TokenType, set []lexer.TokenType) bool {
	for _, s := range set {
		if t == s {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Type {
	case lexer.Inc, lexer.Dec, lexer.BitNot, lexer.Sub, lexer.Add, lexer.Not:
		op := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op.Line, op.Type.String(), x), nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case lexer.LParen:
			line := p.cur.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []ast.Expr
			for p.cur.Type != lexer.RParen {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.Type == lexer.Comma {
					if err := p.advance(); err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			x = ast.NewCall(line, x, args)
		case lexer.LBracket:
			line := p.cur.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			x = ast.NewIndex(line, x, idx)
		case lexer.Dot:
			line := p.cur.Line
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			x = ast.NewMember(line, x, name.Text)
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.Int, lexer.Float, lexer.Null, lexer.True, lexer.False:
		if err := p.advance(); err != nil {
			return nil, err
		}
		text := tok.Text
		if text == "" {
			text = tok.Type.String() // null/true/false carry no literal text
		}
		return ast.NewLiteral(tok.Line, text), nil
	case lexer.String:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(tok.Line, tok.Text), nil
	case lexer.Char:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(tok.Line, tok.Text), nil
	case lexer.Ident:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIdent(tok.Line, tok.Text), nil
	case lexer.Super:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewSuper(tok.Line), nil
	case lexer.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, p.errf("expected expression at line %d, got %s", tok.Line, tok.Type)
	}
}
