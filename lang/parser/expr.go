package parser

import (
	"strconv"
	"strings"

	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

// parseExpr is the entry point of the precedence-climbing expression
// grammar: expr := logical_or.
func (p *parser) parseExpr() ast.Expr {
	return p.logicalOr()
}

func (p *parser) logicalOr() ast.Expr {
	left := p.logicalAnd()
	for p.tok.Tok == token.OR {
		op := p.tok.Tok
		p.advance()
		right := p.logicalAnd()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) logicalAnd() ast.Expr {
	left := p.equality()
	for p.tok.Tok == token.AND {
		op := p.tok.Tok
		p.advance()
		right := p.equality()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) equality() ast.Expr {
	left := p.relational()
	for p.tok.Tok == token.EQ || p.tok.Tok == token.NEQ {
		op := p.tok.Tok
		p.advance()
		right := p.relational()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) relational() ast.Expr {
	left := p.additive()
	for p.tok.Tok == token.LT || p.tok.Tok == token.LE || p.tok.Tok == token.GT || p.tok.Tok == token.GE {
		op := p.tok.Tok
		p.advance()
		right := p.additive()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) additive() ast.Expr {
	left := p.multiplicative()
	for p.tok.Tok == token.PLUS || p.tok.Tok == token.MINUS {
		op := p.tok.Tok
		p.advance()
		right := p.multiplicative()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) multiplicative() ast.Expr {
	left := p.unary()
	for p.tok.Tok == token.STAR || p.tok.Tok == token.SLASH {
		op := p.tok.Tok
		p.advance()
		right := p.unary()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) unary() ast.Expr {
	if p.tok.Tok == token.MINUS || p.tok.Tok == token.BANG {
		op, opPos := p.tok.Tok, p.tok.Pos
		p.advance()
		operand := p.unary()
		return &ast.Unary{Op: op, OpPos: opPos, Operand: operand}
	}
	return p.call()
}

// call := primary ("(" args? ")")*
func (p *parser) call() ast.Expr {
	expr := p.primary()
	for p.tok.Tok == token.LPAREN {
		p.advance()
		var args []ast.Expr
		if p.tok.Tok != token.RPAREN {
			args = append(args, p.parseExpr())
			for p.tok.Tok == token.COMMA {
				p.advance()
				args = append(args, p.parseExpr())
			}
		}
		end := p.expect(token.RPAREN, diag.ExpectedClosingParen, "')' after call arguments")
		expr = &ast.Call{Callee: expr, Args: args, EndPos: end}
	}
	return expr
}

// primary := literal | IDENT | "(" expr ")" | "(" ")" | block | if_expr
func (p *parser) primary() ast.Expr {
	switch p.tok.Tok {
	case token.INT:
		return p.intLiteral()
	case token.FLOAT:
		return p.floatLiteral()
	case token.STRING:
		lit := &ast.Literal{Kind: ast.LitString, StrVal: p.tok.Lit, Pos: p.tok.Pos}
		p.advance()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.Literal{Kind: ast.LitBool, BoolVal: p.tok.Tok == token.TRUE, Pos: p.tok.Pos}
		p.advance()
		return lit
	case token.IDENT:
		v := &ast.Variable{Name: p.tok.Lit, Pos: p.tok.Pos}
		p.advance()
		return v
	case token.LBRACE:
		return p.block()
	case token.IF:
		return p.ifExpr()
	case token.LPAREN:
		start := p.tok.Pos
		p.advance()
		if p.tok.Tok == token.RPAREN {
			end := p.tok.Pos
			p.advance()
			return &ast.Literal{Kind: ast.LitUnit, Pos: start.Span(end)}
		}
		inner := p.parseExpr()
		p.expect(token.RPAREN, diag.ExpectedClosingParen, "')' after parenthesized expression")
		return inner
	default:
		p.fail(diag.InvalidSyntax, "expected an expression, found %q", p.describeTok())
		return nil
	}
}

// ifExpr parses `if cond block else block` in expression position; unlike
// the statement form, the else branch is mandatory so the expression always
// has a value.
func (p *parser) ifExpr() ast.Expr {
	start := p.tok.Pos
	p.advance() // 'if'

	cond := p.parseExpr()
	then := p.block()

	if p.tok.Tok != token.ELSE {
		p.errs.Addf(diag.ExpectedElse, p.tok.Pos, "Expected 'else' after if expression")
		panic(parseError{})
	}
	p.advance()
	els := p.block()

	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Start: start}
}

func (p *parser) intLiteral() ast.Expr {
	lit, pos := p.tok.Lit, p.tok.Pos
	digits, suffix := splitNumberSuffix(lit, intSuffixSet)
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		p.errs.Addf(diag.InvalidNumberLiteral, pos, "integer literal %q is out of range", lit)
		v = 0
	}
	p.advance()
	return &ast.Literal{Kind: ast.LitInt, Suffix: suffix, IntVal: int64(v), Pos: pos}
}

func (p *parser) floatLiteral() ast.Expr {
	lit, pos := p.tok.Lit, p.tok.Pos
	digits, suffix := splitNumberSuffix(lit, floatSuffixSet)
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		p.errs.Addf(diag.InvalidNumberLiteral, pos, "float literal %q is invalid", lit)
		v = 0
	}
	p.advance()
	return &ast.Literal{Kind: ast.LitFloat, Suffix: suffix, FloatVal: v, Pos: pos}
}

var intSuffixSet = []string{"i32", "i64", "u32", "u64"}
var floatSuffixSet = []string{"f32", "f64"}

// splitNumberSuffix strips a trailing width suffix (one of suffixes) off of
// lit, returning the remaining digits and the suffix found (empty if none).
// The scanner has already validated that lit ends in one of these suffixes
// or none at all, so a simple trailing match suffices here.
func splitNumberSuffix(lit string, suffixes []string) (digits, suffix string) {
	for _, s := range suffixes {
		if strings.HasSuffix(lit, s) {
			return lit[:len(lit)-len(s)], s
		}
	}
	return lit, ""
}
