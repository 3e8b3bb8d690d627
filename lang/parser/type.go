package parser

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

// parseType parses `type := IDENT | "fn" "(" types? ")" "->" type`. The
// return type of a function type is mandatory (InvalidSyntax otherwise).
func (p *parser) parseType() *ast.TypeRef {
	if p.tok.Tok == token.FN {
		start := p.tok.Pos
		p.advance()
		p.expect(token.LPAREN, diag.ExpectedOpeningParen, "'(' after 'fn'")

		var params []*ast.TypeRef
		if p.tok.Tok != token.RPAREN {
			params = append(params, p.parseType())
			for p.tok.Tok == token.COMMA {
				p.advance()
				params = append(params, p.parseType())
			}
		}
		end := p.expect(token.RPAREN, diag.ExpectedClosingParen, "')' after function parameter types")

		if p.tok.Tok != token.ARROW {
			p.fail(diag.InvalidSyntax, "Expected '->' after function parameters")
		}
		p.advance()
		ret := p.parseType()

		pos := start.Span(end).Span(ret.Pos)
		return &ast.TypeRef{Fn: &ast.FuncType{Params: params, Return: ret}, Pos: pos}
	}

	if p.tok.Tok != token.IDENT {
		p.fail(diag.ExpectedIdentifier, "expected a type name")
	}
	name := p.tok.Lit
	pos := p.tok.Pos
	if name == "unspecified_int" || name == "unspecified_float" || name == "unknown" {
		p.fail(diag.InvalidType, "%q is not a valid type annotation", name)
	}
	p.advance()
	return &ast.TypeRef{Name: name, Pos: pos}
}
