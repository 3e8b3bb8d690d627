// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a Slang token stream into an *ast.Program. Parse errors are
// collected into a diag.Bag; the parser recovers at the next statement
// boundary (a ';' or a matching '}') so a single call can report multiple
// errors instead of stopping at the first one.
package parser

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/scanner"
	"github.com/mna/slang/lang/token"
)

// parseError is panicked by expect/fail to unwind to the nearest statement
// boundary. It carries no data; the diagnostic was already added to the bag
// at the point of failure.
type parseError struct{}

type parser struct {
	file *token.File
	sc   *scanner.Scanner
	errs *diag.Bag

	tok      scanner.TokenValue
	buffered *scanner.TokenValue
}

// Parse turns file's contents into a Program. Parse errors are appended to
// errs; the returned Program may be partial (nil statements were dropped at
// recovery points) when errs.HasErrors() is true.
func Parse(file *token.File, errs *diag.Bag) *ast.Program {
	p := &parser{file: file, errs: errs, sc: scanner.New(file, errs)}
	p.advance()

	var stmts []ast.Stmt
	for p.tok.Tok != token.EOF {
		if s := p.parseStatementRecovering(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return &ast.Program{Stmts: stmts, EOF: p.tok.Pos}
}

func (p *parser) advance() {
	if p.buffered != nil {
		p.tok = *p.buffered
		p.buffered = nil
		return
	}
	p.tok = p.sc.Scan()
}

func (p *parser) peek() scanner.TokenValue {
	if p.buffered == nil {
		tv := p.sc.Scan()
		p.buffered = &tv
	}
	return *p.buffered
}

// expect consumes the current token if it matches tt, returning its
// position. Otherwise it records a diagnostic and panics with parseError to
// unwind to the enclosing recovery point.
func (p *parser) expect(tt token.Token, code diag.Code, what string) token.Position {
	if p.tok.Tok == tt {
		pos := p.tok.Pos
		p.advance()
		return pos
	}
	p.fail(code, "Expected %s, found %q", what, p.describeTok())
	return token.Position{}
}

func (p *parser) describeTok() string {
	if p.tok.Lit != "" {
		return p.tok.Lit
	}
	return p.tok.Tok.String()
}

func (p *parser) fail(code diag.Code, format string, args ...interface{}) {
	p.errs.Addf(code, p.tok.Pos, format, args...)
	panic(parseError{})
}

// parseStatementRecovering calls statement and, on a parseError panic, skips
// forward to the next statement boundary: the ';' that ends the failed
// statement, or the '}' that closes the enclosing block (left unconsumed so
// the caller's block parser can still see it end).
func (p *parser) parseStatementRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.recoverToBoundary()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.statement()
}

func (p *parser) recoverToBoundary() {
	for {
		switch p.tok.Tok {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE, token.EOF:
			return
		default:
			p.advance()
		}
	}
}
