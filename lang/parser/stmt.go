package parser

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

func (p *parser) statement() ast.Stmt {
	switch p.tok.Tok {
	case token.LET:
		return p.letStmt()
	case token.FN:
		return p.fnDecl()
	case token.STRUCT:
		return p.structDecl()
	case token.RETURN:
		return p.returnStmt()
	case token.IF:
		return p.ifStmt()
	case token.IDENT:
		return p.assignOrExprStmt()
	default:
		return p.exprStmt()
	}
}

// letStmt parses `let [mut] NAME [: type] = expr ;`.
func (p *parser) letStmt() ast.Stmt {
	start := p.tok.Pos
	p.advance() // 'let'

	mutable := false
	if p.tok.Tok == token.MUT {
		mutable = true
		p.advance()
	}

	if p.tok.Tok != token.IDENT {
		p.fail(diag.ExpectedIdentifier, "expected a variable name after 'let'")
	}
	name := p.tok.Lit
	p.advance()

	var decl *ast.TypeRef
	if p.tok.Tok == token.COLON {
		p.advance()
		decl = p.parseType()
	}

	p.expect(token.ASSIGN, diag.ExpectedEquals, "'=' after let target")
	init := p.parseExpr()
	end := p.expect(token.SEMI, diag.ExpectedSemicolon, "';' after let statement")

	return &ast.Let{Name: name, Mutable: mutable, Decl: decl, Init: init, Start: start, End: end}
}

// fnDecl parses `fn NAME ( params? ) [-> type] block`.
func (p *parser) fnDecl() ast.Stmt {
	start := p.tok.Pos
	p.advance() // 'fn'

	if p.tok.Tok != token.IDENT {
		p.fail(diag.ExpectedIdentifier, "expected a function name after 'fn'")
	}
	name := p.tok.Lit
	p.advance()

	p.expect(token.LPAREN, diag.ExpectedOpeningParen, "'(' after function name")
	var params []ast.Param
	if p.tok.Tok != token.RPAREN {
		params = append(params, p.param())
		for p.tok.Tok == token.COMMA {
			p.advance()
			params = append(params, p.param())
		}
	}
	p.expect(token.RPAREN, diag.ExpectedClosingParen, "')' after function parameters")

	var ret *ast.TypeRef
	if p.tok.Tok == token.ARROW {
		p.advance()
		ret = p.parseType()
	}

	body := p.block()
	return &ast.FunctionDeclaration{Name: name, Params: params, ReturnType: ret, Body: body, Start: start}
}

func (p *parser) param() ast.Param {
	if p.tok.Tok != token.IDENT {
		p.fail(diag.ExpectedIdentifier, "expected a parameter name")
	}
	name := p.tok.Lit
	p.advance()
	p.expect(token.COLON, diag.InvalidSyntax, "':' after parameter name")
	decl := p.parseType()
	return ast.Param{Name: name, Decl: decl}
}

// structDecl parses `struct NAME { (name: type ,)* } ;`.
func (p *parser) structDecl() ast.Stmt {
	start := p.tok.Pos
	p.advance() // 'struct'

	if p.tok.Tok != token.IDENT {
		p.fail(diag.ExpectedIdentifier, "expected a struct name after 'struct'")
	}
	name := p.tok.Lit
	p.advance()

	p.expect(token.LBRACE, diag.ExpectedOpeningBrace, "'{' after struct name")
	var fields []ast.Param
	for p.tok.Tok != token.RBRACE && p.tok.Tok != token.EOF {
		fields = append(fields, p.param())
		if p.tok.Tok == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE, diag.ExpectedClosingBrace, "'}' to close struct body")
	end := p.expect(token.SEMI, diag.ExpectedSemicolon, "';' after struct declaration")

	return &ast.TypeDefinition{Name: name, Fields: fields, Start: start, End: end}
}

// returnStmt parses `return [expr] ;`.
func (p *parser) returnStmt() ast.Stmt {
	start := p.tok.Pos
	p.advance() // 'return'

	var expr ast.Expr
	if p.tok.Tok != token.SEMI {
		expr = p.parseExpr()
	}
	end := p.expect(token.SEMI, diag.ExpectedSemicolon, "';' after return statement")
	return &ast.Return{Expr: expr, Start: start, End: end}
}

// ifCondThen parses the `if cond block` prefix shared by statement-position
// and expression-position if forms, returning the position of 'if'.
func (p *parser) ifCondThen() (start token.Position, cond ast.Expr, then *ast.Block) {
	start = p.tok.Pos
	p.advance() // 'if'
	cond = p.parseExpr()
	then = p.block()
	return start, cond, then
}

// ifStmt parses `if cond block [else block]` used in statement position; no
// trailing ';' since a block already delimits the statement.
func (p *parser) ifStmt() ast.Stmt {
	start, cond, then := p.ifCondThen()

	var els *ast.Block
	if p.tok.Tok == token.ELSE {
		p.advance()
		els = p.block()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Start: start}
}

// assignOrExprStmt disambiguates `NAME = expr ;` from a general expression
// statement using the one-token lookahead past the identifier.
func (p *parser) assignOrExprStmt() ast.Stmt {
	if p.peek().Tok == token.ASSIGN {
		start := p.tok.Pos
		name := p.tok.Lit
		p.advance() // ident
		p.advance() // '='
		value := p.parseExpr()
		end := p.expect(token.SEMI, diag.ExpectedSemicolon, "';' after assignment")
		return &ast.Assignment{Target: name, Value: value, Start: start, End: end}
	}
	return p.exprStmt()
}

// exprStmt parses a bare expression statement, terminated by ';'.
func (p *parser) exprStmt() ast.Stmt {
	expr := p.parseExpr()
	end := p.expect(token.SEMI, diag.ExpectedSemicolon, "';' after expression statement")
	return &ast.ExpressionStatement{Expr: expr, End: end}
}

// block parses `{ statement* expr? }`. A trailing expression not followed
// by ';' becomes the block's value; everything else is a Stmt.
func (p *parser) block() *ast.Block {
	start := p.expect(token.LBRACE, diag.ExpectedOpeningBrace, "'{' to start a block")

	var stmts []ast.Stmt
	var trailing ast.Expr
	for p.tok.Tok != token.RBRACE && p.tok.Tok != token.EOF {
		if p.tok.Tok == token.IF {
			stmt, trailingIf := p.ifInBlockRecovering()
			if trailingIf != nil {
				trailing = trailingIf
				break
			}
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
			continue
		}

		if p.startsStatementKeyword() {
			if s := p.parseStatementRecovering(); s != nil {
				stmts = append(stmts, s)
			}
			continue
		}

		expr := p.parseExprRecovering()
		if expr == nil {
			continue
		}
		if p.tok.Tok == token.SEMI {
			end := p.tok.Pos
			p.advance()
			stmts = append(stmts, &ast.ExpressionStatement{Expr: expr, End: end})
			continue
		}
		// No trailing ';': this expression must be the block's value and the
		// block must end here.
		trailing = expr
		break
	}

	end := p.expect(token.RBRACE, diag.ExpectedClosingBrace, "'}' to close block")
	return &ast.Block{Stmts: stmts, Trailing: trailing, Start: start, End: end}
}

// ifInBlock parses an 'if' appearing directly in a block's statement list,
// where whether it carries a value depends on whether it has an else
// branch: with no else, it is unit-typed and can only be a statement; with
// an else, it behaves like any other block-like expression and does not
// require a terminating ';' unless one follows (matching block's own
// trailing-expression rule).
func (p *parser) ifInBlock() (stmt ast.Stmt, trailing ast.Expr) {
	start, cond, then := p.ifCondThen()

	if p.tok.Tok != token.ELSE {
		return &ast.If{Cond: cond, Then: then, Start: start}, nil
	}
	p.advance()
	els := p.block()
	expr := ast.Expr(&ast.IfExpr{Cond: cond, Then: then, Else: els, Start: start})

	if p.tok.Tok == token.RBRACE || p.tok.Tok == token.EOF {
		return nil, expr
	}
	end := expr.Span()
	if p.tok.Tok == token.SEMI {
		end = p.tok.Pos
		p.advance()
	}
	return &ast.ExpressionStatement{Expr: expr, End: end}, nil
}

func (p *parser) ifInBlockRecovering() (stmt ast.Stmt, trailing ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.recoverToBoundary()
				stmt, trailing = nil, nil
				return
			}
			panic(r)
		}
	}()
	return p.ifInBlock()
}

// startsStatementKeyword reports whether the current token begins a
// statement form that is never itself an expression (let, fn, struct,
// return), so block() can dispatch to statement() instead of parseExpr()
// without first trying (and failing) to parse an expression. 'if' is handled
// separately by block() before this check runs, since whether it carries a
// value depends on its else branch.
func (p *parser) startsStatementKeyword() bool {
	switch p.tok.Tok {
	case token.LET, token.FN, token.STRUCT, token.RETURN:
		return true
	case token.IDENT:
		return p.peek().Tok == token.ASSIGN
	default:
		return false
	}
}

// parseExprRecovering wraps parseExpr with the same panic/recover-based
// recovery as parseStatementRecovering, for expressions parsed directly
// inside block() (where statement() is not on the call path).
func (p *parser) parseExprRecovering() (expr ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.recoverToBoundary()
				expr = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseExpr()
}
