package scanner_test

import (
	"testing"

	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/scanner"
	"github.com/mna/slang/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]scanner.TokenValue, *diag.Bag) {
	t.Helper()
	file := token.NewFile("t.sl", []byte(src))
	errs := &diag.Bag{}
	return scanner.ScanAll(file, errs), errs
}

func kinds(toks []scanner.TokenValue) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Tok
	}
	return out
}

func TestScanOperators(t *testing.T) {
	toks, errs := scanAll(t, "&& || == != >= <= -> = < > + - * / ! ( ) { } , : ;")
	require.False(t, errs.HasErrors())
	assert.Equal(t, []token.Token{
		token.AND, token.OR, token.EQ, token.NEQ, token.GE, token.LE, token.ARROW,
		token.ASSIGN, token.LT, token.GT, token.PLUS, token.MINUS, token.STAR,
		token.SLASH, token.BANG, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RBRACE, token.COMMA, token.COLON, token.SEMI, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, errs := scanAll(t, "let mut fn return if else struct true false foo _bar")
	require.False(t, errs.HasErrors())
	want := []token.Token{
		token.LET, token.MUT, token.FN, token.RETURN, token.IF, token.ELSE,
		token.STRUCT, token.TRUE, token.FALSE, token.IDENT, token.IDENT, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
	assert.Equal(t, "foo", toks[9].Lit)
}

func TestScanNumberSuffixes(t *testing.T) {
	toks, errs := scanAll(t, "42 42i32 42u64 3.14 3.14f32 1e10 1.5e-3")
	require.False(t, errs.HasErrors())
	require.Len(t, toks, 8)
	assert.Equal(t, token.INT, toks[0].Tok)
	assert.Equal(t, "42i32", toks[1].Lit)
	assert.Equal(t, token.INT, toks[1].Tok)
	assert.Equal(t, token.FLOAT, toks[3].Tok)
	assert.Equal(t, "3.14f32", toks[4].Lit)
	assert.Equal(t, token.FLOAT, toks[5].Tok)
	assert.Equal(t, token.FLOAT, toks[6].Tok)
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, `"hello, world!" "esc\n\"q\""`)
	require.False(t, errs.HasErrors())
	assert.Equal(t, "hello, world!", toks[0].Lit)
	assert.Equal(t, "esc\n\"q\"", toks[1].Lit)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := scanAll(t, `"oops`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.ExpectedClosingQuote, errs.Errors()[0].Code)
}

func TestScanNestedBlockComment(t *testing.T) {
	toks, errs := scanAll(t, "/* outer /* inner */ still comment */ 1")
	require.False(t, errs.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.INT, toks[0].Tok)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "1 // trailing comment\n2")
	require.False(t, errs.HasErrors())
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Lit)
	assert.Equal(t, "2", toks[1].Lit)
}

func TestScanTooLargeInteger(t *testing.T) {
	_, errs := scanAll(t, "99999999999999999999999")
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.InvalidNumberLiteral, errs.Errors()[0].Code)
}

func TestScanPositions(t *testing.T) {
	toks, _ := scanAll(t, "let x = 1;\nlet y = 2;")
	// second "let" is on line 2, column 1.
	var second scanner.TokenValue
	count := 0
	for _, tv := range toks {
		if tv.Tok == token.LET {
			count++
			if count == 2 {
				second = tv
			}
		}
	}
	require.Equal(t, 2, count)
	assert.Equal(t, 2, second.Pos.Line)
	assert.Equal(t, 1, second.Pos.Column)
}
