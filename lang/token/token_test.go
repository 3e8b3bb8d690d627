package token_test

import (
	"testing"

	"github.com/mna/slang/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		lit  string
		want token.Token
	}{
		{"let", token.LET},
		{"mut", token.MUT},
		{"fn", token.FN},
		{"return", token.RETURN},
		{"if", token.IF},
		{"else", token.ELSE},
		{"struct", token.STRUCT},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"x", token.IDENT},
		{"letter", token.IDENT},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, token.Lookup(c.lit), c.lit)
	}
}

func TestPositionSpan(t *testing.T) {
	a := token.Position{Offset: 5, Line: 1, Column: 6, Length: 3}
	b := token.Position{Offset: 20, Line: 2, Column: 1, Length: 1}
	got := a.Span(b)
	require.True(t, got.IsValid())
	assert.Equal(t, 5, got.Offset)
	assert.Equal(t, 16, got.Length)
	assert.Equal(t, 1, got.Line)
	assert.Equal(t, 6, got.Column)
}

func TestFilePosition(t *testing.T) {
	f := token.NewFile("t.sl", []byte("let x = 1;\nlet y = 2;\n"))
	p := f.Position(11, 3)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 1, p.Column)
	assert.Equal(t, "let y = 2;", f.LineText(2))
}
