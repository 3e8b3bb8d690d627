package ast

import (
	"fmt"

	"github.com/mna/slang/lang/token"
)

// LitKind identifies the surface form of a Literal, before unspecified
// literals are finalized to a concrete numeric type.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitUnit
)

type (
	// Literal is a literal value: an integer, float, string, boolean, or unit.
	// Raw holds the token's uninterpreted text (used for diagnostics);
	// IntVal/FloatVal/StrVal/BoolVal hold the one populated field for Kind.
	// Suffix holds the explicit width suffix, if any ("i32", "f64", ...).
	Literal struct {
		typedExpr
		Kind     LitKind
		Suffix   string
		IntVal   int64
		FloatVal float64
		StrVal   string
		BoolVal  bool
		Pos      token.Position
	}

	// Variable is a bare identifier used as an expression.
	Variable struct {
		typedExpr
		Name string
		Pos  token.Position
	}

	// Unary is a prefix unary operator expression, e.g. -x or !x.
	Unary struct {
		typedExpr
		Op      token.Token
		OpPos   token.Position
		Operand Expr
	}

	// Binary is an infix binary operator expression.
	Binary struct {
		typedExpr
		Op    token.Token
		Left  Expr
		Right Expr
	}

	// Call is a function call expression.
	Call struct {
		typedExpr
		Callee Expr
		Args   []Expr
		EndPos token.Position // position of the closing ')'
	}

	// Block is `{ statement* expr? }`: a sequence of statements optionally
	// followed by a trailing expression that becomes the block's value.
	Block struct {
		typedExpr
		Stmts    []Stmt
		Trailing Expr // nil if the block has no value
		Start    token.Position
		End      token.Position
	}

	// IfExpr is `if cond block else block`, used where a value is required.
	// Both Then and Else are evaluated as blocks.
	IfExpr struct {
		typedExpr
		Cond  Expr
		Then  *Block
		Else  *Block
		Start token.Position
	}
)

func (n *Literal) Format(f fmt.State, verb rune) { format(f, verb, n, "literal", nil) }
func (n *Literal) Span() token.Position          { return n.Pos }
func (n *Literal) Walk(v Visitor)                {}
func (n *Literal) exprNode()                     {}

func (n *Variable) Format(f fmt.State, verb rune) { format(f, verb, n, "var "+n.Name, nil) }
func (n *Variable) Span() token.Position          { return n.Pos }
func (n *Variable) Walk(v Visitor)                {}
func (n *Variable) exprNode()                     {}

func (n *Unary) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Op.String(), nil) }
func (n *Unary) Span() token.Position          { return n.OpPos.Span(n.Operand.Span()) }
func (n *Unary) Walk(v Visitor)                { Walk(v, n.Operand) }
func (n *Unary) exprNode()                     {}

func (n *Binary) Format(f fmt.State, verb rune) { format(f, verb, n, "binary "+n.Op.String(), nil) }
func (n *Binary) Span() token.Position          { return n.Left.Span().Span(n.Right.Span()) }
func (n *Binary) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *Binary) exprNode() {}

func (n *Call) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *Call) Span() token.Position { return n.Callee.Span().Span(n.EndPos) }
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *Call) exprNode() {}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() token.Position { return n.Start.Span(n.End) }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
	if n.Trailing != nil {
		Walk(v, n.Trailing)
	}
}
func (n *Block) exprNode() {}

func (n *IfExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "if-expr", nil) }
func (n *IfExpr) Span() token.Position {
	end := n.Then.Span()
	if n.Else != nil {
		end = n.Else.Span()
	}
	return n.Start.Span(end)
}
func (n *IfExpr) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfExpr) exprNode() {}
