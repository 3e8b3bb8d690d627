package ast

import (
	"fmt"

	"github.com/mna/slang/lang/token"
)

type (
	// Let is `let [mut] NAME [: type] = expr ;`.
	Let struct {
		Name    string
		Mutable bool
		Decl    *TypeRef // nil if no annotation
		Init    Expr
		Start   token.Position
		End     token.Position
	}

	// Assignment is `NAME = expr ;`.
	Assignment struct {
		Target string
		Value  Expr
		Start  token.Position
		End    token.Position
	}

	// Param is one (name, type) parameter of a function declaration.
	Param struct {
		Name string
		Decl *TypeRef
	}

	// FunctionDeclaration is `fn NAME ( params? ) [-> type] block`.
	FunctionDeclaration struct {
		Name       string
		Params     []Param
		ReturnType *TypeRef // nil means unit
		Body       *Block
		Start      token.Position
	}

	// Return is `return [expr] ;`.
	Return struct {
		Expr  Expr // nil for bare `return;`
		Start token.Position
		End   token.Position
	}

	// TypeDefinition is `struct NAME { (name: type ,)* } ;`.
	TypeDefinition struct {
		Name   string
		Fields []Param
		Start  token.Position
		End    token.Position
	}

	// ExpressionStatement is an expression used as a statement, terminated
	// by ';'.
	ExpressionStatement struct {
		Expr  Expr
		End   token.Position
	}

	// If is `if cond block [else block]` used in statement position, where
	// the else branch is optional.
	If struct {
		Cond  Expr
		Then  *Block
		Else  *Block
		Start token.Position
	}
)

func (n *Let) Format(f fmt.State, verb rune) {
	lbl := "let"
	if n.Mutable {
		lbl = "let mut"
	}
	format(f, verb, n, lbl+" "+n.Name, nil)
}
func (n *Let) Span() token.Position { return n.Start.Span(n.End) }
func (n *Let) Walk(v Visitor)       { Walk(v, n.Init) }

func (n *Assignment) Format(f fmt.State, verb rune) { format(f, verb, n, "assign "+n.Target, nil) }
func (n *Assignment) Span() token.Position          { return n.Start.Span(n.End) }
func (n *Assignment) Walk(v Visitor)                { Walk(v, n.Value) }

func (n *FunctionDeclaration) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fn "+n.Name, map[string]int{"params": len(n.Params)})
}
func (n *FunctionDeclaration) Span() token.Position { return n.Start.Span(n.Body.Span()) }
func (n *FunctionDeclaration) Walk(v Visitor)       { Walk(v, n.Body) }

func (n *Return) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *Return) Span() token.Position          { return n.Start.Span(n.End) }
func (n *Return) Walk(v Visitor) {
	if n.Expr != nil {
		Walk(v, n.Expr)
	}
}

func (n *TypeDefinition) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct "+n.Name, map[string]int{"fields": len(n.Fields)})
}
func (n *TypeDefinition) Span() token.Position { return n.Start.Span(n.End) }
func (n *TypeDefinition) Walk(v Visitor)       {}

func (n *ExpressionStatement) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExpressionStatement) Span() token.Position          { return n.Expr.Span().Span(n.End) }
func (n *ExpressionStatement) Walk(v Visitor)                { Walk(v, n.Expr) }

func (n *If) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Else != nil {
		lbl = "if else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *If) Span() token.Position {
	end := n.Then.Span()
	if n.Else != nil {
		end = n.Else.Span()
	}
	return n.Start.Span(end)
}
func (n *If) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
