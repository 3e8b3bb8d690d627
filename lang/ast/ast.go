// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the semantic analyzer.
package ast

import (
	"fmt"
	"strings"

	"github.com/mna/slang/lang/token"
)

// Node is implemented by every AST node.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a short
	// description of itself; only the 'v' and 's' verbs are supported, and
	// the '#' flag additionally prints child counts.
	fmt.Formatter

	// Span reports the node's source location, spanning all of its
	// children.
	Span() token.Position

	// Walk visits the node's direct children in the Visitor pattern.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()

	// TypeID returns the expression's resolved type, or types.Unknown
	// before semantic analysis runs. Declared in terms of an int to avoid
	// an import cycle; callers compare against types.ID values directly
	// since types.ID is defined as int.
	TypeID() int
	SetTypeID(id int)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Stmts []Stmt
	EOF   token.Position
}

func (n *Program) Format(f fmt.State, verb rune) {
	format(f, verb, n, "program", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Program) Span() token.Position {
	if len(n.Stmts) == 0 {
		return n.EOF
	}
	return n.Stmts[0].Span().Span(n.Stmts[len(n.Stmts)-1].Span())
}
func (n *Program) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// TypeRef is a parsed type annotation: either a bare identifier (primitive or
// struct name) or a function type fn(T1,...) -> R. It is not itself an Expr
// or Stmt: type annotations do not evaluate.
type TypeRef struct {
	Name   string     // identifier form, empty if Fn != nil
	Fn     *FuncType  // function-type form, nil if Name != ""
	Pos    token.Position
}

// FuncType is the fn(...)->T shape of a TypeRef.
type FuncType struct {
	Params []*TypeRef
	Return *TypeRef
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<nil type>"
	}
	if t.Fn != nil {
		parts := make([]string, len(t.Fn.Params))
		for i, p := range t.Fn.Params {
			parts[i] = p.String()
		}
		ret := "unit"
		if t.Fn.Return != nil {
			ret = t.Fn.Return.String()
		}
		return "fn(" + strings.Join(parts, ",") + ") -> " + ret
	}
	return t.Name
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sortStrings(keys)
		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// typedExpr is embedded by every Expr implementation to provide the
// TypeID/SetTypeID pair without repeating the field in each node.
type typedExpr struct {
	typeID int
}

func (e *typedExpr) TypeID() int      { return e.typeID }
func (e *typedExpr) SetTypeID(id int) { e.typeID = id }
