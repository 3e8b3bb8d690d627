// Package diag defines the structured errors produced by every phase of the
// compilation pipeline (lexer, parser, semantic analyzer, bytecode
// compiler) and the engine that accumulates and renders them.
package diag

import (
	"fmt"
	"strings"

	"github.com/mna/slang/lang/token"
)

// Code identifies a specific kind of compile-time error.
type Code string

// Lexical/parse errors (E1xxx).
const (
	ExpectedIdentifier   Code = "E1001"
	ExpectedEquals       Code = "E1002"
	ExpectedClosingParen Code = "E1003"
	ExpectedSemicolon    Code = "E1004"
	ExpectedOpeningBrace Code = "E1005"
	ExpectedOpeningParen Code = "E1006"
	ExpectedComma        Code = "E1008"
	ExpectedClosingBrace Code = "E1009"
	ExpectedClosingQuote Code = "E1010"
	InvalidNumberLiteral Code = "E1020"
	InvalidSyntax        Code = "E1021"
	InvalidType          Code = "E1029"
	ExpectedElse         Code = "E1031"
)

// Semantic errors (E2xxx).
const (
	VariableRedefinition          Code = "E2001"
	SymbolRedefinition            Code = "E2003"
	TypeMismatch                  Code = "E2005"
	OperationTypeMismatch         Code = "E2006"
	LogicalOperatorTypeMismatch   Code = "E2007"
	IntegerOutOfRange             Code = "E2008"
	ArgumentCountMismatch         Code = "E2009"
	ArgumentTypeMismatch          Code = "E2010"
	ReturnTypeMismatch            Code = "E2012"
	MissingReturnValue            Code = "E2013"
	UndefinedFunction             Code = "E2014"
	UndefinedVariable             Code = "E2015"
	InvalidUnaryOperation         Code = "E2016"
	VariableNotCallable           Code = "E2017"
	AssignmentToImmutableVariable Code = "E2018"
	UnknownType                   Code = "E2019"
	FloatOutOfRange               Code = "E2020"
)

// Codegen errors (E3xxx).
const (
	TooManyConstants Code = "E3000"
)

// Error is a single structured diagnostic: a code, a human-readable message,
// and the source location it applies to.
type Error struct {
	Code Code
	Msg  string
	Loc  token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// New builds an Error at the given location.
func New(code Code, loc token.Position, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// Bag accumulates diagnostics across a compilation phase. A phase stops and
// reports everything in the bag as soon as the bag is non-empty at the end
// of that phase; it does not stop eagerly on the first error so that a
// single compilation can surface multiple problems.
type Bag struct {
	errs []*Error
}

// Add appends an error to the bag.
func (b *Bag) Add(err *Error) { b.errs = append(b.errs, err) }

// Addf builds and appends an error to the bag.
func (b *Bag) Addf(code Code, loc token.Position, format string, args ...interface{}) {
	b.Add(New(code, loc, format, args...))
}

// HasErrors reports whether any diagnostic was collected.
func (b *Bag) HasErrors() bool { return len(b.errs) > 0 }

// Errors returns the collected diagnostics in the order they were added.
func (b *Bag) Errors() []*Error { return b.errs }

// WriteTo renders every diagnostic in the bag to buf, one per line, each
// followed by a location block with the offending line and a caret
// underline spanning Loc.Length columns from Loc.Column, when file is
// non-nil and the location is valid.
func (b *Bag) WriteTo(buf *strings.Builder, file *token.File) {
	for _, e := range b.errs {
		fmt.Fprintf(buf, "[%s] %s\n", e.Code, e.Msg)
		if file == nil || !e.Loc.IsValid() {
			continue
		}
		line := file.LineText(e.Loc.Line)
		fmt.Fprintf(buf, "  --> %s:%d:%d\n", file.Name, e.Loc.Line, e.Loc.Column)
		fmt.Fprintf(buf, "  %s\n", line)
		length := e.Loc.Length
		if length < 1 {
			length = 1
		}
		fmt.Fprintf(buf, "  %s%s\n", strings.Repeat(" ", e.Loc.Column-1), strings.Repeat("^", length))
	}
}
