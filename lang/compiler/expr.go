package compiler

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
	"github.com/mna/slang/lang/value"
)

func (c *cstate) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		c.literal(n)
	case *ast.Variable:
		c.variable(n)
	case *ast.Unary:
		c.unary(n)
	case *ast.Binary:
		c.binary(n)
	case *ast.Call:
		c.call(n)
	case *ast.Block:
		c.compileBlockValue(n)
	case *ast.IfExpr:
		c.ifExpr(n)
	}
}

func (c *cstate) pushConstant(v value.Value, pos token.Position) {
	idx := c.constIndex(v, pos)
	c.emitArg(CONST, idx)
}

// literal compiles n to the runtime Value its resolved type dictates: the
// analyzer has already finalized TypeID, so an "unspecified" literal has
// been pinned to a concrete family (i64/f64 by default, or whatever it was
// assigned/compared against) by the time the compiler sees it.
func (c *cstate) literal(n *ast.Literal) {
	switch n.Kind {
	case ast.LitInt:
		info := c.reg.Lookup(types.ID(n.TypeID()))
		if info != nil && info.Kind == types.KindInteger && !info.Signed {
			c.pushConstant(value.UInt(uint64(n.IntVal)), n.Pos)
			return
		}
		c.pushConstant(value.Int(n.IntVal), n.Pos)
	case ast.LitFloat:
		c.pushConstant(value.Float(n.FloatVal), n.Pos)
	case ast.LitString:
		c.pushConstant(value.String(n.StrVal), n.Pos)
	case ast.LitBool:
		c.pushConstant(value.Bool(n.BoolVal), n.Pos)
	case ast.LitUnit:
		c.pushConstant(value.Unit{}, n.Pos)
	}
}

// variable compiles a bare identifier reference. A name registered as a
// compiled function becomes a Function constant (a first-class callable
// value); print_value, the one builtin, becomes a NativeFunction constant;
// anything else is a local/global slot load. Slang has no way to shadow a
// function or builtin name with a variable in the same or a nested scope
// (the resolver reserves the name at the scope it's declared in), so a
// plain name-based lookup here is unambiguous.
func (c *cstate) variable(n *ast.Variable) {
	if idx, ok := c.funcIdx[n.Name]; ok {
		c.pushConstant(value.Function{Index: idx, Name: n.Name}, n.Pos)
		return
	}
	if n.Name == printValueName {
		c.pushConstant(value.NativeFunction{Name: printValueName, Fn: printValueBuiltin}, n.Pos)
		return
	}
	idx := c.identIndex(n.Name)
	c.emitArg(LOADVAR, idx)
}

func (c *cstate) unary(n *ast.Unary) {
	c.expr(n.Operand)
	switch n.Op {
	case token.MINUS:
		c.emit(NEG)
	case token.BANG:
		c.emit(NOT)
	}
}

var binaryOps = map[token.Token]Opcode{
	token.PLUS:  ADD,
	token.MINUS: SUB,
	token.STAR:  MUL,
	token.SLASH: DIV,
	token.EQ:    EQ,
	token.NEQ:   NE,
	token.LT:    LT,
	token.LE:    LE,
	token.GT:    GT,
	token.GE:    GE,
}

func (c *cstate) binary(n *ast.Binary) {
	if n.Op == token.AND || n.Op == token.OR {
		c.logical(n)
		return
	}
	c.expr(n.Left)
	c.expr(n.Right)
	pos := c.emit(binaryOps[n.Op])
	if n.Op == token.SLASH {
		c.mark(pos, n.Span())
	}
}

// logical lowers "&&" and "||" to a short-circuiting jump. JumpIfFalse pops
// the value it tests, so the short-circuit result is a fresh Bool constant
// rather than the (already-popped) left operand.
func (c *cstate) logical(n *ast.Binary) {
	c.expr(n.Left)
	jumpOnLeft := c.emitJump(JUMPIFFALSE)
	if n.Op == token.AND {
		// left true: result is the right operand.
		c.expr(n.Right)
		jumpToEnd := c.emitJump(JUMP)
		c.patchJump(jumpOnLeft)
		c.pushConstant(value.Bool(false), n.Left.Span())
		c.patchJump(jumpToEnd)
		return
	}
	// n.Op == token.OR: left true short-circuits to true; left false falls
	// through to the right operand.
	c.pushConstant(value.Bool(true), n.Left.Span())
	jumpToEnd := c.emitJump(JUMP)
	c.patchJump(jumpOnLeft)
	c.expr(n.Right)
	c.patchJump(jumpToEnd)
}

// call compiles a function call. A direct call to print_value compiles to
// the dedicated PRINT opcode rather than the general call machinery; every
// other callee is compiled as a value (Function constant or a LoadVar of a
// variable holding one) followed by its arguments and a CALL.
func (c *cstate) call(n *ast.Call) {
	if v, ok := n.Callee.(*ast.Variable); ok && v.Name == printValueName {
		for _, a := range n.Args {
			c.expr(a)
		}
		c.emit(PRINT)
		return
	}
	c.expr(n.Callee)
	for _, a := range n.Args {
		c.expr(a)
	}
	pos := c.emitArg(CALL, len(n.Args))
	c.mark(pos, n.Span())
}

// ifExpr compiles the expression form of `if`, whose else branch is
// mandatory, leaving exactly one value on the stack.
func (c *cstate) ifExpr(n *ast.IfExpr) {
	c.expr(n.Cond)
	jumpToElse := c.emitJump(JUMPIFFALSE)
	c.compileBlockValue(n.Then)
	jumpToEnd := c.emitJump(JUMP)
	c.patchJump(jumpToElse)
	c.compileBlockValue(n.Else)
	c.patchJump(jumpToEnd)
}
