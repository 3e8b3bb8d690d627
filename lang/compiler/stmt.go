package compiler

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/value"
)

func (c *cstate) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Let:
		c.letStmt(n)
	case *ast.Assignment:
		c.assignment(n)
	case *ast.FunctionDeclaration:
		// Nested function declarations compile the same way as top-level
		// ones; the enclosing Compile call only skips top-level ones here
		// because it schedules them in a later pass.
		c.predeclareFunction(n)
		c.compileFunction(n)
	case *ast.Return:
		c.returnStmt(n)
	case *ast.If:
		c.ifStmt(n)
	case *ast.ExpressionStatement:
		c.expr(n.Expr)
		c.emit(POP)
	case *ast.TypeDefinition:
		// Struct declarations carry no runtime representation: values of a
		// struct type are never constructed or used by any exercised path
		// (see the data-model note on print_value and aggregates), so there
		// is nothing to emit.
	}
}

// letStmt compiles the initializer, stores it in the named slot, then pops
// the statement-form value the VM's StoreVar semantics leave behind.
func (c *cstate) letStmt(n *ast.Let) {
	c.expr(n.Init)
	idx := c.identIndex(n.Name)
	c.emitArg(STOREVAR, idx)
	c.emit(POP)
}

func (c *cstate) assignment(n *ast.Assignment) {
	c.expr(n.Value)
	idx := c.identIndex(n.Target)
	c.emitArg(STOREVAR, idx)
	c.emit(POP)
}

func (c *cstate) returnStmt(n *ast.Return) {
	if n.Expr != nil {
		c.expr(n.Expr)
	} else {
		c.pushConstant(value.Unit{}, n.Start)
	}
	c.emit(RETURN)
}

// ifStmt compiles the statement form of `if`, whose blocks produce no value
// the caller cares about: any trailing block expression is computed (for
// its side effects) and discarded.
func (c *cstate) ifStmt(n *ast.If) {
	c.expr(n.Cond)
	jumpToElse := c.emitJump(JUMPIFFALSE)
	c.compileBlockDiscard(n.Then)

	if n.Else == nil {
		c.patchJump(jumpToElse)
		return
	}
	jumpToEnd := c.emitJump(JUMP)
	c.patchJump(jumpToElse)
	c.compileBlockDiscard(n.Else)
	c.patchJump(jumpToEnd)
}

// compileBlockValue compiles b so that exactly one value is left on the
// stack: its trailing expression's value, or Unit if it has none. Used for
// blocks that stand in expression position (function bodies, if-expression
// branches, bare block expressions).
func (c *cstate) compileBlockValue(b *ast.Block) {
	for _, s := range b.Stmts {
		c.stmt(s)
	}
	if b.Trailing != nil {
		c.expr(b.Trailing)
		return
	}
	c.pushConstant(value.Unit{}, b.End)
}

// compileBlockDiscard compiles b for its side effects only, leaving nothing
// on the stack. Used for blocks in statement position (if-statement
// branches).
func (c *cstate) compileBlockDiscard(b *ast.Block) {
	for _, s := range b.Stmts {
		c.stmt(s)
	}
	if b.Trailing != nil {
		c.expr(b.Trailing)
		c.emit(POP)
	}
}
