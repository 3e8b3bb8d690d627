// Package compiler turns a resolved, type-checked AST into the flat
// bytecode form the virtual machine executes: a Chunk.
package compiler

import (
	"fmt"

	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
	"github.com/mna/slang/lang/value"
)

// maxConstants is the size of the constant pool the single-byte CONST
// operand can address.
const maxConstants = 256

// Compile turns prog into a Chunk. prog must already have been successfully
// analyzed by the resolver (every expression's TypeID finalized); Compile
// trusts that typing and does not re-validate it, matching the VM's own
// "should never fail if the analyzer did its job" stance on tag checks.
func Compile(prog *ast.Program, reg *types.Registry, errs *diag.Bag) *Chunk {
	c := &cstate{
		reg:      reg,
		errs:     errs,
		constIdx: make(map[string]int),
		identIdx: make(map[string]int),
		funcIdx:  make(map[string]int),
		chunk:    &Chunk{SourceMap: make(map[int]Position)},
	}

	// Pre-pass: register every top-level function's table entry before
	// compiling any body, so a call to a function declared later in the
	// file (or a mutually recursive pair) resolves to a Function constant
	// regardless of source order.
	for _, s := range prog.Stmts {
		if fn, ok := s.(*ast.FunctionDeclaration); ok {
			c.predeclareFunction(fn)
		}
	}

	for _, s := range prog.Stmts {
		if _, ok := s.(*ast.FunctionDeclaration); ok {
			continue // compiled below, after the top-level script
		}
		c.stmt(s)
	}
	c.emit(RETURN)

	for _, s := range prog.Stmts {
		if fn, ok := s.(*ast.FunctionDeclaration); ok {
			c.compileFunction(fn)
		}
	}

	if c.errs.HasErrors() {
		return nil
	}
	return c.chunk
}

// cstate carries the mutable state threaded through one Compile call.
type cstate struct {
	reg   *types.Registry
	errs  *diag.Bag
	chunk *Chunk

	constIdx map[string]int // canonical constant key -> Constants index
	identIdx map[string]int // variable/identifier name -> Identifiers index
	funcIdx  map[string]int // function name -> Functions index
}

func (c *cstate) errf(code diag.Code, pos token.Position, format string, args ...interface{}) {
	c.errs.Addf(code, pos, format, args...)
}

// emit appends a single no-operand opcode byte.
func (c *cstate) emit(op Opcode) int {
	pos := len(c.chunk.Code)
	c.chunk.Code = append(c.chunk.Code, byte(op))
	return pos
}

// emitArg appends op followed by an 8-bit operand (index or argument count).
func (c *cstate) emitArg(op Opcode, arg int) int {
	pos := len(c.chunk.Code)
	c.chunk.Code = append(c.chunk.Code, byte(op), byte(arg))
	return pos
}

// mark records the source position an instruction at codeOffset was
// compiled from, for the VM to attribute a runtime error (division by
// zero, a failed call) back to a source location.
func (c *cstate) mark(codeOffset int, pos token.Position) {
	c.chunk.SourceMap[codeOffset] = toPosition(pos)
}

// emitJump appends a jump opcode with a placeholder 2-byte offset and
// returns the position of the first offset byte, to be patched once the
// target address is known.
func (c *cstate) emitJump(op Opcode) int {
	c.chunk.Code = append(c.chunk.Code, byte(op), 0, 0)
	return len(c.chunk.Code) - 2
}

// patchJump backfills the 2-byte offset at patchAt so the jump lands at the
// current end of Code.
func (c *cstate) patchJump(patchAt int) {
	offset := len(c.chunk.Code) - (patchAt + 2)
	if offset < -32768 || offset > 32767 {
		c.errf(diag.TooManyConstants, token.Position{}, "jump offset %d does not fit in 16 bits", offset)
		return
	}
	c.chunk.Code[patchAt] = byte(uint16(offset))
	c.chunk.Code[patchAt+1] = byte(uint16(offset) >> 8)
}

// identIndex interns name in the identifier table.
func (c *cstate) identIndex(name string) int {
	if idx, ok := c.identIdx[name]; ok {
		return idx
	}
	idx := len(c.chunk.Identifiers)
	c.chunk.Identifiers = append(c.chunk.Identifiers, name)
	c.identIdx[name] = idx
	return idx
}

// constIndex interns v in the constant pool by structural equality,
// failing with TooManyConstants once the pool would exceed the single-byte
// CONST operand's addressable range.
func (c *cstate) constIndex(v value.Value, pos token.Position) int {
	key := constKey(v)
	if idx, ok := c.constIdx[key]; ok {
		return idx
	}
	if len(c.chunk.Constants) >= maxConstants {
		c.errf(diag.TooManyConstants, pos, "constant pool exceeds %d entries", maxConstants)
		return 0
	}
	idx := len(c.chunk.Constants)
	c.chunk.Constants = append(c.chunk.Constants, v)
	c.constIdx[key] = idx
	return idx
}

func constKey(v value.Value) string {
	switch n := v.(type) {
	case value.Int:
		return fmt.Sprintf("i:%d", int64(n))
	case value.UInt:
		return fmt.Sprintf("u:%d", uint64(n))
	case value.Float:
		return fmt.Sprintf("f:%x", float64(n))
	case value.Bool:
		return fmt.Sprintf("b:%t", bool(n))
	case value.String:
		return "s:" + string(n)
	case value.Unit:
		return "unit"
	case value.Function:
		return fmt.Sprintf("fn:%d", n.Index)
	case value.NativeFunction:
		return "native:" + n.Name
	default:
		return fmt.Sprintf("?:%v", v)
	}
}

func toPosition(p token.Position) Position {
	return Position{Line: p.Line, Column: p.Column}
}
