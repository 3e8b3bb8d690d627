package compiler

import (
	"github.com/mna/slang/lang/ast"
)

// predeclareFunction registers fn's table entry (name, arity, parameter
// names, return type name) before any body is compiled, mirroring the
// resolver's own predeclare pass so mutually-recursive top-level functions
// compile regardless of declaration order. CodeOffset is filled in once the
// body is actually compiled.
func (c *cstate) predeclareFunction(fn *ast.FunctionDeclaration) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	retName := "unit"
	if fn.ReturnType != nil {
		retName = fn.ReturnType.String()
	}
	idx := len(c.chunk.Functions)
	c.chunk.Functions = append(c.chunk.Functions, FunctionEntry{
		Name:           fn.Name,
		Arity:          len(fn.Params),
		ParamNames:     params,
		ReturnTypeName: retName,
	})
	c.funcIdx[fn.Name] = idx
}

// compileFunction emits fn's body at the current end of Code and backfills
// its table entry's CodeOffset. Parameters are bound into the callee's
// locals (by name) before the body runs; the VM does this at call time
// using ParamNames, so the compiler does not need to emit parameter-binding
// instructions itself.
func (c *cstate) compileFunction(fn *ast.FunctionDeclaration) {
	idx := c.funcIdx[fn.Name]
	c.chunk.Functions[idx].CodeOffset = len(c.chunk.Code)

	c.compileBlockValue(fn.Body)
	c.emit(RETURN)
}
