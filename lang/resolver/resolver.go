// Package resolver implements the semantic analyzer: it walks a parsed
// program, resolves every identifier to a scoped binding, checks and
// finalizes the type of every expression, and reports violations of the
// type system's rules. Successful analysis attaches a concrete,
// non-Unknown type to every expression in the tree.
package resolver

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// Analyze resolves and type-checks prog, reporting diagnostics to errs.
func Analyze(prog *ast.Program, reg *types.Registry, errs *diag.Bag) {
	a := &analyzer{types: reg, errs: errs}
	a.root = newScope(nil)
	a.scope = a.root
	a.registerPrimitiveNames()
	a.registerBuiltins()

	// Pre-pass: register every top-level function and struct signature so
	// forward references (a function calling one declared later in the
	// file) resolve. This departs from a strict single left-to-right pass
	// over statements; see the design notes for why it's necessary.
	for _, s := range prog.Stmts {
		a.predeclare(s)
	}

	for _, s := range prog.Stmts {
		a.stmt(s)
	}
}

// analyzer carries the mutable state threaded through one Analyze call:
// the type registry, the current scope chain, the enclosing function's
// declared return type (nil at top level), and the diagnostic sink.
type analyzer struct {
	types *types.Registry
	errs  *diag.Bag

	root  *scope
	scope *scope

	// fnReturn is the declared return type of the function currently being
	// analyzed, or nil at the top level (which behaves as if declared to
	// return unit).
	fnReturn *types.ID
}

func (a *analyzer) errf(code diag.Code, pos token.Position, format string, args ...interface{}) {
	a.errs.Addf(code, pos, format, args...)
}

func (a *analyzer) push() { a.scope = newScope(a.scope) }
func (a *analyzer) pop()  { a.scope = a.scope.parent }

// primitiveNames lists every name reserved at the root scope so a variable
// can never shadow a type name, including "unknown" and the unspecified
// numeric types which are reserved names even though they cannot appear in
// a written type annotation (see types.PrimitiveByName).
var primitiveNames = map[string]types.ID{
	"unknown":           types.Unknown,
	"unit":              types.Unit,
	"bool":              types.Bool,
	"string":            types.String,
	"i32":               types.I32,
	"i64":               types.I64,
	"u32":               types.U32,
	"u64":               types.U64,
	"f32":               types.F32,
	"f64":               types.F64,
	"unspecified_int":   types.UnspecifiedInt,
	"unspecified_float": types.UnspecifiedFloat,
}

func (a *analyzer) registerPrimitiveNames() {
	for name, id := range primitiveNames {
		a.root.define(&Symbol{Name: name, Kind: SymType, TypeID: id})
	}
}

func (a *analyzer) registerBuiltins() {
	unknown := types.Unknown
	i32 := types.I32
	fnType := a.types.InternFunction([]types.ID{unknown}, i32)
	a.root.define(&Symbol{Name: "print_value", Kind: SymFunction, TypeID: fnType})
}

// predeclare registers the signature of a top-level function or struct
// declaration, without analyzing its body.
func (a *analyzer) predeclare(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.FunctionDeclaration:
		a.declareFunctionSignature(n)
	case *ast.TypeDefinition:
		a.declareStruct(n)
	}
}

func (a *analyzer) declareFunctionSignature(n *ast.FunctionDeclaration) {
	params := make([]types.ID, len(n.Params))
	for i, p := range n.Params {
		id, ok := a.resolveTypeRef(p.Decl)
		if !ok {
			id = types.Unknown
		}
		params[i] = id
	}
	ret := types.ID(types.Unit)
	if n.ReturnType != nil {
		if id, ok := a.resolveTypeRef(n.ReturnType); ok {
			ret = id
		}
	}
	fnType := a.types.InternFunction(params, ret)
	if !a.scope.define(&Symbol{Name: n.Name, Kind: SymFunction, TypeID: fnType, Pos: n.Start}) {
		a.errf(diag.SymbolRedefinition, n.Start, "%s is already declared in this scope", n.Name)
	}
}

func (a *analyzer) declareStruct(n *ast.TypeDefinition) {
	fields := make([]types.Field, len(n.Fields))
	for i, f := range n.Fields {
		id, ok := a.resolveTypeRef(f.Decl)
		if !ok {
			id = types.Unknown
		}
		fields[i] = types.Field{Name: f.Name, Type: id}
	}
	structID := a.types.DeclareStruct(n.Name, fields)
	if !a.scope.define(&Symbol{Name: n.Name, Kind: SymStruct, TypeID: structID, Pos: n.Start}) {
		a.errf(diag.SymbolRedefinition, n.Start, "%s is already declared in this scope", n.Name)
	}
}

// resolveTypeRef converts a parsed type annotation to a registry ID.
func (a *analyzer) resolveTypeRef(ref *ast.TypeRef) (types.ID, bool) {
	if ref == nil {
		return types.Unit, true
	}
	if ref.Fn != nil {
		params := make([]types.ID, len(ref.Fn.Params))
		for i, p := range ref.Fn.Params {
			id, ok := a.resolveTypeRef(p)
			if !ok {
				id = types.Unknown
			}
			params[i] = id
		}
		ret, ok := a.resolveTypeRef(ref.Fn.Return)
		if !ok {
			ret = types.Unknown
		}
		return a.types.InternFunction(params, ret), true
	}

	if id, ok := types.PrimitiveByName(ref.Name); ok {
		return id, true
	}
	if id, ok := a.types.StructByName(ref.Name); ok {
		return id, true
	}
	a.errf(diag.UnknownType, ref.Pos, "unknown type %q", ref.Name)
	return types.Unknown, false
}
