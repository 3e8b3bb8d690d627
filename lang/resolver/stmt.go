package resolver

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/types"
)

func (a *analyzer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Let:
		a.letStmt(n)
	case *ast.Assignment:
		a.assignment(n)
	case *ast.FunctionDeclaration:
		a.functionBody(n)
	case *ast.Return:
		a.returnStmt(n)
	case *ast.If:
		a.ifStmt(n)
	case *ast.ExpressionStatement:
		a.expr(n.Expr, types.Unknown)
	case *ast.TypeDefinition:
		// already registered in the pre-pass.
	}
}

func (a *analyzer) letStmt(n *ast.Let) {
	var declared *types.ID
	if n.Decl != nil {
		if id, ok := a.resolveTypeRef(n.Decl); ok {
			declared = &id
		}
	}

	target := types.ID(types.Unknown)
	if declared != nil {
		target = *declared
	}
	initType := a.expr(n.Init, target)

	finalType := initType
	if declared != nil {
		coerced, ok := a.checkAssignable(*declared, initType, n.Init, n.Start)
		if !ok {
			a.errf(diag.TypeMismatch, n.Start, "Type mismatch: variable %s is %s but expression is %s",
				n.Name, a.types.Name(*declared), a.types.Name(initType))
		}
		finalType = coerced
	} else {
		// No declared type to coerce against: an unspecified literal
		// initializer (let a = 10;) must still settle on a concrete type now,
		// since the symbol it binds carries that type for the rest of its
		// scope and nothing will revisit it later.
		finalType = a.finalizeUnspecified(n.Init, initType)
	}

	if !a.scope.define(&Symbol{Name: n.Name, Kind: SymVar, TypeID: finalType, Mutable: n.Mutable, Pos: n.Start}) {
		code := diag.VariableRedefinition
		if a.scope == a.root {
			code = diag.SymbolRedefinition
		}
		a.errf(code, n.Start, "%s is already declared in this scope", n.Name)
	}
}

func (a *analyzer) assignment(n *ast.Assignment) {
	sym, ok := a.scope.lookup(n.Target)
	if !ok {
		a.errf(diag.UndefinedVariable, n.Start, "Undefined variable: %s", n.Target)
		a.expr(n.Value, types.Unknown)
		return
	}
	if sym.Kind != SymVar {
		a.errf(diag.UndefinedVariable, n.Start, "Undefined variable: %s", n.Target)
		a.expr(n.Value, types.Unknown)
		return
	}
	if !sym.Mutable {
		a.errf(diag.AssignmentToImmutableVariable, n.Start, "cannot assign to immutable variable %s", n.Target)
	}

	valType := a.expr(n.Value, sym.TypeID)
	if _, ok := a.checkAssignable(sym.TypeID, valType, n.Value, n.Start); !ok {
		a.errf(diag.TypeMismatch, n.Start, "Type mismatch: variable %s is %s but expression is %s",
			n.Target, a.types.Name(sym.TypeID), a.types.Name(valType))
	}
}

func (a *analyzer) functionBody(n *ast.FunctionDeclaration) {
	sym, ok := a.scope.lookup(n.Name)
	if !ok {
		// Nested function declarations are not pre-declared; register now.
		a.declareFunctionSignature(n)
		sym, _ = a.scope.lookup(n.Name)
	}
	info := a.types.Lookup(sym.TypeID)

	a.push()
	for i, p := range n.Params {
		pt := types.ID(types.Unknown)
		if info != nil && i < len(info.Params) {
			pt = info.Params[i]
		}
		a.scope.define(&Symbol{Name: p.Name, Kind: SymVar, TypeID: pt, Mutable: false, Pos: n.Start})
	}

	ret := types.ID(types.Unit)
	if info != nil {
		ret = info.Return
	}
	prevReturn := a.fnReturn
	a.fnReturn = &ret

	bodyType := a.analyzeBlockBody(n.Body)
	if n.Body.Trailing != nil {
		if final, ok := a.checkAssignable(ret, bodyType, n.Body.Trailing, n.Body.End); ok {
			setExprType(n.Body.Trailing, final)
		} else {
			bodyType = a.finalizeUnspecified(n.Body.Trailing, bodyType)
			a.errf(diag.ReturnTypeMismatch, n.Body.End, "function %s must return %s but body produces %s",
				n.Name, a.types.Name(ret), a.types.Name(bodyType))
		}
	}

	a.fnReturn = prevReturn
	a.pop()
}

func (a *analyzer) returnStmt(n *ast.Return) {
	want := types.ID(types.Unit)
	if a.fnReturn != nil {
		want = *a.fnReturn
	}

	if n.Expr == nil {
		if want != types.Unit {
			a.errf(diag.MissingReturnValue, n.Start, "missing return value: expected %s", a.types.Name(want))
		}
		return
	}

	got := a.finalizeUnspecified(n.Expr, a.expr(n.Expr, want))
	if _, ok := a.checkAssignable(want, got, n.Expr, n.Start); !ok {
		a.errf(diag.ReturnTypeMismatch, n.Start, "return type mismatch: expected %s, got %s",
			a.types.Name(want), a.types.Name(got))
	}
}

func (a *analyzer) ifStmt(n *ast.If) {
	condType := a.expr(n.Cond, types.Bool)
	if condType != types.Bool {
		a.errf(diag.TypeMismatch, n.Cond.Span(), "if condition must be bool, got %s", a.types.Name(condType))
	}
	a.analyzeBlockBody(n.Then)
	if n.Else != nil {
		a.analyzeBlockBody(n.Else)
	}
}

// analyzeBlockBody pushes a new scope, analyzes every statement and the
// optional trailing expression, and returns the trailing expression's type
// (Unit if there is none).
func (a *analyzer) analyzeBlockBody(b *ast.Block) types.ID {
	a.push()
	defer a.pop()

	for _, s := range b.Stmts {
		a.stmt(s)
	}
	if b.Trailing == nil {
		return types.Unit
	}
	return a.expr(b.Trailing, types.Unknown)
}
