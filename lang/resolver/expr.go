package resolver

import (
	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// checkAssignable checks whether a value of type src, optionally an
// unspecified numeric literal coercible to dst given srcExpr's constant
// value, may be used where dst is expected. It returns the type the
// expression finalizes to (always dst, also when the check fails) and
// whether the assignment is legal.
func (a *analyzer) checkAssignable(dst, src types.ID, srcExpr ast.Expr, pos token.Position) (types.ID, bool) {
	if dst == types.Unknown || src == types.Unknown {
		return dst, true
	}
	if dst == src {
		return dst, true
	}

	srcInfo := a.types.Lookup(src)
	if srcInfo != nil && srcInfo.Unspecified {
		if srcInfo.Kind == types.KindInteger && isIntegerType(dst) {
			if v, ok := constIntValue(srcExpr); ok && !intFitsType(v, dst) {
				a.errf(diag.IntegerOutOfRange, pos, "Integer literal %d is out of range for type %s", v, a.types.Name(dst))
				return dst, false
			}
			return dst, true
		}
		if srcInfo.Kind == types.KindFloat && isFloatType(dst) {
			return dst, true
		}
	}

	if srcInfo != nil && srcInfo.Kind == types.KindFunction {
		dstInfo := a.types.Lookup(dst)
		if dstInfo != nil && dstInfo.Kind == types.KindFunction && a.types.SameFunctionShape(dst, src) {
			return dst, true
		}
	}

	return dst, false
}

// expr analyzes e, recording its finalized type on the node, and returns
// that type. want is the type expected from context (an annotation, a
// parameter slot, the other operand of a binary op, ...); types.Unknown
// means no particular type is expected.
func (a *analyzer) expr(e ast.Expr, want types.ID) types.ID {
	var t types.ID
	switch n := e.(type) {
	case *ast.Literal:
		t = a.literal(n, want)
	case *ast.Variable:
		t = a.variable(n)
	case *ast.Unary:
		t = a.unary(n)
	case *ast.Binary:
		t = a.binary(n)
	case *ast.Call:
		t = a.call(n)
	case *ast.Block:
		t = a.analyzeBlockBody(n)
	case *ast.IfExpr:
		t = a.ifExpr(n)
	default:
		t = types.Unknown
	}
	e.SetTypeID(int(t))
	return t
}

func (a *analyzer) literal(n *ast.Literal, want types.ID) types.ID {
	switch n.Kind {
	case ast.LitBool:
		return types.Bool
	case ast.LitString:
		return types.String
	case ast.LitUnit:
		return types.Unit
	case ast.LitInt:
		return a.intLiteral(n, want)
	case ast.LitFloat:
		return a.floatLiteral(n, want)
	}
	return types.Unknown
}

func (a *analyzer) intLiteral(n *ast.Literal, want types.ID) types.ID {
	if n.Suffix == "" {
		if !intFitsType(n.IntVal, types.I64) {
			a.errf(diag.IntegerOutOfRange, n.Pos, "Integer literal %d does not fit in i64", n.IntVal)
		}
		if isIntegerType(want) {
			if !intFitsType(n.IntVal, want) {
				a.errf(diag.IntegerOutOfRange, n.Pos, "Integer literal %d is out of range for type %s", n.IntVal, a.types.Name(want))
			}
			return want
		}
		return types.UnspecifiedInt
	}

	concrete, _ := types.PrimitiveByName(n.Suffix)
	if !intFitsType(n.IntVal, concrete) {
		a.errf(diag.IntegerOutOfRange, n.Pos, "Integer literal %d%s is out of range for type %s", n.IntVal, n.Suffix, n.Suffix)
	}
	return concrete
}

func (a *analyzer) floatLiteral(n *ast.Literal, want types.ID) types.ID {
	if n.Suffix == "" {
		if isFloatType(want) {
			if !floatFitsType(n.FloatVal, want) {
				a.errf(diag.FloatOutOfRange, n.Pos, "Float literal %g is out of range for type %s", n.FloatVal, a.types.Name(want))
			}
			return want
		}
		return types.UnspecifiedFloat
	}

	concrete, _ := types.PrimitiveByName(n.Suffix)
	if !floatFitsType(n.FloatVal, concrete) {
		a.errf(diag.FloatOutOfRange, n.Pos, "Float literal %g%s is out of range for type %s", n.FloatVal, n.Suffix, n.Suffix)
	}
	return concrete
}

func (a *analyzer) variable(n *ast.Variable) types.ID {
	sym, ok := a.scope.lookup(n.Name)
	if !ok {
		a.errf(diag.UndefinedVariable, n.Pos, "Undefined variable: %s", n.Name)
		return types.Unknown
	}
	return sym.TypeID
}

func (a *analyzer) unary(n *ast.Unary) types.ID {
	operand := a.expr(n.Operand, types.Unknown)
	info := a.types.Lookup(operand)

	switch n.Op {
	case token.MINUS:
		if info == nil || (info.Kind != types.KindInteger && info.Kind != types.KindFloat) {
			a.errf(diag.InvalidUnaryOperation, n.OpPos, "cannot negate a value of type %s", a.types.Name(operand))
			return types.Unknown
		}
		if info.Kind == types.KindInteger && !info.Unspecified && !info.Signed {
			a.errf(diag.InvalidUnaryOperation, n.OpPos, "cannot negate unsigned type %s", a.types.Name(operand))
			return types.Unknown
		}
		return operand
	case token.BANG:
		if operand != types.Bool {
			a.errf(diag.InvalidUnaryOperation, n.OpPos, "'!' requires a bool operand, got %s", a.types.Name(operand))
			return types.Unknown
		}
		return types.Bool
	}
	return types.Unknown
}

func (a *analyzer) binary(n *ast.Binary) types.ID {
	switch n.Op {
	case token.AND, token.OR:
		l := a.expr(n.Left, types.Bool)
		r := a.expr(n.Right, types.Bool)
		if l != types.Bool || r != types.Bool {
			a.errf(diag.LogicalOperatorTypeMismatch, n.Span(), "'%s' requires bool operands", n.Op.String())
			return types.Unknown
		}
		return types.Bool
	}

	// Analyze both sides without a hint first so each side can finalize an
	// unspecified literal against the other once both types are known.
	l := a.expr(n.Left, types.Unknown)
	r := a.expr(n.Right, types.Unknown)

	if n.Op == token.PLUS && l == types.String && r == types.String {
		return types.String
	}

	l, r = a.reconcileNumeric(n.Left, n.Right, l, r)

	switch n.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		if !a.sameNumeric(l, r) {
			a.errf(diag.OperationTypeMismatch, n.Span(), "operator '%s' requires matching numeric operands, got %s and %s",
				n.Op.String(), a.types.Name(l), a.types.Name(r))
			return types.Unknown
		}
		return l
	case token.EQ, token.NEQ:
		if l != r && l != types.Unknown && r != types.Unknown {
			a.errf(diag.OperationTypeMismatch, n.Span(), "cannot compare %s and %s", a.types.Name(l), a.types.Name(r))
			return types.Unknown
		}
		return types.Bool
	case token.LT, token.LE, token.GT, token.GE:
		if !a.sameNumeric(l, r) {
			a.errf(diag.OperationTypeMismatch, n.Span(), "operator '%s' requires matching numeric operands, got %s and %s",
				n.Op.String(), a.types.Name(l), a.types.Name(r))
			return types.Unknown
		}
		return types.Bool
	}
	return types.Unknown
}

// reconcileNumeric finalizes an unspecified operand against its sibling's
// concrete numeric type (re-checking range via checkAssignable), or against
// its family's default type (i64 / f64) when neither side is concrete.
func (a *analyzer) reconcileNumeric(leftExpr, rightExpr ast.Expr, l, r types.ID) (types.ID, types.ID) {
	li, ri := a.types.Lookup(l), a.types.Lookup(r)
	switch {
	case li != nil && li.Unspecified && ri != nil && !ri.Unspecified && sameNumericFamily(li, ri):
		a.checkAssignable(r, l, leftExpr, leftExpr.Span())
		leftExpr.SetTypeID(int(r))
		l = r
	case ri != nil && ri.Unspecified && li != nil && !li.Unspecified && sameNumericFamily(ri, li):
		a.checkAssignable(l, r, rightExpr, rightExpr.Span())
		rightExpr.SetTypeID(int(l))
		r = l
	case li != nil && li.Unspecified && ri != nil && ri.Unspecified:
		dl, dr := defaultForFamily(li), defaultForFamily(ri)
		leftExpr.SetTypeID(int(dl))
		rightExpr.SetTypeID(int(dr))
		l, r = dl, dr
	}
	return l, r
}

func sameNumericFamily(unspecified, concrete *types.Info) bool {
	return unspecified.Kind == concrete.Kind
}

func defaultForFamily(info *types.Info) types.ID {
	if info.Kind == types.KindInteger {
		return types.I64
	}
	return types.F64
}

// finalizeUnspecified resolves t to its family's default concrete type
// (i64 / f64) if t is an unspecified integer or float literal type, and
// records the new type on e. It is a no-op, returning t unchanged, once t
// is already concrete (or Unknown). Call this at every point where an
// expression's type is about to become final with no further coercion
// target in sight: reconcileNumeric already does this for the two sides of
// a binary operator, but a let without a declared type, an if-expression
// whose branches agree on an unspecified type, and a function body with no
// declared return type all need the same treatment.
func (a *analyzer) finalizeUnspecified(e ast.Expr, t types.ID) types.ID {
	info := a.types.Lookup(t)
	if info == nil || !info.Unspecified {
		return t
	}
	final := defaultForFamily(info)
	setExprType(e, final)
	return final
}

// setExprType records id as e's finalized type, if e is present.
func setExprType(e ast.Expr, id types.ID) {
	if e != nil {
		e.SetTypeID(int(id))
	}
}

func (a *analyzer) sameNumeric(l, r types.ID) bool {
	if l != r {
		return false
	}
	info := a.types.Lookup(l)
	return info != nil && (info.Kind == types.KindInteger || info.Kind == types.KindFloat)
}

func (a *analyzer) call(n *ast.Call) types.ID {
	calleeType := a.expr(n.Callee, types.Unknown)
	info := a.types.Lookup(calleeType)
	if info == nil || info.Kind != types.KindFunction {
		a.errf(diag.VariableNotCallable, n.Span(), "value is not callable")
		for _, arg := range n.Args {
			a.expr(arg, types.Unknown)
		}
		return types.Unknown
	}

	if len(n.Args) != len(info.Params) {
		a.errf(diag.ArgumentCountMismatch, n.Span(), "Expected %d argument(s), got %d", len(info.Params), len(n.Args))
	}

	for i, arg := range n.Args {
		want := types.ID(types.Unknown)
		if i < len(info.Params) {
			want = info.Params[i]
		}
		got := a.expr(arg, want)
		if want == types.Unknown {
			continue
		}
		if _, ok := a.checkAssignable(want, got, arg, arg.Span()); !ok {
			a.errf(diag.ArgumentTypeMismatch, arg.Span(), "Expected argument %d to be %s, but got %s",
				i+1, a.types.Name(want), a.types.Name(got))
		}
	}
	return info.Return
}

func (a *analyzer) ifExpr(n *ast.IfExpr) types.ID {
	condType := a.expr(n.Cond, types.Bool)
	if condType != types.Bool {
		a.errf(diag.TypeMismatch, n.Cond.Span(), "if condition must be bool, got %s", a.types.Name(condType))
	}

	thenType := a.analyzeBlockBody(n.Then)
	elseType := a.analyzeBlockBody(n.Else)

	if thenType == types.Unknown {
		return a.finalizeUnspecified(n.Else.Trailing, elseType)
	}
	if elseType == types.Unknown {
		return a.finalizeUnspecified(n.Then.Trailing, thenType)
	}
	coerced, ok := a.checkAssignable(thenType, elseType, n.Else.Trailing, n.Start)
	if !ok {
		a.errf(diag.TypeMismatch, n.Start, "if branches have incompatible types: %s and %s",
			a.types.Name(thenType), a.types.Name(elseType))
		return types.Unknown
	}
	// Both branches agree on coerced, possibly still unspecified if neither
	// branch pinned down a concrete type (e.g. two bare integer literals).
	// Finalize it once here rather than leaving it for a coercion target
	// that may never come, and propagate the result to both branches so the
	// else branch's trailing node matches what it was just coerced to.
	final := a.finalizeUnspecified(n.Then.Trailing, coerced)
	setExprType(n.Else.Trailing, final)
	return final
}
