package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/parser"
	"github.com/mna/slang/lang/resolver"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// analyze scans, parses and resolves src, returning the program, the type
// registry used, and the diagnostics collected across all three phases.
func analyze(t *testing.T, src string) (*ast.Program, *types.Registry, *diag.Bag) {
	t.Helper()
	file := token.NewFile("test.slang", []byte(src))
	errs := &diag.Bag{}
	prog := parser.Parse(file, errs)
	require.NotNil(t, prog)
	reg := types.NewRegistry()
	resolver.Analyze(prog, reg, errs)
	return prog, reg, errs
}

func firstExprStmt(t *testing.T, prog *ast.Program, idx int) *ast.ExpressionStatement {
	t.Helper()
	require.Greater(t, len(prog.Stmts), idx)
	es, ok := prog.Stmts[idx].(*ast.ExpressionStatement)
	require.True(t, ok, "stmt %d is %T, not *ast.ExpressionStatement", idx, prog.Stmts[idx])
	return es
}

func codes(errs *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, e := range errs.Errors() {
		out = append(out, e.Code)
	}
	return out
}

func TestLetWithDeclaredTypeMatchesLiteral(t *testing.T) {
	_, reg, errs := analyze(t, `let x: i32 = 42;`)
	assert.False(t, errs.HasErrors())
	_ = reg
}

func TestLetTypeMismatchStringToInt(t *testing.T) {
	_, _, errs := analyze(t, `let x: i32 = "s";`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.TypeMismatch, errs.Errors()[0].Code)
	assert.Equal(t, "[E2005] Type mismatch: variable x is i32 but expression is string", errs.Errors()[0].Error())
}

func TestLetUnspecifiedIntOutOfRangeForUnsigned(t *testing.T) {
	_, _, errs := analyze(t, `let a: u32 = -1;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.IntegerOutOfRange, errs.Errors()[0].Code)
	assert.Equal(t, "[E2008] Integer literal -1 is out of range for type u32", errs.Errors()[0].Error())
}

func TestLetUnspecifiedIntCoercesToDeclaredType(t *testing.T) {
	prog, _, errs := analyze(t, `let a: i64 = 10;`)
	assert.False(t, errs.HasErrors())
	let := prog.Stmts[0].(*ast.Let)
	assert.Equal(t, int(types.I64), let.Init.TypeID())
}

func TestLetWithoutDeclaredTypeTakesInitializerType(t *testing.T) {
	prog, _, errs := analyze(t, `let a = 10;`)
	assert.False(t, errs.HasErrors())
	let := prog.Stmts[0].(*ast.Let)
	// No declared type and no other context: defaults to i64.
	assert.Equal(t, int(types.I64), let.Init.TypeID())
}

func TestVariableRedefinitionInSameScope(t *testing.T) {
	_, _, errs := analyze(t, `let x = 1; let x = 2;`)
	require.True(t, errs.HasErrors())
	assert.Contains(t, codes(errs), diag.SymbolRedefinition)
}

func TestUndefinedVariableReference(t *testing.T) {
	_, _, errs := analyze(t, `print_value(undefined);`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, "[E2015] Undefined variable: undefined", errs.Errors()[0].Error())
}

func TestAssignmentToImmutableVariable(t *testing.T) {
	_, _, errs := analyze(t, `let x = 1; x = 2;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.AssignmentToImmutableVariable, errs.Errors()[0].Code)
}

func TestAssignmentToMutableVariableOK(t *testing.T) {
	_, _, errs := analyze(t, `let mut x = 1; x = 2;`)
	assert.False(t, errs.HasErrors())
}

func TestAssignmentTypeMismatch(t *testing.T) {
	_, _, errs := analyze(t, `let mut x = 1; x = "s";`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.TypeMismatch, errs.Errors()[0].Code)
}

func TestBinaryStringConcat(t *testing.T) {
	prog, _, errs := analyze(t, `"a" + "b";`)
	assert.False(t, errs.HasErrors())
	es := firstExprStmt(t, prog, 0)
	assert.Equal(t, int(types.String), es.Expr.TypeID())
}

func TestBinaryMixedConcreteSizesRejected(t *testing.T) {
	_, _, errs := analyze(t, `let a: i32 = 1; let b: i64 = 2; let c = a + b;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.OperationTypeMismatch, errs.Errors()[0].Code)
}

func TestBinaryUnspecifiedCoercesToConcreteSibling(t *testing.T) {
	prog, _, errs := analyze(t, `let a: i32 = 1; let c = a + 2;`)
	assert.False(t, errs.HasErrors())
	let := prog.Stmts[1].(*ast.Let)
	assert.Equal(t, int(types.I32), let.Init.TypeID())
}

func TestLogicalOperatorsRequireBool(t *testing.T) {
	_, _, errs := analyze(t, `let x = 1 && true;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.LogicalOperatorTypeMismatch, errs.Errors()[0].Code)
}

func TestComparisonProducesBool(t *testing.T) {
	prog, _, errs := analyze(t, `1 < 2;`)
	assert.False(t, errs.HasErrors())
	es := firstExprStmt(t, prog, 0)
	assert.Equal(t, int(types.Bool), es.Expr.TypeID())
}

func TestNegateUnsignedRejected(t *testing.T) {
	_, _, errs := analyze(t, `let a: u32 = 1; let b = -a;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.InvalidUnaryOperation, errs.Errors()[0].Code)
}

func TestBangRequiresBool(t *testing.T) {
	_, _, errs := analyze(t, `let a = !1;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.InvalidUnaryOperation, errs.Errors()[0].Code)
}

func TestFunctionDeclarationAndCall(t *testing.T) {
	_, _, errs := analyze(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		print_value(add(1, 2));
	`)
	assert.False(t, errs.HasErrors())
}

func TestFunctionForwardReference(t *testing.T) {
	_, _, errs := analyze(t, `
		fn main_fn() -> i32 { helper() }
		fn helper() -> i32 { 1 }
	`)
	assert.False(t, errs.HasErrors())
}

func TestFunctionReturnTypeMismatch(t *testing.T) {
	_, _, errs := analyze(t, `fn f() -> i32 { "not an int" }`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.ReturnTypeMismatch, errs.Errors()[0].Code)
}

func TestBareReturnRequiresUnitFunction(t *testing.T) {
	_, _, errs := analyze(t, `fn f() -> i32 { return; }`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.MissingReturnValue, errs.Errors()[0].Code)
}

func TestReturnExpressionTypeChecked(t *testing.T) {
	_, _, errs := analyze(t, `fn f() -> i32 { return "nope"; }`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.ReturnTypeMismatch, errs.Errors()[0].Code)
}

func TestCallArgumentCountMismatch(t *testing.T) {
	_, _, errs := analyze(t, `fn add(a: i32, b: i32) -> i32 { a + b } add(1);`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.ArgumentCountMismatch, errs.Errors()[0].Code)
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	_, _, errs := analyze(t, `fn add(a: i32, b: i32) -> i32 { return a + b; } add(1, "x");`)
	require.True(t, errs.HasErrors())
	var found bool
	for _, e := range errs.Errors() {
		if e.Code == diag.ArgumentTypeMismatch {
			found = true
			assert.Contains(t, e.Error(), "Expected argument 2 to be i32, but got string")
		}
	}
	assert.True(t, found)
}

func TestCallOnNonFunctionValue(t *testing.T) {
	_, _, errs := analyze(t, `let x = 1; x();`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.VariableNotCallable, errs.Errors()[0].Code)
}

func TestCallToUnknownBuiltinAcceptsAnyArgument(t *testing.T) {
	_, _, errs := analyze(t, `print_value(1); print_value("s"); print_value(true);`)
	assert.False(t, errs.HasErrors())
}

func TestIfStatementElseOptional(t *testing.T) {
	_, _, errs := analyze(t, `if true { let x = 1; }`)
	assert.False(t, errs.HasErrors())
}

func TestIfStatementConditionMustBeBool(t *testing.T) {
	_, _, errs := analyze(t, `if 1 { }`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.TypeMismatch, errs.Errors()[0].Code)
}

func TestIfExpressionRequiresElseBranchesMatch(t *testing.T) {
	prog, _, errs := analyze(t, `let x = if true { 1 } else { 2 };`)
	assert.False(t, errs.HasErrors())
	let := prog.Stmts[0].(*ast.Let)
	assert.Equal(t, int(types.I64), let.Init.TypeID())
}

func TestIfExpressionBranchTypeMismatch(t *testing.T) {
	_, _, errs := analyze(t, `let x = if true { 1 } else { "s" };`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.TypeMismatch, errs.Errors()[0].Code)
}

func TestStructDeclarationAndFieldTypes(t *testing.T) {
	_, reg, errs := analyze(t, `struct Point { x: i32, y: i32 };`)
	assert.False(t, errs.HasErrors())
	id, ok := reg.StructByName("Point")
	require.True(t, ok)
	info := reg.Lookup(id)
	require.NotNil(t, info)
}

func TestUnknownTypeAnnotation(t *testing.T) {
	_, _, errs := analyze(t, `let x: NoSuchType = 1;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.UnknownType, errs.Errors()[0].Code)
}

func TestFunctionTypeAssignmentRequiresExactShape(t *testing.T) {
	_, _, errs := analyze(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		let f: fn(i32, i32) -> i32 = add;
	`)
	assert.False(t, errs.HasErrors())
}

func TestFunctionTypeAssignmentShapeMismatch(t *testing.T) {
	_, _, errs := analyze(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		let f: fn(i32) -> i32 = add;
	`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.TypeMismatch, errs.Errors()[0].Code)
}

func TestPrimitiveNameCannotBeShadowed(t *testing.T) {
	_, _, errs := analyze(t, `let i32 = 1;`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.SymbolRedefinition, errs.Errors()[0].Code)
}

func TestFibonacciEndToEnd(t *testing.T) {
	_, _, errs := analyze(t, `
		fn fib(n: i32) -> i32 {
			if n <= 1 { n } else { fib(n - 1) + fib(n - 2) }
		}
		print_value(fib(10));
	`)
	assert.False(t, errs.HasErrors())
}
