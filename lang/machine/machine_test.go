package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/machine"
	"github.com/mna/slang/lang/parser"
	"github.com/mna/slang/lang/resolver"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// run compiles and executes src, returning everything print_value wrote to
// stdout (one line per call) joined by newlines.
func run(t *testing.T, src string) string {
	t.Helper()
	file := token.NewFile("test.slang", []byte(src))
	errs := &diag.Bag{}
	prog := parser.Parse(file, errs)
	require.NotNil(t, prog)
	require.False(t, errs.HasErrors(), "parse errors: %v", errs.Errors())

	reg := types.NewRegistry()
	resolver.Analyze(prog, reg, errs)
	require.False(t, errs.HasErrors(), "analyzer errors: %v", errs.Errors())

	chunk := compiler.Compile(prog, reg, errs)
	require.False(t, errs.HasErrors(), "compiler errors: %v", errs.Errors())
	require.NotNil(t, chunk)

	var out bytes.Buffer
	th := &machine.Thread{Stdout: &out}
	_, err := machine.Run(th, chunk)
	require.NoError(t, err)
	return strings.TrimRight(out.String(), "\n")
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	file := token.NewFile("test.slang", []byte(src))
	errs := &diag.Bag{}
	prog := parser.Parse(file, errs)
	require.NotNil(t, prog)
	require.False(t, errs.HasErrors())

	reg := types.NewRegistry()
	resolver.Analyze(prog, reg, errs)
	require.False(t, errs.HasErrors())

	chunk := compiler.Compile(prog, reg, errs)
	require.False(t, errs.HasErrors())
	require.NotNil(t, chunk)

	th := &machine.Thread{Stdout: &bytes.Buffer{}}
	_, err := machine.Run(th, chunk)
	return err
}

func TestRunPrintsInt(t *testing.T) {
	assert.Equal(t, "42", run(t, `print_value(42);`))
}

func TestRunPrintsWholeFloatTrimmed(t *testing.T) {
	assert.Equal(t, "3", run(t, `print_value(3.0);`))
}

func TestRunPrintsFractionalFloat(t *testing.T) {
	assert.Equal(t, "3.5", run(t, `print_value(3.5);`))
}

func TestRunPrintsBoolAndString(t *testing.T) {
	assert.Equal(t, "true\nhello", run(t, `print_value(true); print_value("hello");`))
}

func TestRunPrintsUnit(t *testing.T) {
	assert.Equal(t, "()", run(t, `print_value(());`))
}

func TestRunLetAndArithmetic(t *testing.T) {
	assert.Equal(t, "7", run(t, `let a: i32 = 3; let b: i32 = 4; print_value(a + b);`))
}

func TestRunStringConcat(t *testing.T) {
	assert.Equal(t, "ab", run(t, `print_value("a" + "b");`))
}

func TestRunAssignmentMutatesVariable(t *testing.T) {
	assert.Equal(t, "2", run(t, `let mut a: i32 = 1; a = 2; print_value(a);`))
}

func TestRunIfExpression(t *testing.T) {
	assert.Equal(t, "1", run(t, `print_value(if true { 1 } else { 2 });`))
	assert.Equal(t, "2", run(t, `print_value(if false { 1 } else { 2 });`))
}

func TestRunIfStatementWithoutElse(t *testing.T) {
	assert.Equal(t, "", run(t, `if false { print_value(1); }`))
	assert.Equal(t, "1", run(t, `if true { print_value(1); }`))
}

func TestRunLogicalAndShortCircuits(t *testing.T) {
	// the right operand would itself be a runtime error if evaluated; a
	// correct short circuit never reaches it.
	assert.Equal(t, "false", run(t, `print_value(false && (1 / 0 == 1));`))
}

func TestRunLogicalOrShortCircuits(t *testing.T) {
	assert.Equal(t, "true", run(t, `print_value(true || (1 / 0 == 1));`))
}

func TestRunFunctionCall(t *testing.T) {
	assert.Equal(t, "7", run(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		print_value(add(3, 4));
	`))
}

func TestRunRecursiveFibonacci(t *testing.T) {
	assert.Equal(t, "55", run(t, `
		fn fib(n: i32) -> i32 {
			if n <= 1 { n } else { fib(n - 1) + fib(n - 2) }
		}
		print_value(fib(10));
	`))
}

func TestRunMutualRecursion(t *testing.T) {
	assert.Equal(t, "true", run(t, `
		fn isEven(n: i32) -> bool { if n == 0 { true } else { isOdd(n - 1) } }
		fn isOdd(n: i32) -> bool { if n == 0 { false } else { isEven(n - 1) } }
		print_value(isEven(10));
	`))
}

func TestRunFunctionAsValue(t *testing.T) {
	assert.Equal(t, "42", run(t, `
		fn double(n: i32) -> i32 { n * 2 }
		let f: fn(i32) -> i32 = double;
		print_value(f(21));
	`))
}

func TestRunDivisionByZeroIsRuntimeError(t *testing.T) {
	err := runErr(t, `print_value(1 / 0);`)
	require.Error(t, err)
	assert.Equal(t, "Runtime error: Division by zero", err.Error())
}

func TestRunUnsignedArithmetic(t *testing.T) {
	assert.Equal(t, "10", run(t, `let a: u32 = 4; let b: u32 = 6; print_value(a + b);`))
}

func TestRunUnaryNegation(t *testing.T) {
	assert.Equal(t, "-5", run(t, `let a: i32 = 5; print_value(-a);`))
}

func TestRunComparisonOperators(t *testing.T) {
	assert.Equal(t, "true\nfalse", run(t, `print_value(1 < 2); print_value(2 < 1);`))
}
