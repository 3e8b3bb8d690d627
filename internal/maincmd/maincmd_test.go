package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/slang/internal/maincmd"
)

func stdio(stdin string) (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return mainer.Stdio{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
	}, &out, &errOut
}

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestCompileWritesContainerAndPrintsSuccess(t *testing.T) {
	src := writeTemp(t, "prog.sl", `print_value(42);`)
	io, out, errOut := stdio("")

	var c maincmd.Cmd
	err := c.Compile(context.Background(), io, []string{src})
	require.NoError(t, err)
	assert.Equal(t, "Successfully compiled\n", out.String())
	assert.Empty(t, errOut.String())

	want := strings.TrimSuffix(src, ".sl") + ".sip"
	_, statErr := os.Stat(want)
	require.NoError(t, statErr)
}

func TestCompileHonorsOutputFlag(t *testing.T) {
	src := writeTemp(t, "prog.sl", `print_value(1);`)
	out := filepath.Join(t.TempDir(), "custom.sip")
	io, _, _ := stdio("")

	c := maincmd.Cmd{Output: out}
	err := c.Compile(context.Background(), io, []string{src})
	require.NoError(t, err)
	_, statErr := os.Stat(out)
	require.NoError(t, statErr)
}

func TestCompileReportsDiagnosticsOnSyntaxError(t *testing.T) {
	src := writeTemp(t, "bad.sl", `let x: i32 = ;`)
	io, _, errOut := stdio("")

	var c maincmd.Cmd
	err := c.Compile(context.Background(), io, []string{src})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Compilation failed:")
	assert.Contains(t, errOut.String(), "[E1")
}

func TestExecuteRunsSourceDirectly(t *testing.T) {
	src := writeTemp(t, "prog.sl", `print_value(1 + 2);`)
	io, out, _ := stdio("")

	var c maincmd.Cmd
	err := c.Execute(context.Background(), io, []string{src})
	require.NoError(t, err)
	assert.Equal(t, "3\n", out.String())
}

func TestExecuteReportsRuntimeError(t *testing.T) {
	src := writeTemp(t, "prog.sl", `print_value(1 / 0);`)
	io, _, errOut := stdio("")

	var c maincmd.Cmd
	err := c.Execute(context.Background(), io, []string{src})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Runtime error: Division by zero")
}

func TestRunLoadsCompiledContainer(t *testing.T) {
	srcPath := writeTemp(t, "prog.sl", `print_value("from container");`)
	compileIO, _, _ := stdio("")
	var c maincmd.Cmd
	require.NoError(t, c.Compile(context.Background(), compileIO, []string{srcPath}))

	sipPath := strings.TrimSuffix(srcPath, ".sl") + ".sip"
	runIO, out, _ := stdio("")
	require.NoError(t, c.Run(context.Background(), runIO, []string{sipPath}))
	assert.Equal(t, "from container\n", out.String())
}

func TestRunRejectsCorruptContainer(t *testing.T) {
	path := writeTemp(t, "bad.sip", "not a real container")
	io, _, errOut := stdio("")

	var c maincmd.Cmd
	err := c.Run(context.Background(), io, []string{path})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "corrupt bytecode container")
}

func TestReplEvaluatesLinesUntilExit(t *testing.T) {
	io, out, _ := stdio("print_value(1);\nprint_value(2);\nexit\n")

	var c maincmd.Cmd
	err := c.Repl(context.Background(), io, nil)
	require.NoError(t, err)
	// the line-editor also writes prompts to stdout, so check for the
	// evaluated output rather than an exact transcript.
	got := out.String()
	assert.Contains(t, got, "Slang REPL")
	assert.Contains(t, got, "1\n")
	assert.Contains(t, got, "2\n")
}
