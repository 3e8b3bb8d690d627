package maincmd

import (
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/parser"
	"github.com/mna/slang/lang/resolver"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// compileSource runs every compilation phase over src and returns the
// resulting Chunk. On any phase failure it prints every collected
// diagnostic to stdio.Stderr, prefixed the way the spec's error format
// requires, and returns a compileFailure.
func compileSource(stdio mainer.Stdio, name string, src []byte) (*compiler.Chunk, error) {
	file := token.NewFile(name, src)
	errs := &diag.Bag{}

	prog := parser.Parse(file, errs)
	if errs.HasErrors() {
		return nil, reportCompileErrors(stdio, file, errs)
	}

	reg := types.NewRegistry()
	resolver.Analyze(prog, reg, errs)
	if errs.HasErrors() {
		return nil, reportCompileErrors(stdio, file, errs)
	}

	chunk := compiler.Compile(prog, reg, errs)
	if errs.HasErrors() {
		return nil, reportCompileErrors(stdio, file, errs)
	}
	return chunk, nil
}

func reportCompileErrors(stdio mainer.Stdio, file *token.File, errs *diag.Bag) error {
	var buf strings.Builder
	fmt.Fprint(&buf, "Compilation failed:\n")
	errs.WriteTo(&buf, file)
	fmt.Fprint(stdio.Stderr, buf.String())
	return compileFailure{}
}
