package maincmd

import (
	"errors"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/slang/lang/bytecode"
	"github.com/mna/slang/lang/machine"
)

// compileFailure marks a compilation whose diagnostics were already
// printed to stderr by the command that produced it; it carries no data,
// since Main only needs to know it happened in order to pick the Dataerr
// exit code.
type compileFailure struct{}

func (compileFailure) Error() string { return "compilation failed" }

// exitCodeFor maps a command's returned error to the BSD sysexits code the
// spec's external interface calls for. Unrecognized error shapes fall back
// to Software, the generic "something went wrong" code.
func exitCodeFor(err error) mainer.ExitCode {
	var cf compileFailure
	var corrupt *bytecode.ErrCorrupt
	var rte *machine.RuntimeError

	switch {
	case errors.As(err, &cf):
		return Dataerr
	case errors.As(err, &corrupt):
		return Dataerr
	case errors.As(err, &rte):
		return Software
	case errors.Is(err, os.ErrNotExist):
		return NoInput
	case errors.Is(err, os.ErrPermission):
		return NoPerm
	}
	if _, ok := err.(*os.PathError); ok {
		return IoErr
	}
	return Software
}
