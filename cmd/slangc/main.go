// Command slangc is the Slang compiler and virtual machine: compile a
// source file to bytecode, execute a source file directly, run a
// previously compiled bytecode container, or start an interactive REPL.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/mna/slang/internal/maincmd"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
