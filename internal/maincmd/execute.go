package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/slang/lang/machine"
)

// Execute compiles a Slang source file and runs it immediately, without
// writing a bytecode container to disk.
func (c *Cmd) Execute(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	chunk, err := compileSource(stdio, args[0], src)
	if err != nil {
		return err
	}

	th := &machine.Thread{Stdout: stdio.Stdout}
	if _, err := machine.Run(th, chunk); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	return nil
}
