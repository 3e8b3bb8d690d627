package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/slang/lang/bytecode"
	"github.com/mna/slang/lang/machine"
)

// Run loads a previously compiled bytecode container and executes it.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	chunk, err := bytecode.Deserialize(data)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	th := &machine.Thread{Stdout: stdio.Stdout}
	if _, err := machine.Run(th, chunk); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	return nil
}
