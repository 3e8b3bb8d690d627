package maincmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/mna/mainer"

	"github.com/mna/slang/lang/machine"
)

// Repl starts an interactive read-eval-print loop: each line is compiled
// and run as its own top-level script sharing nothing with prior lines
// (Slang has no persistent top-level session state beyond what a single
// Run call builds), printing whatever print_value calls produced.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	fmt.Fprintln(stdio.Stdout, "Slang REPL")
	fmt.Fprintln(stdio.Stdout, `type "exit" or press Ctrl-D to quit`)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "slang> ",
		Stdin:       io.NopCloser(stdio.Stdin),
		Stdout:      stdio.Stdout,
		Stderr:      stdio.Stderr,
		HistoryFile: "",
	})
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			return nil
		}
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		chunk, err := compileSource(stdio, "<repl>", []byte(line))
		if err != nil {
			// diagnostics already printed; keep the session going.
			continue
		}

		th := &machine.Thread{Stdout: stdio.Stdout}
		if _, err := machine.Run(th, chunk); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
		}
	}
}
