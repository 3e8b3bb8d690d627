package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/slang/lang/bytecode"
)

// Compile reads a Slang source file, compiles it, and writes the resulting
// bytecode container to disk: the source's own name with its extension
// replaced by .sip, unless -o/--output names a different path.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	chunk, err := compileSource(stdio, args[0], src)
	if err != nil {
		return err
	}

	out := c.Output
	if out == "" {
		out = outputPathFor(args[0])
	}
	data := bytecode.Serialize(chunk)
	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	fmt.Fprintln(stdio.Stdout, "Successfully compiled")
	return nil
}

func outputPathFor(src string) string {
	if ext := ".sl"; strings.HasSuffix(src, ext) {
		return strings.TrimSuffix(src, ext) + ".sip"
	}
	return src + ".sip"
}
