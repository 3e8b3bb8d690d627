package machine

import (
	"io"
	"os"
)

// Thread carries the execution context for one Run call: the I/O stream
// print_value writes to. Grounded on the teacher's machine.Thread, trimmed
// to the subset Slang's VM actually uses — no step/recursion/call-depth
// limits (the language has no loops and a well-typed program terminates on
// its own), no module loader (Slang has no import system).
type Thread struct {
	// Stdout receives print_value's output. Defaults to os.Stdout when nil.
	Stdout io.Writer
}

func (th *Thread) init() {
	if th.Stdout == nil {
		th.Stdout = os.Stdout
	}
}

func (th *Thread) out() io.Writer { return th.Stdout }
