package value

import "fmt"

// Function is a reference to a compiled function by index into the owning
// chunk's function table.
type Function struct {
	Index int
	Name  string
}

func (f Function) String() string { return fmt.Sprintf("<fn %s>", f.Name) }
func (f Function) Type() string   { return "function" }

// NativeFunction is a builtin implemented in Go, identified by name rather
// than by chunk index. print_value is the only one exercised today.
type NativeFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (f NativeFunction) String() string { return fmt.Sprintf("<native fn %s>", f.Name) }
func (f NativeFunction) Type() string   { return "native function" }
