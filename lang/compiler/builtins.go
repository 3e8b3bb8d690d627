package compiler

import (
	"fmt"

	"github.com/mna/slang/lang/value"
)

// printValueName is the one builtin the resolver predeclares at the root
// scope (see resolver.go); it has no FunctionDeclaration and so no entry in
// funcIdx, which is why the compiler special-cases it by name both when
// compiling a direct call (call, below) and when it's referenced bare as a
// value (variable, below).
const printValueName = "print_value"

// printValueBuiltin backs a bare reference to print_value as a first-class
// NativeFunction value. It is never itself persisted by the bytecode
// container: only NativeFunction.Name round-trips to disk, and a loader
// rebinds Fn from this same registry by name.
func printValueBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("print_value: expected 1 argument, got %d", len(args))
	}
	fmt.Println(args[0].String())
	return value.Int(0), nil
}

// Builtins maps a native function's persisted name back to its
// implementation, for the bytecode loader to rebind a NativeFunction
// constant's Fn field after deserializing a container.
var Builtins = map[string]func([]value.Value) (value.Value, error){
	printValueName: printValueBuiltin,
}
