package compiler

import "github.com/mna/slang/lang/value"

// FunctionEntry describes one compiled function's place inside a Chunk's
// shared code array.
type FunctionEntry struct {
	Name           string
	CodeOffset     int
	Arity          int
	LocalCount     int
	ParamNames     []string
	ReturnTypeName string
}

// Chunk is the compiled artifact produced by Compile: one flat code array
// shared by the top-level script and every function body, a deduplicated
// constant pool, the identifier table referenced by LoadVar/StoreVar, and
// the function table referenced by Call sites.
type Chunk struct {
	Code        []byte
	Constants   []value.Value
	Identifiers []string
	Functions   []FunctionEntry

	// SourceMap maps an instruction's starting byte offset in Code to the
	// source position it was compiled from, for runtime error reporting. Not
	// every offset is present: only those a runtime error can be attributed
	// to (call sites and divisions).
	SourceMap map[int]Position
}

// Position is the subset of token.Position the container needs to persist;
// kept separate from token.Position so the bytecode package doesn't need to
// import the full token machinery just to round-trip a chunk.
type Position struct {
	Line   int
	Column int
}
