// Package value defines the runtime representation of every value the
// bytecode compiler may embed as a constant and the virtual machine may push
// on its operand stack: the tagged variants of the data model's Value, one
// Go type per kind, matching the way the type registry splits its own
// primitive kinds across per-kind files.
package value

// Value is the interface implemented by every runtime value.
type Value interface {
	// String renders the value the way print_value formats it.
	String() string

	// Type returns the short name of the value's kind, used in runtime error
	// messages (e.g. "cannot add string and int").
	Type() string
}

// Int is a signed integer value (i32 or i64; the VM does not distinguish
// the two widths at runtime since the analyzer already validated range).
type Int int64

func (v Int) Type() string { return "int" }

// UInt is an unsigned integer value (u32 or u64).
type UInt uint64

func (v UInt) Type() string { return "uint" }

// Bool is a boolean value.
type Bool bool

func (v Bool) Type() string { return "bool" }

// String is a string value.
type String string

func (v String) Type() string { return "string" }

// Unit is the single value of the unit type, printed as "()".
type Unit struct{}

func (Unit) String() string { return "()" }
func (Unit) Type() string   { return "unit" }
