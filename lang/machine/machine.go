// Package machine implements the stack-based virtual machine that executes
// a compiled Chunk: a single dispatch loop over a flat opcode array, an
// operand stack, and a stack of call frames.
package machine

import (
	"fmt"

	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/value"
)

// RuntimeError is a failure detected while executing a Chunk: division by
// zero, an operand of the wrong kind for an operator or condition, an
// undefined variable, a call to a non-callable value or with the wrong
// number of arguments, or an invalid opcode. Stack underflow is not
// detected: popping an empty operand stack panics.
type RuntimeError struct {
	Msg string
	Pos compiler.Position
}

func (e *RuntimeError) Error() string { return "Runtime error: " + e.Msg }

func runtimeErrorf(pos compiler.Position, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Run executes chunk's top-level script (and, transitively, every function
// it calls) and returns the value the top-level script's RETURN produces
// (Unit, since top-level statements leave the operand stack empty), or an
// error if execution fails.
func Run(th *Thread, chunk *compiler.Chunk) (value.Value, error) {
	th.init()
	vm := &vm{th: th, chunk: chunk, globals: make(map[string]value.Value)}
	return vm.exec(&frame{locals: vm.globals, codeEnd: len(chunk.Code)})
}

// vm carries the state shared by every frame executing within one Run call:
// the chunk being interpreted and the top-level scope's variables, which
// double as the "global" bindings a nested function falls back to for a
// name it doesn't bind itself (Slang has no closures, so this is the only
// form of non-local variable access a function body can observe).
type vm struct {
	th      *Thread
	chunk   *compiler.Chunk
	globals map[string]value.Value
}

// frame is one activation record: its own name-keyed locals (pre-populated
// with parameter bindings at call time) and an operand stack private to
// this call, since frames can be executing concurrently on the Go call
// stack (the dispatch loop below recurses into exec for CALL).
type frame struct {
	pc      int
	codeEnd int
	locals  map[string]value.Value
	stack   []value.Value
}

func (f *frame) push(v value.Value) { f.stack = append(f.stack, v) }

func (f *frame) pop() value.Value {
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

func (vm *vm) posAt(pc int) compiler.Position { return vm.chunk.SourceMap[pc] }

// exec runs f from its current pc to a RETURN within its own code region
// (f.codeEnd marks the start of whatever follows, so a runaway frame can
// never fall through into another function's code) and returns the value
// RETURN produced.
func (vm *vm) exec(f *frame) (value.Value, error) {
	code := vm.chunk.Code
	for f.pc < f.codeEnd {
		start := f.pc
		op := compiler.Opcode(code[f.pc])
		f.pc++

		switch op {
		case compiler.NOP:

		case compiler.POP:
			f.pop()

		case compiler.CONST:
			idx := int(code[f.pc])
			f.pc++
			f.push(vm.chunk.Constants[idx])

		case compiler.LOADVAR:
			idx := int(code[f.pc])
			f.pc++
			name := vm.chunk.Identifiers[idx]
			v, ok := f.locals[name]
			if !ok {
				v, ok = vm.globals[name]
			}
			if !ok {
				return nil, runtimeErrorf(vm.posAt(start), "undefined variable: %s", name)
			}
			f.push(v)

		case compiler.STOREVAR:
			idx := int(code[f.pc])
			f.pc++
			name := vm.chunk.Identifiers[idx]
			f.locals[name] = f.stack[len(f.stack)-1]

		case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV:
			if err := vm.arith(f, op, start); err != nil {
				return nil, err
			}

		case compiler.NEG:
			if err := vm.neg(f, start); err != nil {
				return nil, err
			}

		case compiler.NOT:
			b, ok := f.pop().(value.Bool)
			if !ok {
				return nil, runtimeErrorf(vm.posAt(start), "cannot negate a non-bool value")
			}
			f.push(!b)

		case compiler.EQ, compiler.NE, compiler.LT, compiler.LE, compiler.GT, compiler.GE:
			if err := vm.compare(f, op, start); err != nil {
				return nil, err
			}

		case compiler.AND:
			r, rok := f.pop().(value.Bool)
			l, lok := f.pop().(value.Bool)
			if !lok || !rok {
				return nil, runtimeErrorf(vm.posAt(start), "'&&' requires bool operands")
			}
			f.push(l && r)

		case compiler.OR:
			r, rok := f.pop().(value.Bool)
			l, lok := f.pop().(value.Bool)
			if !lok || !rok {
				return nil, runtimeErrorf(vm.posAt(start), "'||' requires bool operands")
			}
			f.push(l || r)

		case compiler.JUMP:
			off := decodeOffset(code, f.pc)
			f.pc += 2 + off

		case compiler.JUMPIFFALSE:
			off := decodeOffset(code, f.pc)
			f.pc += 2
			cond, ok := f.pop().(value.Bool)
			if !ok {
				return nil, runtimeErrorf(vm.posAt(start), "if condition must be bool")
			}
			if !bool(cond) {
				f.pc += off
			}

		case compiler.CALL:
			argc := int(code[f.pc])
			f.pc++
			result, err := vm.call(f, argc, start)
			if err != nil {
				return nil, err
			}
			f.push(result)

		case compiler.PRINT:
			v := f.pop()
			fmt.Fprintln(vm.th.out(), v.String())
			f.push(value.Int(0))

		case compiler.RETURN:
			if len(f.stack) == 0 {
				return value.Unit{}, nil
			}
			return f.pop(), nil

		default:
			return nil, runtimeErrorf(vm.posAt(start), "illegal opcode %d", op)
		}
	}
	return value.Unit{}, nil
}

func decodeOffset(code []byte, at int) int {
	u := uint16(code[at]) | uint16(code[at+1])<<8
	return int(int16(u))
}

// call pops argc arguments (and the callee, below them) off f's stack and
// invokes it: a Function value recurses into exec over a fresh frame seeded
// with its parameter bindings, a NativeFunction value calls straight
// through to its Go implementation.
func (vm *vm) call(f *frame, argc int, pos int) (value.Value, error) {
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	callee := f.pop()

	switch fn := callee.(type) {
	case value.Function:
		entry := vm.chunk.Functions[fn.Index]
		if len(args) != entry.Arity {
			return nil, runtimeErrorf(vm.posAt(pos), "%s expects %d argument(s), got %d", entry.Name, entry.Arity, len(args))
		}
		locals := make(map[string]value.Value, len(entry.ParamNames))
		for i, name := range entry.ParamNames {
			locals[name] = args[i]
		}
		codeEnd := len(vm.chunk.Code)
		for _, other := range vm.chunk.Functions {
			if other.CodeOffset > entry.CodeOffset && other.CodeOffset < codeEnd {
				codeEnd = other.CodeOffset
			}
		}
		child := &frame{pc: entry.CodeOffset, codeEnd: codeEnd, locals: locals}
		return vm.exec(child)
	case value.NativeFunction:
		return fn.Fn(args)
	default:
		return nil, runtimeErrorf(vm.posAt(pos), "value of type %s is not callable", callee.Type())
	}
}

func (vm *vm) neg(f *frame, pos int) error {
	switch v := f.pop().(type) {
	case value.Int:
		f.push(-v)
	case value.Float:
		f.push(-v)
	default:
		return runtimeErrorf(vm.posAt(pos), "cannot negate a value of type %s", v.Type())
	}
	return nil
}

func (vm *vm) arith(f *frame, op compiler.Opcode, pos int) error {
	b := f.pop()
	a := f.pop()

	if op == compiler.ADD {
		if as, ok := a.(value.String); ok {
			bs, ok := b.(value.String)
			if !ok {
				return runtimeErrorf(vm.posAt(pos), "cannot add %s and %s", a.Type(), b.Type())
			}
			f.push(as + bs)
			return nil
		}
	}

	switch av := a.(type) {
	case value.Int:
		bv, ok := b.(value.Int)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot %s %s and %s", op, a.Type(), b.Type())
		}
		r, err := intArith(op, av, bv, vm, pos)
		if err != nil {
			return err
		}
		f.push(r)
	case value.UInt:
		bv, ok := b.(value.UInt)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot %s %s and %s", op, a.Type(), b.Type())
		}
		r, err := uintArith(op, av, bv, vm, pos)
		if err != nil {
			return err
		}
		f.push(r)
	case value.Float:
		bv, ok := b.(value.Float)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot %s %s and %s", op, a.Type(), b.Type())
		}
		f.push(floatArith(op, av, bv))
	default:
		return runtimeErrorf(vm.posAt(pos), "cannot %s %s and %s", op, a.Type(), b.Type())
	}
	return nil
}

func intArith(op compiler.Opcode, a, b value.Int, vm *vm, pos int) (value.Int, error) {
	switch op {
	case compiler.ADD:
		return a + b, nil
	case compiler.SUB:
		return a - b, nil
	case compiler.MUL:
		return a * b, nil
	case compiler.DIV:
		if b == 0 {
			return 0, runtimeErrorf(vm.posAt(pos), "Division by zero")
		}
		return a / b, nil
	}
	panic("unreachable")
}

func uintArith(op compiler.Opcode, a, b value.UInt, vm *vm, pos int) (value.UInt, error) {
	switch op {
	case compiler.ADD:
		return a + b, nil
	case compiler.SUB:
		return a - b, nil
	case compiler.MUL:
		return a * b, nil
	case compiler.DIV:
		if b == 0 {
			return 0, runtimeErrorf(vm.posAt(pos), "Division by zero")
		}
		return a / b, nil
	}
	panic("unreachable")
}

func floatArith(op compiler.Opcode, a, b value.Float) value.Float {
	switch op {
	case compiler.ADD:
		return a + b
	case compiler.SUB:
		return a - b
	case compiler.MUL:
		return a * b
	case compiler.DIV:
		return a / b
	}
	panic("unreachable")
}

func (vm *vm) compare(f *frame, op compiler.Opcode, pos int) error {
	b := f.pop()
	a := f.pop()

	if op == compiler.EQ || op == compiler.NE {
		eq := valuesEqual(a, b)
		if op == compiler.NE {
			eq = !eq
		}
		f.push(value.Bool(eq))
		return nil
	}

	switch av := a.(type) {
	case value.Int:
		bv, ok := b.(value.Int)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot compare %s and %s", a.Type(), b.Type())
		}
		f.push(intCompare(op, av, bv))
	case value.UInt:
		bv, ok := b.(value.UInt)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot compare %s and %s", a.Type(), b.Type())
		}
		f.push(uintCompare(op, av, bv))
	case value.Float:
		bv, ok := b.(value.Float)
		if !ok {
			return runtimeErrorf(vm.posAt(pos), "cannot compare %s and %s", a.Type(), b.Type())
		}
		f.push(floatCompare(op, av, bv))
	default:
		return runtimeErrorf(vm.posAt(pos), "cannot compare %s and %s", a.Type(), b.Type())
	}
	return nil
}

func intCompare(op compiler.Opcode, a, b value.Int) value.Bool {
	switch op {
	case compiler.LT:
		return a < b
	case compiler.LE:
		return a <= b
	case compiler.GT:
		return a > b
	default:
		return a >= b
	}
}

func uintCompare(op compiler.Opcode, a, b value.UInt) value.Bool {
	switch op {
	case compiler.LT:
		return a < b
	case compiler.LE:
		return a <= b
	case compiler.GT:
		return a > b
	default:
		return a >= b
	}
}

func floatCompare(op compiler.Opcode, a, b value.Float) value.Bool {
	switch op {
	case compiler.LT:
		return a < b
	case compiler.LE:
		return a <= b
	case compiler.GT:
		return a > b
	default:
		return a >= b
	}
}

// valuesEqual implements "==": same type, same value; two Function values
// are equal iff they denote the same callee.
func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Int:
		bv, ok := b.(value.Int)
		return ok && av == bv
	case value.UInt:
		bv, ok := b.(value.UInt)
		return ok && av == bv
	case value.Float:
		bv, ok := b.(value.Float)
		return ok && av == bv
	case value.Bool:
		bv, ok := b.(value.Bool)
		return ok && av == bv
	case value.String:
		bv, ok := b.(value.String)
		return ok && av == bv
	case value.Unit:
		_, ok := b.(value.Unit)
		return ok
	case value.Function:
		bv, ok := b.(value.Function)
		return ok && av.Index == bv.Index
	default:
		return false
	}
}
