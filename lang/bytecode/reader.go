package bytecode

import (
	"encoding/binary"
	"math"

	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/value"
)

// reader sequentially decodes the sections Serialize wrote, failing with
// ErrCorrupt on any truncation rather than panicking — a hand-crafted
// format has no self-describing type information to fall back on, so a
// short read is the only signal of a malformed file.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) need(n int) error {
	if len(r.buf)-r.pos < n {
		return corrupt("unexpected end of data (wanted %d bytes, have %d)", n, len(r.buf)-r.pos)
	}
	return nil
}

func (r *reader) uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) int32() (int, error) {
	v, err := r.uint32()
	return int(int32(v)), err
}

func (r *reader) string() (string, error) {
	n, err := r.int32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", corrupt("negative string length %d", n)
	}
	if err := r.need(n); err != nil {
		return "", err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt("negative byte-slice length %d", n)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.buf[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

func (r *reader) strings() ([]string, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt("negative string-list length %d", n)
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.string(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *reader) values() ([]value.Value, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt("negative constant-pool length %d", n)
	}
	out := make([]value.Value, n)
	for i := range out {
		if out[i], err = r.value(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *reader) value() (value.Value, error) {
	if err := r.need(1); err != nil {
		return nil, err
	}
	tag := r.buf[r.pos]
	r.pos++

	switch tag {
	case tagInt:
		hi, err := r.uint32()
		if err != nil {
			return nil, err
		}
		lo, err := r.uint32()
		if err != nil {
			return nil, err
		}
		return value.Int(int64(hi)<<32 | int64(lo)), nil
	case tagUInt:
		hi, err := r.uint32()
		if err != nil {
			return nil, err
		}
		lo, err := r.uint32()
		if err != nil {
			return nil, err
		}
		return value.UInt(uint64(hi)<<32 | uint64(lo)), nil
	case tagFloat:
		hi, err := r.uint32()
		if err != nil {
			return nil, err
		}
		lo, err := r.uint32()
		if err != nil {
			return nil, err
		}
		bits := uint64(hi)<<32 | uint64(lo)
		return value.Float(math.Float64frombits(bits)), nil
	case tagBool:
		if err := r.need(1); err != nil {
			return nil, err
		}
		b := r.buf[r.pos] != 0
		r.pos++
		return value.Bool(b), nil
	case tagString:
		s, err := r.string()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case tagUnit:
		return value.Unit{}, nil
	case tagFunction:
		idx, err := r.int32()
		if err != nil {
			return nil, err
		}
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		return value.Function{Index: idx, Name: name}, nil
	case tagNativeFunction:
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		fn, ok := compiler.Builtins[name]
		if !ok {
			return nil, corrupt("unknown native function %q", name)
		}
		return value.NativeFunction{Name: name, Fn: fn}, nil
	default:
		return nil, corrupt("unknown constant tag %d", tag)
	}
}

func (r *reader) functions() ([]compiler.FunctionEntry, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt("negative function-table length %d", n)
	}
	out := make([]compiler.FunctionEntry, n)
	for i := range out {
		if out[i].Name, err = r.string(); err != nil {
			return nil, err
		}
		if out[i].CodeOffset, err = r.int32(); err != nil {
			return nil, err
		}
		if out[i].Arity, err = r.int32(); err != nil {
			return nil, err
		}
		if out[i].LocalCount, err = r.int32(); err != nil {
			return nil, err
		}
		if out[i].ParamNames, err = r.strings(); err != nil {
			return nil, err
		}
		if out[i].ReturnTypeName, err = r.string(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *reader) sourceMap() (map[int]compiler.Position, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, corrupt("negative source-map length %d", n)
	}
	out := make(map[int]compiler.Position, n)
	for i := 0; i < n; i++ {
		offset, err := r.int32()
		if err != nil {
			return nil, err
		}
		line, err := r.int32()
		if err != nil {
			return nil, err
		}
		col, err := r.int32()
		if err != nil {
			return nil, err
		}
		out[offset] = compiler.Position{Line: line, Column: col}
	}
	return out, nil
}
