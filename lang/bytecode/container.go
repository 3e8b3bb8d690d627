// Package bytecode implements the sealed on-disk form of a compiled Chunk:
// a small magic/version header, the chunk's sections, and a trailing
// checksum. Deserializing a container produced by Serialize always yields a
// Chunk equal to the one that was serialized.
//
// A hand-rolled binary layout (encoding/binary plus hash/crc32, both
// standard library) was used here rather than encoding/gob, which
// mcgru-funxy's lang/vm/chunk.go in the example pack shows being used for
// exactly this purpose (a compiled chunk, gob-registered value kinds). Gob
// was tried first; it does not fit this chunk, specifically because
// value.NativeFunction carries a Go func field (Fn), which gob cannot
// encode at all, and the container's round-trip invariant requires
// dropping that one field while keeping every other constant kind
// byte-for-byte faithful. A hand-written per-field encoder makes that one
// exception explicit (see writeValue and reader.value) instead of fighting
// gob's reflection around it, and the spec's own "magic, version, checksum"
// language describes a header shape gob doesn't produce on its own anyway.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/value"
)

const (
	magic         = "SLB1"
	formatVersion = uint32(1)
)

// ErrCorrupt is returned by Deserialize when data fails its magic, version,
// or checksum validation, or is truncated mid-section. The CLI maps this to
// the Dataerr exit code.
type ErrCorrupt struct{ Reason string }

func (e *ErrCorrupt) Error() string { return "corrupt bytecode container: " + e.Reason }

func corrupt(format string, args ...interface{}) error {
	return &ErrCorrupt{Reason: fmt.Sprintf(format, args...)}
}

// Serialize encodes chunk into its sealed on-disk form.
func Serialize(chunk *compiler.Chunk) []byte {
	var body bytes.Buffer
	writeBytes(&body, chunk.Code)
	writeValues(&body, chunk.Constants)
	writeStrings(&body, chunk.Identifiers)
	writeFunctions(&body, chunk.Functions)
	writeSourceMap(&body, chunk.SourceMap)

	var out bytes.Buffer
	out.WriteString(magic)
	writeUint32(&out, formatVersion)
	out.Write(body.Bytes())

	sum := crc32.ChecksumIEEE(out.Bytes())
	writeUint32(&out, sum)
	return out.Bytes()
}

// Deserialize decodes a container produced by Serialize back into a Chunk.
// Any validation failure is returned as an *ErrCorrupt.
func Deserialize(data []byte) (*compiler.Chunk, error) {
	if len(data) < len(magic)+4+4 {
		return nil, corrupt("too short (%d bytes)", len(data))
	}
	if string(data[:len(magic)]) != magic {
		return nil, corrupt("bad magic header")
	}

	checksummed := data[:len(data)-4]
	wantSum := binary.LittleEndian.Uint32(data[len(data)-4:])
	gotSum := crc32.ChecksumIEEE(checksummed)
	if wantSum != gotSum {
		return nil, corrupt("checksum mismatch")
	}

	r := &reader{buf: data[len(magic):]}
	ver, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if ver != formatVersion {
		return nil, corrupt("unsupported format version %d", ver)
	}

	chunk := &compiler.Chunk{}
	if chunk.Code, err = r.bytes(); err != nil {
		return nil, err
	}
	if chunk.Constants, err = r.values(); err != nil {
		return nil, err
	}
	if chunk.Identifiers, err = r.strings(); err != nil {
		return nil, err
	}
	if chunk.Functions, err = r.functions(); err != nil {
		return nil, err
	}
	if chunk.SourceMap, err = r.sourceMap(); err != nil {
		return nil, err
	}
	return chunk, nil
}

// --- encoding ---

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int) { writeUint32(buf, uint32(int32(v))) }

func writeString(buf *bytes.Buffer, s string) {
	writeInt32(buf, len(s))
	buf.WriteString(s)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeInt32(buf, len(b))
	buf.Write(b)
}

func writeStrings(buf *bytes.Buffer, ss []string) {
	writeInt32(buf, len(ss))
	for _, s := range ss {
		writeString(buf, s)
	}
}

// value kind tags, stable across versions since they're part of the
// on-disk format.
const (
	tagInt = iota
	tagUInt
	tagFloat
	tagBool
	tagString
	tagUnit
	tagFunction
	tagNativeFunction
)

func writeValues(buf *bytes.Buffer, vs []value.Value) {
	writeInt32(buf, len(vs))
	for _, v := range vs {
		writeValue(buf, v)
	}
}

// writeValue encodes one constant. NativeFunction is the one kind where the
// in-memory value (Name plus a Go closure) and the on-disk value (Name
// alone) differ: Fn is never written, and is rebound from
// compiler.Builtins by name when the container is loaded.
func writeValue(buf *bytes.Buffer, v value.Value) {
	switch n := v.(type) {
	case value.Int:
		buf.WriteByte(tagInt)
		writeUint32(buf, uint32(n>>32))
		writeUint32(buf, uint32(n))
	case value.UInt:
		buf.WriteByte(tagUInt)
		writeUint32(buf, uint32(n>>32))
		writeUint32(buf, uint32(n))
	case value.Float:
		buf.WriteByte(tagFloat)
		bits := math.Float64bits(float64(n))
		writeUint32(buf, uint32(bits>>32))
		writeUint32(buf, uint32(bits))
	case value.Bool:
		buf.WriteByte(tagBool)
		if n {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case value.String:
		buf.WriteByte(tagString)
		writeString(buf, string(n))
	case value.Unit:
		buf.WriteByte(tagUnit)
	case value.Function:
		buf.WriteByte(tagFunction)
		writeInt32(buf, n.Index)
		writeString(buf, n.Name)
	case value.NativeFunction:
		buf.WriteByte(tagNativeFunction)
		writeString(buf, n.Name)
	default:
		panic(fmt.Sprintf("bytecode: unencodable constant kind %T", v))
	}
}

func writeFunctions(buf *bytes.Buffer, fns []compiler.FunctionEntry) {
	writeInt32(buf, len(fns))
	for _, fn := range fns {
		writeString(buf, fn.Name)
		writeInt32(buf, fn.CodeOffset)
		writeInt32(buf, fn.Arity)
		writeInt32(buf, fn.LocalCount)
		writeStrings(buf, fn.ParamNames)
		writeString(buf, fn.ReturnTypeName)
	}
}

func writeSourceMap(buf *bytes.Buffer, sm map[int]compiler.Position) {
	writeInt32(buf, len(sm))
	for offset, pos := range sm {
		writeInt32(buf, offset)
		writeInt32(buf, pos.Line)
		writeInt32(buf, pos.Column)
	}
}
