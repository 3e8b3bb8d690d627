package bytecode_test

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/slang/lang/bytecode"
	"github.com/mna/slang/lang/compiler"
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/parser"
	"github.com/mna/slang/lang/resolver"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
	"github.com/mna/slang/lang/value"
)

func compile(t *testing.T, src string) *compiler.Chunk {
	t.Helper()
	file := token.NewFile("test.slang", []byte(src))
	errs := &diag.Bag{}
	prog := parser.Parse(file, errs)
	require.NotNil(t, prog)
	require.False(t, errs.HasErrors(), "parse errors: %v", errs.Errors())
	reg := types.NewRegistry()
	resolver.Analyze(prog, reg, errs)
	require.False(t, errs.HasErrors(), "analyzer errors: %v", errs.Errors())
	chunk := compiler.Compile(prog, reg, errs)
	require.False(t, errs.HasErrors(), "compile errors: %v", errs.Errors())
	require.NotNil(t, chunk)
	return chunk
}

func TestRoundTripPreservesChunk(t *testing.T) {
	chunk := compile(t, `
		fn add(a: i32, b: i32) -> i32 { a + b }
		let x: i32 = add(3, 4);
		print_value(x);
		print_value("hi");
		print_value(3.5);
		let mut u: u32 = 9;
		print_value(u);
	`)

	data := bytecode.Serialize(chunk)
	got, err := bytecode.Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, chunk.Code, got.Code)
	assert.Equal(t, chunk.Identifiers, got.Identifiers)
	assert.Equal(t, chunk.Functions, got.Functions)
	assert.Equal(t, chunk.SourceMap, got.SourceMap)
	require.Len(t, got.Constants, len(chunk.Constants))
	for i, want := range chunk.Constants {
		if fn, ok := want.(value.NativeFunction); ok {
			gotFn, ok := got.Constants[i].(value.NativeFunction)
			require.True(t, ok)
			assert.Equal(t, fn.Name, gotFn.Name)
			continue
		}
		assert.Equal(t, want, got.Constants[i])
	}
}

func TestRoundTripRebindsNativeFunctionConstant(t *testing.T) {
	chunk := compile(t, `
		let f = print_value;
	`)

	var want value.NativeFunction
	var found bool
	for _, c := range chunk.Constants {
		if fn, ok := c.(value.NativeFunction); ok {
			want = fn
			found = true
		}
	}
	require.True(t, found, "expected a NativeFunction constant in the compiled chunk")
	require.NotNil(t, want.Fn)

	data := bytecode.Serialize(chunk)
	got, err := bytecode.Deserialize(data)
	require.NoError(t, err)

	var gotFn value.NativeFunction
	found = false
	for _, c := range got.Constants {
		if fn, ok := c.(value.NativeFunction); ok {
			gotFn = fn
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, want.Name, gotFn.Name)
	require.NotNil(t, gotFn.Fn, "Fn must be rebound from compiler.Builtins on load")

	result, err := gotFn.Fn([]value.Value{value.Int(7)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), result)
}

func TestDeserializeRejectsTooShortData(t *testing.T) {
	_, err := bytecode.Deserialize([]byte("ab"))
	require.Error(t, err)
	assert.IsType(t, &bytecode.ErrCorrupt{}, err)
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	chunk := compile(t, `print_value(1);`)
	data := bytecode.Serialize(chunk)
	data[0] = 'X'
	_, err := bytecode.Deserialize(data)
	require.Error(t, err)
	assert.IsType(t, &bytecode.ErrCorrupt{}, err)
}

func TestDeserializeRejectsTamperedChecksum(t *testing.T) {
	chunk := compile(t, `print_value(1);`)
	data := bytecode.Serialize(chunk)
	data[len(data)-1] ^= 0xFF
	_, err := bytecode.Deserialize(data)
	require.Error(t, err)
	assert.IsType(t, &bytecode.ErrCorrupt{}, err)
}

func TestDeserializeRejectsUnsupportedVersion(t *testing.T) {
	chunk := compile(t, `print_value(1);`)
	data := bytecode.Serialize(chunk)
	// version is the 4 bytes right after the 4-byte magic; bump it so the
	// checksum (computed after this byte is flipped) still matches but the
	// version check fails first regardless, since it runs before length
	// interpretation of the rest of the body would even make sense here we
	// must recompute the trailing checksum to isolate the version check.
	data[4] ^= 0xFF
	recomputed := recomputeChecksum(t, data)
	_, err := bytecode.Deserialize(recomputed)
	require.Error(t, err)
	assert.IsType(t, &bytecode.ErrCorrupt{}, err)
}

func recomputeChecksum(t *testing.T, data []byte) []byte {
	t.Helper()
	// re-derive a container with a valid checksum over the tampered body so
	// the version check (not the checksum check) is what fails.
	body := append([]byte{}, data[:len(data)-4]...)
	sum := crc32.ChecksumIEEE(body)
	var sumBytes [4]byte
	binary.LittleEndian.PutUint32(sumBytes[:], sum)
	return append(body, sumBytes[:]...)
}
