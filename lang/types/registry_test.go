package types_test

import (
	"testing"

	"github.com/mna/slang/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivesPreallocated(t *testing.T) {
	r := types.NewRegistry()
	for _, id := range []types.ID{
		types.Unknown, types.Unit, types.Bool, types.String,
		types.I32, types.I64, types.U32, types.U64, types.F32, types.F64,
		types.UnspecifiedInt, types.UnspecifiedFloat,
	} {
		info := r.Lookup(id)
		require.NotNil(t, info)
		assert.Equal(t, id, info.ID)
	}
}

func TestFunctionTypeInterning(t *testing.T) {
	r := types.NewRegistry()
	a := r.InternFunction([]types.ID{types.I32, types.String}, types.Bool)
	b := r.InternFunction([]types.ID{types.I32, types.String}, types.Bool)
	assert.Equal(t, a, b)

	c := r.InternFunction([]types.ID{types.I32}, types.Bool)
	assert.NotEqual(t, a, c)
}

func TestStructDeclaration(t *testing.T) {
	r := types.NewRegistry()
	id := r.DeclareStruct("Point", []types.Field{{Name: "x", Type: types.I32}, {Name: "y", Type: types.I32}})
	got, ok := r.StructByName("Point")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestSameFunctionShapeIgnoresUnknownWildcard(t *testing.T) {
	r := types.NewRegistry()
	unknownParam := r.InternFunction([]types.ID{types.Unknown}, types.I32)
	stringParam := r.InternFunction([]types.ID{types.String}, types.I32)
	assert.False(t, r.SameFunctionShape(unknownParam, stringParam))
}

func TestPrimitiveByName(t *testing.T) {
	id, ok := types.PrimitiveByName("i32")
	require.True(t, ok)
	assert.Equal(t, types.I32, id)

	_, ok = types.PrimitiveByName("unspecified_int")
	assert.False(t, ok)
}
