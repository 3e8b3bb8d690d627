package resolver

import (
	"math"

	"github.com/mna/slang/lang/ast"
	"github.com/mna/slang/lang/token"
	"github.com/mna/slang/lang/types"
)

// constIntValue recognizes the narrow set of expression shapes whose
// integer value is known at analysis time: a bare integer literal, or a
// unary negation of one. This is enough to catch the spec's canonical
// example (`let a: u32 = -1;`) without a general constant-folding pass.
func constIntValue(e ast.Expr) (int64, bool) {
	switch n := e.(type) {
	case *ast.Literal:
		if n.Kind == ast.LitInt {
			return n.IntVal, true
		}
	case *ast.Unary:
		if n.Op == token.MINUS {
			if v, ok := constIntValue(n.Operand); ok {
				return -v, true
			}
		}
	}
	return 0, false
}

// intFitsType reports whether v (reinterpreted according to target's
// signedness) fits within target's bit width.
func intFitsType(v int64, target types.ID) bool {
	switch target {
	case types.I32:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case types.I64:
		return true
	case types.U32:
		u := uint64(v)
		return u <= math.MaxUint32
	case types.U64:
		return true
	default:
		return true
	}
}

// floatFitsType reports whether v fits target's float width without
// overflowing to infinity.
func floatFitsType(v float64, target types.ID) bool {
	switch target {
	case types.F32:
		if math.IsInf(v, 0) {
			return true
		}
		return !math.IsInf(float64(float32(v)), 0)
	case types.F64:
		return true
	default:
		return true
	}
}

// isIntegerType and isFloatType classify the concrete (non-unspecified)
// numeric primitive types.
func isIntegerType(id types.ID) bool {
	switch id {
	case types.I32, types.I64, types.U32, types.U64:
		return true
	default:
		return false
	}
}

func isFloatType(id types.ID) bool {
	switch id {
	case types.F32, types.F64:
		return true
	default:
		return false
	}
}
