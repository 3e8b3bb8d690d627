package types

import (
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
)

// Registry owns every type known during one compilation: the fixed
// primitive set plus composite (function and struct) types allocated and
// interned on demand. A Registry is not safe for concurrent use; each
// compilation owns its own instance, matching the single-threaded resource
// model of the rest of the pipeline.
type Registry struct {
	infos map[ID]*Info
	next  ID

	// funcsByShape interns function types by their canonical shape string
	// (ordered parameter ids + return id) so that two requests for the same
	// signature return the same ID. A swiss.Map is used here instead of the
	// builtin map for the same reason the teacher reaches for it on its own
	// hot interning paths: open addressing avoids the builtin map's
	// per-bucket overhead on a table that is probed on every function
	// declaration and every function-typed expression.
	funcsByShape *swiss.Map[string, ID]

	structsByName map[string]ID
}

// NewRegistry creates a Registry with every primitive type pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		infos:         make(map[ID]*Info, 32),
		next:          firstUserID,
		funcsByShape:  swiss.NewMap[string, ID](uint32(8)),
		structsByName: make(map[string]ID),
	}
	r.registerPrimitives()
	return r
}

func (r *Registry) registerPrimitives() {
	prims := []*Info{
		{ID: Unknown, Name: "unknown", Kind: KindUnknown},
		{ID: Unit, Name: "unit", Kind: KindUnit},
		{ID: Bool, Name: "bool", Kind: KindBool},
		{ID: String, Name: "string", Kind: KindString},
		{ID: I32, Name: "i32", Kind: KindInteger, Signed: true, Bits: 32},
		{ID: I64, Name: "i64", Kind: KindInteger, Signed: true, Bits: 64},
		{ID: U32, Name: "u32", Kind: KindInteger, Signed: false, Bits: 32},
		{ID: U64, Name: "u64", Kind: KindInteger, Signed: false, Bits: 64},
		{ID: F32, Name: "f32", Kind: KindFloat, Bits: 32},
		{ID: F64, Name: "f64", Kind: KindFloat, Bits: 64},
		{ID: UnspecifiedInt, Name: "unspecified_int", Kind: KindInteger, Signed: true, Unspecified: true},
		{ID: UnspecifiedFloat, Name: "unspecified_float", Kind: KindFloat, Unspecified: true},
	}
	for _, info := range prims {
		r.infos[info.ID] = info
	}
}

// Lookup returns the Info for id, or nil if id is not registered.
func (r *Registry) Lookup(id ID) *Info { return r.infos[id] }

// Name returns the declared name of id, or "<unregistered>" if unknown.
func (r *Registry) Name(id ID) string {
	if info := r.infos[id]; info != nil {
		return info.Name
	}
	return "<unregistered>"
}

// PrimitiveByName resolves a primitive type name (as it would appear in a
// type annotation) to its ID. Unspecified int/float are intentionally not
// resolvable here: they are never valid as a written type annotation (see
// diag.InvalidType), only as literal-inferred types.
func PrimitiveByName(name string) (ID, bool) {
	switch name {
	case "unit":
		return Unit, true
	case "bool":
		return Bool, true
	case "string":
		return String, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	}
	return Unknown, false
}

// FunctionShape returns the canonical interning key for a function type
// shape, exported so callers that only need the key (e.g. assignability
// checks) don't need to allocate an Info.
func FunctionShape(params []ID, ret ID) string {
	var b strings.Builder
	b.WriteString("fn(")
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(p)))
	}
	b.WriteString(")->")
	b.WriteString(strconv.Itoa(int(ret)))
	return b.String()
}

// InternFunction returns the ID for the function type fn(params...) -> ret,
// allocating and registering it the first time this exact shape is
// requested.
func (r *Registry) InternFunction(params []ID, ret ID) ID {
	shape := FunctionShape(params, ret)
	if id, ok := r.funcsByShape.Get(shape); ok {
		return id
	}

	id := r.next
	r.next++

	paramsCopy := append([]ID(nil), params...)
	names := make([]string, len(paramsCopy))
	for i, p := range paramsCopy {
		names[i] = r.Name(p)
	}
	displayName := "fn(" + strings.Join(names, ",") + ") -> " + r.Name(ret)

	r.infos[id] = &Info{ID: id, Name: displayName, Kind: KindFunction, Params: paramsCopy, Return: ret}
	r.funcsByShape.Put(shape, id)
	return id
}

// DeclareStruct allocates and registers a new struct type named name with
// the given fields. It does not check for redefinition; the resolver is
// responsible for rejecting a duplicate name before calling this.
func (r *Registry) DeclareStruct(name string, fields []Field) ID {
	id := r.next
	r.next++
	r.infos[id] = &Info{ID: id, Name: name, Kind: KindStruct, Fields: fields}
	r.structsByName[name] = id
	return id
}

// StructByName resolves a previously declared struct type by name.
func (r *Registry) StructByName(name string) (ID, bool) {
	id, ok := r.structsByName[name]
	return id, ok
}

// SameFunctionShape reports whether two function types have identical
// parameter and return types, used for assignment-compatibility of function
// values (which does not treat Unknown as a wildcard, unlike call-site
// argument matching).
func (r *Registry) SameFunctionShape(a, b ID) bool {
	ia, ib := r.Lookup(a), r.Lookup(b)
	if ia == nil || ib == nil || ia.Kind != KindFunction || ib.Kind != KindFunction {
		return false
	}
	if ia.Return != ib.Return || len(ia.Params) != len(ib.Params) {
		return false
	}
	for i := range ia.Params {
		if ia.Params[i] != ib.Params[i] {
			return false
		}
	}
	return true
}
