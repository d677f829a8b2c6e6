package schema

import (
	"github.com/BaSui01/typebridge/types"
)

// TypeExpr is a closed recursive description of a declared or primitive
// type. ClassRef and EnumRef are name-only weak references: this package
// never dereferences them, which is what lets self- and forward-referential
// declarations avoid cyclic object graphs.
type TypeExpr interface {
	typeExpr()
}

// PrimitiveKind enumerates the scalar primitive types.
type PrimitiveKind string

const (
	PrimitiveString PrimitiveKind = "string"
	PrimitiveInt    PrimitiveKind = "int"
	PrimitiveFloat  PrimitiveKind = "float"
	PrimitiveBool   PrimitiveKind = "bool"
)

// Primitive is a scalar primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

// LiteralKind enumerates the carrier kinds a literal type can hold.
type LiteralKind string

const (
	LiteralString LiteralKind = "string"
	LiteralInt    LiteralKind = "int"
	LiteralBool   LiteralKind = "bool"
)

// Literal is a single-value type: exactly one string, integer or boolean.
type Literal struct {
	Kind LiteralKind
	Str  string
	Int  int64
	Bool bool
}

// List is a homogeneous sequence type.
type List struct {
	Elem TypeExpr
}

// MapType is a key/value mapping type with explicit key and value types.
type MapType struct {
	Key   TypeExpr
	Value TypeExpr
}

// ClassRef names a class without resolving it.
type ClassRef struct {
	Name string
}

// EnumRef names an enum without resolving it.
type EnumRef struct {
	Name string
}

// Union is an ordered list of alternative types. A union of bare literals is
// a closed literal enumeration, distinct from a registry-level enum.
type Union struct {
	Alternatives []TypeExpr
}

// Optional wraps a type that may also be null.
type Optional struct {
	Inner TypeExpr
}

// Tuple is an ordered, fixed-arity sequence of types.
type Tuple struct {
	Elems []TypeExpr
}

func (Primitive) typeExpr() {}
func (Literal) typeExpr()   {}
func (List) typeExpr()      {}
func (MapType) typeExpr()   {}
func (ClassRef) typeExpr()  {}
func (EnumRef) typeExpr()   {}
func (Union) typeExpr()     {}
func (Optional) typeExpr()  {}
func (Tuple) typeExpr()     {}

// LiteralOfString builds a string literal type.
func LiteralOfString(s string) Literal { return Literal{Kind: LiteralString, Str: s} }

// LiteralOfInt builds an integer literal type.
func LiteralOfInt(i int64) Literal { return Literal{Kind: LiteralInt, Int: i} }

// LiteralOfBool builds a boolean literal type.
func LiteralOfBool(b bool) Literal { return Literal{Kind: LiteralBool, Bool: b} }

// Describe renders a type expression back into the term grammar, the shape
// callers use to declare types: {primitive, string}, {list, T}, {map, K, V},
// {class, Name}, {enum, Name}, {union, [...]}, {optional, T}, {tuple, [...]},
// {literal, v}.
func Describe(t TypeExpr) types.Term {
	switch x := t.(type) {
	case Primitive:
		return types.NewTag("primitive", types.NewTag(string(x.Kind)))
	case Literal:
		var v types.Term
		switch x.Kind {
		case LiteralInt:
			v = types.Int(x.Int)
		case LiteralBool:
			v = types.Bool(x.Bool)
		default:
			v = types.String(x.Str)
		}
		return types.NewTag("literal", v)
	case List:
		return types.NewTag("list", Describe(x.Elem))
	case MapType:
		return types.NewTag("map", Describe(x.Key), Describe(x.Value))
	case ClassRef:
		return types.NewTag("class", types.String(x.Name))
	case EnumRef:
		return types.NewTag("enum", types.String(x.Name))
	case Union:
		alts := make(types.List, 0, len(x.Alternatives))
		for _, alt := range x.Alternatives {
			alts = append(alts, Describe(alt))
		}
		return types.NewTag("union", alts)
	case Optional:
		return types.NewTag("optional", Describe(x.Inner))
	case Tuple:
		elems := make(types.List, 0, len(x.Elems))
		for _, e := range x.Elems {
			elems = append(elems, Describe(e))
		}
		return types.NewTag("tuple", elems)
	}
	return types.Null{}
}
