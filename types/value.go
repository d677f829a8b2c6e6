package types

import (
	"github.com/elliotchance/orderedmap/v3"
)

// Value is the execution engine's typed value tree. Like Term it is a closed
// union; ClassValue and EnumValue carry their type name as plain data, never
// a link into a schema registry.
type Value interface {
	valueKind() ValueKind
}

// ValueKind identifies which variant of the value tree a Value is.
type ValueKind string

const (
	ValueNull   ValueKind = "null"
	ValueBool   ValueKind = "bool"
	ValueInt    ValueKind = "int"
	ValueFloat  ValueKind = "float"
	ValueString ValueKind = "string"
	ValueList   ValueKind = "list"
	ValueMap    ValueKind = "map"
	ValueClass  ValueKind = "class"
	ValueEnum   ValueKind = "enum"
	ValueMedia  ValueKind = "media"
)

// NullValue is the typed null.
type NullValue struct{}

// BoolValue is a typed boolean.
type BoolValue bool

// IntValue is a typed integer.
type IntValue int64

// FloatValue is a typed float.
type FloatValue float64

// StringValue is typed text.
type StringValue string

// ListValue is an ordered sequence of values.
type ListValue []Value

// MapValue is a string-keyed mapping of values.
type MapValue map[string]Value

// ClassValue is an instance of a named record type. Fields preserve
// insertion order.
type ClassValue struct {
	Name   string
	Fields *orderedmap.OrderedMap[string, Value]
}

// EnumValue is one variant of a named enumeration type.
type EnumValue struct {
	Name    string
	Variant string
}

// MediaValue is an opaque media payload. The codec refuses it; binary
// transfer belongs to an external collaborator.
type MediaValue struct {
	ContentType string
	Ref         string
}

func (NullValue) valueKind() ValueKind   { return ValueNull }
func (BoolValue) valueKind() ValueKind   { return ValueBool }
func (IntValue) valueKind() ValueKind    { return ValueInt }
func (FloatValue) valueKind() ValueKind  { return ValueFloat }
func (StringValue) valueKind() ValueKind { return ValueString }
func (ListValue) valueKind() ValueKind   { return ValueList }
func (MapValue) valueKind() ValueKind    { return ValueMap }
func (ClassValue) valueKind() ValueKind  { return ValueClass }
func (EnumValue) valueKind() ValueKind   { return ValueEnum }
func (MediaValue) valueKind() ValueKind  { return ValueMedia }

// ValueKindOf returns the tree variant of v. A nil Value reports ValueNull.
func ValueKindOf(v Value) ValueKind {
	if v == nil {
		return ValueNull
	}
	return v.valueKind()
}

// NewClass creates an empty class instance of the given type name.
func NewClass(name string) ClassValue {
	return ClassValue{Name: name, Fields: orderedmap.NewOrderedMap[string, Value]()}
}

// Set assigns a field, preserving first-insertion order, and returns the
// receiver for chaining.
func (c ClassValue) Set(field string, v Value) ClassValue {
	c.Fields.Set(field, v)
	return c
}

// Get looks up a field by name.
func (c ClassValue) Get(field string) (Value, bool) {
	return c.Fields.Get(field)
}

// Len reports the number of fields.
func (c ClassValue) Len() int {
	if c.Fields == nil {
		return 0
	}
	return c.Fields.Len()
}

// Equal reports deep equality of two value trees. Class field order is
// presentation metadata, so classes compare as unordered field sets.
func Equal(a, b Value) bool {
	if ValueKindOf(a) != ValueKindOf(b) {
		return false
	}
	switch av := a.(type) {
	case nil, NullValue:
		return true
	case BoolValue:
		return av == b.(BoolValue)
	case IntValue:
		return av == b.(IntValue)
	case FloatValue:
		return av == b.(FloatValue)
	case StringValue:
		return av == b.(StringValue)
	case ListValue:
		bv := b.(ListValue)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case MapValue:
		bv := b.(MapValue)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case ClassValue:
		bv := b.(ClassValue)
		if av.Name != bv.Name || av.Len() != bv.Len() {
			return false
		}
		if av.Fields == nil {
			return true
		}
		for k, v := range av.Fields.AllFromFront() {
			other, ok := bv.Fields.Get(k)
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case EnumValue:
		return av == b.(EnumValue)
	case MediaValue:
		return av == b.(MediaValue)
	}
	return false
}
