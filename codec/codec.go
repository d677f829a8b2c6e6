// Package codec converts between the caller-native term grammar and the
// engine's typed value tree.
//
// Decode is total over the term grammar except for one documented rejection
// (a named tag with no decode arm). Encode is total except for media values.
// For every value v without media, Decode(Encode(v)) equals v.
package codec

import (
	"sort"

	"github.com/BaSui01/typebridge/types"
)

// Reserved map keys the encoder injects so a decoder can tell class and enum
// instances apart from plain maps. The double-underscore prefix keeps them
// disjoint from legal field names.
const (
	ClassKey     = "__class__"
	EnumKey      = "__enum__"
	EnumValueKey = "value"
)

// NullTag is the atomic tag decoded as a typed null, for callers whose
// grammar spells null as a named marker.
const NullTag = "nil"

// Decode converts a term into a typed value.
//
// A map carrying the reserved class marker decodes to a class instance; a
// two-entry map of the reserved enum marker and its value decodes to an enum
// variant; every other map stays a plain map. An empty list decodes to an
// empty list, never null.
func Decode(t types.Term) (types.Value, error) {
	switch x := t.(type) {
	case nil, types.Null:
		return types.NullValue{}, nil
	case types.Bool:
		return types.BoolValue(x), nil
	case types.Int:
		return types.IntValue(x), nil
	case types.Float:
		return types.FloatValue(x), nil
	case types.String:
		return types.StringValue(x), nil
	case types.List:
		out := make(types.ListValue, 0, len(x))
		for _, item := range x {
			v, err := Decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case types.Map:
		return decodeMap(x)
	case types.Tag:
		if x.Name == NullTag && len(x.Args) == 0 {
			return types.NullValue{}, nil
		}
		return nil, types.UnsupportedValue(types.ShapeOf(t))
	}
	return nil, types.UnsupportedValue(types.ShapeOf(t))
}

func decodeMap(m types.Map) (types.Value, error) {
	if name, ok := m[EnumKey].(types.String); ok && len(m) == 2 {
		if variant, ok := m[EnumValueKey].(types.String); ok {
			return types.EnumValue{Name: string(name), Variant: string(variant)}, nil
		}
	}
	if name, ok := m[ClassKey].(types.String); ok {
		cls := types.NewClass(string(name))
		for _, key := range sortedKeys(m) {
			if key == ClassKey {
				continue
			}
			v, err := Decode(m[key])
			if err != nil {
				return nil, err
			}
			cls.Set(key, v)
		}
		return cls, nil
	}
	out := make(types.MapValue, len(m))
	for key, item := range m {
		v, err := Decode(item)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// Encode converts a typed value back into a term. Media has no term
// representation and fails with UNSUPPORTED_VALUE.
func Encode(v types.Value) (types.Term, error) {
	switch x := v.(type) {
	case nil, types.NullValue:
		return types.Null{}, nil
	case types.BoolValue:
		return types.Bool(x), nil
	case types.IntValue:
		return types.Int(x), nil
	case types.FloatValue:
		return types.Float(x), nil
	case types.StringValue:
		return types.String(x), nil
	case types.ListValue:
		out := make(types.List, 0, len(x))
		for _, item := range x {
			t, err := Encode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case types.MapValue:
		out := make(types.Map, len(x))
		for key, item := range x {
			t, err := Encode(item)
			if err != nil {
				return nil, err
			}
			out[key] = t
		}
		return out, nil
	case types.ClassValue:
		out := make(types.Map, x.Len()+1)
		out[ClassKey] = types.String(x.Name)
		if x.Fields != nil {
			for key, item := range x.Fields.AllFromFront() {
				t, err := Encode(item)
				if err != nil {
					return nil, err
				}
				out[key] = t
			}
		}
		return out, nil
	case types.EnumValue:
		return types.Map{
			EnumKey:      types.String(x.Name),
			EnumValueKey: types.String(x.Variant),
		}, nil
	case types.MediaValue:
		return nil, types.UnsupportedValue("media")
	}
	return nil, types.UnsupportedValue(string(types.ValueKindOf(v)))
}

// sortedKeys gives class decoding a deterministic field order; the term map
// carries none.
func sortedKeys(m types.Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
