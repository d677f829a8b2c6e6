package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Term is the dynamic value grammar callers use to supply function arguments
// and type declarations. It is a closed union: the only implementations are
// Null, Bool, Int, Float, String, List, Map and Tag. A Term is always a
// finite tree; no implementation can introduce a cycle.
type Term interface {
	termKind() TermKind
}

// TermKind identifies which variant of the term grammar a Term is.
type TermKind string

const (
	TermNull   TermKind = "null"
	TermBool   TermKind = "bool"
	TermInt    TermKind = "int"
	TermFloat  TermKind = "float"
	TermString TermKind = "string"
	TermList   TermKind = "list"
	TermMap    TermKind = "map"
	TermTag    TermKind = "tag"
)

// Null is the absent-value marker.
type Null struct{}

// Bool is a boolean term.
type Bool bool

// Int is an integer term.
type Int int64

// Float is a floating-point term.
type Float float64

// String is a text term.
type String string

// List is an ordered sequence of terms.
type List []Term

// Map is a string-keyed mapping of terms. Key order carries no meaning.
type Map map[string]Term

// Tag is a named marker carrying zero to three positional sub-terms.
// A bare Tag (no args) is an atomic symbol; tagged shapes like
// {list, T} or {map, K, V} carry their operands in Args.
type Tag struct {
	Name string
	Args []Term
}

func (Null) termKind() TermKind   { return TermNull }
func (Bool) termKind() TermKind   { return TermBool }
func (Int) termKind() TermKind    { return TermInt }
func (Float) termKind() TermKind  { return TermFloat }
func (String) termKind() TermKind { return TermString }
func (List) termKind() TermKind   { return TermList }
func (Map) termKind() TermKind    { return TermMap }
func (Tag) termKind() TermKind    { return TermTag }

// KindOf returns the grammar variant of t. A nil Term reports TermNull.
func KindOf(t Term) TermKind {
	if t == nil {
		return TermNull
	}
	return t.termKind()
}

// NewTag builds a tag term from a name and positional sub-terms.
func NewTag(name string, args ...Term) Tag {
	return Tag{Name: name, Args: args}
}

// ShapeOf renders a short structural description of a term for error
// messages: "tag(list/1)", "map", "string", ...
func ShapeOf(t Term) string {
	if t == nil {
		return "null"
	}
	if tag, ok := t.(Tag); ok {
		return fmt.Sprintf("tag(%s/%d)", tag.Name, len(tag.Args))
	}
	return string(t.termKind())
}

// FromGo converts a native Go value into a Term. Numeric strings arriving as
// json.Number take the exact integer interpretation first and fall back to
// float only when the value is non-integral or does not fit an int64.
// Unsupported Go kinds fail with an UNSUPPORTED_VALUE error.
func FromGo(v any) (Term, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Term:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Float(x), nil
		}
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(x), nil
		}
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, UnsupportedValue(fmt.Sprintf("number %q", string(x)))
		}
		return Float(f), nil
	case []any:
		out := make(List, 0, len(x))
		for _, item := range x {
			t, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case []Term:
		return List(x), nil
	case map[string]any:
		out := make(Map, len(x))
		for k, item := range x {
			t, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			out[k] = t
		}
		return out, nil
	case map[string]Term:
		return Map(x), nil
	case map[any]any:
		out := make(Map, len(x))
		for k, item := range x {
			key, err := keyString(k)
			if err != nil {
				return nil, err
			}
			t, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			out[key] = t
		}
		return out, nil
	default:
		return nil, UnsupportedValue(fmt.Sprintf("go value of type %T", v))
	}
}

// keyString coerces a map key to its string form. Bare tags key by
// their name; any other non-string key is rejected.
func keyString(k any) (string, error) {
	switch x := k.(type) {
	case string:
		return x, nil
	case String:
		return string(x), nil
	case Tag:
		if len(x.Args) == 0 {
			return x.Name, nil
		}
		return "", UnsupportedValue(fmt.Sprintf("map key %s", ShapeOf(x)))
	default:
		return "", UnsupportedValue(fmt.Sprintf("map key of type %T", k))
	}
}
