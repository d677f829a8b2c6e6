package schema

import (
	"github.com/BaSui01/typebridge/types"
)

// Declaration discriminator tags and payload keys.
const (
	declClass = "class"
	declEnum  = "enum"

	keyName        = "name"
	keyFields      = "fields"
	keyValues      = "values"
	keyType        = "type"
	keyValue       = "value"
	keyDescription = "description"
)

// Parser applies a term-encoded declaration set to a registry.
//
// There is no rollback: a declaration that fails partway leaves the fields
// applied before the failure in place. Callers that need atomicity discard
// the whole registry, which is cheap since registries are per-call.
type Parser struct {
	reg *Registry
}

// NewParser creates a parser writing into reg.
func NewParser(reg *Registry) *Parser {
	return &Parser{reg: reg}
}

// ParseDeclarations applies one ordered declaration set to reg.
func ParseDeclarations(decls types.Term, reg *Registry) error {
	return NewParser(reg).Apply(decls)
}

// Apply consumes a declaration set: a list of tagged declarations, each
// either {class, payload} or {enum, payload}. Declarations are applied in
// caller order; order between declarations never matters for references,
// because class and enum references stay name-only until the engine
// resolves them.
func (p *Parser) Apply(decls types.Term) error {
	list, ok := decls.(types.List)
	if !ok {
		return types.InvalidShape("declaration list", types.ShapeOf(decls))
	}
	for _, item := range list {
		if err := p.applyDecl(item); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) applyDecl(t types.Term) error {
	tag, ok := t.(types.Tag)
	if !ok {
		return types.InvalidShape("tagged declaration", types.ShapeOf(t))
	}
	if len(tag.Args) != 1 {
		return types.InvalidShape("declaration with one payload", types.ShapeOf(t))
	}
	payload, ok := tag.Args[0].(types.Map)
	if !ok {
		return types.InvalidShape("declaration payload map", types.ShapeOf(tag.Args[0]))
	}
	switch tag.Name {
	case declClass:
		_, err := p.applyClass(payload, true)
		return err
	case declEnum:
		_, err := p.applyEnum(payload, true)
		return err
	default:
		return types.UnresolvedDeclaration(tag.Name)
	}
}

// applyClass upserts the class named in payload and applies its field list.
// In declaration position the field list is required; in type position
// (inline definitions) its absence means "reference an existing class".
func (p *Parser) applyClass(payload types.Map, requireFields bool) (string, error) {
	name, err := nameIn(payload)
	if err != nil {
		return "", err
	}
	fieldsTerm, ok := payload[keyFields]
	if !ok {
		if requireFields {
			return "", types.MissingField(keyFields).WithDecl(name)
		}
		return name, nil
	}
	fields, ok := fieldsTerm.(types.List)
	if !ok {
		return "", types.InvalidShape("field list", types.ShapeOf(fieldsTerm)).WithDecl(name)
	}
	cls := p.reg.UpsertClass(name)
	for _, f := range fields {
		if err := p.applyField(cls, f); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (p *Parser) applyField(cls *ClassBuilder, t types.Term) error {
	field, ok := t.(types.Map)
	if !ok {
		return types.InvalidShape("field map", types.ShapeOf(t)).WithDecl(cls.Name())
	}
	fieldName, err := nameIn(field)
	if err != nil {
		return err.WithDecl(cls.Name())
	}
	typeTerm, ok := field[keyType]
	if !ok {
		return types.MissingField(keyType).WithDecl(cls.Name()).WithField(fieldName)
	}
	typ, perr := p.ParseType(typeTerm)
	if perr != nil {
		if be, ok := perr.(*types.Error); ok && be.Decl == "" {
			be.WithDecl(cls.Name()).WithField(fieldName)
		}
		return perr
	}
	prop := cls.UpsertProperty(fieldName).SetType(typ)
	if desc, ok := field[keyDescription].(types.String); ok {
		prop.SetDescription(string(desc))
	}
	return nil
}

// applyEnum upserts the enum named in payload and applies its value list.
// Values may be bare strings, bare tags, or maps with value + description.
func (p *Parser) applyEnum(payload types.Map, requireValues bool) (string, error) {
	name, err := nameIn(payload)
	if err != nil {
		return "", err
	}
	valuesTerm, ok := payload[keyValues]
	if !ok {
		if requireValues {
			return "", types.MissingField(keyValues).WithDecl(name)
		}
		return name, nil
	}
	values, ok := valuesTerm.(types.List)
	if !ok {
		return "", types.InvalidShape("value list", types.ShapeOf(valuesTerm)).WithDecl(name)
	}
	enum := p.reg.UpsertEnum(name)
	for _, v := range values {
		switch value := v.(type) {
		case types.String:
			enum.UpsertValue(string(value))
		case types.Tag:
			if len(value.Args) != 0 {
				return "", types.InvalidShape("enum value", types.ShapeOf(v)).WithDecl(name)
			}
			enum.UpsertValue(value.Name)
		case types.Map:
			variant, ok := value[keyValue].(types.String)
			if !ok {
				return "", types.MissingField(keyValue).WithDecl(name)
			}
			vb := enum.UpsertValue(string(variant))
			if desc, ok := value[keyDescription].(types.String); ok {
				vb.SetDescription(string(desc))
			}
		default:
			return "", types.InvalidShape("enum value", types.ShapeOf(v)).WithDecl(name)
		}
	}
	return name, nil
}

// ParseType parses the recursive type-expression grammar.
//
//   - a bare tag is a primitive for string/int/float/bool, otherwise a
//     class reference to that name (declared earlier, later, or never
//     in-process — resolution is the engine's job)
//   - a literal scalar term is a single-value literal type
//   - {list, T}, {optional, T}, {union, [T...]}, {tuple, [T...]} wrap
//     recursively parsed operands
//   - {class, x} and {enum, x} take either a name (reference) or an inline
//     payload map; an inline payload must carry an explicit name, and the
//     presence of its fields/values list distinguishes "define now" from
//     "reference existing"
//   - {map, K, V} is the three-part shape with explicit key and value types
//   - a plain list in type position is sugar for "list of the first
//     element's type"; remaining elements are not checked
//   - a plain map in type position is an inline class payload
func (p *Parser) ParseType(t types.Term) (TypeExpr, error) {
	switch x := t.(type) {
	case types.Tag:
		return p.parseTypeTag(x)
	case types.String:
		return LiteralOfString(string(x)), nil
	case types.Int:
		return LiteralOfInt(int64(x)), nil
	case types.Bool:
		return LiteralOfBool(bool(x)), nil
	case types.List:
		if len(x) == 0 {
			return nil, types.InvalidShape("non-empty list example", "empty list")
		}
		elem, err := p.ParseType(x[0])
		if err != nil {
			return nil, err
		}
		return List{Elem: elem}, nil
	case types.Map:
		name, err := p.applyClass(x, false)
		if err != nil {
			return nil, err
		}
		return ClassRef{Name: name}, nil
	}
	return nil, types.InvalidShape("type expression", types.ShapeOf(t))
}

func (p *Parser) parseTypeTag(tag types.Tag) (TypeExpr, error) {
	if len(tag.Args) == 0 {
		switch tag.Name {
		case "string":
			return Primitive{Kind: PrimitiveString}, nil
		case "int":
			return Primitive{Kind: PrimitiveInt}, nil
		case "float":
			return Primitive{Kind: PrimitiveFloat}, nil
		case "bool":
			return Primitive{Kind: PrimitiveBool}, nil
		default:
			return ClassRef{Name: tag.Name}, nil
		}
	}

	switch tag.Name {
	case "list":
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{list, T}", types.ShapeOf(tag))
		}
		elem, err := p.ParseType(tag.Args[0])
		if err != nil {
			return nil, err
		}
		return List{Elem: elem}, nil

	case "optional":
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{optional, T}", types.ShapeOf(tag))
		}
		inner, err := p.ParseType(tag.Args[0])
		if err != nil {
			return nil, err
		}
		return Optional{Inner: inner}, nil

	case "map":
		if len(tag.Args) != 2 {
			return nil, types.InvalidShape("{map, K, V}", types.ShapeOf(tag))
		}
		key, err := p.ParseType(tag.Args[0])
		if err != nil {
			return nil, err
		}
		value, err := p.ParseType(tag.Args[1])
		if err != nil {
			return nil, err
		}
		return MapType{Key: key, Value: value}, nil

	case "union":
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{union, [T...]}", types.ShapeOf(tag))
		}
		alts, ok := tag.Args[0].(types.List)
		if !ok {
			return nil, types.InvalidShape("union alternative list", types.ShapeOf(tag.Args[0]))
		}
		out := make([]TypeExpr, 0, len(alts))
		for _, alt := range alts {
			parsed, err := p.ParseType(alt)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed)
		}
		return Union{Alternatives: out}, nil

	case "tuple":
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{tuple, [T...]}", types.ShapeOf(tag))
		}
		elems, ok := tag.Args[0].(types.List)
		if !ok {
			return nil, types.InvalidShape("tuple element list", types.ShapeOf(tag.Args[0]))
		}
		out := make([]TypeExpr, 0, len(elems))
		for _, e := range elems {
			parsed, err := p.ParseType(e)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed)
		}
		return Tuple{Elems: out}, nil

	case declClass:
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{class, name-or-payload}", types.ShapeOf(tag))
		}
		name, err := p.refOrInline(tag.Args[0], p.applyClass)
		if err != nil {
			return nil, err
		}
		return ClassRef{Name: name}, nil

	case declEnum:
		if len(tag.Args) != 1 {
			return nil, types.InvalidShape("{enum, name-or-payload}", types.ShapeOf(tag))
		}
		name, err := p.refOrInline(tag.Args[0], p.applyEnum)
		if err != nil {
			return nil, err
		}
		return EnumRef{Name: name}, nil
	}

	return nil, types.InvalidShape("type expression", types.ShapeOf(tag))
}

// refOrInline resolves the payload of {class, x} / {enum, x}: a name term is
// a plain reference, a map is an inline payload handed to apply.
func (p *Parser) refOrInline(t types.Term, apply func(types.Map, bool) (string, error)) (string, error) {
	switch x := t.(type) {
	case types.String:
		return string(x), nil
	case types.Tag:
		if len(x.Args) == 0 {
			return x.Name, nil
		}
	case types.Map:
		return apply(x, false)
	}
	return "", types.InvalidShape("type name or inline payload", types.ShapeOf(t))
}

// nameIn extracts the required name entry from a payload map, accepting a
// string or a bare tag.
func nameIn(payload types.Map) (string, *types.Error) {
	t, ok := payload[keyName]
	if !ok {
		return "", types.MissingField(keyName)
	}
	switch x := t.(type) {
	case types.String:
		return string(x), nil
	case types.Tag:
		if len(x.Args) == 0 {
			return x.Name, nil
		}
	}
	return "", types.InvalidShape("name", types.ShapeOf(t))
}
