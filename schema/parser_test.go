package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/typebridge/types"
)

func classDecl(name string, fields ...types.Term) types.Term {
	return types.NewTag("class", types.Map{
		"name":   types.String(name),
		"fields": types.List(fields),
	})
}

func field(name string, typ types.Term) types.Map {
	return types.Map{"name": types.String(name), "type": typ}
}

func enumDecl(name string, values ...types.Term) types.Term {
	return types.NewTag("enum", types.Map{
		"name":   types.String(name),
		"values": types.List(values),
	})
}

func TestParser_EnumDeclaration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		enumDecl("Color", types.String("red"), types.String("green"), types.String("blue")),
	}, reg)
	require.NoError(t, err)

	enum, ok := reg.Enum("Color")
	require.True(t, ok)
	var names []string
	for _, v := range enum.Values() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"red", "green", "blue"}, names)
}

func TestParser_EnumValueDescriptions(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		enumDecl("Status",
			types.Map{"value": types.String("open"), "description": types.String("still running")},
			types.NewTag("closed"),
		),
	}, reg)
	require.NoError(t, err)

	enum, _ := reg.Enum("Status")
	values := enum.Values()
	require.Len(t, values, 2)
	assert.Equal(t, "open", values[0].Name())
	assert.Equal(t, "still running", values[0].Description())
	assert.Equal(t, "closed", values[1].Name())
}

func TestParser_ClassDeclaration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Pet",
			types.Map{
				"name":        types.String("name"),
				"type":        types.NewTag("string"),
				"description": types.String("call name"),
			},
			field("age", types.NewTag("int")),
		),
	}, reg)
	require.NoError(t, err)

	cls, ok := reg.Class("Pet")
	require.True(t, ok)
	props := cls.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, Primitive{Kind: PrimitiveString}, props[0].Type())
	assert.Equal(t, "call name", props[0].Description())
	assert.Equal(t, Primitive{Kind: PrimitiveInt}, props[1].Type())
}

func TestParser_SelfReference(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Node",
			field("value", types.NewTag("int")),
			field("next", types.NewTag("class", types.String("Node"))),
		),
	}, reg)
	require.NoError(t, err)

	cls, _ := reg.Class("Node")
	props := cls.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, ClassRef{Name: "Node"}, props[1].Type(), "self reference stays a name, no structure built")
}

func TestParser_ForwardReference(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Person", field("pet", types.NewTag("class", types.String("Pet")))),
		classDecl("Pet", field("name", types.NewTag("string"))),
	}, reg)
	require.NoError(t, err)

	person, _ := reg.Class("Person")
	assert.Equal(t, ClassRef{Name: "Pet"}, person.Properties()[0].Type())

	pet, ok := reg.Class("Pet")
	require.True(t, ok)
	assert.Len(t, pet.Properties(), 1)
}

func TestParser_BareTagIsClassRef(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Person", field("pet", types.NewTag("Pet"))),
	}, reg)
	require.NoError(t, err)

	person, _ := reg.Class("Person")
	assert.Equal(t, ClassRef{Name: "Pet"}, person.Properties()[0].Type(),
		"an unrecognized atomic tag is a bare class reference")

	_, declared := reg.Class("Pet")
	assert.False(t, declared, "a bare reference declares nothing")
}

func TestParser_UnresolvedDeclaration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		types.NewTag("alias", types.Map{"name": types.String("X")}),
	}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeUnresolvedDeclaration, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), "alias")
}

func TestParser_MissingNameNoRollback(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Pet",
			field("name", types.NewTag("string")),
			types.Map{"type": types.NewTag("int")}, // second field has no name
		),
	}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeMissingField, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), `"Pet"`)

	cls, ok := reg.Class("Pet")
	require.True(t, ok, "failed declaration leaves the class in place")
	props := cls.Properties()
	require.Len(t, props, 1, "first field stays applied, no rollback")
	assert.Equal(t, "name", props[0].Name())
}

func TestParser_MissingType(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Pet", types.Map{"name": types.String("name")}),
	}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeMissingField, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), `field "name"`)
}

func TestParseType_Grammar(t *testing.T) {
	t.Parallel()

	p := NewParser(NewRegistry())

	cases := []struct {
		name string
		in   types.Term
		want TypeExpr
	}{
		{"primitive string", types.NewTag("string"), Primitive{Kind: PrimitiveString}},
		{"primitive float", types.NewTag("float"), Primitive{Kind: PrimitiveFloat}},
		{"primitive bool", types.NewTag("bool"), Primitive{Kind: PrimitiveBool}},
		{"string literal", types.String("v1"), LiteralOfString("v1")},
		{"int literal", types.Int(42), LiteralOfInt(42)},
		{"bool literal", types.Bool(true), LiteralOfBool(true)},
		{"list of", types.NewTag("list", types.NewTag("int")), List{Elem: Primitive{Kind: PrimitiveInt}}},
		{"optional", types.NewTag("optional", types.NewTag("string")), Optional{Inner: Primitive{Kind: PrimitiveString}}},
		{
			"map with key and value types",
			types.NewTag("map", types.NewTag("string"), types.NewTag("int")),
			MapType{Key: Primitive{Kind: PrimitiveString}, Value: Primitive{Kind: PrimitiveInt}},
		},
		{"class ref", types.NewTag("class", types.String("Pet")), ClassRef{Name: "Pet"}},
		{"enum ref", types.NewTag("enum", types.String("Color")), EnumRef{Name: "Color"}},
		{
			"union of literals",
			types.NewTag("union", types.List{types.String("alive"), types.String("dead")}),
			Union{Alternatives: []TypeExpr{LiteralOfString("alive"), LiteralOfString("dead")}},
		},
		{
			"tuple",
			types.NewTag("tuple", types.List{types.NewTag("string"), types.NewTag("int")}),
			Tuple{Elems: []TypeExpr{Primitive{Kind: PrimitiveString}, Primitive{Kind: PrimitiveInt}}},
		},
		{
			"list example sugar",
			types.List{types.NewTag("int"), types.NewTag("string")},
			List{Elem: Primitive{Kind: PrimitiveInt}},
		},
		{
			"nested",
			types.NewTag("list", types.NewTag("map", types.NewTag("string"), types.NewTag("class", types.String("Pet")))),
			List{Elem: MapType{Key: Primitive{Kind: PrimitiveString}, Value: ClassRef{Name: "Pet"}}},
		},
	}
	for _, tc := range cases {
		got, err := p.ParseType(tc.in)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestParseType_Errors(t *testing.T) {
	t.Parallel()

	p := NewParser(NewRegistry())

	cases := []struct {
		name string
		in   types.Term
		code types.ErrorCode
	}{
		{"empty example list", types.List{}, types.CodeInvalidShape},
		{"float literal", types.Float(1.5), types.CodeInvalidShape},
		{"null", types.Null{}, types.CodeInvalidShape},
		{"unknown shape", types.NewTag("arrow", types.NewTag("int")), types.CodeInvalidShape},
		{"map arity", types.NewTag("map", types.NewTag("string")), types.CodeInvalidShape},
		{"union payload", types.NewTag("union", types.NewTag("int")), types.CodeInvalidShape},
		{"inline without name", types.NewTag("class", types.Map{"fields": types.List{}}), types.CodeMissingField},
	}
	for _, tc := range cases {
		_, err := p.ParseType(tc.in)
		require.Error(t, err, tc.name)
		assert.Equal(t, tc.code, types.GetErrorCode(err), tc.name)
	}
}

func TestParseType_InlineDefinition(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Person",
			field("address", types.NewTag("class", types.Map{
				"name": types.String("Address"),
				"fields": types.List{
					field("street", types.NewTag("string")),
				},
			})),
			field("color", types.NewTag("enum", types.Map{
				"name":   types.String("Color"),
				"values": types.List{types.String("red"), types.String("blue")},
			})),
		),
	}, reg)
	require.NoError(t, err)

	person, _ := reg.Class("Person")
	props := person.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, ClassRef{Name: "Address"}, props[0].Type())
	assert.Equal(t, EnumRef{Name: "Color"}, props[1].Type())

	address, ok := reg.Class("Address")
	require.True(t, ok, "inline payload with fields defines the class")
	assert.Len(t, address.Properties(), 1)

	color, ok := reg.Enum("Color")
	require.True(t, ok)
	assert.Len(t, color.Values(), 2)
}

func TestParseType_InlineReferenceWithoutBody(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := ParseDeclarations(types.List{
		classDecl("Person",
			// No fields list: reference an existing (or later) class.
			field("address", types.NewTag("class", types.Map{"name": types.String("Address")})),
		),
	}, reg)
	require.NoError(t, err)

	person, _ := reg.Class("Person")
	assert.Equal(t, ClassRef{Name: "Address"}, person.Properties()[0].Type())

	_, declared := reg.Class("Address")
	assert.False(t, declared, "payload without a field list declares nothing")
}

func TestParser_DeclarationSetShape(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	err := ParseDeclarations(types.Map{}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidShape, types.GetErrorCode(err))

	err = ParseDeclarations(types.List{types.String("nope")}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidShape, types.GetErrorCode(err))

	err = ParseDeclarations(types.List{types.NewTag("class", types.String("no-payload-map"))}, reg)
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidShape, types.GetErrorCode(err))
}
