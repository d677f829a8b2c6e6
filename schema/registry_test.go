package schema

import (
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_UpsertClassIdempotent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	first := reg.UpsertClass("Pet")
	first.UpsertProperty("name").SetType(Primitive{Kind: PrimitiveString})

	second := reg.UpsertClass("Pet")
	second.UpsertProperty("age").SetType(Primitive{Kind: PrimitiveInt})

	assert.Same(t, first, second, "upsert must return the existing handle")

	classes, enums := reg.Len()
	assert.Equal(t, 1, classes)
	assert.Equal(t, 0, enums)

	props := first.Properties()
	require.Len(t, props, 2, "repeat declarations accumulate the union of fields")
	assert.Equal(t, "name", props[0].Name())
	assert.Equal(t, "age", props[1].Name())
}

func TestRegistry_IndependentNamespaces(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.UpsertClass("Color").UpsertProperty("hex")
	reg.UpsertEnum("Color").UpsertValue("red")

	cls, ok := reg.Class("Color")
	require.True(t, ok)
	enum, ok := reg.Enum("Color")
	require.True(t, ok)

	assert.Len(t, cls.Properties(), 1)
	assert.Len(t, enum.Values(), 1)
}

func TestRegistry_SnapshotOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.UpsertEnum("Color").UpsertValue("red")
	reg.UpsertEnum("Color").UpsertValue("green")
	reg.UpsertEnum("Color").UpsertValue("blue")
	pet := reg.UpsertClass("Pet")
	pet.UpsertProperty("name").SetType(Primitive{Kind: PrimitiveString}).SetDescription("call name")
	pet.UpsertProperty("age").SetType(Primitive{Kind: PrimitiveInt})

	snap := reg.Snapshot()
	require.Len(t, snap.Enums, 1)
	require.Len(t, snap.Classes, 1)

	var variants []string
	for _, v := range snap.Enums[0].Values {
		variants = append(variants, v.Name)
	}
	assert.Equal(t, []string{"red", "green", "blue"}, variants)

	require.Len(t, snap.Classes[0].Fields, 2)
	assert.Equal(t, "name", snap.Classes[0].Fields[0].Name)
	assert.Equal(t, "call name", snap.Classes[0].Fields[0].Description)
}

func TestRegistry_BuildThenReadAcrossGoroutines(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cls := reg.UpsertClass("Pet")
			cls.UpsertProperty("name").SetType(Primitive{Kind: PrimitiveString})
		}()
	}
	wg.Wait()

	snap := reg.Snapshot()
	require.Len(t, snap.Classes, 1)
	assert.Len(t, snap.Classes[0].Fields, 1)
}

func TestProperty_UpsertIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("n upserts of one name yield one entry with the union of fields", prop.ForAll(
		func(name string, fields []string) bool {
			reg := NewRegistry()
			reg.UpsertClass(name)
			for _, f := range fields {
				reg.UpsertClass(name).UpsertProperty(f)
			}
			classes, _ := reg.Len()
			if classes != 1 {
				return false
			}
			distinct := make(map[string]bool)
			for _, f := range fields {
				distinct[f] = true
			}
			cls, _ := reg.Class(name)
			return len(cls.Properties()) == len(distinct)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return s != "" })),
	))

	properties.TestingRun(t)
}
