package schema

import (
	"sync"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/BaSui01/typebridge/types"
)

// Registry is a per-call, name-indexed store of class and enum definitions.
// Classes and enums live in independent namespaces, so one name may appear
// in both without conflict; references are tag-qualified.
//
// Every upsert is idempotent by name: asking for an existing entry returns a
// handle to it rather than creating a duplicate, so repeated declarations
// accumulate the union of their fields. A registry is built on one
// goroutine and read on another after handoff, hence the locking; it is
// never shared across concurrent calls.
type Registry struct {
	mu      sync.Mutex
	classes *orderedmap.OrderedMap[string, *ClassBuilder]
	enums   *orderedmap.OrderedMap[string, *EnumBuilder]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: orderedmap.NewOrderedMap[string, *ClassBuilder](),
		enums:   orderedmap.NewOrderedMap[string, *EnumBuilder](),
	}
}

// UpsertClass returns the handle for the named class, creating the entry on
// first use.
func (r *Registry) UpsertClass(name string) *ClassBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.classes.Get(name); ok {
		return c
	}
	c := &ClassBuilder{
		name:  name,
		props: orderedmap.NewOrderedMap[string, *PropertyBuilder](),
	}
	r.classes.Set(name, c)
	return c
}

// UpsertEnum returns the handle for the named enum, creating the entry on
// first use.
func (r *Registry) UpsertEnum(name string) *EnumBuilder {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.enums.Get(name); ok {
		return e
	}
	e := &EnumBuilder{
		name:   name,
		values: orderedmap.NewOrderedMap[string, *ValueBuilder](),
	}
	r.enums.Set(name, e)
	return e
}

// Class looks up an existing class handle without creating one.
func (r *Registry) Class(name string) (*ClassBuilder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes.Get(name)
	return c, ok
}

// Enum looks up an existing enum handle without creating one.
func (r *Registry) Enum(name string) (*EnumBuilder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enums.Get(name)
	return e, ok
}

// Len reports the number of class and enum entries.
func (r *Registry) Len() (classes, enums int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classes.Len(), r.enums.Len()
}

// ClassBuilder is a mutable handle on one class entry.
type ClassBuilder struct {
	mu    sync.Mutex
	name  string
	props *orderedmap.OrderedMap[string, *PropertyBuilder]
}

// Name returns the class name.
func (c *ClassBuilder) Name() string { return c.name }

// UpsertProperty returns the handle for the named field, creating it at the
// end of the field order on first use.
func (c *ClassBuilder) UpsertProperty(name string) *PropertyBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.props.Get(name); ok {
		return p
	}
	p := &PropertyBuilder{name: name}
	c.props.Set(name, p)
	return p
}

// Property looks up an existing field handle without creating one.
func (c *ClassBuilder) Property(name string) (*PropertyBuilder, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.props.Get(name)
	return p, ok
}

// Properties returns field handles in declaration order.
func (c *ClassBuilder) Properties() []*PropertyBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*PropertyBuilder, 0, c.props.Len())
	for _, p := range c.props.AllFromFront() {
		out = append(out, p)
	}
	return out
}

// PropertyBuilder is a mutable handle on one class field.
type PropertyBuilder struct {
	mu   sync.Mutex
	name string
	typ  TypeExpr
	desc string
}

// Name returns the field name.
func (p *PropertyBuilder) Name() string { return p.name }

// SetType assigns the field's type expression. Later assignments replace
// earlier ones.
func (p *PropertyBuilder) SetType(t TypeExpr) *PropertyBuilder {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typ = t
	return p
}

// SetDescription assigns the field's description.
func (p *PropertyBuilder) SetDescription(text string) *PropertyBuilder {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.desc = text
	return p
}

// Type returns the field's type expression, which may be nil before SetType.
func (p *PropertyBuilder) Type() TypeExpr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typ
}

// Description returns the field's description.
func (p *PropertyBuilder) Description() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc
}

// EnumBuilder is a mutable handle on one enum entry.
type EnumBuilder struct {
	mu     sync.Mutex
	name   string
	values *orderedmap.OrderedMap[string, *ValueBuilder]
}

// Name returns the enum name.
func (e *EnumBuilder) Name() string { return e.name }

// UpsertValue returns the handle for the named variant, creating it at the
// end of the variant order on first use.
func (e *EnumBuilder) UpsertValue(name string) *ValueBuilder {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.values.Get(name); ok {
		return v
	}
	v := &ValueBuilder{name: name}
	e.values.Set(name, v)
	return v
}

// Values returns variant handles in declaration order.
func (e *EnumBuilder) Values() []*ValueBuilder {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*ValueBuilder, 0, e.values.Len())
	for _, v := range e.values.AllFromFront() {
		out = append(out, v)
	}
	return out
}

// ValueBuilder is a mutable handle on one enum variant.
type ValueBuilder struct {
	mu   sync.Mutex
	name string
	desc string
}

// Name returns the variant name.
func (v *ValueBuilder) Name() string { return v.name }

// SetDescription assigns the variant's description.
func (v *ValueBuilder) SetDescription(text string) *ValueBuilder {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.desc = text
	return v
}

// Description returns the variant's description.
func (v *ValueBuilder) Description() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.desc
}

// ClassDef is the immutable view of one class.
type ClassDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef is the immutable view of one class field.
type FieldDef struct {
	Name        string
	Type        TypeExpr
	Description string
}

// EnumDef is the immutable view of one enum.
type EnumDef struct {
	Name   string
	Values []VariantDef
}

// VariantDef is the immutable view of one enum variant.
type VariantDef struct {
	Name        string
	Description string
}

// Snapshot is a read-only copy of the registry contents, in declaration
// order. It is what gets handed to the execution engine; after that handoff
// the registry is treated as read-only.
type Snapshot struct {
	Classes []ClassDef
	Enums   []EnumDef
}

// Snapshot captures the current registry contents.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := &Snapshot{}
	for _, c := range r.classes.AllFromFront() {
		def := ClassDef{Name: c.Name()}
		for _, p := range c.Properties() {
			def.Fields = append(def.Fields, FieldDef{
				Name:        p.Name(),
				Type:        p.Type(),
				Description: p.Description(),
			})
		}
		snap.Classes = append(snap.Classes, def)
	}
	for _, e := range r.enums.AllFromFront() {
		def := EnumDef{Name: e.Name()}
		for _, v := range e.Values() {
			def.Values = append(def.Values, VariantDef{
				Name:        v.Name(),
				Description: v.Description(),
			})
		}
		snap.Enums = append(snap.Enums, def)
	}
	return snap
}

// Describe renders the snapshot into the term grammar: a map of "classes"
// (class name -> field name -> described type) and "enums" (enum name ->
// ordered variant list).
func (s *Snapshot) Describe() types.Term {
	classes := make(types.Map, len(s.Classes))
	for _, c := range s.Classes {
		fields := make(types.Map, len(c.Fields))
		for _, f := range c.Fields {
			if f.Type == nil {
				continue
			}
			fields[f.Name] = Describe(f.Type)
		}
		classes[c.Name] = types.Map{"fields": fields}
	}
	enums := make(types.Map, len(s.Enums))
	for _, e := range s.Enums {
		variants := make(types.List, 0, len(e.Values))
		for _, v := range e.Values {
			variants = append(variants, types.String(v.Name))
		}
		enums[e.Name] = variants
	}
	return types.Map{"classes": classes, "enums": enums}
}
