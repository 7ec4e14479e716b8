package load

import (
	"github.com/syssam/ocean"
	"github.com/syssam/ocean/schema/field"
)

// Declaration adapts a loaded type to ocean.Interface, so that schema files
// can be used without generating code. Declarations are named by their type
// name and get one label schema per name.
type Declaration struct {
	ocean.Schema
	schema   *Schema
	src, dst *Declaration
}

// Declarations returns one declaration per type, keyed by type name. Edge
// declarations reference the declarations of their endpoint types.
func (d *Document) Declarations() map[string]*Declaration {
	decls := make(map[string]*Declaration, len(d.Types))
	for _, s := range d.Types {
		decls[s.Name] = &Declaration{schema: s}
	}
	for _, s := range d.Types {
		if s.IsEdge() {
			decls[s.Name].src = decls[s.Src]
			decls[s.Name].dst = decls[s.Dst]
		}
	}
	return decls
}

// Name implements ocean.Named.
func (d *Declaration) Name() string { return d.schema.Name }

// Loaded returns the loaded type the declaration was built from.
func (d *Declaration) Loaded() *Schema { return d.schema }

// Config implements ocean.Interface.
func (d *Declaration) Config() ocean.Config {
	s := d.schema
	cfg := ocean.Config{
		Label:        s.Label,
		Kind:         s.kind,
		KeyPolicy:    s.policy,
		IDAsField:    s.IDAsField,
		SrcIDAsField: s.SrcIDAsField,
		DstIDAsField: s.DstIDAsField,
		Comment:      s.Comment,
	}
	// Assigning nil pointers would yield non-nil interfaces.
	if d.src != nil {
		cfg.Src = d.src
	}
	if d.dst != nil {
		cfg.Dst = d.dst
	}
	return cfg
}

// Fields implements ocean.Interface.
func (d *Declaration) Fields() []ocean.Field {
	fields := make([]ocean.Field, 0, len(d.schema.Fields))
	for _, f := range d.schema.Fields {
		fields = append(fields, f.Builder())
	}
	return fields
}

// Mixin implements ocean.Interface.
func (d *Declaration) Mixin() []ocean.Mixin {
	var mx []ocean.Mixin
	for _, name := range d.schema.Mixin {
		if m, ok := LookupMixin(name); ok {
			mx = append(mx, m.Value())
		}
	}
	return mx
}

// Builder returns the field builder described by f.
func (f *Field) Builder() *field.Builder {
	var b *field.Builder
	if f.typ == field.TypeFixedString {
		b = field.FixedString(f.Property, f.Size)
	} else {
		b = field.Of(f.Property, f.typ)
	}
	b.StructField(f.Name).Role(f.role)
	if f.Required {
		b.Required()
	}
	if f.Formatter != "" {
		b.FormatterName(f.Formatter)
	}
	if f.Comment != "" {
		b.Comment(f.Comment)
	}
	return b
}

var _ interface {
	ocean.Interface
	ocean.Named
} = (*Declaration)(nil)
