package field

import (
	"errors"
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/syssam/ocean/format"
)

// Descriptor holds the metadata of a declared graph property.
type Descriptor struct {
	Name          string           // Go-side field name.
	Property      string           // store property name.
	Type          Type             // declared data type.
	Size          int              // size of fixed_string properties.
	Role          Role             // identity role of the field.
	Required      bool             // property must be present and non-null.
	Formatter     format.Formatter // explicit formatter, if any.
	FormatterName string           // registered formatter name, resolved at build time.
	Default       func() any       // value used when an entity leaves the property unset.
	Comment       string           // comment for generated code and diagnostics.
	Err           error            // first error recorded by the builder.
}

// HasFormatter reports if the descriptor declares a formatter.
func (d *Descriptor) HasFormatter() bool {
	return d.FormatterName != "" || !format.IsNone(d.Formatter)
}

// Builder is the fluent builder for property descriptors.
type Builder struct {
	desc *Descriptor
}

func newBuilder(property string, t Type) *Builder {
	b := &Builder{desc: &Descriptor{
		Name:     inflect.Camelize(property),
		Property: property,
		Type:     t,
	}}
	if property == "" {
		b.desc.Err = errors.New("field: empty property name")
	}
	return b
}

// String returns a new Builder for a string property.
func String(property string) *Builder { return newBuilder(property, TypeString) }

// FixedString returns a new Builder for a fixed_string(size) property.
func FixedString(property string, size int) *Builder {
	b := newBuilder(property, TypeFixedString)
	b.desc.Size = size
	if size <= 0 {
		b.err(fmt.Errorf("field %q: fixed_string size must be positive, got %d", property, size))
	}
	return b
}

// Int8 returns a new Builder for an int8 property.
func Int8(property string) *Builder { return newBuilder(property, TypeInt8) }

// Int16 returns a new Builder for an int16 property.
func Int16(property string) *Builder { return newBuilder(property, TypeInt16) }

// Int32 returns a new Builder for an int32 property.
func Int32(property string) *Builder { return newBuilder(property, TypeInt32) }

// Int64 returns a new Builder for an int64 property.
func Int64(property string) *Builder { return newBuilder(property, TypeInt64) }

// Int is an alias of Int64; the store's int is 64-bit.
func Int(property string) *Builder { return newBuilder(property, TypeInt64) }

// Float returns a new Builder for a float property.
func Float(property string) *Builder { return newBuilder(property, TypeFloat) }

// Double returns a new Builder for a double property.
func Double(property string) *Builder { return newBuilder(property, TypeDouble) }

// Bool returns a new Builder for a bool property.
func Bool(property string) *Builder { return newBuilder(property, TypeBool) }

// Date returns a new Builder for a date property.
func Date(property string) *Builder { return newBuilder(property, TypeDate) }

// Time returns a new Builder for a time property.
func Time(property string) *Builder { return newBuilder(property, TypeTime) }

// DateTime returns a new Builder for a datetime property.
func DateTime(property string) *Builder { return newBuilder(property, TypeDateTime) }

// Timestamp returns a new Builder for a timestamp property.
func Timestamp(property string) *Builder { return newBuilder(property, TypeTimestamp) }

// UUID returns a new Builder for a uuid property, stored as a string.
func UUID(property string) *Builder { return newBuilder(property, TypeUUID) }

// Of returns a new Builder for a property of the given type.
func Of(property string, t Type) *Builder {
	b := newBuilder(property, t)
	if !t.Valid() {
		b.err(fmt.Errorf("field %q: invalid type %d", property, t))
	}
	return b
}

// StructField overrides the Go-side field name.
func (b *Builder) StructField(name string) *Builder {
	if name == "" {
		b.err(fmt.Errorf("field %q: empty struct field name", b.desc.Property))
		return b
	}
	b.desc.Name = name
	return b
}

// Required marks the property as required. It must be present and non-null
// in every entity before a statement is emitted.
func (b *Builder) Required() *Builder {
	b.desc.Required = true
	return b
}

// VertexID marks the field as the vertex identifier.
func (b *Builder) VertexID() *Builder { return b.role(RoleVertexID) }

// SrcID marks the field as the edge source identifier.
func (b *Builder) SrcID() *Builder { return b.role(RoleSrcID) }

// DstID marks the field as the edge destination identifier.
func (b *Builder) DstID() *Builder { return b.role(RoleDstID) }

// Role sets the field role explicitly.
func (b *Builder) Role(r Role) *Builder {
	if r == RoleOrdinary {
		return b
	}
	return b.role(r)
}

func (b *Builder) role(r Role) *Builder {
	if b.desc.Role != RoleOrdinary && b.desc.Role != r {
		b.err(fmt.Errorf("field %q: role %s conflicts with %s", b.desc.Property, r, b.desc.Role))
		return b
	}
	b.desc.Role = r
	return b
}

// Formatter attaches a formatter instance to the field.
func (b *Builder) Formatter(f format.Formatter) *Builder {
	switch {
	case format.IsNone(f):
		b.err(fmt.Errorf("field %q: nil formatter", b.desc.Property))
	case b.desc.FormatterName != "":
		b.err(fmt.Errorf("field %q: formatter already set by name %q", b.desc.Property, b.desc.FormatterName))
	default:
		b.desc.Formatter = f
	}
	return b
}

// FormatterName attaches a formatter by its registered name.
func (b *Builder) FormatterName(name string) *Builder {
	switch {
	case name == "":
		b.err(fmt.Errorf("field %q: empty formatter name", b.desc.Property))
	case !format.IsNone(b.desc.Formatter):
		b.err(fmt.Errorf("field %q: formatter already set", b.desc.Property))
	default:
		b.desc.FormatterName = name
	}
	return b
}

// Default sets a function producing the value of the property when an entity
// leaves it unset. Defaults are applied before required properties are checked.
func (b *Builder) Default(fn func() any) *Builder {
	if fn == nil {
		b.err(fmt.Errorf("field %q: nil default", b.desc.Property))
		return b
	}
	b.desc.Default = fn
	return b
}

// Comment sets the comment of the field.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the ocean.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

func (b *Builder) err(err error) {
	if b.desc.Err == nil {
		b.desc.Err = err
	}
}
