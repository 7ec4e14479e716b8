// Package ocean maps Go schema declarations onto a property graph store.
//
// A declared type embeds Schema and overrides the methods it needs:
//
//	type Person struct {
//	    ocean.Schema
//	}
//
//	func (Person) Config() ocean.Config {
//	    return ocean.Config{Label: "person", KeyPolicy: ocean.StringKey}
//	}
//
//	func (Person) Fields() []ocean.Field {
//	    return []ocean.Field{
//	        field.String("name").Required(),
//	        field.Int("age"),
//	    }
//	}
//
// The label package compiles declarations into immutable label schemas, the
// entity package holds vertex and edge values, and the mapper package turns
// batches of entities into statements.
package ocean

import (
	"fmt"
	"strings"

	"github.com/syssam/ocean/schema/field"
)

// Kind tells whether a declared type is a vertex tag or an edge type.
type Kind uint8

// List of label kinds.
const (
	KindVertex Kind = iota
	KindEdge
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Valid reports if k is a known kind.
func (k Kind) Valid() bool { return k <= KindEdge }

// ParseKind returns the kind with the given name. The empty string is KindVertex.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertex", "tag":
		return KindVertex, nil
	case "edge":
		return KindEdge, nil
	default:
		return 0, fmt.Errorf("ocean: unknown kind %q", s)
	}
}

// The Interface type describes the requirements for a declared graph type.
type Interface interface {
	// Type is a dummy method, used to distinguish declarations from other
	// interface implementations.
	Type()
	// Config returns the label configuration of the type.
	Config() Config
	// Fields returns the property fields of the type.
	Fields() []Field
	// Mixin returns the mixins whose fields are enumerated before the
	// type's own fields.
	Mixin() []Mixin
}

// Named is implemented by declarations whose identity is not their Go type
// alone, such as types loaded from schema files at run time. Values of one
// Go type with distinct names get distinct label schemas.
type Named interface {
	Name() string
}

// Schema is the default implementation of Interface. It should be embedded
// in every declared type.
type Schema struct{}

// Type implements Interface.
func (Schema) Type() {}

// Config returns the zero configuration.
func (Schema) Config() Config { return Config{} }

// Fields returns no fields.
func (Schema) Fields() []Field { return nil }

// Mixin returns no mixins.
func (Schema) Mixin() []Mixin { return nil }

var _ Interface = (*Schema)(nil)

// Config holds the label metadata of a declared type.
type Config struct {
	// Label is the vertex tag or edge type name in the store.
	Label string
	// Kind defaults to KindVertex.
	Kind Kind
	// KeyPolicy selects how vertex identifiers are rendered. The zero value
	// is StringKey.
	KeyPolicy Policy
	// IDAsField stores the vertex identifier field as a property.
	IDAsField bool
	// SrcIDAsField and DstIDAsField store the edge endpoint identifier
	// fields as properties.
	SrcIDAsField bool
	DstIDAsField bool
	// Src and Dst are the endpoint vertex types of an edge.
	Src Interface
	Dst Interface
	// Comment is used in diagnostics and generated code.
	Comment string
}

// A Field is a property of a declared type.
type Field interface {
	Descriptor() *field.Descriptor
}

// A Mixin is a reusable set of fields. Mixins are flat: a mixin lists its
// fields directly and has no mixins of its own.
type Mixin interface {
	Fields() []Field
}
