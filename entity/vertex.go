// Package entity holds vertex and edge values bound to a label schema.
//
// Entities are immutable snapshots: the property bag is copied on
// construction and accessors return copies. Identity ignores properties.
package entity

import (
	"fmt"
	"maps"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/label"
)

// Vertex is a graph node of one vertex schema.
type Vertex[ID comparable] struct {
	schema *label.Schema
	id     ID
	props  map[string]any
}

// NewVertex returns a vertex of schema s. A nil property bag is invalid; an
// empty one is not.
func NewVertex[ID comparable](s *label.Schema, id ID, props map[string]any) (*Vertex[ID], error) {
	switch {
	case s == nil:
		return nil, ocean.NewInvalidEntityError("", "nil schema")
	case s.Kind() != ocean.KindVertex:
		return nil, ocean.NewInvalidEntityError(s.Label(), "schema is not a vertex schema")
	case props == nil:
		return nil, ocean.NewInvalidEntityError(s.Label(), "nil properties")
	}
	return &Vertex[ID]{schema: s, id: id, props: maps.Clone(props)}, nil
}

// MustVertex is like NewVertex but panics on error.
func MustVertex[ID comparable](s *label.Schema, id ID, props map[string]any) *Vertex[ID] {
	v, err := NewVertex(s, id, props)
	if err != nil {
		panic(err)
	}
	return v
}

// ID returns the vertex identifier.
func (v *Vertex[ID]) ID() ID { return v.id }

// Schema returns the vertex schema.
func (v *Vertex[ID]) Schema() *label.Schema { return v.schema }

// Label returns the vertex tag.
func (v *Vertex[ID]) Label() string { return v.schema.Label() }

// Property returns a property value.
func (v *Vertex[ID]) Property(name string) (any, bool) {
	p, ok := v.props[name]
	return p, ok
}

// Properties returns a copy of the property bag.
func (v *Vertex[ID]) Properties() map[string]any { return maps.Clone(v.props) }

// EncodeID renders the identifier with the schema's id formatter and key policy.
func (v *Vertex[ID]) EncodeID() (string, error) { return v.schema.EncodeID(v.id) }

// Equal reports if both vertices have the same identifier and type.
// Properties are ignored.
func (v *Vertex[ID]) Equal(o *Vertex[ID]) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil {
		return false
	}
	return v.id == o.id && v.schema.SameType(o.schema)
}

// VertexKey is a comparable vertex identity, usable as a map key.
type VertexKey[ID comparable] struct {
	Owner string
	Label string
	ID    ID
}

// Key returns the identity of the vertex. Equal vertices have equal keys.
func (v *Vertex[ID]) Key() VertexKey[ID] {
	return VertexKey[ID]{Owner: v.schema.Owner(), Label: v.schema.Label(), ID: v.id}
}

// Hash returns a hash combined from the identifier and the type.
// Equal vertices have equal hashes.
func (v *Vertex[ID]) Hash() uint64 {
	return combine(hashOf(v.id), hashOf(v.schema.Owner()), hashOf(v.schema.Label()))
}

// String implements fmt.Stringer.
func (v *Vertex[ID]) String() string {
	return fmt.Sprintf("%s(%v)", v.schema.Label(), v.id)
}
