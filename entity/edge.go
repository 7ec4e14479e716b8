package entity

import (
	"fmt"
	"maps"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/label"
)

// Edge is a directed relation of one edge schema.
type Edge[S, D comparable] struct {
	schema       *label.Schema
	src          S
	dst          D
	props        map[string]any
	level        int
	ignoreDirect bool
}

// EdgeOption sets traversal metadata on an edge at construction.
type EdgeOption func(*edgeOptions)

type edgeOptions struct {
	level        int
	ignoreDirect bool
}

// WithLevel sets the traversal depth the edge was found at.
func WithLevel(level int) EdgeOption {
	return func(o *edgeOptions) { o.level = level }
}

// IgnoreDirect marks the edge as undirected for traversal callers.
func IgnoreDirect() EdgeOption {
	return func(o *edgeOptions) { o.ignoreDirect = true }
}

// NewEdge returns an edge of schema s. A nil property bag is an empty bag.
func NewEdge[S, D comparable](s *label.Schema, src S, dst D, props map[string]any, opts ...EdgeOption) (*Edge[S, D], error) {
	switch {
	case s == nil:
		return nil, ocean.NewInvalidEntityError("", "nil schema")
	case s.Kind() != ocean.KindEdge:
		return nil, ocean.NewInvalidEntityError(s.Label(), "schema is not an edge schema")
	}
	var o edgeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if props == nil {
		props = map[string]any{}
	}
	return &Edge[S, D]{
		schema:       s,
		src:          src,
		dst:          dst,
		props:        maps.Clone(props),
		level:        o.level,
		ignoreDirect: o.ignoreDirect,
	}, nil
}

// MustEdge is like NewEdge but panics on error.
func MustEdge[S, D comparable](s *label.Schema, src S, dst D, props map[string]any, opts ...EdgeOption) *Edge[S, D] {
	e, err := NewEdge(s, src, dst, props, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Src returns the source identifier.
func (e *Edge[S, D]) Src() S { return e.src }

// Dst returns the destination identifier.
func (e *Edge[S, D]) Dst() D { return e.dst }

// Schema returns the edge schema.
func (e *Edge[S, D]) Schema() *label.Schema { return e.schema }

// Label returns the edge type.
func (e *Edge[S, D]) Label() string { return e.schema.Label() }

// Level returns the traversal depth.
func (e *Edge[S, D]) Level() int { return e.level }

// IgnoreDirect reports if traversal callers treat the edge as undirected.
func (e *Edge[S, D]) IgnoreDirect() bool { return e.ignoreDirect }

// Property returns a property value.
func (e *Edge[S, D]) Property(name string) (any, bool) {
	p, ok := e.props[name]
	return p, ok
}

// Properties returns a copy of the property bag.
func (e *Edge[S, D]) Properties() map[string]any { return maps.Clone(e.props) }

// Endpoints implements Relation.
func (e *Edge[S, D]) Endpoints() (src, dst any) { return e.src, e.dst }

// EncodeSrcID renders the source identifier.
func (e *Edge[S, D]) EncodeSrcID() (string, error) { return e.schema.EncodeSrcID(e.src) }

// EncodeDstID renders the destination identifier.
func (e *Edge[S, D]) EncodeDstID() (string, error) { return e.schema.EncodeDstID(e.dst) }

// Equal reports if both edges have the same endpoint identifiers and
// endpoint types. Properties and traversal metadata are ignored.
func (e *Edge[S, D]) Equal(o *Edge[S, D]) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	return e.src == o.src && e.dst == o.dst &&
		e.schema.Src().SameType(o.schema.Src()) &&
		e.schema.Dst().SameType(o.schema.Dst())
}

// EdgeKey is a comparable edge identity, usable as a map key.
type EdgeKey[S, D comparable] struct {
	SrcOwner string
	DstOwner string
	Src      S
	Dst      D
}

// Key returns the identity of the edge. Equal edges have equal keys.
func (e *Edge[S, D]) Key() EdgeKey[S, D] {
	return EdgeKey[S, D]{
		SrcOwner: ownerOf(e.schema.Src()),
		DstOwner: ownerOf(e.schema.Dst()),
		Src:      e.src,
		Dst:      e.dst,
	}
}

// Hash returns a hash combined from both identifiers and both endpoint
// types. Equal edges have equal hashes.
func (e *Edge[S, D]) Hash() uint64 {
	return combine(
		hashOf(e.src),
		hashOf(e.dst),
		hashOf(ownerOf(e.schema.Src())),
		hashOf(ownerOf(e.schema.Dst())),
	)
}

// String implements fmt.Stringer.
func (e *Edge[S, D]) String() string {
	return fmt.Sprintf("%s(%v->%v)", e.schema.Label(), e.src, e.dst)
}

func ownerOf(s *label.Schema) string {
	if s == nil {
		return ""
	}
	return s.Owner()
}
