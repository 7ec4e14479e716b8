package mixin

import (
	"time"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/schema/field"
)

// Schema is the default implementation for the ocean.Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []ocean.Field { return nil }

// schema mixin must implement `Mixin` interface.
var _ ocean.Mixin = (*Schema)(nil)

func now() any { return time.Now() }

// Time adds created_at and updated_at timestamp properties. Both default to
// the current time when an entity leaves them unset.
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []ocean.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// CreateTime adds only the created_at timestamp property.
type CreateTime struct {
	Schema
}

// Fields returns the created_at field.
func (CreateTime) Fields() []ocean.Field {
	return []ocean.Field{
		field.Timestamp("created_at").
			Default(now).
			Comment("Timestamp when the entity was created"),
	}
}

// UpdateTime adds only the updated_at timestamp property.
type UpdateTime struct {
	Schema
}

// Fields returns the updated_at field.
func (UpdateTime) Fields() []ocean.Field {
	return []ocean.Field{
		field.Timestamp("updated_at").
			Default(now).
			Comment("Timestamp when the entity was last updated"),
	}
}

// Inherit returns a mixin holding every field of parent: the fields of its
// own mixins first, then its declared fields. It replaces implicit ancestor
// walking with explicit composition.
func Inherit(parent ocean.Interface) ocean.Mixin {
	return inherited{parent: parent}
}

type inherited struct {
	parent ocean.Interface
}

func (m inherited) Fields() []ocean.Field {
	var fields []ocean.Field
	for _, mx := range m.parent.Mixin() {
		fields = append(fields, mx.Fields()...)
	}
	return append(fields, m.parent.Fields()...)
}

// Require wraps a mixin and marks the given properties as required. With no
// properties, every field of the mixin is marked.
func Require(m ocean.Mixin, properties ...string) ocean.Mixin {
	return requirer{Mixin: m, properties: properties}
}

type requirer struct {
	ocean.Mixin
	properties []string
}

func (r requirer) Fields() []ocean.Field {
	fields := r.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Descriptor()
		if len(r.properties) == 0 || contains(r.properties, desc.Property) {
			desc.Required = true
		}
	}
	return fields
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
