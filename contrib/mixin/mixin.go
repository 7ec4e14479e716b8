// Package mixin provides optional mixins for graph type declarations, on top
// of the timestamp mixins of schema/mixin.
//
// Available mixins:
//   - UUID: adds a uuid property generated when unset
//   - SoftDelete: adds a deleted_at timestamp, NULL while the entity is live
//   - TenantID: adds a required tenant_id property
//   - Audit: adds created_by and updated_by properties
//
// Usage:
//
//	func (Person) Mixin() []ocean.Mixin {
//	    return []ocean.Mixin{
//	        mixin.TenantID{},
//	        mixin.SoftDelete{},
//	    }
//	}
//
// Schema files name them uuid, soft_delete, tenant_id and audit.
package mixin

import (
	"github.com/google/uuid"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/schema/field"
	"github.com/syssam/ocean/schema/mixin"
)

// UUID adds a uuid property. Entities leaving it unset get a random v4 uuid.
type UUID struct{ mixin.Schema }

// Fields of the UUID mixin.
func (UUID) Fields() []ocean.Field {
	return []ocean.Field{
		field.UUID("uuid").
			Default(func() any { return uuid.New() }).
			Comment("Unique identifier independent of the vertex id"),
	}
}

// SoftDelete adds a nullable deleted_at timestamp.
type SoftDelete struct{ mixin.Schema }

// Fields of the soft delete mixin.
func (SoftDelete) Fields() []ocean.Field {
	return []ocean.Field{
		field.Timestamp("deleted_at").
			Comment("Timestamp when the entity was soft deleted"),
	}
}

// TenantID adds a required tenant_id property for multi-tenant spaces.
type TenantID struct{ mixin.Schema }

// Fields of the tenant mixin.
func (TenantID) Fields() []ocean.Field {
	return []ocean.Field{
		field.String("tenant_id").
			Required().
			FormatterName("trim"),
	}
}

// Audit adds created_by and updated_by properties.
type Audit struct{ mixin.Schema }

// Fields of the audit mixin.
func (Audit) Fields() []ocean.Field {
	return []ocean.Field{
		field.String("created_by"),
		field.String("updated_by"),
	}
}

var (
	_ ocean.Mixin = (*UUID)(nil)
	_ ocean.Mixin = (*SoftDelete)(nil)
	_ ocean.Mixin = (*TenantID)(nil)
	_ ocean.Mixin = (*Audit)(nil)
)
