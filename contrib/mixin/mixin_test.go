package mixin_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/contrib/mixin"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/schema/field"
)

type doc struct{ ocean.Schema }

func (doc) Config() ocean.Config { return ocean.Config{Label: "doc"} }

func (doc) Mixin() []ocean.Mixin {
	return []ocean.Mixin{mixin.UUID{}, mixin.TenantID{}, mixin.SoftDelete{}, mixin.Audit{}}
}

func (doc) Fields() []ocean.Field {
	return []ocean.Field{field.String("title")}
}

func TestUUID(t *testing.T) {
	t.Parallel()

	fields := mixin.UUID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "uuid", desc.Property)
	assert.Equal(t, field.TypeUUID, desc.Type)
	require.NotNil(t, desc.Default)
	a, b := desc.Default(), desc.Default()
	assert.IsType(t, uuid.UUID{}, a)
	assert.NotEqual(t, a, b)
}

func TestSoftDelete(t *testing.T) {
	t.Parallel()

	desc := mixin.SoftDelete{}.Fields()[0].Descriptor()
	assert.Equal(t, "deleted_at", desc.Property)
	assert.Equal(t, field.TypeTimestamp, desc.Type)
	assert.False(t, desc.Required)
	assert.Nil(t, desc.Default)
}

func TestTenantID(t *testing.T) {
	t.Parallel()

	desc := mixin.TenantID{}.Fields()[0].Descriptor()
	assert.Equal(t, "tenant_id", desc.Property)
	assert.True(t, desc.Required)
	assert.Equal(t, "trim", desc.FormatterName)
}

func TestAudit(t *testing.T) {
	t.Parallel()

	fields := mixin.Audit{}.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "created_by", fields[0].Descriptor().Property)
	assert.Equal(t, "updated_by", fields[1].Descriptor().Property)
}

func TestMixinSchema(t *testing.T) {
	t.Parallel()

	s, err := label.NewRegistry().Vertex(doc{})
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid", "tenant_id", "deleted_at", "created_by", "updated_by", "title"}, s.Properties())
	assert.Equal(t, []string{"tenant_id"}, s.Required())

	v, err := s.FormatValue("tenant_id", "  acme ")
	require.NoError(t, err)
	assert.Equal(t, "acme", v)
}
