package load_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/compiler/load"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/schema/field"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	doc, err := load.Load("testdata/social.yaml")
	require.NoError(t, err)
	assert.Equal(t, "social", doc.Package)
	require.Len(t, doc.Types, 3)
	assert.Len(t, doc.Vertices(), 2)
	assert.Len(t, doc.Edges(), 1)

	p, ok := doc.Lookup("Person")
	require.True(t, ok)
	assert.Equal(t, "person", p.Label)
	assert.Equal(t, ocean.KindVertex, p.KindValue())
	assert.Equal(t, ocean.StringKey, p.PolicyValue())
	assert.Equal(t, "Pid", p.Fields[0].Name)
	assert.Equal(t, field.RoleVertexID, p.Fields[0].RoleValue())
	assert.Equal(t, field.TypeDate, p.Fields[3].TypeValue())

	f, ok := doc.Lookup("Follow")
	require.True(t, ok)
	assert.True(t, f.IsEdge())
	assert.Equal(t, "follow", f.Label)
	assert.Equal(t, "Follow(follow)", f.String())

	_, err = load.Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestDeclarations(t *testing.T) {
	t.Parallel()

	doc, err := load.Load("testdata/social.yaml")
	require.NoError(t, err)
	decls := doc.Declarations()
	reg := label.NewRegistry()

	person, err := reg.Vertex(decls["Person"])
	require.NoError(t, err)
	assert.Equal(t, []string{"created_at", "name", "age", "born"}, person.Properties())
	assert.Equal(t, []string{"name"}, person.Required())
	id, err := person.EncodeID("ALICE")
	require.NoError(t, err)
	assert.Equal(t, `"alice"`, id)

	account, err := reg.Vertex(decls["Account"])
	require.NoError(t, err)
	assert.Equal(t, []string{"aid", "email", "code"}, account.Properties())
	assert.Equal(t, ocean.Int64, account.KeyPolicy())

	follow, err := reg.Edge(decls["Follow"])
	require.NoError(t, err)
	assert.Same(t, person, follow.Src())
	assert.Same(t, account, follow.Dst())
	assert.Equal(t, []string{"degree"}, follow.Properties())
	assert.Equal(t, 3, reg.Len())
}

func TestMixins(t *testing.T) {
	t.Parallel()

	doc, err := load.Parse([]byte(`types: [{name: Doc, mixin: [uuid, tenant_id, soft_delete, audit, update_time], fields: [{property: title, type: string}]}]`))
	require.NoError(t, err)
	s, err := label.NewRegistry().Vertex(doc.Declarations()["Doc"])
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid", "tenant_id", "deleted_at", "created_by", "updated_by", "updated_at", "title"}, s.Properties())
	assert.Equal(t, []string{"tenant_id"}, s.Required())

	m, ok := load.LookupMixin("tenant_id")
	require.True(t, ok)
	assert.Equal(t, "TenantID", m.Ident)
	assert.Equal(t, "github.com/syssam/ocean/contrib/mixin", m.PkgPath)
	assert.Len(t, m.Value().Fields(), 1)
	_, ok = load.LookupMixin("audit_log")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"no types", `package: x`, "no types"},
		{"bad package", "package: 1x\ntypes: [{name: A}]", "not an identifier"},
		{"bad name", `types: [{name: "a-b"}]`, "not an identifier"},
		{"duplicate", `types: [{name: A}, {name: A}]`, "declared twice"},
		{"kind", `types: [{name: A, kind: node}]`, "unknown kind"},
		{"policy", `types: [{name: A, key_policy: random}]`, "unknown key policy"},
		{"unknown key", `types: [{name: A, colour: red}]`, "colour"},
		{"mixin", `types: [{name: A, mixin: [audit]}]`, "unknown mixin"},
		{"vertex endpoints", `types: [{name: A, src: B}]`, "endpoint settings"},
		{"edge endpoints", `types: [{name: E, kind: edge}]`, "without endpoint"},
		{"dangling endpoint", `types: [{name: E, kind: edge, src: A, dst: B}]`, "not declared"},
		{"edge endpoint", `types: [{name: A}, {name: E, kind: edge, src: A, dst: E}]`, "not a vertex"},
		{"no property", `types: [{name: A, fields: [{type: string}]}]`, "without property"},
		{"type", `types: [{name: A, fields: [{property: p, type: blob}]}]`, "unknown type"},
		{"size", `types: [{name: A, fields: [{property: p, type: fixed_string}]}]`, "positive size"},
		{"stray size", `types: [{name: A, fields: [{property: p, type: string, size: 2}]}]`, "only valid"},
		{"role", `types: [{name: A, fields: [{property: p, type: string, role: key}]}]`, "unknown role"},
		{"edge role on vertex", `types: [{name: A, fields: [{property: p, type: string, role: src_id}]}]`, "on a vertex"},
		{"vertex role on edge", "types: [{name: A}, {name: E, kind: edge, src: A, dst: A, fields: [{property: p, type: string, role: vertex_id}]}]", "on an edge"},
		{"duplicate property", `types: [{name: A, fields: [{property: p, type: string}, {property: p, type: int}]}]`, "duplicate property"},
		{"duplicate role", `types: [{name: A, fields: [{property: p, type: string, role: vertex_id}, {property: q, type: string, role: vertex_id}]}]`, "taken by"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := load.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := load.Parse([]byte(`types: [{name: A, kind: vertex}]`))
	require.NoError(t, err)
	_, err = load.Parse([]byte(`types: [{name: A, kind: node}]`))
	assert.True(t, errors.Is(err, load.ErrInvalidSchema))
}
