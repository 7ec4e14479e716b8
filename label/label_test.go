package label_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/format"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/ngql"
	"github.com/syssam/ocean/schema/field"
	"github.com/syssam/ocean/schema/mixin"
)

type person struct{ ocean.Schema }

func (person) Config() ocean.Config {
	return ocean.Config{Label: "person", KeyPolicy: ocean.StringKey}
}

func (person) Mixin() []ocean.Mixin {
	return []ocean.Mixin{mixin.CreateTime{}}
}

func (person) Fields() []ocean.Field {
	return []ocean.Field{
		field.String("pid").VertexID().Formatter(format.Lower),
		field.String("name").Required().Formatter(format.Trim),
		field.Int("age"),
		field.Date("born"),
	}
}

type account struct{ ocean.Schema }

func (account) Config() ocean.Config {
	return ocean.Config{Label: "account", KeyPolicy: ocean.Int64, IDAsField: true}
}

func (account) Fields() []ocean.Field {
	return []ocean.Field{
		field.Int64("aid").VertexID(),
		field.String("email").FormatterName("lower"),
	}
}

type follow struct{ ocean.Schema }

func (follow) Config() ocean.Config {
	return ocean.Config{
		Label: "follow",
		Kind:  ocean.KindEdge,
		Src:   person{},
		Dst:   account{},
	}
}

func (follow) Fields() []ocean.Field {
	return []ocean.Field{
		field.String("from").SrcID().Formatter(format.Upper),
		field.Int64("to").DstID(),
		field.Double("degree").Required(),
	}
}

func TestBuildVertex(t *testing.T) {
	t.Parallel()

	s, err := label.Build(person{}, true, true)
	require.NoError(t, err)

	assert.Equal(t, "github.com/syssam/ocean/label_test.person", s.Owner())
	assert.Equal(t, "person", s.Label())
	assert.Equal(t, ocean.KindVertex, s.Kind())
	assert.Equal(t, ocean.StringKey, s.KeyPolicy())
	assert.Equal(t, []string{"created_at", "pid", "name", "age", "born"}, s.Properties())
	assert.Equal(t, map[string]string{
		"CreatedAt": "created_at",
		"Pid":       "pid",
		"Name":      "name",
		"Age":       "age",
		"Born":      "born",
	}, s.PropertyFieldMap())
	assert.Equal(t, []string{"name", "pid"}, s.Required())
	assert.True(t, s.IsRequired("name"))
	assert.False(t, s.IsRequired("age"))
	assert.Equal(t, "pid", s.IDProperty())
	assert.NotNil(t, s.IDFormatter())

	typ, ok := s.DataType("born")
	require.True(t, ok)
	assert.Equal(t, field.TypeDate, typ)

	_, ok = s.PropertyFormatter("name")
	assert.True(t, ok)
	_, ok = s.PropertyFormatter("pid")
	assert.False(t, ok, "role formatters are not property formatters")
	_, ok = s.Default("created_at")
	assert.True(t, ok)
}

func TestBuildVertexIDNotStored(t *testing.T) {
	t.Parallel()

	for _, flags := range [][2]bool{{false, false}, {true, false}, {false, true}} {
		s, err := label.Build(person{}, flags[0], flags[1])
		require.NoError(t, err)
		assert.NotContains(t, s.Properties(), "pid")
		assert.NotContains(t, s.PropertyFieldMap(), "Pid")
		assert.False(t, s.IsRequired("pid"))
		assert.Empty(t, s.IDProperty())
		// The data type and the role formatter are recorded regardless.
		typ, ok := s.DataType("pid")
		assert.True(t, ok)
		assert.Equal(t, field.TypeString, typ)
		assert.NotNil(t, s.IDFormatter())
	}
}

func TestBuildEdgeRoleExclusivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src, dst bool
		props    []string
		required []string
	}{
		{false, false, []string{"degree"}, []string{"degree"}},
		{true, false, []string{"from", "degree"}, []string{"degree", "from"}},
		{false, true, []string{"to", "degree"}, []string{"degree", "to"}},
		{true, true, []string{"from", "to", "degree"}, []string{"degree", "from", "to"}},
	}
	for _, tt := range tests {
		s, err := label.Build(follow{}, tt.src, tt.dst)
		require.NoError(t, err)
		assert.Equal(t, tt.props, s.Properties())
		assert.Equal(t, tt.required, s.Required())
		assert.Equal(t, tt.src, s.IsRequired("from"))
		_, inMap := s.PropertyFieldMap()["From"]
		assert.Equal(t, tt.src, inMap)
		assert.NotNil(t, s.SrcIDFormatter())
		assert.Nil(t, s.DstIDFormatter())
	}
}

func TestBuildEdgeEndpoints(t *testing.T) {
	t.Parallel()

	s, err := label.Build(follow{}, false, false)
	require.NoError(t, err)
	require.NotNil(t, s.Src())
	require.NotNil(t, s.Dst())
	assert.Equal(t, "person", s.Src().Label())
	assert.Equal(t, "account", s.Dst().Label())
	// account stores its id as a field.
	assert.Equal(t, "aid", s.Dst().IDProperty())

	src, err := s.EncodeSrcID("alice")
	require.NoError(t, err)
	assert.Equal(t, `"ALICE"`, src)

	dst, err := s.EncodeDstID(int64(7))
	require.NoError(t, err)
	assert.Equal(t, "7", dst)

	_, err = s.EncodeDstID("seven")
	assert.True(t, ocean.IsIncompatibleIdentifierType(err))
}

func TestEncodeReservedCharacters(t *testing.T) {
	t.Parallel()

	s, err := label.Build(follow{}, false, false)
	require.NoError(t, err)
	for _, id := range []string{`x":("a",1), "y`, "a(b", "a/b", "tab\there", "it's"} {
		_, err := s.EncodeSrcID(id)
		assert.True(t, ocean.IsInvalidEntity(err), "id %q", id)
	}
	_, err = s.Src().EncodeID(`x")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved characters")

	id, err := s.Src().EncodeID("a.b-c_d e")
	require.NoError(t, err)
	assert.Equal(t, `"a.b-c_d e"`, id)
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	a, err := label.Build(person{}, true, true)
	require.NoError(t, err)
	b, err := label.Build(person{}, true, true)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.PropertyFieldMap(), b.PropertyFieldMap())
	assert.Equal(t, a.Required(), b.Required())
	assert.Equal(t, a.DataTypes(), b.DataTypes())

	c, err := label.Build(person{}, false, false)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
	assert.True(t, a.SameType(c))

	e1, err := label.Build(follow{}, true, true)
	require.NoError(t, err)
	e2, err := label.Build(follow{}, true, true)
	require.NoError(t, err)
	assert.True(t, e1.Equal(e2))
}

func TestSchemaCopies(t *testing.T) {
	t.Parallel()

	s, err := label.Build(person{}, true, true)
	require.NoError(t, err)

	props := s.Properties()
	props[0] = "mutated"
	s.PropertyFieldMap()["Name"] = "mutated"
	s.DataTypes()["age"] = field.TypeBool

	assert.Equal(t, "created_at", s.Properties()[0])
	assert.Equal(t, "name", s.PropertyFieldMap()["Name"])
	typ, _ := s.DataType("age")
	assert.Equal(t, field.TypeInt64, typ)
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	s, err := label.Build(person{}, true, true)
	require.NoError(t, err)

	v, err := s.FormatValue("name", "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)

	v, err = s.FormatValue("pid", "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	born := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	v, err = s.FormatValue("born", born)
	require.NoError(t, err)
	assert.Equal(t, ngql.Expr(`date("1990-05-17")`), v)

	v, err = s.FormatValue("unknown", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	id, err := s.EncodeID("ALICE")
	require.NoError(t, err)
	assert.Equal(t, `"alice"`, id)
}

type badFormatter struct{ ocean.Schema }

func (badFormatter) Config() ocean.Config { return ocean.Config{Label: "bad"} }

func (badFormatter) Fields() []ocean.Field {
	return []ocean.Field{field.String("name").FormatterName("no_such_formatter")}
}

type twoIDs struct{ ocean.Schema }

func (twoIDs) Config() ocean.Config { return ocean.Config{Label: "two"} }

func (twoIDs) Fields() []ocean.Field {
	return []ocean.Field{field.String("a").VertexID(), field.String("b").VertexID()}
}

type conflicting struct{ ocean.Schema }

func (conflicting) Config() ocean.Config { return ocean.Config{Label: "c"} }

func (conflicting) Fields() []ocean.Field {
	return []ocean.Field{field.String("a"), field.Int("a")}
}

type repeated struct{ ocean.Schema }

func (repeated) Config() ocean.Config { return ocean.Config{Label: "r"} }

func (repeated) Mixin() []ocean.Mixin { return []ocean.Mixin{mixin.Inherit(person{})} }

func (repeated) Fields() []ocean.Field {
	return []ocean.Field{field.String("name").Required().Formatter(format.Trim)}
}

type roleConflict struct{ ocean.Schema }

func (roleConflict) Config() ocean.Config { return ocean.Config{Label: "rc"} }

func (roleConflict) Fields() []ocean.Field {
	return []ocean.Field{field.String("a").VertexID().SrcID()}
}

type noLabel struct{ ocean.Schema }

type danglingEdge struct{ ocean.Schema }

func (danglingEdge) Config() ocean.Config {
	return ocean.Config{Label: "d", Kind: ocean.KindEdge, Src: person{}}
}

type edgeToEdge struct{ ocean.Schema }

func (edgeToEdge) Config() ocean.Config {
	return ocean.Config{Label: "e2e", Kind: ocean.KindEdge, Src: person{}, Dst: follow{}}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		decl ocean.Interface
		msg  string
	}{
		{"UnresolvableFormatter", badFormatter{}, "formatter cannot be resolved"},
		{"DuplicateRole", twoIDs{}, "role vertex_id already taken"},
		{"ConflictingProperty", conflicting{}, "conflicting metadata"},
		{"RoleConflict", roleConflict{}, "conflicts"},
		{"EmptyLabel", noLabel{}, "empty label"},
		{"DanglingEdge", danglingEdge{}, "edge without endpoint types"},
		{"EdgeEndpoint", edgeToEdge{}, "destination vertex"},
		{"Nil", nil, "nil declaration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := label.Build(tt.decl, true, true)
			require.Error(t, err)
			assert.True(t, ocean.IsSchemaBuildError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := label.Build(badFormatter{}, true, true)
	assert.True(t, errors.Is(err, format.ErrUnknownFormatter))

	// A property declared twice with the same metadata is accepted once.
	s, err := label.Build(repeated{}, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"created_at", "pid", "name", "age", "born"}, s.Properties())
}

func TestWithFormats(t *testing.T) {
	t.Parallel()

	formats := format.NewRegistry()
	formats.MustRegister("no_such_formatter", format.Upper)
	s, err := label.Build(badFormatter{}, true, true, label.WithFormats(formats))
	require.NoError(t, err)
	v, err := s.FormatValue("name", "x")
	require.NoError(t, err)
	assert.Equal(t, "X", v)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := label.NewRegistry()
	p1, err := r.Vertex(person{})
	require.NoError(t, err)
	p2, err := r.Vertex(person{})
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Empty(t, p1.IDProperty(), "person does not store its id")

	e, err := r.Edge(follow{})
	require.NoError(t, err)
	assert.Same(t, p1, e.Src(), "endpoints come from the registry")

	a, err := r.Vertex(account{})
	require.NoError(t, err)
	assert.Same(t, a, e.Dst())
	assert.Equal(t, 3, r.Len())

	_, err = r.Vertex(follow{})
	assert.True(t, ocean.IsSchemaBuildError(err))
	_, err = r.Edge(person{})
	assert.True(t, ocean.IsSchemaBuildError(err))

	_, err = r.Vertex(badFormatter{})
	assert.Error(t, err)
	assert.Equal(t, 3, r.Len(), "failed builds are not cached")
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	r := label.NewRegistry()
	const n = 64
	results := make([]*label.Schema, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Edge(follow{})
			if err == nil {
				results[i] = s
			}
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 3, r.Len())
}

type named struct {
	ocean.Schema
	name string
}

func (n named) Name() string { return n.name }

func (n named) Config() ocean.Config {
	return ocean.Config{Label: n.name}
}

func TestRegistryNamedDeclarations(t *testing.T) {
	t.Parallel()

	reg := label.NewRegistry()
	a, err := reg.Vertex(named{name: "a"})
	require.NoError(t, err)
	b, err := reg.Vertex(named{name: "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", a.Label())
	assert.Equal(t, "b", b.Label())
	assert.False(t, a.SameType(b))
	assert.Contains(t, a.Owner(), "#a")

	again, err := reg.Vertex(named{name: "a"})
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 2, reg.Len())
}
