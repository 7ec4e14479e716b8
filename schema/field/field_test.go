package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean/format"
	"github.com/syssam/ocean/schema/field"
)

func TestString(t *testing.T) {
	fd := field.String("user_name").
		Required().
		Comment("display name").
		Descriptor()
	require.NoError(t, fd.Err)
	assert.Equal(t, "user_name", fd.Property)
	assert.Equal(t, "UserName", fd.Name)
	assert.Equal(t, field.TypeString, fd.Type)
	assert.Equal(t, field.RoleOrdinary, fd.Role)
	assert.True(t, fd.Required)
	assert.Equal(t, "display name", fd.Comment)
	assert.False(t, fd.HasFormatter())

	fd = field.String("nick").StructField("Nickname").Descriptor()
	assert.Equal(t, "Nickname", fd.Name)

	fd = field.String("nick").StructField("").Descriptor()
	assert.Error(t, fd.Err)

	fd = field.String("").Descriptor()
	assert.EqualError(t, fd.Err, "field: empty property name")
}

func TestTypes(t *testing.T) {
	tests := []struct {
		b    *field.Builder
		want field.Type
	}{
		{field.Int8("a"), field.TypeInt8},
		{field.Int16("a"), field.TypeInt16},
		{field.Int32("a"), field.TypeInt32},
		{field.Int64("a"), field.TypeInt64},
		{field.Int("a"), field.TypeInt64},
		{field.Float("a"), field.TypeFloat},
		{field.Double("a"), field.TypeDouble},
		{field.Bool("a"), field.TypeBool},
		{field.Date("a"), field.TypeDate},
		{field.Time("a"), field.TypeTime},
		{field.DateTime("a"), field.TypeDateTime},
		{field.Timestamp("a"), field.TypeTimestamp},
		{field.UUID("a"), field.TypeUUID},
		{field.Of("a", field.TypeBool), field.TypeBool},
	}
	for _, tt := range tests {
		fd := tt.b.Descriptor()
		assert.NoError(t, fd.Err)
		assert.Equal(t, tt.want, fd.Type)
	}

	fd := field.FixedString("code", 8).Descriptor()
	assert.NoError(t, fd.Err)
	assert.Equal(t, 8, fd.Size)
	assert.Error(t, field.FixedString("code", 0).Descriptor().Err)
	assert.Error(t, field.Of("a", field.TypeInvalid).Descriptor().Err)
}

func TestRoles(t *testing.T) {
	assert.Equal(t, field.RoleVertexID, field.String("id").VertexID().Descriptor().Role)
	assert.Equal(t, field.RoleSrcID, field.String("src").SrcID().Descriptor().Role)
	assert.Equal(t, field.RoleDstID, field.String("dst").DstID().Descriptor().Role)
	assert.Equal(t, field.RoleSrcID, field.String("src").Role(field.RoleSrcID).Descriptor().Role)
	assert.Equal(t, field.RoleOrdinary, field.String("p").Role(field.RoleOrdinary).Descriptor().Role)

	// Setting the same role twice is harmless.
	fd := field.String("id").VertexID().VertexID().Descriptor()
	assert.NoError(t, fd.Err)

	// A field carries exactly one role.
	fd = field.String("id").VertexID().SrcID().Descriptor()
	require.Error(t, fd.Err)
	assert.Contains(t, fd.Err.Error(), "conflicts")
	assert.Equal(t, field.RoleVertexID, fd.Role)
}

func TestFormatter(t *testing.T) {
	fd := field.String("email").Formatter(format.Lower).Descriptor()
	assert.NoError(t, fd.Err)
	assert.True(t, fd.HasFormatter())

	fd = field.Date("born").FormatterName("date").Descriptor()
	assert.NoError(t, fd.Err)
	assert.Equal(t, "date", fd.FormatterName)
	assert.True(t, fd.HasFormatter())

	assert.Error(t, field.String("a").Formatter(nil).Descriptor().Err)
	assert.Error(t, field.String("a").Formatter(format.None).Descriptor().Err)
	assert.Error(t, field.String("a").FormatterName("").Descriptor().Err)
	assert.Error(t, field.String("a").Formatter(format.Upper).FormatterName("lower").Descriptor().Err)
	assert.Error(t, field.String("a").FormatterName("lower").Formatter(format.Upper).Descriptor().Err)
}

func TestDefault(t *testing.T) {
	fd := field.Int("age").Default(func() any { return 18 }).Descriptor()
	require.NoError(t, fd.Err)
	require.NotNil(t, fd.Default)
	assert.Equal(t, 18, fd.Default())

	assert.Error(t, field.Int("age").Default(nil).Descriptor().Err)
}

func TestFirstErrorWins(t *testing.T) {
	fd := field.String("a").Formatter(nil).VertexID().SrcID().Descriptor()
	require.Error(t, fd.Err)
	assert.Contains(t, fd.Err.Error(), "nil formatter")
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "fixed_string", field.TypeFixedString.String())
	assert.Equal(t, "invalid", field.Type(200).String())
	assert.True(t, field.TypeDouble.Numeric())
	assert.False(t, field.TypeString.Numeric())
	assert.False(t, field.TypeInvalid.Valid())

	for _, name := range []string{"string", "fixed_string", "int64", "double", "timestamp", "uuid"} {
		typ, err := field.ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, name, typ.String())
	}
	typ, err := field.ParseType("int")
	require.NoError(t, err)
	assert.Equal(t, field.TypeInt64, typ)
	_, err = field.ParseType("blob")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	for _, r := range []field.Role{field.RoleOrdinary, field.RoleVertexID, field.RoleSrcID, field.RoleDstID} {
		got, err := field.ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := field.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, field.RoleOrdinary, got)
	_, err = field.ParseRole("primary")
	assert.Error(t, err)
}

func TestDefaultFormatter(t *testing.T) {
	v, err := field.TypeString.DefaultFormatter().Format("x")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = field.TypeTimestamp.DefaultFormatter().Format(int64(10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}
