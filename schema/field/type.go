package field

import (
	"fmt"
	"strings"

	"github.com/syssam/ocean/format"
)

// A Type represents a declared scalar data type of a graph property.
type Type uint8

// List of property types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeFixedString
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat
	TypeDouble
	TypeBool
	TypeDate
	TypeTime
	TypeDateTime
	TypeTimestamp
	TypeUUID
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:     "invalid",
	TypeString:      "string",
	TypeFixedString: "fixed_string",
	TypeInt8:        "int8",
	TypeInt16:       "int16",
	TypeInt32:       "int32",
	TypeInt64:       "int64",
	TypeFloat:       "float",
	TypeDouble:      "double",
	TypeBool:        "bool",
	TypeDate:        "date",
	TypeTime:        "time",
	TypeDateTime:    "datetime",
	TypeTimestamp:   "timestamp",
	TypeUUID:        "uuid",
}

// String returns the store name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt8 && t <= TypeDouble
}

// DefaultFormatter returns the formatter applied to values of this type when
// the field declares none.
func (t Type) DefaultFormatter() format.Formatter {
	switch t {
	case TypeDate:
		return format.Date
	case TypeTime:
		return format.Time
	case TypeDateTime:
		return format.DateTime
	case TypeTimestamp:
		return format.Unix
	case TypeUUID:
		return format.UUID
	default:
		return format.Identity
	}
}

// ParseType returns the type with the given store name.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := TypeString; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	switch name {
	case "int":
		return TypeInt64, nil
	case "float64":
		return TypeDouble, nil
	case "float32":
		return TypeFloat, nil
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}

// A Role describes how a field takes part in a vertex or edge identity.
// A field carries exactly one role.
type Role uint8

// List of field roles.
const (
	RoleOrdinary Role = iota
	RoleVertexID
	RoleSrcID
	RoleDstID
)

var roleNames = [...]string{
	RoleOrdinary: "ordinary",
	RoleVertexID: "vertex_id",
	RoleSrcID:    "src_id",
	RoleDstID:    "dst_id",
}

// String returns the role name.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", r)
}

// ParseRole returns the role with the given name. The empty string is RoleOrdinary.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return RoleOrdinary, nil
	}
	for r, n := range roleNames {
		if n == name {
			return Role(r), nil
		}
	}
	return RoleOrdinary, fmt.Errorf("field: unknown role %q", s)
}
