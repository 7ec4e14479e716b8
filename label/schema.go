// Package label compiles declared graph types into immutable label schemas.
//
// A label schema is built once per declared type and endpoint-flag pair and
// is safe for concurrent use:
//
//	reg := label.NewRegistry()
//	person, err := reg.Vertex(Person{})
//	follow, err := reg.Edge(Follow{})
package label

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/format"
	"github.com/syssam/ocean/ngql"
	"github.com/syssam/ocean/schema/field"
)

// Schema is the compiled metadata of one declared type. It is immutable;
// accessors return copies.
type Schema struct {
	typ     reflect.Type
	owner   string
	label   string
	kind    ocean.Kind
	policy  ocean.Policy
	comment string
	// endpoint flags the schema was built with.
	srcAsField bool
	dstAsField bool
	// stored properties in declaration order, mixin fields first.
	properties []string
	fieldMap   map[string]string
	required   map[string]struct{}
	dataTypes  map[string]field.Type
	formatters map[string]format.Formatter
	defaults   map[string]func() any
	// identity fields: the property name and optional role formatter.
	idProp, srcProp, dstProp string
	idFmt, srcFmt, dstFmt    format.Formatter
	// endpoint vertex schemas of an edge.
	src, dst *Schema
}

// Owner returns the identity of the declared type, such as "*app.Person".
func (s *Schema) Owner() string { return s.owner }

// Label returns the vertex tag or edge type name.
func (s *Schema) Label() string { return s.label }

// Kind returns the schema kind.
func (s *Schema) Kind() ocean.Kind { return s.kind }

// KeyPolicy returns the identifier policy of the declared type.
func (s *Schema) KeyPolicy() ocean.Policy { return s.policy }

// Comment returns the declared comment.
func (s *Schema) Comment() string { return s.comment }

// SrcIDAsField reports the source flag the schema was built with.
func (s *Schema) SrcIDAsField() bool { return s.srcAsField }

// DstIDAsField reports the destination flag the schema was built with.
func (s *Schema) DstIDAsField() bool { return s.dstAsField }

// Properties returns the stored properties in declaration order.
func (s *Schema) Properties() []string { return slices.Clone(s.properties) }

// PropertyFieldMap returns the mapping from field name to property name.
func (s *Schema) PropertyFieldMap() map[string]string { return maps.Clone(s.fieldMap) }

// Required returns the required properties, sorted.
func (s *Schema) Required() []string {
	req := make([]string, 0, len(s.required))
	for p := range s.required {
		req = append(req, p)
	}
	sort.Strings(req)
	return req
}

// IsRequired reports if the property must be present and non-null.
func (s *Schema) IsRequired(property string) bool {
	_, ok := s.required[property]
	return ok
}

// DataType returns the declared data type of a property. Identity fields
// have a data type even when they are not stored.
func (s *Schema) DataType(property string) (field.Type, bool) {
	t, ok := s.dataTypes[property]
	return t, ok
}

// DataTypes returns the mapping from property name to data type.
func (s *Schema) DataTypes() map[string]field.Type { return maps.Clone(s.dataTypes) }

// PropertyFormatter returns the formatter installed for an ordinary property.
func (s *Schema) PropertyFormatter(property string) (format.Formatter, bool) {
	f, ok := s.formatters[property]
	return f, ok
}

// PropertyFormatters returns the formatters of ordinary properties.
func (s *Schema) PropertyFormatters() map[string]format.Formatter { return maps.Clone(s.formatters) }

// Default returns the default value function of a property, if any.
func (s *Schema) Default(property string) (func() any, bool) {
	fn, ok := s.defaults[property]
	return fn, ok
}

// IDFormatter returns the vertex identifier formatter, or nil.
func (s *Schema) IDFormatter() format.Formatter { return s.idFmt }

// SrcIDFormatter returns the edge source identifier formatter, or nil.
func (s *Schema) SrcIDFormatter() format.Formatter { return s.srcFmt }

// DstIDFormatter returns the edge destination identifier formatter, or nil.
func (s *Schema) DstIDFormatter() format.Formatter { return s.dstFmt }

// IDProperty returns the property holding the vertex identifier when it is
// stored as a field, or "".
func (s *Schema) IDProperty() string { return s.idProp }

// SrcProperty returns the property holding the edge source identifier when
// it is stored as a field, or "".
func (s *Schema) SrcProperty() string { return s.srcProp }

// DstProperty returns the property holding the edge destination identifier
// when it is stored as a field, or "".
func (s *Schema) DstProperty() string { return s.dstProp }

// Src returns the source vertex schema of an edge.
func (s *Schema) Src() *Schema { return s.src }

// Dst returns the destination vertex schema of an edge.
func (s *Schema) Dst() *Schema { return s.dst }

// SameType reports if both schemas describe the same declared type and label.
func (s *Schema) SameType(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.typ == o.typ && s.owner == o.owner && s.label == o.label && s.kind == o.kind
}

// Equal reports if both schemas hold the same metadata. Formatters are
// compared by presence.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.SameType(o) &&
		s.policy == o.policy &&
		s.srcAsField == o.srcAsField &&
		s.dstAsField == o.dstAsField &&
		slices.Equal(s.properties, o.properties) &&
		maps.Equal(s.fieldMap, o.fieldMap) &&
		maps.Equal(s.required, o.required) &&
		maps.Equal(s.dataTypes, o.dataTypes) &&
		sameKeys(s.formatters, o.formatters) &&
		sameKeys(s.defaults, o.defaults) &&
		s.idProp == o.idProp && s.srcProp == o.srcProp && s.dstProp == o.dstProp &&
		(s.idFmt == nil) == (o.idFmt == nil) &&
		(s.srcFmt == nil) == (o.srcFmt == nil) &&
		(s.dstFmt == nil) == (o.dstFmt == nil) &&
		s.src.Equal(o.src) &&
		s.dst.Equal(o.dst)
}

func sameKeys[V any](a, b map[string]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// FormatValue converts a raw property value with the formatter installed for
// the property, or the default formatter of its data type. Stored identity
// properties use their role formatter.
func (s *Schema) FormatValue(property string, v any) (any, error) {
	if f := s.roleFormatter(property); f != nil {
		return f.Format(v)
	}
	if f, ok := s.formatters[property]; ok {
		return f.Format(v)
	}
	if t, ok := s.dataTypes[property]; ok {
		return t.DefaultFormatter().Format(v)
	}
	return v, nil
}

func (s *Schema) roleFormatter(property string) format.Formatter {
	switch property {
	case "":
		return nil
	case s.idProp:
		return s.idFmt
	case s.srcProp:
		return s.srcFmt
	case s.dstProp:
		return s.dstFmt
	}
	return nil
}

// EncodeID renders a vertex identifier: the id formatter is applied first,
// then the key policy.
func (s *Schema) EncodeID(id any) (string, error) {
	return encode(s.label, s.policy, s.idFmt, id)
}

// EncodeSrcID renders an edge source identifier with the source formatter
// and the key policy of the source vertex type.
func (s *Schema) EncodeSrcID(id any) (string, error) {
	p := s.policy
	if s.src != nil {
		p = s.src.policy
	}
	return encode(s.label, p, s.srcFmt, id)
}

// EncodeDstID renders an edge destination identifier with the destination
// formatter and the key policy of the destination vertex type.
func (s *Schema) EncodeDstID(id any) (string, error) {
	p := s.policy
	if s.dst != nil {
		p = s.dst.policy
	}
	return encode(s.label, p, s.dstFmt, id)
}

// encode rejects identifiers holding characters ngql.RemoveSpecialChar
// strips; identifiers are never altered.
func encode(label string, p ocean.Policy, f format.Formatter, id any) (string, error) {
	if f != nil {
		v, err := f.Format(id)
		if err != nil {
			return "", err
		}
		id = v
	}
	var raw string
	switch v := id.(type) {
	case string:
		raw = v
	case fmt.Stringer:
		raw = v.String()
	}
	if raw != "" && ngql.RemoveSpecialChar(raw) != raw {
		return "", ocean.NewInvalidEntityError(label, fmt.Sprintf("identifier %q contains reserved characters", raw))
	}
	return ocean.EncodeValue(p, id)
}
