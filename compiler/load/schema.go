// Package load reads graph type declarations from YAML schema files.
//
// A schema file lists vertex and edge types:
//
//	package: graphschema
//	types:
//	  - name: Person
//	    label: person
//	    key_policy: string_key
//	    mixin: [time]
//	    fields:
//	      - property: name
//	        type: string
//	        required: true
//	  - name: Follow
//	    kind: edge
//	    src: Person
//	    dst: Person
//	    fields:
//	      - property: degree
//	        type: int
//
// Loaded types are validated as a whole and can be used directly as
// ocean.Interface declarations, or handed to the code generator.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/schema/field"
)

// ErrInvalidSchema is matched by every validation error of a schema file.
var ErrInvalidSchema = errors.New("load: invalid schema")

// Document is the content of one schema file.
type Document struct {
	// Package is the default package name of generated code.
	Package string    `yaml:"package,omitempty"`
	Types   []*Schema `yaml:"types"`

	byName map[string]*Schema
}

// Schema is a vertex or edge type loaded from a schema file.
type Schema struct {
	Name         string   `yaml:"name"`
	Label        string   `yaml:"label,omitempty"`
	Kind         string   `yaml:"kind,omitempty"`
	KeyPolicy    string   `yaml:"key_policy,omitempty"`
	IDAsField    bool     `yaml:"id_as_field,omitempty"`
	SrcIDAsField bool     `yaml:"src_id_as_field,omitempty"`
	DstIDAsField bool     `yaml:"dst_id_as_field,omitempty"`
	Src          string   `yaml:"src,omitempty"`
	Dst          string   `yaml:"dst,omitempty"`
	Mixin        []string `yaml:"mixin,omitempty"`
	Comment      string   `yaml:"comment,omitempty"`
	Fields       []*Field `yaml:"fields,omitempty"`

	kind   ocean.Kind
	policy ocean.Policy
}

// Field is a property of a loaded type.
type Field struct {
	// Name is the Go field name. It defaults to the camel-cased property.
	Name      string `yaml:"name,omitempty"`
	Property  string `yaml:"property"`
	Type      string `yaml:"type"`
	Size      int    `yaml:"size,omitempty"`
	Role      string `yaml:"role,omitempty"`
	Required  bool   `yaml:"required,omitempty"`
	Formatter string `yaml:"formatter,omitempty"`
	Comment   string `yaml:"comment,omitempty"`

	typ  field.Type
	role field.Role
}

// Load reads and validates the schema file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a schema document.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads and validates a schema document from r. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("load: decode: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Lookup returns the type with the given name.
func (d *Document) Lookup(name string) (*Schema, bool) {
	s, ok := d.byName[name]
	return s, ok
}

// Vertices returns the vertex types in declaration order.
func (d *Document) Vertices() []*Schema { return d.filter(ocean.KindVertex) }

// Edges returns the edge types in declaration order.
func (d *Document) Edges() []*Schema { return d.filter(ocean.KindEdge) }

func (d *Document) filter(k ocean.Kind) []*Schema {
	var out []*Schema
	for _, s := range d.Types {
		if s.kind == k {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks every type of the document and fills in defaults: the
// label defaults to the snake-cased type name and the field name to the
// camel-cased property.
func (d *Document) Validate() error {
	if len(d.Types) == 0 {
		return fmt.Errorf("%w: no types", ErrInvalidSchema)
	}
	if d.Package != "" && !token.IsIdentifier(d.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidSchema, d.Package)
	}
	d.byName = make(map[string]*Schema, len(d.Types))
	for i, s := range d.Types {
		if s == nil {
			return fmt.Errorf("%w: type #%d is empty", ErrInvalidSchema, i+1)
		}
		if err := s.validate(); err != nil {
			return err
		}
		if _, ok := d.byName[s.Name]; ok {
			return s.errorf("declared twice")
		}
		d.byName[s.Name] = s
	}
	for _, s := range d.Types {
		if s.kind != ocean.KindEdge {
			continue
		}
		for _, end := range []string{s.Src, s.Dst} {
			t, ok := d.byName[end]
			switch {
			case !ok:
				return s.errorf("endpoint type %q is not declared", end)
			case t.kind != ocean.KindVertex:
				return s.errorf("endpoint type %q is not a vertex", end)
			}
		}
	}
	return nil
}

func (s *Schema) validate() (err error) {
	if !token.IsIdentifier(s.Name) {
		return fmt.Errorf("%w: type name %q is not an identifier", ErrInvalidSchema, s.Name)
	}
	if s.Label == "" {
		s.Label = inflect.Underscore(s.Name)
	}
	if s.kind, err = ocean.ParseKind(s.Kind); err != nil {
		return s.errorf("%v", err)
	}
	if s.policy, err = ocean.ParsePolicy(s.KeyPolicy); err != nil {
		return s.errorf("%v", err)
	}
	switch s.kind {
	case ocean.KindVertex:
		if s.Src != "" || s.Dst != "" || s.SrcIDAsField || s.DstIDAsField {
			return s.errorf("endpoint settings on a vertex type")
		}
	case ocean.KindEdge:
		if s.Src == "" || s.Dst == "" {
			return s.errorf("edge without endpoint types")
		}
		if s.IDAsField {
			return s.errorf("id_as_field on an edge type")
		}
	}
	for _, m := range s.Mixin {
		if _, ok := LookupMixin(m); !ok {
			return s.errorf("unknown mixin %q", m)
		}
	}
	props := make(map[string]bool, len(s.Fields))
	roles := make(map[field.Role]string)
	for i, f := range s.Fields {
		if f == nil {
			return s.errorf("field #%d is empty", i+1)
		}
		if err := f.validate(s.kind); err != nil {
			return s.errorf("%v", err)
		}
		if props[f.Property] {
			return s.errorf("duplicate property %q", f.Property)
		}
		props[f.Property] = true
		if f.role != field.RoleOrdinary {
			if other, ok := roles[f.role]; ok {
				return s.errorf("role %s taken by %q and %q", f.role, other, f.Property)
			}
			roles[f.role] = f.Property
		}
	}
	return nil
}

func (f *Field) validate(k ocean.Kind) (err error) {
	if f.Property == "" {
		return errors.New("field without property")
	}
	if f.Name == "" {
		f.Name = inflect.Camelize(f.Property)
	}
	if !token.IsIdentifier(f.Name) {
		return fmt.Errorf("field %q: name %q is not an identifier", f.Property, f.Name)
	}
	if f.typ, err = field.ParseType(f.Type); err != nil {
		return fmt.Errorf("field %q: %w", f.Property, err)
	}
	switch {
	case f.typ == field.TypeFixedString && f.Size <= 0:
		return fmt.Errorf("field %q: fixed_string requires a positive size", f.Property)
	case f.typ != field.TypeFixedString && f.Size != 0:
		return fmt.Errorf("field %q: size is only valid for fixed_string", f.Property)
	}
	if f.role, err = field.ParseRole(f.Role); err != nil {
		return fmt.Errorf("field %q: %w", f.Property, err)
	}
	switch {
	case f.role == field.RoleVertexID && k != ocean.KindVertex:
		return fmt.Errorf("field %q: role %s on an edge type", f.Property, f.role)
	case (f.role == field.RoleSrcID || f.role == field.RoleDstID) && k != ocean.KindEdge:
		return fmt.Errorf("field %q: role %s on a vertex type", f.Property, f.role)
	}
	return nil
}

func (s *Schema) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: type %q: %s", ErrInvalidSchema, s.Name, fmt.Sprintf(format, args...))
}

// KindValue returns the parsed kind of the type.
func (s *Schema) KindValue() ocean.Kind { return s.kind }

// PolicyValue returns the parsed key policy of the type.
func (s *Schema) PolicyValue() ocean.Policy { return s.policy }

// TypeValue returns the parsed data type of the field.
func (f *Field) TypeValue() field.Type { return f.typ }

// RoleValue returns the parsed role of the field.
func (f *Field) RoleValue() field.Role { return f.role }

// IsEdge reports if the type is an edge type.
func (s *Schema) IsEdge() bool { return s.kind == ocean.KindEdge }

// String returns the type name and label.
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Label != "" {
		b.WriteString("(" + s.Label + ")")
	}
	return b.String()
}
