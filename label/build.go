package label

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/format"
	"github.com/syssam/ocean/schema/field"
)

// Option configures schema building.
type Option func(*buildConfig)

type buildConfig struct {
	formats *format.Registry
	// resolves endpoint vertex schemas; Build uses a plain recursive build.
	vertex func(ocean.Interface) (*Schema, error)
}

// WithFormats sets the registry used to resolve formatter names.
// Defaults to format.Default().
func WithFormats(r *format.Registry) Option {
	return func(c *buildConfig) {
		if r != nil {
			c.formats = r
		}
	}
}

func newBuildConfig(opts []Option) *buildConfig {
	c := &buildConfig{formats: format.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build compiles a declared type into a label schema.
//
// Mixin fields are enumerated first, then the type's own fields. A field
// with the vertex_id role is stored only when both flags are set, a src_id
// field only when srcIDAsField is set and a dst_id field only when
// dstIDAsField is set. Ordinary fields are always stored. Data types are
// recorded for every field.
//
// Edge schemas resolve their endpoint vertex schemas; a vertex is built with
// both flags equal to its IDAsField setting.
func Build(decl ocean.Interface, srcIDAsField, dstIDAsField bool, opts ...Option) (*Schema, error) {
	c := newBuildConfig(opts)
	if c.vertex == nil {
		c.vertex = func(v ocean.Interface) (*Schema, error) {
			if v == nil {
				return nil, errors.New("nil declaration")
			}
			cfg := v.Config()
			if cfg.Kind != ocean.KindVertex {
				return nil, fmt.Errorf("expect vertex, got %s", cfg.Kind)
			}
			return build(v, cfg.IDAsField, cfg.IDAsField, c)
		}
	}
	return build(decl, srcIDAsField, dstIDAsField, c)
}

func build(decl ocean.Interface, srcAsField, dstAsField bool, c *buildConfig) (*Schema, error) {
	if decl == nil {
		return nil, ocean.NewSchemaBuildError("", "", "nil declaration", nil)
	}
	owner := ownerName(decl)
	cfg := decl.Config()
	switch {
	case cfg.Label == "":
		return nil, ocean.NewSchemaBuildError(owner, "", "empty label", nil)
	case !cfg.Kind.Valid():
		return nil, ocean.NewSchemaBuildError(owner, "", fmt.Sprintf("unknown kind %d", cfg.Kind), nil)
	case !cfg.KeyPolicy.Valid():
		return nil, ocean.NewSchemaBuildError(owner, "", fmt.Sprintf("unknown key policy %d", cfg.KeyPolicy), nil)
	case cfg.Kind == ocean.KindEdge && (cfg.Src == nil || cfg.Dst == nil):
		return nil, ocean.NewSchemaBuildError(owner, "", "edge without endpoint types", nil)
	}
	s := &Schema{
		typ:        reflect.TypeOf(decl),
		owner:      owner,
		label:      cfg.Label,
		kind:       cfg.Kind,
		policy:     cfg.KeyPolicy,
		comment:    cfg.Comment,
		srcAsField: srcAsField,
		dstAsField: dstAsField,
		fieldMap:   make(map[string]string),
		required:   make(map[string]struct{}),
		dataTypes:  make(map[string]field.Type),
		formatters: make(map[string]format.Formatter),
		defaults:   make(map[string]func() any),
	}
	b := &builder{s: s, c: c, seen: make(map[string]*field.Descriptor), roles: make(map[field.Role]string)}
	for _, m := range decl.Mixin() {
		if m == nil {
			return nil, ocean.NewSchemaBuildError(owner, "", "nil mixin", nil)
		}
		if err := b.fields(m.Fields()); err != nil {
			return nil, err
		}
	}
	if err := b.fields(decl.Fields()); err != nil {
		return nil, err
	}
	if cfg.Kind == ocean.KindEdge {
		var err error
		if s.src, err = c.vertex(cfg.Src); err != nil {
			return nil, ocean.NewSchemaBuildError(owner, "", "resolving source vertex", err)
		}
		if s.dst, err = c.vertex(cfg.Dst); err != nil {
			return nil, ocean.NewSchemaBuildError(owner, "", "resolving destination vertex", err)
		}
		if s.src.kind != ocean.KindVertex || s.dst.kind != ocean.KindVertex {
			return nil, ocean.NewSchemaBuildError(owner, "", "edge endpoints must be vertex types", nil)
		}
	}
	return s, nil
}

type builder struct {
	s     *Schema
	c     *buildConfig
	seen  map[string]*field.Descriptor
	roles map[field.Role]string
}

func (b *builder) fields(fields []ocean.Field) error {
	for _, f := range fields {
		if f == nil {
			return ocean.NewSchemaBuildError(b.s.owner, "", "nil field", nil)
		}
		if err := b.field(f.Descriptor()); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) field(fd *field.Descriptor) error {
	s := b.s
	if fd == nil {
		return ocean.NewSchemaBuildError(s.owner, "", "nil field descriptor", nil)
	}
	if fd.Err != nil {
		return ocean.NewSchemaBuildError(s.owner, fd.Property, "invalid field", fd.Err)
	}
	if !fd.Type.Valid() {
		return ocean.NewSchemaBuildError(s.owner, fd.Property, fmt.Sprintf("invalid type %d", fd.Type), nil)
	}
	if prev, ok := b.seen[fd.Property]; ok {
		if !sameDescriptor(prev, fd) {
			return ocean.NewSchemaBuildError(s.owner, fd.Property, "duplicate property with conflicting metadata", nil)
		}
		return nil
	}
	b.seen[fd.Property] = fd
	if fd.Role != field.RoleOrdinary {
		if prev, ok := b.roles[fd.Role]; ok {
			return ocean.NewSchemaBuildError(s.owner, fd.Property, fmt.Sprintf("role %s already taken by %q", fd.Role, prev), nil)
		}
		b.roles[fd.Role] = fd.Property
	}
	f, err := b.formatter(fd)
	if err != nil {
		return err
	}
	s.dataTypes[fd.Property] = fd.Type
	var stored bool
	switch fd.Role {
	case field.RoleVertexID:
		stored = s.srcAsField && s.dstAsField
		s.idFmt = f
		if stored {
			s.idProp = fd.Property
		}
	case field.RoleSrcID:
		stored = s.srcAsField
		s.srcFmt = f
		if stored {
			s.srcProp = fd.Property
		}
	case field.RoleDstID:
		stored = s.dstAsField
		s.dstFmt = f
		if stored {
			s.dstProp = fd.Property
		}
	default:
		stored = true
		if f != nil {
			s.formatters[fd.Property] = f
		}
	}
	if !stored {
		return nil
	}
	if other, ok := s.fieldMap[fd.Name]; ok {
		return ocean.NewSchemaBuildError(s.owner, fd.Property, fmt.Sprintf("field name %s already maps to %q", fd.Name, other), nil)
	}
	s.fieldMap[fd.Name] = fd.Property
	s.properties = append(s.properties, fd.Property)
	// Stored identity fields are always required; ordinary ones only when marked.
	if fd.Required || fd.Role != field.RoleOrdinary {
		s.required[fd.Property] = struct{}{}
	}
	if fd.Default != nil {
		s.defaults[fd.Property] = fd.Default
	}
	return nil
}

func (b *builder) formatter(fd *field.Descriptor) (format.Formatter, error) {
	switch {
	case !format.IsNone(fd.Formatter):
		return fd.Formatter, nil
	case fd.FormatterName != "":
		f, err := b.c.formats.Lookup(fd.FormatterName)
		if err != nil {
			return nil, ocean.NewSchemaBuildError(b.s.owner, fd.Property, "formatter cannot be resolved", err)
		}
		return f, nil
	default:
		return nil, nil
	}
}

// sameDescriptor reports if two declarations of the same property agree.
func sameDescriptor(a, b *field.Descriptor) bool {
	return a.Name == b.Name &&
		a.Type == b.Type &&
		a.Size == b.Size &&
		a.Role == b.Role &&
		a.Required == b.Required &&
		a.FormatterName == b.FormatterName &&
		format.IsNone(a.Formatter) == format.IsNone(b.Formatter)
}

func ownerName(decl any) string {
	if n, ok := decl.(ocean.Named); ok {
		return typeName(reflect.TypeOf(decl)) + "#" + n.Name()
	}
	return typeName(reflect.TypeOf(decl))
}

func typeName(t reflect.Type) string {
	var prefix string
	for t.Kind() == reflect.Pointer {
		prefix += "*"
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return prefix + t.String()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}
