package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/compiler/load"
	"github.com/syssam/ocean/schema/field"
)

const (
	oceanPkg = "github.com/syssam/ocean"
	fieldPkg = oceanPkg + "/schema/field"
	labelPkg = oceanPkg + "/label"

	// graphFile holds the declarations shared by all types.
	graphFile = "ocean.go"
)

// Names declared by the graph file.
var reserved = map[string]bool{"Vertices": true, "Edges": true, "Register": true}

var policyIdents = map[ocean.Policy]string{
	ocean.StringKey: "StringKey",
	ocean.Int64:     "Int64",
	ocean.UUID:      "UUID",
	ocean.Hash:      "Hash",
}

var constructors = map[field.Type]string{
	field.TypeString:    "String",
	field.TypeInt8:      "Int8",
	field.TypeInt16:     "Int16",
	field.TypeInt32:     "Int32",
	field.TypeInt64:     "Int64",
	field.TypeFloat:     "Float",
	field.TypeDouble:    "Double",
	field.TypeBool:      "Bool",
	field.TypeDate:      "Date",
	field.TypeTime:      "Time",
	field.TypeDateTime:  "DateTime",
	field.TypeTimestamp: "Timestamp",
	field.TypeUUID:      "UUID",
}

// Generator renders Go declarations for the types of a schema document:
// one file per type and a graph file listing them.
type Generator struct {
	doc *load.Document
	cfg *Config
	pkg string
}

// job is one file to render.
type job struct {
	name string
	typ  string
	file *jen.File
}

// NewGenerator returns a generator for doc.
func NewGenerator(doc *load.Document, opts ...Option) (*Generator, error) {
	if doc == nil {
		return nil, NewConfigError("Document", nil, "schema document cannot be nil")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g := &Generator{doc: doc, cfg: cfg, pkg: cfg.packageName(doc.Package)}
	files := map[string]string{graphFile: ""}
	for _, s := range doc.Types {
		if reserved[s.Name] {
			return nil, &GenerationError{Type: s.Name, Cause: errors.New("type name is reserved")}
		}
		name := snake(s.Name) + ".go"
		if other, ok := files[name]; ok {
			if other == "" {
				other = "graph"
			}
			return nil, &GenerationError{Type: s.Name, File: name, Cause: fmt.Errorf("file name collides with %s", other)}
		}
		files[name] = s.Name
	}
	return g, nil
}

// Package returns the name of the generated package.
func (g *Generator) Package() string { return g.pkg }

// Files renders every file in memory, keyed by file name.
func (g *Generator) Files() (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, j := range g.jobs() {
		var buf bytes.Buffer
		if err := j.file.Render(&buf); err != nil {
			return nil, &GenerationError{Type: j.typ, File: j.name, Cause: err}
		}
		out[j.name] = buf.Bytes()
	}
	return out, nil
}

// Generate writes every file to the target directory in parallel and returns
// the written paths in lexical order.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	if g.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "no target directory set")
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, err
	}
	jobs := g.jobs()
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, j := range jobs {
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := g.writeFile(j.file, j.name); err != nil {
				return &GenerationError{Type: j.typ, File: j.name, Cause: err}
			}
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(jobs))
	for _, j := range jobs {
		paths = append(paths, filepath.Join(g.cfg.Target, j.name))
	}
	slices.Sort(paths)
	return paths, nil
}

func (g *Generator) jobs() []job {
	jobs := make([]job, 0, len(g.doc.Types)+1)
	for _, s := range g.doc.Types {
		jobs = append(jobs, job{name: snake(s.Name) + ".go", typ: s.Name, file: g.typeFile(s)})
	}
	return append(jobs, job{name: graphFile, file: g.graphFile()})
}

func (g *Generator) writeFile(f *jen.File, filename string) error {
	out, err := os.Create(filepath.Join(g.cfg.Target, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

// typeFile renders the declaration of one vertex or edge type.
func (g *Generator) typeFile(s *load.Schema) *jen.File {
	f := g.newFile()
	name := s.Name
	f.Commentf("%s holds the declaration of the %s %s.", name, s.Label, s.KindValue())
	if s.Comment != "" {
		f.Comment(s.Comment)
	}
	f.Type().Id(name).Struct(jen.Qual(oceanPkg, "Schema"))
	f.Line()

	f.Commentf("Config of the %s type.", name)
	f.Func().Params(jen.Id(name)).Id("Config").Params().Qual(oceanPkg, "Config").Block(
		jen.Return(jen.Qual(oceanPkg, "Config").Values(configDict(s))),
	)
	f.Line()

	if len(s.Mixin) > 0 {
		mixins := make([]jen.Code, 0, len(s.Mixin))
		for _, name := range s.Mixin {
			m, _ := load.LookupMixin(name)
			mixins = append(mixins, jen.Qual(m.PkgPath, m.Ident).Values())
		}
		f.Commentf("Mixin of the %s type.", name)
		f.Func().Params(jen.Id(name)).Id("Mixin").Params().Index().Qual(oceanPkg, "Mixin").Block(
			jen.Return(jen.Index().Qual(oceanPkg, "Mixin").Custom(multi, mixins...)),
		)
		f.Line()
	}

	fields := make([]jen.Code, 0, len(s.Fields))
	for _, fd := range s.Fields {
		fields = append(fields, fieldExpr(fd))
	}
	f.Commentf("Fields of the %s type.", name)
	f.Func().Params(jen.Id(name)).Id("Fields").Params().Index().Qual(oceanPkg, "Field").Block(
		jen.Return(jen.Index().Qual(oceanPkg, "Field").Custom(multi, fields...)),
	)
	f.Line()

	defs := []jen.Code{
		jen.Commentf("%sLabel is the %s name in the store.", name, labelWord(s)),
		jen.Id(name + "Label").Op("=").Lit(s.Label),
	}
	for _, fd := range s.Fields {
		defs = append(defs, jen.Id(name+"Prop"+pascal(fd.Property)).Op("=").Lit(fd.Property))
	}
	f.Const().Defs(defs...)
	return f
}

// graphFile renders the list of declared types.
func (g *Generator) graphFile() *jen.File {
	f := g.newFile()
	list := func(types []*load.Schema) jen.Code {
		items := make([]jen.Code, 0, len(types))
		for _, s := range types {
			items = append(items, jen.Id(s.Name).Values())
		}
		return jen.Index().Qual(oceanPkg, "Interface").Custom(multi, items...)
	}
	f.Comment("Vertices returns the vertex declarations of the graph.")
	f.Func().Id("Vertices").Params().Index().Qual(oceanPkg, "Interface").Block(
		jen.Return(list(g.doc.Vertices())),
	)
	f.Line()
	f.Comment("Edges returns the edge declarations of the graph.")
	f.Func().Id("Edges").Params().Index().Qual(oceanPkg, "Interface").Block(
		jen.Return(list(g.doc.Edges())),
	)
	f.Line()
	f.Comment("Register resolves every declaration of the graph in r.")
	f.Func().Id("Register").Params(jen.Id("r").Op("*").Qual(labelPkg, "Registry")).Error().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("v")).Op(":=").Range().Id("Vertices").Call()).Block(
			jen.If(jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("Vertex").Call(jen.Id("v")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Err()),
			),
		),
		jen.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Id("Edges").Call()).Block(
			jen.If(jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("Edge").Call(jen.Id("e")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Err()),
			),
		),
		jen.Return(jen.Nil()),
	)
	return f
}

var multi = jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}

func labelWord(s *load.Schema) string {
	if s.IsEdge() {
		return "edge type"
	}
	return "tag"
}

func configDict(s *load.Schema) jen.Dict {
	d := jen.Dict{
		jen.Id("Label"): jen.Lit(s.Label),
	}
	if s.IsEdge() {
		d[jen.Id("Kind")] = jen.Qual(oceanPkg, "KindEdge")
		d[jen.Id("Src")] = jen.Id(s.Src).Values()
		d[jen.Id("Dst")] = jen.Id(s.Dst).Values()
		if s.SrcIDAsField {
			d[jen.Id("SrcIDAsField")] = jen.True()
		}
		if s.DstIDAsField {
			d[jen.Id("DstIDAsField")] = jen.True()
		}
	} else {
		d[jen.Id("KeyPolicy")] = jen.Qual(oceanPkg, policyIdents[s.PolicyValue()])
		if s.IDAsField {
			d[jen.Id("IDAsField")] = jen.True()
		}
	}
	if s.Comment != "" {
		d[jen.Id("Comment")] = jen.Lit(s.Comment)
	}
	return d
}

// fieldExpr renders the builder chain of a field.
func fieldExpr(fd *load.Field) jen.Code {
	var c *jen.Statement
	if t := fd.TypeValue(); t == field.TypeFixedString {
		c = jen.Qual(fieldPkg, "FixedString").Call(jen.Lit(fd.Property), jen.Lit(fd.Size))
	} else {
		c = jen.Qual(fieldPkg, constructors[t]).Call(jen.Lit(fd.Property))
	}
	if fd.Name != inflect.Camelize(fd.Property) {
		c.Dot("StructField").Call(jen.Lit(fd.Name))
	}
	switch fd.RoleValue() {
	case field.RoleVertexID:
		c.Dot("VertexID").Call()
	case field.RoleSrcID:
		c.Dot("SrcID").Call()
	case field.RoleDstID:
		c.Dot("DstID").Call()
	}
	if fd.Required {
		c.Dot("Required").Call()
	}
	if fd.Formatter != "" {
		c.Dot("FormatterName").Call(jen.Lit(fd.Formatter))
	}
	if fd.Comment != "" {
		c.Dot("Comment").Call(jen.Lit(fd.Comment))
	}
	return c
}
