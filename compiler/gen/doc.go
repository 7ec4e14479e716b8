// Package gen generates Go declarations from schema files.
//
// Each vertex and edge type of a load.Document becomes a struct embedding
// ocean.Schema, with Config, Mixin and Fields methods built from the field
// builders of schema/field, and a const block naming its label and
// properties. A shared graph file lists the declarations and registers them
// in a label.Registry:
//
//	doc, err := load.Load("schema.yaml")
//	if err != nil {
//		return err
//	}
//	g, err := gen.NewGenerator(doc, gen.WithTarget("./graph"))
//	if err != nil {
//		return err
//	}
//	paths, err := g.Generate(ctx)
//
// Files are rendered with jennifer and written in parallel.
//
// # Error Handling
//
//   - ConfigError: invalid options, matched by ErrMissingConfig
//   - GenerationError: a file could not be rendered or written, matched by
//     ErrGenerationFailed
package gen
