package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/compiler/load"
	"github.com/syssam/ocean/label"
)

func newCheckCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a schema file and print its labels",
		Long: `Validate a schema file and build the label schema of every type, which also
resolves formatter names and edge endpoints.`,
		Example: `  ocean check -f schema.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			doc, err := load.Load(file)
			if err != nil {
				return err
			}
			schemas, err := resolve(doc, label.NewRegistry())
			if err != nil {
				return err
			}
			for i, s := range doc.Types {
				printLabel(cmd.OutOrStdout(), s.Name, schemas[i])
			}
			logger.Debug("Schema file is valid", "file", file, "types", len(doc.Types))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "schema file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// resolve builds the label schema of every type of doc in declaration order.
func resolve(doc *load.Document, reg *label.Registry) ([]*label.Schema, error) {
	decls := doc.Declarations()
	schemas := make([]*label.Schema, 0, len(doc.Types))
	for _, t := range doc.Types {
		var (
			s   *label.Schema
			err error
		)
		if t.IsEdge() {
			s, err = reg.Edge(decls[t.Name])
		} else {
			s, err = reg.Vertex(decls[t.Name])
		}
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func printLabel(w io.Writer, name string, s *label.Schema) {
	switch s.Kind() {
	case ocean.KindEdge:
		fmt.Fprintf(w, "%s: edge %s (%s -> %s)\n", name, s.Label(), s.Src().Label(), s.Dst().Label())
	default:
		fmt.Fprintf(w, "%s: vertex %s (%s)\n", name, s.Label(), s.KeyPolicy())
	}
	fmt.Fprintf(w, "  properties: %s\n", strings.Join(s.Properties(), ", "))
	if req := s.Required(); len(req) > 0 {
		fmt.Fprintf(w, "  required: %s\n", strings.Join(req, ", "))
	}
}
