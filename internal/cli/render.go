package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/ocean/compiler/load"
	"github.com/syssam/ocean/config"
	"github.com/syssam/ocean/dialect"
	"github.com/syssam/ocean/entity"
	"github.com/syssam/ocean/mapper"
)

type renderOpts struct {
	file      string
	typ       string
	data      string
	config    string
	space     string
	batchSize int
}

// row is one entity of a data file. Vertices set ID, edges set Src and Dst.
type row struct {
	ID    any            `yaml:"id"`
	Src   any            `yaml:"src"`
	Dst   any            `yaml:"dst"`
	Level int            `yaml:"level"`
	Props map[string]any `yaml:"props"`
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the statements that saving a data file would run",
		Long: `Render the INSERT statements for the entities of a data file without
connecting to a store. The data file is a YAML list of rows:

  - id: alice              # vertex types
    props: {name: Alice}
  - src: alice             # edge types
    dst: 42
    props: {degree: 3}`,
		Example: `  ocean render -f schema.yaml --type Person --data people.yaml
  ocean render -f schema.yaml --type Follow --data follows.yaml --config ocean.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := renderConfig(cmd, logger, opts)
			if err != nil {
				return err
			}
			stmts, err := render(ctx, logger, cfg, opts)
			if err != nil {
				return err
			}
			for _, st := range stmts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", st.Stmt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "schema file")
	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "type name of the rows")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "YAML data file")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "mapper config file (YAML or TOML)")
	cmd.Flags().StringVar(&opts.space, "space", "", "graph space (overrides the config)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "rows per statement (overrides the config)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// renderConfig loads the mapper config and applies flag overrides. The config
// log level applies unless --verbose is set.
func renderConfig(cmd *cobra.Command, logger *log.Logger, opts renderOpts) (*config.Config, error) {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return nil, err
		}
		if f := cmd.Flag("verbose"); f == nil || !f.Changed {
			level, _ := cfg.Log.SlogLevel()
			logger.SetLevel(log.Level(level))
		}
	}
	if opts.space != "" {
		cfg.Space = opts.space
	}
	if opts.batchSize != 0 {
		cfg.BatchSize = opts.batchSize
	}
	// Dry runs are sequential so statements print in a stable order, and
	// never reach a cache.
	cfg.Concurrency = 1
	cfg.Cache.Enabled = false
	return cfg, cfg.Validate()
}

func render(ctx context.Context, logger *log.Logger, cfg *config.Config, opts renderOpts) ([]dialect.Statement, error) {
	doc, err := load.Load(opts.file)
	if err != nil {
		return nil, err
	}
	t, ok := doc.Lookup(opts.typ)
	if !ok {
		return nil, fmt.Errorf("render: unknown type %q", opts.typ)
	}
	rows, err := readRows(opts.data)
	if err != nil {
		return nil, err
	}
	rec := dialect.NewRecorder(nil)
	m, err := mapper.Open(ctx, rec, cfg, mapper.WithLogger(slogger(logger)))
	if err != nil {
		return nil, err
	}
	defer m.Close()

	decl := doc.Declarations()[t.Name]
	prog := newProgress(logger)
	var n int
	if t.IsEdge() {
		n, err = renderEdges(ctx, m, decl, rows)
	} else {
		n, err = renderVertices(ctx, m, decl, rows)
	}
	if err != nil {
		return nil, err
	}
	stmts := rec.Statements()
	prog.done(fmt.Sprintf("Rendered %d rows into %d statements", n, len(stmts)))
	return stmts, nil
}

func renderVertices(ctx context.Context, m *mapper.Mapper, decl *load.Declaration, rows []row) (int, error) {
	s, err := m.Registry().Vertex(decl)
	if err != nil {
		return 0, err
	}
	vs := make([]*entity.Vertex[any], 0, len(rows))
	for i, r := range rows {
		if err := scalar(r.ID); err != nil {
			return 0, fmt.Errorf("render: row %d: id: %w", i+1, err)
		}
		v, err := entity.NewVertex[any](s, r.ID, props(r))
		if err != nil {
			return 0, err
		}
		vs = append(vs, v)
	}
	return mapper.SaveVertices(ctx, m, vs)
}

func renderEdges(ctx context.Context, m *mapper.Mapper, decl *load.Declaration, rows []row) (int, error) {
	s, err := m.Registry().Edge(decl)
	if err != nil {
		return 0, err
	}
	es := make([]*entity.Edge[any, any], 0, len(rows))
	for i, r := range rows {
		if err := scalar(r.Src); err != nil {
			return 0, fmt.Errorf("render: row %d: src: %w", i+1, err)
		}
		if err := scalar(r.Dst); err != nil {
			return 0, fmt.Errorf("render: row %d: dst: %w", i+1, err)
		}
		e, err := entity.NewEdge[any, any](s, r.Src, r.Dst, props(r), entity.WithLevel(r.Level))
		if err != nil {
			return 0, err
		}
		es = append(es, e)
	}
	return mapper.SaveEdges(ctx, m, es)
}

func readRows(path string) ([]row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	var rows []row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("render: %s: %w", path, err)
	}
	return rows, nil
}

func props(r row) map[string]any {
	if r.Props == nil {
		return map[string]any{}
	}
	return r.Props
}

// scalar rejects identifiers that cannot be map keys or rendered as ids.
func scalar(v any) error {
	switch v.(type) {
	case string, int, int64, uint64, float64, bool:
		return nil
	case nil:
		return errors.New("missing")
	default:
		return fmt.Errorf("unsupported type %T", v)
	}
}
