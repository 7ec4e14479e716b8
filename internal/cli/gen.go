package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/ocean/compiler/gen"
	"github.com/syssam/ocean/compiler/load"
)

type genOpts struct {
	file    string
	target  string
	pkg     string
	header  string
	workers int
	watch   bool
}

func newGenCmd() *cobra.Command {
	var opts genOpts

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go declarations from a schema file",
		Long: `Generate one Go file per vertex and edge type of a schema file, plus a graph
file listing the declarations. With --watch the files are regenerated every
time the schema file changes.`,
		Example: `  ocean gen -f schema.yaml -o ./graph
  ocean gen -f schema.yaml -o ./graph --package social --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if err := runGen(ctx, logger, opts); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			logger.Info("Watching for changes", "file", opts.file)
			return watch(ctx, opts.file, func() {
				if err := runGen(ctx, logger, opts); err != nil {
					logger.Error("Generation failed", "error", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "schema file")
	cmd.Flags().StringVarP(&opts.target, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "package name (default: schema package or output directory name)")
	cmd.Flags().StringVar(&opts.header, "header", gen.DefaultHeader, "header comment of generated files")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel file writers (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "regenerate when the schema file changes")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runGen(ctx context.Context, logger *log.Logger, opts genOpts) error {
	prog := newProgress(logger)
	doc, err := load.Load(opts.file)
	if err != nil {
		return err
	}
	genOptions := []gen.Option{gen.WithTarget(opts.target), gen.WithHeader(opts.header)}
	if opts.pkg != "" {
		genOptions = append(genOptions, gen.WithPackage(opts.pkg))
	}
	if opts.workers > 0 {
		genOptions = append(genOptions, gen.WithWorkers(opts.workers))
	}
	g, err := gen.NewGenerator(doc, genOptions...)
	if err != nil {
		return err
	}
	paths, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debug("Wrote file", "path", p)
	}
	prog.done(fmt.Sprintf("Generated %d files in package %s", len(paths), g.Package()))
	return nil
}

// watch calls fn every time the file at path is written or replaced, until
// ctx is done. The parent directory is watched since editors often replace
// files instead of writing them in place.
func watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				fn()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			loggerFromContext(ctx).Warn("Watch error", "error", err)
		}
	}
}
