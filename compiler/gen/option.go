package gen

import (
	"go/token"
	"path/filepath"
	"runtime"

	"github.com/syssam/ocean"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by ocean. DO NOT EDIT."

// Config holds the settings of one generation run.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is the name of the generated package. It defaults to the
	// package of the schema document, then to the base name of Target.
	Package string
	// Header is the comment placed at the top of each generated file.
	Header string
	// Workers caps the number of files rendered in parallel.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the generated package name.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package name must be an identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options in order and stops at the first error.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors into an
// *ocean.AggregateError. A single failure is returned as is.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return ocean.NewAggregateError(errs...)
}

// NewConfig creates a new Config with the given options and defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// packageName returns the configured package name or a fallback.
func (c *Config) packageName(docPkg string) string {
	switch {
	case c.Package != "":
		return c.Package
	case docPkg != "":
		return docPkg
	case c.Target != "":
		if base := filepath.Base(c.Target); token.IsIdentifier(base) {
			return base
		}
	}
	return "graph"
}
