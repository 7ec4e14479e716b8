package label

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/format"
)

// Registry builds label schemas on first use and caches them for its
// lifetime. Concurrent first-use callers share one build, and exactly one
// schema instance per (declared type, flags) is ever returned.
type Registry struct {
	formats *format.Registry
	group   singleflight.Group
	mu      sync.RWMutex
	schemas map[registryKey]*Schema
}

type registryKey struct {
	typ        reflect.Type
	owner      string
	srcAsField bool
	dstAsField bool
}

// NewRegistry returns an empty registry. Formatter names are resolved against
// format.Default() unless WithFormats is given.
func NewRegistry(opts ...Option) *Registry {
	c := newBuildConfig(opts)
	return &Registry{
		formats: c.formats,
		schemas: make(map[registryKey]*Schema),
	}
}

// Formats returns the formatter registry used to resolve formatter names.
func (r *Registry) Formats() *format.Registry { return r.formats }

// Vertex returns the schema of a vertex type, built with both flags set to
// its IDAsField setting.
func (r *Registry) Vertex(decl ocean.Interface) (*Schema, error) {
	if decl == nil {
		return nil, ocean.NewSchemaBuildError("", "", "nil declaration", nil)
	}
	cfg := decl.Config()
	if cfg.Kind != ocean.KindVertex {
		return nil, ocean.NewSchemaBuildError(ownerName(decl), "", fmt.Sprintf("expect vertex, got %s", cfg.Kind), nil)
	}
	return r.Schema(decl, cfg.IDAsField, cfg.IDAsField)
}

// Edge returns the schema of an edge type, built with its SrcIDAsField and
// DstIDAsField settings. Endpoint vertex schemas come from the registry.
func (r *Registry) Edge(decl ocean.Interface) (*Schema, error) {
	if decl == nil {
		return nil, ocean.NewSchemaBuildError("", "", "nil declaration", nil)
	}
	cfg := decl.Config()
	if cfg.Kind != ocean.KindEdge {
		return nil, ocean.NewSchemaBuildError(ownerName(decl), "", fmt.Sprintf("expect edge, got %s", cfg.Kind), nil)
	}
	return r.Schema(decl, cfg.SrcIDAsField, cfg.DstIDAsField)
}

// Schema returns the schema of decl built with the given flags.
func (r *Registry) Schema(decl ocean.Interface, srcIDAsField, dstIDAsField bool) (*Schema, error) {
	if decl == nil {
		return nil, ocean.NewSchemaBuildError("", "", "nil declaration", nil)
	}
	key := registryKey{typ: reflect.TypeOf(decl), owner: ownerName(decl), srcAsField: srcIDAsField, dstAsField: dstIDAsField}
	if s, ok := r.lookup(key); ok {
		return s, nil
	}
	sfKey := fmt.Sprintf("%s/%t/%t", key.owner, srcIDAsField, dstIDAsField)
	v, err, _ := r.group.Do(sfKey, func() (any, error) {
		if s, ok := r.lookup(key); ok {
			return s, nil
		}
		return r.build(key, decl)
	})
	if err != nil {
		return nil, err
	}
	s := v.(*Schema)
	// Distinct types sharing a qualified name (function-local declarations)
	// share a singleflight key; build those outside the group.
	if s.typ != key.typ {
		return r.build(key, decl)
	}
	return s, nil
}

func (r *Registry) build(key registryKey, decl ocean.Interface) (*Schema, error) {
	c := &buildConfig{formats: r.formats, vertex: r.Vertex}
	s, err := build(decl, key.srcAsField, key.dstAsField, c)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.schemas[key]; ok {
		return cached, nil
	}
	r.schemas[key] = s
	return s, nil
}

func (r *Registry) lookup(key registryKey) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[key]
	return s, ok
}

// Len returns the number of cached schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}
