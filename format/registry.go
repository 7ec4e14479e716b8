package format

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFormatter is returned when a formatter name is not registered.
var ErrUnknownFormatter = errors.New("format: unknown formatter")

// Registry maps formatter names to formatter instances. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Formatter
}

// NewRegistry returns a registry holding the built-in formatters.
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]Formatter)}
	for name, f := range builtins() {
		r.byKey[name] = f
	}
	return r
}

func builtins() map[string]Formatter {
	return map[string]Formatter{
		"identity": Identity,
		"upper":    Upper,
		"lower":    Lower,
		"trim":     Trim,
		"sanitize": Sanitize,
		"unix":     Unix,
		"date":     Date,
		"time":     Time,
		"datetime": DateTime,
		"uuid":     UUID,
		"json":     JSON,
	}
}

// Register adds a formatter under name. Registering an empty name, a nil
// formatter or an already registered name fails.
func (r *Registry) Register(name string, f Formatter) error {
	if name == "" {
		return errors.New("format: empty formatter name")
	}
	if IsNone(f) {
		return fmt.Errorf("format: formatter %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[name]; ok {
		return fmt.Errorf("format: formatter %q already registered", name)
	}
	r.byKey[name] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, f Formatter) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Formatter, error) {
	r.mu.RLock()
	f, ok := r.byKey[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, name)
	}
	return f, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byKey))
	for name := range r.byKey {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when no registry is supplied.
func Default() *Registry { return defaultRegistry }
