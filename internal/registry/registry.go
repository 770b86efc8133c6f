package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/vk/pdeconf/internal/arith"
)

// ErrNotFound is returned by a resolver that does not provide the requested
// function.
var ErrNotFound = errors.New("import function not found")

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the compiled-in import functions of a single application
// instance.
type Registry struct {
	funcs map[string]arith.ImportFunc
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{funcs: make(map[string]arith.ImportFunc)}
}

// Register adds an import function. Registering a name twice is a programming
// error and panics.
func (r *Registry) Register(name string, fn arith.ImportFunc) {
	if _, exists := r.funcs[name]; exists {
		panic(fmt.Sprintf("import function with name '%s' already registered", name))
	}
	slog.Debug("Registering import function.", "name", name)
	r.funcs[name] = fn
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

// Resolve implements arith.Resolver. Compiled-in functions do not depend on
// the import directory.
func (r *Registry) Resolve(_, name string) (arith.ImportFunc, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not compiled in", ErrNotFound, name)
	}
	return fn, nil
}

// Chain tries each resolver in order.
type Chain []arith.Resolver

// Resolve implements arith.Resolver. A resolver error other than ErrNotFound
// stops the search.
func (c Chain) Resolve(dir, name string) (arith.ImportFunc, error) {
	for _, r := range c {
		fn, err := r.Resolve(dir, name)
		if err == nil {
			return fn, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, name, dir)
}
