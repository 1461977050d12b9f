// Package registry holds the catalogue of source types available to a
// runtime instance. Modules register a factory per source type at startup;
// the runtime is polymorphic over the Source interface and never over a
// concrete type.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/source"
)

// Factory builds one fully initialized source instance, or fails with a
// *source.ConfigurationError or *source.ResourceError. A factory that
// acquired external resources before failing must release them itself
// before returning; the runtime will not call Finalize on a node whose
// construction failed.
type Factory func(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error)

// RegisteredSource is one source type's entry in the registry.
type RegisteredSource struct {
	// Factory constructs instances of the type.
	Factory Factory
	// Ports are the output ports wired when the flow file declares none.
	Ports []string
	// Description is shown in diagnostics.
	Description string
}

// Module is implemented by every package that contributes source types.
type Module interface {
	Register(r *Registry)
}

// Registry maps source type names to their registered entries for a single
// application instance.
type Registry struct {
	sources map[string]*RegisteredSource
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{sources: make(map[string]*RegisteredSource)}
}

// RegisterSource adds a source type. Registering the same name twice is a
// programmer error and panics.
func (r *Registry) RegisterSource(name string, rs *RegisteredSource) {
	if _, exists := r.sources[name]; exists {
		panic(fmt.Sprintf("source type %q already registered", name))
	}
	slog.Debug("Registering source type.", "name", name)
	r.sources[name] = rs
}

// Source returns the entry for the given type name.
func (r *Registry) Source(name string) (*RegisteredSource, bool) {
	rs, ok := r.sources[name]
	return rs, ok
}

// Types returns the registered type names.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.sources))
	for name := range r.sources {
		types = append(types, name)
	}
	return types
}
