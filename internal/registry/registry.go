// Package registry holds the component-definition table: the set of
// component schemas (with their update routines) available to model
// declarations. It replaces the original system's process-wide ambient
// table with an explicit object owned by the caller, with a Reset
// operation for test isolation.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vk/gridsim/internal/model"
)

// Module is the interface component packages implement to register their
// schemas with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry maps component identities to their declared schemas.
type Registry struct {
	order []model.ComponentID
	defs  map[model.ComponentID]*model.ComponentDef
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[model.ComponentID]*model.ComponentDef)}
}

// RegisterComponent adds a component schema. Registering the same identity
// twice is a programmer error and panics.
func (r *Registry) RegisterComponent(def *model.ComponentDef) {
	id := def.ID()
	if _, exists := r.defs[id]; exists {
		panic(fmt.Sprintf("component %q already registered", id))
	}
	slog.Debug("Registering component definition.", "id", id.String())
	r.order = append(r.order, id)
	r.defs[id] = def
}

// Lookup returns the schema registered under an identity.
func (r *Registry) Lookup(id model.ComponentID) (*model.ComponentDef, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// Resolve finds a schema by reference string: either a fully qualified
// "namespace.name" or a bare name that is unique across namespaces.
func (r *Registry) Resolve(ref string) (*model.ComponentDef, error) {
	if ns, name, ok := strings.Cut(ref, "."); ok {
		def, found := r.defs[model.ComponentID{Namespace: ns, Name: name}]
		if !found {
			return nil, fmt.Errorf("no component registered as %q", ref)
		}
		return def, nil
	}

	var match *model.ComponentDef
	for _, id := range r.order {
		if id.Name == ref {
			if match != nil {
				return nil, fmt.Errorf("component name %q is ambiguous; qualify it with a namespace", ref)
			}
			match = r.defs[id]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no component registered as %q", ref)
	}
	return match, nil
}

// IDs returns registered identities in registration order.
func (r *Registry) IDs() []model.ComponentID { return r.order }

// Reset empties the registry.
func (r *Registry) Reset() {
	r.order = nil
	r.defs = make(map[model.ComponentID]*model.ComponentDef)
}
