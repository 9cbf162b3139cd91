// Package instance holds the runnable artifact produced by the builder: a
// ModelInstance with bound, ordered component instances, and the
// component-major run loop that drives them across the shared time axis.
package instance

import (
	"errors"
	"fmt"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/model"
)

// ErrEmptyModel reports a run attempted over a model with no components.
// This is a deliberate fail-fast rather than a silent no-op.
var ErrEmptyModel = errors.New("instance: model has no components to execute")

// Component is one bound, runnable component: its identity, instance name,
// parameter and variable views over shared storage, and the resolved
// (never nil) period range it runs over.
type Component struct {
	ID   model.ComponentID
	Name string

	Params *binding.Params
	Vars   *binding.Vars

	// Dims are the dimension names this component actually uses.
	Dims []string

	// First and Last are the resolved run range, inherited from the
	// component's explicit bounds or the model's full range.
	First int
	Last  int

	// UpdateFn is invoked once per period of [First, Last].
	UpdateFn model.UpdateFunc

	// Synthesized marks builder-inserted connector components. They are
	// ordinary components in every other respect.
	Synthesized bool
}

// ModelInstance is the compiled execution plan: the originating definition,
// component instances in execution order (synthesized connectors included),
// and the resolved connections actually wired.
type ModelInstance struct {
	def *model.Def
	rev int

	order []string
	comps map[string]*Component
	conns []model.InternalConnection

	firsts []int
	lasts  []int

	ran bool
}

// NewModelInstance assembles an instance from components already in final
// execution order. It fails if two components share an instance name.
func NewModelInstance(def *model.Def, rev int, comps []*Component, conns []model.InternalConnection) (*ModelInstance, error) {
	mi := &ModelInstance{
		def:   def,
		rev:   rev,
		comps: make(map[string]*Component, len(comps)),
		conns: conns,
	}
	for _, c := range comps {
		if _, ok := mi.comps[c.Name]; ok {
			return nil, fmt.Errorf("duplicate component instance %q in execution order", c.Name)
		}
		mi.order = append(mi.order, c.Name)
		mi.comps[c.Name] = c
		mi.firsts = append(mi.firsts, c.First)
		mi.lasts = append(mi.lasts, c.Last)
	}
	return mi, nil
}

// Def returns the originating model definition.
func (mi *ModelInstance) Def() *model.Def { return mi.def }

// Revision returns the definition revision this instance was built from.
func (mi *ModelInstance) Revision() int { return mi.rev }

// ComponentNames returns instance names in execution order.
func (mi *ModelInstance) ComponentNames() []string { return mi.order }

// Component looks up a component instance by name.
func (mi *ModelInstance) Component(name string) (*Component, bool) {
	c, ok := mi.comps[name]
	return c, ok
}

// Components returns the component instances in execution order.
func (mi *ModelInstance) Components() []*Component {
	out := make([]*Component, len(mi.order))
	for i, name := range mi.order {
		out[i] = mi.comps[name]
	}
	return out
}

// Connections returns the internal connections actually wired.
func (mi *ModelInstance) Connections() []model.InternalConnection { return mi.conns }

// Bounds returns the per-component first/last period vectors aligned with
// execution order.
func (mi *ModelInstance) Bounds() (firsts, lasts []int) { return mi.firsts, mi.lasts }

// Ran reports whether a run completed successfully over this instance.
func (mi *ModelInstance) Ran() bool { return mi.ran }

// Get returns the storage handle bound for a component's datum, checking
// variables first and then parameters.
func (mi *ModelInstance) Get(component, datum string) (any, error) {
	c, ok := mi.comps[component]
	if !ok {
		return nil, &model.UnknownReferenceError{Kind: "component", Name: component, Scope: "model " + mi.def.Namespace()}
	}
	if h, err := c.Vars.Handle(datum); err == nil {
		return h, nil
	}
	if h, err := c.Params.Handle(datum); err == nil {
		return h, nil
	}
	return nil, &model.UnknownReferenceError{Kind: "datum", Name: datum, Scope: "component " + component}
}
