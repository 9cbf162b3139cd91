package model

import (
	"context"
	"fmt"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/timestep"
)

// TimeDim is the reserved name of the time dimension. A datum whose first
// dimension is TimeDim is stored in a period-addressed container.
const TimeDim = "time"

// ComponentID is the stable identity of a component schema: the namespace
// that owns it plus the component's own identifier. The same ID may be
// added to a model several times under different instance names.
type ComponentID struct {
	Namespace string
	Name      string
}

func (id ComponentID) String() string {
	return id.Namespace + "." + id.Name
}

// UpdateFunc is a component's per-period update routine. It receives the
// bound parameter and variable views and the current timestep cursor, and
// may read any parameter and write its own variables for the current (or,
// by reading backward, prior) period.
type UpdateFunc func(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error

// DatumDef describes one parameter or variable of a component schema: its
// name, element type, dimension names (empty for a scalar), and
// documentation strings. Immutable once added to a ComponentDef.
type DatumDef struct {
	Name        string
	Dims        []string // e.g. nil, ["time"], ["time","region"], ["region"]
	Description string
	Unit        string
}

// DimensionDef names an index axis (time or categorical) referenced by the
// component's datum definitions.
type DimensionDef struct {
	Name string
}

// ComponentDef is one component's declarative schema: ordered parameter,
// variable, and dimension definitions, the generated update routine, and
// optional explicit period bounds. It is mutated only while being declared
// and is treated as frozen once added to a Def.
type ComponentDef struct {
	id ComponentID

	varNames   []string
	vars       map[string]DatumDef
	paramNames []string
	params     map[string]DatumDef
	dimNames   []string
	dims       map[string]DimensionDef

	update UpdateFunc

	// first/last are explicit period bounds; nil means "inherit the
	// model's full period range".
	first *int
	last  *int
}

// NewComponentDef creates an empty schema for the given identity.
func NewComponentDef(id ComponentID) *ComponentDef {
	return &ComponentDef{
		id:     id,
		vars:   make(map[string]DatumDef),
		params: make(map[string]DatumDef),
		dims:   make(map[string]DimensionDef),
	}
}

// ID returns the component's identity.
func (c *ComponentDef) ID() ComponentID { return c.id }

// AddDimension declares a named index axis used by this component's data.
// Fails with DuplicateNameError if the name already exists.
func (c *ComponentDef) AddDimension(name string) error {
	if _, ok := c.dims[name]; ok {
		return &DuplicateNameError{Kind: "dimension", Name: name, Scope: c.id.String()}
	}
	c.dims[name] = DimensionDef{Name: name}
	c.dimNames = append(c.dimNames, name)
	return nil
}

// AddParameter declares an input datum. Fails with DuplicateNameError if
// the name already exists among this component's parameters.
func (c *ComponentDef) AddParameter(d DatumDef) error {
	if _, ok := c.params[d.Name]; ok {
		return &DuplicateNameError{Kind: "parameter", Name: d.Name, Scope: c.id.String()}
	}
	c.params[d.Name] = d
	c.paramNames = append(c.paramNames, d.Name)
	return nil
}

// AddVariable declares an output datum. Fails with DuplicateNameError if
// the name already exists among this component's variables.
func (c *ComponentDef) AddVariable(d DatumDef) error {
	if _, ok := c.vars[d.Name]; ok {
		return &DuplicateNameError{Kind: "variable", Name: d.Name, Scope: c.id.String()}
	}
	c.vars[d.Name] = d
	c.varNames = append(c.varNames, d.Name)
	return nil
}

// SetUpdate attaches the component's generated update routine.
func (c *ComponentDef) SetUpdate(fn UpdateFunc) { c.update = fn }

// Update returns the component's update routine, or nil if none was set.
func (c *ComponentDef) Update() UpdateFunc { return c.update }

// SetBounds declares an explicit [first, last] period range for the
// component, overriding the model's full range at build time.
func (c *ComponentDef) SetBounds(first, last int) error {
	if last < first {
		return fmt.Errorf("component %s: last period %d precedes first period %d", c.id, last, first)
	}
	c.first, c.last = &first, &last
	return nil
}

// ClearBounds reverts the component to inheriting the model's full range.
func (c *ComponentDef) ClearBounds() { c.first, c.last = nil, nil }

// Bounds returns the explicit period bounds; either may be nil, meaning
// "inherit from the model".
func (c *ComponentDef) Bounds() (first, last *int) { return c.first, c.last }

// ParameterNames returns parameter names in declaration order.
func (c *ComponentDef) ParameterNames() []string { return c.paramNames }

// VariableNames returns variable names in declaration order.
func (c *ComponentDef) VariableNames() []string { return c.varNames }

// DimensionNames returns dimension names in declaration order.
func (c *ComponentDef) DimensionNames() []string { return c.dimNames }

// Parameter looks up a parameter definition by name.
func (c *ComponentDef) Parameter(name string) (DatumDef, bool) {
	d, ok := c.params[name]
	return d, ok
}

// Variable looks up a variable definition by name.
func (c *ComponentDef) Variable(name string) (DatumDef, bool) {
	d, ok := c.vars[name]
	return d, ok
}
