package model

import (
	"fmt"
	"slices"
)

// compEntry pairs an added component schema with its per-instance period
// override.
type compEntry struct {
	def   *ComponentDef
	first *int
	last  *int
}

// IndexDim is a categorical index axis set on the model: either an explicit
// ordered value list, or a bare count.
type IndexDim struct {
	Name   string
	Values []string // nil when only a count was declared
	Count  int
}

// Def is the declarative model: an ordered collection of component
// instances, the connections between them, the external-parameter registry,
// and the global time and index dimensions. Execution order is declaration
// order.
type Def struct {
	namespace string

	names []string
	comps map[string]*compEntry

	internal []InternalConnection
	external []ExternalConnection
	backups  []string

	params map[string]Parameter

	dimNames []string
	dims     map[string]*IndexDim

	// time axis, derived from SetTimeLabels
	times []int
	first int
	step  int
	last  int

	// rev counts structural mutations; instances record the revision they
	// were built from so stale runs are detectable.
	rev int
}

// New creates an empty model definition owned by the given namespace.
func New(namespace string) *Def {
	return &Def{
		namespace: namespace,
		comps:     make(map[string]*compEntry),
		params:    make(map[string]Parameter),
		dims:      make(map[string]*IndexDim),
	}
}

// Namespace returns the owning namespace.
func (d *Def) Namespace() string { return d.namespace }

// Revision returns the structural mutation counter.
func (d *Def) Revision() int { return d.rev }

func (d *Def) touch() { d.rev++ }

// AddOption configures component insertion.
type AddOption func(*addOptions)

type addOptions struct {
	before string
	after  string
	first  *int
	last   *int
}

// Before inserts the new component immediately before the named instance.
func Before(name string) AddOption {
	return func(o *addOptions) { o.before = name }
}

// After inserts the new component immediately after the named instance.
func After(name string) AddOption {
	return func(o *addOptions) { o.after = name }
}

// WithBounds overrides the component's run range for this instance.
func WithBounds(first, last int) AddOption {
	return func(o *addOptions) { o.first, o.last = &first, &last }
}

// AddComponent adds a component instance under the given name. It fails
// with DuplicateNameError if the name is taken and UnknownReferenceError if
// a requested before/after position does not exist.
func (d *Def) AddComponent(name string, cd *ComponentDef, opts ...AddOption) error {
	if _, ok := d.comps[name]; ok {
		return &DuplicateNameError{Kind: "component", Name: name, Scope: "model " + d.namespace}
	}

	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.first != nil && o.last != nil && *o.last < *o.first {
		return fmt.Errorf("component %q: last period %d precedes first period %d", name, *o.last, *o.first)
	}

	pos := len(d.names)
	switch {
	case o.before != "":
		i := slices.Index(d.names, o.before)
		if i < 0 {
			return &UnknownReferenceError{Kind: "component", Name: o.before, Scope: "model " + d.namespace}
		}
		pos = i
	case o.after != "":
		i := slices.Index(d.names, o.after)
		if i < 0 {
			return &UnknownReferenceError{Kind: "component", Name: o.after, Scope: "model " + d.namespace}
		}
		pos = i + 1
	}

	d.names = slices.Insert(d.names, pos, name)
	d.comps[name] = &compEntry{def: cd, first: o.first, last: o.last}
	d.touch()
	return nil
}

// ComponentNames returns instance names in declaration (execution) order.
func (d *Def) ComponentNames() []string { return d.names }

// Component looks up the schema added under an instance name.
func (d *Def) Component(name string) (*ComponentDef, bool) {
	e, ok := d.comps[name]
	if !ok {
		return nil, false
	}
	return e.def, true
}

// ComponentBounds returns the per-instance period override for the named
// instance; either pointer may be nil.
func (d *Def) ComponentBounds(name string) (first, last *int, ok bool) {
	e, found := d.comps[name]
	if !found {
		return nil, nil, false
	}
	return e.first, e.last, true
}

// ConnectInternal declares a variable-to-parameter connection between two
// component instances. Only name existence of the two components is checked
// here; datum existence and compatibility are validated at build time.
func (d *Def) ConnectInternal(srcComp, srcVar, dstComp, dstParam string, opts ...ConnOption) error {
	if _, ok := d.comps[srcComp]; !ok {
		return &UnknownReferenceError{Kind: "component", Name: srcComp, Scope: "model " + d.namespace}
	}
	if _, ok := d.comps[dstComp]; !ok {
		return &UnknownReferenceError{Kind: "component", Name: dstComp, Scope: "model " + d.namespace}
	}

	conn := InternalConnection{
		SrcComponent: srcComp,
		SrcVariable:  srcVar,
		DstComponent: dstComp,
		DstParameter: dstParam,
	}
	for _, opt := range opts {
		opt(&conn)
	}
	if conn.Backup != "" && !slices.Contains(d.backups, conn.Backup) {
		d.backups = append(d.backups, conn.Backup)
	}
	d.internal = append(d.internal, conn)
	d.touch()
	return nil
}

// ConnectExternal binds a component's parameter to an external-parameter
// registry entry, creating the entry on demand if it is absent.
func (d *Def) ConnectExternal(comp, param, key string) error {
	if _, ok := d.comps[comp]; !ok {
		return &UnknownReferenceError{Kind: "component", Name: comp, Scope: "model " + d.namespace}
	}
	if _, ok := d.params[key]; !ok {
		d.params[key] = nil // placeholder until a value is set
	}
	d.external = append(d.external, ExternalConnection{Component: comp, Parameter: param, Key: key})
	d.touch()
	return nil
}

// SetParam sets or overwrites an external-parameter value by key.
func (d *Def) SetParam(key string, p Parameter) {
	d.params[key] = p
	d.touch()
}

// Param looks up an external-parameter value by key. A key that was created
// on demand but never assigned returns (nil, true).
func (d *Def) Param(key string) (Parameter, bool) {
	p, ok := d.params[key]
	return p, ok
}

// InternalConnections returns the declared internal connections in order.
func (d *Def) InternalConnections() []InternalConnection { return d.internal }

// ExternalConnections returns the declared external connections in order.
func (d *Def) ExternalConnections() []ExternalConnection { return d.external }

// Backups returns the external-parameter keys designated as connection
// backups.
func (d *Def) Backups() []string { return d.backups }

// SetTimeLabels sets the time dimension from an ordered period sequence.
// The sequence must be strictly increasing with a uniform step.
func (d *Def) SetTimeLabels(periods []int) error {
	if len(periods) == 0 {
		return fmt.Errorf("time dimension requires at least one period")
	}
	step := 1
	if len(periods) > 1 {
		step = periods[1] - periods[0]
		if step <= 0 {
			return fmt.Errorf("time labels must be strictly increasing, got %d then %d", periods[0], periods[1])
		}
		for i := 1; i < len(periods); i++ {
			if periods[i]-periods[i-1] != step {
				return fmt.Errorf("time labels must have a uniform step: %d -> %d breaks step %d",
					periods[i-1], periods[i], step)
			}
		}
	}
	d.times = slices.Clone(periods)
	d.first = periods[0]
	d.step = step
	d.last = periods[len(periods)-1]
	d.touch()
	return nil
}

// TimeSet reports whether the time dimension has been set.
func (d *Def) TimeSet() bool { return len(d.times) > 0 }

// TimeLabels returns the period sequence.
func (d *Def) TimeLabels() []int { return d.times }

// TimeRange returns the derived (first, step, last) triple.
func (d *Def) TimeRange() (first, step, last int) { return d.first, d.step, d.last }

// StepCount returns the number of periods on the time axis.
func (d *Def) StepCount() int { return len(d.times) }

// SetIndex sets a categorical dimension from an explicit value list.
func (d *Def) SetIndex(name string, values []string) error {
	if name == TimeDim {
		return fmt.Errorf("the %q dimension must be set with SetTimeLabels", TimeDim)
	}
	if len(values) == 0 {
		return fmt.Errorf("index %q requires at least one value", name)
	}
	d.setIndex(&IndexDim{Name: name, Values: slices.Clone(values), Count: len(values)})
	return nil
}

// SetIndexCount sets a categorical dimension from a bare element count.
func (d *Def) SetIndexCount(name string, n int) error {
	if name == TimeDim {
		return fmt.Errorf("the %q dimension must be set with SetTimeLabels", TimeDim)
	}
	if n <= 0 {
		return fmt.Errorf("index %q requires a positive count, got %d", name, n)
	}
	d.setIndex(&IndexDim{Name: name, Count: n})
	return nil
}

func (d *Def) setIndex(dim *IndexDim) {
	if _, ok := d.dims[dim.Name]; !ok {
		d.dimNames = append(d.dimNames, dim.Name)
	}
	d.dims[dim.Name] = dim
	d.touch()
}

// Index looks up a categorical dimension by name.
func (d *Def) Index(name string) (*IndexDim, bool) {
	dim, ok := d.dims[name]
	return dim, ok
}

// IndexNames returns categorical dimension names in declaration order.
func (d *Def) IndexNames() []string { return d.dimNames }
