// Package binding provides the bound parameter and variable views handed
// to component update routines. A view maps datum names to storage handles;
// the map is resolved once at bind time, so a per-step lookup is a single
// map access with no reflection or re-binding.
//
// Handle types:
//   - *Scalar for dimensionless data
//   - *series.Vector[float64] for time-indexed data
//   - *series.Matrix[float64] for time-by-index data
//   - *Array for purely categorical data
//
// A parameter fed by an internal connection holds the upstream component's
// own storage handle, so upstream writes are visible downstream without
// copying. Only the owning component writes its variables.
package binding

import (
	"errors"
	"fmt"

	"github.com/vk/gridsim/internal/series"
)

// ErrUnknownDatum reports a view lookup for a name that was never bound.
var ErrUnknownDatum = errors.New("binding: unknown datum")

// Scalar is a handle over a single dimensionless value.
type Scalar struct {
	v float64
}

// NewScalar creates a scalar handle holding the given value.
func NewScalar(v float64) *Scalar { return &Scalar{v: v} }

// Get returns the current value.
func (s *Scalar) Get() float64 { return s.v }

// Set replaces the current value.
func (s *Scalar) Set(v float64) { s.v = v }

// Array is a handle over a purely categorical (non-time) value list with
// conventional zero-based indexing.
type Array struct {
	values []float64
}

// NewArray wraps the given slice without copying it.
func NewArray(values []float64) *Array { return &Array{values: values} }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.values) }

// Get returns the element at i.
func (a *Array) Get(i int) float64 { return a.values[i] }

// Set replaces the element at i.
func (a *Array) Set(i int, v float64) { a.values[i] = v }

// Values exposes the backing slice.
func (a *Array) Values() []float64 { return a.values }

// View is an ordered name-to-handle map built once at bind time.
type View struct {
	names   []string
	handles map[string]any
}

// NewView creates an empty view.
func NewView() *View {
	return &View{handles: make(map[string]any)}
}

// Bind associates a name with a storage handle. Binding an already-bound
// name is a builder bug and fails.
func (v *View) Bind(name string, handle any) error {
	if _, ok := v.handles[name]; ok {
		return fmt.Errorf("datum %q already bound", name)
	}
	v.names = append(v.names, name)
	v.handles[name] = handle
	return nil
}

// Names returns the bound names in bind order.
func (v *View) Names() []string { return v.names }

// Handle returns the raw storage handle for a name.
func (v *View) Handle(name string) (any, error) {
	h, ok := v.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDatum, name)
	}
	return h, nil
}

// Scalar returns the scalar handle bound under name.
func (v *View) Scalar(name string) (*Scalar, error) {
	h, err := v.Handle(name)
	if err != nil {
		return nil, err
	}
	s, ok := h.(*Scalar)
	if !ok {
		return nil, fmt.Errorf("datum %q is bound as %T, not a scalar", name, h)
	}
	return s, nil
}

// Vector returns the time-indexed vector bound under name.
func (v *View) Vector(name string) (*series.Vector[float64], error) {
	h, err := v.Handle(name)
	if err != nil {
		return nil, err
	}
	vec, ok := h.(*series.Vector[float64])
	if !ok {
		return nil, fmt.Errorf("datum %q is bound as %T, not a time vector", name, h)
	}
	return vec, nil
}

// Matrix returns the time-by-index matrix bound under name.
func (v *View) Matrix(name string) (*series.Matrix[float64], error) {
	h, err := v.Handle(name)
	if err != nil {
		return nil, err
	}
	m, ok := h.(*series.Matrix[float64])
	if !ok {
		return nil, fmt.Errorf("datum %q is bound as %T, not a time matrix", name, h)
	}
	return m, nil
}

// Array returns the categorical array bound under name.
func (v *View) Array(name string) (*Array, error) {
	h, err := v.Handle(name)
	if err != nil {
		return nil, err
	}
	a, ok := h.(*Array)
	if !ok {
		return nil, fmt.Errorf("datum %q is bound as %T, not an array", name, h)
	}
	return a, nil
}

// Params is the read view over a component's bound parameters. Writing
// through a parameter handle is a contract violation by the component
// author; the engine does not copy to enforce it.
type Params struct {
	*View
}

// Vars is the write view over a component's own variable storage.
type Vars struct {
	*View
}
