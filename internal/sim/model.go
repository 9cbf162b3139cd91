// Package sim provides the user-facing façades: Model owns a declarative
// definition and its lazily built instance; MarginalModel composes two
// Models and exposes pointwise-difference access.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/builder"
	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/instance"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/series"
)

// ErrNotBuilt reports an access that requires a built instance on a model
// that has none.
var ErrNotBuilt = errors.New("sim: model has not been built")

// ErrStale reports a run attempted after the definition changed structurally
// since the last build. An explicit rebuild is required.
var ErrStale = errors.New("sim: model definition changed since last build; rebuild required")

// Model owns exactly one definition and at most one built instance.
type Model struct {
	def  *model.Def
	inst *instance.ModelInstance
}

// New creates a model with an empty definition owned by the namespace.
func New(namespace string) *Model {
	return &Model{def: model.New(namespace)}
}

// FromDef wraps an existing definition.
func FromDef(def *model.Def) *Model {
	return &Model{def: def}
}

// Def returns the model's definition for declaration calls.
func (m *Model) Def() *model.Def { return m.def }

// Instance returns the current built instance, or nil.
func (m *Model) Instance() *instance.ModelInstance { return m.inst }

// Built reports whether the model holds an instance matching the current
// definition revision.
func (m *Model) Built() bool {
	return m.inst != nil && m.inst.Revision() == m.def.Revision()
}

// Build compiles the definition into a fresh instance. The prior instance,
// if any, is replaced only on success.
func (m *Model) Build(ctx context.Context) error {
	mi, err := builder.Build(ctx, m.def)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	m.inst = mi
	return nil
}

// Run executes the model. A never-built model is built lazily; a model
// whose definition changed since the last build fails with ErrStale until
// it is explicitly rebuilt.
func (m *Model) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if len(m.def.ComponentNames()) == 0 {
		return instance.ErrEmptyModel
	}
	if m.inst == nil {
		logger.Debug("Model not yet built; building lazily before run.")
		if err := m.Build(ctx); err != nil {
			return err
		}
	}
	if m.inst.Revision() != m.def.Revision() {
		return ErrStale
	}
	return m.inst.Run(ctx)
}

// Get returns the raw storage handle for a component's datum.
func (m *Model) Get(component, datum string) (any, error) {
	if m.inst == nil {
		return nil, ErrNotBuilt
	}
	return m.inst.Get(component, datum)
}

// GetVector returns a component's time-indexed vector datum.
func (m *Model) GetVector(component, datum string) (*series.Vector[float64], error) {
	h, err := m.Get(component, datum)
	if err != nil {
		return nil, err
	}
	v, ok := h.(*series.Vector[float64])
	if !ok {
		return nil, fmt.Errorf("datum %s.%s is %T, not a time vector", component, datum, h)
	}
	return v, nil
}

// GetMatrix returns a component's time-by-index matrix datum.
func (m *Model) GetMatrix(component, datum string) (*series.Matrix[float64], error) {
	h, err := m.Get(component, datum)
	if err != nil {
		return nil, err
	}
	mx, ok := h.(*series.Matrix[float64])
	if !ok {
		return nil, fmt.Errorf("datum %s.%s is %T, not a time matrix", component, datum, h)
	}
	return mx, nil
}

// GetScalar returns a component's dimensionless datum value.
func (m *Model) GetScalar(component, datum string) (float64, error) {
	h, err := m.Get(component, datum)
	if err != nil {
		return 0, err
	}
	s, ok := h.(*binding.Scalar)
	if !ok {
		return 0, fmt.Errorf("datum %s.%s is %T, not a scalar", component, datum, h)
	}
	return s.Get(), nil
}
