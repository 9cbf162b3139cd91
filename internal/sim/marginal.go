package sim

import (
	"context"
	"fmt"
)

// MarginalModel composes two independently built models, a base and a
// perturbed copy, and exposes, per (component, variable), the pointwise
// sequence (perturbed - base) / delta. It derives no state of its own and
// never mutates either inner model.
type MarginalModel struct {
	Base     *Model
	Marginal *Model
	Delta    float64
}

// NewMarginal pairs a base and a perturbed model with the perturbation
// size used to normalize differences.
func NewMarginal(base, marginal *Model, delta float64) (*MarginalModel, error) {
	if delta == 0 {
		return nil, fmt.Errorf("marginal model requires a nonzero perturbation size")
	}
	return &MarginalModel{Base: base, Marginal: marginal, Delta: delta}, nil
}

// Run executes both inner models.
func (mm *MarginalModel) Run(ctx context.Context) error {
	if err := mm.Base.Run(ctx); err != nil {
		return fmt.Errorf("base model: %w", err)
	}
	if err := mm.Marginal.Run(ctx); err != nil {
		return fmt.Errorf("marginal model: %w", err)
	}
	return nil
}

// Get returns the elementwise (perturbed - base) / delta sequence for a
// time-indexed variable. Both inner models must have been run.
func (mm *MarginalModel) Get(component, datum string) ([]float64, error) {
	for name, m := range map[string]*Model{"base": mm.Base, "marginal": mm.Marginal} {
		if m.Instance() == nil || !m.Instance().Ran() {
			return nil, fmt.Errorf("%s model has not been run", name)
		}
	}

	base, err := mm.Base.GetVector(component, datum)
	if err != nil {
		return nil, err
	}
	marg, err := mm.Marginal.GetVector(component, datum)
	if err != nil {
		return nil, err
	}
	if base.Len() != marg.Len() {
		return nil, fmt.Errorf("datum %s.%s: base covers %d periods, marginal %d", component, datum, base.Len(), marg.Len())
	}

	out := make([]float64, base.Len())
	bv, mv := base.Values(), marg.Values()
	for i := range out {
		out[i] = (mv[i] - bv[i]) / mm.Delta
	}
	return out, nil
}
