// Package grosseconomy implements a Solow-style growth economy component:
// capital accumulates from saved output and depreciates per period, and
// gross output follows a Cobb-Douglas production function over capital and
// labor.
package grosseconomy

import (
	"context"
	"math"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/registry"
	"github.com/vk/gridsim/internal/timestep"
)

// ID is the component's registered identity.
var ID = model.ComponentID{Namespace: "economy", Name: "grosseconomy"}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the component definition with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Def())
}

// Def declares the component schema and its update routine.
func Def() *model.ComponentDef {
	cd := model.NewComponentDef(ID)

	mustAdd := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	mustAdd(cd.AddParameter(model.DatumDef{Name: "l", Dims: []string{model.TimeDim}, Description: "labor supply", Unit: "million persons"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "tfp", Dims: []string{model.TimeDim}, Description: "total factor productivity"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "s", Dims: []string{model.TimeDim}, Description: "savings rate"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "depk", Description: "annual capital depreciation rate"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "k0", Description: "initial capital stock", Unit: "trillion USD"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "share", Description: "capital share of output"}))
	mustAdd(cd.AddVariable(model.DatumDef{Name: "K", Dims: []string{model.TimeDim}, Description: "capital stock", Unit: "trillion USD"}))
	mustAdd(cd.AddVariable(model.DatumDef{Name: "YGROSS", Dims: []string{model.TimeDim}, Description: "gross output", Unit: "trillion USD"}))

	cd.SetUpdate(update)
	return cd
}

func update(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
	l, err := p.Vector("l")
	if err != nil {
		return err
	}
	tfp, err := p.Vector("tfp")
	if err != nil {
		return err
	}
	s, err := p.Vector("s")
	if err != nil {
		return err
	}
	depk, err := p.Scalar("depk")
	if err != nil {
		return err
	}
	k0, err := p.Scalar("k0")
	if err != nil {
		return err
	}
	share, err := p.Scalar("share")
	if err != nil {
		return err
	}
	capital, err := v.Vector("K")
	if err != nil {
		return err
	}
	ygross, err := v.Vector("YGROSS")
	if err != nil {
		return err
	}

	t := ts.Period()
	step := float64(ts.Step())

	if ts.IsFirst() {
		capital.SetUnchecked(t, k0.Get())
	} else {
		prev := t - ts.Step()
		// Depreciation compounds annually across the step; investment is
		// the prior period's saved output scaled to the step length.
		k := math.Pow(1-depk.Get(), step)*capital.GetUnchecked(prev) +
			ygross.GetUnchecked(prev)*s.GetUnchecked(prev)*step
		capital.SetUnchecked(t, k)
	}

	y := tfp.GetUnchecked(t) *
		math.Pow(capital.GetUnchecked(t), share.Get()) *
		math.Pow(l.GetUnchecked(t), 1-share.Get())
	ygross.SetUnchecked(t, y)
	return nil
}
