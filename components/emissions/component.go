// Package emissions implements a carbon-intensity emissions component:
// gross emissions are output times the emission intensity of production.
package emissions

import (
	"context"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/registry"
	"github.com/vk/gridsim/internal/timestep"
)

// ID is the component's registered identity.
var ID = model.ComponentID{Namespace: "economy", Name: "emissions"}

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
	mustAdd(cd.AddParameter(model.DatumDef{Name: "sigma", Dims: []string{model.TimeDim}, Description: "emission intensity of output", Unit: "GtCO2 per trillion USD"}))
	mustAdd(cd.AddParameter(model.DatumDef{Name: "YGROSS", Dims: []string{model.TimeDim}, Description: "gross output", Unit: "trillion USD"}))
	mustAdd(cd.AddVariable(model.DatumDef{Name: "E", Dims: []string{model.TimeDim}, Description: "gross emissions", Unit: "GtCO2"}))

	cd.SetUpdate(update)
	return cd
}

func update(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
	sigma, err := p.Vector("sigma")
	if err != nil {
		return err
	}
	ygross, err := p.Vector("YGROSS")
	if err != nil {
		return err
	}
	e, err := v.Vector("E")
	if err != nil {
		return err
	}

	t := ts.Period()
	val, err := ygross.Get(t)
	if err != nil {
		return err
	}
	e.SetUnchecked(t, val*sigma.GetUnchecked(t))
	return nil
}
