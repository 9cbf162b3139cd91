package builder

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/instance"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/series"
	"github.com/vk/gridsim/internal/timestep"
)

// Connector component identities. Connectors are synthesized by the
// builder; beyond their Synthesized flag they are indistinguishable from
// authored components.
var (
	connectorVectorID = model.ComponentID{Namespace: "gridsim", Name: "connector/vector"}
	connectorMatrixID = model.ComponentID{Namespace: "gridsim", Name: "connector/matrix"}
)

// synthesizeConnector builds the hidden pass-through component for one
// internal connection whose destination range exceeds its source range.
// Its single responsibility: per period, pass the source's value through
// when the source covers that period, otherwise substitute the value from
// the backup external parameter. It returns the connector instance and the
// storage handle the destination parameter must bind to.
func synthesizeConnector(
	def *model.Def,
	seq int,
	conn model.InternalConnection,
	srcHandle any,
	srcDatum model.DatumDef,
	dstFirst, dstLast int,
) (*instance.Component, any, error) {
	name := fmt.Sprintf("connector%d", seq)
	first, step, last := def.TimeRange()

	backup, ok := def.Param(conn.Backup)
	if !ok || backup == nil {
		return nil, nil, &UnboundParameterError{
			Component: name,
			Parameter: "backup",
			Reason:    fmt.Sprintf("backup parameter %q has no value", conn.Backup),
		}
	}
	arr, ok := backup.(model.ArrayParam)
	if !ok {
		return nil, nil, fmt.Errorf("backup parameter %q must be an array covering the model's time range", conn.Backup)
	}
	if len(arr.Dims) > 0 && !arr.IsTimeIndexed() {
		return nil, nil, fmt.Errorf("backup parameter %q must have %q as its leading dimension, got %v",
			conn.Backup, model.TimeDim, arr.Dims)
	}

	kind, err := classify(srcDatum)
	if err != nil {
		return nil, nil, err
	}
	n := (last-first)/step + 1
	nDst := (dstLast-dstFirst)/step + 1

	var (
		comp      *instance.Component
		dstHandle any
	)

	switch kind {
	case kindVector:
		src, ok := srcHandle.(*series.Vector[float64])
		if !ok {
			return nil, nil, fmt.Errorf("connection %s.%s: source storage is %T, expected a time vector",
				conn.SrcComponent, conn.SrcVariable, srcHandle)
		}
		if len(arr.Values) != n {
			return nil, nil, fmt.Errorf("backup parameter %q supplies %d values for %d time periods",
				conn.Backup, len(arr.Values), n)
		}
		bak, err := series.VectorOf(slices.Clone(arr.Values), first, step)
		if err != nil {
			return nil, nil, err
		}
		out, err := series.NewVector[float64](dstFirst, step, nDst)
		if err != nil {
			return nil, nil, err
		}
		comp = newConnectorInstance(connectorVectorID, name, dstFirst, dstLast, src, bak, out,
			func(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
				t := ts.Period()
				if src.Covers(t) {
					out.SetUnchecked(t, src.GetUnchecked(t))
				} else {
					out.SetUnchecked(t, bak.GetUnchecked(t))
				}
				return nil
			})
		dstHandle = out

	case kindMatrix:
		src, ok := srcHandle.(*series.Matrix[float64])
		if !ok {
			return nil, nil, fmt.Errorf("connection %s.%s: source storage is %T, expected a time matrix",
				conn.SrcComponent, conn.SrcVariable, srcHandle)
		}
		cols := src.Cols()
		if len(arr.Values) != n*cols {
			return nil, nil, fmt.Errorf("backup parameter %q supplies %d values for %dx%d extents",
				conn.Backup, len(arr.Values), n, cols)
		}
		bak, err := series.MatrixOf(slices.Clone(arr.Values), first, step, cols)
		if err != nil {
			return nil, nil, err
		}
		out, err := series.NewMatrix[float64](dstFirst, step, nDst, cols)
		if err != nil {
			return nil, nil, err
		}
		comp = newConnectorInstance(connectorMatrixID, name, dstFirst, dstLast, src, bak, out,
			func(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
				t := ts.Period()
				covered := src.Covers(t)
				for j := 0; j < cols; j++ {
					if covered {
						out.SetUnchecked(t, j, src.GetUnchecked(t, j))
					} else {
						out.SetUnchecked(t, j, bak.GetUnchecked(t, j))
					}
				}
				return nil
			})
		dstHandle = out

	default:
		return nil, nil, fmt.Errorf("connection %s.%s -> %s.%s: only time-indexed data can carry a backup",
			conn.SrcComponent, conn.SrcVariable, conn.DstComponent, conn.DstParameter)
	}

	return comp, dstHandle, nil
}

// newConnectorInstance wires the fixed two-parameter, one-variable schema
// shared by both connector forms.
func newConnectorInstance(id model.ComponentID, name string, first, last int, input, backup, output any, fn model.UpdateFunc) *instance.Component {
	params := &binding.Params{View: binding.NewView()}
	vars := &binding.Vars{View: binding.NewView()}
	// Bind cannot fail here: the three names are distinct by construction.
	_ = params.Bind("input", input)
	_ = params.Bind("backup", backup)
	_ = vars.Bind("output", output)

	return &instance.Component{
		ID:          id,
		Name:        name,
		Params:      params,
		Vars:        vars,
		Dims:        []string{model.TimeDim},
		First:       first,
		Last:        last,
		UpdateFn:    fn,
		Synthesized: true,
	}
}
