package builder

import (
	"fmt"
	"slices"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/series"
)

// datumKind classifies a datum's storage shape from its dimension list.
type datumKind int

const (
	kindScalar datumKind = iota
	kindVector           // ["time"]
	kindMatrix           // ["time", categorical]
	kindArray            // [categorical]
)

// classify maps a dimension list onto a storage kind. The time dimension,
// when present, must come first; at most one categorical dimension is
// supported.
func classify(d model.DatumDef) (datumKind, error) {
	switch len(d.Dims) {
	case 0:
		return kindScalar, nil
	case 1:
		if d.Dims[0] == model.TimeDim {
			return kindVector, nil
		}
		return kindArray, nil
	case 2:
		if d.Dims[0] != model.TimeDim {
			return 0, fmt.Errorf("datum %q: two-dimensional data must have %q as its first dimension", d.Name, model.TimeDim)
		}
		if d.Dims[1] == model.TimeDim {
			return 0, fmt.Errorf("datum %q: %q may appear only once", d.Name, model.TimeDim)
		}
		return kindMatrix, nil
	default:
		return 0, fmt.Errorf("datum %q: at most two dimensions are supported, got %d", d.Name, len(d.Dims))
	}
}

// indexCount resolves a categorical dimension's element count from the
// model's dimension table.
func indexCount(def *model.Def, dim, scope string) (int, error) {
	idx, ok := def.Index(dim)
	if !ok {
		return 0, &model.UnknownReferenceError{Kind: "dimension", Name: dim, Scope: scope}
	}
	return idx.Count, nil
}

// allocStorage creates zero-initialized variable storage for one datum over
// the component's resolved [first, last] range.
func allocStorage(def *model.Def, d model.DatumDef, first, last, scopeStep int, scope string) (any, error) {
	kind, err := classify(d)
	if err != nil {
		return nil, err
	}
	n := (last-first)/scopeStep + 1

	switch kind {
	case kindScalar:
		return binding.NewScalar(0), nil
	case kindVector:
		return series.NewVector[float64](first, scopeStep, n)
	case kindMatrix:
		cols, err := indexCount(def, d.Dims[1], scope)
		if err != nil {
			return nil, err
		}
		return series.NewMatrix[float64](first, scopeStep, n, cols)
	case kindArray:
		cols, err := indexCount(def, d.Dims[0], scope)
		if err != nil {
			return nil, err
		}
		return binding.NewArray(make([]float64, cols)), nil
	}
	return nil, fmt.Errorf("datum %q: unsupported storage kind", d.Name)
}

// externalStorage converts an external-parameter value into a freshly
// copied storage handle matching the destination datum's shape. Values are
// always copied so no storage is silently aliased across models.
func externalStorage(def *model.Def, d model.DatumDef, p model.Parameter, comp string) (any, error) {
	kind, err := classify(d)
	if err != nil {
		return nil, err
	}
	first, step, _ := def.TimeRange()

	switch v := p.(type) {
	case model.ScalarParam:
		if kind != kindScalar {
			return nil, fmt.Errorf("parameter %s.%s: scalar value supplied for dimensioned parameter %v", comp, d.Name, d.Dims)
		}
		return binding.NewScalar(v.Value), nil

	case model.ArrayParam:
		switch kind {
		case kindVector:
			if len(v.Values) != def.StepCount() {
				return nil, fmt.Errorf("parameter %s.%s: %d values supplied for %d time periods",
					comp, d.Name, len(v.Values), def.StepCount())
			}
			return series.VectorOf(slices.Clone(v.Values), first, step)
		case kindMatrix:
			cols, err := indexCount(def, d.Dims[1], "component "+comp)
			if err != nil {
				return nil, err
			}
			if len(v.Values) != def.StepCount()*cols {
				return nil, fmt.Errorf("parameter %s.%s: %d values supplied for %dx%d extents",
					comp, d.Name, len(v.Values), def.StepCount(), cols)
			}
			return series.MatrixOf(slices.Clone(v.Values), first, step, cols)
		case kindArray:
			cols, err := indexCount(def, d.Dims[0], "component "+comp)
			if err != nil {
				return nil, err
			}
			if len(v.Values) != cols {
				return nil, fmt.Errorf("parameter %s.%s: %d values supplied for %d elements",
					comp, d.Name, len(v.Values), cols)
			}
			return binding.NewArray(slices.Clone(v.Values)), nil
		default:
			return nil, fmt.Errorf("parameter %s.%s: array value supplied for scalar parameter", comp, d.Name)
		}

	default:
		return nil, fmt.Errorf("parameter %s.%s: unsupported external value %T", comp, d.Name, p)
	}
}
