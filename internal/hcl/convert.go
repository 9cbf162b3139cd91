package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/gridsim/internal/model"
)

// ctyToFloat converts any numeric cty value to a float64.
func ctyToFloat(val cty.Value) (float64, error) {
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %s: %w", val.Type().FriendlyName(), err)
	}
	f, _ := num.AsBigFloat().Float64()
	return f, nil
}

// scalarParam evaluates a `value = ...` expression into a scalar parameter.
func scalarParam(expr hcl.Expression) (model.Parameter, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	f, err := ctyToFloat(val)
	if err != nil {
		return nil, err
	}
	return model.ScalarParam{Value: f}, nil
}

// arrayParam evaluates a `values = [...]` expression into an array
// parameter. A flat list yields a one-dimensional array (defaulting to the
// time dimension); a list of equal-length lists yields a row-major
// two-dimensional array.
func arrayParam(expr hcl.Expression, dims []string) (model.Parameter, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("values must be a list, got %s", ty.FriendlyName())
	}
	if val.LengthInt() == 0 {
		return nil, fmt.Errorf("values must not be empty")
	}

	var flat []float64
	var shape []int

	it := val.ElementIterator()
	it.Next()
	_, head := it.Element()

	if head.Type().IsListType() || head.Type().IsTupleType() {
		// Nested list: rows of equal length, flattened row-major.
		cols := -1
		rows := 0
		for it := val.ElementIterator(); it.Next(); {
			_, row := it.Element()
			if !row.Type().IsListType() && !row.Type().IsTupleType() {
				return nil, fmt.Errorf("values rows must all be lists")
			}
			if cols < 0 {
				cols = row.LengthInt()
			} else if row.LengthInt() != cols {
				return nil, fmt.Errorf("values rows must have equal length: got %d then %d", cols, row.LengthInt())
			}
			for rt := row.ElementIterator(); rt.Next(); {
				_, cell := rt.Element()
				f, err := ctyToFloat(cell)
				if err != nil {
					return nil, err
				}
				flat = append(flat, f)
			}
			rows++
		}
		shape = []int{rows, cols}
	} else {
		for it := val.ElementIterator(); it.Next(); {
			_, cell := it.Element()
			f, err := ctyToFloat(cell)
			if err != nil {
				return nil, err
			}
			flat = append(flat, f)
		}
		shape = []int{len(flat)}
	}

	if len(dims) == 0 {
		// Unnamed dimensions default to time-leading, matching how the
		// engine stores dimensioned external data.
		if len(shape) == 1 {
			dims = []string{model.TimeDim}
		}
	} else if len(dims) != len(shape) {
		return nil, fmt.Errorf("%d dimension names given for %d-dimensional values", len(dims), len(shape))
	}

	return model.ArrayParam{Dims: dims, Shape: shape, Values: flat}, nil
}
