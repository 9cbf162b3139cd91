// Package series provides fixed-size storage whose first dimension is
// addressed by calendar period rather than raw slot index. The offset and
// step duration are encoded once at construction, so the period-to-slot
// translation is a single subtraction and division.
//
// Checked access reports an error wrapping ErrOutOfBounds when the period
// lies outside the covered range or does not align with the step duration.
// Unchecked access skips validation for hot loops whose caller has already
// established the range.
package series

import (
	"errors"
	"fmt"

	"github.com/vk/gridsim/internal/timestep"
)

// ErrOutOfBounds is the sentinel wrapped by every bounds failure in this
// package.
var ErrOutOfBounds = errors.New("series: period out of bounds")

// Number constrains the element types the engine stores.
type Number interface {
	~int | ~int64 | ~float64
}

// Vector is a one-dimensional series addressed by calendar period.
type Vector[T Number] struct {
	data  []T
	first int
	step  int
}

// NewVector allocates zero-initialized storage for n periods starting at
// first with the given step duration.
func NewVector[T Number](first, step, n int) (*Vector[T], error) {
	if step <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %d", step)
	}
	if n <= 0 {
		return nil, fmt.Errorf("vector length must be positive, got %d", n)
	}
	return &Vector[T]{data: make([]T, n), first: first, step: step}, nil
}

// VectorOf wraps an existing backing slice without copying it.
func VectorOf[T Number](data []T, first, step int) (*Vector[T], error) {
	if step <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %d", step)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("backing slice must not be empty")
	}
	return &Vector[T]{data: data, first: first, step: step}, nil
}

// First returns the first covered period.
func (v *Vector[T]) First() int { return v.first }

// Step returns the step duration.
func (v *Vector[T]) Step() int { return v.step }

// Last returns the last covered period.
func (v *Vector[T]) Last() int { return v.first + (len(v.data)-1)*v.step }

// Len returns the number of covered periods.
func (v *Vector[T]) Len() int { return len(v.data) }

// Values exposes the backing slice. Downstream components receive this
// same slice through parameter binding; only the owning component writes it.
func (v *Vector[T]) Values() []T { return v.data }

// SlotOf translates a calendar period into a slot index, checking range
// and step alignment.
func (v *Vector[T]) SlotOf(period int) (int, error) {
	off := period - v.first
	if off < 0 || off%v.step != 0 || off/v.step >= len(v.data) {
		return 0, fmt.Errorf("%w: period %d not covered by [%d:%d:%d]",
			ErrOutOfBounds, period, v.first, v.step, v.Last())
	}
	return off / v.step, nil
}

// PeriodOf translates a slot index back into its calendar period.
func (v *Vector[T]) PeriodOf(slot int) int {
	return v.first + slot*v.step
}

// Covers reports whether the period lies inside the covered, step-aligned
// range.
func (v *Vector[T]) Covers(period int) bool {
	_, err := v.SlotOf(period)
	return err == nil
}

// Get returns the value stored for the period, with bounds checking.
func (v *Vector[T]) Get(period int) (T, error) {
	slot, err := v.SlotOf(period)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.data[slot], nil
}

// GetUnchecked returns the value stored for the period without validation.
func (v *Vector[T]) GetUnchecked(period int) T {
	return v.data[(period-v.first)/v.step]
}

// Set stores a value for the period, with bounds checking.
func (v *Vector[T]) Set(period int, value T) error {
	slot, err := v.SlotOf(period)
	if err != nil {
		return err
	}
	v.data[slot] = value
	return nil
}

// SetUnchecked stores a value for the period without validation.
func (v *Vector[T]) SetUnchecked(period int, value T) {
	v.data[(period-v.first)/v.step] = value
}

// GetTS returns the value addressed by a timestep cursor.
func (v *Vector[T]) GetTS(ts *timestep.Timestep) (T, error) {
	return v.Get(ts.Period())
}

// SetTS stores the value addressed by a timestep cursor.
func (v *Vector[T]) SetTS(ts *timestep.Timestep, value T) error {
	return v.Set(ts.Period(), value)
}
