// Package timestep implements the period cursor that drives per-component
// execution: a Timestep is parameterized by a first period, a uniform step
// duration, and a final period, and holds a 1-based step counter. A Clock
// owns a single Timestep and exposes the same operations at the model level.
//
// Encoding the period arithmetic once per cursor lets the time-indexed
// containers translate period to storage slot with a single subtraction and
// division, keeping the per-step hot loop free of repeated validation.
package timestep

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is the sentinel wrapped by every out-of-range failure in
// this package, so callers can match with errors.Is.
var ErrOutOfRange = errors.New("timestep: out of range")

// Timestep is a cursor over the periods [First, First+Step, ..., Last].
// The zero value is not usable; construct with New.
type Timestep struct {
	first int
	step  int
	last  int

	// count is the 1-based step counter. count==1 addresses First.
	count int
}

// New validates the (first, step, last) triple and returns a cursor
// positioned at the first step.
func New(first, step, last int) (*Timestep, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %d", step)
	}
	if last < first {
		return nil, fmt.Errorf("final period %d precedes first period %d", last, first)
	}
	if (last-first)%step != 0 {
		return nil, fmt.Errorf("final period %d is not reachable from %d with step %d", last, first, step)
	}
	return &Timestep{first: first, step: step, last: last, count: 1}, nil
}

// First returns the first period of the cursor's range.
func (t *Timestep) First() int { return t.first }

// Step returns the step duration.
func (t *Timestep) Step() int { return t.step }

// Last returns the final period of the cursor's range.
func (t *Timestep) Last() int { return t.last }

// Count returns the 1-based step counter.
func (t *Timestep) Count() int { return t.count }

// StepCount returns the total number of steps in the range, including both
// endpoints.
func (t *Timestep) StepCount() int {
	return (t.last-t.first)/t.step + 1
}

// Remaining returns how many advances are still possible.
func (t *Timestep) Remaining() int {
	return t.StepCount() - t.count
}

// Period returns the calendar period the cursor currently addresses.
func (t *Timestep) Period() int {
	return t.first + (t.count-1)*t.step
}

// IsFirst reports whether the cursor addresses the first period.
func (t *Timestep) IsFirst() bool { return t.count == 1 }

// IsFinal reports whether the cursor addresses the final period.
func (t *Timestep) IsFinal() bool { return t.count == t.StepCount() }

// Advance moves the cursor one step forward. Advancing past the final
// step fails with an error wrapping ErrOutOfRange; the cursor is left
// unchanged on failure.
func (t *Timestep) Advance() error {
	if t.IsFinal() {
		return fmt.Errorf("%w: cannot advance past final period %d", ErrOutOfRange, t.last)
	}
	t.count++
	return nil
}
