package timestep

// Clock owns one Timestep and drives a component (or a whole model, when
// every component shares the same bounds) across its period range.
type Clock struct {
	ts *Timestep
}

// NewClock constructs a clock over (first, step, last).
func NewClock(first, step, last int) (*Clock, error) {
	ts, err := New(first, step, last)
	if err != nil {
		return nil, err
	}
	return &Clock{ts: ts}, nil
}

// Timestep exposes the underlying cursor, which is what update routines
// receive at every step.
func (c *Clock) Timestep() *Timestep { return c.ts }

// Period returns the current calendar period.
func (c *Clock) Period() int { return c.ts.Period() }

// IsFinal reports whether the clock addresses its final step.
func (c *Clock) IsFinal() bool { return c.ts.IsFinal() }

// Advance moves the clock one step forward, failing with ErrOutOfRange
// when advancing past the final step.
func (c *Clock) Advance() error { return c.ts.Advance() }
