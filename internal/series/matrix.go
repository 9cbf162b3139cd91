package series

import (
	"fmt"

	"github.com/vk/gridsim/internal/timestep"
)

// Matrix is a two-dimensional series: the first dimension is addressed by
// calendar period, the second is an ordinary zero-based index with
// conventional bounds checking.
type Matrix[T Number] struct {
	data  []T // row-major, rows = periods
	first int
	step  int
	cols  int
}

// NewMatrix allocates zero-initialized storage for rows periods by cols
// columns.
func NewMatrix[T Number](first, step, rows, cols int) (*Matrix[T], error) {
	if step <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %d", step)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix extents must be positive, got %dx%d", rows, cols)
	}
	return &Matrix[T]{data: make([]T, rows*cols), first: first, step: step, cols: cols}, nil
}

// MatrixOf wraps an existing row-major backing slice without copying it.
func MatrixOf[T Number](data []T, first, step, cols int) (*Matrix[T], error) {
	if step <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %d", step)
	}
	if cols <= 0 || len(data) == 0 || len(data)%cols != 0 {
		return nil, fmt.Errorf("backing slice length %d is not a multiple of %d columns", len(data), cols)
	}
	return &Matrix[T]{data: data, first: first, step: step, cols: cols}, nil
}

// First returns the first covered period.
func (m *Matrix[T]) First() int { return m.first }

// Step returns the step duration.
func (m *Matrix[T]) Step() int { return m.step }

// Last returns the last covered period.
func (m *Matrix[T]) Last() int { return m.first + (m.Rows()-1)*m.step }

// Rows returns the number of covered periods.
func (m *Matrix[T]) Rows() int { return len(m.data) / m.cols }

// Cols returns the size of the second dimension.
func (m *Matrix[T]) Cols() int { return m.cols }

// Values exposes the row-major backing slice.
func (m *Matrix[T]) Values() []T { return m.data }

// SlotOf translates a calendar period into a row index, checking range and
// step alignment.
func (m *Matrix[T]) SlotOf(period int) (int, error) {
	off := period - m.first
	if off < 0 || off%m.step != 0 || off/m.step >= m.Rows() {
		return 0, fmt.Errorf("%w: period %d not covered by [%d:%d:%d]",
			ErrOutOfBounds, period, m.first, m.step, m.Last())
	}
	return off / m.step, nil
}

// PeriodOf translates a row index back into its calendar period.
func (m *Matrix[T]) PeriodOf(row int) int {
	return m.first + row*m.step
}

// Covers reports whether the period lies inside the covered range.
func (m *Matrix[T]) Covers(period int) bool {
	_, err := m.SlotOf(period)
	return err == nil
}

// Get returns the value stored for (period, col), with bounds checking on
// both dimensions.
func (m *Matrix[T]) Get(period, col int) (T, error) {
	var zero T
	row, err := m.SlotOf(period)
	if err != nil {
		return zero, err
	}
	if col < 0 || col >= m.cols {
		return zero, fmt.Errorf("%w: column %d outside [0,%d)", ErrOutOfBounds, col, m.cols)
	}
	return m.data[row*m.cols+col], nil
}

// GetUnchecked returns the value stored for (period, col) without
// period validation. The column index is still bounds-checked by the
// runtime's slice access.
func (m *Matrix[T]) GetUnchecked(period, col int) T {
	return m.data[((period-m.first)/m.step)*m.cols+col]
}

// Set stores a value for (period, col), with bounds checking.
func (m *Matrix[T]) Set(period, col int, value T) error {
	row, err := m.SlotOf(period)
	if err != nil {
		return err
	}
	if col < 0 || col >= m.cols {
		return fmt.Errorf("%w: column %d outside [0,%d)", ErrOutOfBounds, col, m.cols)
	}
	m.data[row*m.cols+col] = value
	return nil
}

// SetUnchecked stores a value for (period, col) without period validation.
func (m *Matrix[T]) SetUnchecked(period, col int, value T) {
	m.data[((period-m.first)/m.step)*m.cols+col] = value
}

// GetTS returns the value addressed by a timestep cursor and column.
func (m *Matrix[T]) GetTS(ts *timestep.Timestep, col int) (T, error) {
	return m.Get(ts.Period(), col)
}

// SetTS stores the value addressed by a timestep cursor and column.
func (m *Matrix[T]) SetTS(ts *timestep.Timestep, col int, value T) error {
	return m.Set(ts.Period(), col, value)
}
