package timestep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesTriple(t *testing.T) {
	_, err := New(2000, 0, 2020)
	require.Error(t, err)

	_, err = New(2020, 5, 2000)
	require.Error(t, err)

	_, err = New(2000, 5, 2023)
	require.Error(t, err, "final period not aligned with step")

	ts, err := New(2000, 5, 2000)
	require.NoError(t, err)
	require.Equal(t, 1, ts.StepCount())
	require.True(t, ts.IsFinal())
}

func TestClock_Monotonicity(t *testing.T) {
	clock, err := NewClock(2000, 5, 2020)
	require.NoError(t, err)

	var periods []int
	periods = append(periods, clock.Period())
	for !clock.IsFinal() {
		require.NoError(t, clock.Advance())
		periods = append(periods, clock.Period())
	}
	require.Equal(t, []int{2000, 2005, 2010, 2015, 2020}, periods)

	err = clock.Advance()
	require.ErrorIs(t, err, ErrOutOfRange, "a fifth advance must fail")
	require.Equal(t, 2020, clock.Period(), "failed advance leaves the cursor unchanged")
}

func TestTimestep_Counters(t *testing.T) {
	ts, err := New(1990, 10, 2050)
	require.NoError(t, err)

	require.Equal(t, 7, ts.StepCount())
	require.Equal(t, 6, ts.Remaining())
	require.True(t, ts.IsFirst())
	require.False(t, ts.IsFinal())

	require.NoError(t, ts.Advance())
	require.Equal(t, 2, ts.Count())
	require.Equal(t, 2000, ts.Period())
	require.Equal(t, 5, ts.Remaining())
	require.False(t, ts.IsFirst())
}
