package binding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridsim/internal/series"
)

func TestView_BindAndLookup(t *testing.T) {
	v := NewView()
	vec, err := series.NewVector[float64](2000, 5, 3)
	require.NoError(t, err)

	require.NoError(t, v.Bind("rate", NewScalar(0.05)))
	require.NoError(t, v.Bind("output", vec))
	require.Equal(t, []string{"rate", "output"}, v.Names())

	s, err := v.Scalar("rate")
	require.NoError(t, err)
	require.Equal(t, 0.05, s.Get())

	got, err := v.Vector("output")
	require.NoError(t, err)
	require.Same(t, vec, got)
}

func TestView_DuplicateBind(t *testing.T) {
	v := NewView()
	require.NoError(t, v.Bind("rate", NewScalar(1)))
	require.ErrorContains(t, v.Bind("rate", NewScalar(2)), "already bound")
}

func TestView_UnknownDatum(t *testing.T) {
	v := NewView()
	_, err := v.Handle("nope")
	require.ErrorIs(t, err, ErrUnknownDatum)
	_, err = v.Scalar("nope")
	require.ErrorIs(t, err, ErrUnknownDatum)
	_, err = v.Vector("nope")
	require.ErrorIs(t, err, ErrUnknownDatum)
}

func TestView_TypeMismatch(t *testing.T) {
	v := NewView()
	require.NoError(t, v.Bind("rate", NewScalar(1)))

	_, err := v.Vector("rate")
	require.ErrorContains(t, err, "not a time vector")
	_, err = v.Matrix("rate")
	require.ErrorContains(t, err, "not a time matrix")
	_, err = v.Array("rate")
	require.ErrorContains(t, err, "not an array")
}

func TestScalarAndArrayHandles(t *testing.T) {
	s := NewScalar(1)
	s.Set(2.5)
	require.Equal(t, 2.5, s.Get())

	backing := []float64{1, 2, 3}
	a := NewArray(backing)
	require.Equal(t, 3, a.Len())
	a.Set(1, 9)
	require.Equal(t, 9.0, a.Get(1))
	// The handle wraps, not copies.
	require.Equal(t, 9.0, backing[1])
}
