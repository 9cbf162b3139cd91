package grosseconomy

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/sim"
)

func TestUpdate_CapitalAccumulation(t *testing.T) {
	m := sim.New("test")
	d := m.Def()
	require.NoError(t, d.SetTimeLabels([]int{2000, 2005, 2010}))
	require.NoError(t, d.AddComponent("economy", Def()))

	for param, key := range map[string]string{
		"l": "labor", "tfp": "tfp", "s": "savings",
		"depk": "depk", "k0": "k0", "share": "share",
	} {
		require.NoError(t, d.ConnectExternal("economy", param, key))
	}

	labor := []float64{100, 110, 121}
	tfp := []float64{5, 5.2, 5.4}
	savings := []float64{0.2, 0.2, 0.2}
	const depk, k0, share = 0.1, 130.0, 0.3

	d.SetParam("labor", model.ArrayParam{Dims: []string{model.TimeDim}, Shape: []int{3}, Values: labor})
	d.SetParam("tfp", model.ArrayParam{Dims: []string{model.TimeDim}, Shape: []int{3}, Values: tfp})
	d.SetParam("savings", model.ArrayParam{Dims: []string{model.TimeDim}, Shape: []int{3}, Values: savings})
	d.SetParam("depk", model.ScalarParam{Value: depk})
	d.SetParam("k0", model.ScalarParam{Value: k0})
	d.SetParam("share", model.ScalarParam{Value: share})

	require.NoError(t, m.Run(context.Background()))

	capital, err := m.GetVector("economy", "K")
	require.NoError(t, err)
	ygross, err := m.GetVector("economy", "YGROSS")
	require.NoError(t, err)

	// Reproduce the recursion by hand: K starts at k0, then carries
	// depreciated capital plus saved output across each 5-year step.
	wantK := make([]float64, 3)
	wantY := make([]float64, 3)
	for i := 0; i < 3; i++ {
		if i == 0 {
			wantK[i] = k0
		} else {
			wantK[i] = math.Pow(1-depk, 5)*wantK[i-1] + wantY[i-1]*savings[i-1]*5
		}
		wantY[i] = tfp[i] * math.Pow(wantK[i], share) * math.Pow(labor[i], 1-share)
	}

	for i := 0; i < 3; i++ {
		require.InDelta(t, wantK[i], capital.Values()[i], 1e-9, "K at slot %d", i)
		require.InDelta(t, wantY[i], ygross.Values()[i], 1e-9, "YGROSS at slot %d", i)
	}
}

func TestDef_Schema(t *testing.T) {
	cd := Def()
	require.Equal(t, ID, cd.ID())
	require.Equal(t, []string{"l", "tfp", "s", "depk", "k0", "share"}, cd.ParameterNames())
	require.Equal(t, []string{"K", "YGROSS"}, cd.VariableNames())
	require.NotNil(t, cd.Update())
}
