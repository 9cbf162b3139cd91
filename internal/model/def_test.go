package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testComp(name string) *ComponentDef {
	cd := NewComponentDef(ComponentID{Namespace: "test", Name: name})
	if err := cd.AddVariable(DatumDef{Name: "out", Dims: []string{TimeDim}}); err != nil {
		panic(err)
	}
	if err := cd.AddParameter(DatumDef{Name: "in", Dims: []string{TimeDim}}); err != nil {
		panic(err)
	}
	return cd
}

func TestDef_AddComponent_Ordering(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))
	require.NoError(t, d.AddComponent("c", testComp("c")))
	require.NoError(t, d.AddComponent("b", testComp("b"), Before("c")))
	require.NoError(t, d.AddComponent("d", testComp("d"), After("a")))
	require.Equal(t, []string{"a", "d", "b", "c"}, d.ComponentNames())
}

func TestDef_AddComponent_Duplicate(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))
	err := d.AddComponent("a", testComp("a2"))
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "component", dup.Kind)
	require.Equal(t, "a", dup.Name)
	require.Equal(t, []string{"a"}, d.ComponentNames())
}

func TestDef_AddComponent_UnknownAnchor(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))

	var unk *UnknownReferenceError
	require.ErrorAs(t, d.AddComponent("b", testComp("b"), Before("nope")), &unk)
	require.Equal(t, "nope", unk.Name)
	require.ErrorAs(t, d.AddComponent("b", testComp("b"), After("nope")), &unk)

	// A failed insert must not leave the instance behind.
	require.Equal(t, []string{"a"}, d.ComponentNames())
}

func TestDef_AddComponent_Bounds(t *testing.T) {
	d := New("test")
	require.Error(t, d.AddComponent("a", testComp("a"), WithBounds(2100, 2000)))

	require.NoError(t, d.AddComponent("a", testComp("a"), WithBounds(2010, 2090)))
	first, last, ok := d.ComponentBounds("a")
	require.True(t, ok)
	require.Equal(t, 2010, *first)
	require.Equal(t, 2090, *last)
}

func TestDef_ConnectInternal_UnknownComponent(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))

	var unk *UnknownReferenceError
	require.ErrorAs(t, d.ConnectInternal("nope", "out", "a", "in"), &unk)
	require.ErrorAs(t, d.ConnectInternal("a", "out", "nope", "in"), &unk)
	require.Empty(t, d.InternalConnections())
}

func TestDef_ConnectInternal_BackupRegistered(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))
	require.NoError(t, d.AddComponent("b", testComp("b")))

	require.NoError(t, d.ConnectInternal("a", "out", "b", "in", WithBackup("fallback")))
	require.Equal(t, []string{"fallback"}, d.Backups())

	conns := d.InternalConnections()
	require.Len(t, conns, 1)
	require.Equal(t, "fallback", conns[0].Backup)
}

func TestDef_ConnectExternal_PlaceholderParam(t *testing.T) {
	d := New("test")
	require.NoError(t, d.AddComponent("a", testComp("a")))
	require.NoError(t, d.ConnectExternal("a", "in", "rates"))

	// Binding before assignment creates a nil placeholder entry.
	p, ok := d.Param("rates")
	require.True(t, ok)
	require.Nil(t, p)

	d.SetParam("rates", ScalarParam{Value: 0.05})
	p, ok = d.Param("rates")
	require.True(t, ok)
	require.Equal(t, 0.05, p.(ScalarParam).Value)
}

func TestDef_SetTimeLabels(t *testing.T) {
	d := New("test")
	require.False(t, d.TimeSet())

	require.Error(t, d.SetTimeLabels(nil))
	require.Error(t, d.SetTimeLabels([]int{2000, 2000}))
	require.Error(t, d.SetTimeLabels([]int{2000, 2005, 2011}))

	require.NoError(t, d.SetTimeLabels([]int{2000, 2005, 2010, 2015, 2020}))
	require.True(t, d.TimeSet())
	first, step, last := d.TimeRange()
	require.Equal(t, 2000, first)
	require.Equal(t, 5, step)
	require.Equal(t, 2020, last)
	require.Equal(t, 5, d.StepCount())

	// Single-period axis defaults to step 1.
	require.NoError(t, d.SetTimeLabels([]int{1990}))
	first, step, last = d.TimeRange()
	require.Equal(t, 1990, first)
	require.Equal(t, 1, step)
	require.Equal(t, 1990, last)
}

func TestDef_Indexes(t *testing.T) {
	d := New("test")
	require.Error(t, d.SetIndex(TimeDim, []string{"x"}))
	require.Error(t, d.SetIndexCount(TimeDim, 3))
	require.Error(t, d.SetIndex("region", nil))
	require.Error(t, d.SetIndexCount("region", 0))

	require.NoError(t, d.SetIndex("region", []string{"north", "south"}))
	require.NoError(t, d.SetIndexCount("sector", 4))
	require.Equal(t, []string{"region", "sector"}, d.IndexNames())

	dim, ok := d.Index("region")
	require.True(t, ok)
	require.Equal(t, 2, dim.Count)
	require.Equal(t, []string{"north", "south"}, dim.Values)

	dim, ok = d.Index("sector")
	require.True(t, ok)
	require.Equal(t, 4, dim.Count)
	require.Nil(t, dim.Values)
}

func TestDef_RevisionBumpsOnMutation(t *testing.T) {
	d := New("test")
	rev := d.Revision()

	require.NoError(t, d.AddComponent("a", testComp("a")))
	require.Greater(t, d.Revision(), rev)
	rev = d.Revision()

	require.NoError(t, d.SetTimeLabels([]int{2000, 2001}))
	require.Greater(t, d.Revision(), rev)
	rev = d.Revision()

	d.SetParam("x", ScalarParam{Value: 1})
	require.Greater(t, d.Revision(), rev)
	rev = d.Revision()

	// Reads do not bump the revision.
	d.ComponentNames()
	d.TimeRange()
	require.Equal(t, rev, d.Revision())
}
