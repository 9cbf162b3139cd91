package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/registry"
	"github.com/vk/gridsim/internal/timestep"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	producer := model.NewComponentDef(model.ComponentID{Namespace: "test", Name: "producer"})
	require.NoError(t, producer.AddVariable(model.DatumDef{Name: "out", Dims: []string{model.TimeDim}}))
	producer.SetUpdate(func(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
		return nil
	})
	reg.RegisterComponent(producer)

	consumer := model.NewComponentDef(model.ComponentID{Namespace: "test", Name: "consumer"})
	require.NoError(t, consumer.AddParameter(model.DatumDef{Name: "in", Dims: []string{model.TimeDim}}))
	require.NoError(t, consumer.AddParameter(model.DatumDef{Name: "gain"}))
	require.NoError(t, consumer.AddVariable(model.DatumDef{Name: "acc", Dims: []string{model.TimeDim}}))
	consumer.SetUpdate(func(ctx context.Context, p *binding.Params, v *binding.Vars, ts *timestep.Timestep) error {
		return nil
	})
	reg.RegisterComponent(consumer)

	return reg
}

const basicModel = `
model {
  namespace = "demo"

  time {
    first = 2000
    step  = 5
    last  = 2020
  }
}

component "producer" "src" {}

component "consumer" "dst" {}

connect {
  from = "src.out"
  to   = "dst.in"
}

bind {
  component = "dst"
  parameter = "gain"
  key       = "gain"
}

parameter "gain" {
  value = 2.5
}
`

func TestLoad_BasicModel(t *testing.T) {
	dir := writeFiles(t, map[string]string{"model.hcl": basicModel})

	def, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, "demo", def.Namespace())
	first, step, last := def.TimeRange()
	require.Equal(t, 2000, first)
	require.Equal(t, 5, step)
	require.Equal(t, 2020, last)
	require.Equal(t, 5, def.StepCount())

	require.Equal(t, []string{"src", "dst"}, def.ComponentNames())
	cd, ok := def.Component("src")
	require.True(t, ok)
	require.Equal(t, "test.producer", cd.ID().String())

	conns := def.InternalConnections()
	require.Len(t, conns, 1)
	require.Equal(t, "src", conns[0].SrcComponent)
	require.Equal(t, "out", conns[0].SrcVariable)
	require.Equal(t, "dst", conns[0].DstComponent)
	require.Equal(t, "in", conns[0].DstParameter)

	p, ok := def.Param("gain")
	require.True(t, ok)
	require.Equal(t, 2.5, p.(model.ScalarParam).Value)
}

func TestLoad_SplitAcrossFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.hcl": `
model {
  namespace = "demo"
  time {
    first = 2000
    step  = 1
    last  = 2002
  }
}

component "producer" "src" {}
`,
		"params/values.hcl": `
parameter "feed" {
  values = [1.0, 2.0, 3.0]
}
`,
	})

	def, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, []string{"src"}, def.ComponentNames())

	p, ok := def.Param("feed")
	require.True(t, ok)
	arr := p.(model.ArrayParam)
	require.Equal(t, []float64{1, 2, 3}, arr.Values)
	require.Equal(t, []int{3}, arr.Shape)
	// Unnamed one-dimensional values default to the time dimension.
	require.Equal(t, []string{model.TimeDim}, arr.Dims)
}

func TestLoad_NestedValues(t *testing.T) {
	dir := writeFiles(t, map[string]string{"model.hcl": `
model {
  namespace = "demo"
  time {
    first = 2000
    step  = 1
    last  = 2001
  }
}

index "region" {
  values = ["north", "south", "east"]
}

parameter "grid" {
  values = [[1.0, 2.0, 3.0], [4.0, 5.0, 6.0]]
  dims   = ["time", "region"]
}
`})

	def, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
	require.NoError(t, err)

	dim, ok := def.Index("region")
	require.True(t, ok)
	require.Equal(t, 3, dim.Count)

	p, _ := def.Param("grid")
	arr := p.(model.ArrayParam)
	require.Equal(t, []int{2, 3}, arr.Shape)
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, arr.Values)
	require.Equal(t, []string{"time", "region"}, arr.Dims)
}

func TestLoad_ComponentBounds(t *testing.T) {
	dir := writeFiles(t, map[string]string{"model.hcl": `
model {
  namespace = "demo"
  time {
    first = 2000
    step  = 5
    last  = 2020
  }
}

component "producer" "src" {
  first = 2005
  last  = 2015
}
`})

	def, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
	require.NoError(t, err)

	first, last, ok := def.ComponentBounds("src")
	require.True(t, ok)
	require.Equal(t, 2005, *first)
	require.Equal(t, 2015, *last)
}

func TestLoad_ConnectWithBackup(t *testing.T) {
	dir := writeFiles(t, map[string]string{"model.hcl": `
model {
  namespace = "demo"
  time {
    first = 2000
    step  = 1
    last  = 2002
  }
}

component "producer" "src" {}

component "consumer" "dst" {}

connect {
  from   = "src.out"
  to     = "dst.in"
  backup = "fallback"
}

parameter "fallback" {
  values = [0.0, 0.0, 0.0]
}
`})

	def, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
	require.NoError(t, err)

	conns := def.InternalConnections()
	require.Len(t, conns, 1)
	require.Equal(t, "fallback", conns[0].Backup)
	require.Equal(t, []string{"fallback"}, def.Backups())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no files",
			files:   map[string]string{"readme.txt": "not a model"},
			wantErr: "no .hcl files",
		},
		{
			name:    "no model block",
			files:   map[string]string{"model.hcl": `component "producer" "src" {}`},
			wantErr: "no model block",
		},
		{
			name: "duplicate model block",
			files: map[string]string{
				"a.hcl": "model {\n  namespace = \"a\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n",
				"b.hcl": "model {\n  namespace = \"b\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n",
			},
			wantErr: "duplicate model block",
		},
		{
			name: "missing time block",
			files: map[string]string{
				"model.hcl": "model {\n  namespace = \"demo\"\n}\n",
			},
			wantErr: "missing time block",
		},
		{
			name: "unknown component type",
			files: map[string]string{
				"model.hcl": "model {\n  namespace = \"demo\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n\ncomponent \"mystery\" \"x\" {}\n",
			},
			wantErr: "no component registered",
		},
		{
			name: "parameter with both forms",
			files: map[string]string{
				"model.hcl": "model {\n  namespace = \"demo\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n\nparameter \"x\" {\n  value  = 1.0\n  values = [1.0]\n}\n",
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "parameter with neither form",
			files: map[string]string{
				"model.hcl": "model {\n  namespace = \"demo\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n\nparameter \"x\" {\n}\n",
			},
			wantErr: "either value or values",
		},
		{
			name: "malformed connect reference",
			files: map[string]string{
				"model.hcl": "model {\n  namespace = \"demo\"\n  time {\n    first = 2000\n    step = 1\n    last = 2001\n  }\n}\n\ncomponent \"producer\" \"src\" {}\n\ncomponent \"consumer\" \"dst\" {}\n\nconnect {\n  from = \"srcout\"\n  to   = \"dst.in\"\n}\n",
			},
			wantErr: "invalid from reference",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, tc.files)
			_, err := NewLoader(testRegistry(t)).Load(context.Background(), dir)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
