package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridsim/internal/model"
)

func schema(ns, name string) *model.ComponentDef {
	return model.NewComponentDef(model.ComponentID{Namespace: ns, Name: name})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()
	cd := schema("climate", "co2cycle")
	r.RegisterComponent(cd)

	got, ok := r.Lookup(model.ComponentID{Namespace: "climate", Name: "co2cycle"})
	require.True(t, ok)
	require.Same(t, cd, got)

	_, ok = r.Lookup(model.ComponentID{Namespace: "climate", Name: "nope"})
	require.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterComponent(schema("climate", "co2cycle"))
	require.Panics(t, func() {
		r.RegisterComponent(schema("climate", "co2cycle"))
	})
}

func TestRegistry_Resolve(t *testing.T) {
	r := New()
	cd := schema("climate", "co2cycle")
	r.RegisterComponent(cd)
	r.RegisterComponent(schema("economy", "grosseconomy"))

	got, err := r.Resolve("climate.co2cycle")
	require.NoError(t, err)
	require.Same(t, cd, got)

	// A bare name resolves when unique.
	got, err = r.Resolve("co2cycle")
	require.NoError(t, err)
	require.Same(t, cd, got)

	_, err = r.Resolve("nope")
	require.ErrorContains(t, err, "no component registered")
	_, err = r.Resolve("climate.nope")
	require.ErrorContains(t, err, "no component registered")
}

func TestRegistry_ResolveAmbiguous(t *testing.T) {
	r := New()
	r.RegisterComponent(schema("climate", "cycle"))
	r.RegisterComponent(schema("economy", "cycle"))

	_, err := r.Resolve("cycle")
	require.ErrorContains(t, err, "ambiguous")

	// Qualification disambiguates.
	got, err := r.Resolve("economy.cycle")
	require.NoError(t, err)
	require.Equal(t, "economy", got.ID().Namespace)
}

func TestRegistry_Reset(t *testing.T) {
	r := New()
	r.RegisterComponent(schema("climate", "co2cycle"))
	require.Len(t, r.IDs(), 1)

	r.Reset()
	require.Empty(t, r.IDs())
	_, ok := r.Lookup(model.ComponentID{Namespace: "climate", Name: "co2cycle"})
	require.False(t, ok)

	// A reset registry accepts the identity again without panicking.
	require.NotPanics(t, func() {
		r.RegisterComponent(schema("climate", "co2cycle"))
	})
}
