package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retromarket/retromarket/internal/client/models"
)

func TestProfileCache_SetGetClear(t *testing.T) {
	pc := NewProfileCache()

	require.Nil(t, pc.Get(), "empty cache serves nil")

	p := &models.ExtendedProfile{
		Identity:       models.Identity{ID: "1", Email: "ana@example.com"},
		EmailConfirmed: true,
		CPF:            "111.111.111-11",
	}
	pc.Set(p)
	require.Same(t, p, pc.Get())

	pc.Clear()
	require.Nil(t, pc.Get())
}

func TestProfileCache_SetOverwritesSlot(t *testing.T) {
	pc := NewProfileCache()

	first := &models.ExtendedProfile{Identity: models.Identity{ID: "1"}}
	second := &models.ExtendedProfile{Identity: models.Identity{ID: "2"}}

	pc.Set(first)
	pc.Set(second)

	got := pc.Get()
	require.Same(t, second, got, "only one cached profile exists at a time")
}

func TestProfileCache_ClearIdempotent(t *testing.T) {
	pc := NewProfileCache()
	pc.Clear()
	pc.Clear()
	require.Nil(t, pc.Get())
}
