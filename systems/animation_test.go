package systems

import (
	"os"
	"testing"
	"time"

	"github.com/automoto/chrono-tiles/components"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/automoto/chrono-tiles/systems/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func TestUpdateTileAnimations(t *testing.T) {
	ts, err := tileset.Load(os.DirFS("../shared/tileset/testdata"), "tilesets/overworld_bg.tsx")
	require.NoError(t, err)

	w := ecs.NewECS(donburi.NewWorld())
	water, err := factory.SpawnTile(w, ts, 442, 0, 0)
	require.NoError(t, err)
	still, err := factory.SpawnTile(w, ts, 3, 16, 0)
	require.NoError(t, err)

	UpdateTileAnimations(w, 1500*time.Millisecond)
	assert.Equal(t, uint32(445), components.Tile.Get(water).Shown)
	assert.Equal(t, uint32(3), components.Tile.Get(still).Shown)

	components.Animation.Get(water).Paused = true
	UpdateTileAnimations(w, time.Second)
	assert.Equal(t, uint32(445), components.Tile.Get(water).Shown)
	components.Animation.Get(water).Paused = false

	w.AddSystem(NewTileAnimationSystem(time.Second))
	w.Update()
	w.Update()
	assert.Equal(t, uint32(451), components.Tile.Get(water).Shown)
	w.Update()
	assert.Equal(t, uint32(442), components.Tile.Get(water).Shown)
	assert.Equal(t, 1, components.Animation.Get(water).Player.Loops())
}
