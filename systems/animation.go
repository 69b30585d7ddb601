package systems

import (
	"time"

	"github.com/automoto/chrono-tiles/components"
	"github.com/automoto/chrono-tiles/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateTileAnimations advances every animated tile by dt and refreshes the
// tile it shows.
func UpdateTileAnimations(ecs *ecs.ECS, dt time.Duration) {
	tags.AnimatedTile.Each(ecs.World, func(e *donburi.Entry) {
		anim := components.Animation.Get(e)
		if anim.Player == nil || anim.Paused {
			return
		}
		anim.Player.Advance(dt)
		components.Tile.Get(e).Shown = anim.Player.TileID()
	})
}

// NewTileAnimationSystem returns a system that advances animations by a
// fixed step on every update.
func NewTileAnimationSystem(step time.Duration) ecs.System {
	return func(ecs *ecs.ECS) {
		UpdateTileAnimations(ecs, step)
	}
}
