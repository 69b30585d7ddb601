package factory

import (
	"fmt"

	"github.com/automoto/chrono-tiles/archetypes"
	"github.com/automoto/chrono-tiles/assets/animations"
	"github.com/automoto/chrono-tiles/components"
	"github.com/automoto/chrono-tiles/shared/hitbox"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/automoto/chrono-tiles/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SpawnTile creates a tile entity at (x, y). Animated tiles get a player and
// tiles with collision objects register their hitboxes in the world space.
func SpawnTile(ecs *ecs.ECS, ts *tileset.Tileset, id uint32, x, y float64) (*donburi.Entry, error) {
	objects, err := hitbox.Objects(ts, id, x, y)
	if err != nil {
		return nil, err
	}

	var anim tileset.Animation
	if tile, ok := ts.Tile(id); ok {
		anim = tile.Animation
	}

	var extra []donburi.IComponentType
	if len(objects) > 0 {
		extra = append(extra, tags.Collidable, components.Object)
	}

	var entry *donburi.Entry
	if len(anim) > 0 {
		entry = archetypes.AnimatedTile.Spawn(ecs, extra...)
	} else {
		entry = archetypes.Tile.Spawn(ecs, extra...)
	}

	components.Tile.SetValue(entry, components.TileData{
		Tileset: ts,
		TileID:  id,
		Shown:   id,
		X:       x,
		Y:       y,
	})

	if len(anim) > 0 {
		player := animations.NewPlayer(anim)
		components.Animation.SetValue(entry, components.AnimationData{Player: player})
		components.Tile.Get(entry).Shown = player.TileID()
	}

	if len(objects) > 0 {
		space, ok := SpaceOf(ecs)
		if !ok {
			ecs.World.Remove(entry.Entity())
			return nil, fmt.Errorf("spawn tile %d of %s: no collision space", id, ts.Name)
		}
		space.Add(objects...)
		components.Object.SetValue(entry, components.ObjectData{Objects: objects})
	}

	return entry, nil
}

// DestroyTile removes a tile entity and its hitboxes.
func DestroyTile(ecs *ecs.ECS, entry *donburi.Entry) {
	if entry.HasComponent(components.Object) {
		if space, ok := SpaceOf(ecs); ok {
			if obj := components.Object.Get(entry); obj != nil && len(obj.Objects) > 0 {
				space.Remove(obj.Objects...)
			}
		}
	}
	ecs.World.Remove(entry.Entity())
}
