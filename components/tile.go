package components

import (
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/yohamta/donburi"
)

// TileData places one tile of a tileset in the world. Shown is the tile id
// currently displayed, which differs from TileID while an animation runs.
type TileData struct {
	Tileset *tileset.Tileset
	TileID  uint32
	Shown   uint32
	X, Y    float64
}

var Tile = donburi.NewComponentType[TileData]()
