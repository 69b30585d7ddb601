package tags

import (
	"github.com/yohamta/donburi"
)

var (
	Tile         = donburi.NewTag().SetName("Tile")
	AnimatedTile = donburi.NewTag().SetName("AnimatedTile")
	Collidable   = donburi.NewTag().SetName("Collidable")
)
