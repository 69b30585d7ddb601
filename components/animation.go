package components

import (
	"github.com/automoto/chrono-tiles/assets/animations"
	"github.com/yohamta/donburi"
)

type AnimationData struct {
	Player *animations.Player
	Paused bool
}

var Animation = donburi.NewComponentType[AnimationData]()
