package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObjectData holds the hitboxes a tile entity registered in the space.
type ObjectData struct {
	Objects []*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()
