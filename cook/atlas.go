package cook

import (
	"fmt"

	"github.com/automoto/chrono-tiles/shared/tileset"
)

type AtlasFrame struct {
	TileID   uint32 `json:"tileid"`
	Duration int64  `json:"duration"` // ms
}

type AtlasTile struct {
	ID         uint32          `json:"id"`
	Type       string          `json:"type,omitempty"`
	Animation  []AtlasFrame    `json:"animation,omitempty"`
	Properties []SheetProperty `json:"properties,omitempty"`
}

// AtlasSheet is the cooked form of an atlas tileset. Collision data is not
// exported.
type AtlasSheet struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	TileWidth   int             `json:"tilewidth"`
	TileHeight  int             `json:"tileheight"`
	Margin      int             `json:"margin"`
	Spacing     int             `json:"spacing"`
	TileCount   int             `json:"tilecount"`
	Columns     int             `json:"columns"`
	Image       string          `json:"image"`
	ImageWidth  int             `json:"imagewidth"`
	ImageHeight int             `json:"imageheight"`
	Properties  []SheetProperty `json:"properties,omitempty"`
	Tiles       []AtlasTile     `json:"tiles,omitempty"`
}

// BuildAtlas converts an atlas tileset whose image will live at image,
// relative to the sheet file.
func BuildAtlas(ts *tileset.Tileset, image string) (*AtlasSheet, error) {
	if ts.Mode() != tileset.ModeAtlas || ts.Image == nil {
		return nil, fmt.Errorf("%s: tileset export needs an atlas tileset, got %s", ts.Path, ts.Mode())
	}

	sheet := &AtlasSheet{
		Type:        "tileset",
		Name:        ts.Name,
		TileWidth:   ts.TileWidth,
		TileHeight:  ts.TileHeight,
		Margin:      ts.Margin,
		Spacing:     ts.Spacing,
		TileCount:   ts.TileCount,
		Columns:     ts.Columns,
		Image:       image,
		ImageWidth:  ts.Image.Width,
		ImageHeight: ts.Image.Height,
	}
	props, err := translateProperties(ts.Properties)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ts.Path, err)
	}
	sheet.Properties = props

	// only tiles carrying data beyond their grid cell are listed
	for _, tile := range ts.Tiles {
		if len(tile.Animation) == 0 && tile.Class == "" && len(tile.Properties) == 0 {
			continue
		}
		at := AtlasTile{ID: tile.ID, Type: tile.Class}
		for _, f := range tile.Animation {
			at.Animation = append(at.Animation, AtlasFrame{TileID: f.TileID, Duration: f.Duration.Milliseconds()})
		}
		if at.Properties, err = translateProperties(tile.Properties); err != nil {
			return nil, fmt.Errorf("%s: tile %d: %w", ts.Path, tile.ID, err)
		}
		sheet.Tiles = append(sheet.Tiles, at)
	}
	return sheet, nil
}
