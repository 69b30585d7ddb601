package cook

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/automoto/chrono-tiles/shared/gamemath"
	"github.com/automoto/chrono-tiles/shared/tileset"
)

// Exported object kinds
const (
	ObjPolygon = "polygon"
	ObjEllipse = "ellipse"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SheetObject is a collision object in the cooked format. Rectangles become
// four-point polygons, circles keep their position and a radius.
type SheetObject struct {
	ID         uint32          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	ObjType    string          `json:"obj_type"`
	Coords     []Point         `json:"coords,omitempty"`
	X          *float64        `json:"x,omitempty"`
	Y          *float64        `json:"y,omitempty"`
	Radius     float64         `json:"radius,omitempty"`
	Properties []SheetProperty `json:"properties,omitempty"`
}

type SheetFrame struct {
	Index      uint32          `json:"index"`
	Filename   string          `json:"filename"`
	Image      string          `json:"image"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Type       string          `json:"type,omitempty"`
	Objects    []SheetObject   `json:"objects"`
	Properties []SheetProperty `json:"properties,omitempty"`
}

type SheetMeta struct {
	SheetType  string          `json:"sheet_type"`
	Name       string          `json:"name"`
	TileWidth  int             `json:"tile_width"`
	TileHeight int             `json:"tile_height"`
	Properties []SheetProperty `json:"properties,omitempty"`
}

// Objectsheet is the cooked form of a collection tileset.
type Objectsheet struct {
	Meta   SheetMeta    `json:"meta"`
	Frames []SheetFrame `json:"frames"`
}

// BuildObjectsheet converts a collection tileset. Frame images point into
// imageDir, relative to the sheet file.
func BuildObjectsheet(ts *tileset.Tileset, imageDir string) (*Objectsheet, error) {
	if ts.Mode() != tileset.ModeCollection {
		return nil, fmt.Errorf("%s: objectsheet needs a collection tileset, got %s", ts.Path, ts.Mode())
	}

	props, err := translateProperties(ts.Properties)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ts.Path, err)
	}
	sheet := &Objectsheet{
		Meta: SheetMeta{
			SheetType:  "objectsheet",
			Name:       ts.Name,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
			Properties: props,
		},
		Frames: make([]SheetFrame, 0, len(ts.Tiles)),
	}

	names := make(map[string]uint32)
	for _, tile := range ts.Tiles {
		if tile.Image == nil {
			return nil, fmt.Errorf("%s: tile %d has no image", ts.Path, tile.ID)
		}
		base := path.Base(tile.Image.Source)
		if prev, ok := names[base]; ok {
			return nil, fmt.Errorf("%s: tiles %d and %d share image name %s", ts.Path, prev, tile.ID, base)
		}
		names[base] = tile.ID

		frame := SheetFrame{
			Index:    tile.ID,
			Filename: strings.TrimSuffix(base, path.Ext(base)),
			Image:    path.Join(imageDir, base),
			Width:    tile.Image.Width,
			Height:   tile.Image.Height,
			Type:     tile.Class,
			Objects:  []SheetObject{},
		}
		if frame.Properties, err = translateProperties(tile.Properties); err != nil {
			return nil, fmt.Errorf("%s: tile %d: %w", ts.Path, tile.ID, err)
		}
		for _, o := range tile.Objects() {
			so, err := translateObject(o)
			if err != nil {
				return nil, fmt.Errorf("%s: tile %d object %d: %w", ts.Path, tile.ID, o.ID, err)
			}
			frame.Objects = append(frame.Objects, so)
		}
		sheet.Frames = append(sheet.Frames, frame)
	}
	return sheet, nil
}

func translateObject(o tileset.CollisionObject) (SheetObject, error) {
	so := SheetObject{ID: o.ID, Name: o.Name, Type: o.Type}

	switch o.Shape {
	case tileset.ShapeEllipse:
		if o.Width != o.Height {
			return SheetObject{}, errors.New("width/height mismatch: ellipse only supports circles")
		}
		so.ObjType = ObjEllipse
		x, y := o.X, o.Y
		so.X, so.Y = &x, &y
		so.Radius = o.Width
	case tileset.ShapeRectangle:
		so.ObjType = ObjPolygon
		r := gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
		for _, c := range gamemath.RotatedCorners(r, o.Rotation) {
			so.Coords = append(so.Coords, Point{c.X, c.Y})
		}
	default:
		return SheetObject{}, errors.New("shape not supported")
	}

	props, err := translateProperties(o.Properties)
	if err != nil {
		return SheetObject{}, err
	}
	so.Properties = props
	return so, nil
}
