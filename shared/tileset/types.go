// Package tileset loads Tiled tileset documents (.tsx) into plain Go values.
// It has no dependencies on rendering or physics; consumers turn the parsed
// collision objects and animations into whatever their engine needs.
package tileset

import (
	"image"
	"time"
)

// Mode tells how a tileset stores its pixels.
type Mode int

const (
	// ModeCollection is a tileset with one image per tile (columns="0").
	ModeCollection Mode = iota
	// ModeAtlas is a tileset packed into a single shared image.
	ModeAtlas
)

func (m Mode) String() string {
	if m == ModeAtlas {
		return "atlas"
	}
	return "collection"
}

// Tileset is the root container of a .tsx document.
type Tileset struct {
	Path       string // slash-separated path of the document inside its fs.FS
	Name       string
	Class      string
	TileWidth  int
	TileHeight int
	Margin     int
	Spacing    int
	TileCount  int
	Columns    int
	Grid       *Grid  // collection tilesets only
	Image      *Image // atlas tilesets only
	Properties Properties
	Tiles      []Tile
}

// Grid mirrors the <grid> element written for image collection tilesets.
type Grid struct {
	Orientation string
	Width       int
	Height      int
}

// Image references a picture on disk.
type Image struct {
	Source string // attribute value, relative to the tileset file
	Path   string // Source resolved against the tileset directory
	Width  int
	Height int
}

// Tile is one addressable sprite of a tileset.
type Tile struct {
	ID         uint32
	Class      string // class= attribute, or type= before Tiled 1.9
	Image      *Image // collection tilesets only
	Group      *ObjectGroup
	Animation  Animation
	Properties Properties
}

// ObjectGroup holds the collision objects attached to a tile.
type ObjectGroup struct {
	Name      string
	DrawOrder string
	Objects   []CollisionObject
}

// Shape is the geometric kind of a collision object.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeEllipse
	// ShapeUnsupported marks polygons, polylines and other shapes the
	// collision model does not handle.
	ShapeUnsupported
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "unsupported"
	}
}

// CollisionObject is a tile-local hitbox. Ellipses are inscribed in the
// X, Y, Width, Height bounding box.
type CollisionObject struct {
	ID       uint32
	Name     string
	Type     string // e.g. "collidable", "environment_static"
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // degrees, clockwise around X, Y
	Shape    Shape

	Properties Properties
}

// Property is one custom <property>. Value is the raw attribute text; Type
// is empty for strings.
type Property struct {
	Name  string
	Type  string
	Value string
}

// Properties keeps custom properties in document order.
type Properties []Property

// Get returns the first property with the given name.
func (p Properties) Get(name string) (Property, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32
	Duration time.Duration
}

// Animation is an ordered frame list that loops indefinitely.
type Animation []Frame

// TotalDuration is the length of one full loop.
func (a Animation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a {
		total += f.Duration
	}
	return total
}

// TileIDs returns the tile id of every frame in order.
func (a Animation) TileIDs() []uint32 {
	ids := make([]uint32, len(a))
	for i, f := range a {
		ids[i] = f.TileID
	}
	return ids
}

// Objects returns the tile's collision objects, or nil.
func (t *Tile) Objects() []CollisionObject {
	if t.Group == nil {
		return nil
	}
	return t.Group.Objects
}

// Mode reports whether the tileset is atlas-packed or an image collection.
func (ts *Tileset) Mode() Mode {
	if ts.Columns > 0 {
		return ModeAtlas
	}
	return ModeCollection
}

// Tile returns the declared <tile> with the given id.
func (ts *Tileset) Tile(id uint32) (*Tile, bool) {
	for i := range ts.Tiles {
		if ts.Tiles[i].ID == id {
			return &ts.Tiles[i], true
		}
	}
	return nil, false
}

// HasTile reports whether id addresses a tile of this tileset. Atlas cells
// exist without a <tile> element, so any id below the tile count resolves.
func (ts *Tileset) HasTile(id uint32) bool {
	if ts.Mode() == ModeAtlas {
		return int64(id) < int64(ts.TileCount)
	}
	_, ok := ts.Tile(id)
	return ok
}

// TileRect returns the pixel rectangle of an atlas cell.
func (ts *Tileset) TileRect(id uint32) (image.Rectangle, bool) {
	if ts.Mode() != ModeAtlas || !ts.HasTile(id) {
		return image.Rectangle{}, false
	}
	col := int(id) % ts.Columns
	row := int(id) / ts.Columns
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight), true
}

// AnimatedTiles returns the tiles that carry an animation.
func (ts *Tileset) AnimatedTiles() []*Tile {
	var out []*Tile
	for i := range ts.Tiles {
		if len(ts.Tiles[i].Animation) > 0 {
			out = append(out, &ts.Tiles[i])
		}
	}
	return out
}

// Images returns every image the tileset references.
func (ts *Tileset) Images() []*Image {
	var out []*Image
	if ts.Image != nil {
		out = append(out, ts.Image)
	}
	for i := range ts.Tiles {
		if ts.Tiles[i].Image != nil {
			out = append(out, ts.Tiles[i].Image)
		}
	}
	return out
}
