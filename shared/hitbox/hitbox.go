// Package hitbox turns tile collision objects into resolv objects placed in
// world space. resolv does the broad phase through its cell grid; the exact
// rectangle/ellipse test is done on the Body attached to each object.
package hitbox

import (
	"fmt"

	"github.com/automoto/chrono-tiles/shared/gamemath"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/solarlune/resolv"
)

// Resolv tags
const (
	TagSolid   = "solid"
	TagEllipse = "ellipse"
	TagProbe   = "probe"
)

// Body is attached to every resolv object built by this package.
type Body struct {
	Tileset string
	TileID  uint32
	Object  tileset.CollisionObject
	Bounds  gamemath.Rect // world-space bounding box
	ellipse *gamemath.Ellipse
}

// Ellipse returns the world-space ellipse when the body is elliptical.
func (b *Body) Ellipse() (gamemath.Ellipse, bool) {
	if b.ellipse == nil {
		return gamemath.Ellipse{}, false
	}
	return *b.ellipse, true
}

// Contains reports whether the world point lies inside the body's shape.
func (b *Body) Contains(p gamemath.Vec2) bool {
	if b.ellipse != nil {
		return b.ellipse.Contains(p)
	}
	return b.Bounds.Contains(p)
}

// Overlaps reports whether the world rectangle intersects the body's shape.
func (b *Body) Overlaps(r gamemath.Rect) bool {
	if b.ellipse != nil {
		return b.ellipse.OverlapsRect(r)
	}
	return b.Bounds.Overlaps(r)
}

// NewBody computes the world geometry of o for a tile whose top-left corner
// sits at (x, y). Rotated rectangles and rotated non-circular ellipses are
// approximated by the axis-aligned box around them.
func NewBody(tilesetPath string, tileID uint32, o tileset.CollisionObject, x, y float64) *Body {
	local := gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
	body := &Body{
		Tileset: tilesetPath,
		TileID:  tileID,
		Object:  o,
	}

	if o.Shape == tileset.ShapeEllipse {
		e := gamemath.EllipseInRect(local)
		if o.Rotation == 0 || e.IsCircle(1e-6) {
			e.Center = gamemath.RotatePoint(gamemath.Vec2{X: o.X, Y: o.Y}, o.Rotation, e.Center)
			e.Center.X += x
			e.Center.Y += y
			body.ellipse = &e
			body.Bounds = e.Bounds()
			return body
		}
	}

	corners := gamemath.RotatedCorners(local, o.Rotation)
	body.Bounds = gamemath.BoundsOf(corners[:]...).Translate(x, y)
	return body
}

// NewObject builds the resolv object for a body. The object is tagged solid,
// with the collision type when present, and carries the body in Data.
func NewObject(b *Body) *resolv.Object {
	tags := []string{TagSolid}
	if b.Object.Type != "" {
		tags = append(tags, b.Object.Type)
	}
	if b.ellipse != nil {
		tags = append(tags, TagEllipse)
	}

	obj := resolv.NewObject(b.Bounds.X, b.Bounds.Y, b.Bounds.W, b.Bounds.H, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, b.Bounds.W, b.Bounds.H))
	obj.Data = b
	return obj
}

// Objects builds one resolv object per collision object of the tile.
func Objects(ts *tileset.Tileset, tileID uint32, x, y float64) ([]*resolv.Object, error) {
	if !ts.HasTile(tileID) {
		return nil, fmt.Errorf("tileset %s has no tile %d", ts.Name, tileID)
	}
	tile, ok := ts.Tile(tileID)
	if !ok {
		// atlas cell without metadata
		return nil, nil
	}

	objects := tile.Objects()
	out := make([]*resolv.Object, 0, len(objects))
	for _, o := range objects {
		out = append(out, NewObject(NewBody(ts.Path, tileID, o, x, y)))
	}
	return out, nil
}

// BodyOf returns the Body attached to obj, if any.
func BodyOf(obj *resolv.Object) (*Body, bool) {
	b, ok := obj.Data.(*Body)
	return b, ok
}
