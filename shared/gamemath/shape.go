package gamemath

import "math"

// Vec2 is a point or offset in tile-local pixels.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Corners returns the four corners in Tiled order: top-left, top-right,
// bottom-left, bottom-right.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X, r.Y + r.H},
		{r.X + r.W, r.Y + r.H},
	}
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Overlaps reports whether r and o share any area. Touching edges count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Ellipse is the ellipse inscribed in a bounding box.
type Ellipse struct {
	Center Vec2
	RX, RY float64
}

// EllipseInRect derives centre and radii from the bounding box.
func EllipseInRect(r Rect) Ellipse {
	return Ellipse{
		Center: Vec2{r.X + r.W/2, r.Y + r.H/2},
		RX:     r.W / 2,
		RY:     r.H / 2,
	}
}

// IsCircle reports whether both radii match within eps.
func (e Ellipse) IsCircle(eps float64) bool {
	return math.Abs(e.RX-e.RY) <= eps
}

// Contains reports whether p lies inside e (boundary included).
func (e Ellipse) Contains(p Vec2) bool {
	if e.RX <= 0 || e.RY <= 0 {
		return false
	}
	dx := (p.X - e.Center.X) / e.RX
	dy := (p.Y - e.Center.Y) / e.RY
	return dx*dx+dy*dy <= 1+1e-9
}

// OverlapsRect reports whether e and an axis-aligned r intersect. Both are
// scaled so that e becomes the unit circle, which keeps r axis-aligned.
func (e Ellipse) OverlapsRect(r Rect) bool {
	if e.RX <= 0 || e.RY <= 0 {
		return false
	}
	minX := (r.X - e.Center.X) / e.RX
	maxX := (r.X + r.W - e.Center.X) / e.RX
	minY := (r.Y - e.Center.Y) / e.RY
	maxY := (r.Y + r.H - e.Center.Y) / e.RY

	nx := math.Max(minX, math.Min(0, maxX))
	ny := math.Max(minY, math.Min(0, maxY))
	return nx*nx+ny*ny <= 1+1e-9
}

// Bounds returns the ellipse's bounding box.
func (e Ellipse) Bounds() Rect {
	return Rect{e.Center.X - e.RX, e.Center.Y - e.RY, 2 * e.RX, 2 * e.RY}
}

// RotatePoint rotates p around c by angle degrees. Tiled rotates clockwise
// in screen space (y down), which is a positive angle here.
func RotatePoint(c Vec2, angle float64, p Vec2) Vec2 {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle * math.Pi / 180)
	dx := p.X - c.X
	dy := p.Y - c.Y
	return Vec2{
		X: cos*dx - sin*dy + c.X,
		Y: sin*dx + cos*dy + c.Y,
	}
}

// RotatedCorners returns r's corners rotated around its top-left corner,
// which is how Tiled rotates objects.
func RotatedCorners(r Rect, angle float64) [4]Vec2 {
	corners := r.Corners()
	origin := Vec2{r.X, r.Y}
	for i, p := range corners {
		corners[i] = RotatePoint(origin, angle, p)
	}
	return corners
}

// BoundsOf returns the smallest Rect that holds every point.
func BoundsOf(points ...Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}
