package hitbox

import (
	"github.com/automoto/chrono-tiles/shared/gamemath"
	"github.com/automoto/chrono-tiles/shared/logging"
	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/solarlune/resolv"
	"go.uber.org/zap"
)

// Placement puts a tile of a tileset at a world position (tile top-left).
type Placement struct {
	Tileset *tileset.Tileset
	TileID  uint32
	X, Y    float64
}

// Level holds a collision space filled with tile hitboxes.
type Level struct {
	Space  *resolv.Space
	Width  int
	Height int
	log    *zap.Logger
}

// NewLevel creates an empty space of the given pixel size.
func NewLevel(width, height, cellSize int, log *zap.Logger) *Level {
	return &Level{
		Space:  resolv.NewSpace(width, height, cellSize, cellSize),
		Width:  width,
		Height: height,
		log:    logging.Or(log),
	}
}

// Place adds the hitboxes of one tile and returns the created objects.
func (l *Level) Place(p Placement) ([]*resolv.Object, error) {
	objects, err := Objects(p.Tileset, p.TileID, p.X, p.Y)
	if err != nil {
		return nil, err
	}
	if len(objects) > 0 {
		l.Space.Add(objects...)
	}
	return objects, nil
}

// PlaceAll adds every placement, stopping at the first error.
func (l *Level) PlaceAll(placements []Placement) error {
	total := 0
	for _, p := range placements {
		objects, err := l.Place(p)
		if err != nil {
			return err
		}
		total += len(objects)
	}

	l.log.Debug("placed hitboxes",
		zap.Int("placements", len(placements)),
		zap.Int("objects", total),
		zap.Int("width", l.Width),
		zap.Int("height", l.Height))
	return nil
}

// BodiesAt returns the bodies whose exact shape contains p.
func (l *Level) BodiesAt(p gamemath.Vec2, tags ...string) []*Body {
	var out []*Body
	for _, b := range l.candidates(gamemath.Rect{X: p.X, Y: p.Y, W: 1, H: 1}, tags) {
		if b.Contains(p) {
			out = append(out, b)
		}
	}
	return out
}

// Blocked reports whether the box r overlaps any body carrying one of tags
// (any body when tags is empty).
func (l *Level) Blocked(r gamemath.Rect, tags ...string) bool {
	for _, b := range l.candidates(r, tags) {
		if b.Overlaps(r) {
			return true
		}
	}
	return false
}

// candidates runs the resolv broad phase with a temporary probe object.
func (l *Level) candidates(r gamemath.Rect, tags []string) []*Body {
	probe := resolv.NewObject(r.X, r.Y, r.W, r.H, TagProbe)
	l.Space.Add(probe)
	defer l.Space.Remove(probe)

	check := probe.Check(0, 0, tags...)
	if check == nil {
		return nil
	}

	var out []*Body
	for _, obj := range check.Objects {
		if b, ok := BodyOf(obj); ok {
			out = append(out, b)
		}
	}
	return out
}
