package tileset

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/automoto/chrono-tiles/shared/logging"
	"github.com/lafriks/go-tiled"
	"go.uber.org/zap"
)

// Options control how documents are loaded.
type Options struct {
	Policy  Policy
	Workers int // LoadAll concurrency, 0 means unbounded
	Logger  *zap.Logger
}

func (o Options) logger() *zap.Logger {
	return logging.Or(o.Logger)
}

// Load parses the TSX document at path within fsys. It takes an fs.FS so
// callers can pass embed.FS or os.DirFS. The returned tileset is not
// validated; see LoadWith.
func Load(fsys fs.FS, p string) (*Tileset, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open TSX %s: %w", p, err)
	}
	defer f.Close()

	return decode(f, p)
}

// Decode parses a TSX document from r. p is the document's slash path and is
// used to resolve image sources.
func Decode(r io.Reader, p string) (*Tileset, error) {
	return decode(r, p)
}

// LoadWith loads the document and applies the validation policy.
func LoadWith(fsys fs.FS, p string, opts Options) (*Tileset, error) {
	ts, err := Load(fsys, p)
	if err != nil {
		return nil, err
	}

	out, issues, err := Apply(ts, opts.Policy)
	if err != nil {
		return nil, err
	}
	log := opts.logger()
	for _, issue := range issues {
		log.Warn("tileset issue",
			zap.String("tileset", p),
			zap.String("kind", issue.Kind.String()),
			zap.Uint32("tile", issue.TileID),
			zap.String("detail", issue.Message))
	}
	return out, nil
}

// tsxDocument is the <tileset> root of a standalone .tsx file. go-tiled only
// decodes tilesets referenced from a map, and its tile type folds
// <animation> into the frame list, so the grid and the animation element
// itself are captured here.
type tsxDocument struct {
	XMLName xml.Name `xml:"tileset"`
	tiled.Tileset
	Grid  *tsxGrid   `xml:"grid"`
	Tiles []*tsxTile `xml:"tile"`
}

type tsxGrid struct {
	Orientation string `xml:"orientation,attr"`
	Width       int    `xml:"width,attr"`
	Height      int    `xml:"height,attr"`
}

type tsxTile struct {
	tiled.TilesetTile
	Animation *tsxAnimation `xml:"animation"`
}

type tsxAnimation struct {
	Frames []*tiled.AnimationFrame `xml:"frame"`
}

func decode(r io.Reader, p string) (*Tileset, error) {
	var doc tsxDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Path: p, Err: err}
	}
	if doc.TileWidth <= 0 || doc.TileHeight <= 0 {
		return nil, &ParseError{Path: p, Err: errors.New("missing tilewidth/tileheight")}
	}
	doc.SetBaseDir(path.Dir(p))

	return convert(&doc, p), nil
}

func convert(doc *tsxDocument, p string) *Tileset {
	dir := doc.BaseDir()

	ts := &Tileset{
		Path:       p,
		Name:       doc.Name,
		Class:      doc.Class,
		TileWidth:  doc.TileWidth,
		TileHeight: doc.TileHeight,
		Margin:     doc.Margin,
		Spacing:    doc.Spacing,
		TileCount:  doc.TileCount,
		Columns:    doc.Columns,
		Image:      convertImage(doc.Image, dir),
		Properties: convertProperties(doc.Properties),
		Tiles:      make([]Tile, 0, len(doc.Tiles)),
	}
	if doc.Grid != nil {
		ts.Grid = &Grid{
			Orientation: doc.Grid.Orientation,
			Width:       doc.Grid.Width,
			Height:      doc.Grid.Height,
		}
	}

	for _, t := range doc.Tiles {
		tile := Tile{
			ID:         t.ID,
			Class:      classOf(t.Class, t.Type), //nolint:staticcheck // TSX uses type= attribute
			Image:      convertImage(t.Image, dir),
			Properties: convertProperties(t.Properties),
		}
		// TSX allows a single collision group per tile
		if len(t.ObjectGroups) > 0 {
			tile.Group = convertGroup(t.ObjectGroups[0])
		}
		// an <animation> without frames stays non-nil so Validate reports it
		if t.Animation != nil {
			tile.Animation = make(Animation, 0, len(t.Animation.Frames))
			for _, f := range t.Animation.Frames {
				tile.Animation = append(tile.Animation, Frame{
					TileID:   f.TileID,
					Duration: time.Duration(f.Duration) * time.Millisecond,
				})
			}
		}
		ts.Tiles = append(ts.Tiles, tile)
	}

	return ts
}

// classOf prefers class= and falls back to the type= attribute Tiled wrote
// before 1.9.
func classOf(class, typ string) string {
	if class != "" {
		return class
	}
	return typ
}

func convertProperties(props tiled.Properties) Properties {
	if len(props) == 0 {
		return nil
	}
	out := make(Properties, 0, len(props))
	for _, prop := range props {
		out = append(out, Property{Name: prop.Name, Type: prop.Type, Value: prop.Value})
	}
	return out
}

func convertImage(img *tiled.Image, dir string) *Image {
	if img == nil {
		return nil
	}
	out := &Image{
		Source: img.Source,
		Width:  img.Width,
		Height: img.Height,
	}
	if img.Source != "" {
		out.Path = path.Join(dir, img.Source)
	}
	return out
}

func convertGroup(og *tiled.ObjectGroup) *ObjectGroup {
	group := &ObjectGroup{
		Name:      og.Name,
		DrawOrder: og.DrawOrder,
		Objects:   make([]CollisionObject, 0, len(og.Objects)),
	}
	for _, o := range og.Objects {
		shape := ShapeRectangle
		switch {
		case len(o.Ellipses) > 0:
			shape = ShapeEllipse
		case len(o.Polygons) > 0, len(o.PolyLines) > 0, o.Text != nil:
			shape = ShapeUnsupported
		}

		group.Objects = append(group.Objects, CollisionObject{
			ID:       o.ID,
			Name:     o.Name,
			Type:     classOf(o.Class, o.Type), //nolint:staticcheck // TSX uses type= attribute
			X:        o.X,
			Y:        o.Y,
			Width:    o.Width,
			Height:   o.Height,
			Rotation: o.Rotation,
			Shape:    shape,

			Properties: convertProperties(o.Properties),
		})
	}
	return group
}
