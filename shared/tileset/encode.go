package tileset

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

type xmlTileset struct {
	XMLName    xml.Name  `xml:"tileset"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr,omitempty"`
	TileWidth  int            `xml:"tilewidth,attr"`
	TileHeight int            `xml:"tileheight,attr"`
	Spacing    int            `xml:"spacing,attr,omitempty"`
	Margin     int            `xml:"margin,attr,omitempty"`
	TileCount  int            `xml:"tilecount,attr"`
	Columns    int            `xml:"columns,attr"`
	Grid       *xmlGrid       `xml:"grid"`
	Properties *xmlProperties `xml:"properties"`
	Image      *xmlImage      `xml:"image"`
	Tiles      []xmlTile      `xml:"tile"`
}

type xmlProperties struct {
	Items []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
}

type xmlGrid struct {
	Orientation string `xml:"orientation,attr"`
	Width       int    `xml:"width,attr"`
	Height      int    `xml:"height,attr"`
}

type xmlImage struct {
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Source string `xml:"source,attr"`
}

type xmlTile struct {
	ID          uint32          `xml:"id,attr"`
	Type        string          `xml:"type,attr,omitempty"`
	Properties  *xmlProperties  `xml:"properties"`
	Image       *xmlImage       `xml:"image"`
	ObjectGroup *xmlObjectGroup `xml:"objectgroup"`
	Animation   *xmlAnimation   `xml:"animation"`
}

type xmlObjectGroup struct {
	DrawOrder string      `xml:"draworder,attr"`
	Name      string      `xml:"name,attr,omitempty"`
	Objects   []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID         uint32         `xml:"id,attr"`
	Name       string         `xml:"name,attr,omitempty"`
	Type       string         `xml:"type,attr,omitempty"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Width      float64        `xml:"width,attr"`
	Height     float64        `xml:"height,attr"`
	Rotation   float64        `xml:"rotation,attr,omitempty"`
	Properties *xmlProperties `xml:"properties"`
	Ellipse    *struct{}      `xml:"ellipse"`
}

type xmlAnimation struct {
	Frames []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	TileID   uint32 `xml:"tileid,attr"`
	Duration int64  `xml:"duration,attr"`
}

// Encode writes ts as a TSX document. Encoding then decoding yields a
// tileset equal to ts, apart from objects whose shape is unsupported, which
// are written as rectangles. encoding/xml never self-closes, so empty
// elements come out as <grid ...></grid>.
func Encode(w io.Writer, ts *Tileset) error {
	doc := xmlTileset{
		Name:       ts.Name,
		Class:      ts.Class,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Spacing:    ts.Spacing,
		Margin:     ts.Margin,
		TileCount:  ts.TileCount,
		Columns:    ts.Columns,
		Properties: encodeProperties(ts.Properties),
		Image:      encodeImage(ts.Image),
		Tiles:      make([]xmlTile, 0, len(ts.Tiles)),
	}
	if ts.Grid != nil {
		doc.Grid = &xmlGrid{
			Orientation: ts.Grid.Orientation,
			Width:       ts.Grid.Width,
			Height:      ts.Grid.Height,
		}
	}

	for _, t := range ts.Tiles {
		xt := xmlTile{
			ID:         t.ID,
			Type:       t.Class,
			Properties: encodeProperties(t.Properties),
			Image:      encodeImage(t.Image),
		}
		if t.Group != nil {
			xt.ObjectGroup = &xmlObjectGroup{
				DrawOrder: t.Group.DrawOrder,
				Name:      t.Group.Name,
			}
			for _, o := range t.Group.Objects {
				xo := xmlObject{
					ID:       o.ID,
					Name:     o.Name,
					Type:     o.Type,
					X:        o.X,
					Y:        o.Y,
					Width:    o.Width,
					Height:   o.Height,
					Rotation: o.Rotation,

					Properties: encodeProperties(o.Properties),
				}
				if o.Shape == ShapeEllipse {
					xo.Ellipse = &struct{}{}
				}
				xt.ObjectGroup.Objects = append(xt.ObjectGroup.Objects, xo)
			}
		}
		if t.Animation != nil {
			xt.Animation = &xmlAnimation{}
			for _, f := range t.Animation {
				xt.Animation.Frames = append(xt.Animation.Frames, xmlFrame{
					TileID:   f.TileID,
					Duration: int64(f.Duration / time.Millisecond),
				})
			}
		}
		doc.Tiles = append(doc.Tiles, xt)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode TSX %s: %w", ts.Path, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode TSX %s: %w", ts.Path, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode TSX %s: %w", ts.Path, err)
	}
	return nil
}

func encodeImage(img *Image) *xmlImage {
	if img == nil {
		return nil
	}
	return &xmlImage{
		Width:  img.Width,
		Height: img.Height,
		Source: img.Source,
	}
}

func encodeProperties(props Properties) *xmlProperties {
	if len(props) == 0 {
		return nil
	}
	out := &xmlProperties{Items: make([]xmlProperty, 0, len(props))}
	for _, p := range props {
		out.Items = append(out.Items, xmlProperty{Name: p.Name, Type: p.Type, Value: p.Value})
	}
	return out
}
