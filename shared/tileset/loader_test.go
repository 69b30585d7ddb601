package tileset

import (
	"image"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fs.FS {
	return os.DirFS("testdata")
}

func TestLoad_CoatRack(t *testing.T) {
	ts, err := Load(testFS(), "objects/indoors_obj.tsx")
	require.NoError(t, err)

	assert.Equal(t, "indoors_obj", ts.Name)
	assert.Equal(t, ModeCollection, ts.Mode())
	assert.Equal(t, 64, ts.TileWidth)
	assert.Equal(t, 19, ts.TileCount)
	require.NotNil(t, ts.Grid)
	assert.Equal(t, "orthogonal", ts.Grid.Orientation)
	assert.Nil(t, ts.Image)

	tile, ok := ts.Tile(0)
	require.True(t, ok)
	require.NotNil(t, tile.Image)
	assert.Equal(t, "indoors_obj/coat_rack_01.png", tile.Image.Source)
	assert.Equal(t, "objects/indoors_obj/coat_rack_01.png", tile.Image.Path)
	assert.Equal(t, 16, tile.Image.Width)
	assert.Equal(t, 48, tile.Image.Height)

	objects := tile.Objects()
	require.Len(t, objects, 1)
	obj := objects[0]
	assert.Equal(t, ShapeEllipse, obj.Shape)
	assert.Equal(t, "coat_rack_01", obj.Name)
	assert.Equal(t, "collidable", obj.Type)
	assert.Equal(t, 1.625, obj.X)
	assert.Equal(t, 35.125, obj.Y)
	assert.Equal(t, 10.0, obj.Width)
	assert.Equal(t, 10.0, obj.Height)
	assert.Empty(t, tile.Animation)
}

func TestLoad_CoatRackEnvironmentStatic(t *testing.T) {
	ts, err := Load(testFS(), "objects/indoors/indoors_obj.tsx")
	require.NoError(t, err)

	tile, ok := ts.Tile(0)
	require.True(t, ok)
	require.Len(t, tile.Objects(), 1)
	assert.Equal(t, "environment_static", tile.Objects()[0].Type)
	assert.Equal(t, "objects/indoors/coat_rack_01.png", tile.Image.Path)
}

func TestLoad_OverworldBackgroundAnimation(t *testing.T) {
	ts, err := Load(testFS(), "tilesets/overworld_bg.tsx")
	require.NoError(t, err)

	assert.Equal(t, ModeAtlas, ts.Mode())
	assert.Equal(t, 1, ts.Margin)
	assert.Equal(t, 31, ts.Columns)
	assert.Equal(t, 682, ts.TileCount)
	require.NotNil(t, ts.Image)
	assert.Equal(t, "tilesets/overworld_bg.png", ts.Image.Path)
	assert.Equal(t, 498, ts.Image.Width)
	assert.Equal(t, 354, ts.Image.Height)

	tile, ok := ts.Tile(442)
	require.True(t, ok)
	require.Len(t, tile.Animation, 4)
	assert.Equal(t, []uint32{442, 445, 448, 451}, tile.Animation.TileIDs())
	for _, f := range tile.Animation {
		assert.Equal(t, time.Second, f.Duration)
	}
	assert.Equal(t, 4*time.Second, tile.Animation.TotalDuration())
	assert.Len(t, ts.AnimatedTiles(), 25)
}

func TestLoad_TubClawfoot(t *testing.T) {
	ts, err := Load(testFS(), "objects/indoors/indoors_obj.tsx")
	require.NoError(t, err)

	tile, ok := ts.Tile(16)
	require.True(t, ok)
	assert.Equal(t, "tub_clawfoot_01.png", tile.Image.Source)

	objects := tile.Objects()
	require.Len(t, objects, 2)
	assert.Equal(t, ShapeRectangle, objects[0].Shape)
	assert.Equal(t, CollisionObject{
		ID: 1, Name: "tub_clawfoot_01", Type: "environment_static",
		X: 9, Y: 30, Width: 52, Height: 16, Shape: ShapeRectangle,
	}, objects[0])
	assert.Equal(t, ShapeEllipse, objects[1].Shape)
	assert.Equal(t, 12.0, objects[1].Width)
}

func TestLoad_AllTestdataWellFormed(t *testing.T) {
	paths, err := Discover(testFS(), ".")
	require.NoError(t, err)
	require.Len(t, paths, 5)

	for _, p := range paths {
		ts, err := Load(testFS(), p)
		require.NoError(t, err, p)
		assert.Empty(t, Validate(ts), p)

		for _, tile := range ts.Tiles {
			for _, o := range tile.Objects() {
				assert.GreaterOrEqual(t, o.Width, 0.0)
				assert.GreaterOrEqual(t, o.Height, 0.0)
			}
			for _, f := range tile.Animation {
				assert.True(t, ts.HasTile(f.TileID), "%s tile %d frame %d", p, tile.ID, f.TileID)
			}
		}
	}
}

func TestLoad_Idempotent(t *testing.T) {
	for _, p := range []string{"tilesets/overworld_bg.tsx", "objects/overworld/overworld_obj.tsx"} {
		first, err := Load(testFS(), p)
		require.NoError(t, err)
		second, err := Load(testFS(), p)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestLoad_Malformed(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.tsx":   {Data: []byte(`<tileset name="x" tilewidth="16" tileheight="16"><tile id="0">`)},
		"notsized.tsx": {Data: []byte(`<tileset name="x" tilecount="0" columns="0"/>`)},
	}

	for _, p := range []string{"broken.tsx", "notsized.tsx"} {
		_, err := Load(fsys, p)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformed)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, p, perr.Path)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "missing.tsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestDecode(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="mini" tilewidth="8" tileheight="8" tilecount="4" columns="2">
 <image source="mini.png" width="16" height="16"/>
 <tile id="1">
  <objectgroup draworder="index" name="hit">
   <object id="3" x="0.5" y="1" width="4" height="2" rotation="90"/>
  </objectgroup>
  <animation>
   <frame tileid="1" duration="150"/>
   <frame tileid="3" duration="50"/>
  </animation>
 </tile>
</tileset>`

	ts, err := Decode(strings.NewReader(doc), "sets/mini.tsx")
	require.NoError(t, err)

	assert.Equal(t, "sets/mini.png", ts.Image.Path)
	tile, ok := ts.Tile(1)
	require.True(t, ok)
	assert.Equal(t, "hit", tile.Group.Name)
	assert.Equal(t, "index", tile.Group.DrawOrder)
	require.Len(t, tile.Objects(), 1)
	assert.Equal(t, 90.0, tile.Objects()[0].Rotation)
	assert.Equal(t, ShapeRectangle, tile.Objects()[0].Shape)
	assert.Equal(t, Animation{
		{TileID: 1, Duration: 150 * time.Millisecond},
		{TileID: 3, Duration: 50 * time.Millisecond},
	}, tile.Animation)

	assert.True(t, ts.HasTile(3))
	assert.False(t, ts.HasTile(4))

	rect, ok := ts.TileRect(3)
	require.True(t, ok)
	assert.Equal(t, image.Rect(8, 8, 16, 16), rect)
}

func TestTileRect_Margin(t *testing.T) {
	ts, err := Load(testFS(), "tilesets/overworld_bg.tsx")
	require.NoError(t, err)

	rect, ok := ts.TileRect(442)
	require.True(t, ok)
	assert.Equal(t, image.Rect(129, 225, 145, 241), rect)

	_, ok = ts.TileRect(682)
	assert.False(t, ok)
}

func TestLoadWith_EmptyAnimation(t *testing.T) {
	fsys := fstest.MapFS{
		"e.tsx": {Data: []byte(`<tileset name="e" tilewidth="8" tileheight="8" tilecount="4" columns="2">
 <image source="e.png" width="16" height="16"/>
 <tile id="0"><animation></animation></tile>
</tileset>`)},
	}

	ts, err := Load(fsys, "e.tsx")
	require.NoError(t, err)
	tile, ok := ts.Tile(0)
	require.True(t, ok)
	assert.NotNil(t, tile.Animation)
	assert.Empty(t, tile.Animation)
	assert.Empty(t, ts.AnimatedTiles())

	_, err = LoadWith(fsys, "e.tsx", Options{Policy: PolicyStrict})
	require.ErrorIs(t, err, ErrInvalid)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, IssueEmptyAnimation, verr.Issues[0].Kind)
	assert.Equal(t, uint32(0), verr.Issues[0].TileID)

	lenient, err := LoadWith(fsys, "e.tsx", Options{Policy: PolicyLenient})
	require.NoError(t, err)
	tile, ok = lenient.Tile(0)
	require.True(t, ok)
	assert.Nil(t, tile.Animation)
}

func TestDecode_ClassAndProperties(t *testing.T) {
	doc := `<tileset name="props" class="furniture" tilewidth="16" tileheight="16" tilecount="2" columns="0">
 <grid orientation="orthogonal" width="1" height="1"/>
 <properties>
  <property name="biome" value="indoors"/>
 </properties>
 <tile id="0" type="chair">
  <properties>
   <property name="weight" type="float" value="2.5"/>
   <property name="breakable" type="bool" value="true"/>
  </properties>
  <image width="16" height="16" source="chair.png"/>
  <objectgroup draworder="index">
   <object id="1" class="collidable" x="0" y="0" width="16" height="8">
    <properties>
     <property name="layer" type="int" value="2"/>
    </properties>
   </object>
  </objectgroup>
 </tile>
 <tile id="1" class="table">
  <image width="16" height="16" source="table.png"/>
 </tile>
</tileset>`

	ts, err := Decode(strings.NewReader(doc), "props.tsx")
	require.NoError(t, err)

	assert.Equal(t, "furniture", ts.Class)
	assert.Equal(t, Properties{{Name: "biome", Value: "indoors"}}, ts.Properties)
	require.NotNil(t, ts.Grid)
	assert.Equal(t, Grid{Orientation: "orthogonal", Width: 1, Height: 1}, *ts.Grid)

	chair, ok := ts.Tile(0)
	require.True(t, ok)
	assert.Equal(t, "chair", chair.Class)
	weight, ok := chair.Properties.Get("weight")
	require.True(t, ok)
	assert.Equal(t, Property{Name: "weight", Type: "float", Value: "2.5"}, weight)
	_, ok = chair.Properties.Get("colour")
	assert.False(t, ok)

	require.Len(t, chair.Objects(), 1)
	obj := chair.Objects()[0]
	assert.Equal(t, "collidable", obj.Type)
	assert.Equal(t, Properties{{Name: "layer", Type: "int", Value: "2"}}, obj.Properties)

	table, ok := ts.Tile(1)
	require.True(t, ok)
	assert.Equal(t, "table", table.Class)
	assert.Nil(t, table.Properties)
}

func TestDecode_WrongRoot(t *testing.T) {
	_, err := Decode(strings.NewReader(`<map tilewidth="16" tileheight="16"/>`), "level.tmx")
	assert.ErrorIs(t, err, ErrMalformed)
}
