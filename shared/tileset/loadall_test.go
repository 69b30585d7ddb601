package tileset

import (
	"context"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll(t *testing.T) {
	loaded, names, err := LoadAll(context.Background(), testFS(), ".", Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"objects/indoors/indoors_obj.tsx",
		"objects/indoors_obj.tsx",
		"objects/overworld/overworld_obj.tsx",
		"objects/overworld_obj.tsx",
		"tilesets/overworld_bg.tsx",
	}, names)
	require.Len(t, loaded, 5)
	assert.Equal(t, "overworld_bg", loaded["tilesets/overworld_bg.tsx"].Name)
	assert.Equal(t, 13, loaded["objects/overworld/overworld_obj.tsx"].TileCount)
}

func TestLoadAll_Subdirectory(t *testing.T) {
	loaded, names, err := LoadAll(context.Background(), testFS(), "objects/indoors", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/indoors/indoors_obj.tsx"}, names)
	assert.Len(t, loaded, 1)
}

func TestLoadAll_Empty(t *testing.T) {
	fsys := fstest.MapFS{"levels/readme.txt": {Data: []byte("hi")}}
	_, _, err := LoadAll(context.Background(), fsys, "levels", Options{})
	assert.ErrorContains(t, err, "no .tsx files found in levels")
}

func TestLoadAll_FirstErrorWins(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/good.tsx": {Data: []byte(`<tileset name="g" tilewidth="8" tileheight="8" tilecount="0" columns="0"/>`)},
		"sets/bad.tsx":  {Data: []byte(`<tileset`)},
	}
	_, _, err := LoadAll(context.Background(), fsys, "sets", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "load sets/bad.tsx")
}

func TestLoadAll_StrictPolicy(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/dangling.tsx": {Data: []byte(`<tileset name="d" tilewidth="8" tileheight="8" tilecount="4" columns="2">
 <image source="d.png" width="16" height="16"/>
 <tile id="0"><animation><frame tileid="9" duration="100"/></animation></tile>
</tileset>`)},
	}

	_, _, err := LoadAll(context.Background(), fsys, "sets", Options{Policy: PolicyStrict})
	assert.ErrorIs(t, err, ErrInvalid)

	loaded, _, err := LoadAll(context.Background(), fsys, "sets", Options{Policy: PolicyLenient})
	require.NoError(t, err)
	tile, ok := loaded["sets/dangling.tsx"].Tile(0)
	require.True(t, ok)
	assert.Nil(t, tile.Animation)
}

func TestLoadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := LoadAll(ctx, testFS(), ".", Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(testFS(), Options{})

	first, err := c.Get("objects/indoors_obj.tsx")
	require.NoError(t, err)
	second, err := c.Get("objects/indoors_obj.tsx")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Evict("objects/indoors_obj.tsx"))
	assert.False(t, c.Evict("objects/indoors_obj.tsx"))

	third, err := c.Get("objects/indoors_obj.tsx")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first, third)

	_, err = c.Get("objects/nope.tsx")
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_PreloadAndPut(t *testing.T) {
	c := NewCatalog(testFS(), Options{Workers: 3})
	require.NoError(t, c.Preload(context.Background(), "objects"))
	assert.Len(t, c.List(), 4)

	c.Put(&Tileset{Path: "virtual.tsx", Name: "virtual"})
	ts, err := c.Get("virtual.tsx")
	require.NoError(t, err)
	assert.Equal(t, "virtual", ts.Name)
	assert.Equal(t, "virtual.tsx", c.List()[len(c.List())-1])
}

func TestCatalog_ConcurrentGet(t *testing.T) {
	c := NewCatalog(testFS(), Options{})

	var wg sync.WaitGroup
	results := make([]*Tileset, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts, err := c.Get("tilesets/overworld_bg.tsx")
			if err == nil {
				results[i] = ts
			}
		}()
	}
	wg.Wait()

	for _, ts := range results {
		assert.Same(t, results[0], ts)
	}
}

func TestLoadEach(t *testing.T) {
	fsys := fstest.MapFS{
		"good.tsx":   {Data: []byte(`<tileset name="good" tilewidth="8" tileheight="8" tilecount="0" columns="0"/>`)},
		"broken.tsx": {Data: []byte(`<tileset name="broken" tilewidth="8"`)},
	}
	paths := []string{"broken.tsx", "missing.tsx", "good.tsx"}

	results, err := LoadEach(context.Background(), fsys, paths, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "broken.tsx", results[0].Path)
	assert.ErrorIs(t, results[0].Err, ErrMalformed)
	assert.ErrorIs(t, results[1].Err, fs.ErrNotExist)
	require.NoError(t, results[2].Err)
	assert.Equal(t, "good", results[2].Tileset.Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadEach(ctx, fsys, paths, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
