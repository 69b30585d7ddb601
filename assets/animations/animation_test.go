package animations

import (
	"testing"
	"time"

	"github.com/automoto/chrono-tiles/shared/tileset"
	"github.com/stretchr/testify/assert"
)

func waterfall() tileset.Animation {
	return tileset.Animation{
		{TileID: 442, Duration: time.Second},
		{TileID: 445, Duration: time.Second},
		{TileID: 448, Duration: time.Second},
		{TileID: 451, Duration: time.Second},
	}
}

func TestPlayer_Loops(t *testing.T) {
	p := NewPlayer(waterfall())
	assert.Equal(t, uint32(442), p.TileID())
	assert.Equal(t, 4*time.Second, p.Duration())

	p.Advance(999 * time.Millisecond)
	assert.Equal(t, uint32(442), p.TileID())

	p.Advance(time.Millisecond)
	assert.Equal(t, uint32(445), p.TileID())
	assert.Equal(t, 1, p.Frame())

	p.Advance(2500 * time.Millisecond)
	assert.Equal(t, uint32(451), p.TileID())
	assert.Equal(t, 0, p.Loops())
	assert.False(t, p.Looped)

	p.Advance(600 * time.Millisecond)
	assert.Equal(t, uint32(442), p.TileID())
	assert.Equal(t, 1, p.Loops())
	assert.True(t, p.Looped)
	assert.Equal(t, 100*time.Millisecond, p.Elapsed())

	// several loops in one step
	p.Advance(9 * time.Second)
	assert.Equal(t, 3, p.Loops())
	assert.Equal(t, uint32(445), p.TileID())
}

func TestPlayer_SeekAndReset(t *testing.T) {
	p := NewPlayer(waterfall())

	p.Seek(2 * time.Second)
	assert.Equal(t, uint32(448), p.TileID())

	p.Seek(9500 * time.Millisecond)
	assert.Equal(t, uint32(445), p.TileID())
	assert.Equal(t, 2, p.Loops())

	p.Reset()
	assert.Equal(t, 0, p.Frame())
	assert.Equal(t, 0, p.Loops())
	assert.Equal(t, time.Duration(0), p.Elapsed())
}

func TestPlayer_ZeroDurationFramesSkipped(t *testing.T) {
	p := NewPlayer(tileset.Animation{
		{TileID: 1, Duration: 0},
		{TileID: 2, Duration: 100 * time.Millisecond},
		{TileID: 3, Duration: 0},
		{TileID: 4, Duration: 100 * time.Millisecond},
		{TileID: 5, Duration: 0},
	})
	assert.Equal(t, uint32(2), p.TileID())

	p.Advance(100 * time.Millisecond)
	assert.Equal(t, uint32(4), p.TileID())

	p.Advance(100 * time.Millisecond)
	assert.Equal(t, uint32(2), p.TileID())
	assert.Equal(t, 1, p.Loops())
}

func TestPlayer_Degenerate(t *testing.T) {
	empty := NewPlayer(nil)
	empty.Advance(time.Second)
	assert.Equal(t, uint32(0), empty.TileID())

	stalled := NewPlayer(tileset.Animation{{TileID: 7}, {TileID: 8}})
	stalled.Advance(time.Hour)
	assert.Equal(t, uint32(7), stalled.TileID())
	assert.Equal(t, 0, stalled.Loops())

	p := NewPlayer(waterfall())
	p.Advance(-time.Second)
	assert.Equal(t, 0, p.Frame())
}

func TestPlayer_FreezeOnComplete(t *testing.T) {
	p := NewPlayer(waterfall())
	p.FreezeOnComplete = true

	p.Advance(10 * time.Second)
	assert.Equal(t, uint32(451), p.TileID())
	assert.True(t, p.Looped)

	p.Advance(time.Second)
	assert.Equal(t, uint32(451), p.TileID())
	assert.Equal(t, 2, p.Loops())
}
