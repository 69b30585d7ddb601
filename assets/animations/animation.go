package animations

import (
	"time"

	"github.com/automoto/chrono-tiles/shared/tileset"
)

// Player steps through the frames of a tile animation by elapsed time.
type Player struct {
	frames           tileset.Animation
	total            time.Duration
	elapsed          time.Duration // within the current loop
	frame            int
	loops            int
	Looped           bool
	FreezeOnComplete bool // If true, stay on last frame instead of looping
}

func NewPlayer(anim tileset.Animation) *Player {
	p := &Player{
		frames: anim,
		total:  anim.TotalDuration(),
	}
	p.frame = p.locate(0)
	return p
}

// Advance moves the playhead forward by dt. Frames with a zero duration are
// never shown.
func (p *Player) Advance(dt time.Duration) {
	if dt <= 0 || p.total <= 0 {
		return
	}
	if p.FreezeOnComplete && p.Looped {
		return
	}

	p.elapsed += dt
	if p.elapsed >= p.total {
		p.loops += int(p.elapsed / p.total)
		p.Looped = true
		if p.FreezeOnComplete {
			p.elapsed = p.total
			p.frame = p.last()
			return
		}
		p.elapsed %= p.total
	}
	p.frame = p.locate(p.elapsed)
}

// Seek places the playhead at t measured from the start of the first loop.
func (p *Player) Seek(t time.Duration) {
	p.Reset()
	p.Advance(t)
}

func (p *Player) Reset() {
	p.elapsed = 0
	p.loops = 0
	p.Looped = false
	p.frame = p.locate(0)
}

// Frame returns the index of the current frame.
func (p *Player) Frame() int {
	return p.frame
}

// TileID returns the tile shown by the current frame, or 0 for an empty
// animation.
func (p *Player) TileID() uint32 {
	if len(p.frames) == 0 {
		return 0
	}
	return p.frames[p.frame].TileID
}

// Loops returns how many times the animation has wrapped around.
func (p *Player) Loops() int {
	return p.loops
}

func (p *Player) Elapsed() time.Duration {
	return p.elapsed
}

func (p *Player) Duration() time.Duration {
	return p.total
}

func (p *Player) locate(t time.Duration) int {
	var acc time.Duration
	for i, f := range p.frames {
		if f.Duration <= 0 {
			continue
		}
		acc += f.Duration
		if t < acc {
			return i
		}
	}
	return p.last()
}

// last returns the last frame that is actually displayed.
func (p *Player) last() int {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if p.frames[i].Duration > 0 {
			return i
		}
	}
	return 0
}
