package render

import (
	"github.com/taigrr/sector/pkg/blend"
)

// Thread is one worker's exclusive scratch state. Everything here is
// reused across frames so drawing allocates nothing once buffers have grown
// to the screen size.
type Thread struct {
	Index int
	Range ColumnRange

	width, height int

	palette *blend.Palette
	lit     []rgbLight

	// Front end state, indexed by absolute screen column.
	ceilClip  []int // first visible row
	floorClip []int // first hidden row below the opening
	spanStart []int

	planes    []*visplane
	planePool []*visplane
	drawsegs  []drawseg
	openings  []int
	queue     []window
	visited   []bool
	masked    []int // walls with a masked middle texture drawn in this range

	spriteTop    []int
	spriteBottom []int

	wall     WallDrawerArgs
	span     SpanDrawerArgs
	sprite   SpriteDrawerArgs
	particle ParticleDrawerArgs

	stats threadStats
}

// NewThread returns the scratch state of worker index.
func NewThread(index int, pal *blend.Palette) *Thread {
	return &Thread{Index: index, palette: pal}
}

// Palette returns the palette used for color conversion.
func (th *Thread) Palette() *blend.Palette { return th.palette }

// litBuffer returns a light buffer of n entries.
func (th *Thread) litBuffer(n int) []rgbLight {
	if cap(th.lit) < n {
		th.lit = make([]rgbLight, n)
	}
	return th.lit[:n]
}

func grow(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}

// beginFrame resets the scratch state for a frame of the given size and
// sector count, restricted to columns r.
func (th *Thread) beginFrame(r ColumnRange, width, height, sectors int) {
	th.Range = r
	th.width, th.height = width, height
	th.ceilClip = grow(th.ceilClip, width)
	th.floorClip = grow(th.floorClip, width)
	th.spanStart = grow(th.spanStart, height)
	th.spriteTop = grow(th.spriteTop, width)
	th.spriteBottom = grow(th.spriteBottom, width)
	for x := r.X0; x < r.X1; x++ {
		th.ceilClip[x] = 0
		th.floorClip[x] = height
	}
	th.planePool = append(th.planePool, th.planes...)
	th.planes = th.planes[:0]
	th.drawsegs = th.drawsegs[:0]
	th.openings = th.openings[:0]
	th.queue = th.queue[:0]
	th.masked = th.masked[:0]
	if cap(th.visited) < sectors {
		th.visited = make([]bool, sectors)
	}
	th.visited = th.visited[:sectors]
	clear(th.visited)
	th.stats = threadStats{}
}
