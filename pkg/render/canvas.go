// Package render implements the CPU column/span renderer: drawer argument
// objects and their pixel routines, the sector/portal front end, the worker
// pool that splits the screen into disjoint column ranges, and the frame
// orchestrator.
package render

import "github.com/taigrr/sector/pkg/blend"

// Format is a canvas pixel format.
type Format int

const (
	Paletted8   Format = iota // one palette index per pixel
	TrueColor32               // one packed blend.Color per pixel

	numFormats
)

func (f Format) String() string {
	switch f {
	case Paletted8:
		return "paletted"
	case TrueColor32:
		return "truecolor"
	}
	return "unknown"
}

// Canvas is the destination buffer descriptor: a single arena addressed by
// index (y*Pitch + x). Exactly one of Pix8 and Pix32 is allocated, matching
// Format.
type Canvas struct {
	Width  int
	Height int
	Pitch  int
	Format Format
	Pix8   []uint8
	Pix32  []blend.Color
}

// NewCanvas allocates a canvas.
func NewCanvas(width, height int, format Format) *Canvas {
	c := &Canvas{Width: width, Height: height, Pitch: width, Format: format}
	switch format {
	case Paletted8:
		c.Pix8 = make([]uint8, width*height)
	default:
		c.Format = TrueColor32
		c.Pix32 = make([]blend.Color, width*height)
	}
	return c
}

// Index returns the arena index of pixel (x, y).
func (c *Canvas) Index(x, y int) int {
	return y*c.Pitch + x
}

// Contains reports whether (x, y) lies inside the canvas.
func (c *Canvas) Contains(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

// Clear fills the canvas with a palette index or a color, depending on
// its format.
func (c *Canvas) Clear(index uint8, col blend.Color) {
	for i := range c.Pix8 {
		c.Pix8[i] = index
	}
	for i := range c.Pix32 {
		c.Pix32[i] = col
	}
}

// At returns pixel (x, y) as a color, converting paletted pixels through
// pal. Out-of-bounds reads return 0.
func (c *Canvas) At(x, y int, pal *blend.Palette) blend.Color {
	if !c.Contains(x, y) {
		return 0
	}
	if c.Format == Paletted8 {
		return pal.Colors[c.Pix8[c.Index(x, y)]]
	}
	return c.Pix32[c.Index(x, y)]
}

// Equal reports whether two canvases have the same size, format and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.Width != o.Width || c.Height != o.Height || c.Format != o.Format {
		return false
	}
	for y := range c.Height {
		a, b := c.Index(0, y), o.Index(0, y)
		if c.Format == Paletted8 {
			if string(c.Pix8[a:a+c.Width]) != string(o.Pix8[b:b+o.Width]) {
				return false
			}
			continue
		}
		for x := range c.Width {
			if c.Pix32[a+x] != o.Pix32[b+x] {
				return false
			}
		}
	}
	return true
}

// SetPixel writes one pixel, taking index on paletted canvases and col
// otherwise. Out-of-bounds writes are ignored.
func (c *Canvas) SetPixel(x, y int, index uint8, col blend.Color) {
	if !c.Contains(x, y) {
		return
	}
	if c.Format == Paletted8 {
		c.Pix8[c.Index(x, y)] = index
		return
	}
	c.Pix32[c.Index(x, y)] = col
}

// DrawLine draws a line with Bresenham's algorithm, clipped per pixel.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, index uint8, col blend.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.SetPixel(x0, y0, index, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
