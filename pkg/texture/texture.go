// Package texture provides the paletted texture assets consumed by the
// renderer: column-major wall and sprite textures, row-major flats, their
// loaders and a shared cache.
package texture

import (
	"slices"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
)

// Texture is a paletted image stored column-major so a wall or sprite column
// is one contiguous slice. Height is always a power of two; shorter sources
// are padded by starting the source rows over from the top until the padded
// height is filled, so a 48-row source holds rows 0..47 then 0..15.
type Texture struct {
	Name      string
	Width     int
	Height    int     // padded power-of-two height
	SrcHeight int     // rows of source data before padding
	Pixels    []uint8 // Width*Height indices, column-major

	// opaque is set by New when no texel is transparent.
	opaque bool

	// Sprite anchor, in texels from the left and top edges.
	LeftOffset int
	TopOffset  int
}

// New builds a texture from column-major pixels of width*height entries.
func New(name string, width, height int, pixels []uint8) *Texture {
	padded := fixed.NextPow2(height)
	t := &Texture{
		Name:       name,
		Width:      width,
		Height:     padded,
		SrcHeight:  height,
		Pixels:     make([]uint8, width*padded),
		LeftOffset: width / 2,
		TopOffset:  height,
	}
	for x := range width {
		src := pixels[x*height : (x+1)*height]
		dst := t.Pixels[x*padded : (x+1)*padded]
		for y := range dst {
			dst[y] = src[y%height]
		}
	}
	t.opaque = !slices.Contains(t.Pixels, blend.Transparent)
	return t
}

// FracBits returns the V wrap bit count for this texture's height.
func (t *Texture) FracBits() int {
	return fixed.WrapBits(t.Height)
}

// Column returns column x, wrapping x into [0, Width).
func (t *Texture) Column(x int) []uint8 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	return t.Pixels[x*t.Height : (x+1)*t.Height]
}

// At returns the index at (x, y) of the padded image.
func (t *Texture) At(x, y int) uint8 {
	return t.Column(x)[y&(t.Height-1)]
}

// Flat is a paletted floor or ceiling image stored row-major. Both
// dimensions are powers of two.
type Flat struct {
	Name       string
	WidthBits  int
	HeightBits int
	Pixels     []uint8
}

// NewFlat builds a flat from row-major pixels, padding each axis to the next
// power of two by tiling.
func NewFlat(name string, width, height int, pixels []uint8) *Flat {
	w, h := fixed.NextPow2(width), fixed.NextPow2(height)
	f := &Flat{
		Name:       name,
		WidthBits:  fixed.Log2(w),
		HeightBits: fixed.Log2(h),
		Pixels:     make([]uint8, w*h),
	}
	for y := range h {
		for x := range w {
			f.Pixels[y*w+x] = pixels[(y%height)*width+x%width]
		}
	}
	return f
}

// Width returns the flat width in texels.
func (f *Flat) Width() int { return 1 << f.WidthBits }

// Height returns the flat height in texels.
func (f *Flat) Height() int { return 1 << f.HeightBits }

// Opaque reports whether the texture contains no transparent texels. It is
// computed once by New.
func (t *Texture) Opaque() bool { return t.opaque }
