// Package present turns rendered canvases into something a person can see:
// gamma and flash color correction, a display mode list, the framebuffer
// creation ladder, and the backends (terminal, ssh session, headless) that
// show or capture the result.
package present

import (
	"image"
	"math"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/render"
)

// MaxFlash is the flash amount that replaces the picture entirely.
const MaxFlash = 256

// CalcGamma fills table with the correction curve for gamma. A gamma of 1
// is the identity; larger values brighten.
func CalcGamma(gamma float64, table *[256]uint8) {
	if gamma <= 0 {
		gamma = 1
	}
	inv := 1 / gamma
	for i := range table {
		table[i] = uint8(math.Min(255, math.Floor(255*math.Pow(float64(i)/255, inv)+0.5)))
	}
}

// DoBlending mixes every color of src toward (r, g, b) by amount/256 and
// stores the result in dst. dst and src may be the same slice.
func DoBlending(dst, src []blend.Color, r, g, b uint8, amount int) {
	switch {
	case amount <= 0:
		copy(dst, src)
	case amount >= MaxFlash:
		for i := range src {
			dst[i] = blend.RGB(r, g, b)
		}
	default:
		target := blend.RGB(r, g, b)
		for i, c := range src {
			dst[i] = blend.Lerp(c, target, uint32(amount))
		}
	}
}

// ColorState is the color correction applied when a canvas is presented:
// the source palette, per-channel gamma tables and the screen flash.
// Changes are deferred: SetGamma and SetFlash only mark the state dirty,
// and Update rebuilds the tables between frames.
type ColorState struct {
	source *blend.Palette

	gamma                  float64
	rgamma, ggamma, bgamma float64
	table                  [3][256]uint8

	flash       blend.Color
	flashAmount int

	needGammaUpdate   bool
	needPaletteUpdate bool

	// colors is the source palette through gamma and flash.
	colors [256]blend.Color
	// lut maps each channel through gamma and flash for true-color canvases.
	lut [3][256]uint8
}

// NewColorState returns a color state for pal with the given master and
// per-channel gammas. A channel gamma of 0 uses the master gamma alone.
func NewColorState(pal *blend.Palette, gamma, r, g, b float64) *ColorState {
	cs := &ColorState{source: pal, rgamma: r, ggamma: g, bgamma: b}
	cs.SetGamma(gamma)
	cs.Update()
	return cs
}

// Palette returns the source palette.
func (cs *ColorState) Palette() *blend.Palette { return cs.source }

// SetPalette replaces the source palette.
func (cs *ColorState) SetPalette(pal *blend.Palette) {
	cs.source = pal
	cs.needPaletteUpdate = true
}

// Gamma returns the master gamma.
func (cs *ColorState) Gamma() float64 { return cs.gamma }

// SetGamma sets the master gamma. It takes effect at the next Update.
func (cs *ColorState) SetGamma(gamma float64) {
	if gamma <= 0 {
		gamma = 1
	}
	cs.gamma = gamma
	cs.needGammaUpdate = true
}

// SetFlash sets the flash color and amount (0 to MaxFlash). It takes effect
// at the next Update.
func (cs *ColorState) SetFlash(c blend.Color, amount int) {
	cs.flash = c
	cs.flashAmount = max(0, min(amount, MaxFlash))
	cs.needPaletteUpdate = true
}

// Flash returns the flash color and amount.
func (cs *ColorState) Flash() (blend.Color, int) {
	return cs.flash, cs.flashAmount
}

// FlashedPalette returns the source palette blended toward the flash,
// without gamma correction.
func (cs *ColorState) FlashedPalette() [256]blend.Color {
	pal := cs.source.Colors
	DoBlending(pal[:], pal[:], cs.flash.R(), cs.flash.G(), cs.flash.B(), cs.flashAmount)
	return pal
}

// Pending reports whether an Update would change the output.
func (cs *ColorState) Pending() bool {
	return cs.needGammaUpdate || cs.needPaletteUpdate
}

// Update applies pending gamma and flash changes. It reports whether the
// tables changed.
func (cs *ColorState) Update() bool {
	if !cs.Pending() {
		return false
	}
	if cs.needGammaUpdate {
		cs.needGammaUpdate = false
		for ch, mul := range [3]float64{cs.rgamma, cs.ggamma, cs.bgamma} {
			g := cs.gamma
			if mul != 0 {
				g *= mul
			}
			CalcGamma(g, &cs.table[ch])
		}
	}
	cs.needPaletteUpdate = false

	for i, c := range cs.source.Colors {
		cs.colors[i] = blend.RGB(cs.table[0][c.R()], cs.table[1][c.G()], cs.table[2][c.B()])
	}
	fr, fg, fb := cs.table[0][cs.flash.R()], cs.table[1][cs.flash.G()], cs.table[2][cs.flash.B()]
	DoBlending(cs.colors[:], cs.colors[:], fr, fg, fb, cs.flashAmount)

	var ramp [256]blend.Color
	for v := range ramp {
		ramp[v] = blend.RGB(cs.table[0][v], cs.table[1][v], cs.table[2][v])
	}
	DoBlending(ramp[:], ramp[:], fr, fg, fb, cs.flashAmount)
	for v, c := range ramp {
		cs.lut[0][v], cs.lut[1][v], cs.lut[2][v] = c.R(), c.G(), c.B()
	}
	return true
}

// Colors returns the corrected palette used for paletted canvases.
func (cs *ColorState) Colors() *[256]blend.Color { return &cs.colors }

// Composite converts c into dst with gamma and flash applied. dst must be
// at least as large as the canvas.
func (cs *ColorState) Composite(c *render.Canvas, dst *image.RGBA) {
	for y := range c.Height {
		src := c.Index(0, y)
		row := dst.Pix[y*dst.Stride : y*dst.Stride+c.Width*4]
		for x := range c.Width {
			var r, g, b uint8
			if c.Format == render.Paletted8 {
				p := cs.colors[c.Pix8[src+x]]
				r, g, b = p.R(), p.G(), p.B()
			} else {
				p := c.Pix32[src+x]
				r, g, b = cs.lut[0][p.R()], cs.lut[1][p.G()], cs.lut[2][p.B()]
			}
			o := row[x*4 : x*4+4 : x*4+4]
			o[0], o[1], o[2], o[3] = r, g, b, 0xff
		}
	}
}
