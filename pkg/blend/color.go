// Package blend implements the per-pixel color arithmetic of the renderer:
// packed colors, palettes with their inverse and colormap tables, alpha
// weight tables and the blend operators used by the drawers.
package blend

import "image/color"

// Color is a packed 0xAARRGGBB pixel, the layout of true-color canvases.
type Color uint32

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return 0xff000000 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// RGBA converts to the standard library color type.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R(), c.G(), c.B(), uint8(c >> 24)}
}

// FromRGBA packs a standard library color.
func FromRGBA(c color.RGBA) Color {
	return Color(c.A)<<24 | Color(c.R)<<16 | Color(c.G)<<8 | Color(c.B)
}

// RGB555 reduces the color to the 15-bit key of an InverseTable.
func (c Color) RGB555() uint16 {
	return uint16(c>>9)&0x7c00 | uint16(c>>6)&0x03e0 | uint16(c>>3)&0x001f
}

// Luma returns the perceived brightness in [0, 255].
func (c Color) Luma() uint8 {
	return uint8((uint32(c.R())*77 + uint32(c.G())*150 + uint32(c.B())*29) >> 8)
}
