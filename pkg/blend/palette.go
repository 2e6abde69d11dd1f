package blend

import "sync"

// Transparent is the palette index reserved as the transparency sentinel in
// paletted textures. It is never produced by Nearest or the inverse table.
const Transparent = 0

// NumColormaps is the number of light levels in a palette's colormap set.
const NumColormaps = 32

// FullBright is the light value that leaves colors unchanged.
const FullBright = 256

// InverseTable maps an RGB555 key to the nearest palette index.
type InverseTable [1 << 15]uint8

// Colormap remaps palette indices for one light level.
type Colormap [256]uint8

// Palette is a 256-entry source palette plus the lookup tables derived from
// it. Derived tables are rebuilt only by NewPalette; a Palette is read-only
// once constructed and may be shared by any number of render workers.
type Palette struct {
	Colors    [256]Color
	Inverse   *InverseTable
	Colormaps [NumColormaps]Colormap
}

// NewPalette builds a palette and its inverse and colormap tables.
func NewPalette(colors [256]Color) *Palette {
	p := &Palette{Colors: colors, Inverse: new(InverseTable)}
	for key := range len(p.Inverse) {
		r := uint8(key>>10) << 3
		g := uint8(key>>5&0x1f) << 3
		b := uint8(key&0x1f) << 3
		p.Inverse[key] = p.Nearest(r|r>>5, g|g>>5, b|b>>5)
	}
	for level := range NumColormaps {
		cm := &p.Colormaps[level]
		if level == 0 {
			for i := range cm {
				cm[i] = uint8(i)
			}
			continue
		}
		scale := uint32(NumColormaps-level) * 256 / NumColormaps
		for i, c := range colors {
			if i == Transparent {
				continue
			}
			cm[i] = p.Lookup(Shade(c, scale))
		}
	}
	return p
}

// Nearest searches the palette for the closest color by squared distance,
// skipping the transparency sentinel.
func (p *Palette) Nearest(r, g, b uint8) uint8 {
	best, bestDist := 1, int(^uint(0)>>1)
	for i := 1; i < 256; i++ {
		c := p.Colors[i]
		dr := int(c.R()) - int(r)
		dg := int(c.G()) - int(g)
		db := int(c.B()) - int(b)
		d := dr*dr*3 + dg*dg*4 + db*db*2
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

// Lookup maps a true color to a palette index through the inverse table.
func (p *Palette) Lookup(c Color) uint8 {
	return p.Inverse[c.RGB555()]
}

// Colormap returns the colormap for a light value in [0, FullBright].
func (p *Palette) Colormap(light int) *Colormap {
	level := (FullBright - light) >> 3
	switch {
	case level < 0:
		level = 0
	case level >= NumColormaps:
		level = NumColormaps - 1
	}
	return &p.Colormaps[level]
}

// Ramp layout of the default palette: 16 ramps of 16 shades each, darkest
// first. Ramp 0 is gray and its first entry doubles as the sentinel.
const (
	RampGray = iota
	RampRed
	RampOrange
	RampBrown
	RampOlive
	RampGreen
	RampTeal
	RampCyan
	RampSky
	RampBlue
	RampIndigo
	RampPurple
	RampMagenta
	RampPink
	RampTan
	RampBrick
)

// RampSize is the number of shades per ramp.
const RampSize = 16

var rampBases = [16]Color{
	RGB(255, 255, 255),
	RGB(255, 40, 32),
	RGB(255, 140, 32),
	RGB(176, 120, 64),
	RGB(160, 168, 64),
	RGB(64, 224, 64),
	RGB(48, 176, 160),
	RGB(64, 240, 240),
	RGB(120, 180, 255),
	RGB(48, 64, 255),
	RGB(112, 80, 220),
	RGB(184, 64, 224),
	RGB(255, 64, 200),
	RGB(255, 160, 184),
	RGB(232, 188, 144),
	RGB(188, 80, 56),
}

// RampIndex returns the palette index of shade (0 darkest) in ramp.
func RampIndex(ramp, shade int) uint8 {
	return uint8(ramp*RampSize + shade)
}

// DefaultPalette returns the shared built-in palette.
var DefaultPalette = sync.OnceValue(func() *Palette {
	var colors [256]Color
	for ramp, base := range rampBases {
		for shade := range RampSize {
			scale := uint32(shade) * 256 / (RampSize - 1)
			colors[ramp*RampSize+shade] = Shade(base, scale)
		}
	}
	return NewPalette(colors)
})
