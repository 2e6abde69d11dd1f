package render

import (
	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/texture"
)

// spanFunc draws one horizontal run described by a.
type spanFunc func(a *SpanDrawerArgs, th *Thread)

var spanDrawers = [numFormats][numKinds]spanFunc{
	Paletted8: {
		KindOpaque:      drawSpanOpaque8,
		KindMasked:      drawSpanMasked8,
		KindTranslucent: drawSpanBlend8(blend.Translucent),
		KindAddClamp:    drawSpanBlend8(blend.AddClamp),
	},
	TrueColor32: {
		KindOpaque:      drawSpanOpaque32,
		KindMasked:      drawSpanMasked32,
		KindTranslucent: drawSpanBlend32(blend.Translucent),
		KindAddClamp:    drawSpanBlend32(blend.AddClamp),
	},
}

// SpanDrawerArgs describes one floor or ceiling span: a horizontal run of a
// row-major flat with independent U and V steps.
type SpanDrawerArgs struct {
	lighting
	blendParams

	canvas *Canvas
	dest   int
	x1, x2 int // inclusive
	y      int

	pixels       []uint8
	xbits, ybits int // wrap bit counts of the flat axes

	xfrac, yfrac fixed.Fixed
	xstep, ystep fixed.Fixed

	kind DrawerKind
	fn   spanFunc
}

// SetStyle resolves the span drawer the same way walls do.
func (a *SpanDrawerArgs) SetStyle(masked, additive bool, alpha fixed.Fixed) {
	kind, src, dst := wallStyle(masked, additive, alpha)
	a.setAlphas(src, dst)
	a.kind = kind
	a.bind()
}

func (a *SpanDrawerArgs) bind() {
	if a.canvas != nil {
		a.fn = spanDrawers[a.canvas.Format][a.kind]
	}
}

// SetDestRow points the span at columns [x1, x2] of row y.
func (a *SpanDrawerArgs) SetDestRow(c *Canvas, x1, x2, y int) {
	if debugChecks {
		assertf(c.Contains(x1, y) && c.Contains(x2, y), "span %d..%d on row %d outside canvas", x1, x2, y)
	}
	a.canvas = c
	a.x1, a.x2, a.y = x1, x2, y
	a.dest = c.Index(x1, y)
	a.bind()
}

// SetTexture binds a flat.
func (a *SpanDrawerArgs) SetTexture(f *texture.Flat) {
	a.pixels = f.Pixels
	a.xbits = fixed.FracBits + f.WidthBits
	a.ybits = fixed.FracBits + f.HeightBits
}

// SetPosition sets the texture position of x1 and the per-pixel steps.
func (a *SpanDrawerArgs) SetPosition(xfrac, yfrac, xstep, ystep fixed.Fixed) {
	a.xfrac, a.yfrac = xfrac, yfrac
	a.xstep, a.ystep = xstep, ystep
}

// SetLight sets the base light and paletted colormap.
func (a *SpanDrawerArgs) SetLight(light int, cm *blend.Colormap) { a.setLight(light, cm) }

// SetLights sets the dynamic lights. viewPos is the view-space position of
// screen column 0 on this row and step the offset per column; the span
// starts at column x1.
func (a *SpanDrawerArgs) SetLights(normal, viewPos, step Vec3f, lights []DrawerLight) {
	a.setLights(normal, viewPos, step, a.x1, lights)
}

// Count returns the span length.
func (a *SpanDrawerArgs) Count() int { return a.x2 - a.x1 + 1 }

// Kind returns the resolved drawer kind.
func (a *SpanDrawerArgs) Kind() DrawerKind { return a.kind }

// IsMaskedDrawer reports whether the span tests texels for the sentinel.
func (a *SpanDrawerArgs) IsMaskedDrawer() bool { return a.kind.Masked() }

// DrawSpan writes the span.
func (a *SpanDrawerArgs) DrawSpan(th *Thread) {
	if a.x2 < a.x1 {
		return
	}
	if debugChecks {
		assertf(a.fn != nil, "DrawSpan without a destination")
		assertf(len(a.pixels) > 0, "DrawSpan without a flat")
	}
	a.fn(a, th)
}

func (a *SpanDrawerArgs) cmap() *blend.Colormap {
	if a.colormap == nil {
		return &identityColormap
	}
	return a.colormap
}

// spot returns the flat index of texture position (x, y).
func (a *SpanDrawerArgs) spot(x, y fixed.Fixed) int {
	return fixed.Wrap(y, a.ybits)<<(a.xbits-fixed.FracBits) | fixed.Wrap(x, a.xbits)
}

func drawSpanOpaque8(a *SpanDrawerArgs, _ *Thread) {
	pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
	x, y := a.xfrac, a.yfrac
	for dest := a.dest; dest < a.dest+a.Count(); dest++ {
		pix[dest] = cm[src[a.spot(x, y)]]
		x += a.xstep
		y += a.ystep
	}
}

func drawSpanMasked8(a *SpanDrawerArgs, _ *Thread) {
	pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
	x, y := a.xfrac, a.yfrac
	for dest := a.dest; dest < a.dest+a.Count(); dest++ {
		if idx := src[a.spot(x, y)]; idx != blend.Transparent {
			pix[dest] = cm[idx]
		}
		x += a.xstep
		y += a.ystep
	}
}

func drawSpanBlend8(op func(src, dst blend.Color, sw, dw *blend.Weights) blend.Color) spanFunc {
	return func(a *SpanDrawerArgs, th *Thread) {
		pal := th.palette
		pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
		x, y := a.xfrac, a.yfrac
		for dest := a.dest; dest < a.dest+a.Count(); dest++ {
			if idx := src[a.spot(x, y)]; idx != blend.Transparent {
				pix[dest] = pal.Lookup(op(pal.Colors[cm[idx]], pal.Colors[pix[dest]], a.srcBlend, a.destBlend))
			}
			x += a.xstep
			y += a.ystep
		}
	}
}

func drawSpanOpaque32(a *SpanDrawerArgs, th *Thread) {
	colors := &th.palette.Colors
	pix, src := a.canvas.Pix32, a.pixels
	lit := a.lightRun(th, a.Count())
	x, y := a.xfrac, a.yfrac
	for i := range lit {
		c := colors[src[a.spot(x, y)]]
		pix[a.dest+i] = blend.ShadeRGB(c, lit[i].r, lit[i].g, lit[i].b)
		x += a.xstep
		y += a.ystep
	}
}

func drawSpanMasked32(a *SpanDrawerArgs, th *Thread) {
	colors := &th.palette.Colors
	pix, src := a.canvas.Pix32, a.pixels
	lit := a.lightRun(th, a.Count())
	x, y := a.xfrac, a.yfrac
	for i := range lit {
		if idx := src[a.spot(x, y)]; idx != blend.Transparent {
			pix[a.dest+i] = blend.ShadeRGB(colors[idx], lit[i].r, lit[i].g, lit[i].b)
		}
		x += a.xstep
		y += a.ystep
	}
}

func drawSpanBlend32(op func(src, dst blend.Color, sw, dw *blend.Weights) blend.Color) spanFunc {
	return func(a *SpanDrawerArgs, th *Thread) {
		colors := &th.palette.Colors
		pix, src := a.canvas.Pix32, a.pixels
		lit := a.lightRun(th, a.Count())
		x, y := a.xfrac, a.yfrac
		for i := range lit {
			if idx := src[a.spot(x, y)]; idx != blend.Transparent {
				c := blend.ShadeRGB(colors[idx], lit[i].r, lit[i].g, lit[i].b)
				pix[a.dest+i] = op(c, pix[a.dest+i], a.srcBlend, a.destBlend)
			}
			x += a.xstep
			y += a.ystep
		}
	}
}
