package render

import (
	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
)

// Fuzz shimmer: each pixel copies its neighbour one row up or down, darkened.
var fuzzOffsets = [...]int8{
	1, -1, 1, -1, 1, 1, -1, 1, 1, -1, 1, 1, 1, -1,
	1, 1, 1, -1, -1, -1, -1, 1, -1, -1, 1, 1, 1, 1, -1,
	1, -1, 1, 1, -1, -1, 1, 1, -1, -1, -1, -1, 1, 1,
	1, 1, -1, 1, 1, -1, 1,
}

const (
	fuzzShade        = 208 // light applied to shimmered pixels
	fuzzColumnStride = 7
)

// fuzzIndex returns the table position of absolute row y. It depends only on
// screen coordinates and the tick so any column split shimmers identically.
func (a *columnArgs) fuzzIndex(y int) int {
	return (a.fuzzPos + y) % len(fuzzOffsets)
}

// fuzzSource returns the arena index of the pixel copied into row y.
func (a *columnArgs) fuzzSource(y int) int {
	sy := y + int(fuzzOffsets[a.fuzzIndex(y)])
	sy = max(0, min(sy, a.canvas.Height-1))
	return a.canvas.Index(a.x, sy)
}

func (a *columnArgs) cmap() *blend.Colormap {
	if a.colormap == nil {
		return &identityColormap
	}
	return a.colormap
}

var identityColormap = func() (cm blend.Colormap) {
	for i := range cm {
		cm[i] = uint8(i)
	}
	return cm
}()

// ufrac is the weight of the second texture column in [0, 256).
func (a *columnArgs) ufrac() uint32 {
	return uint32(a.upos&fixed.FracMask) >> 8
}

// shadeLevel converts a texel intensity and the source alpha into an alpha
// level for the shaded drawer.
func shadeLevel(luma uint8, srcLevel int) int {
	return (int(luma)*srcLevel + 127) / 255
}

// Paletted destination. Light comes from the colormap; dynamic lights are
// ignored and blends go through the palette's inverse table.

func drawColumnOpaque8(a *columnArgs, _ *Thread) {
	pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	v := a.vpos
	for range a.count {
		pix[dest] = cm[src[fixed.Wrap(v, bits)]]
		v += a.vstep
		dest += pitch
	}
}

func drawColumnMasked8(a *columnArgs, _ *Thread) {
	pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	v := a.vpos
	for range a.count {
		if idx := src[fixed.Wrap(v, bits)]; idx != blend.Transparent {
			pix[dest] = cm[idx]
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnTranslated8(a *columnArgs, _ *Thread) {
	pix, src, cm, tr := a.canvas.Pix8, a.pixels, a.cmap(), a.translation
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	v := a.vpos
	for range a.count {
		if idx := src[fixed.Wrap(v, bits)]; idx != blend.Transparent {
			pix[dest] = cm[tr[idx]]
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnBlend8(op func(src, dst blend.Color, sw, dw *blend.Weights) blend.Color) columnFunc {
	return func(a *columnArgs, th *Thread) {
		pal := th.palette
		pix, src, cm := a.canvas.Pix8, a.pixels, a.cmap()
		dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
		v := a.vpos
		for range a.count {
			if idx := src[fixed.Wrap(v, bits)]; idx != blend.Transparent {
				c := op(pal.Colors[cm[idx]], pal.Colors[pix[dest]], a.srcBlend, a.destBlend)
				pix[dest] = pal.Lookup(c)
			}
			v += a.vstep
			dest += pitch
		}
	}
}

func drawColumnFuzz8(a *columnArgs, th *Thread) {
	pix, src := a.canvas.Pix8, a.pixels
	dark := th.palette.Colormap(fuzzShade)
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	v := a.vpos
	for i := range a.count {
		if src[fixed.Wrap(v, bits)] != blend.Transparent {
			pix[dest] = dark[pix[a.fuzzSource(a.destY+i)]]
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnShaded8(a *columnArgs, th *Thread) {
	pal := th.palette
	pix, src := a.canvas.Pix8, a.pixels
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	fill := blend.Shade(a.fill, a.light)
	srcLevel := blend.AlphaLevel(a.srcAlpha)
	v := a.vpos
	for range a.count {
		if idx := src[fixed.Wrap(v, bits)]; idx != blend.Transparent {
			level := shadeLevel(pal.Colors[idx].Luma(), srcLevel)
			c := blend.Translucent(fill, pal.Colors[pix[dest]],
				blend.LevelWeights(level), blend.LevelWeights(blend.AlphaLevels-1-level))
			pix[dest] = pal.Lookup(c)
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnFill8(a *columnArgs, th *Thread) {
	pal := th.palette
	pix := a.canvas.Pix8
	dest, pitch := a.dest, a.canvas.Pitch
	fill := blend.Shade(a.fill, a.light)
	for range a.count {
		pix[dest] = pal.Lookup(blend.AddClamp(fill, pal.Colors[pix[dest]], a.srcBlend, a.destBlend))
		dest += pitch
	}
}

// True-color destination. Texels are averaged with the second column by the
// U fraction and lit per pixel from the thread's light buffer.

func drawColumnOpaque32(a *columnArgs, th *Thread) {
	colors := &th.palette.Colors
	pix, src, src2 := a.canvas.Pix32, a.pixels, a.column2()
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	frac := a.ufrac()
	lit := a.lightRun(th, a.count)
	v := a.vpos
	for i := range a.count {
		row := fixed.Wrap(v, bits)
		c := blend.Lerp(colors[src[row]], colors[src2[row]], frac)
		pix[dest] = blend.ShadeRGB(c, lit[i].r, lit[i].g, lit[i].b)
		v += a.vstep
		dest += pitch
	}
}

// texel32 samples a masked texel pair; ok is false for the sentinel.
func texel32(colors *[256]blend.Color, src, src2 []uint8, row int, frac uint32, tr *blend.Translation) (blend.Color, bool) {
	idx := src[row]
	if idx == blend.Transparent {
		return 0, false
	}
	idx2 := src2[row]
	if idx2 == blend.Transparent {
		idx2 = idx
	}
	if tr != nil {
		idx, idx2 = tr[idx], tr[idx2]
	}
	return blend.Lerp(colors[idx], colors[idx2], frac), true
}

func drawColumnMasked32(a *columnArgs, th *Thread) {
	drawColumnMaskedTr32(a, th, nil)
}

func drawColumnTranslated32(a *columnArgs, th *Thread) {
	drawColumnMaskedTr32(a, th, a.translation)
}

func drawColumnMaskedTr32(a *columnArgs, th *Thread, tr *blend.Translation) {
	colors := &th.palette.Colors
	pix, src, src2 := a.canvas.Pix32, a.pixels, a.column2()
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	frac := a.ufrac()
	lit := a.lightRun(th, a.count)
	v := a.vpos
	for i := range a.count {
		if c, ok := texel32(colors, src, src2, fixed.Wrap(v, bits), frac, tr); ok {
			pix[dest] = blend.ShadeRGB(c, lit[i].r, lit[i].g, lit[i].b)
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnBlend32(op func(src, dst blend.Color, sw, dw *blend.Weights) blend.Color) columnFunc {
	return func(a *columnArgs, th *Thread) {
		colors := &th.palette.Colors
		pix, src, src2 := a.canvas.Pix32, a.pixels, a.column2()
		dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
		frac := a.ufrac()
		lit := a.lightRun(th, a.count)
		v := a.vpos
		for i := range a.count {
			if c, ok := texel32(colors, src, src2, fixed.Wrap(v, bits), frac, nil); ok {
				c = blend.ShadeRGB(c, lit[i].r, lit[i].g, lit[i].b)
				pix[dest] = op(c, pix[dest], a.srcBlend, a.destBlend)
			}
			v += a.vstep
			dest += pitch
		}
	}
}

func drawColumnFuzz32(a *columnArgs, _ *Thread) {
	pix, src := a.canvas.Pix32, a.pixels
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	v := a.vpos
	for i := range a.count {
		if src[fixed.Wrap(v, bits)] != blend.Transparent {
			pix[dest] = blend.Shade(pix[a.fuzzSource(a.destY+i)], fuzzShade)
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnShaded32(a *columnArgs, th *Thread) {
	colors := &th.palette.Colors
	pix, src := a.canvas.Pix32, a.pixels
	dest, pitch, bits := a.dest, a.canvas.Pitch, a.fracBits
	srcLevel := blend.AlphaLevel(a.srcAlpha)
	lit := a.lightRun(th, a.count)
	v := a.vpos
	for i := range a.count {
		if idx := src[fixed.Wrap(v, bits)]; idx != blend.Transparent {
			level := shadeLevel(colors[idx].Luma(), srcLevel)
			fill := blend.ShadeRGB(a.fill, lit[i].r, lit[i].g, lit[i].b)
			pix[dest] = blend.Translucent(fill, pix[dest],
				blend.LevelWeights(level), blend.LevelWeights(blend.AlphaLevels-1-level))
		}
		v += a.vstep
		dest += pitch
	}
}

func drawColumnFill32(a *columnArgs, th *Thread) {
	pix := a.canvas.Pix32
	dest, pitch := a.dest, a.canvas.Pitch
	lit := a.lightRun(th, a.count)
	for i := range a.count {
		fill := blend.ShadeRGB(a.fill, lit[i].r, lit[i].g, lit[i].b)
		pix[dest] = blend.AddClamp(fill, pix[dest], a.srcBlend, a.destBlend)
		dest += pitch
	}
}
