package render

import (
	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
)

// DrawerKind is the closed set of pixel-writing strategies. A drawer
// argument object resolves its style to one kind, and the kind plus the
// canvas format to one function, once per draw call.
type DrawerKind int

const (
	KindOpaque      DrawerKind = iota // copy, no transparency test
	KindMasked                        // copy, skip sentinel texels
	KindTranslucent                   // src*a + dst*(1-a)
	KindAddClamp                      // src*a + dst, clamped
	KindSubClamp                      // dst - src*a, clamped at 0
	KindRevSubClamp                   // src*a - dst, clamped at 0
	KindTranslated                    // palette remap, then masked copy
	KindFuzz                          // darken shifted destination pixels
	KindShaded                        // texel intensity as alpha over a fill color
	KindFill                          // constant color, no texture

	numKinds
)

var kindNames = [numKinds]string{
	"opaque", "masked", "translucent", "add", "sub", "revsub",
	"translated", "fuzz", "shaded", "fill",
}

func (k DrawerKind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Masked reports whether the kind tests source texels for the sentinel.
func (k DrawerKind) Masked() bool {
	return k != KindOpaque && k != KindFill
}

// columnFunc draws one vertical run described by a.
type columnFunc func(a *columnArgs, th *Thread)

// columnDrawers is the dispatch table for wall, sprite and particle columns.
var columnDrawers = [numFormats][numKinds]columnFunc{
	Paletted8: {
		KindOpaque:      drawColumnOpaque8,
		KindMasked:      drawColumnMasked8,
		KindTranslucent: drawColumnBlend8(blend.Translucent),
		KindAddClamp:    drawColumnBlend8(blend.AddClamp),
		KindSubClamp:    drawColumnBlend8(blend.SubClamp),
		KindRevSubClamp: drawColumnBlend8(blend.RevSubClamp),
		KindTranslated:  drawColumnTranslated8,
		KindFuzz:        drawColumnFuzz8,
		KindShaded:      drawColumnShaded8,
		KindFill:        drawColumnFill8,
	},
	TrueColor32: {
		KindOpaque:      drawColumnOpaque32,
		KindMasked:      drawColumnMasked32,
		KindTranslucent: drawColumnBlend32(blend.Translucent),
		KindAddClamp:    drawColumnBlend32(blend.AddClamp),
		KindSubClamp:    drawColumnBlend32(blend.SubClamp),
		KindRevSubClamp: drawColumnBlend32(blend.RevSubClamp),
		KindTranslated:  drawColumnTranslated32,
		KindFuzz:        drawColumnFuzz32,
		KindShaded:      drawColumnShaded32,
		KindFill:        drawColumnFill32,
	},
}

// blendParams holds the weight tables of a translucency style.
type blendParams struct {
	srcAlpha, destAlpha fixed.Fixed
	srcBlend, destBlend *blend.Weights
}

func (b *blendParams) setAlphas(src, dest fixed.Fixed) {
	b.srcAlpha, b.destAlpha = src, dest
	b.srcBlend = blend.WeightTable(src)
	b.destBlend = blend.WeightTable(dest)
}

// wallStyle maps the masked/additive/alpha triple used by walls and spans to
// a kind and its alphas. Anything below full alpha or additive blends;
// otherwise the masked flag picks the sentinel test.
func wallStyle(masked, additive bool, alpha fixed.Fixed) (DrawerKind, fixed.Fixed, fixed.Fixed) {
	alpha = max(0, min(alpha, fixed.One))
	switch {
	case additive:
		return KindAddClamp, alpha, fixed.One
	case alpha < fixed.One:
		return KindTranslucent, alpha, fixed.One - alpha
	case masked:
		return KindMasked, fixed.One, 0
	}
	return KindOpaque, fixed.One, 0
}

// columnArgs is the state of one vertical run shared by the wall, sprite
// and particle drawers. It holds views and value copies only.
type columnArgs struct {
	lighting
	blendParams

	canvas *Canvas
	dest   int // arena index of the first pixel
	x      int
	destY  int
	count  int

	pixels   []uint8
	pixels2  []uint8
	height   int
	fracBits int
	upos     fixed.Fixed
	vpos     fixed.Fixed
	vstep    fixed.Fixed

	translation *blend.Translation
	fill        blend.Color
	fuzzPos     int

	kind DrawerKind
	fn   columnFunc
}

func (a *columnArgs) setKind(k DrawerKind) {
	a.kind = k
	a.bind()
}

func (a *columnArgs) bind() {
	if a.canvas != nil {
		a.fn = columnDrawers[a.canvas.Format][a.kind]
	}
}

// SetDest points the run at pixel (x, y) of the canvas.
func (a *columnArgs) SetDest(c *Canvas, x, y int) {
	if debugChecks {
		assertf(c.Contains(x, y), "dest (%d,%d) outside %dx%d canvas", x, y, c.Width, c.Height)
	}
	a.canvas = c
	a.x = x
	a.destY = y
	a.dest = c.Index(x, y)
	a.bind()
}

// SetCount sets the run length; zero draws nothing.
func (a *columnArgs) SetCount(n int) {
	if debugChecks {
		assertf(n >= 0, "negative count %d", n)
	}
	a.count = n
}

// SetTexture binds the source column and, optionally, the next column used
// for averaged sampling. height is the padded power-of-two column height.
func (a *columnArgs) SetTexture(pixels, pixels2 []uint8, height int) {
	a.pixels = pixels
	a.pixels2 = pixels2
	a.height = height
	a.fracBits = fixed.WrapBits(height)
}

// SetTextureFracBits overrides the V wrap bit count.
func (a *columnArgs) SetTextureFracBits(bits int) { a.fracBits = bits }

// SetTextureUPos sets the horizontal texture position; its fraction weights
// the second column.
func (a *columnArgs) SetTextureUPos(u fixed.Fixed) { a.upos = u }

// SetTextureVPos sets the V position of the first pixel.
func (a *columnArgs) SetTextureVPos(v fixed.Fixed) { a.vpos = v }

// SetTextureVStep sets the V increment per pixel.
func (a *columnArgs) SetTextureVStep(v fixed.Fixed) { a.vstep = v }

// SetLight sets the base light (blend.FullBright = unchanged) and the
// colormap used on paletted canvases.
func (a *columnArgs) SetLight(light int, cm *blend.Colormap) { a.setLight(light, cm) }

// SetLights sets the dynamic light list. viewPos is the view-space position
// of row 0 of this column, step the offset per row, and the run starts at
// row base. Dynamic lights only affect true-color canvases.
func (a *columnArgs) SetLights(normal, viewPos, step Vec3f, base int, lights []DrawerLight) {
	a.setLights(normal, viewPos, step, base, lights)
}

// DrawColumn runs the bound drawer over Count pixels.
func (a *columnArgs) DrawColumn(th *Thread) {
	if a.count <= 0 {
		return
	}
	if debugChecks {
		assertf(a.fn != nil, "DrawColumn without a destination")
		assertf(a.kind == KindFill || len(a.pixels) > 0, "%s drawer without texture", a.kind)
		assertf(a.fracBits > fixed.FracBits || a.kind == KindFill, "zero-bit frac configuration")
		assertf(a.destY+a.count <= a.canvas.Height, "run of %d from row %d exceeds canvas", a.count, a.destY)
	}
	a.fn(a, th)
}

// IsMaskedDrawer reports whether the bound drawer tests texels for the
// transparency sentinel.
func (a *columnArgs) IsMaskedDrawer() bool { return a.kind.Masked() }

// Kind returns the resolved drawer kind.
func (a *columnArgs) Kind() DrawerKind { return a.kind }

// Dest returns the arena index of the first pixel.
func (a *columnArgs) Dest() int { return a.dest }

// DestY returns the first row.
func (a *columnArgs) DestY() int { return a.destY }

// Count returns the run length.
func (a *columnArgs) Count() int { return a.count }

// SrcBlend returns the source weight table.
func (a *columnArgs) SrcBlend() *blend.Weights { return a.srcBlend }

// DestBlend returns the destination weight table.
func (a *columnArgs) DestBlend() *blend.Weights { return a.destBlend }

// SrcAlpha returns the source alpha.
func (a *columnArgs) SrcAlpha() fixed.Fixed { return a.srcAlpha }

// DestAlpha returns the destination alpha.
func (a *columnArgs) DestAlpha() fixed.Fixed { return a.destAlpha }

// TexturePixels returns the bound column.
func (a *columnArgs) TexturePixels() []uint8 { return a.pixels }

// TexturePixels2 returns the second bound column, if any.
func (a *columnArgs) TexturePixels2() []uint8 { return a.pixels2 }

// column2 returns the column blended with the first by the U fraction,
// which is the first column itself when no second one is bound.
func (a *columnArgs) column2() []uint8 {
	if a.pixels2 == nil {
		return a.pixels
	}
	return a.pixels2
}

// TextureHeight returns the column height.
func (a *columnArgs) TextureHeight() int { return a.height }

// TextureFracBits returns the V wrap bit count.
func (a *columnArgs) TextureFracBits() int { return a.fracBits }

// TextureUPos returns the U position.
func (a *columnArgs) TextureUPos() fixed.Fixed { return a.upos }

// TextureVPos returns the V position of the first pixel.
func (a *columnArgs) TextureVPos() fixed.Fixed { return a.vpos }

// TextureVStep returns the V step.
func (a *columnArgs) TextureVStep() fixed.Fixed { return a.vstep }
