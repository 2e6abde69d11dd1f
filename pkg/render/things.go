package render

import (
	"time"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/world"
)

// drawseg records a wall drawn over columns [x1, x2] and the clip opening
// left after it, for clipping sprites and drawing masked middles.
type drawseg struct {
	wall   int
	sector int // sector the wall was seen from
	x1, x2 int
	seg    wallSeg

	// Offsets into Thread.openings of the per-column first visible row and
	// first hidden row below.
	top, bottom int
	maskedMid   bool
}

type maskedKind int

const (
	maskedWall maskedKind = iota
	maskedSprite
	maskedParticle
)

// maskedItem is one entry of the frame-wide far-to-near masked list.
type maskedItem struct {
	kind   maskedKind
	index  int
	sector int
	depth  float64
}

var thingStyles = [...]SpriteStyle{
	world.StyleNormal:             SpriteNormal,
	world.StyleTranslucent:        SpriteTranslucent,
	world.StyleAdditive:           SpriteAdditive,
	world.StyleSubtractive:        SpriteSubtractive,
	world.StyleReverseSubtractive: SpriteReverseSubtractive,
	world.StyleFuzzy:              SpriteFuzzy,
	world.StyleShaded:             SpriteShaded,
}

func spriteStyle(s world.ThingStyle) SpriteStyle {
	if s < 0 || int(s) >= len(thingStyles) {
		return SpriteNormal
	}
	return thingStyles[s]
}

// drawMasked draws the frame's masked list, far to near, within this
// thread's columns.
func (th *Thread) drawMasked(fs *frameState) {
	if th.Range.Empty() {
		return
	}
	start := time.Now()
	for i := range fs.items {
		it := &fs.items[i]
		switch it.kind {
		case maskedWall:
			th.drawMaskedWall(fs, it.index)
		case maskedSprite:
			th.drawSprite(fs, &fs.m.Things[it.index], it.sector, it.depth)
		case maskedParticle:
			th.drawParticle(fs, &fs.m.Particles[it.index], it.depth)
		}
	}
	th.stats.masked = time.Since(start)
}

// clipMasked computes the visible rows of columns [x1, x2] for an object at
// 1/depth invz: every drawseg in front of it narrows the column to the
// opening that wall left.
func (th *Thread) clipMasked(x1, x2 int, invz float64) {
	for x := x1; x <= x2; x++ {
		th.spriteTop[x] = 0
		th.spriteBottom[x] = th.height
	}
	for i := range th.drawsegs {
		ds := &th.drawsegs[i]
		lo, hi := max(ds.x1, x1), min(ds.x2, x2)
		for x := lo; x <= hi; x++ {
			if ds.seg.invzAt(x) <= invz {
				continue
			}
			th.spriteTop[x] = max(th.spriteTop[x], th.openings[ds.top+x-ds.x1])
			th.spriteBottom[x] = min(th.spriteBottom[x], th.openings[ds.bottom+x-ds.x1])
		}
	}
}

// drawSprite draws a thing standing in sector at view depth depth.
func (th *Thread) drawSprite(fs *frameState, t *world.Thing, sector int, depth float64) {
	tex := fs.set.Texture(t.Sprite)
	if tex == nil {
		return
	}
	fv := &fs.view
	lateral, _ := fv.toView(t.Pos.XY())
	sw := t.Scale
	if sw <= 0 {
		sw = 1
	}
	scale := fv.focal / depth
	texScale := sw * scale
	sxl := fv.centerX + (lateral-float64(tex.LeftOffset)*sw)*scale
	sxr := sxl + float64(tex.Width)*texScale
	x1 := max(ceilPix(sxl), th.Range.X0)
	x2 := min(ceilPix(sxr)-1, th.Range.X1-1)
	if x1 > x2 {
		return
	}
	topY := fv.screenY(t.Pos.Z+float64(tex.TopOffset)*sw, scale)
	y1 := max(ceilPix(topY), 0)
	y2 := min(ceilPix(topY+float64(tex.SrcHeight)*texScale), th.height)
	if y1 >= y2 {
		return
	}
	th.clipMasked(x1, x2, 1/depth)

	a := &th.sprite
	a.SetStyle(spriteStyle(t.Style), t.Alpha, t.Translation, t.Fill)
	light := blend.FullBright
	lights := fs.lights
	if !t.FullBright {
		light = LightAt(int(fs.m.Sectors[sector].Light), depth)
	} else {
		lights = nil
	}
	a.SetLight(light, th.palette.Colormap(light))
	vstep := fixed.FromFloat(1 / texScale)
	rowStep := float32(1 / scale)
	for x := x1; x <= x2; x++ {
		top := max(y1, th.spriteTop[x])
		bottom := min(y2, th.spriteBottom[x])
		if top >= bottom {
			continue
		}
		tx := int((float64(x) + 0.5 - sxl) / texScale)
		tx = max(0, min(tx, tex.Width-1))
		a.SetTexture(tex.Column(tx), nil, tex.Height)
		a.SetTextureUPos(0)
		a.SetTextureVStep(vstep)
		a.SetTextureVPos(fixed.FromFloat((float64(top) + 0.5 - topY) / texScale))
		a.SetLights(Vec3f{Z: -1},
			Vec3f{float32((float64(x) + 0.5 - fv.centerX) / scale), float32(fv.centerY-0.5) * rowStep, float32(depth)},
			Vec3f{Y: -rowStep}, top, lights)
		a.SetDest(fs.canvas, x, top)
		a.SetFuzzTick(fs.tick)
		a.SetCount(bottom - top)
		a.DrawColumn(th)
	}
}

// minParticleSize keeps distant particles one pixel wide.
const minParticleSize = 0.5

// drawParticle draws a particle as a solid square centered on its position.
func (th *Thread) drawParticle(fs *frameState, p *world.Particle, depth float64) {
	fv := &fs.view
	lateral, _ := fv.toView(p.Pos.XY())
	scale := fv.focal / depth
	sx := fv.centerX + lateral*scale
	sy := fv.screenY(p.Pos.Z, scale)
	half := max(p.Size*scale/2, minParticleSize)
	x1 := max(ceilPix(sx-half), th.Range.X0)
	x2 := min(ceilPix(sx+half)-1, th.Range.X1-1)
	y1 := max(ceilPix(sy-half), 0)
	y2 := min(ceilPix(sy+half), th.height)
	if x1 > x2 || y1 >= y2 {
		return
	}
	th.clipMasked(x1, x2, 1/depth)

	a := &th.particle
	a.SetStyle(p.Color, p.Alpha, p.Additive)
	a.SetLight(blend.FullBright, nil)
	a.SetLights(Vec3f{}, Vec3f{}, Vec3f{}, 0, nil)
	for x := x1; x <= x2; x++ {
		top := max(y1, th.spriteTop[x])
		bottom := min(y2, th.spriteBottom[x])
		if top >= bottom {
			continue
		}
		a.SetDest(fs.canvas, x, top)
		a.SetCount(bottom - top)
		a.DrawColumn(th)
	}
}
