package render

import (
	"math"

	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/texture"
)

// planeUnset marks a column a visplane does not cover. Unset columns have a
// bottom of -1, so top > bottom.
const planeUnset = math.MaxInt16

// visplane collects the floor or ceiling rows of one height, flat and light
// level over a run of columns. top and bottom are inclusive rows, indexed by
// x+1 so that the columns either side of the run can be unset sentinels.
type visplane struct {
	height  float64
	flat    *texture.Flat
	light   int
	ceiling bool

	minx, maxx int
	top        []int
	bottom     []int
}

// mark records rows [t, b] of column x.
func (pl *visplane) mark(x, t, b int) {
	if t <= b {
		pl.top[x+1] = t
		pl.bottom[x+1] = b
	}
}

func (th *Thread) newPlane(height float64, flat *texture.Flat, light int, ceiling bool) *visplane {
	var pl *visplane
	if n := len(th.planePool); n > 0 {
		pl = th.planePool[n-1]
		th.planePool = th.planePool[:n-1]
	} else {
		pl = &visplane{}
	}
	pl.height, pl.flat, pl.light, pl.ceiling = height, flat, light, ceiling
	pl.minx, pl.maxx = math.MaxInt, -1
	pl.top = grow(pl.top, th.width+2)
	pl.bottom = grow(pl.bottom, th.width+2)
	for i := th.Range.X0; i <= th.Range.X1+1; i++ {
		pl.top[i] = planeUnset
		pl.bottom[i] = -1
	}
	th.planes = append(th.planes, pl)
	return pl
}

// findPlane returns the most recent plane with the given key, creating one
// when none exists.
func (th *Thread) findPlane(height float64, flat *texture.Flat, light int, ceiling bool) *visplane {
	for i := len(th.planes) - 1; i >= 0; i-- {
		pl := th.planes[i]
		if pl.height == height && pl.flat == flat && pl.light == light && pl.ceiling == ceiling {
			return pl
		}
	}
	return th.newPlane(height, flat, light, ceiling)
}

// checkPlane returns pl extended to [start, stop] when none of the columns
// it already covers in that range are set, or a fresh plane with the same
// key otherwise.
func (th *Thread) checkPlane(pl *visplane, start, stop int) *visplane {
	intrl, unionl := start, pl.minx
	if start < pl.minx {
		intrl, unionl = pl.minx, start
	}
	intrh, unionh := stop, pl.maxx
	if stop > pl.maxx {
		intrh, unionh = pl.maxx, stop
	}
	x := intrl
	for ; x <= intrh; x++ {
		if pl.top[x+1] != planeUnset {
			break
		}
	}
	if x > intrh {
		pl.minx, pl.maxx = unionl, unionh
		return pl
	}
	np := th.newPlane(pl.height, pl.flat, pl.light, pl.ceiling)
	np.minx, np.maxx = start, stop
	return np
}

// drawPlanes turns every visplane into spans.
func (th *Thread) drawPlanes(fs *frameState) {
	a := &th.span
	a.SetStyle(false, false, fixed.One)
	for _, pl := range th.planes {
		if pl.minx > pl.maxx {
			continue
		}
		th.stats.visplanes++
		a.SetTexture(pl.flat)
		th.makeSpans(fs, pl)
	}
}

// makeSpans walks the plane column by column, closing the spans of rows
// that end at x-1 and opening spans for rows that start at x.
func (th *Thread) makeSpans(fs *frameState, pl *visplane) {
	pl.top[pl.minx] = planeUnset
	pl.bottom[pl.minx] = -1
	pl.top[pl.maxx+2] = planeUnset
	pl.bottom[pl.maxx+2] = -1
	start := th.spanStart
	for x := pl.minx; x <= pl.maxx+1; x++ {
		t1, b1 := pl.top[x], pl.bottom[x]
		t2, b2 := pl.top[x+1], pl.bottom[x+1]
		for t1 < t2 && t1 <= b1 {
			th.mapPlane(fs, pl, t1, start[t1], x-1)
			t1++
		}
		for b1 > b2 && b1 >= t1 {
			th.mapPlane(fs, pl, b1, start[b1], x-1)
			b1--
		}
		for t2 < t1 && t2 <= b2 {
			start[t2] = x
			t2++
		}
		for b2 > b1 && b2 >= t2 {
			start[b2] = x
			b2--
		}
	}
}

// mapPlane draws row y of pl from x1 to x2. Texture positions and light
// positions are anchored at screen column 0 and stepped with exact integer
// arithmetic, so a span gives the same pixels however the row is split.
func (th *Thread) mapPlane(fs *frameState, pl *visplane, y, x1, x2 int) {
	fv := &fs.view
	dy := fv.centerY - (float64(y) + 0.5)
	dz := pl.height - fv.Pos.Z
	if dy == 0 {
		return
	}
	depth := dz * fv.focal / dy
	if depth <= 0 {
		return
	}
	k := depth / fv.focal
	lat0 := (0.5 - fv.centerX) * k
	baseX := fv.Pos.X + depth*fv.cos + lat0*fv.sin
	baseY := fv.Pos.Y + depth*fv.sin - lat0*fv.cos
	stepX := fixed.FromFloat(k * fv.sin)
	stepY := fixed.FromFloat(k * fv.cos)

	a := &th.span
	a.SetDestRow(fs.canvas, x1, x2, y)
	a.SetPosition(
		fixed.Step(fixed.FromFloat(baseX), stepX, x1),
		fixed.Step(fixed.FromFloat(-baseY), stepY, x1),
		stepX, stepY)
	light := LightAt(pl.light, depth)
	a.SetLight(light, th.palette.Colormap(light))
	normal := Vec3f{Y: 1}
	if pl.ceiling {
		normal.Y = -1
	}
	a.SetLights(normal, Vec3f{float32(lat0), float32(dz), float32(depth)}, Vec3f{X: float32(k)}, fs.lights)
	a.DrawSpan(th)
	th.stats.spans++
}
