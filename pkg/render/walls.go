package render

import (
	"time"

	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/world"
)

// maxWindows bounds the portal queue of one worker per frame.
const maxWindows = 4096

// fakeContrast brightens walls running along Y and darkens walls along X.
const fakeContrast = 16

// window is a sector seen through columns [x1, x2].
type window struct {
	sector int
	x1, x2 int
}

// wallSeg is the screen projection of a near-clipped wall. Depth and
// texture U are interpolated as 1/z and u/z, linearly in screen x.
type wallSeg struct {
	sx1, sx2 float64
	iz1, iz2 float64
	uz1, uz2 float64
}

// at returns 1/depth and texture U at the center of column x.
func (s *wallSeg) at(x int) (invz, u float64) {
	f := (float64(x) + 0.5 - s.sx1) / (s.sx2 - s.sx1)
	invz = s.iz1 + (s.iz2-s.iz1)*f
	u = (s.uz1 + (s.uz2-s.uz1)*f) / invz
	return invz, u
}

// invzAt returns 1/depth at the center of column x.
func (s *wallSeg) invzAt(x int) float64 {
	f := (float64(x) + 0.5 - s.sx1) / (s.sx2 - s.sx1)
	return s.iz1 + (s.iz2-s.iz1)*f
}

// projectWall clips wall w against the near plane and projects it. ok is
// false when the wall faces away or lies behind the eye.
func (fv *frameView) projectWall(w *world.Wall) (seg wallSeg, ok bool) {
	if !w.FacingSide(fv.Pos.XY()) {
		return seg, false
	}
	l1, d1 := fv.toView(w.V1)
	l2, d2 := fv.toView(w.V2)
	if d1 < Near && d2 < Near {
		return seg, false
	}
	u1 := w.XOffset
	u2 := u1 + w.Length()
	switch {
	case d1 < Near:
		t := (Near - d1) / (d2 - d1)
		l1 += (l2 - l1) * t
		u1 += (u2 - u1) * t
		d1 = Near
	case d2 < Near:
		t := (Near - d2) / (d1 - d2)
		l2 += (l1 - l2) * t
		u2 += (u1 - u2) * t
		d2 = Near
	}
	seg = wallSeg{
		sx1: fv.centerX + l1*fv.focal/d1,
		sx2: fv.centerX + l2*fv.focal/d2,
		iz1: 1 / d1,
		iz2: 1 / d2,
		uz1: u1 / d1,
		uz2: u2 / d2,
	}
	return seg, seg.sx2 > seg.sx1
}

// columns returns the pixel columns whose centers the segment covers,
// restricted to [lo, hi].
func (s *wallSeg) columns(lo, hi int) (x1, x2 int) {
	return max(ceilPix(s.sx1), lo), min(ceilPix(s.sx2)-1, hi)
}

// wallNormal returns the interior-facing normal of w in view space.
func (fv *frameView) wallNormal(w *world.Wall) Vec3f {
	d := w.V2.Sub(w.V1).Normalize()
	nx, ny := d.Y, -d.X
	return Vec3f{
		X: float32(nx*fv.sin - ny*fv.cos),
		Z: float32(nx*fv.cos + ny*fv.sin),
	}
}

func wallContrast(w *world.Wall) int {
	switch {
	case w.V1.Y == w.V2.Y:
		return -fakeContrast
	case w.V1.X == w.V2.X:
		return fakeContrast
	}
	return 0
}

// renderWorld walks the portal graph from the eye's sector, drawing walls
// and collecting visplanes for this thread's columns, then draws the
// planes. Windows are processed breadth first, so within any column every
// sector is handled after the sectors in front of it.
func (th *Thread) renderWorld(fs *frameState) {
	if th.Range.Empty() {
		return
	}
	start := time.Now()
	th.queue = append(th.queue, window{fs.view.Sector, th.Range.X0, th.Range.X1 - 1})
	for head := 0; head < len(th.queue); head++ {
		win := th.queue[head]
		th.visited[win.sector] = true
		th.stats.windows++
		for _, wi := range fs.m.Sectors[win.sector].Walls {
			th.renderWall(fs, win, wi)
		}
	}
	th.stats.walls = time.Since(start)

	start = time.Now()
	th.drawPlanes(fs)
	th.stats.planes = time.Since(start)
}

// wallColumn carries the per-column values shared by a wall's parts.
type wallColumn struct {
	x      int
	invz   float64
	u      float64
	scale  float64
	light  int
	normal Vec3f
}

// renderWall draws the visible parts of wall wi within win, marks the
// sector's floor and ceiling, narrows the clip arrays and queues the sector
// behind a portal.
func (th *Thread) renderWall(fs *frameState, win window, wi int) {
	w := &fs.m.Walls[wi]
	fv := &fs.view
	seg, ok := fv.projectWall(w)
	if !ok {
		return
	}
	x1, x2 := seg.columns(win.x1, win.x2)
	if x1 > x2 {
		return
	}

	front := &fs.m.Sectors[win.sector]
	var back *world.Sector
	if w.Back != world.NoSector {
		back = &fs.m.Sectors[w.Back]
	}

	var ceilPl, floorPl *visplane
	if front.CeilZ > fv.Pos.Z {
		ceilPl = th.checkPlane(th.findPlane(front.CeilZ, fs.set.Flat(front.CeilTex), int(front.Light), true), x1, x2)
	}
	if front.FloorZ < fv.Pos.Z {
		floorPl = th.checkPlane(th.findPlane(front.FloorZ, fs.set.Flat(front.FloorTex), int(front.Light), false), x1, x2)
	}

	mid := fs.set.Texture(w.Mid)
	upper := fs.set.Texture(w.Upper)
	lower := fs.set.Texture(w.Lower)
	level := int(front.Light) + wallContrast(w)
	normal := fv.wallNormal(w)

	ds := drawseg{wall: wi, sector: win.sector, x1: x1, x2: x2, seg: seg}
	n := x2 - x1 + 1
	ds.top = len(th.openings)
	ds.bottom = ds.top + n
	th.openings = append(th.openings, make([]int, 2*n)...)

	th.wall.SetStyle(false, false, fixed.One)
	open := false
	for x := x1; x <= x2; x++ {
		cc, fc := th.ceilClip[x], th.floorClip[x]
		if cc < fc {
			invz, u := seg.at(x)
			scale := fv.focal * invz
			col := wallColumn{x: x, invz: invz, u: u, scale: scale, normal: normal,
				light: LightAt(level, 1/invz)}
			top := ceilPix(fv.screenY(front.CeilZ, scale))
			bottom := ceilPix(fv.screenY(front.FloorZ, scale))
			if ceilPl != nil {
				ceilPl.mark(x, cc, min(top, fc)-1)
			}
			if floorPl != nil {
				floorPl.mark(x, max(bottom, cc), fc-1)
			}

			if back == nil {
				th.drawWallPart(fs, &col, mid, front.CeilZ, w.YOffset, max(top, cc), min(bottom, fc))
				th.ceilClip[x] = fc
			} else {
				hi := ceilPix(fv.screenY(back.CeilZ, scale))
				lo := ceilPix(fv.screenY(back.FloorZ, scale))
				if back.CeilZ < front.CeilZ {
					th.drawWallPart(fs, &col, upper, front.CeilZ, w.YOffset, max(top, cc), min(hi, fc))
				}
				if back.FloorZ > front.FloorZ {
					th.drawWallPart(fs, &col, lower, back.FloorZ, w.YOffset, max(lo, cc), min(bottom, fc))
				}
				th.ceilClip[x] = max(cc, top, hi)
				th.floorClip[x] = min(fc, bottom, lo)
				if th.ceilClip[x] < th.floorClip[x] {
					open = true
				}
			}
			th.stats.wallColumns++
		}
		th.openings[ds.top+x-x1] = th.ceilClip[x]
		th.openings[ds.bottom+x-x1] = th.floorClip[x]
	}

	if back != nil && mid != nil {
		ds.maskedMid = true
		th.masked = append(th.masked, wi)
	}
	th.drawsegs = append(th.drawsegs, ds)
	th.stats.drawsegs++

	if open && len(th.queue) < maxWindows {
		th.queue = append(th.queue, window{w.Back, x1, x2})
	}
}

// drawWallPart draws rows [y1, y2) of one wall column with tex, whose top
// edge is pinned to world height anchor.
func (th *Thread) drawWallPart(fs *frameState, col *wallColumn, tex *texture.Texture, anchor, yoff float64, y1, y2 int) {
	if tex == nil || y2 <= y1 {
		return
	}
	fv := &fs.view
	a := &th.wall
	th.setupWallColumn(fs, a, col, tex, y1)
	a.SetTextureVPos(fixed.FromFloat((anchor - fv.Pos.Z) + yoff + (float64(y1)+0.5-fv.centerY)/col.scale))
	a.SetDest(fs.canvas, col.x, y1)
	a.SetCount(y2 - y1)
	a.DrawColumn(th)
}

// setupWallColumn binds the texture columns, V step and lights of one wall
// column whose run starts at row y1.
func (th *Thread) setupWallColumn(fs *frameState, a *WallDrawerArgs, col *wallColumn, tex *texture.Texture, y1 int) {
	fv := &fs.view
	tx := fixed.FromFloat(col.u).Int()
	a.SetTexture(tex.Column(tx), tex.Column(tx+1), tex.Height)
	a.SetTextureUPos(fixed.FromFloat(col.u))
	a.SetTextureVStep(fixed.FromFloat(1 / col.scale))
	a.SetLight(col.light, th.palette.Colormap(col.light))
	depth := float32(1 / col.invz)
	lateral := float32((float64(col.x) + 0.5 - fv.centerX) / col.scale)
	rowStep := float32(1 / col.scale)
	a.SetLights(col.normal,
		Vec3f{lateral, float32(fv.centerY-0.5) * rowStep, depth},
		Vec3f{0, -rowStep, 0},
		y1, fs.lights)
}

// drawMaskedWall draws the masked middle texture of every drawseg of wall
// wi in this thread, clipped to the opening left after the wall.
func (th *Thread) drawMaskedWall(fs *frameState, wi int) {
	w := &fs.m.Walls[wi]
	fv := &fs.view
	tex := fs.set.Texture(w.Mid)
	if tex == nil || w.Back == world.NoSector {
		return
	}
	alpha := fixed.One
	if w.Translucent || w.Additive {
		alpha = w.Alpha
	}
	a := &th.wall
	a.SetStyle(!tex.Opaque(), w.Additive, alpha)
	normal := fv.wallNormal(w)
	for i := range th.drawsegs {
		ds := &th.drawsegs[i]
		if ds.wall != wi || !ds.maskedMid {
			continue
		}
		front := &fs.m.Sectors[ds.sector]
		back := &fs.m.Sectors[w.Back]
		anchor := min(front.CeilZ, back.CeilZ) + w.YOffset
		level := int(front.Light) + wallContrast(w)
		for x := ds.x1; x <= ds.x2; x++ {
			cc, fc := th.openings[ds.top+x-ds.x1], th.openings[ds.bottom+x-ds.x1]
			if cc >= fc {
				continue
			}
			invz, u := ds.seg.at(x)
			scale := fv.focal * invz
			y1 := max(cc, ceilPix(fv.screenY(anchor, scale)))
			y2 := min(fc, ceilPix(fv.screenY(anchor-float64(tex.SrcHeight), scale)))
			if y2 <= y1 {
				continue
			}
			col := wallColumn{x: x, invz: invz, u: u, scale: scale, normal: normal,
				light: LightAt(level, 1/invz)}
			th.setupWallColumn(fs, a, &col, tex, y1)
			a.SetTextureVPos(fixed.FromFloat((anchor - fv.Pos.Z) + (float64(y1)+0.5-fv.centerY)/scale))
			a.SetDest(fs.canvas, x, y1)
			a.SetCount(y2 - y1)
			a.DrawColumn(th)
		}
	}
}
