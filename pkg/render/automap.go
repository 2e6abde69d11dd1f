package render

import (
	"math"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/math3d"
	"github.com/taigrr/sector/pkg/world"
)

// Automap draws a top-down line view of the map over a canvas, centered on
// the viewpoint with the view direction pointing up.
type Automap struct {
	// Scale is screen pixels per world unit.
	Scale float64
	// ShowThings draws things and particles as crosses.
	ShowThings bool
}

var (
	automapSolid  = blend.RampIndex(blend.RampRed, 12)
	automapPortal = blend.RampIndex(blend.RampOrange, 12)
	automapThing  = blend.RampIndex(blend.RampGreen, 12)
	automapPlayer = blend.RampIndex(blend.RampGray, 15)
)

// Draw draws m as seen from v.
func (am *Automap) Draw(c *Canvas, pal *blend.Palette, m *world.Map, v Viewpoint) {
	scale := am.Scale
	if scale <= 0 {
		scale = 0.25
	}
	cx, cy := float64(c.Width)/2, float64(c.Height)/2
	// Rotate so the view direction points up the screen.
	rot := math.Pi/2 - v.Yaw
	project := func(p math3d.Vec2) (int, int) {
		d := p.Sub(v.Pos.XY()).Rotate(rot)
		return int(math.Round(cx + d.X*scale)), int(math.Round(cy - d.Y*scale))
	}
	line := func(a, b math3d.Vec2, index uint8) {
		x0, y0 := project(a)
		x1, y1 := project(b)
		c.DrawLine(x0, y0, x1, y1, index, pal.Colors[index])
	}
	cross := func(p math3d.Vec2, size float64, index uint8) {
		line(p.Add(math3d.V2(-size, 0)), p.Add(math3d.V2(size, 0)), index)
		line(p.Add(math3d.V2(0, -size)), p.Add(math3d.V2(0, size)), index)
	}

	for i := range m.Walls {
		w := &m.Walls[i]
		if w.Back == world.NoSector {
			line(w.V1, w.V2, automapSolid)
		} else if i < portalTwin(m, i) {
			line(w.V1, w.V2, automapPortal)
		}
	}
	if am.ShowThings {
		for _, t := range m.Things {
			cross(t.Pos.XY(), 8, automapThing)
		}
		for _, p := range m.Particles {
			cross(p.Pos.XY(), 2, automapThing)
		}
	}

	// Player arrow.
	f := v.Forward()
	r := v.Right()
	tip := v.Pos.XY().Add(f.Scale(16))
	line(v.Pos.XY().Sub(f.Scale(8)), tip, automapPlayer)
	line(tip, tip.Sub(f.Scale(6)).Add(r.Scale(5)), automapPlayer)
	line(tip, tip.Sub(f.Scale(6)).Sub(r.Scale(5)), automapPlayer)
}

// portalTwin returns the index of the wall on the other side of portal wi,
// or wi when there is none.
func portalTwin(m *world.Map, wi int) int {
	w := &m.Walls[wi]
	for _, oi := range m.Sectors[w.Back].Walls {
		o := &m.Walls[oi]
		if o.V1 == w.V2 && o.V2 == w.V1 {
			return oi
		}
	}
	return wi
}
