package viewer

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/sector/pkg/math3d"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/world"
)

// Axis is one degree of freedom driven by impulses: each frame its velocity
// is applied and then decays toward zero on a critically damped spring.
type Axis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewAxis returns an axis updated fps times per second. freq sets how
// quickly motion dies out after input stops.
func NewAxis(fps int, freq float64) Axis {
	return Axis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), freq, 1.0)}
}

// Push adds v to the velocity.
func (a *Axis) Push(v float64) { a.Velocity += v }

// Update returns this frame's displacement and decays the velocity.
func (a *Axis) Update() float64 {
	d := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	if a.Velocity*a.Velocity < 1e-8 {
		a.Velocity, a.velAccel = 0, 0
	}
	return d
}

// Stop zeroes the velocity.
func (a *Axis) Stop() { a.Velocity, a.velAccel = 0, 0 }

// Player movement limits, in world units.
const (
	MaxStep   = 24 // highest floor step that can be walked up
	MinHeight = 56 // lowest opening that can be walked into
)

// Motion moves a viewpoint through a map: forward, strafe, turn and look
// axes, and a spring that eases the eye up and down floor steps.
type Motion struct {
	Forward, Strafe, Turn, Look Axis

	eyeSpring harmonica.Spring
	eyeVel    float64
}

// NewMotion returns motion stepped fps times per second.
func NewMotion(fps int) *Motion {
	return &Motion{
		Forward:   NewAxis(fps, 8.0),
		Strafe:    NewAxis(fps, 8.0),
		Turn:      NewAxis(fps, 10.0),
		Look:      NewAxis(fps, 10.0),
		eyeSpring: harmonica.NewSpring(harmonica.FPS(fps), 10.0, 1.0),
	}
}

// Stop halts all motion.
func (mo *Motion) Stop() {
	mo.Forward.Stop()
	mo.Strafe.Stop()
	mo.Turn.Stop()
	mo.Look.Stop()
	mo.eyeVel = 0
}

// Step advances v by one frame in m.
func (mo *Motion) Step(m *world.Map, v *render.Viewpoint) {
	v.Rotate(mo.Look.Update(), mo.Turn.Update())

	move := v.Forward().Scale(mo.Forward.Update()).Add(v.Right().Scale(mo.Strafe.Update()))
	if move != (math3d.Vec2{}) {
		TryMove(m, v, move)
	}

	if v.Sector == world.NoSector {
		return
	}
	s := &m.Sectors[v.Sector]
	target := min(s.FloorZ+world.EyeHeight, s.CeilZ-4)
	v.Pos.Z, mo.eyeVel = mo.eyeSpring.Update(v.Pos.Z, mo.eyeVel, target)
}

// TryMove moves v by d if the destination is inside the map and passable,
// sliding along an axis when the full move is blocked. It reports whether
// v moved.
func TryMove(m *world.Map, v *render.Viewpoint, d math3d.Vec2) bool {
	for _, try := range []math3d.Vec2{d, math3d.V2(d.X, 0), math3d.V2(0, d.Y)} {
		if try == (math3d.Vec2{}) {
			continue
		}
		p := v.Pos.XY().Add(try)
		sec := destination(m, v.Sector, p)
		if sec == world.NoSector || !passable(m, v.Sector, sec) {
			continue
		}
		v.Pos.X, v.Pos.Y = p.X, p.Y
		v.Sector = sec
		return true
	}
	return false
}

// destination returns the sector containing p, checking from first.
func destination(m *world.Map, from int, p math3d.Vec2) int {
	if from != world.NoSector && m.Contains(from, p) {
		return from
	}
	return m.SectorAt(p)
}

func passable(m *world.Map, from, to int) bool {
	if from == to || from == world.NoSector {
		return true
	}
	a, b := &m.Sectors[from], &m.Sectors[to]
	return b.FloorZ-a.FloorZ <= MaxStep && b.CeilZ-max(a.FloorZ, b.FloorZ) >= MinHeight
}
