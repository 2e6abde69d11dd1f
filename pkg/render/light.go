package render

import (
	"math"

	"github.com/taigrr/sector/pkg/blend"
)

// Vec3f is a view-space vector: X right, Y up, Z forward (depth).
type Vec3f struct {
	X, Y, Z float32
}

// Add returns a + b.
func (a Vec3f) Add(b Vec3f) Vec3f { return Vec3f{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Scale returns a * s.
func (a Vec3f) Scale(s float32) Vec3f { return Vec3f{a.X * s, a.Y * s, a.Z * s} }

// DrawerLight is one dynamic light in view space. R, G and B are the
// channel intensities in light units (FullBright = no change).
type DrawerLight struct {
	Pos     Vec3f
	Radius  float32
	R, G, B float32
	Ambient bool
}

// maxLight caps accumulated light so overbright surfaces saturate smoothly.
const maxLight = 2 * blend.FullBright

// rgbLight is a per-pixel light multiplier, FullBright = unchanged.
type rgbLight struct {
	r, g, b uint32
}

// lighting holds the light state shared by every drawer kind.
type lighting struct {
	light    uint32
	colormap *blend.Colormap

	normal      Vec3f
	viewPos     Vec3f // position of pixel index 0 of the run's axis
	viewPosStep Vec3f
	lightBase   int // absolute index of the run's first pixel along the axis
	lights      []DrawerLight
}

func (l *lighting) setLight(light int, cm *blend.Colormap) {
	l.light = uint32(max(0, min(light, maxLight)))
	l.colormap = cm
}

func (l *lighting) setLights(normal, viewPos, step Vec3f, base int, lights []DrawerLight) {
	l.normal = normal
	l.viewPos = viewPos
	l.viewPosStep = step
	l.lightBase = base
	l.lights = lights
}

func clampLight(v float32) uint32 {
	if v >= maxLight {
		return maxLight
	}
	return uint32(v)
}

// lightRun computes the light multiplier of every pixel of a run of count
// pixels into the thread's scratch buffer.
//
// Ambient lights are view-independent and summed once for the whole run.
// Positional lights are resampled per pixel. The position of pixel i is
// viewPos + viewPosStep*(lightBase+i), computed from the absolute index
// rather than accumulated, so a run split at any column boundary lights
// every pixel identically.
func (l *lighting) lightRun(th *Thread, count int) []rgbLight {
	buf := th.litBuffer(count)
	base := float32(l.light)
	r, g, b := base, base, base
	positional := false
	for i := range l.lights {
		dl := &l.lights[i]
		if dl.Ambient {
			r += dl.R
			g += dl.G
			b += dl.B
			continue
		}
		positional = true
	}
	if !positional {
		c := rgbLight{clampLight(r), clampLight(g), clampLight(b)}
		for i := range buf {
			buf[i] = c
		}
		return buf
	}
	for i := range buf {
		p := l.viewPos.Add(l.viewPosStep.Scale(float32(l.lightBase + i)))
		pr, pg, pb := r, g, b
		for j := range l.lights {
			dl := &l.lights[j]
			if dl.Ambient {
				continue
			}
			dx, dy, dz := dl.Pos.X-p.X, dl.Pos.Y-p.Y, dl.Pos.Z-p.Z
			d2 := dx*dx + dy*dy + dz*dz
			if d2 >= dl.Radius*dl.Radius {
				continue
			}
			d := float32(math.Sqrt(float64(d2)))
			if d == 0 {
				continue
			}
			lambert := (dx*l.normal.X + dy*l.normal.Y + dz*l.normal.Z) / d
			if lambert <= 0 {
				continue
			}
			k := (1 - d/dl.Radius) * lambert
			pr += dl.R * k
			pg += dl.G * k
			pb += dl.B * k
		}
		buf[i] = rgbLight{clampLight(pr), clampLight(pg), clampLight(pb)}
	}
	return buf
}

// LightAt returns the light value of a surface of the given sector light
// level seen at depth, applying distance diminishing.
func LightAt(level int, depth float64) int {
	l := level + 48 - int(depth*lightFalloff)
	return max(minLight, min(l, blend.FullBright))
}

const (
	lightFalloff = 0.25
	minLight     = 16
)
