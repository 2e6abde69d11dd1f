package render

import (
	"math"

	"github.com/taigrr/sector/pkg/math3d"
)

// Near is the near clipping distance in world units.
const Near = 0.5

// MaxPitch limits looking up and down. Pitch is applied as a vertical
// shear of the projection, which distorts badly past this.
const MaxPitch = 0.6

// Viewpoint is the camera: an eye position, yaw and pitch angles in radians,
// and the sector containing the eye. Yaw 0 looks along +X; positive yaw
// turns left (toward +Y); positive pitch looks up.
type Viewpoint struct {
	Pos    math3d.Vec3
	Yaw    float64
	Pitch  float64
	Sector int
}

// Forward returns the horizontal view direction.
func (v *Viewpoint) Forward() math3d.Vec2 {
	return math3d.V2(math.Cos(v.Yaw), math.Sin(v.Yaw))
}

// Right returns the horizontal direction to the right of the view.
func (v *Viewpoint) Right() math3d.Vec2 {
	return math3d.V2(math.Sin(v.Yaw), -math.Cos(v.Yaw))
}

// MoveForward moves the eye along the view direction (backward if negative).
func (v *Viewpoint) MoveForward(distance float64) {
	f := v.Forward().Scale(distance)
	v.Pos = v.Pos.Add(math3d.V3(f.X, f.Y, 0))
}

// MoveRight strafes the eye (left if negative).
func (v *Viewpoint) MoveRight(distance float64) {
	r := v.Right().Scale(distance)
	v.Pos = v.Pos.Add(math3d.V3(r.X, r.Y, 0))
}

// MoveUp raises the eye (lowers if negative).
func (v *Viewpoint) MoveUp(distance float64) {
	v.Pos.Z += distance
}

// Rotate turns the view, clamping pitch to MaxPitch.
func (v *Viewpoint) Rotate(deltaPitch, deltaYaw float64) {
	v.Yaw = math.Remainder(v.Yaw+deltaYaw, 2*math.Pi)
	v.Pitch = max(-MaxPitch, min(v.Pitch+deltaPitch, MaxPitch))
}

// LookAt turns the view toward target.
func (v *Viewpoint) LookAt(target math3d.Vec3) {
	d := target.Sub(v.Pos)
	v.Yaw = math.Atan2(d.Y, d.X)
	v.Pitch = max(-MaxPitch, min(math.Atan2(d.Z, d.XY().Len()), MaxPitch))
}

// Viewport holds the projection parameters: the screen size and the
// horizontal field of view in degrees.
type Viewport struct {
	Width  int
	Height int
	FOV    float64
}

// CenterX returns the screen x of the view axis.
func (vp Viewport) CenterX() float64 {
	return float64(vp.Width) / 2
}

// Focal returns the projection distance in pixels.
func (vp Viewport) Focal() float64 {
	fov := vp.FOV
	if fov <= 0 {
		fov = 90
	}
	return float64(vp.Width) / 2 / math.Tan(fov*math.Pi/360)
}

// CenterY returns the screen y of the horizon for a pitch.
func (vp Viewport) CenterY(pitch float64) float64 {
	return float64(vp.Height)/2 + math.Tan(pitch)*vp.Focal()
}

// frameView is the per-frame projection: a viewpoint and viewport with
// their derived values. It is immutable while a frame renders.
type frameView struct {
	Viewpoint
	width, height    int
	centerX, centerY float64
	focal            float64
	sin, cos         float64
}

func newFrameView(vp Viewport, v Viewpoint) frameView {
	return frameView{
		Viewpoint: v,
		width:     vp.Width,
		height:    vp.Height,
		centerX:   vp.CenterX(),
		centerY:   vp.CenterY(v.Pitch),
		focal:     vp.Focal(),
		sin:       math.Sin(v.Yaw),
		cos:       math.Cos(v.Yaw),
	}
}

// toView returns the lateral offset (positive right) and depth of a map
// point relative to the eye.
func (fv *frameView) toView(p math3d.Vec2) (lateral, depth float64) {
	dx, dy := p.X-fv.Pos.X, p.Y-fv.Pos.Y
	return dx*fv.sin - dy*fv.cos, dx*fv.cos + dy*fv.sin
}

// toViewSpace converts a world point to the view space used by lights.
func (fv *frameView) toViewSpace(p math3d.Vec3) Vec3f {
	l, d := fv.toView(p.XY())
	return Vec3f{float32(l), float32(p.Z - fv.Pos.Z), float32(d)}
}

// screenY returns the screen y of world height z at a projection scale.
func (fv *frameView) screenY(z, scale float64) float64 {
	return fv.centerY - (z-fv.Pos.Z)*scale
}

// ceilPix returns the first pixel whose center lies at or after s.
func ceilPix(s float64) int {
	return int(math.Ceil(s - 0.5))
}

// WorldToScreen projects a world point. visible is false behind the near
// plane or outside the screen.
func (vp Viewport) WorldToScreen(v Viewpoint, p math3d.Vec3) (x, y, depth float64, visible bool) {
	fv := newFrameView(vp, v)
	l, d := fv.toView(p.XY())
	if d < Near {
		return 0, 0, 0, false
	}
	scale := fv.focal / d
	x = fv.centerX + l*scale
	y = fv.screenY(p.Z, scale)
	visible = x >= 0 && x < float64(vp.Width) && y >= 0 && y < float64(vp.Height)
	return x, y, d, visible
}
