// Package world defines the already-built sector/portal map the renderer
// consumes. Sectors are convex polygons whose walls are wound clockwise, so
// an observer inside a sector facing a wall sees its V1 on the left.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/math3d"
)

// ErrInvalidMap wraps every validation failure.
var ErrInvalidMap = errors.New("invalid map")

// NoSector marks a solid wall or an unknown location.
const NoSector = -1

// Sector is a convex floor/ceiling-bounded region.
type Sector struct {
	FloorZ   float64
	CeilZ    float64
	FloorTex string
	CeilTex  string
	Light    uint8 // base light level, 255 = full bright
	Walls    []int // wall indices in clockwise order
}

// Wall is one edge of a sector. Back is the sector seen through the wall or
// NoSector for a solid wall.
type Wall struct {
	V1, V2  math3d.Vec2
	Back    int
	Mid     string // solid wall texture, or masked texture of a portal
	Upper   string // portal: above the back sector's ceiling
	Lower   string // portal: below the back sector's floor
	XOffset float64
	YOffset float64

	// Masked mid textures of portals may blend with what is behind them.
	Translucent bool
	Additive    bool
	Alpha       fixed.Fixed
}

// ThingStyle selects how a thing's sprite blends into the scene.
type ThingStyle int

const (
	StyleNormal ThingStyle = iota
	StyleTranslucent
	StyleAdditive
	StyleSubtractive
	StyleReverseSubtractive
	StyleFuzzy
	StyleShaded
)

// Thing is a sprite-drawn object standing on the map.
type Thing struct {
	Pos         math3d.Vec3 // feet position
	Sector      int
	Sprite      string
	Scale       float64 // world units per texel, 0 means 1
	Style       ThingStyle
	Alpha       fixed.Fixed
	Translation *blend.Translation
	Fill        blend.Color // silhouette color for StyleShaded
	FullBright  bool
}

// Light is a dynamic point light. Ambient lights tint every surface within
// Radius uniformly instead of falling off with distance and angle.
type Light struct {
	Pos     math3d.Vec3
	Radius  float64
	Color   blend.Color
	Ambient bool
}

// Particle is a small square drawn as a solid color.
type Particle struct {
	Pos      math3d.Vec3
	Sector   int
	Size     float64
	Color    blend.Color
	Alpha    fixed.Fixed
	Additive bool
}

// Map is the complete renderable world.
type Map struct {
	Sectors   []Sector
	Walls     []Wall
	Things    []Thing
	Lights    []Light
	Particles []Particle
}

// Validate checks the structural invariants the renderer relies on: wall
// references are in range, every sector is a closed clockwise convex
// polygon, and portals are two-sided.
func (m *Map) Validate() error {
	owner := make([]int, len(m.Walls))
	for i := range owner {
		owner[i] = NoSector
	}
	for si, s := range m.Sectors {
		if s.CeilZ < s.FloorZ {
			return fmt.Errorf("%w: sector %d ceiling below floor", ErrInvalidMap, si)
		}
		if len(s.Walls) < 3 {
			return fmt.Errorf("%w: sector %d has %d walls", ErrInvalidMap, si, len(s.Walls))
		}
		for i, wi := range s.Walls {
			if wi < 0 || wi >= len(m.Walls) {
				return fmt.Errorf("%w: sector %d references wall %d", ErrInvalidMap, si, wi)
			}
			if owner[wi] != NoSector {
				return fmt.Errorf("%w: wall %d shared by sectors %d and %d", ErrInvalidMap, wi, owner[wi], si)
			}
			owner[wi] = si
			w := m.Walls[wi]
			next := m.Walls[s.Walls[(i+1)%len(s.Walls)]]
			if w.V2 != next.V1 {
				return fmt.Errorf("%w: sector %d not closed at wall %d", ErrInvalidMap, si, wi)
			}
			if w.V2.Sub(w.V1).Cross(next.V2.Sub(next.V1)) > 0 {
				return fmt.Errorf("%w: sector %d not convex and clockwise at wall %d", ErrInvalidMap, si, wi)
			}
		}
	}
	for wi, w := range m.Walls {
		if owner[wi] == NoSector {
			return fmt.Errorf("%w: wall %d belongs to no sector", ErrInvalidMap, wi)
		}
		if w.Back == NoSector {
			continue
		}
		if w.Back < 0 || w.Back >= len(m.Sectors) || w.Back == owner[wi] {
			return fmt.Errorf("%w: wall %d has bad back sector %d", ErrInvalidMap, wi, w.Back)
		}
		if !m.hasWall(w.Back, w.V2, w.V1, owner[wi]) {
			return fmt.Errorf("%w: portal wall %d has no matching wall in sector %d", ErrInvalidMap, wi, w.Back)
		}
	}
	for i, t := range m.Things {
		if t.Sector < 0 || t.Sector >= len(m.Sectors) {
			return fmt.Errorf("%w: thing %d in sector %d", ErrInvalidMap, i, t.Sector)
		}
	}
	for i, p := range m.Particles {
		if p.Sector < 0 || p.Sector >= len(m.Sectors) {
			return fmt.Errorf("%w: particle %d in sector %d", ErrInvalidMap, i, p.Sector)
		}
	}
	return nil
}

func (m *Map) hasWall(sector int, v1, v2 math3d.Vec2, back int) bool {
	for _, wi := range m.Sectors[sector].Walls {
		w := m.Walls[wi]
		if w.V1 == v1 && w.V2 == v2 && w.Back == back {
			return true
		}
	}
	return false
}

// Contains reports whether p lies inside the sector (boundary included).
func (m *Map) Contains(sector int, p math3d.Vec2) bool {
	for _, wi := range m.Sectors[sector].Walls {
		w := m.Walls[wi]
		if w.V2.Sub(w.V1).Cross(p.Sub(w.V1)) > 0 {
			return false
		}
	}
	return true
}

// SectorAt returns the sector containing p, or NoSector.
func (m *Map) SectorAt(p math3d.Vec2) int {
	for i := range m.Sectors {
		if m.Contains(i, p) {
			return i
		}
	}
	return NoSector
}

// FacingSide reports whether p is on the interior side of wall w, the only
// side from which the wall is drawn.
func (w *Wall) FacingSide(p math3d.Vec2) bool {
	return w.V2.Sub(w.V1).Cross(p.Sub(w.V1)) < 0
}

// Length returns the wall length.
func (w *Wall) Length() float64 {
	return w.V1.Distance(w.V2)
}

// Textures lists every texture, sprite and flat name the map references, for
// resolving a frame's texture set up front.
func (m *Map) Textures() (textures, flats []string) {
	add := func(list *[]string, seen map[string]bool, name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		*list = append(*list, name)
	}
	seenTex, seenFlat := make(map[string]bool), make(map[string]bool)
	for _, w := range m.Walls {
		add(&textures, seenTex, w.Mid)
		add(&textures, seenTex, w.Upper)
		add(&textures, seenTex, w.Lower)
	}
	for _, t := range m.Things {
		add(&textures, seenTex, t.Sprite)
	}
	for _, s := range m.Sectors {
		add(&flats, seenFlat, s.FloorTex)
		add(&flats, seenFlat, s.CeilTex)
	}
	return textures, flats
}

// Bounds returns the axis-aligned bounding box of all wall vertices.
func (m *Map) Bounds() (lo, hi math3d.Vec2) {
	lo = math3d.V2(math.Inf(1), math.Inf(1))
	hi = math3d.V2(math.Inf(-1), math.Inf(-1))
	for _, w := range m.Walls {
		for _, v := range []math3d.Vec2{w.V1, w.V2} {
			lo = math3d.V2(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y))
			hi = math3d.V2(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y))
		}
	}
	return lo, hi
}
