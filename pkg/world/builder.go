package world

import (
	"github.com/taigrr/sector/pkg/fixed"
	"github.com/taigrr/sector/pkg/math3d"
)

// Builder assembles a Map sector by sector. Sectors are given as clockwise
// vertex loops; Link then turns coincident opposite walls into portals.
type Builder struct {
	m Map
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Sector appends a sector bounded by the clockwise polygon pts. Every wall
// starts solid with texture wallTex.
func (b *Builder) Sector(s Sector, wallTex string, pts ...math3d.Vec2) int {
	s.Walls = nil
	for i, p := range pts {
		s.Walls = append(s.Walls, len(b.m.Walls))
		b.m.Walls = append(b.m.Walls, Wall{
			V1:    p,
			V2:    pts[(i+1)%len(pts)],
			Back:  NoSector,
			Mid:   wallTex,
			Alpha: fixed.One,
		})
	}
	b.m.Sectors = append(b.m.Sectors, s)
	return len(b.m.Sectors) - 1
}

// Link pairs every wall with its reversed twin in another sector and makes
// both portals. The former mid texture becomes the upper and lower texture.
func (b *Builder) Link() {
	for si, s := range b.m.Sectors {
		for _, wi := range s.Walls {
			w := &b.m.Walls[wi]
			if w.Back != NoSector {
				continue
			}
			for sj, other := range b.m.Sectors {
				if sj == si {
					continue
				}
				for _, wj := range other.Walls {
					o := b.m.Walls[wj]
					if o.V1 == w.V2 && o.V2 == w.V1 {
						w.Back = sj
						w.Upper, w.Lower, w.Mid = w.Mid, w.Mid, ""
					}
				}
			}
		}
	}
}

// Wall returns the wall of sector running from v1 to v2, or nil.
func (b *Builder) Wall(sector int, v1, v2 math3d.Vec2) *Wall {
	for _, wi := range b.m.Sectors[sector].Walls {
		if w := &b.m.Walls[wi]; w.V1 == v1 && w.V2 == v2 {
			return w
		}
	}
	return nil
}

// Thing places a thing, filling in its sector when it is NoSector.
func (b *Builder) Thing(t Thing) {
	if t.Sector == NoSector {
		t.Sector = b.m.SectorAt(t.Pos.XY())
	}
	if t.Alpha == 0 {
		t.Alpha = fixed.One
	}
	b.m.Things = append(b.m.Things, t)
}

// Light adds a dynamic light.
func (b *Builder) Light(l Light) {
	b.m.Lights = append(b.m.Lights, l)
}

// Particle places a particle, filling in its sector when it is NoSector.
func (b *Builder) Particle(p Particle) {
	if p.Sector == NoSector {
		p.Sector = b.m.SectorAt(p.Pos.XY())
	}
	b.m.Particles = append(b.m.Particles, p)
}

// Map validates and returns the assembled map.
func (b *Builder) Map() (*Map, error) {
	m := b.m
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
