package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/taigrr/sector/pkg/math3d"
)

func square(b *Builder, x0, y0, x1, y1, floor, ceil float64) int {
	return b.Sector(Sector{FloorZ: floor, CeilZ: ceil, Light: 160}, "WALL",
		v(x0, y1), v(x1, y1), v(x1, y0), v(x0, y0))
}

func TestDemoValidates(t *testing.T) {
	m, start := Demo()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.SectorAt(start.Pos.XY()); got != start.Sector {
		t.Errorf("start sector = %d, SectorAt = %d", start.Sector, got)
	}
	portals := 0
	for _, w := range m.Walls {
		if w.Back != NoSector {
			portals++
		}
	}
	if portals != 8 {
		t.Errorf("portal walls = %d, want 8", portals)
	}
	for i, th := range m.Things {
		if !m.Contains(th.Sector, th.Pos.XY()) {
			t.Errorf("thing %d not inside its sector %d", i, th.Sector)
		}
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() Map
	}{
		{"ceiling below floor", func() Map {
			b := NewBuilder()
			square(b, 0, 0, 64, 64, 10, 0)
			return b.m
		}},
		{"counter-clockwise", func() Map {
			b := NewBuilder()
			b.Sector(Sector{CeilZ: 64}, "W", v(0, 0), v(64, 0), v(64, 64), v(0, 64))
			return b.m
		}},
		{"too few walls", func() Map {
			b := NewBuilder()
			b.Sector(Sector{CeilZ: 64}, "W", v(0, 0), v(64, 0))
			return b.m
		}},
		{"open polygon", func() Map {
			b := NewBuilder()
			square(b, 0, 0, 64, 64, 0, 64)
			b.m.Walls[1].V1 = v(70, 70)
			return b.m
		}},
		{"one-sided portal", func() Map {
			b := NewBuilder()
			square(b, 0, 0, 64, 64, 0, 64)
			square(b, 64, 0, 128, 64, 0, 64)
			b.m.Walls[1].Back = 1
			return b.m
		}},
		{"thing outside sectors", func() Map {
			b := NewBuilder()
			square(b, 0, 0, 64, 64, 0, 64)
			b.m.Things = append(b.m.Things, Thing{Sector: 3})
			return b.m
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()
			if err := m.Validate(); !errors.Is(err, ErrInvalidMap) {
				t.Errorf("Validate() = %v, want ErrInvalidMap", err)
			}
		})
	}
}

func TestLink(t *testing.T) {
	b := NewBuilder()
	left := square(b, 0, 0, 64, 64, 0, 64)
	right := square(b, 64, 0, 128, 64, 8, 56)
	b.Link()
	m, err := b.Map()
	if err != nil {
		t.Fatal(err)
	}
	w := b.Wall(left, v(64, 64), v(64, 0))
	if w == nil || w.Back != right || w.Mid != "" || w.Upper != "WALL" || w.Lower != "WALL" {
		t.Errorf("left portal = %+v", w)
	}
	if got := m.SectorAt(math3d.V2(100, 10)); got != right {
		t.Errorf("SectorAt = %d, want %d", got, right)
	}
	if got := m.SectorAt(math3d.V2(-5, 10)); got != NoSector {
		t.Errorf("SectorAt outside = %d", got)
	}
}

func TestFacingSide(t *testing.T) {
	w := Wall{V1: v(100, 50), V2: v(100, -50)}
	if !w.FacingSide(v(0, 0)) {
		t.Error("origin should see the wall's front")
	}
	if w.FacingSide(v(200, 0)) {
		t.Error("far side should not see the wall's front")
	}
}

func TestTextures(t *testing.T) {
	m, _ := Demo()
	textures, flats := m.Textures()
	for _, name := range []string{"BRICK", "METAL", "GRATE", "PILLAR", "GHOST"} {
		if !slices.Contains(textures, name) {
			t.Errorf("textures missing %s", name)
		}
	}
	for _, name := range []string{"FLOOR", "NUKAGE", "GRASS"} {
		if !slices.Contains(flats, name) {
			t.Errorf("flats missing %s", name)
		}
	}
	if slices.Contains(textures, "") {
		t.Error("empty name listed")
	}
}
