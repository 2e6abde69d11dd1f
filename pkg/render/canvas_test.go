package render

import (
	"testing"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/world"
)

func countIndex(c *Canvas, index uint8) int {
	n := 0
	for _, p := range c.Pix8 {
		if p == index {
			n++
		}
	}
	return n
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 1, 1, 4, 1, [][2]int{{1, 1}, {2, 1}, {3, 1}, {4, 1}}},
		{"reversed", 4, 1, 1, 1, [][2]int{{1, 1}, {2, 1}, {3, 1}, {4, 1}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"point", 2, 5, 2, 5, [][2]int{{2, 5}}},
		{"clipped", -3, 2, 1, 2, [][2]int{{0, 2}, {1, 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCanvas(8, 8, Paletted8)
			c.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1, 7, 0)
			if got := countIndex(c, 7); got != len(tc.want) {
				t.Errorf("drew %d pixels, want %d", got, len(tc.want))
			}
			for _, p := range tc.want {
				if c.Pix8[c.Index(p[0], p[1])] != 7 {
					t.Errorf("pixel %v not drawn", p)
				}
			}
		})
	}
}

func TestSetPixelFormats(t *testing.T) {
	c := NewCanvas(4, 4, TrueColor32)
	c.SetPixel(1, 2, 9, blend.RGB(10, 20, 30))
	c.SetPixel(4, 0, 9, blend.RGB(10, 20, 30))
	if got := c.At(1, 2, testPalette); got != blend.RGB(10, 20, 30) {
		t.Errorf("At(1, 2) = %08x", got)
	}
	if got := c.At(4, 0, testPalette); got != 0 {
		t.Errorf("out of bounds At = %08x, want 0", got)
	}
}

func TestAutomapDraw(t *testing.T) {
	m, start := world.Demo()
	c := NewCanvas(64, 64, Paletted8)
	am := &Automap{Scale: 0.05, ShowThings: true}
	v := Viewpoint{Pos: start.Pos, Yaw: start.Yaw, Sector: start.Sector}
	am.Draw(c, blend.DefaultPalette(), m, v)

	for _, tc := range []struct {
		name  string
		index uint8
	}{
		{"solid walls", automapSolid},
		{"portals", automapPortal},
		{"things", automapThing},
	} {
		if countIndex(c, tc.index) == 0 {
			t.Errorf("no %s drawn", tc.name)
		}
	}
	if got := c.Pix8[c.Index(32, 32)]; got != automapPlayer {
		t.Errorf("center pixel = %d, want the player arrow", got)
	}
}

func TestPortalTwin(t *testing.T) {
	m, _ := world.Demo()
	for i, w := range m.Walls {
		if w.Back == world.NoSector {
			continue
		}
		j := portalTwin(m, i)
		if j == i {
			t.Fatalf("portal %d has no twin", i)
		}
		if portalTwin(m, j) != i {
			t.Errorf("twin of %d is %d, whose twin is %d", i, j, portalTwin(m, j))
		}
	}
}
