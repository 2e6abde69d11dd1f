package render

import (
	"fmt"
	"math"
	"testing"

	"github.com/taigrr/sector/pkg/math3d"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/world"
)

func demoFrame(t testing.TB) (*world.Map, world.Start, *texture.Set) {
	t.Helper()
	m, start := world.Demo()
	cache, err := texture.NewCache(texture.NewBuiltin(), 64)
	if err != nil {
		t.Fatal(err)
	}
	set, missing, err := cache.Resolve(m.Textures())
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) > 0 {
		t.Fatalf("builtin textures missing %v", missing)
	}
	return m, start, set
}

// demoViews covers every kind of drawing in the demo map: the hall and its
// sprites, the grated window, the pool with its particles and lights, and
// the dark alcove with pitch.
func demoViews(start world.Start) []Viewpoint {
	return []Viewpoint{
		{Pos: start.Pos, Yaw: start.Yaw, Sector: start.Sector},
		{Pos: math3d.V3(0, 0, 41), Yaw: math.Pi / 2, Sector: start.Sector},
		{Pos: math3d.V3(600, 100, 9), Yaw: -math.Pi / 3, Pitch: -0.3, Sector: world.NoSector},
		{Pos: math3d.V3(-200, 0, 41), Yaw: math.Pi, Pitch: 0.4, Sector: world.NoSector},
		{Pos: math3d.V3(0, 400, 73), Yaw: -math.Pi / 2, Sector: world.NoSector},
	}
}

func renderViews(t *testing.T, workers int, format Format, m *world.Map, set *texture.Set, views []Viewpoint) []*Canvas {
	t.Helper()
	r := NewRenderer(Options{Workers: workers, Palette: testPalette})
	defer r.Close()
	out := make([]*Canvas, 0, len(views))
	for i, v := range views {
		c := NewCanvas(97, 61, format)
		r.RenderFrame(&Frame{View: v, Map: m, Textures: set, Tick: i * 3}, c)
		out = append(out, c)
	}
	return out
}

func TestRenderFrameWorkerIdentity(t *testing.T) {
	m, start, set := demoFrame(t)
	views := demoViews(start)
	for _, format := range []Format{Paletted8, TrueColor32} {
		t.Run(format.String(), func(t *testing.T) {
			want := renderViews(t, 1, format, m, set, views)
			for _, workers := range []int{2, 3, 4, 7} {
				got := renderViews(t, workers, format, m, set, views)
				for i := range views {
					if !got[i].Equal(want[i]) {
						t.Errorf("view %d: %d workers differ from 1 worker", i, workers)
					}
				}
			}
		})
	}
}

func TestRenderFrameDrawsScene(t *testing.T) {
	m, start, set := demoFrame(t)
	r := NewRenderer(Options{Workers: 2})
	defer r.Close()

	c := NewCanvas(160, 100, TrueColor32)
	stats := r.RenderFrame(&Frame{View: Viewpoint{Pos: start.Pos, Yaw: start.Yaw, Sector: start.Sector}, Map: m, Textures: set}, c)

	if stats.Workers != 2 {
		t.Errorf("Workers = %d, want 2", stats.Workers)
	}
	if stats.Windows == 0 || stats.WallColumns == 0 || stats.Spans == 0 || stats.Visplanes == 0 {
		t.Errorf("front end did no work: %+v", stats)
	}
	if stats.Sprites == 0 {
		t.Error("no sprites collected in the hall")
	}

	drawn := 0
	for _, p := range c.Pix32 {
		if p != 0xff000000 {
			drawn++
		}
	}
	if drawn < len(c.Pix32)/2 {
		t.Errorf("only %d of %d pixels drawn", drawn, len(c.Pix32))
	}
}

func TestRenderFrameOutsideMap(t *testing.T) {
	m, _, set := demoFrame(t)
	r := NewRenderer(Options{Workers: 3})
	defer r.Close()

	c := createTestCanvas(64, 40, Paletted8)
	stats := r.RenderFrame(&Frame{View: Viewpoint{Pos: math3d.V3(5000, 5000, 41), Sector: world.NoSector}, Map: m, Textures: set}, c)
	if stats.Windows != 0 {
		t.Errorf("Windows = %d outside the map", stats.Windows)
	}
	for i, p := range c.Pix8 {
		if p != 0 {
			t.Fatalf("pixel %d = %d, want cleared", i, p)
		}
	}
}

func TestRenderFrameNilTextures(t *testing.T) {
	m, start, _ := demoFrame(t)
	r := NewRenderer(Options{Workers: 2})
	defer r.Close()

	c := NewCanvas(64, 40, Paletted8)
	stats := r.RenderFrame(&Frame{View: Viewpoint{Pos: start.Pos, Sector: start.Sector}, Map: m}, c)
	if stats.WallColumns == 0 {
		t.Error("no walls drawn with placeholder textures")
	}
}

func TestCollectMaskedOrder(t *testing.T) {
	m, start, set := demoFrame(t)
	r := NewRenderer(Options{Workers: 2})
	defer r.Close()

	c := NewCanvas(96, 60, TrueColor32)
	r.RenderFrame(&Frame{View: Viewpoint{Pos: start.Pos, Sector: start.Sector}, Map: m, Textures: set}, c)
	items := r.items
	if len(items) == 0 {
		t.Fatal("empty masked list")
	}
	for i := 1; i < len(items); i++ {
		if items[i].depth > items[i-1].depth {
			t.Fatalf("item %d nearer than item %d", i-1, i)
		}
	}
	for _, it := range items {
		if it.depth < Near {
			t.Errorf("item %+v in front of the near plane", it)
		}
	}
}

func BenchmarkRenderFrame(b *testing.B) {
	m, start, set := demoFrame(b)
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			r := NewRenderer(Options{Workers: workers})
			defer r.Close()
			c := NewCanvas(320, 200, TrueColor32)
			f := &Frame{View: Viewpoint{Pos: start.Pos, Sector: start.Sector}, Map: m, Textures: set}
			for b.Loop() {
				r.RenderFrame(f, c)
			}
		})
	}
}
