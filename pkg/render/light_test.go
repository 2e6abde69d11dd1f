package render

import (
	"testing"

	"github.com/taigrr/sector/pkg/blend"
)

func TestLightRunBase(t *testing.T) {
	th := NewThread(0, blend.DefaultPalette())
	var l lighting
	l.setLight(200, nil)
	for i, v := range l.lightRun(th, 5) {
		if v != (rgbLight{200, 200, 200}) {
			t.Errorf("pixel %d = %v, want 200", i, v)
		}
	}
}

func TestLightRunAmbient(t *testing.T) {
	th := NewThread(0, blend.DefaultPalette())
	var l lighting
	l.setLight(100, nil)
	l.setLights(Vec3f{Z: -1}, Vec3f{}, Vec3f{}, 0, []DrawerLight{
		{R: 50, G: 10, Ambient: true},
		{R: 1000, Ambient: true},
	})
	got := l.lightRun(th, 2)
	want := rgbLight{maxLight, 110, 100}
	for i, v := range got {
		if v != want {
			t.Errorf("pixel %d = %v, want %v", i, v, want)
		}
	}
}

func TestLightRunPositional(t *testing.T) {
	th := NewThread(0, blend.DefaultPalette())
	var l lighting
	l.setLight(64, nil)
	// A column facing the viewer at depth 10, rows one unit apart going down.
	l.setLights(Vec3f{Z: -1}, Vec3f{0, 0, 10}, Vec3f{Y: -1}, 0, []DrawerLight{
		{Pos: Vec3f{0, 0, 5}, Radius: 10, R: 100, G: 100, B: 100},
	})
	got := l.lightRun(th, 12)
	if got[0].r != 64+50 {
		t.Errorf("nearest pixel = %d, want %d", got[0].r, 64+50)
	}
	for i := 1; i < len(got); i++ {
		if got[i].r > got[i-1].r {
			t.Errorf("light increases away from the source at pixel %d", i)
		}
	}
	if got[11].r != 64 {
		t.Errorf("pixel out of range = %d, want base 64", got[11].r)
	}
}

func TestLightRunBehindSurface(t *testing.T) {
	th := NewThread(0, blend.DefaultPalette())
	var l lighting
	l.setLight(64, nil)
	l.setLights(Vec3f{Z: -1}, Vec3f{0, 0, 10}, Vec3f{}, 0, []DrawerLight{
		{Pos: Vec3f{0, 0, 12}, Radius: 10, R: 100},
	})
	if got := l.lightRun(th, 1)[0].r; got != 64 {
		t.Errorf("light behind the surface contributed: %d", got)
	}
}

// TestLightRunSplit checks that a run lit in two pieces matches the run lit
// whole.
func TestLightRunSplit(t *testing.T) {
	lights := []DrawerLight{{Pos: Vec3f{3, 1, 6}, Radius: 20, R: 150, G: 90, B: 30}}
	th := NewThread(0, blend.DefaultPalette())
	var l lighting
	l.setLight(96, nil)
	l.setLights(Vec3f{Y: 1}, Vec3f{-8, -2, 9}, Vec3f{X: 0.37}, 0, lights)
	whole := append([]rgbLight(nil), l.lightRun(th, 40)...)

	l.setLights(Vec3f{Y: 1}, Vec3f{-8, -2, 9}, Vec3f{X: 0.37}, 17, lights)
	tail := l.lightRun(th, 23)
	for i, v := range tail {
		if v != whole[17+i] {
			t.Fatalf("pixel %d = %v, want %v", 17+i, v, whole[17+i])
		}
	}
}

func TestLightAt(t *testing.T) {
	tests := []struct {
		level int
		depth float64
		want  int
	}{
		{200, 0, 248},
		{255, 0, blend.FullBright},
		{200, 400, 148},
		{40, 10000, minLight},
	}
	for _, tc := range tests {
		if got := LightAt(tc.level, tc.depth); got != tc.want {
			t.Errorf("LightAt(%d, %v) = %d, want %d", tc.level, tc.depth, got, tc.want)
		}
	}
}
