package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestVec2Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"clockwise turn", V2(1, 0), V2(0, -1), -1},
		{"counter-clockwise turn", V2(1, 0), V2(0, 1), 1},
		{"parallel", V2(2, 2), V2(1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !near(got, tt.want) {
				t.Errorf("Cross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec2Rotate(t *testing.T) {
	r := V2(1, 0).Rotate(math.Pi / 2)
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Errorf("Rotate(90°) = %+v, want (0, 1)", r)
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := V2(0, 0), V2(10, 0)
	tests := []struct {
		p    Vec2
		want float64
	}{
		{V2(5, 3), 3},
		{V2(-4, 3), 5},
		{V2(13, -4), 5},
	}
	for _, tt := range tests {
		if got := SegmentDistance(tt.p, a, b); !near(got, tt.want) {
			t.Errorf("SegmentDistance(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := SegmentDistance(V2(3, 4), a, a); !near(got, 5) {
		t.Errorf("degenerate segment distance = %v, want 5", got)
	}
}

func TestVec3(t *testing.T) {
	v := V3(3, 4, 12)
	if !near(v.Len(), 13) {
		t.Errorf("Len = %v, want 13", v.Len())
	}
	if n := v.Normalize(); !near(n.Len(), 1) {
		t.Errorf("Normalize length = %v", n.Len())
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
	m := V3(0, 0, 0).Lerp(V3(2, 4, 6), 0.5)
	if m != V3(1, 2, 3) {
		t.Errorf("Lerp = %+v", m)
	}
	if v.XY() != V2(3, 4) {
		t.Errorf("XY = %+v", v.XY())
	}
}

func BenchmarkVec2Rotate(b *testing.B) {
	v := V2(1, 2)
	for b.Loop() {
		_ = v.Rotate(0.5)
	}
}

func BenchmarkSegmentDistance(b *testing.B) {
	p, a, c := V2(5, 3), V2(0, 0), V2(10, 0)
	for b.Loop() {
		_ = SegmentDistance(p, a, c)
	}
}
