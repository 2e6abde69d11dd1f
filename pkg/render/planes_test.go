package render

import (
	"testing"

	"github.com/taigrr/sector/pkg/texture"
)

func newPlaneThread(width int) *Thread {
	th := NewThread(0, testPalette)
	th.beginFrame(ColumnRange{0, width}, width, 8, 1)
	return th
}

func TestFindPlane(t *testing.T) {
	th := newPlaneThread(10)
	flat := texture.NewCheckerFlat("F", 64, 8, 1, 2)

	pl := th.findPlane(0, flat, 100, false)
	if got := th.findPlane(0, flat, 100, false); got != pl {
		t.Error("same key returned a different plane")
	}
	for _, other := range []*visplane{
		th.findPlane(8, flat, 100, false),
		th.findPlane(0, flat, 120, false),
		th.findPlane(0, flat, 100, true),
	} {
		if other == pl {
			t.Error("different key returned the same plane")
		}
	}
	if len(th.planes) != 4 {
		t.Errorf("len(planes) = %d, want 4", len(th.planes))
	}
}

func TestCheckPlane(t *testing.T) {
	th := newPlaneThread(10)
	flat := texture.NewCheckerFlat("F", 64, 8, 1, 2)
	pl := th.findPlane(0, flat, 100, false)

	if got := th.checkPlane(pl, 2, 5); got != pl || pl.minx != 2 || pl.maxx != 5 {
		t.Fatalf("fresh plane not extended: got [%d, %d]", pl.minx, pl.maxx)
	}
	pl.mark(3, 1, 4)
	pl.mark(4, 6, 2) // empty, ignored

	if got := th.checkPlane(pl, 6, 8); got != pl || pl.maxx != 8 {
		t.Errorf("disjoint range should extend the plane, got [%d, %d]", pl.minx, pl.maxx)
	}
	if pl.top[4+1] != planeUnset {
		t.Error("empty mark set a column")
	}

	np := th.checkPlane(pl, 0, 4)
	if np == pl {
		t.Fatal("overlap with a marked column did not split the plane")
	}
	if np.minx != 0 || np.maxx != 4 || np.flat != flat || np.light != 100 {
		t.Errorf("split plane = %+v", np)
	}
	if np.top[3+1] != planeUnset {
		t.Error("split plane inherited marked columns")
	}
}

func TestBeginFrameRecyclesPlanes(t *testing.T) {
	th := newPlaneThread(10)
	flat := texture.NewCheckerFlat("F", 64, 8, 1, 2)
	for i := range 3 {
		th.findPlane(float64(i), flat, 100, false)
	}
	th.beginFrame(ColumnRange{2, 6}, 10, 8, 1)
	if len(th.planes) != 0 || len(th.planePool) != 3 {
		t.Fatalf("planes=%d pool=%d, want 0 and 3", len(th.planes), len(th.planePool))
	}
	pl := th.findPlane(0, flat, 100, false)
	if len(th.planePool) != 2 {
		t.Errorf("pool = %d after reuse, want 2", len(th.planePool))
	}
	for x := 2; x < 6; x++ {
		if pl.top[x+1] != planeUnset || pl.bottom[x+1] != -1 {
			t.Errorf("recycled plane column %d not reset", x)
		}
	}
}
