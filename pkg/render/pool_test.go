package render

import (
	"sync/atomic"
	"testing"

	"github.com/taigrr/sector/pkg/blend"
)

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		name  string
		width int
		n     int
		want  []ColumnRange
	}{
		{"even", 8, 2, []ColumnRange{{0, 4}, {4, 8}}},
		{"remainder first", 10, 3, []ColumnRange{{0, 4}, {4, 7}, {7, 10}}},
		{"single", 5, 1, []ColumnRange{{0, 5}}},
		{"more workers than columns", 2, 4, []ColumnRange{{0, 1}, {1, 2}, {2, 2}, {2, 2}}},
		{"zero workers", 3, 0, []ColumnRange{{0, 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitColumns(tc.width, tc.n)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d ranges, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestSplitColumnsCoversDisjoint(t *testing.T) {
	for width := range 50 {
		for n := 1; n <= 9; n++ {
			owners := make([]int, width)
			for _, r := range SplitColumns(width, n) {
				for x := r.X0; x < r.X1; x++ {
					owners[x]++
				}
			}
			for x, o := range owners {
				if o != 1 {
					t.Fatalf("width %d, %d workers: column %d has %d owners", width, n, x, o)
				}
			}
		}
	}
}

func TestWorkerPoolRun(t *testing.T) {
	pool := NewWorkerPool(4, blend.DefaultPalette())
	defer pool.Close()
	if pool.Workers() != 4 {
		t.Fatalf("Workers() = %d, want 4", pool.Workers())
	}

	var seen [4]atomic.Int32
	for range 10 {
		pool.Run(func(th *Thread) {
			seen[th.Index].Add(1)
		})
	}
	for i := range seen {
		if got := seen[i].Load(); got != 10 {
			t.Errorf("thread %d ran %d times, want 10", i, got)
		}
	}
}

func TestWorkerPoolThreadsAreStable(t *testing.T) {
	pool := NewWorkerPool(3, blend.DefaultPalette())
	defer pool.Close()
	var got [3]*Thread
	pool.Run(func(th *Thread) { got[th.Index] = th })
	for i := range got {
		if got[i] != pool.Thread(i) {
			t.Errorf("worker %d ran with a different thread", i)
		}
	}
}

func TestWorkerPoolClose(t *testing.T) {
	pool := NewWorkerPool(2, blend.DefaultPalette())
	pool.Close()
	pool.Close()

	var calls atomic.Int32
	pool.Run(func(*Thread) { calls.Add(1) })
	if calls.Load() != 0 {
		t.Error("Run after Close executed work")
	}
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	pool := NewWorkerPool(0, blend.DefaultPalette())
	defer pool.Close()
	if pool.Workers() < 1 {
		t.Errorf("Workers() = %d", pool.Workers())
	}
}

func BenchmarkWorkerPoolRun(b *testing.B) {
	pool := NewWorkerPool(4, blend.DefaultPalette())
	defer pool.Close()
	for b.Loop() {
		pool.Run(func(*Thread) {})
	}
}
