package render

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/taigrr/sector/pkg/blend"
)

// ColumnRange is a half-open range of screen columns [X0, X1).
type ColumnRange struct {
	X0, X1 int
}

// Empty reports whether the range has no columns.
func (r ColumnRange) Empty() bool { return r.X1 <= r.X0 }

// Width returns the number of columns.
func (r ColumnRange) Width() int { return max(0, r.X1-r.X0) }

// Contains reports whether column x lies in the range.
func (r ColumnRange) Contains(x int) bool { return x >= r.X0 && x < r.X1 }

// SplitColumns splits [0, width) into n contiguous, disjoint ranges that
// cover every column. Earlier ranges get the extra columns; when width < n
// the trailing ranges are empty.
func SplitColumns(width, n int) []ColumnRange {
	n = max(1, n)
	width = max(0, width)
	out := make([]ColumnRange, n)
	base, extra := width/n, width%n
	x := 0
	for i := range out {
		w := base
		if i < extra {
			w++
		}
		out[i] = ColumnRange{x, x + w}
		x += w
	}
	return out
}

// WorkerPool is a fixed set of render workers, each with its own queue and
// its own Thread. Work is never stolen: worker i always runs with thread i,
// so a thread's scratch state is touched by one goroutine at a time.
//
// Thread safety: Run must not be called concurrently with itself or Close.
type WorkerPool struct {
	workers int
	threads []*Thread
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool. If workers is 0 or negative, GOMAXPROCS is
// used.
func NewWorkerPool(workers int, pal *blend.Palette) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		threads: make([]*Thread, workers),
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.threads[i] = NewThread(i, pal)
		p.queues[i] = make(chan func(), 1)
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	Logger().Debug("render: worker pool started", "workers", workers)
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	queue := p.queues[id]
	for {
		select {
		case <-p.done:
			return
		case work := <-queue:
			work()
		}
	}
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }

// Thread returns the thread owned by worker i.
func (p *WorkerPool) Thread(i int) *Thread { return p.threads[i] }

// Run calls fn once on every worker with that worker's thread and waits for
// all of them. It is a no-op after Close.
func (p *WorkerPool) Run(fn func(th *Thread)) {
	if !p.running.Load() {
		return
	}
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i, th := range p.threads {
		p.queues[i] <- func() {
			defer wg.Done()
			fn(th)
		}
	}
	wg.Wait()
}

// SetPalette replaces the palette every thread converts colors with. It must
// not be called while Run is in progress.
func (p *WorkerPool) SetPalette(pal *blend.Palette) {
	for _, th := range p.threads {
		th.palette = pal
	}
}

// Close stops the workers and waits for them to exit.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
	Logger().Debug("render: worker pool stopped", "workers", p.workers)
}
