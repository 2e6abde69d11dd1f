package render

import (
	"cmp"
	"slices"
	"time"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/world"
)

// Options configures a Renderer.
type Options struct {
	// Workers is the number of render workers; 0 means GOMAXPROCS.
	Workers int
	// FOV is the horizontal field of view in degrees; 0 means 90.
	FOV float64
	// Palette converts texture indices to colors; nil means the default
	// palette.
	Palette *blend.Palette
}

// Frame is everything one frame is rendered from. It is read-only while
// RenderFrame runs.
type Frame struct {
	View     Viewpoint
	Map      *world.Map
	Textures *texture.Set
	Tick     int
}

// frameState is the shared, read-only state of a frame in progress.
type frameState struct {
	view   frameView
	m      *world.Map
	set    *texture.Set
	canvas *Canvas
	tick   int
	lights []DrawerLight
	items  []maskedItem
}

// Renderer draws frames with a fixed worker pool. A frame runs in two
// passes: every worker first draws the walls and planes of its own column
// range; then, once the sectors seen by all workers are known, every worker
// draws the same far-to-near list of masked walls, sprites and particles
// clipped to its range. Each pixel has exactly one writer, and the output
// is identical for any number of workers.
type Renderer struct {
	opts    Options
	palette *blend.Palette
	pool    *WorkerPool

	visited []bool
	masked  []bool
	items   []maskedItem
	lights  []DrawerLight
	empty   *texture.Set
}

// NewRenderer starts a renderer and its workers. Call Close to stop them.
func NewRenderer(opts Options) *Renderer {
	if opts.FOV <= 0 {
		opts.FOV = 90
	}
	if opts.Palette == nil {
		opts.Palette = blend.DefaultPalette()
	}
	r := &Renderer{
		opts:    opts,
		palette: opts.Palette,
		pool:    NewWorkerPool(opts.Workers, opts.Palette),
		empty:   texture.NewSet(),
	}
	Logger().Info("render: renderer created", "workers", r.pool.Workers(), "fov", opts.FOV)
	return r
}

// Workers returns the number of workers.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// Palette returns the current palette.
func (r *Renderer) Palette() *blend.Palette { return r.palette }

// SetPalette replaces the palette. It must not be called during
// RenderFrame.
func (r *Renderer) SetPalette(p *blend.Palette) {
	r.palette = p
	r.pool.SetPalette(p)
	Logger().Info("render: palette changed")
}

// Viewport returns the projection used for a canvas.
func (r *Renderer) Viewport(c *Canvas) Viewport {
	return Viewport{Width: c.Width, Height: c.Height, FOV: r.opts.FOV}
}

// Close stops the workers.
func (r *Renderer) Close() {
	r.pool.Close()
}

// RenderFrame draws f into c and reports where the time went. A viewpoint
// outside every sector leaves the canvas cleared.
func (r *Renderer) RenderFrame(f *Frame, c *Canvas) Stats {
	start := time.Now()
	stats := Stats{Workers: r.pool.Workers()}
	m := f.Map
	view := f.View
	if view.Sector < 0 || view.Sector >= len(m.Sectors) || !m.Contains(view.Sector, view.Pos.XY()) {
		view.Sector = m.SectorAt(view.Pos.XY())
	}
	if view.Sector == world.NoSector {
		Logger().Warn("render: viewpoint outside every sector", "x", view.Pos.X, "y", view.Pos.Y)
		c.Clear(0, 0)
		stats.Frame = time.Since(start)
		return stats
	}

	fs := &frameState{
		view:   newFrameView(r.Viewport(c), view),
		m:      m,
		set:    f.Textures,
		canvas: c,
		tick:   f.Tick,
	}
	if fs.set == nil {
		fs.set = r.empty
	}
	fs.lights = r.viewLights(fs)
	ranges := SplitColumns(c.Width, r.pool.Workers())
	Logger().Debug("render: frame", "tick", f.Tick, "width", c.Width, "height", c.Height, "ranges", len(ranges))
	stats.Setup = time.Since(start)

	r.pool.Run(func(th *Thread) {
		th.beginFrame(ranges[th.Index], c.Width, c.Height, len(m.Sectors))
		th.clearColumns(c)
		th.renderWorld(fs)
	})

	fs.items = r.collectMasked(fs)
	for _, it := range fs.items {
		switch it.kind {
		case maskedWall:
			stats.MaskedWalls++
		case maskedSprite:
			stats.Sprites++
		case maskedParticle:
			stats.Particles++
		}
	}

	r.pool.Run(func(th *Thread) {
		th.drawMasked(fs)
	})

	for i := range r.pool.Workers() {
		stats.add(&r.pool.Thread(i).stats)
	}
	stats.Frame = time.Since(start)
	return stats
}

// viewLights converts the map's lights to view space. Ambient lights apply
// to the whole frame when the eye is inside their radius.
func (r *Renderer) viewLights(fs *frameState) []DrawerLight {
	r.lights = r.lights[:0]
	for _, l := range fs.m.Lights {
		if l.Ambient && l.Pos.Distance(fs.view.Pos) > l.Radius {
			continue
		}
		r.lights = append(r.lights, DrawerLight{
			Pos:     fs.view.toViewSpace(l.Pos),
			Radius:  float32(l.Radius),
			R:       float32(l.Color.R()),
			G:       float32(l.Color.G()),
			B:       float32(l.Color.B()),
			Ambient: l.Ambient,
		})
	}
	return r.lights
}

// collectMasked builds the frame's masked list from what the first pass
// saw: masked walls drawn by any worker, and things and particles in any
// visited sector, sorted far to near.
func (r *Renderer) collectMasked(fs *frameState) []maskedItem {
	m := fs.m
	r.visited = resetBools(r.visited, len(m.Sectors))
	r.masked = resetBools(r.masked, len(m.Walls))
	for i := range r.pool.Workers() {
		th := r.pool.Thread(i)
		for s, v := range th.visited {
			r.visited[s] = r.visited[s] || v
		}
		for _, wi := range th.masked {
			r.masked[wi] = true
		}
	}

	items := r.items[:0]
	fv := &fs.view
	for wi, ok := range r.masked {
		if !ok {
			continue
		}
		w := &m.Walls[wi]
		_, d1 := fv.toView(w.V1)
		_, d2 := fv.toView(w.V2)
		items = append(items, maskedItem{kind: maskedWall, index: wi, sector: world.NoSector, depth: (d1 + d2) / 2})
	}
	for i := range m.Things {
		t := &m.Things[i]
		sector := t.Sector
		if sector < 0 || sector >= len(m.Sectors) {
			sector = m.SectorAt(t.Pos.XY())
		}
		if sector == world.NoSector || !r.visited[sector] {
			continue
		}
		if _, d := fv.toView(t.Pos.XY()); d >= Near {
			items = append(items, maskedItem{kind: maskedSprite, index: i, sector: sector, depth: d})
		}
	}
	for i := range m.Particles {
		p := &m.Particles[i]
		sector := p.Sector
		if sector < 0 || sector >= len(m.Sectors) {
			sector = m.SectorAt(p.Pos.XY())
		}
		if sector == world.NoSector || !r.visited[sector] {
			continue
		}
		if _, d := fv.toView(p.Pos.XY()); d >= Near {
			items = append(items, maskedItem{kind: maskedParticle, index: i, sector: sector, depth: d})
		}
	}
	slices.SortFunc(items, func(a, b maskedItem) int {
		if c := cmp.Compare(b.depth, a.depth); c != 0 {
			return c
		}
		if c := cmp.Compare(a.kind, b.kind); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	r.items = items
	return items
}

func resetBools(s []bool, n int) []bool {
	if cap(s) < n {
		return make([]bool, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// clearColumns blanks this thread's columns so gaps never show a previous
// frame.
func (th *Thread) clearColumns(c *Canvas) {
	if th.Range.Empty() {
		return
	}
	for y := range c.Height {
		i := c.Index(th.Range.X0, y)
		n := th.Range.Width()
		if c.Format == Paletted8 {
			clear(c.Pix8[i : i+n])
		} else {
			row := c.Pix32[i : i+n]
			for x := range row {
				row[x] = 0xff000000
			}
		}
	}
}
