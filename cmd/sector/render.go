package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/taigrr/sector/pkg/config"
	"github.com/taigrr/sector/pkg/math3d"
	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/world"
)

type renderOpts struct {
	out     string
	frames  int
	turn    float64 // degrees per frame
	yaw     float64 // degrees, NaN keeps the start yaw
	pos     []float64
	automap bool
	stats   bool
}

func (a *app) renderCmd() *cobra.Command {
	var o renderOpts
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames headlessly to PNG or WebP",
		Long: `Render draws frames without a display and writes them to --out.
A .webp output with --frames above 1 is written as one animated WebP;
other multi-frame outputs are numbered files (frame-000.png, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("yaw") {
				o.yaw = math.NaN()
			}
			return a.render(cmd.Context(), cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "frame.png", "output file (.png or .webp)")
	f.IntVarP(&o.frames, "frames", "n", 1, "number of frames")
	f.Float64Var(&o.turn, "turn", 3, "degrees to turn left between frames")
	f.Float64Var(&o.yaw, "yaw", 0, "view direction in degrees (default: the map start)")
	f.Float64SliceVar(&o.pos, "pos", nil, "eye position x,y (default: the map start)")
	f.BoolVar(&o.automap, "automap", false, "draw the automap instead of the view")
	f.BoolVar(&o.stats, "stats", false, "log per-frame render stats")
	return cmd
}

func numbered(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

func (a *app) render(ctx context.Context, cmd *cobra.Command, o renderOpts) error {
	if o.frames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}
	if len(o.pos) != 0 && len(o.pos) != 2 {
		return fmt.Errorf("--pos wants x,y")
	}
	m, start, set, err := loadWorld(ctx, a.cfg)
	if err != nil {
		return err
	}

	r := render.NewRenderer(a.cfg.RenderOptions())
	defer r.Close()
	settings := a.cfg.Settings()
	settings.MaxFPS = 0
	fb, err := present.CreateFramebuffer(&present.Headless{}, settings, r.Palette(), nil)
	if err != nil {
		return err
	}
	defer fb.Close()

	view := render.Viewpoint{Pos: start.Pos, Yaw: start.Yaw, Sector: start.Sector}
	if len(o.pos) == 2 {
		view.Pos.X, view.Pos.Y = o.pos[0], o.pos[1]
		view.Sector = m.SectorAt(math3d.V2(o.pos[0], o.pos[1]))
		if view.Sector >= 0 {
			view.Pos.Z = m.Sectors[view.Sector].FloorZ + world.EyeHeight
		}
	}
	if !math.IsNaN(o.yaw) {
		view.Yaw = o.yaw * math.Pi / 180
	}

	animate := o.frames > 1 && strings.EqualFold(filepath.Ext(o.out), ".webp")
	var rec *present.Recorder
	if animate {
		rec = present.NewRecorder(config.DefaultFPS)
	}
	automap := render.Automap{Scale: 0.25, ShowThings: true}
	log := render.Logger()

	began := time.Now()
	var renderTime time.Duration
	var spans int
	for i := range o.frames {
		if o.automap {
			fb.Canvas.Clear(0, 0)
			automap.Draw(fb.Canvas, r.Palette(), m, view)
		} else {
			stats := r.RenderFrame(&render.Frame{View: view, Map: m, Textures: set, Tick: i}, fb.Canvas)
			renderTime += stats.Frame
			spans += stats.Spans
			if o.stats {
				log.Info("render: frame", "n", i, "stats", stats.String())
			}
		}
		if err := fb.Present(ctx); err != nil {
			return err
		}

		switch {
		case animate:
			rec.Add(fb.Image())
		case o.frames == 1:
			if err := present.SaveImage(o.out, fb.Image()); err != nil {
				return err
			}
		default:
			if err := present.SaveImage(numbered(o.out, i), fb.Image()); err != nil {
				return err
			}
		}
		view.Rotate(0, o.turn*math.Pi/180)
	}
	if animate {
		if err := rec.Save(o.out); err != nil {
			return err
		}
	}

	size := ""
	if fi, err := os.Stat(o.out); err == nil {
		size = ", " + humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s frame(s) at %dx%d %s in %s (render %s, %s spans)%s -> %s\n",
		humanize.Comma(int64(o.frames)), settings.Width, settings.Height, settings.Format,
		time.Since(began).Round(time.Millisecond), renderTime.Round(time.Microsecond),
		humanize.Comma(int64(spans)), size, o.out)
	return nil
}
