// Package viewer runs an interactive walk through a map: input handling,
// smoothed movement with collision, the automap, display setting changes
// and the frame loop that renders and presents each frame.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/world"
)

// ErrQuit is returned by HandleEvent when the user asks to quit.
var ErrQuit = errors.New("quit")

// DefaultFPS is the frame rate movement is tuned for.
const DefaultFPS = 35

// Movement impulses per key press.
const (
	moveImpulse = 4.0
	turnImpulse = 0.03
	lookImpulse = 0.02
)

// GammaSteps are the gamma values cycled by the g key.
var GammaSteps = []float64{1.0, 1.25, 1.5, 1.75, 2.0}

// Options configures a Session.
type Options struct {
	Map      *world.Map
	Start    world.Start
	Textures *texture.Set
	Settings present.Settings
	Render   render.Options
	// FPS is the frame rate; it also caps presentation when
	// Settings.MaxFPS is 0.
	FPS int
	// FitTerminal makes the canvas follow the terminal size on
	// uv.WindowSizeEvent.
	FitTerminal bool
	// Title is shown in the HUD.
	Title string
	// OnFrame, when set, is called after every presented frame.
	OnFrame func(render.Stats, present.Timing)
}

// Session is one viewer: a renderer, a framebuffer on a backend, and the
// viewpoint moving through the map.
type Session struct {
	opts     Options
	backend  present.Backend
	renderer *render.Renderer
	fb       *present.Framebuffer

	view    render.Viewpoint
	motion  *Motion
	fader   *present.FlashFader
	automap render.Automap
	hud     *HUD

	showMap  bool
	showHUD  bool
	gammaIdx int
	tick     int
	last     render.Stats
}

// New opens a session on b.
func New(b present.Backend, opts Options) (*Session, error) {
	if opts.Map == nil {
		return nil, errors.New("viewer: no map")
	}
	if opts.Textures == nil {
		opts.Textures = texture.NewSet()
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Settings.MaxFPS <= 0 {
		opts.Settings.MaxFPS = opts.FPS
	}
	if opts.Title == "" {
		opts.Title = "sector"
	}

	r := render.NewRenderer(opts.Render)
	fb, err := present.CreateFramebuffer(b, opts.Settings, r.Palette(), nil)
	if err != nil {
		r.Close()
		return nil, err
	}
	s := &Session{
		opts:     opts,
		backend:  b,
		renderer: r,
		fb:       fb,
		motion:   NewMotion(opts.FPS),
		fader:    present.NewFlashFader(opts.FPS),
		automap:  render.Automap{Scale: 0.25, ShowThings: true},
		hud:      NewHUD(opts.Title),
	}
	s.gammaIdx = closestGamma(fb.Color.Gamma())
	s.Reset()
	return s, nil
}

func closestGamma(g float64) int {
	best := 0
	for i, step := range GammaSteps {
		if abs(step-g) < abs(GammaSteps[best]-g) {
			best = i
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Reset returns the viewpoint to the map's start.
func (s *Session) Reset() {
	st := s.opts.Start
	s.view = render.Viewpoint{Pos: st.Pos, Yaw: st.Yaw, Sector: st.Sector}
	if s.view.Sector == world.NoSector {
		s.view.Sector = s.opts.Map.SectorAt(st.Pos.XY())
	}
	s.motion.Stop()
}

// View returns the current viewpoint.
func (s *Session) View() render.Viewpoint { return s.view }

// Framebuffer returns the current framebuffer. It changes when the display
// settings do.
func (s *Session) Framebuffer() *present.Framebuffer { return s.fb }

// ShowingMap reports whether the automap replaces the view.
func (s *Session) ShowingMap() bool { return s.showMap }

// LastStats returns the stats of the last rendered frame.
func (s *Session) LastStats() render.Stats { return s.last }

// HandleEvent applies one input event. It returns ErrQuit when the user
// quits, or an error when the display could not be reconfigured.
func (s *Session) HandleEvent(ev uv.Event) error {
	if s.fb == nil {
		return present.ErrNoFramebuffer
	}
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if s.opts.FitTerminal {
			w, h := present.PixelSize(ev.Width, ev.Height)
			return s.SetMode(w, h, s.fb.Settings().Fullscreen, s.fb.Settings().Format)
		}
	case uv.KeyPressEvent:
		return s.handleKey(ev)
	}
	return nil
}

func (s *Session) handleKey(ev uv.KeyPressEvent) error {
	set := s.fb.Settings()
	switch {
	case ev.MatchString("esc", "ctrl+c", "q"):
		return ErrQuit
	case ev.MatchString("w", "up"):
		s.motion.Forward.Push(moveImpulse)
	case ev.MatchString("s", "down"):
		s.motion.Forward.Push(-moveImpulse)
	case ev.MatchString("a"):
		s.motion.Strafe.Push(-moveImpulse)
	case ev.MatchString("d"):
		s.motion.Strafe.Push(moveImpulse)
	case ev.MatchString("left"):
		s.motion.Turn.Push(turnImpulse)
	case ev.MatchString("right"):
		s.motion.Turn.Push(-turnImpulse)
	case ev.MatchString("pgup", "e"):
		s.motion.Look.Push(lookImpulse)
	case ev.MatchString("pgdown", "c"):
		s.motion.Look.Push(-lookImpulse)
	case ev.MatchString("home"):
		s.view.Pitch = 0
		s.motion.Look.Stop()
	case ev.MatchString("r"):
		s.Reset()
	case ev.MatchString("tab"):
		s.showMap = !s.showMap
	case ev.MatchString("]"):
		s.automap.Scale = min(s.automap.Scale*1.25, 4)
	case ev.MatchString("["):
		s.automap.Scale = max(s.automap.Scale/1.25, 0.02)
	case ev.MatchString("g"):
		s.gammaIdx = (s.gammaIdx + 1) % len(GammaSteps)
		s.fb.Color.SetGamma(GammaSteps[s.gammaIdx])
	case ev.MatchString("space"):
		s.fader.Hit(blend.RGB(255, 32, 32), 160)
	case ev.MatchString("?", "shift+/"):
		s.showHUD = !s.showHUD
		if !s.showHUD {
			s.setOverlay("")
		}
	case ev.MatchString("f"):
		return s.SetMode(set.Width, set.Height, !set.Fullscreen, set.Format)
	case ev.MatchString("p"):
		format := render.Paletted8
		if set.Format == render.Paletted8 {
			format = render.TrueColor32
		}
		return s.SetMode(set.Width, set.Height, set.Fullscreen, format)
	case ev.Text == "+" || ev.MatchString("="):
		return s.cycleMode(1)
	case ev.MatchString("-", "_"):
		return s.cycleMode(-1)
	}
	return nil
}

// cycleMode switches to the next larger (dir > 0) or smaller supported
// resolution.
func (s *Session) cycleMode(dir int) error {
	set := s.fb.Settings()
	modes := slices.Clone(s.fb.Modes())
	slices.SortFunc(modes, func(a, b present.Mode) int {
		return a.Width*a.Height - b.Width*b.Height
	})
	modes = slices.Compact(modes)
	if len(modes) == 0 {
		return nil
	}
	i := slices.Index(modes, present.Mode{Width: set.Width, Height: set.Height})
	switch {
	case i < 0:
		m, _ := present.ClosestResolution(modes, set.Width, set.Height)
		i = slices.Index(modes, m)
	default:
		i = max(0, min(i+dir, len(modes)-1))
	}
	m := modes[i]
	if m.Width == set.Width && m.Height == set.Height {
		return nil
	}
	return s.SetMode(m.Width, m.Height, set.Fullscreen, set.Format)
}

// SetMode recreates the framebuffer with a new size, fullscreen state or
// pixel format. Gamma and flash carry over. On failure the old framebuffer
// is already closed and the session has none left.
func (s *Session) SetMode(width, height int, fullscreen bool, format render.Format) error {
	if s.fb == nil {
		return present.ErrNoFramebuffer
	}
	set := s.fb.Settings()
	set.Width, set.Height, set.Fullscreen, set.Format = width, height, fullscreen, format
	set.Gamma = s.fb.Color.Gamma()
	fb, err := present.CreateFramebuffer(s.backend, set, s.renderer.Palette(), s.fb)
	if err != nil {
		s.fb = nil
		return fmt.Errorf("viewer: set mode %dx%d: %w", width, height, err)
	}
	s.fb = fb
	return nil
}

func (s *Session) setOverlay(text string) {
	if o, ok := s.fb.Surface().(present.Overlayer); ok {
		o.SetOverlay(text)
	}
}

// Step advances the world by one frame, renders it and presents it.
func (s *Session) Step(ctx context.Context) error {
	if s.fb == nil {
		return present.ErrNoFramebuffer
	}
	m := s.opts.Map
	s.motion.Step(m, &s.view)
	s.fader.Step(s.fb.Color)

	c := s.fb.Canvas
	if s.showMap {
		c.Clear(0, 0)
		s.automap.Draw(c, s.renderer.Palette(), m, s.view)
		s.last = render.Stats{Workers: s.renderer.Workers()}
	} else {
		f := render.Frame{View: s.view, Map: m, Textures: s.opts.Textures, Tick: s.tick}
		s.last = s.renderer.RenderFrame(&f, c)
	}

	s.hud.UpdateFPS()
	if s.showHUD {
		s.setOverlay(s.hud.Line(s.last, s.fb.Timing(), s.fb.Settings(), s.fb.Color.Gamma(), s.view))
	}
	if err := s.fb.Present(ctx); err != nil {
		return err
	}
	s.tick++
	if s.opts.OnFrame != nil {
		s.opts.OnFrame(s.last, s.fb.Timing())
	}
	return nil
}

// Run steps frames until ctx is done, events is closed or the user quits,
// applying pending events before each frame.
func (s *Session) Run(ctx context.Context, events <-chan uv.Event) error {
	for {
		for pending := true; pending; {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if err := s.HandleEvent(ev); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			default:
				pending = false
			}
		}
		if err := s.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close stops the renderer and closes the framebuffer.
func (s *Session) Close() error {
	s.renderer.Close()
	if s.fb == nil {
		return nil
	}
	fb := s.fb
	s.fb = nil
	return fb.Close()
}
