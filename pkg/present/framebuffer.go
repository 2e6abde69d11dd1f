package present

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/render"
)

var (
	// ErrNoFramebuffer is returned when no framebuffer could be created at
	// the requested size or any fallback.
	ErrNoFramebuffer = errors.New("could not create framebuffer")
	// ErrModeUnsupported is returned by a Backend that cannot open a mode.
	ErrModeUnsupported = errors.New("display mode not supported")
)

// Surface is an open output: a window, a terminal or an ssh session.
type Surface interface {
	// Size returns the size in pixels of the image Present expects.
	Size() (width, height int)
	Fullscreen() bool
	SetFullscreen(fullscreen bool) error
	// Present shows img, scaling it to the surface if needed.
	Present(img *image.RGBA) error
	Close() error
}

// Backend opens surfaces.
type Backend interface {
	// Modes lists the supported sizes for windowed or fullscreen output.
	Modes(fullscreen bool) []Mode
	// Open returns a surface of the given size, or an error wrapping
	// ErrModeUnsupported.
	Open(width, height int, fullscreen bool) (Surface, error)
}

// Settings configures a framebuffer.
type Settings struct {
	Width      int
	Height     int
	Fullscreen bool
	Format     render.Format
	// Gamma is the master gamma; RGamma, GGamma and BGamma multiply it per
	// channel when non-zero.
	Gamma, RGamma, GGamma, BGamma float64
	// MaxFPS caps the presentation rate; 0 means no cap.
	MaxFPS int
}

// Framebuffer couples a canvas with the surface it is presented on.
type Framebuffer struct {
	Canvas *render.Canvas
	Color  *ColorState

	surface  Surface
	settings Settings
	backend  Backend
	frame    *image.RGBA
	limiter  *Limiter
	timing   Timing
}

// Surface returns the surface the framebuffer presents to.
func (fb *Framebuffer) Surface() Surface { return fb.surface }

// Settings returns the settings the framebuffer was created with, with the
// size and fullscreen flag it actually got.
func (fb *Framebuffer) Settings() Settings { return fb.settings }

// Timing returns the duration of the last Present.
func (fb *Framebuffer) Timing() Timing { return fb.timing }

// Image returns the last composited frame.
func (fb *Framebuffer) Image() *image.RGBA { return fb.frame }

type attempt struct {
	width, height int
	fullscreen    bool
	reason        string
}

// CreateFramebuffer opens a framebuffer on b. When old already has the
// requested size it is reused, with only its fullscreen state changed.
// Otherwise old is closed and the requested mode is tried, then the closest
// supported resolution, then the original size with fullscreen toggled,
// then the closest resolution with fullscreen toggled. The flash of old
// carries over to the new framebuffer.
func CreateFramebuffer(b Backend, s Settings, pal *blend.Palette, old *Framebuffer) (*Framebuffer, error) {
	log := render.Logger()
	if old != nil {
		if old.settings.Width == s.Width && old.settings.Height == s.Height && old.settings.Format == s.Format {
			if old.surface.Fullscreen() != s.Fullscreen {
				if err := old.surface.SetFullscreen(s.Fullscreen); err != nil {
					log.Warn("present: fullscreen toggle failed", "error", err)
				} else {
					old.settings.Fullscreen = s.Fullscreen
				}
			}
			return old, nil
		}
	}

	var flash blend.Color
	var flashAmount int
	if old != nil {
		flash, flashAmount = old.Color.Flash()
		if err := old.Close(); err != nil {
			log.Warn("present: closing old framebuffer", "error", err)
		}
	}

	attempts := []attempt{{s.Width, s.Height, s.Fullscreen, "requested"}}
	if m, ok := ClosestResolution(b.Modes(s.Fullscreen), s.Width, s.Height); ok {
		attempts = append(attempts, attempt{m.Width, m.Height, s.Fullscreen, "closest resolution"})
	}
	attempts = append(attempts, attempt{s.Width, s.Height, !s.Fullscreen, "fullscreen toggled"})
	if m, ok := ClosestResolution(b.Modes(!s.Fullscreen), s.Width, s.Height); ok {
		attempts = append(attempts, attempt{m.Width, m.Height, !s.Fullscreen, "closest resolution, fullscreen toggled"})
	}

	var lastErr error
	for i, a := range attempts {
		surf, err := b.Open(a.width, a.height, a.fullscreen)
		if err != nil {
			log.Warn("present: framebuffer attempt failed",
				"attempt", i+1, "reason", a.reason, "width", a.width, "height", a.height,
				"fullscreen", a.fullscreen, "error", err)
			lastErr = err
			continue
		}
		got := s
		got.Width, got.Height, got.Fullscreen = a.width, a.height, a.fullscreen
		fb := newFramebuffer(b, surf, got, pal)
		fb.Color.SetFlash(flash, flashAmount)
		fb.Color.Update()
		log.Info("present: framebuffer created", "width", a.width, "height", a.height,
			"fullscreen", a.fullscreen, "format", s.Format)
		return fb, nil
	}
	return nil, fmt.Errorf("%w (%d x %d): %w", ErrNoFramebuffer, s.Width, s.Height, lastErr)
}

func newFramebuffer(b Backend, surf Surface, s Settings, pal *blend.Palette) *Framebuffer {
	return &Framebuffer{
		Canvas:   render.NewCanvas(s.Width, s.Height, s.Format),
		Color:    NewColorState(pal, s.Gamma, s.RGamma, s.GGamma, s.BGamma),
		surface:  surf,
		settings: s,
		backend:  b,
		frame:    image.NewRGBA(image.Rect(0, 0, s.Width, s.Height)),
		limiter:  NewLimiter(s.MaxFPS),
	}
}

// Present composites the canvas and shows it. Gamma and flash changes made
// since the last frame are applied afterwards, so they show from the next
// frame on. With a frame rate cap Present waits for the next slot first.
func (fb *Framebuffer) Present(ctx context.Context) error {
	if err := fb.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	fb.Color.Composite(fb.Canvas, fb.frame)
	flipStart := time.Now()
	err := fb.surface.Present(fb.frame)
	fb.timing.Flip = time.Since(flipStart)
	fb.timing.Blit = time.Since(start)
	if err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	fb.Color.Update()
	return nil
}

// Close closes the surface.
func (fb *Framebuffer) Close() error {
	return fb.surface.Close()
}

// Modes lists the sizes the backend supports in the current screen mode.
func (fb *Framebuffer) Modes() []Mode {
	return fb.backend.Modes(fb.settings.Fullscreen)
}
