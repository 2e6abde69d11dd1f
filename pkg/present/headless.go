package present

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrClosed is returned when presenting to a closed surface.
var ErrClosed = errors.New("surface closed")

// Headless is a Backend without a display. Its surfaces keep a copy of the
// last presented frame, for captures and tests.
type Headless struct {
	// Windowed and Full restrict the sizes Open accepts; nil accepts any.
	Windowed []Mode
	Full     []Mode
}

// Modes implements Backend.
func (h *Headless) Modes(fullscreen bool) []Mode {
	if fullscreen {
		return h.Full
	}
	return h.Windowed
}

// Open implements Backend.
func (h *Headless) Open(width, height int, fullscreen bool) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrModeUnsupported, width, height)
	}
	if modes := h.Modes(fullscreen); modes != nil && !HasMode(modes, width, height) {
		return nil, fmt.Errorf("%w: %dx%d fullscreen=%v", ErrModeUnsupported, width, height, fullscreen)
	}
	return &HeadlessSurface{
		width:      width,
		height:     height,
		fullscreen: fullscreen,
		last:       image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// HeadlessSurface is a Surface that stores frames in memory.
type HeadlessSurface struct {
	width, height int
	fullscreen    bool
	last          *image.RGBA
	frames        int
	closed        bool
}

// Size implements Surface.
func (s *HeadlessSurface) Size() (int, int) { return s.width, s.height }

// Fullscreen implements Surface.
func (s *HeadlessSurface) Fullscreen() bool { return s.fullscreen }

// SetFullscreen implements Surface.
func (s *HeadlessSurface) SetFullscreen(fullscreen bool) error {
	s.fullscreen = fullscreen
	return nil
}

// Present implements Surface.
func (s *HeadlessSurface) Present(img *image.RGBA) error {
	if s.closed {
		return ErrClosed
	}
	draw.Draw(s.last, s.last.Rect, img, img.Rect.Min, draw.Src)
	s.frames++
	return nil
}

// Close implements Surface.
func (s *HeadlessSurface) Close() error {
	s.closed = true
	return nil
}

// Last returns the last presented frame.
func (s *HeadlessSurface) Last() *image.RGBA { return s.last }

// Frames returns the number of frames presented.
func (s *HeadlessSurface) Frames() int { return s.frames }

// Closed reports whether Close was called.
func (s *HeadlessSurface) Closed() bool { return s.closed }
