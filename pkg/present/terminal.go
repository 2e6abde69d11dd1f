package present

import (
	"fmt"
	"image"

	uv "github.com/charmbracelet/ultraviolet"
)

// Terminal is a Backend drawing to a started ultraviolet terminal with half
// block cells. Fullscreen is the alternate screen. Any canvas size can be
// opened; frames are scaled to the terminal.
type Terminal struct {
	term *uv.Terminal
}

// NewTerminal returns a backend for term, which the caller starts and
// shuts down.
func NewTerminal(term *uv.Terminal) *Terminal {
	return &Terminal{term: term}
}

// NativeMode returns the canvas size that maps one pixel to each half cell.
func (t *Terminal) NativeMode() Mode {
	s := t.term.Size()
	w, h := PixelSize(s.Width, s.Height)
	return Mode{w, h}
}

// Modes implements Backend: the terminal's native size followed by the
// window modes.
func (t *Terminal) Modes(bool) []Mode {
	modes := []Mode{t.NativeMode()}
	for _, m := range WinModes {
		if m != modes[0] {
			modes = append(modes, m)
		}
	}
	return modes
}

// Open implements Backend.
func (t *Terminal) Open(width, height int, fullscreen bool) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrModeUnsupported, width, height)
	}
	s := &terminalSurface{term: t.term, width: width, height: height}
	if err := s.SetFullscreen(fullscreen); err != nil {
		return nil, err
	}
	t.term.HideCursor()
	return s, nil
}

type terminalSurface struct {
	term          *uv.Terminal
	width, height int
	fullscreen    bool
	blocks        HalfBlocks
}

func (s *terminalSurface) Size() (int, int) { return s.width, s.height }

func (s *terminalSurface) Fullscreen() bool { return s.fullscreen }

func (s *terminalSurface) SetFullscreen(fullscreen bool) error {
	if fullscreen {
		s.term.EnterAltScreen()
	} else {
		s.term.ExitAltScreen()
	}
	s.fullscreen = fullscreen
	return nil
}

// SetOverlay sets the text drawn over the first row of the next frames.
func (s *terminalSurface) SetOverlay(text string) { s.blocks.Overlay = text }

func (s *terminalSurface) Present(img *image.RGBA) error {
	s.blocks.Image = img
	s.term.Draw(&s.blocks)
	if err := s.term.Display(); err != nil {
		return fmt.Errorf("display terminal: %w", err)
	}
	return nil
}

func (s *terminalSurface) Close() error {
	s.term.ShowCursor()
	if s.fullscreen {
		s.term.ExitAltScreen()
	}
	return nil
}

// Overlayer is implemented by surfaces that can draw a text line over the
// picture.
type Overlayer interface {
	SetOverlay(text string)
}
