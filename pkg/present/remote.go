package present

import (
	"fmt"
	"image"
	"io"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Remote is a Backend drawing half block cells to a remote terminal, such
// as an ssh session, through its own cell buffer and diffing renderer.
type Remote struct {
	w   io.Writer
	env []string

	mu         sync.Mutex
	cols, rows int
}

// NewRemote returns a backend writing to w, a terminal of cols x rows
// cells described by env (TERM and friends).
func NewRemote(w io.Writer, env []string, cols, rows int) *Remote {
	return &Remote{w: w, env: env, cols: cols, rows: rows}
}

// Resize records a new terminal size. Open surfaces pick it up on their
// next Present.
func (r *Remote) Resize(cols, rows int) {
	r.mu.Lock()
	r.cols, r.rows = cols, rows
	r.mu.Unlock()
}

func (r *Remote) size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cols, r.rows
}

// Modes implements Backend.
func (r *Remote) Modes(bool) []Mode {
	w, h := PixelSize(r.size())
	modes := []Mode{{w, h}}
	for _, m := range WinModes {
		if m != modes[0] {
			modes = append(modes, m)
		}
	}
	return modes
}

// Open implements Backend.
func (r *Remote) Open(width, height int, fullscreen bool) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrModeUnsupported, width, height)
	}
	cols, rows := r.size()
	s := &remoteSurface{
		remote:   r,
		renderer: uv.NewTerminalRenderer(r.w, r.env),
		buf:      uv.NewScreenBuffer(cols, rows),
		width:    width,
		height:   height,
		cols:     cols,
		rows:     rows,
	}
	_, _ = s.renderer.WriteString(ansi.ResetModeTextCursorEnable)
	if err := s.SetFullscreen(fullscreen); err != nil {
		return nil, err
	}
	return s, nil
}

type remoteSurface struct {
	remote     *Remote
	renderer   *uv.TerminalRenderer
	buf        uv.ScreenBuffer
	blocks     HalfBlocks
	width      int
	height     int
	cols, rows int
	fullscreen bool
}

func (s *remoteSurface) Size() (int, int) { return s.width, s.height }

func (s *remoteSurface) Fullscreen() bool { return s.fullscreen }

func (s *remoteSurface) SetFullscreen(fullscreen bool) error {
	if fullscreen == s.fullscreen && s.renderer.Fullscreen() == fullscreen {
		return nil
	}
	if fullscreen {
		s.renderer.EnterAltScreen()
	} else {
		s.renderer.ExitAltScreen()
	}
	s.fullscreen = fullscreen
	return nil
}

func (s *remoteSurface) SetOverlay(text string) { s.blocks.Overlay = text }

func (s *remoteSurface) Present(img *image.RGBA) error {
	if cols, rows := s.remote.size(); cols != s.cols || rows != s.rows {
		s.cols, s.rows = cols, rows
		s.buf = uv.NewScreenBuffer(cols, rows)
		s.renderer.Resize(cols, rows)
		s.renderer.Erase()
	}
	s.blocks.Image = img
	s.blocks.Draw(s.buf, s.buf.Bounds())
	s.renderer.Render(s.buf.RenderBuffer)
	if err := s.renderer.Flush(); err != nil {
		return fmt.Errorf("flush remote terminal: %w", err)
	}
	return nil
}

func (s *remoteSurface) Close() error {
	if s.fullscreen {
		s.renderer.ExitAltScreen()
		s.fullscreen = false
	}
	_, _ = s.renderer.WriteString(ansi.SetModeTextCursorEnable)
	if err := s.renderer.Flush(); err != nil {
		return fmt.Errorf("restore remote terminal: %w", err)
	}
	return nil
}
