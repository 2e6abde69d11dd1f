package present

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// ErrNoFrames is returned when encoding an empty recording.
var ErrNoFrames = errors.New("no frames recorded")

// Encode writes img to w as PNG or lossless WebP, chosen by ext (".png" or
// ".webp").
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("unsupported image format %q", ext)
}

// SaveImage writes img to path, choosing the format by its extension.
func SaveImage(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Recorder collects presented frames into an animated WebP.
type Recorder struct {
	// Delay is the display time of each frame.
	Delay time.Duration
	// Loops is the animation loop count; 0 loops forever.
	Loops uint16

	frames []image.Image
}

// NewRecorder returns a recorder for frames shown fps times per second.
func NewRecorder(fps int) *Recorder {
	if fps <= 0 {
		fps = 35
	}
	return &Recorder{Delay: time.Second / time.Duration(fps)}
}

// Add records a copy of img.
func (r *Recorder) Add(img *image.RGBA) {
	cp := image.NewRGBA(img.Rect)
	copy(cp.Pix, img.Pix)
	r.frames = append(r.frames, cp)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Encode writes the recording to w.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	delay := uint(max(r.Delay.Milliseconds(), 1))
	ani := &nativewebp.Animation{
		Images:    r.frames,
		Durations: make([]uint, len(r.frames)),
		Disposals: make([]uint, len(r.frames)),
		LoopCount: r.Loops,
	}
	for i := range ani.Durations {
		ani.Durations[i] = delay
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	return nil
}

// Save writes the recording to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Capture is a Surface wrapper that records every presented frame.
type Capture struct {
	Surface
	Rec *Recorder
}

// Present implements Surface.
func (c *Capture) Present(img *image.RGBA) error {
	if err := c.Surface.Present(img); err != nil {
		return err
	}
	c.Rec.Add(img)
	return nil
}
