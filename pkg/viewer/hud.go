package viewer

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
)

// HUD is the status line drawn over the top row of the picture.
type HUD struct {
	title     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD returns a HUD showing title.
func NewHUD(title string) *HUD {
	return &HUD{title: title, fpsTime: time.Now()}
}

// UpdateFPS counts a frame. Call once per frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// FPS returns the frame rate measured over the last second.
func (h *HUD) FPS() float64 { return h.fps }

// Line formats the status line.
func (h *HUD) Line(s render.Stats, t present.Timing, set present.Settings, gamma float64, v render.Viewpoint) string {
	return fmt.Sprintf(" %s  %.0f fps  %dx%d %s  γ%.2f  %.1f ms  %s spans  %s cols  %d sprites  sector %d  %s  %d workers ",
		h.title, h.fps, set.Width, set.Height, set.Format, gamma,
		float64(s.Frame.Microseconds())/1000,
		humanize.Comma(int64(s.Spans)), humanize.Comma(int64(s.WallColumns)), s.Sprites,
		v.Sector, t, s.Workers)
}
