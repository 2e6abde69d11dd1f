package present

import "fmt"

// Mode is a display resolution.
type Mode struct {
	Width  int
	Height int
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// WinModes are the sizes offered for windowed output.
var WinModes = []Mode{
	{320, 200},
	{320, 240},
	{400, 225}, // 16:9
	{400, 300},
	{480, 270}, // 16:9
	{480, 360},
	{512, 288}, // 16:9
	{512, 384},
	{640, 360}, // 16:9
	{640, 400},
	{640, 480},
	{720, 480}, // 16:10
	{720, 540},
	{800, 450}, // 16:9
	{800, 500}, // 16:10
	{800, 600},
	{848, 480}, // 16:9
	{960, 600}, // 16:10
	{960, 720},
	{1024, 576}, // 16:9
	{1024, 640}, // 16:10
	{1024, 768},
	{1088, 612}, // 16:9
	{1152, 648}, // 16:9
	{1152, 720}, // 16:10
	{1152, 864},
	{1280, 720}, // 16:9
	{1280, 800}, // 16:10
	{1280, 960},
	{1360, 768}, // 16:9
	{1400, 787}, // 16:9
	{1400, 875}, // 16:10
	{1400, 1050},
	{1600, 900},  // 16:9
	{1600, 1000}, // 16:10
	{1600, 1200},
	{1920, 1080},
}

// ClosestResolution returns the mode of modes nearest to width x height.
// Modes at least as large in both dimensions are preferred; smaller modes
// are considered only when no such mode exists. ok is false when modes is
// empty.
func ClosestResolution(modes []Mode, width, height int) (m Mode, ok bool) {
	for pass := range 2 {
		best := -1
		for _, mode := range modes {
			if mode.Width == width && mode.Height == height {
				return mode, true
			}
			if pass == 0 && (mode.Width < width || mode.Height < height) {
				continue
			}
			dw, dh := mode.Width-width, mode.Height-height
			if d := dw*dw + dh*dh; best < 0 || d < best {
				best = d
				m = mode
			}
		}
		if best >= 0 {
			return m, true
		}
	}
	return Mode{}, false
}

// HasMode reports whether modes contains width x height.
func HasMode(modes []Mode, width, height int) bool {
	for _, m := range modes {
		if m.Width == width && m.Height == height {
			return true
		}
	}
	return false
}
