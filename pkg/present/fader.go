package present

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/sector/pkg/blend"
)

// FlashFader decays a screen flash, such as a damage or pickup tint, with a
// critically damped spring so it fades without overshooting.
type FlashFader struct {
	spring harmonica.Spring
	color  blend.Color
	amount float64
	vel    float64
}

// NewFlashFader returns a fader stepped fps times per second.
func NewFlashFader(fps int) *FlashFader {
	return &FlashFader{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Hit starts a flash of color c. A weaker hit while a stronger flash is
// fading only changes the color.
func (f *FlashFader) Hit(c blend.Color, amount int) {
	f.color = c
	f.amount = math.Max(f.amount, float64(min(amount, MaxFlash)))
}

// Amount returns the current flash amount.
func (f *FlashFader) Amount() int {
	return int(math.Round(f.amount))
}

// Step advances the fade by one frame and applies it to cs.
func (f *FlashFader) Step(cs *ColorState) {
	if f.amount > 0 {
		f.amount, f.vel = f.spring.Update(f.amount, f.vel, 0)
		if f.amount < 0.5 {
			f.amount, f.vel = 0, 0
		}
	}
	if c, a := cs.Flash(); c != f.color || a != f.Amount() {
		cs.SetFlash(f.color, f.Amount())
	}
}
