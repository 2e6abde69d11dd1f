package render

import (
	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
)

// ParticleDrawerArgs describes one column of a solid-color particle.
type ParticleDrawerArgs struct {
	columnArgs
}

// SetStyle sets the particle color and its blend: additive particles add
// color*alpha to the scene, others mix with weight 1-alpha.
func (a *ParticleDrawerArgs) SetStyle(color blend.Color, alpha fixed.Fixed, additive bool) {
	alpha = max(0, min(alpha, fixed.One))
	a.fill = color
	if additive {
		a.setAlphas(alpha, fixed.One)
	} else {
		a.setAlphas(alpha, fixed.One-alpha)
	}
	a.setKind(KindFill)
}
