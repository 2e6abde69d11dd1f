package render

import (
	"github.com/taigrr/sector/pkg/fixed"
)

// WallDrawerArgs describes one wall column.
//
// The usual sequence is SetStyle, SetDest, SetCount, SetTexture and the
// sampling setters, SetLight and optionally SetLights, then DrawColumn. The
// value may be reused for the next column; only the fields that change need
// to be set again.
type WallDrawerArgs struct {
	columnArgs
}

// SetStyle selects the pixel routine. Anything translucent or additive
// blends (additive: src*alpha + dst, clamped; otherwise src*alpha +
// dst*(1-alpha)); fully opaque walls use the masked routine only when the
// texture has holes. alpha must lie in [0, fixed.One].
func (a *WallDrawerArgs) SetStyle(masked, additive bool, alpha fixed.Fixed) {
	if debugChecks {
		assertf(alpha >= 0 && alpha <= fixed.One, "alpha %d out of range", alpha)
	}
	kind, src, dst := wallStyle(masked, additive, alpha)
	a.setAlphas(src, dst)
	a.setKind(kind)
}
