package render

import (
	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/fixed"
)

// SpriteStyle selects how a sprite blends into the scene.
type SpriteStyle int

const (
	SpriteNormal SpriteStyle = iota
	SpriteTranslucent
	SpriteAdditive
	SpriteSubtractive
	SpriteReverseSubtractive
	SpriteFuzzy
	SpriteShaded
)

// SpriteDrawerArgs describes one sprite column.
type SpriteDrawerArgs struct {
	columnArgs
}

// SetStyle resolves a sprite style. A normal sprite with a translation
// remaps its palette; shaded sprites use the texel intensity times alpha to
// blend fill over the scene. The subtractive styles and additive blending
// keep the destination at full weight.
func (a *SpriteDrawerArgs) SetStyle(style SpriteStyle, alpha fixed.Fixed, tr *blend.Translation, fill blend.Color) {
	alpha = max(0, min(alpha, fixed.One))
	a.translation = tr
	a.fill = fill
	kind := KindMasked
	switch style {
	case SpriteNormal:
		if tr != nil {
			kind = KindTranslated
		}
		a.setAlphas(fixed.One, 0)
	case SpriteTranslucent:
		kind = KindTranslucent
		a.setAlphas(alpha, fixed.One-alpha)
	case SpriteAdditive:
		kind = KindAddClamp
		a.setAlphas(alpha, fixed.One)
	case SpriteSubtractive:
		kind = KindSubClamp
		a.setAlphas(alpha, fixed.One)
	case SpriteReverseSubtractive:
		kind = KindRevSubClamp
		a.setAlphas(alpha, fixed.One)
	case SpriteFuzzy:
		kind = KindFuzz
		a.setAlphas(fixed.One, 0)
	case SpriteShaded:
		kind = KindShaded
		a.setAlphas(alpha, fixed.One-alpha)
	}
	a.setKind(kind)
}

// SetFuzzTick sets the animation tick of the fuzz shimmer. It must be called
// after SetDest; the phase depends only on the column and the tick.
func (a *SpriteDrawerArgs) SetFuzzTick(tick int) {
	a.fuzzPos = (a.x*fuzzColumnStride + tick) % len(fuzzOffsets)
	if a.fuzzPos < 0 {
		a.fuzzPos += len(fuzzOffsets)
	}
}
