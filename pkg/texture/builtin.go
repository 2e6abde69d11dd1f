package texture

import (
	"math"

	"github.com/taigrr/sector/pkg/blend"
)

// Builtin is a Source of procedurally generated assets, always available so
// the demo world renders without any files on disk.
type Builtin struct {
	textures map[string]*Texture
	flats    map[string]*Flat
}

// NewBuiltin generates the built-in asset set.
func NewBuiltin() *Builtin {
	b := &Builtin{
		textures: make(map[string]*Texture),
		flats:    make(map[string]*Flat),
	}
	for _, t := range []*Texture{
		NewBricks("BRICK", 1),
		NewStone("STONE", 2),
		NewMetal("METAL"),
		NewGrate("GRATE"),
		NewDoor("DOOR", 3),
		NewChecker("CHECKER", 64, 64, 8, blend.RampIndex(blend.RampGray, 13), blend.RampIndex(blend.RampGray, 6)),
		NewRoundSprite("PILLAR", 32, 96, blend.RampTan, func(t float64) float64 {
			if t < 0.08 || t > 0.92 {
				return 1
			}
			return 0.7
		}),
		NewRoundSprite("BARREL", 32, 48, blend.RampGreen, func(t float64) float64 {
			return 0.8 + 0.2*math.Sin(t*math.Pi)
		}),
		NewRoundSprite("LAMP", 16, 64, blend.RampOrange, func(t float64) float64 {
			if t < 0.25 {
				return math.Sqrt(1 - math.Pow((t-0.125)/0.125, 2))
			}
			return 0.25
		}),
		NewRoundSprite("GHOST", 32, 56, blend.RampGray, func(t float64) float64 {
			if t < 0.4 {
				return math.Sqrt(max(0, 1-math.Pow((0.4-t)/0.4, 2)))
			}
			return 1
		}),
	} {
		b.textures[t.Name] = t
	}
	for _, f := range []*Flat{
		NewCheckerFlat("FLOOR", 64, 16, blend.RampIndex(blend.RampTan, 10), blend.RampIndex(blend.RampTan, 7)),
		NewTileFlat("CEIL", blend.RampGray),
		NewTileFlat("TILE", blend.RampSky),
		NewNoiseFlat("NUKAGE", blend.RampGreen, 8, 13, 4),
		NewNoiseFlat("GRASS", blend.RampOlive, 5, 9, 5),
	} {
		b.flats[f.Name] = f
	}
	return b
}

// Texture implements Source.
func (b *Builtin) Texture(name string) (*Texture, error) {
	if t, ok := b.textures[name]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

// Flat implements Source.
func (b *Builtin) Flat(name string) (*Flat, error) {
	if f, ok := b.flats[name]; ok {
		return f, nil
	}
	return nil, ErrNotFound
}
