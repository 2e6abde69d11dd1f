package texture

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/sector/pkg/blend"
)

// Generate builds a texture by evaluating fn for every texel.
func Generate(name string, width, height int, fn func(x, y int) uint8) *Texture {
	pixels := make([]uint8, width*height)
	for x := range width {
		for y := range height {
			pixels[x*height+y] = fn(x, y)
		}
	}
	return New(name, width, height, pixels)
}

// GenerateFlat builds a flat by evaluating fn for every texel.
func GenerateFlat(name string, width, height int, fn func(x, y int) uint8) *Flat {
	pixels := make([]uint8, width*height)
	for y := range height {
		for x := range width {
			pixels[y*width+x] = fn(x, y)
		}
	}
	return NewFlat(name, width, height, pixels)
}

// NewChecker creates a checkerboard texture of two palette indices.
func NewChecker(name string, width, height, checkSize int, c1, c2 uint8) *Texture {
	return Generate(name, width, height, func(x, y int) uint8 {
		if (x/checkSize+y/checkSize)%2 == 0 {
			return c1
		}
		return c2
	})
}

// NewCheckerFlat creates a checkerboard flat.
func NewCheckerFlat(name string, size, checkSize int, c1, c2 uint8) *Flat {
	return GenerateFlat(name, size, size, func(x, y int) uint8 {
		if (x/checkSize+y/checkSize)%2 == 0 {
			return c1
		}
		return c2
	})
}

func shadeNoise(seed uint64) func(ramp, lo, hi int) uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(ramp, lo, hi int) uint8 {
		return blend.RampIndex(ramp, lo+rng.IntN(hi-lo+1))
	}
}

// NewBricks creates a running-bond brick wall.
func NewBricks(name string, seed uint64) *Texture {
	noise := shadeNoise(seed)
	return Generate(name, 64, 64, func(x, y int) uint8 {
		row := y / 16
		bx := x + (row%2)*16
		if y%16 == 15 || bx%32 == 31 {
			return blend.RampIndex(blend.RampGray, 5)
		}
		return noise(blend.RampBrick, 8, 12)
	})
}

// NewStone creates rough stone blocks.
func NewStone(name string, seed uint64) *Texture {
	noise := shadeNoise(seed)
	return Generate(name, 64, 128, func(x, y int) uint8 {
		if y%32 == 0 || (x+(y/32)*21)%64 == 0 {
			return blend.RampIndex(blend.RampGray, 3)
		}
		return noise(blend.RampGray, 7, 10)
	})
}

// NewMetal creates riveted panels.
func NewMetal(name string) *Texture {
	return Generate(name, 64, 64, func(x, y int) uint8 {
		px, py := x%32, y%32
		switch {
		case px == 0 || py == 0:
			return blend.RampIndex(blend.RampIndigo, 3)
		case (px == 4 || px == 27) && (py == 4 || py == 27):
			return blend.RampIndex(blend.RampSky, 14)
		}
		return blend.RampIndex(blend.RampBlue, 6+(px+py)%3)
	})
}

// NewGrate creates a see-through grate; holes use the sentinel index.
func NewGrate(name string) *Texture {
	return Generate(name, 64, 64, func(x, y int) uint8 {
		if x%8 < 2 || y%16 < 2 {
			return blend.RampIndex(blend.RampOlive, 9)
		}
		return blend.Transparent
	})
}

// NewDoor creates vertical planks.
func NewDoor(name string, seed uint64) *Texture {
	noise := shadeNoise(seed)
	return Generate(name, 64, 128, func(x, y int) uint8 {
		if x%16 == 0 {
			return blend.RampIndex(blend.RampBrown, 3)
		}
		return noise(blend.RampBrown, 7, 10)
	})
}

// NewNoiseFlat creates a flat of random shades from one ramp.
func NewNoiseFlat(name string, ramp, lo, hi int, seed uint64) *Flat {
	noise := shadeNoise(seed)
	return GenerateFlat(name, 64, 64, func(x, y int) uint8 {
		return noise(ramp, lo, hi)
	})
}

// NewTileFlat creates square floor tiles with grout lines.
func NewTileFlat(name string, ramp int) *Flat {
	return GenerateFlat(name, 64, 64, func(x, y int) uint8 {
		if x%16 == 0 || y%16 == 0 {
			return blend.RampIndex(blend.RampGray, 4)
		}
		return blend.RampIndex(ramp, 9+((x/16)+(y/16))%2*2)
	})
}

// NewRoundSprite creates a vertical, lathe-shaped sprite. profile returns
// the half-width in [0, 1] at a normalized height t (0 top, 1 bottom);
// texels outside the profile are transparent.
func NewRoundSprite(name string, width, height, ramp int, profile func(t float64) float64) *Texture {
	return Generate(name, width, height, func(x, y int) uint8 {
		t := (float64(y) + 0.5) / float64(height)
		half := profile(t) * float64(width) / 2
		dx := float64(x) + 0.5 - float64(width)/2
		if math.Abs(dx) > half || half <= 0 {
			return blend.Transparent
		}
		// Lighter toward the left to fake a rounded surface.
		k := 1 - (dx/half+1)/2
		return blend.RampIndex(ramp, 4+int(k*11))
	})
}
