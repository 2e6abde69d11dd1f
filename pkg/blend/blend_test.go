package blend

import (
	"image/color"
	"testing"

	"github.com/taigrr/sector/pkg/fixed"
)

func TestColorChannels(t *testing.T) {
	c := RGB(10, 20, 30)
	if c.R() != 10 || c.G() != 20 || c.B() != 30 {
		t.Errorf("channels = %d,%d,%d", c.R(), c.G(), c.B())
	}
	if got := c.RGBA(); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("RGBA = %+v", got)
	}
	if FromRGBA(c.RGBA()) != c {
		t.Error("FromRGBA(RGBA()) changed the color")
	}
	if got := RGB(255, 255, 255).RGB555(); got != 0x7fff {
		t.Errorf("white RGB555 = %#x", got)
	}
}

func TestAlphaLevel(t *testing.T) {
	tests := []struct {
		alpha fixed.Fixed
		want  int
	}{
		{-1, 0},
		{0, 0},
		{fixed.Half, 32},
		{fixed.One, 64},
		{fixed.One * 2, 64},
	}
	for _, tt := range tests {
		if got := AlphaLevel(tt.alpha); got != tt.want {
			t.Errorf("AlphaLevel(%v) = %d, want %d", tt.alpha.Float(), got, tt.want)
		}
	}
	if WeightTable(fixed.One)[200] != 200 {
		t.Error("full weight must be identity")
	}
	if WeightTable(0)[200] != 0 {
		t.Error("zero weight must be zero")
	}
}

func TestBlendOps(t *testing.T) {
	half := WeightTable(fixed.Half)
	full := WeightTable(fixed.One)
	src := RGB(200, 200, 200)
	dst := RGB(100, 100, 100)

	tests := []struct {
		name string
		got  Color
		want Color
	}{
		{"additive half alpha", AddClamp(src, dst, half, full), RGB(200, 200, 200)},
		{"additive clamps", AddClamp(RGB(255, 10, 0), RGB(200, 10, 0), full, full), RGB(255, 20, 0)},
		{"translucent half", Translucent(src, dst, half, half), RGB(150, 150, 150)},
		{"subtract", SubClamp(RGB(50, 150, 0), RGB(100, 100, 100), full, full), RGB(50, 0, 100)},
		{"reverse subtract", RevSubClamp(RGB(50, 150, 0), RGB(100, 100, 100), full, full), RGB(0, 50, 0)},
		{"shade half", Shade(src, 128), RGB(100, 100, 100)},
		{"shade overbright clamps", Shade(src, 512), RGB(255, 255, 255)},
		{"shade per channel", ShadeRGB(src, 256, 128, 0), RGB(200, 100, 0)},
		{"lerp midpoint", Lerp(RGB(0, 0, 0), RGB(200, 100, 50), 128), RGB(100, 50, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %#08x, want %#08x", uint32(tt.got), uint32(tt.want))
			}
		})
	}
}

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p != DefaultPalette() {
		t.Fatal("DefaultPalette must be shared")
	}

	t.Run("inverse never yields sentinel", func(t *testing.T) {
		for key, idx := range p.Inverse {
			if idx == Transparent {
				t.Fatalf("inverse[%#x] = sentinel", key)
			}
		}
	})

	t.Run("ramp colors map to themselves", func(t *testing.T) {
		for _, idx := range []uint8{RampIndex(RampRed, 15), RampIndex(RampBlue, 15), RampIndex(RampGray, 15)} {
			if got := p.Nearest(p.Colors[idx].R(), p.Colors[idx].G(), p.Colors[idx].B()); got != idx {
				t.Errorf("Nearest(colors[%d]) = %d", idx, got)
			}
		}
	})

	t.Run("full bright colormap is identity", func(t *testing.T) {
		cm := p.Colormap(FullBright)
		for i := range cm {
			if cm[i] != uint8(i) {
				t.Fatalf("colormap[%d] = %d", i, cm[i])
			}
		}
	})

	t.Run("darker colormaps never brighten", func(t *testing.T) {
		bright := p.Colors[RampIndex(RampGray, 15)].Luma()
		dark := p.Colors[p.Colormap(32)[RampIndex(RampGray, 15)]].Luma()
		if dark >= bright {
			t.Errorf("dark luma %d >= bright luma %d", dark, bright)
		}
	})

	t.Run("colormap clamps", func(t *testing.T) {
		if p.Colormap(-100) != &p.Colormaps[NumColormaps-1] {
			t.Error("negative light should select darkest map")
		}
		if p.Colormap(1000) != &p.Colormaps[0] {
			t.Error("overbright light should select map 0")
		}
	})
}

func TestRampTranslation(t *testing.T) {
	tr := RampTranslation(RampGreen, RampRed)
	if tr[RampIndex(RampGreen, 7)] != RampIndex(RampRed, 7) {
		t.Error("green shade not remapped to red")
	}
	if tr[RampIndex(RampBlue, 7)] != RampIndex(RampBlue, 7) {
		t.Error("unrelated ramp changed")
	}
}

func BenchmarkAddClamp(b *testing.B) {
	sw, dw := WeightTable(fixed.Half), WeightTable(fixed.One)
	src, dst := RGB(200, 120, 40), RGB(90, 90, 90)
	for b.Loop() {
		dst = AddClamp(src, dst, sw, dw) & 0xff7f7f7f
	}
}
