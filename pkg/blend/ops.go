package blend

func clamp255(v uint32) Color {
	if v > 255 {
		return 255
	}
	return Color(v)
}

func pack(r, g, b Color) Color {
	return 0xff000000 | r<<16 | g<<8 | b
}

// Shade scales the color channels by light/256. light may exceed 256 for
// overbright surfaces; channels clamp at 255.
func Shade(c Color, light uint32) Color {
	return pack(
		clamp255(uint32(c.R())*light>>8),
		clamp255(uint32(c.G())*light>>8),
		clamp255(uint32(c.B())*light>>8),
	)
}

// ShadeRGB scales each channel by its own light/256 factor.
func ShadeRGB(c Color, lr, lg, lb uint32) Color {
	return pack(
		clamp255(uint32(c.R())*lr>>8),
		clamp255(uint32(c.G())*lg>>8),
		clamp255(uint32(c.B())*lb>>8),
	)
}

// Translucent mixes src and dst with complementary weights. The weights
// must sum to at most one level so no clamp is needed.
func Translucent(src, dst Color, sw, dw *Weights) Color {
	return pack(
		Color(sw[src.R()]+dw[dst.R()]),
		Color(sw[src.G()]+dw[dst.G()]),
		Color(sw[src.B()]+dw[dst.B()]),
	)
}

// AddClamp adds the weighted colors and clamps each channel at 255.
func AddClamp(src, dst Color, sw, dw *Weights) Color {
	return pack(
		clamp255(sw[src.R()]+dw[dst.R()]),
		clamp255(sw[src.G()]+dw[dst.G()]),
		clamp255(sw[src.B()]+dw[dst.B()]),
	)
}

func subClamp(a, b uint32) Color {
	if b >= a {
		return 0
	}
	return clamp255(a - b)
}

// SubClamp subtracts the weighted source from the weighted destination,
// clamping each channel at 0.
func SubClamp(src, dst Color, sw, dw *Weights) Color {
	return pack(
		subClamp(dw[dst.R()], sw[src.R()]),
		subClamp(dw[dst.G()], sw[src.G()]),
		subClamp(dw[dst.B()], sw[src.B()]),
	)
}

// RevSubClamp subtracts the weighted destination from the weighted source,
// clamping each channel at 0.
func RevSubClamp(src, dst Color, sw, dw *Weights) Color {
	return pack(
		subClamp(sw[src.R()], dw[dst.R()]),
		subClamp(sw[src.G()], dw[dst.G()]),
		subClamp(sw[src.B()], dw[dst.B()]),
	)
}

// Lerp interpolates from a to b by frac/256.
func Lerp(a, b Color, frac uint32) Color {
	inv := 256 - frac
	return pack(
		Color((uint32(a.R())*inv+uint32(b.R())*frac)>>8),
		Color((uint32(a.G())*inv+uint32(b.G())*frac)>>8),
		Color((uint32(a.B())*inv+uint32(b.B())*frac)>>8),
	)
}
