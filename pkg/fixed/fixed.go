// Package fixed provides the 16.16 fixed-point type used for texture
// coordinates, scale steps and screen-space interpolation.
package fixed

import "math"

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

const (
	// FracBits is the number of fractional bits.
	FracBits = 16
	// One is 1.0 in fixed point (FRACUNIT).
	One Fixed = 1 << FracBits
	// Half is 0.5 in fixed point.
	Half Fixed = One >> 1
	// FracMask selects the fractional part.
	FracMask Fixed = One - 1
)

// FromInt converts an integer to fixed point.
func FromInt(i int) Fixed {
	return Fixed(i << FracBits)
}

// FromFloat converts a float to fixed point, truncating toward negative
// infinity so that equal inputs always produce equal outputs.
func FromFloat(f float64) Fixed {
	return Fixed(int64(math.Floor(f * float64(One))))
}

// Int returns the integer part, rounding toward negative infinity.
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float converts to float64.
func (f Fixed) Float() float64 {
	return float64(f) / float64(One)
}

// Frac returns the fractional part in [0, One).
func (f Fixed) Frac() Fixed {
	return f & FracMask
}

// Floor clears the fractional part.
func (f Fixed) Floor() Fixed {
	return f &^ FracMask
}

// Ceil rounds up to the next integer value.
func (f Fixed) Ceil() Fixed {
	return (f + FracMask) &^ FracMask
}

// Mul multiplies two fixed-point values with a 64-bit intermediate.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Div divides a by b. Division by zero saturates to the signed extreme.
func Div(a, b Fixed) Fixed {
	if b == 0 {
		if a < 0 {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	q := (int64(a) << FracBits) / int64(b)
	switch {
	case q > math.MaxInt32:
		return math.MaxInt32
	case q < math.MinInt32:
		return math.MinInt32
	}
	return Fixed(q)
}

// Step returns start advanced by n steps. The result equals adding step to
// start n times with 32-bit wraparound.
func Step(start, step Fixed, n int) Fixed {
	return Fixed(uint32(start) + uint32(step)*uint32(n))
}

// Log2 returns the base-2 logarithm of n rounded up (0 for n <= 1).
func Log2(n int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) int {
	return 1 << Log2(n)
}

// WrapBits returns the frac-bit count for a texture axis of the given
// power-of-two size (16 + log2(size)).
func WrapBits(size int) int {
	return FracBits + Log2(size)
}

// Wrap maps a position onto a texel index of an axis described by bits,
// where bits is the value returned by WrapBits. Wrapping uses a mask and
// never a modulo.
func Wrap(pos Fixed, bits int) int {
	return int((uint32(pos) & (1<<uint(bits) - 1)) >> FracBits)
}
