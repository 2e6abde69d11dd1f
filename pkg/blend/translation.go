package blend

// Translation remaps palette indices before lookup, used for recolored
// sprites such as team colors.
type Translation [256]uint8

// IdentityTranslation returns a translation that changes nothing.
func IdentityTranslation() *Translation {
	t := new(Translation)
	for i := range t {
		t[i] = uint8(i)
	}
	return t
}

// RampTranslation returns a translation that moves every shade of ramp
// from onto the same shade of ramp to.
func RampTranslation(from, to int) *Translation {
	t := IdentityTranslation()
	for shade := range RampSize {
		t[RampIndex(from, shade)] = RampIndex(to, shade)
	}
	return t
}
