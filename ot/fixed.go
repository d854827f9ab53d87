package ot

// Fixed is a 32-bit signed fixed-point number with 16 fractional bits
// (the OpenType `Fixed` type), used for fields such as a font's italic
// angle or the version number of a table.
type Fixed int32

// Float64 converts a Fixed to a floating-point value.
func (f Fixed) Float64() float64 {
	return float64(f) / 65536.0
}

// F2Dot14 is a 16-bit signed fixed-point number with 14 fractional bits,
// representing values in the range [-2, 2). OpenType uses it for
// normalized coordinates such as variation-axis deltas and anchor
// components in MATH and variable-font tables.
type F2Dot14 int16

// Float64 converts an F2Dot14 to a floating-point value.
func (f F2Dot14) Float64() float64 {
	return float64(f) / 16384.0
}

// FWord is a signed 16-bit quantity measured in font design units (1 unit
// = 1/unitsPerEm em).
type FWord = int16

// UFWord is an unsigned 16-bit quantity measured in font design units.
type UFWord = uint16
