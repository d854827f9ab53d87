package otquery

// FontMetricsInfo contains selected metric information for a font, in
// font design units (see ot.Font.UnitsPerEm).
type FontMetricsInfo struct {
	UnitsPerEm      uint16
	Ascent, Descent int16
	MaxAdvance      uint16
	LineGap         int16
}

// GlyphMetricsInfo contains horizontal metric information for a glyph, in
// font design units. Outline extraction (glyf/loca) is out of scope for a
// shaping-only engine, so no bounding box is reported here.
type GlyphMetricsInfo struct {
	Advance uint16
	LSB     int16
}
