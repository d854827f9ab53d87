package otquery

import "github.com/glyphkit/opentype/ot"

// --- Font Information -------------------------------------------------

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, DFLT will be returned. If the script has no support in the font,
// DFLT will be returned for the script.
func FontSupportsScript(otf *ot.Font, scr ot.Tag, lang ot.Tag) (ot.Tag, ot.Tag) {
	if otf == nil || otf.GSub == nil || otf.GSub.ScriptList == nil {
		return ot.DFLT, ot.DFLT
	}
	script, resolved := otf.GSub.ScriptList.ScriptFor(scr)
	if script == nil {
		tracer().Infof("cannot find script %s in font", scr.String())
		return ot.DFLT, ot.DFLT
	}
	tracer().Debugf("script %s is contained in GSUB", resolved.String())
	if _, ok := script.LangSystems[lang]; ok {
		return resolved, lang
	}
	return resolved, ot.DFLT
}

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	var metrics FontMetricsInfo
	if otf == nil {
		return metrics
	}
	metrics.UnitsPerEm = otf.UnitsPerEm()
	if otf.HHea != nil {
		metrics.Ascent = otf.HHea.Ascender
		metrics.Descent = otf.HHea.Descender
		metrics.LineGap = otf.HHea.LineGap
		metrics.MaxAdvance = otf.HHea.AdvanceWidthMax
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a given code-point.
// If the code-point cannot be found, 0 (.notdef) is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphID {
	if otf == nil || otf.CMap == nil {
		return 0
	}
	return otf.CMap.Lookup(codepoint)
}

// GlyphMetrics retrieves horizontal metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphID) GlyphMetricsInfo {
	var metrics GlyphMetricsInfo
	if otf == nil || otf.HMtx == nil {
		return metrics
	}
	metrics.Advance = otf.HMtx.Advance(gid)
	metrics.LSB = otf.HMtx.LeftSideBearing(gid)
	return metrics
}
