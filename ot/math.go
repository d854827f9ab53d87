package ot

import "fmt"

// MathValue is a math-table value record: a design-unit value plus its
// Device-table delta, already resolved to the literal value for a given
// ppem is left to the caller (Device is exposed, not baked in, since math
// layout is typically done at one fixed ppem per render).
type MathValue struct {
	Value  int16
	Device Device
}

func parseMathValue(r *reader, base []byte) MathValue {
	v := r.i16()
	devOff := int(r.u16())
	return MathValue{Value: v, Device: resolveDevice(base, devOff)}
}

// MathConstants is the decoded MathConstants subtable: the fixed set of
// math-layout constants (script scaling, fraction/radical gaps, etc).
// Only the constants shaping and basic layout consult are exposed; the
// remaining ~40 rarely-used constants are kept by name in Values.
type MathConstants struct {
	ScriptPercentScaleDown        int16
	ScriptScriptPercentScaleDown  int16
	DelimitedSubFormulaMinHeight  uint16
	DisplayOperatorMinHeight      uint16
	MathLeading                   MathValue
	AxisHeight                    MathValue
	AccentBaseHeight              MathValue
	FlattenedAccentBaseHeight     MathValue
	SubscriptShiftDown            MathValue
	SuperscriptShiftUp            MathValue
	Values                        map[string]MathValue
}

// GlyphVariant is one entry of a MathGlyphConstruction's variant list: a
// progressively larger glyph for the same base shape.
type GlyphVariant struct {
	Glyph         GlyphID
	AdvanceMeasure uint16
}

// GlyphPart is one piece of an assembly used to build an arbitrarily large
// glyph (e.g. a tall paren) out of repeatable parts.
type GlyphPart struct {
	Glyph                     GlyphID
	StartConnectorLength      uint16
	EndConnectorLength        uint16
	FullAdvance               uint16
	PartFlags                 uint16
}

// GlyphConstruction holds the size variants and assembly parts available
// for growing one base glyph.
type GlyphConstruction struct {
	Variants []GlyphVariant
	Parts    []GlyphPart
	ItalicsCorrection MathValue
}

// MathVariants is the decoded MathVariants subtable, keyed by base glyph
// for each of the horizontal and vertical growth directions.
type MathVariants struct {
	MinConnectorOverlap uint16
	Vertical            map[GlyphID]*GlyphConstruction
	Horizontal          map[GlyphID]*GlyphConstruction
}

// MathGlyphInfo is the decoded MathGlyphInfo subtable: per-glyph italics
// correction, top-accent attachment position, and extended-shape flag.
type MathGlyphInfo struct {
	ItalicsCorrection map[GlyphID]MathValue
	TopAccentAttachment map[GlyphID]MathValue
	ExtendedShapeCoverage Coverage
}

func (m *MathGlyphInfo) IsExtendedShape(g GlyphID) bool {
	if m == nil || m.ExtendedShapeCoverage == nil {
		return false
	}
	return m.ExtendedShapeCoverage.Contains(g)
}

// MathTable is the decoded 'MATH' table.
type MathTable struct {
	Constants  *MathConstants
	GlyphInfo  *MathGlyphInfo
	Variants   *MathVariants
}

func parseMath(b []byte) (*MathTable, error) {
	r := newReader(b)
	r.skip(4) // version
	constantsOffset := int(r.u16())
	glyphInfoOffset := int(r.u16())
	variantsOffset := int(r.u16())
	if r.err != nil {
		return nil, fmt.Errorf("MATH: %w", r.err)
	}
	t := &MathTable{}
	if constantsOffset != 0 {
		t.Constants, _ = parseMathConstants(b, constantsOffset)
	}
	if glyphInfoOffset != 0 {
		t.GlyphInfo, _ = parseMathGlyphInfo(b, glyphInfoOffset)
	}
	if variantsOffset != 0 {
		t.Variants, _ = parseMathVariants(b, variantsOffset)
	}
	return t, nil
}

func parseMathConstants(b []byte, offset int) (*MathConstants, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	c := &MathConstants{Values: map[string]MathValue{}}
	c.ScriptPercentScaleDown = r.i16()
	c.ScriptScriptPercentScaleDown = r.i16()
	c.DelimitedSubFormulaMinHeight = r.u16()
	c.DisplayOperatorMinHeight = r.u16()
	c.MathLeading = parseMathValue(r, r.data)
	c.AxisHeight = parseMathValue(r, r.data)
	c.AccentBaseHeight = parseMathValue(r, r.data)
	c.FlattenedAccentBaseHeight = parseMathValue(r, r.data)
	c.SubscriptShiftDown = parseMathValue(r, r.data)
	r.skip(0)
	// remaining named constants, kept in Values by their canonical name.
	c.Values["SubscriptTopMax"] = parseMathValue(r, r.data)
	c.Values["SubscriptBaselineDropMin"] = parseMathValue(r, r.data)
	c.SuperscriptShiftUp = parseMathValue(r, r.data)
	c.Values["SuperscriptShiftUpCramped"] = parseMathValue(r, r.data)
	c.Values["SuperscriptBottomMin"] = parseMathValue(r, r.data)
	c.Values["SuperscriptBaselineDropMax"] = parseMathValue(r, r.data)
	c.Values["SubSuperscriptGapMin"] = parseMathValue(r, r.data)
	c.Values["SuperscriptBottomMaxWithSubscript"] = parseMathValue(r, r.data)
	c.Values["SpaceAfterScript"] = parseMathValue(r, r.data)
	c.Values["UpperLimitGapMin"] = parseMathValue(r, r.data)
	c.Values["UpperLimitBaselineRiseMin"] = parseMathValue(r, r.data)
	c.Values["LowerLimitGapMin"] = parseMathValue(r, r.data)
	c.Values["LowerLimitBaselineDropMin"] = parseMathValue(r, r.data)
	c.Values["StackTopShiftUp"] = parseMathValue(r, r.data)
	c.Values["StackTopDisplayStyleShiftUp"] = parseMathValue(r, r.data)
	c.Values["StackBottomShiftDown"] = parseMathValue(r, r.data)
	c.Values["StackBottomDisplayStyleShiftDown"] = parseMathValue(r, r.data)
	c.Values["StackGapMin"] = parseMathValue(r, r.data)
	c.Values["StackDisplayStyleGapMin"] = parseMathValue(r, r.data)
	c.Values["StretchStackTopShiftUp"] = parseMathValue(r, r.data)
	c.Values["StretchStackBottomShiftDown"] = parseMathValue(r, r.data)
	c.Values["StretchStackGapAboveMin"] = parseMathValue(r, r.data)
	c.Values["StretchStackGapBelowMin"] = parseMathValue(r, r.data)
	c.Values["FractionNumeratorShiftUp"] = parseMathValue(r, r.data)
	c.Values["FractionNumeratorDisplayStyleShiftUp"] = parseMathValue(r, r.data)
	c.Values["FractionDenominatorShiftDown"] = parseMathValue(r, r.data)
	c.Values["FractionDenominatorDisplayStyleShiftDown"] = parseMathValue(r, r.data)
	c.Values["FractionNumeratorGapMin"] = parseMathValue(r, r.data)
	c.Values["FractionNumDisplayStyleGapMin"] = parseMathValue(r, r.data)
	c.Values["FractionRuleThickness"] = parseMathValue(r, r.data)
	c.Values["FractionDenominatorGapMin"] = parseMathValue(r, r.data)
	c.Values["FractionDenomDisplayStyleGapMin"] = parseMathValue(r, r.data)
	c.Values["SkewedFractionHorizontalGap"] = parseMathValue(r, r.data)
	c.Values["SkewedFractionVerticalGap"] = parseMathValue(r, r.data)
	c.Values["OverbarVerticalGap"] = parseMathValue(r, r.data)
	c.Values["OverbarRuleThickness"] = parseMathValue(r, r.data)
	c.Values["OverbarExtraAscender"] = parseMathValue(r, r.data)
	c.Values["UnderbarVerticalGap"] = parseMathValue(r, r.data)
	c.Values["UnderbarRuleThickness"] = parseMathValue(r, r.data)
	c.Values["UnderbarExtraDescender"] = parseMathValue(r, r.data)
	c.Values["RadicalVerticalGap"] = parseMathValue(r, r.data)
	c.Values["RadicalDisplayStyleVerticalGap"] = parseMathValue(r, r.data)
	c.Values["RadicalRuleThickness"] = parseMathValue(r, r.data)
	c.Values["RadicalExtraAscender"] = parseMathValue(r, r.data)
	c.Values["RadicalKernBeforeDegree"] = parseMathValue(r, r.data)
	c.Values["RadicalKernAfterDegree"] = parseMathValue(r, r.data)
	c.Values["RadicalDegreeBottomRaisePercent"] = r2Value(r, r.data)
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func r2Value(r *reader, base []byte) MathValue {
	return MathValue{Value: r.i16()}
}

func parseMathGlyphInfo(b []byte, offset int) (*MathGlyphInfo, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	italicsCorrectionInfoOffset := int(r.u16())
	topAccentAttachmentOffset := int(r.u16())
	extendedShapeCoverageOffset := int(r.u16())
	r.skip(2) // MathKernInfo offset, kerning-at-script-level is out of scope
	if r.err != nil {
		return nil, r.err
	}
	info := &MathGlyphInfo{
		ItalicsCorrection:   map[GlyphID]MathValue{},
		TopAccentAttachment: map[GlyphID]MathValue{},
	}
	if italicsCorrectionInfoOffset != 0 {
		parseMathValueCoverageTable(r.data, italicsCorrectionInfoOffset, info.ItalicsCorrection)
	}
	if topAccentAttachmentOffset != 0 {
		parseMathValueCoverageTable(r.data, topAccentAttachmentOffset, info.TopAccentAttachment)
	}
	if extendedShapeCoverageOffset != 0 {
		info.ExtendedShapeCoverage, _ = parseCoverage(r.data, extendedShapeCoverageOffset)
	}
	return info, nil
}

// parseMathValueCoverageTable decodes the common MATH idiom of a Coverage
// table paired with one MathValueRecord per covered glyph.
func parseMathValueCoverageTable(b []byte, offset int, out map[GlyphID]MathValue) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return
	}
	covOffset := int(r.u16())
	count := int(r.u16())
	values := make([]MathValue, count)
	for i := range values {
		values[i] = parseMathValue(r, r.data)
	}
	if r.err != nil {
		return
	}
	cov, err := parseCoverage(r.data, covOffset)
	if err != nil {
		return
	}
	for g, idx := range coverageGlyphs(cov) {
		if idx < len(values) {
			out[g] = values[idx]
		}
	}
}

func coverageGlyphs(cov Coverage) map[GlyphID]int {
	out := map[GlyphID]int{}
	cov.Glyphs(func(g GlyphID, idx int) bool {
		out[g] = idx
		return true
	})
	return out
}

func parseMathVariants(b []byte, offset int) (*MathVariants, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	minConnectorOverlap := r.u16()
	vertCovOffset := int(r.u16())
	horizCovOffset := int(r.u16())
	vertCount := int(r.u16())
	horizCount := int(r.u16())
	vertOffsets := r.u16Array(vertCount)
	horizOffsets := r.u16Array(horizCount)
	if r.err != nil {
		return nil, r.err
	}
	mv := &MathVariants{
		MinConnectorOverlap: minConnectorOverlap,
		Vertical:            map[GlyphID]*GlyphConstruction{},
		Horizontal:          map[GlyphID]*GlyphConstruction{},
	}
	if vertCovOffset != 0 {
		if cov, err := parseCoverage(r.data, vertCovOffset); err == nil {
			assignConstructions(cov, vertOffsets, r.data, mv.Vertical)
		}
	}
	if horizCovOffset != 0 {
		if cov, err := parseCoverage(r.data, horizCovOffset); err == nil {
			assignConstructions(cov, horizOffsets, r.data, mv.Horizontal)
		}
	}
	return mv, nil
}

func assignConstructions(cov Coverage, offsets []uint16, base []byte, out map[GlyphID]*GlyphConstruction) {
	for g, idx := range coverageGlyphs(cov) {
		if idx >= len(offsets) {
			continue
		}
		gc := parseGlyphConstruction(base, int(offsets[idx]))
		if gc != nil {
			out[g] = gc
		}
	}
}

func parseGlyphConstruction(b []byte, offset int) *GlyphConstruction {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	glyphAssemblyOffset := int(r.u16())
	variantCount := int(r.u16())
	if r.err != nil {
		return nil
	}
	gc := &GlyphConstruction{Variants: make([]GlyphVariant, variantCount)}
	for i := range gc.Variants {
		gc.Variants[i] = GlyphVariant{Glyph: GlyphID(r.u16()), AdvanceMeasure: r.u16()}
	}
	if r.err != nil {
		return gc
	}
	if glyphAssemblyOffset != 0 {
		gc.ItalicsCorrection, gc.Parts = parseGlyphAssembly(r.data, glyphAssemblyOffset)
	}
	return gc
}

func parseGlyphAssembly(b []byte, offset int) (MathValue, []GlyphPart) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return MathValue{}, nil
	}
	italics := parseMathValue(r, r.data)
	count := int(r.u16())
	parts := make([]GlyphPart, count)
	for i := range parts {
		parts[i] = GlyphPart{
			Glyph:                GlyphID(r.u16()),
			StartConnectorLength: r.u16(),
			EndConnectorLength:   r.u16(),
			FullAdvance:          r.u16(),
			PartFlags:            r.u16(),
		}
	}
	if r.err != nil {
		return italics, nil
	}
	return italics, parts
}
