package ot

import "fmt"

// GlyphCategory is GDEF's glyph class: the coarse role a glyph plays
// during lookup application (skippy-iterator ignore flags key off this).
type GlyphCategory uint8

const (
	CategoryUnknown GlyphCategory = iota
	CategoryBase
	CategoryLigature
	CategoryMark
	CategoryComponent
)

// GDefTable is the decoded 'GDEF' table.
type GDefTable struct {
	GlyphClass        ClassDef
	MarkAttachClass   ClassDef
	MarkGlyphSets     []Coverage // indexed by mark-filtering-set id
}

// Category returns glyph g's GDEF category, defaulting to CategoryUnknown
// when GDEF is absent or g has no class assigned.
func (t *GDefTable) Category(g GlyphID) GlyphCategory {
	if t == nil || t.GlyphClass == nil {
		return CategoryUnknown
	}
	switch t.GlyphClass.Class(g) {
	case 1:
		return CategoryBase
	case 2:
		return CategoryLigature
	case 3:
		return CategoryMark
	case 4:
		return CategoryComponent
	default:
		return CategoryUnknown
	}
}

// MarkAttachmentClass returns glyph g's mark-attachment class, 0 if GDEF
// is absent or carries no MarkAttachClassDef.
func (t *GDefTable) MarkAttachmentClass(g GlyphID) uint16 {
	if t == nil || t.MarkAttachClass == nil {
		return 0
	}
	return t.MarkAttachClass.Class(g)
}

// InMarkGlyphSet reports whether g is a member of mark-filtering set idx.
func (t *GDefTable) InMarkGlyphSet(idx uint16, g GlyphID) bool {
	if t == nil || int(idx) >= len(t.MarkGlyphSets) || t.MarkGlyphSets[idx] == nil {
		return false
	}
	return t.MarkGlyphSets[idx].Contains(g)
}

func parseGDef(b []byte) (*GDefTable, error) {
	r := newReader(b)
	majorVersion := r.u16()
	minorVersion := r.u16()
	glyphClassOffset := int(r.u16())
	r.skip(2) // attachListOffset, ligature caret data out of shaping scope
	r.skip(2) // ligCaretListOffset
	markAttachClassOffset := int(r.u16())
	var markGlyphSetsOffset int
	if majorVersion == 1 && minorVersion >= 2 {
		markGlyphSetsOffset = int(r.u16())
	}
	if r.err != nil {
		return nil, fmt.Errorf("GDEF: %w", r.err)
	}
	t := &GDefTable{}
	if glyphClassOffset != 0 {
		t.GlyphClass, _ = parseClassDef(b, glyphClassOffset)
	}
	if markAttachClassOffset != 0 {
		t.MarkAttachClass, _ = parseClassDef(b, markAttachClassOffset)
	}
	if markGlyphSetsOffset != 0 {
		t.MarkGlyphSets = parseMarkGlyphSetsTable(b, markGlyphSetsOffset)
	}
	return t, nil
}

func parseMarkGlyphSetsTable(b []byte, offset int) []Coverage {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	r.skip(2) // format
	count := int(r.u16())
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = r.u32()
	}
	if r.err != nil {
		return nil
	}
	sets := make([]Coverage, count)
	base := r.data
	for i, off := range offsets {
		if off == 0 {
			sets[i] = emptyCoverage{}
			continue
		}
		cov, err := parseCoverage(base, int(off))
		if err != nil {
			sets[i] = emptyCoverage{}
			continue
		}
		sets[i] = cov
	}
	return sets
}
