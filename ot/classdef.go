package ot

import "sort"

// ClassDef is a total map from glyph ID to a small integer class. Glyphs
// with no explicit entry belong to class 0.
type ClassDef interface {
	Class(g GlyphID) uint16
}

// classDefArray is ClassDef format 1: a trimmed array of classes starting
// at startGlyph, chosen at parse time for a contiguous glyph range.
type classDefArray struct {
	startGlyph GlyphID
	classes    []uint16
}

func (c *classDefArray) Class(g GlyphID) uint16 {
	if g < c.startGlyph {
		return 0
	}
	i := int(g - c.startGlyph)
	if i >= len(c.classes) {
		return 0
	}
	return c.classes[i]
}

// classDefRange is one entry of ClassDef format 2.
type classDefRange struct {
	start, end GlyphID
	class      uint16
}

// classDefRanges is ClassDef format 2: sorted (start, end, class) ranges,
// chosen at parse time for a sparse glyph set.
type classDefRanges struct {
	ranges []classDefRange
}

func (c *classDefRanges) Class(g GlyphID) uint16 {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].end >= g })
	if i < len(c.ranges) && c.ranges[i].start <= g && g <= c.ranges[i].end {
		return c.ranges[i].class
	}
	return 0
}

// emptyClassDef maps every glyph to class 0; used when a ClassDef offset
// is absent or malformed.
type emptyClassDef struct{}

func (emptyClassDef) Class(GlyphID) uint16 { return 0 }

func parseClassDef(b []byte, offset int) (ClassDef, error) {
	if offset == 0 {
		return emptyClassDef{}, nil
	}
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	format := r.u16()
	switch format {
	case 1:
		startGlyph := GlyphID(r.u16())
		count := int(r.u16())
		classes := r.u16Array(count)
		if r.err != nil {
			return nil, r.err
		}
		return &classDefArray{startGlyph: startGlyph, classes: classes}, nil
	case 2:
		count := int(r.u16())
		ranges := make([]classDefRange, count)
		for i := range ranges {
			ranges[i] = classDefRange{
				start: GlyphID(r.u16()),
				end:   GlyphID(r.u16()),
				class: r.u16(),
			}
		}
		if r.err != nil {
			return nil, r.err
		}
		return &classDefRanges{ranges: ranges}, nil
	default:
		return emptyClassDef{}, nil
	}
}
