package buffer

import "github.com/glyphkit/opentype/ot"

// SkippyIterator walks a Buffer skipping glyphs a lookup's flag says to
// ignore, per §4.8: IgnoreBaseGlyphs/IgnoreLigatures/IgnoreMarks, a
// mark-attachment-class filter, and an explicit mark-filtering-set
// membership test.
type SkippyIterator struct {
	buf   *Buffer
	gdef  *ot.GDefTable
	flag  ot.LookupFlag
	filterSet uint16
	useFilterSet bool
}

// NewSkippyIterator builds an iterator for lookup flag f over buf. Glyph
// categories and mark-attachment classes are read from each GlyphInfo;
// gdef is consulted only for mark-filtering-set membership (gdef may be
// nil, in which case no glyph belongs to any mark-filtering set).
func NewSkippyIterator(buf *Buffer, gdef *ot.GDefTable, f ot.LookupFlag, markFilteringSet uint16) *SkippyIterator {
	return &SkippyIterator{
		buf:          buf,
		gdef:         gdef,
		flag:         f,
		filterSet:    markFilteringSet,
		useFilterSet: f&ot.LookupUseMarkFilteringSet != 0,
	}
}

// Skippable reports whether the glyph at index i should be passed over
// while matching this lookup.
func (s *SkippyIterator) Skippable(i int) bool {
	if i < 0 || i >= len(s.buf.Info) {
		return false
	}
	info := &s.buf.Info[i]
	switch info.Category {
	case ot.CategoryBase:
		if s.flag&ot.LookupIgnoreBaseGlyphs != 0 {
			return true
		}
	case ot.CategoryLigature:
		if s.flag&ot.LookupIgnoreLigatures != 0 {
			return true
		}
	case ot.CategoryMark:
		if s.flag&ot.LookupIgnoreMarks != 0 {
			return true
		}
		if s.useFilterSet {
			if !s.gdef.InMarkGlyphSet(s.filterSet, info.GlyphID) {
				return true
			}
		} else if cls := s.flag.MarkAttachClass(); cls != 0 && uint16(info.MarkAttachClass) != cls {
			return true
		}
	}
	return false
}

// Next returns the first non-skippable index strictly after i, or -1 if
// none remains.
func (s *SkippyIterator) Next(i int) int {
	for j := i + 1; j < len(s.buf.Info); j++ {
		if !s.Skippable(j) {
			return j
		}
	}
	return -1
}

// Prev returns the first non-skippable index strictly before i, or -1 if
// none remains.
func (s *SkippyIterator) Prev(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !s.Skippable(j) {
			return j
		}
	}
	return -1
}
