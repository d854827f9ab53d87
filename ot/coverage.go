package ot

import (
	"fmt"
	"sort"
)

// Coverage is a sparse, ordered set of glyph IDs, as used throughout
// GSUB/GPOS to gate whether a lookup subtable applies to a glyph. It
// exposes O(log n) membership together with the coverage index that
// subtables use to index their own parallel arrays.
type Coverage interface {
	// Index returns the coverage index of g and true if g is covered,
	// or (0, false) otherwise.
	Index(g GlyphID) (int, bool)
	// Contains reports set membership without needing the index.
	Contains(g GlyphID) bool
	// Glyphs iterates (glyph, coverageIndex) pairs in ascending glyph order.
	Glyphs(yield func(GlyphID, int) bool)
	// Digest returns the conservative 64-bit Bloom-style summary of this set.
	Digest() Digest
}

// coverageList is coverage format 1: a sorted list of glyph IDs, looked up
// by binary search. Chosen at parse time for small or sparse sets.
type coverageList struct {
	glyphs []GlyphID
	digest Digest
}

func (c *coverageList) Index(g GlyphID) (int, bool) {
	i := sort.Search(len(c.glyphs), func(i int) bool { return c.glyphs[i] >= g })
	if i < len(c.glyphs) && c.glyphs[i] == g {
		return i, true
	}
	return 0, false
}

func (c *coverageList) Contains(g GlyphID) bool {
	_, ok := c.Index(g)
	return ok
}

func (c *coverageList) Glyphs(yield func(GlyphID, int) bool) {
	for i, g := range c.glyphs {
		if !yield(g, i) {
			return
		}
	}
}

func (c *coverageList) Digest() Digest { return c.digest }

// coverageRanges is coverage format 2: sorted (start, end, startCoverageIndex)
// ranges, chosen at parse time when the glyph set is dense.
type coverageRange struct {
	start, end      GlyphID
	startCoverageID int
}

type coverageRanges struct {
	ranges []coverageRange
	digest Digest
}

func (c *coverageRanges) Index(g GlyphID) (int, bool) {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].end >= g })
	if i < len(c.ranges) && c.ranges[i].start <= g && g <= c.ranges[i].end {
		return c.ranges[i].startCoverageID + int(g-c.ranges[i].start), true
	}
	return 0, false
}

func (c *coverageRanges) Contains(g GlyphID) bool {
	_, ok := c.Index(g)
	return ok
}

func (c *coverageRanges) Glyphs(yield func(GlyphID, int) bool) {
	for _, r := range c.ranges {
		idx := r.startCoverageID
		for g := r.start; g <= r.end; g++ {
			if !yield(g, idx) {
				return
			}
			idx++
			if g == 0xFFFF {
				break
			}
		}
	}
}

func (c *coverageRanges) Digest() Digest { return c.digest }

// parseCoverage decodes a Coverage table at the given offset within b.
func parseCoverage(b []byte, offset int) (Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	format := r.u16()
	switch format {
	case 1:
		count := int(r.u16())
		glyphs := make([]GlyphID, count)
		var d Digest
		for i := range glyphs {
			glyphs[i] = GlyphID(r.u16())
			d = d.addGlyph(glyphs[i])
		}
		if r.err != nil {
			return nil, r.err
		}
		return &coverageList{glyphs: glyphs, digest: d}, nil
	case 2:
		count := int(r.u16())
		ranges := make([]coverageRange, count)
		var d Digest
		for i := range ranges {
			ranges[i] = coverageRange{
				start:           GlyphID(r.u16()),
				end:             GlyphID(r.u16()),
				startCoverageID: int(r.u16()),
			}
			d = d.addRange(ranges[i].start, ranges[i].end)
		}
		if r.err != nil {
			return nil, r.err
		}
		return &coverageRanges{ranges: ranges, digest: d}, nil
	default:
		return nil, fmt.Errorf("unsupported coverage format %d", format)
	}
}

// emptyCoverage is returned whenever an offset is malformed; subtables that
// fail to resolve coverage become advisory no-ops per the failure
// semantics of the lookup engine.
type emptyCoverage struct{}

func (emptyCoverage) Index(GlyphID) (int, bool)      { return 0, false }
func (emptyCoverage) Contains(GlyphID) bool          { return false }
func (emptyCoverage) Glyphs(func(GlyphID, int) bool) {}
func (emptyCoverage) Digest() Digest                 { return 0 }
