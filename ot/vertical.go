package ot

import (
	"fmt"
	"sort"
)

// VHeaTable is the decoded 'vhea' table: vertical-layout counterpart to
// hhea. Its presence signals the font carries real vertical metrics;
// absent, the shaper falls back to synthesizing vertical advances from
// horizontal ones (see DefaultVerticalAdvance).
type VHeaTable struct {
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceHeightMax    int16
	NumOfLongVerMetrics uint16
}

func parseVHea(b []byte) (*VHeaTable, error) {
	r := newReader(b)
	r.skip(4) // version
	v := &VHeaTable{}
	v.Ascender = r.i16()
	v.Descender = r.i16()
	v.LineGap = r.i16()
	v.AdvanceHeightMax = r.i16()
	r.skip(2 * 11)
	r.skip(2) // metricDataFormat
	v.NumOfLongVerMetrics = r.u16()
	if r.err != nil {
		return nil, fmt.Errorf("vhea: %w", r.err)
	}
	return v, nil
}

// VMtxTable is the decoded 'vmtx' table: per-glyph vertical advance and
// top side bearing, structured exactly like hmtx but for the vertical axis.
type VMtxTable struct {
	vMetrics     []longVerMetric
	topSideBearing []int16
}

type longVerMetric struct {
	advanceHeight uint16
	tsb           int16
}

func parseVMtx(b []byte, numVMetrics uint16, numGlyphs int) (*VMtxTable, error) {
	r := newReader(b)
	t := &VMtxTable{vMetrics: make([]longVerMetric, numVMetrics)}
	for i := range t.vMetrics {
		t.vMetrics[i] = longVerMetric{advanceHeight: r.u16(), tsb: r.i16()}
	}
	remaining := numGlyphs - int(numVMetrics)
	if remaining > 0 {
		t.topSideBearing = make([]int16, remaining)
		for i := range t.topSideBearing {
			t.topSideBearing[i] = r.i16()
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("vmtx: %w", r.err)
	}
	return t, nil
}

// Advance returns glyph g's vertical advance height in font units. If
// vmtx has no entries at all, callers should use DefaultVerticalAdvance
// instead (an empty metrics array means "apply the default").
func (t *VMtxTable) Advance(g GlyphID) (uint16, bool) {
	if len(t.vMetrics) == 0 {
		return 0, false
	}
	if int(g) < len(t.vMetrics) {
		return t.vMetrics[g].advanceHeight, true
	}
	return t.vMetrics[len(t.vMetrics)-1].advanceHeight, true
}

// DefaultVerticalAdvance synthesizes a vertical advance for fonts lacking
// vmtx: unitsPerEm scaled 1:1, the conventional fallback of "one em tall".
func DefaultVerticalAdvance(unitsPerEm uint16) int32 {
	return int32(unitsPerEm)
}

// VOrgTable is the decoded 'VORG' table: per-glyph vertical origin Y
// coordinates, used instead of vmtx's top-side-bearing-derived origin
// when present. Entries are sorted by glyph index and queried by binary
// search; glyphs absent from the table use DefaultVertOriginY.
type VOrgTable struct {
	DefaultVertOriginY int16
	entries            []vOrgEntry
}

type vOrgEntry struct {
	glyph GlyphID
	originY int16
}

func parseVOrg(b []byte) (*VOrgTable, error) {
	r := newReader(b)
	r.skip(2) // majorVersion
	r.skip(2) // minorVersion
	t := &VOrgTable{}
	t.DefaultVertOriginY = r.i16()
	count := int(r.u16())
	t.entries = make([]vOrgEntry, count)
	for i := range t.entries {
		t.entries[i] = vOrgEntry{glyph: GlyphID(r.u16()), originY: r.i16()}
	}
	if r.err != nil {
		return nil, fmt.Errorf("VORG: %w", r.err)
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].glyph < t.entries[j].glyph })
	return t, nil
}

// OriginY returns the vertical origin Y for glyph g, defaulting to
// DefaultVertOriginY when g has no explicit entry.
func (t *VOrgTable) OriginY(g GlyphID) int16 {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].glyph >= g })
	if i < len(t.entries) && t.entries[i].glyph == g {
		return t.entries[i].originY
	}
	return t.DefaultVertOriginY
}
