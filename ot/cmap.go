package ot

import (
	"fmt"
	"sort"
)

// CMapTable is the decoded 'cmap' table: a single chosen subtable mapping
// codepoints to glyph IDs, plus an optional variation-selector subtable
// (format 14).
type CMapTable struct {
	subtable   cmapSubtable
	variations *cmapVariations
}

// cmapSubtable is implemented by every supported cmap subtable format.
type cmapSubtable interface {
	Lookup(cp rune) GlyphID
}

// Lookup maps a codepoint to a glyph ID, returning 0 (.notdef) if the
// codepoint is unmapped. If a variation selector follows cp in the source
// text, callers should prefer LookupVariant.
func (t *CMapTable) Lookup(cp rune) GlyphID {
	if t == nil || t.subtable == nil {
		return 0
	}
	return t.subtable.Lookup(cp)
}

// LookupVariant resolves (baseCp, selector) through the format-14 variation
// subtable if present. ok is false when there is no override, in which
// case the caller should fall back to Lookup(baseCp).
func (t *CMapTable) LookupVariant(baseCp, selector rune) (gid GlyphID, ok bool) {
	if t == nil || t.variations == nil {
		return 0, false
	}
	return t.variations.lookup(baseCp, selector, t.subtable)
}

type encodingRecord struct {
	platformID, encodingID uint16
	offset                 uint32
}

// cmapPreferenceRank ranks encoding records the way real fonts expect: Windows
// UCS-4 first, then Unicode full, then Windows BMP, then decreasing
// Unicode-platform encodings.
func cmapPreferenceRank(platformID, encodingID uint16) int {
	switch {
	case platformID == 3 && encodingID == 10:
		return 0
	case platformID == 0 && encodingID == 6:
		return 1
	case platformID == 3 && encodingID == 1:
		return 2
	case platformID == 0 && encodingID == 4:
		return 3
	case platformID == 0 && encodingID == 3:
		return 4
	case platformID == 0 && encodingID == 2:
		return 5
	case platformID == 0 && encodingID == 1:
		return 6
	case platformID == 0 && encodingID == 0:
		return 7
	default:
		return 1 << 30
	}
}

func parseCMap(b []byte) (*CMapTable, error) {
	r := newReader(b)
	r.skip(2) // version
	numTables := int(r.u16())
	records := make([]encodingRecord, numTables)
	for i := range records {
		records[i] = encodingRecord{
			platformID: r.u16(),
			encodingID: r.u16(),
			offset:     r.u32(),
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("cmap: %w", r.err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return cmapPreferenceRank(records[i].platformID, records[i].encodingID) <
			cmapPreferenceRank(records[j].platformID, records[j].encodingID)
	})

	t := &CMapTable{}
	var lastErr error
	for _, rec := range records {
		sub, err := parseCMapSubtable(b, int(rec.offset))
		if err != nil {
			lastErr = err
			continue
		}
		if vs, ok := sub.(*cmapVariations); ok {
			t.variations = vs
			continue
		}
		if t.subtable == nil {
			t.subtable = sub
		}
	}
	if t.subtable == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("cmap: no supported subtable found")
	}
	return t, nil
}

func parseCMapSubtable(b []byte, offset int) (any, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	format := r.u16()
	switch format {
	case 0:
		return parseCMapFormat0(r)
	case 4:
		return parseCMapFormat4(r)
	case 6:
		return parseCMapFormat6(r)
	case 10:
		return parseCMapFormat10(r)
	case 12, 13:
		return parseCMapFormat12or13(r, format == 13)
	case 14:
		return parseCMapFormat14(b, offset, r)
	default:
		return nil, fmt.Errorf("cmap: unsupported subtable format %d", format)
	}
}

// --- format 0: byte encoding table (256 glyphs, single byte) ---

type cmapFormat0 struct {
	glyphIDArray [256]byte
}

func (t *cmapFormat0) Lookup(cp rune) GlyphID {
	if cp < 0 || cp > 255 {
		return 0
	}
	return GlyphID(t.glyphIDArray[cp])
}

func parseCMapFormat0(r *reader) (*cmapFormat0, error) {
	r.skip(2) // length
	r.skip(2) // language
	t := &cmapFormat0{}
	b := r.take(256)
	if r.err != nil {
		return nil, r.err
	}
	copy(t.glyphIDArray[:], b)
	return t, nil
}

// --- format 4: segment mapping to delta values (BMP) ---

type cmapSegment struct {
	startCode, endCode uint16
	idDelta            int16
	idRangeOffset      uint16
	glyphIDArray       []byte
}

type cmapFormat4 struct {
	segments []cmapSegment
}

func (t *cmapFormat4) Lookup(cp rune) GlyphID {
	if cp < 0 || cp > 0xFFFF {
		return 0
	}
	c := uint16(cp)
	i := sort.Search(len(t.segments), func(i int) bool { return t.segments[i].endCode >= c })
	if i >= len(t.segments) || c < t.segments[i].startCode {
		return 0
	}
	seg := t.segments[i]
	if seg.idRangeOffset == 0 {
		return GlyphID(uint16(int32(c) + int32(seg.idDelta)))
	}
	// glyphIndex = *(idRangeOffset/2 + (c - startCode) + address of idRangeOffset word);
	// glyphIDArray is already anchored at that word's own address.
	byteOffset := int(seg.idRangeOffset) + 2*int(c-seg.startCode)
	if byteOffset < 0 || byteOffset+2 > len(seg.glyphIDArray) {
		return 0
	}
	raw := u16From(seg.glyphIDArray, byteOffset)
	if raw == 0 {
		return 0
	}
	return GlyphID(uint16(int32(raw) + int32(seg.idDelta)))
}

func u16From(b []byte, i int) uint16 {
	return uint16(b[i])<<8 | uint16(b[i+1])
}

func parseCMapFormat4(r *reader) (*cmapFormat4, error) {
	r.skip(2) // length
	r.skip(2) // language
	segCountX2 := int(r.u16())
	segCount := segCountX2 / 2
	r.skip(6) // searchRange, entrySelector, rangeShift

	ends := r.u16Array(segCount)
	r.skip(2) // reservedPad
	starts := r.u16Array(segCount)
	deltas := make([]int16, segCount)
	for i := range deltas {
		deltas[i] = r.i16()
	}
	// Each idRangeOffset is a byte offset counted from its own position in
	// the table, so we remember where each entry lives in r.data and hand
	// Lookup a view starting right there.
	rangeOffsetsPos := r.pos
	rangeOffsets := r.u16Array(segCount)
	if r.err != nil {
		return nil, r.err
	}

	segs := make([]cmapSegment, segCount)
	for i := 0; i < segCount; i++ {
		anchor := rangeOffsetsPos + 2*i
		var view []byte
		if anchor < len(r.data) {
			view = r.data[anchor:]
		}
		segs[i] = cmapSegment{
			startCode:     starts[i],
			endCode:       ends[i],
			idDelta:       deltas[i],
			idRangeOffset: rangeOffsets[i],
			glyphIDArray:  view,
		}
	}
	return &cmapFormat4{segments: segs}, nil
}

// --- format 6: trimmed table mapping ---

type cmapFormat6 struct {
	firstCode    uint16
	glyphIDArray []uint16
}

func (t *cmapFormat6) Lookup(cp rune) GlyphID {
	if cp < rune(t.firstCode) {
		return 0
	}
	i := int(cp) - int(t.firstCode)
	if i >= len(t.glyphIDArray) {
		return 0
	}
	return GlyphID(t.glyphIDArray[i])
}

func parseCMapFormat6(r *reader) (*cmapFormat6, error) {
	r.skip(2) // length
	r.skip(2) // language
	first := r.u16()
	count := int(r.u16())
	arr := r.u16Array(count)
	if r.err != nil {
		return nil, r.err
	}
	return &cmapFormat6{firstCode: first, glyphIDArray: arr}, nil
}

// --- format 10: trimmed array (32-bit) ---

type cmapFormat10 struct {
	firstCode    uint32
	glyphIDArray []uint16
}

func (t *cmapFormat10) Lookup(cp rune) GlyphID {
	if uint32(cp) < t.firstCode {
		return 0
	}
	i := uint32(cp) - t.firstCode
	if i >= uint32(len(t.glyphIDArray)) {
		return 0
	}
	return GlyphID(t.glyphIDArray[i])
}

func parseCMapFormat10(r *reader) (*cmapFormat10, error) {
	r.skip(2) // reserved
	r.skip(4) // length
	r.skip(4) // language
	first := r.u32()
	count := int(r.u32())
	arr := r.u16Array(count)
	if r.err != nil {
		return nil, r.err
	}
	return &cmapFormat10{firstCode: first, glyphIDArray: arr}, nil
}

// --- formats 12 & 13: segmented coverage (many-to-one for 13) ---

type cmapGroup struct {
	startCharCode, endCharCode uint32
	startGlyphID               uint32
}

type cmapFormat12or13 struct {
	groups     []cmapGroup
	manyToOne  bool // format 13: every char in a group maps to the same glyph
}

func (t *cmapFormat12or13) Lookup(cp rune) GlyphID {
	c := uint32(cp)
	i := sort.Search(len(t.groups), func(i int) bool { return t.groups[i].endCharCode >= c })
	if i >= len(t.groups) || c < t.groups[i].startCharCode {
		return 0
	}
	g := t.groups[i]
	if t.manyToOne {
		return GlyphID(g.startGlyphID)
	}
	return GlyphID(g.startGlyphID + (c - g.startCharCode))
}

func parseCMapFormat12or13(r *reader, manyToOne bool) (*cmapFormat12or13, error) {
	r.skip(2) // reserved
	r.skip(4) // length
	r.skip(4) // language
	numGroups := int(r.u32())
	groups := make([]cmapGroup, numGroups)
	for i := range groups {
		groups[i] = cmapGroup{
			startCharCode: r.u32(),
			endCharCode:   r.u32(),
			startGlyphID:  r.u32(),
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &cmapFormat12or13{groups: groups, manyToOne: manyToOne}, nil
}

// --- format 14: Unicode variation sequences ---

type varSelectorRecord struct {
	varSelector          uint32
	defaultUVSOffset     uint32
	nonDefaultUVSOffset  uint32
}

type cmapVariations struct {
	data      []byte
	selectors []varSelectorRecord
}

func parseCMapFormat14(b []byte, tableOffset int, r *reader) (*cmapVariations, error) {
	r.skip(4) // length
	numRecords := int(r.u32())
	recs := make([]varSelectorRecord, numRecords)
	for i := range recs {
		recs[i] = varSelectorRecord{
			varSelector:         r.u24(),
			defaultUVSOffset:    r.u32(),
			nonDefaultUVSOffset: r.u32(),
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &cmapVariations{data: b[tableOffset:], selectors: recs}, nil
}

func (v *cmapVariations) lookup(base, selector rune, fallback cmapSubtable) (GlyphID, bool) {
	i := sort.Search(len(v.selectors), func(i int) bool { return v.selectors[i].varSelector >= uint32(selector) })
	if i >= len(v.selectors) || v.selectors[i].varSelector != uint32(selector) {
		return 0, false
	}
	rec := v.selectors[i]
	if rec.nonDefaultUVSOffset != 0 {
		if gid, ok := v.lookupNonDefaultUVS(int(rec.nonDefaultUVSOffset), base); ok {
			return gid, true
		}
	}
	if rec.defaultUVSOffset != 0 {
		// Default UVS table lists ranges that map to whatever the regular
		// cmap subtable would already produce; presence confirms the
		// sequence is valid without naming an override glyph.
		if v.inDefaultUVS(int(rec.defaultUVSOffset), base) {
			return fallback.Lookup(base), true
		}
	}
	return 0, false
}

func (v *cmapVariations) lookupNonDefaultUVS(offset int, base rune) (GlyphID, bool) {
	r, err := newReader(v.data).subReader(offset, len(v.data)-offset)
	if err != nil {
		return 0, false
	}
	count := int(r.u32())
	for i := 0; i < count; i++ {
		uv := r.u24()
		gid := r.u16()
		if uint32(base) == uv {
			return GlyphID(gid), true
		}
	}
	return 0, false
}

func (v *cmapVariations) inDefaultUVS(offset int, base rune) bool {
	r, err := newReader(v.data).subReader(offset, len(v.data)-offset)
	if err != nil {
		return false
	}
	count := int(r.u32())
	for i := 0; i < count; i++ {
		startCode := r.u24()
		additional := r.u8()
		if uint32(base) >= startCode && uint32(base) <= startCode+uint32(additional) {
			return true
		}
	}
	return false
}
