package ot

import "fmt"

// AAT reserves the first four glyph classes; font-defined classes start
// at 4. These are universal across every morx subtable type.
const (
	aatClassEndOfText    = 0
	aatClassOutOfBounds  = 1
	aatClassDeletedGlyph = 2
	aatClassEndOfLine    = 3
)

// aatLookupTable is AAT's generic glyph-keyed value table (used both for a
// state table's class lookup and for non-contextual substitution). Only
// the formats font compilers actually emit are supported: 0 (simple
// array), 2 (segment single), 4 (segment array), 6 (single table), 8
// (trimmed array).
type aatLookupTable struct {
	format uint16
	// format 0/8: direct array, optionally offset by firstGlyph.
	firstGlyph GlyphID
	values     []uint16
	// format 2/6: sorted (lastGlyph,firstGlyph,value) or (glyph,value)
	// segments, scanned linearly (tables are small; binary search buys
	// little and the segment layouts are not uniformly sized enough to
	// make sort.Search trivially correct here).
	segments []aatLookupSegment
	// format 4: segment array with per-glyph value arrays.
	segArrays []aatLookupSegArray
}

type aatLookupSegment struct {
	first, last GlyphID
	value       uint16
}

type aatLookupSegArray struct {
	first, last GlyphID
	values      []uint16 // one per glyph in [first, last]
}

// Lookup resolves g through the table, returning ok=false if g is outside
// the table's domain.
func (t *aatLookupTable) Lookup(g GlyphID) (uint16, bool) {
	return t.lookup(g)
}

func (t *aatLookupTable) lookup(g GlyphID) (uint16, bool) {
	if t == nil {
		return 0, false
	}
	switch t.format {
	case 0, 8:
		if g < t.firstGlyph {
			return 0, false
		}
		idx := int(g - t.firstGlyph)
		if idx < 0 || idx >= len(t.values) {
			return 0, false
		}
		return t.values[idx], true
	case 2, 6:
		for _, seg := range t.segments {
			if g >= seg.first && g <= seg.last {
				if t.format == 6 {
					return seg.value, true
				}
				return seg.value, true
			}
		}
		return 0, false
	case 4:
		for _, sa := range t.segArrays {
			if g >= sa.first && g <= sa.last {
				idx := int(g - sa.first)
				if idx < len(sa.values) {
					return sa.values[idx], true
				}
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// parseAATLookupTable parses an AAT generic Lookup Table at offset within
// b (b is the byte range the offset is relative to, typically the morx
// subtable's own payload).
func parseAATLookupTable(b []byte, offset int) (*aatLookupTable, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	format := r.u16()
	lt := &aatLookupTable{format: format}
	switch format {
	case 0:
		// Simple array: values run from glyph 0 to the end of the table;
		// bound by however many u16 entries remain.
		n := (len(r.data) - r.pos) / 2
		lt.values = r.u16Array(n)
	case 2, 6:
		r.skip(10) // binary search header: unitSize, nUnits, searchRange, entrySelector, rangeShift
		unitsStart := r.pos
		unitSize := 6
		if format == 6 {
			unitSize = 4
		}
		n := (len(r.data) - unitsStart) / unitSize
		lt.segments = make([]aatLookupSegment, 0, n)
		for i := 0; i < n; i++ {
			if format == 6 {
				g := GlyphID(r.u16())
				value := r.u16()
				if g == 0xFFFF {
					break // terminator sentinel
				}
				lt.segments = append(lt.segments, aatLookupSegment{first: g, last: g, value: value})
				continue
			}
			last := GlyphID(r.u16())
			first := GlyphID(r.u16())
			value := r.u16()
			if last == 0xFFFF && first == 0xFFFF {
				break // terminator sentinel
			}
			lt.segments = append(lt.segments, aatLookupSegment{first: first, last: last, value: value})
		}
	case 4:
		r.skip(10) // binary search header
		for {
			if r.pos+6 > len(r.data) {
				break
			}
			last := GlyphID(r.u16())
			first := GlyphID(r.u16())
			valuesOffset := int(r.u16())
			if last == 0xFFFF && first == 0xFFFF {
				break
			}
			if last < first {
				continue
			}
			count := int(last-first) + 1
			values := make([]uint16, count)
			for i := 0; i < count; i++ {
				values[i] = u16From(r.data, valuesOffset+2*i)
			}
			lt.segArrays = append(lt.segArrays, aatLookupSegArray{first: first, last: last, values: values})
		}
	case 8:
		lt.firstGlyph = GlyphID(r.u16())
		count := int(r.u16())
		lt.values = r.u16Array(count)
	default:
		return nil, fmt.Errorf("AAT lookup table: unsupported format %d", format)
	}
	if r.err != nil {
		return nil, r.err
	}
	return lt, nil
}

// AATStateTable is the common "extended" state-table header shared by
// every morx subtable type: a glyph classifier plus a [state][class]
// matrix of entry indices. Entry records themselves differ in shape per
// subtable type, so they stay as raw bytes here and are decoded on demand
// by each subtable's Entry method.
type AATStateTable struct {
	NClasses         uint32
	classes          *aatLookupTable
	stateArrayOffset int
	entryTableOffset int
	data             []byte // subtable-relative bytes, anchored at the STX header
}

// ClassOf returns g's state-machine class, defaulting to OutOfBounds for
// glyphs the class table does not cover.
func (t *AATStateTable) ClassOf(g GlyphID) uint16 {
	if c, ok := t.classes.lookup(g); ok {
		return c
	}
	return aatClassOutOfBounds
}

// NumStates reports how many state rows the array holds, derived from the
// span between the state array and the entry table (morx carries no
// explicit state count).
func (t *AATStateTable) NumStates() int {
	rowSize := int(t.NClasses) * 2
	if rowSize == 0 {
		return 0
	}
	n := (t.entryTableOffset - t.stateArrayOffset) / rowSize
	if n < 0 {
		return 0
	}
	return n
}

// EntryIndex returns the entry-table index to use for (state, class).
func (t *AATStateTable) EntryIndex(state int, class uint16) uint16 {
	rowSize := int(t.NClasses) * 2
	pos := t.stateArrayOffset + state*rowSize + int(class)*2
	if pos < 0 || pos+2 > len(t.data) {
		return 0
	}
	return u16From(t.data, pos)
}

func parseAATStateTableHeader(b []byte) (AATStateTable, int, error) {
	r := newReader(b)
	nClasses := r.u32()
	classTableOffset := int(r.u32())
	stateArrayOffset := int(r.u32())
	entryTableOffset := int(r.u32())
	if r.err != nil {
		return AATStateTable{}, 0, r.err
	}
	st := AATStateTable{
		NClasses:         nClasses,
		stateArrayOffset: stateArrayOffset,
		entryTableOffset: entryTableOffset,
		data:             b,
	}
	if classTableOffset != 0 {
		st.classes, _ = parseAATLookupTable(b, classTableOffset)
	}
	return st, r.pos, nil
}

// RearrangementEntry is a morx type-0 (indic/Apple glyph reordering) entry.
type RearrangementEntry struct {
	NewState uint16
	Flags    uint16
}

// RearrangementSubtable reorders a short run of glyphs in place (used e.g.
// for historic Indonesian scripts); the verb is packed into Flags' low
// nibble and is applied by the AAT engine, not this package.
type RearrangementSubtable struct {
	Machine AATStateTable
}

func (s *RearrangementSubtable) Entry(idx uint16) RearrangementEntry {
	pos := s.Machine.entryTableOffset + int(idx)*4
	if pos+4 > len(s.Machine.data) {
		return RearrangementEntry{}
	}
	return RearrangementEntry{NewState: u16From(s.Machine.data, pos), Flags: u16From(s.Machine.data, pos+2)}
}

// ContextualEntry is a morx type-1 entry: optional substitutions applied
// to the marked glyph and/or the current glyph via non-contextual lookup
// tables referenced by index.
type ContextualEntry struct {
	NewState     uint16
	Flags        uint16
	MarkIndex    uint16 // 0xFFFF = none
	CurrentIndex uint16 // 0xFFFF = none
}

// ContextualSubtable substitutes glyphs based on surrounding context,
// using a per-entry pair of substitution lookup tables.
type ContextualSubtable struct {
	Machine         AATStateTable
	substTableOffset int
	substTables     []*aatLookupTable // indexed by the per-entry Mark/CurrentIndex
}

func (s *ContextualSubtable) Entry(idx uint16) ContextualEntry {
	pos := s.Machine.entryTableOffset + int(idx)*8
	if pos+8 > len(s.Machine.data) {
		return ContextualEntry{MarkIndex: 0xFFFF, CurrentIndex: 0xFFFF}
	}
	return ContextualEntry{
		NewState:     u16From(s.Machine.data, pos),
		Flags:        u16From(s.Machine.data, pos+2),
		MarkIndex:    u16From(s.Machine.data, pos+4),
		CurrentIndex: u16From(s.Machine.data, pos+6),
	}
}

// SubstTable resolves one of the contextual subtable's per-entry
// substitution lookup tables (lazily decoded; many entries share 0xFFFF).
func (s *ContextualSubtable) SubstTable(index uint16) *aatLookupTable {
	if index == 0xFFFF || int(index) >= len(s.substTables) {
		return nil
	}
	return s.substTables[index]
}

// LigatureEntry is a morx type-2 entry; a non-zero SetsComponent/action
// flag (carried in Flags) drives the ligature-action interpreter.
type LigatureEntry struct {
	NewState      uint16
	Flags         uint16
	LigActionIndex uint16
}

// LigatureSubtable builds ligatures via a stack machine: each matched
// glyph pushes a component onto a stack, and a ligature action either
// continues accumulating or pops the stack into one ligature glyph.
type LigatureSubtable struct {
	Machine    AATStateTable
	LigActions []uint32 // per hb/Apple: bit 31 = last action, bit 30 = store, low 30 bits = signed glyph-index offset
	Components []uint16
	Ligatures  []GlyphID
}

func (s *LigatureSubtable) Entry(idx uint16) LigatureEntry {
	pos := s.Machine.entryTableOffset + int(idx)*6
	if pos+6 > len(s.Machine.data) {
		return LigatureEntry{}
	}
	return LigatureEntry{
		NewState:       u16From(s.Machine.data, pos),
		Flags:          u16From(s.Machine.data, pos+2),
		LigActionIndex: u16From(s.Machine.data, pos+4),
	}
}

// InsertionEntry is a morx type-5 entry: inserts glyphs before and/or
// after the current position using the insertion glyph list.
type InsertionEntry struct {
	NewState           uint16
	Flags              uint16
	CurrentInsertIndex uint16 // 0xFFFF = none
	MarkedInsertIndex  uint16 // 0xFFFF = none
}

// InsertionSubtable inserts glyphs (e.g. visible virama, explicit split
// vowels) relative to the current and marked positions.
type InsertionSubtable struct {
	Machine         AATStateTable
	InsertionGlyphs []GlyphID
}

func (s *InsertionSubtable) Entry(idx uint16) InsertionEntry {
	pos := s.Machine.entryTableOffset + int(idx)*8
	if pos+8 > len(s.Machine.data) {
		return InsertionEntry{CurrentInsertIndex: 0xFFFF, MarkedInsertIndex: 0xFFFF}
	}
	return InsertionEntry{
		NewState:           u16From(s.Machine.data, pos),
		Flags:              u16From(s.Machine.data, pos+2),
		CurrentInsertIndex: u16From(s.Machine.data, pos+4),
		MarkedInsertIndex:  u16From(s.Machine.data, pos+6),
	}
}

// NonContextualSubtable is morx type-4: an unconditional glyph->glyph
// substitution keyed by a single Lookup Table, applied to every glyph of
// the buffer with no state tracking at all.
type NonContextualSubtable struct {
	lookup *aatLookupTable
}

func (s *NonContextualSubtable) Substitute(g GlyphID) (GlyphID, bool) {
	v, ok := s.lookup.lookup(g)
	if !ok {
		return 0, false
	}
	return GlyphID(v), true
}

// MorxSubtableType enumerates the five morx subtable kinds.
type MorxSubtableType uint8

const (
	MorxRearrangement  MorxSubtableType = 0
	MorxContextual     MorxSubtableType = 1
	MorxLigature       MorxSubtableType = 2
	MorxNonContextual  MorxSubtableType = 4
	MorxInsertion      MorxSubtableType = 5
)

// MorxSubtable wraps exactly one of the five typed subtables, plus the
// coverage flags controlling direction and logical-order processing.
type MorxSubtable struct {
	Type            MorxSubtableType
	Vertical        bool
	Backwards       bool
	AllDirections   bool
	SubFeatureFlags uint32

	Rearrangement *RearrangementSubtable
	Contextual    *ContextualSubtable
	Ligature      *LigatureSubtable
	NonContextual *NonContextualSubtable
	Insertion     *InsertionSubtable
}

// MorxChain is one subtable chain: a default feature-flag mask and the
// ordered subtables applied while those flags remain enabled.
type MorxChain struct {
	DefaultFlags uint32
	Subtables    []MorxSubtable
}

// MorxTable is the decoded 'morx' table.
type MorxTable struct {
	Chains []MorxChain
}

func parseMorx(b []byte) (*MorxTable, error) {
	r := newReader(b)
	version := r.u16()
	r.skip(2) // unused
	nChains := int(r.u32())
	if r.err != nil {
		return nil, fmt.Errorf("morx: %w", r.err)
	}
	if version < 2 {
		return nil, fmt.Errorf("morx: unsupported version %d", version)
	}
	t := &MorxTable{Chains: make([]MorxChain, 0, nChains)}
	pos := r.pos
	for i := 0; i < nChains; i++ {
		chain, chainLen, err := parseMorxChain(b, pos)
		if err != nil {
			break // a malformed chain invalidates nothing parsed so far
		}
		t.Chains = append(t.Chains, chain)
		pos += chainLen
	}
	return t, nil
}

func parseMorxChain(b []byte, offset int) (MorxChain, int, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return MorxChain{}, 0, err
	}
	defaultFlags := r.u32()
	chainLength := int(r.u32())
	nFeatureEntries := int(r.u32())
	nSubtables := int(r.u32())
	r.skip(12 * nFeatureEntries) // feature subtable: type/setting/enable/disable masks, not consulted at the shaping layer
	if r.err != nil {
		return MorxChain{}, 0, r.err
	}
	chain := MorxChain{DefaultFlags: defaultFlags, Subtables: make([]MorxSubtable, 0, nSubtables)}
	pos := r.pos
	for i := 0; i < nSubtables; i++ {
		sub, subLen, err := parseMorxSubtable(b, offset+pos)
		if err != nil {
			break
		}
		chain.Subtables = append(chain.Subtables, sub)
		pos += subLen
	}
	return chain, chainLength, nil
}

func parseMorxSubtable(b []byte, offset int) (MorxSubtable, int, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return MorxSubtable{}, 0, err
	}
	length := int(r.u32())
	coverage := r.u32()
	subFeatureFlags := r.u32()
	if r.err != nil {
		return MorxSubtable{}, 0, r.err
	}
	sub := MorxSubtable{
		Type:            MorxSubtableType(coverage & 0xFF),
		Vertical:        coverage&0x80000000 != 0,
		Backwards:       coverage&0x40000000 != 0,
		AllDirections:   coverage&0x20000000 != 0,
		SubFeatureFlags: subFeatureFlags,
	}
	payload := r.data[r.pos:]
	var perr error
	switch sub.Type {
	case MorxRearrangement:
		st, _, e := parseAATStateTableHeader(payload)
		sub.Rearrangement = &RearrangementSubtable{Machine: st}
		perr = e
	case MorxContextual:
		st, hdrLen, e := parseAATStateTableHeader(payload)
		if e == nil {
			hr := newReader(payload)
			hr.skip(hdrLen)
			substTableOffset := int(hr.u32())
			cs := &ContextualSubtable{Machine: st, substTableOffset: substTableOffset}
			cs.substTables = collectContextualSubstTables(payload, substTableOffset)
			sub.Contextual = cs
		}
		perr = e
	case MorxLigature:
		st, hdrLen, e := parseAATStateTableHeader(payload)
		if e == nil {
			hr := newReader(payload)
			hr.skip(hdrLen)
			ligActionOffset := int(hr.u32())
			componentOffset := int(hr.u32())
			ligatureOffset := int(hr.u32())
			ls := &LigatureSubtable{Machine: st}
			ls.LigActions = readU32Array(payload, ligActionOffset, componentOffset)
			ls.Components = readU16Array(payload, componentOffset, ligatureOffset)
			ls.Ligatures = readGlyphArray(payload, ligatureOffset, len(payload))
			sub.Ligature = ls
		}
		perr = e
	case MorxNonContextual:
		lt, e := parseAATLookupTable(payload, 0)
		sub.NonContextual = &NonContextualSubtable{lookup: lt}
		perr = e
	case MorxInsertion:
		st, hdrLen, e := parseAATStateTableHeader(payload)
		if e == nil {
			hr := newReader(payload)
			hr.skip(hdrLen)
			insertionOffset := int(hr.u32())
			is := &InsertionSubtable{Machine: st}
			is.InsertionGlyphs = readGlyphArray(payload, insertionOffset, len(payload))
			sub.Insertion = is
		}
		perr = e
	default:
		perr = fmt.Errorf("morx: unsupported subtable type %d", sub.Type)
	}
	if perr != nil {
		return MorxSubtable{}, 0, perr
	}
	return sub, length, nil
}

// collectContextualSubstTables eagerly decodes every substitution lookup
// table referenced from a contextual subtable's per-entry indices. The
// format gives no explicit count, so this walks the array until the
// offsets stop increasing monotonically or the data runs out; malformed
// trailing data simply truncates the set, never errors.
func collectContextualSubstTables(payload []byte, tableOffset int) []*aatLookupTable {
	if tableOffset <= 0 || tableOffset >= len(payload) {
		return nil
	}
	var tables []*aatLookupTable
	r := newReader(payload)
	r.seek(tableOffset)
	prev := 0
	for r.err == nil && r.pos+4 <= len(payload) {
		off := int(r.u32())
		if off != 0 && off <= prev {
			break // offsets stopped increasing: past the end of the array
		}
		if off == 0 || off >= len(payload) {
			tables = append(tables, nil)
			continue
		}
		prev = off
		lt, err := parseAATLookupTable(payload, off)
		if err != nil {
			tables = append(tables, nil)
			continue
		}
		tables = append(tables, lt)
		if len(tables) > 64 {
			break // conservative cap; contextual subst tables rarely exceed a handful
		}
	}
	return tables
}

func readU32Array(b []byte, start, end int) []uint32 {
	if start < 0 || end > len(b) || start > end {
		return nil
	}
	n := (end - start) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binaryU32(b, start+4*i)
	}
	return out
}

func readU16Array(b []byte, start, end int) []uint16 {
	if start < 0 || end > len(b) || start > end {
		return nil
	}
	n := (end - start) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = u16From(b, start+2*i)
	}
	return out
}

func readGlyphArray(b []byte, start, end int) []GlyphID {
	vals := readU16Array(b, start, end)
	out := make([]GlyphID, len(vals))
	for i, v := range vals {
		out[i] = GlyphID(v)
	}
	return out
}

func binaryU32(b []byte, pos int) uint32 {
	if pos < 0 || pos+4 > len(b) {
		return 0
	}
	return uint32(b[pos])<<24 | uint32(b[pos+1])<<16 | uint32(b[pos+2])<<8 | uint32(b[pos+3])
}
