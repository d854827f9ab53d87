package ot

import "fmt"

// GPOS lookup types, after Extension (type 9) unwrapping.
const (
	GPosSingle       = 1
	GPosPair         = 2
	GPosCursive      = 3
	GPosMarkToBase   = 4
	GPosMarkToLig    = 5
	GPosMarkToMark   = 6
	GPosContext      = 7
	GPosChainContext = 8
)

// ValueFormat is the GPOS ValueRecord field-presence bitset.
type ValueFormat uint16

const (
	ValueXPlacement  ValueFormat = 0x0001
	ValueYPlacement  ValueFormat = 0x0002
	ValueXAdvance    ValueFormat = 0x0004
	ValueYAdvance    ValueFormat = 0x0008
	ValueXPlaDevice  ValueFormat = 0x0010
	ValueYPlaDevice  ValueFormat = 0x0020
	ValueXAdvDevice  ValueFormat = 0x0040
	ValueYAdvDevice  ValueFormat = 0x0080
)

// ValueRecord is a decoded GPOS adjustment: the fields actually present in
// the font (per its ValueFormat) plus any Device/VariationIndex deltas.
type ValueRecord struct {
	XPlacement, YPlacement int16
	XAdvance, YAdvance     int16
	XPlaDevice, YPlaDevice Device
	XAdvDevice, YAdvDevice Device
}

func parseValueRecord(r *reader, format ValueFormat, base []byte) ValueRecord {
	var v ValueRecord
	if format&ValueXPlacement != 0 {
		v.XPlacement = r.i16()
	}
	if format&ValueYPlacement != 0 {
		v.YPlacement = r.i16()
	}
	if format&ValueXAdvance != 0 {
		v.XAdvance = r.i16()
	}
	if format&ValueYAdvance != 0 {
		v.YAdvance = r.i16()
	}
	var xPlaOff, yPlaOff, xAdvOff, yAdvOff int
	if format&ValueXPlaDevice != 0 {
		xPlaOff = int(r.u16())
	}
	if format&ValueYPlaDevice != 0 {
		yPlaOff = int(r.u16())
	}
	if format&ValueXAdvDevice != 0 {
		xAdvOff = int(r.u16())
	}
	if format&ValueYAdvDevice != 0 {
		yAdvOff = int(r.u16())
	}
	v.XPlaDevice = resolveDevice(base, xPlaOff)
	v.YPlaDevice = resolveDevice(base, yPlaOff)
	v.XAdvDevice = resolveDevice(base, xAdvOff)
	v.YAdvDevice = resolveDevice(base, yAdvOff)
	return v
}

func resolveDevice(base []byte, offset int) Device {
	if offset == 0 {
		return noDevice{}
	}
	d, err := parseDevice(base, offset)
	if err != nil {
		return noDevice{}
	}
	return d
}

func valueRecordSize(format ValueFormat) int {
	n := 0
	for f := ValueFormat(1); f != 0 && f <= ValueYAdvDevice; f <<= 1 {
		if format&f != 0 {
			n += 2
		}
	}
	return n
}

// Anchor is a decoded Anchor table in any of its three encodings, resolved
// to an (X, Y) pair in font design units. Format 2's contour-point
// qualifier is dropped; Format 3's Device tables are kept in XDevice and
// YDevice (noDevice for formats 1 and 2).
type Anchor struct {
	X, Y int16
	XDevice, YDevice Device
}

func parseAnchor(b []byte, offset int) (*Anchor, error) {
	if offset == 0 {
		return nil, nil
	}
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	format := r.u16()
	a := &Anchor{XDevice: noDevice{}, YDevice: noDevice{}}
	a.X = r.i16()
	a.Y = r.i16()
	switch format {
	case 1:
		// no additional fields
	case 2:
		r.skip(2) // anchorPoint, a hinting-only contour index
	case 3:
		xDevOff := int(r.u16())
		yDevOff := int(r.u16())
		a.XDevice = resolveDevice(r.data, xDevOff)
		a.YDevice = resolveDevice(r.data, yDevOff)
	default:
		return nil, fmt.Errorf("Anchor: unsupported format %d", format)
	}
	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}

// MarkRecord pairs a mark glyph's attachment class with its anchor.
type MarkRecord struct {
	Class  uint16
	Anchor *Anchor
}

// MarkArray is the MarkArray table shared by MarkToBase/MarkToLigature/
// MarkToMark, indexed by mark-coverage index.
type MarkArray struct {
	Marks []MarkRecord
}

func parseMarkArray(b []byte, offset int) (*MarkArray, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	count := int(r.u16())
	type rec struct {
		class     uint16
		anchorOff int
	}
	recs := make([]rec, count)
	for i := range recs {
		recs[i] = rec{class: r.u16(), anchorOff: int(r.u16())}
	}
	if r.err != nil {
		return nil, r.err
	}
	ma := &MarkArray{Marks: make([]MarkRecord, count)}
	for i, rc := range recs {
		a, _ := parseAnchor(r.data, rc.anchorOff)
		ma.Marks[i] = MarkRecord{Class: rc.class, Anchor: a}
	}
	return ma, nil
}

// SinglePos is GPOS lookup type 1.
type SinglePos struct {
	Coverage Coverage
	Format   uint16
	Value    ValueRecord   // format 1: one shared value
	Values   []ValueRecord // format 2: per coverage-index value
}

func (s *SinglePos) ValueFor(g GlyphID) (ValueRecord, bool) {
	idx, ok := s.Coverage.Index(g)
	if !ok {
		return ValueRecord{}, false
	}
	if s.Format == 1 {
		return s.Value, true
	}
	if idx >= len(s.Values) {
		return ValueRecord{}, false
	}
	return s.Values[idx], true
}

// PairRecord is one second-glyph entry of a PairPos format-1 pair set.
type PairRecord struct {
	Second      GlyphID
	First, SecondValue ValueRecord
}

type PairPos struct {
	Coverage Coverage
	Format   uint16
	// format 1: indexed by first-glyph coverage index.
	PairSets [][]PairRecord
	// format 2: glyphs classified, then indexed by [class1][class2].
	ClassDef1, ClassDef2 ClassDef
	ClassRecords         [][]struct{ First, Second ValueRecord }
}

// CursivePos is GPOS lookup type 3.
type CursiveEntry struct {
	Entry, Exit *Anchor
}

type CursivePos struct {
	Coverage Coverage
	Entries  []CursiveEntry
}

// MarkBasePos is GPOS lookup type 4.
type MarkBasePos struct {
	MarkCoverage, BaseCoverage Coverage
	MarkArray                  *MarkArray
	BaseArray                  [][]*Anchor // [base coverage index][mark class]
}

// MarkLigPos is GPOS lookup type 5.
type MarkLigPos struct {
	MarkCoverage, LigatureCoverage Coverage
	MarkArray                      *MarkArray
	LigatureArray                  [][][]*Anchor // [lig coverage idx][component][mark class]
}

// MarkMarkPos is GPOS lookup type 6.
type MarkMarkPos struct {
	Mark1Coverage, Mark2Coverage Coverage
	Mark1Array                  *MarkArray
	Mark2Array                  [][]*Anchor // [mark2 coverage idx][mark1 class]
}

// GPosTable is the decoded 'GPOS' table.
type GPosTable struct {
	ScriptList  *ScriptList
	FeatureList *FeatureList
	LookupList  *LookupList
}

func parseGPos(b []byte) (*GPosTable, error) {
	r := newReader(b)
	r.skip(4) // version
	scriptListOffset := int(r.u16())
	featureListOffset := int(r.u16())
	lookupListOffset := int(r.u16())
	if r.err != nil {
		return nil, fmt.Errorf("GPOS: %w", r.err)
	}
	t := &GPosTable{}
	var err error
	t.ScriptList, err = parseScriptList(b, scriptListOffset)
	if err != nil {
		return nil, err
	}
	t.FeatureList, err = parseFeatureList(b, featureListOffset)
	if err != nil {
		return nil, err
	}
	t.LookupList, err = parseLookupList(b, lookupListOffset, parseGPosSubtable)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseGPosSubtable(b []byte, offset int, lookupType uint16) (any, Coverage, error) {
	switch lookupType {
	case GPosSingle:
		return parseSinglePos(b, offset)
	case GPosPair:
		return parsePairPos(b, offset)
	case GPosCursive:
		return parseCursivePos(b, offset)
	case GPosMarkToBase:
		return parseMarkBasePos(b, offset)
	case GPosMarkToLig:
		return parseMarkLigPos(b, offset)
	case GPosMarkToMark:
		return parseMarkMarkPos(b, offset)
	case GPosContext:
		return parseContextSubtable(b, offset)
	case GPosChainContext:
		return parseChainContextSubtable(b, offset)
	default:
		return nil, nil, fmt.Errorf("GPOS: unsupported lookup type %d", lookupType)
	}
}

func parseSinglePos(b []byte, offset int) (*SinglePos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	format := r.u16()
	covOffset := int(r.u16())
	valueFormat := ValueFormat(r.u16())
	s := &SinglePos{Format: format}
	switch format {
	case 1:
		s.Value = parseValueRecord(r, valueFormat, r.data)
	case 2:
		count := int(r.u16())
		s.Values = make([]ValueRecord, count)
		for i := range s.Values {
			s.Values[i] = parseValueRecord(r, valueFormat, r.data)
		}
	default:
		return nil, nil, fmt.Errorf("SinglePos: unsupported format %d", format)
	}
	if r.err != nil {
		return nil, nil, r.err
	}
	s.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		s.Coverage = emptyCoverage{}
	}
	return s, s.Coverage, nil
}

func parsePairPos(b []byte, offset int) (*PairPos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	format := r.u16()
	covOffset := int(r.u16())
	p := &PairPos{Format: format}
	switch format {
	case 1:
		valueFormat1 := ValueFormat(r.u16())
		valueFormat2 := ValueFormat(r.u16())
		count := int(r.u16())
		setOffsets := r.u16Array(count)
		if r.err != nil {
			return nil, nil, r.err
		}
		p.PairSets = make([][]PairRecord, count)
		for i, off := range setOffsets {
			p.PairSets[i] = parsePairSet(r.data, int(off), valueFormat1, valueFormat2)
		}
	case 2:
		valueFormat1 := ValueFormat(r.u16())
		valueFormat2 := ValueFormat(r.u16())
		classDef1Offset := int(r.u16())
		classDef2Offset := int(r.u16())
		class1Count := int(r.u16())
		class2Count := int(r.u16())
		if r.err != nil {
			return nil, nil, r.err
		}
		p.ClassRecords = make([][]struct{ First, Second ValueRecord }, class1Count)
		for i := range p.ClassRecords {
			row := make([]struct{ First, Second ValueRecord }, class2Count)
			for j := range row {
				row[j].First = parseValueRecord(r, valueFormat1, r.data)
				row[j].Second = parseValueRecord(r, valueFormat2, r.data)
			}
			p.ClassRecords[i] = row
		}
		if r.err != nil {
			return nil, nil, r.err
		}
		p.ClassDef1, _ = parseClassDef(r.data, classDef1Offset)
		p.ClassDef2, _ = parseClassDef(r.data, classDef2Offset)
	default:
		return nil, nil, fmt.Errorf("PairPos: unsupported format %d", format)
	}
	var err2 error
	p.Coverage, err2 = parseCoverage(r.data, covOffset)
	if err2 != nil {
		p.Coverage = emptyCoverage{}
	}
	return p, p.Coverage, nil
}

func parsePairSet(b []byte, offset int, vf1, vf2 ValueFormat) []PairRecord {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	out := make([]PairRecord, count)
	for i := range out {
		second := GlyphID(r.u16())
		first := parseValueRecord(r, vf1, r.data)
		sv := parseValueRecord(r, vf2, r.data)
		out[i] = PairRecord{Second: second, First: first, SecondValue: sv}
	}
	if r.err != nil {
		return nil
	}
	return out
}

func parseCursivePos(b []byte, offset int) (*CursivePos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	covOffset := int(r.u16())
	count := int(r.u16())
	type pair struct{ entryOff, exitOff int }
	pairs := make([]pair, count)
	for i := range pairs {
		pairs[i] = pair{entryOff: int(r.u16()), exitOff: int(r.u16())}
	}
	if r.err != nil {
		return nil, nil, r.err
	}
	c := &CursivePos{Entries: make([]CursiveEntry, count)}
	for i, pr := range pairs {
		entry, _ := parseAnchor(r.data, pr.entryOff)
		exit, _ := parseAnchor(r.data, pr.exitOff)
		c.Entries[i] = CursiveEntry{Entry: entry, Exit: exit}
	}
	c.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		c.Coverage = emptyCoverage{}
	}
	return c, c.Coverage, nil
}

func parseMarkBasePos(b []byte, offset int) (*MarkBasePos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	markCovOffset := int(r.u16())
	baseCovOffset := int(r.u16())
	classCount := int(r.u16())
	markArrayOffset := int(r.u16())
	baseArrayOffset := int(r.u16())
	if r.err != nil {
		return nil, nil, r.err
	}
	m := &MarkBasePos{}
	m.MarkArray, _ = parseMarkArray(r.data, markArrayOffset)
	m.BaseArray = parseBaseArray(r.data, baseArrayOffset, classCount)
	m.MarkCoverage, err = parseCoverage(r.data, markCovOffset)
	if err != nil {
		m.MarkCoverage = emptyCoverage{}
	}
	m.BaseCoverage, err = parseCoverage(r.data, baseCovOffset)
	if err != nil {
		m.BaseCoverage = emptyCoverage{}
	}
	return m, m.MarkCoverage, nil
}

func parseBaseArray(b []byte, offset, classCount int) [][]*Anchor {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	offsets := r.u16Array(count * classCount)
	if r.err != nil {
		return nil
	}
	out := make([][]*Anchor, count)
	for i := 0; i < count; i++ {
		row := make([]*Anchor, classCount)
		for j := 0; j < classCount; j++ {
			row[j], _ = parseAnchor(r.data, int(offsets[i*classCount+j]))
		}
		out[i] = row
	}
	return out
}

func parseMarkLigPos(b []byte, offset int) (*MarkLigPos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	markCovOffset := int(r.u16())
	ligCovOffset := int(r.u16())
	classCount := int(r.u16())
	markArrayOffset := int(r.u16())
	ligArrayOffset := int(r.u16())
	if r.err != nil {
		return nil, nil, r.err
	}
	m := &MarkLigPos{}
	m.MarkArray, _ = parseMarkArray(r.data, markArrayOffset)
	m.LigatureArray = parseLigatureArray(r.data, ligArrayOffset, classCount)
	m.MarkCoverage, err = parseCoverage(r.data, markCovOffset)
	if err != nil {
		m.MarkCoverage = emptyCoverage{}
	}
	m.LigatureCoverage, err = parseCoverage(r.data, ligCovOffset)
	if err != nil {
		m.LigatureCoverage = emptyCoverage{}
	}
	return m, m.MarkCoverage, nil
}

func parseLigatureArray(b []byte, offset, classCount int) [][][]*Anchor {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	ligOffsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	out := make([][][]*Anchor, count)
	for i, off := range ligOffsets {
		out[i] = parseLigatureAttach(r.data, int(off), classCount)
	}
	return out
}

func parseLigatureAttach(b []byte, offset, classCount int) [][]*Anchor {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	compCount := int(r.u16())
	offsets := r.u16Array(compCount * classCount)
	if r.err != nil {
		return nil
	}
	out := make([][]*Anchor, compCount)
	for i := 0; i < compCount; i++ {
		row := make([]*Anchor, classCount)
		for j := 0; j < classCount; j++ {
			row[j], _ = parseAnchor(r.data, int(offsets[i*classCount+j]))
		}
		out[i] = row
	}
	return out
}

func parseMarkMarkPos(b []byte, offset int) (*MarkMarkPos, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	mark1CovOffset := int(r.u16())
	mark2CovOffset := int(r.u16())
	classCount := int(r.u16())
	mark1ArrayOffset := int(r.u16())
	mark2ArrayOffset := int(r.u16())
	if r.err != nil {
		return nil, nil, r.err
	}
	m := &MarkMarkPos{}
	m.Mark1Array, _ = parseMarkArray(r.data, mark1ArrayOffset)
	m.Mark2Array = parseBaseArray(r.data, mark2ArrayOffset, classCount)
	m.Mark1Coverage, err = parseCoverage(r.data, mark1CovOffset)
	if err != nil {
		m.Mark1Coverage = emptyCoverage{}
	}
	m.Mark2Coverage, err = parseCoverage(r.data, mark2CovOffset)
	if err != nil {
		m.Mark2Coverage = emptyCoverage{}
	}
	return m, m.Mark1Coverage, nil
}
