package ot

import "fmt"

// GSUB lookup types, after Extension (type 7) unwrapping.
const (
	GSubSingle          = 1
	GSubMultiple        = 2
	GSubAlternate       = 3
	GSubLigature        = 4
	GSubContext         = 5
	GSubChainContext    = 6
	GSubReverseChaining = 8
)

// GSubTable is the decoded 'GSUB' table.
type GSubTable struct {
	ScriptList  *ScriptList
	FeatureList *FeatureList
	LookupList  *LookupList
}

// SingleSubst is GSUB lookup type 1: one glyph maps to exactly one glyph.
type SingleSubst struct {
	Coverage Coverage
	// format 1: delta added (mod 65536) to the coverage index's glyph id.
	Delta int16
	hasDelta bool
	// format 2: explicit substitute per coverage index.
	Substitutes []GlyphID
}

func (s *SingleSubst) Apply(g GlyphID) (GlyphID, bool) {
	idx, ok := s.Coverage.Index(g)
	if !ok {
		return 0, false
	}
	if s.hasDelta {
		return GlyphID(uint16(int32(g) + int32(s.Delta))), true
	}
	if idx < 0 || idx >= len(s.Substitutes) {
		return 0, false
	}
	return s.Substitutes[idx], true
}

// MultipleSubst is GSUB lookup type 2: one glyph expands into a sequence.
type MultipleSubst struct {
	Coverage  Coverage
	Sequences [][]GlyphID // indexed by coverage index
}

func (s *MultipleSubst) Apply(g GlyphID) ([]GlyphID, bool) {
	idx, ok := s.Coverage.Index(g)
	if !ok || idx >= len(s.Sequences) {
		return nil, false
	}
	return s.Sequences[idx], true
}

// AlternateSubst is GSUB lookup type 3: one glyph has a set of candidate
// substitutes (used by e.g. CJK variant-selection features); shaping picks
// index 0 in the absence of an explicit alternate-selection mechanism.
type AlternateSubst struct {
	Coverage    Coverage
	Alternates  [][]GlyphID
}

func (s *AlternateSubst) Apply(g GlyphID) ([]GlyphID, bool) {
	idx, ok := s.Coverage.Index(g)
	if !ok || idx >= len(s.Alternates) {
		return nil, false
	}
	return s.Alternates[idx], true
}

// LigatureSubst is GSUB lookup type 4: a sequence of glyphs contracts to
// one ligature glyph.
type Ligature struct {
	GlyphID   GlyphID
	Component []GlyphID // glyphs after the first (implied by Coverage/set)
}

type LigatureSubst struct {
	Coverage Coverage
	Sets     [][]Ligature // indexed by coverage index
}

func (s *LigatureSubst) Apply(firstGlyph GlyphID) []Ligature {
	idx, ok := s.Coverage.Index(firstGlyph)
	if !ok || idx >= len(s.Sets) {
		return nil
	}
	return s.Sets[idx]
}

// ReverseChainSingleSubst is GSUB lookup type 8: single substitution
// applied back-to-front, the only format allowed to look both ways without
// invoking nested lookups.
type ReverseChainSingleSubst struct {
	Coverage          Coverage
	BacktrackCoverage []Coverage
	LookaheadCoverage []Coverage
	Substitutes       []GlyphID // indexed by coverage index
}

func (s *ReverseChainSingleSubst) Apply(g GlyphID) (GlyphID, bool) {
	idx, ok := s.Coverage.Index(g)
	if !ok || idx >= len(s.Substitutes) {
		return 0, false
	}
	return s.Substitutes[idx], true
}

func parseGSub(b []byte) (*GSubTable, error) {
	r := newReader(b)
	r.skip(4) // version
	scriptListOffset := int(r.u16())
	featureListOffset := int(r.u16())
	lookupListOffset := int(r.u16())
	if r.err != nil {
		return nil, fmt.Errorf("GSUB: %w", r.err)
	}
	t := &GSubTable{}
	var err error
	t.ScriptList, err = parseScriptList(b, scriptListOffset)
	if err != nil {
		return nil, err
	}
	t.FeatureList, err = parseFeatureList(b, featureListOffset)
	if err != nil {
		return nil, err
	}
	t.LookupList, err = parseLookupList(b, lookupListOffset, parseGSubSubtable)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseGSubSubtable(b []byte, offset int, lookupType uint16) (any, Coverage, error) {
	switch lookupType {
	case GSubSingle:
		return parseSingleSubst(b, offset)
	case GSubMultiple:
		return parseMultipleSubst(b, offset)
	case GSubAlternate:
		return parseAlternateSubst(b, offset)
	case GSubLigature:
		return parseLigatureSubst(b, offset)
	case GSubContext:
		return parseContextSubtable(b, offset)
	case GSubChainContext:
		return parseChainContextSubtable(b, offset)
	case GSubReverseChaining:
		return parseReverseChainSingleSubst(b, offset)
	default:
		return nil, nil, fmt.Errorf("GSUB: unsupported lookup type %d", lookupType)
	}
}

func parseSingleSubst(b []byte, offset int) (*SingleSubst, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	format := r.u16()
	covOffset := int(r.u16())
	s := &SingleSubst{}
	switch format {
	case 1:
		s.hasDelta = true
		s.Delta = r.i16()
	case 2:
		count := int(r.u16())
		subs := r.u16Array(count)
		s.Substitutes = make([]GlyphID, count)
		for i, g := range subs {
			s.Substitutes[i] = GlyphID(g)
		}
	default:
		return nil, nil, fmt.Errorf("SingleSubst: unsupported format %d", format)
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

func parseMultipleSubst(b []byte, offset int) (*MultipleSubst, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	covOffset := int(r.u16())
	count := int(r.u16())
	seqOffsets := r.u16Array(count)
	if r.err != nil {
		return nil, nil, r.err
	}
	s := &MultipleSubst{Sequences: make([][]GlyphID, count)}
	for i, off := range seqOffsets {
		s.Sequences[i] = parseSequenceTable(r.data, int(off))
	}
	s.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		s.Coverage = emptyCoverage{}
	}
	return s, s.Coverage, nil
}

func parseSequenceTable(b []byte, offset int) []GlyphID {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	out := make([]GlyphID, count)
	for i := range out {
		out[i] = GlyphID(r.u16())
	}
	if r.err != nil {
		return nil
	}
	return out
}

func parseAlternateSubst(b []byte, offset int) (*AlternateSubst, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	covOffset := int(r.u16())
	count := int(r.u16())
	setOffsets := r.u16Array(count)
	if r.err != nil {
		return nil, nil, r.err
	}
	s := &AlternateSubst{Alternates: make([][]GlyphID, count)}
	for i, off := range setOffsets {
		s.Alternates[i] = parseSequenceTable(r.data, int(off))
	}
	s.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		s.Coverage = emptyCoverage{}
	}
	return s, s.Coverage, nil
}

func parseLigatureSubst(b []byte, offset int) (*LigatureSubst, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	covOffset := int(r.u16())
	count := int(r.u16())
	setOffsets := r.u16Array(count)
	if r.err != nil {
		return nil, nil, r.err
	}
	s := &LigatureSubst{Sets: make([][]Ligature, count)}
	for i, off := range setOffsets {
		s.Sets[i] = parseLigatureSet(r.data, int(off))
	}
	s.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		s.Coverage = emptyCoverage{}
	}
	return s, s.Coverage, nil
}

func parseLigatureSet(b []byte, offset int) []Ligature {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	ligOffsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	out := make([]Ligature, 0, count)
	for _, off := range ligOffsets {
		lr, err := newReader(r.data).subReader(int(off), len(r.data)-int(off))
		if err != nil {
			continue
		}
		ligGlyph := GlyphID(lr.u16())
		compCount := int(lr.u16())
		if compCount == 0 {
			continue
		}
		comp := make([]GlyphID, compCount-1)
		for i := range comp {
			comp[i] = GlyphID(lr.u16())
		}
		if lr.err != nil {
			continue
		}
		out = append(out, Ligature{GlyphID: ligGlyph, Component: comp})
	}
	return out
}

func parseReverseChainSingleSubst(b []byte, offset int) (*ReverseChainSingleSubst, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	r.skip(2) // format, always 1
	covOffset := int(r.u16())
	backtrackCount := int(r.u16())
	backtrackOffsets := r.u16Array(backtrackCount)
	lookaheadCount := int(r.u16())
	lookaheadOffsets := r.u16Array(lookaheadCount)
	glyphCount := int(r.u16())
	subs := r.u16Array(glyphCount)
	if r.err != nil {
		return nil, nil, r.err
	}
	s := &ReverseChainSingleSubst{
		BacktrackCoverage: parseCoverageList(r.data, backtrackOffsets),
		LookaheadCoverage: parseCoverageList(r.data, lookaheadOffsets),
		Substitutes:       make([]GlyphID, glyphCount),
	}
	for i, g := range subs {
		s.Substitutes[i] = GlyphID(g)
	}
	s.Coverage, err = parseCoverage(r.data, covOffset)
	if err != nil {
		s.Coverage = emptyCoverage{}
	}
	return s, s.Coverage, nil
}
