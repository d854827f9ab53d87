package ot

import "fmt"

// LookupFlag is the GSUB/GPOS LookupFlag bitset: it controls which glyphs
// the skippy iterator passes over while a lookup is being matched.
type LookupFlag uint16

const (
	LookupRightToLeft         LookupFlag = 0x0001
	LookupIgnoreBaseGlyphs    LookupFlag = 0x0002
	LookupIgnoreLigatures     LookupFlag = 0x0004
	LookupIgnoreMarks         LookupFlag = 0x0008
	LookupUseMarkFilteringSet LookupFlag = 0x0010
	lookupReserved            LookupFlag = 0x00E0
	LookupMarkAttachmentType  LookupFlag = 0xFF00
)

// MarkAttachClass extracts the mark-attachment class selector packed into
// the high byte of the lookup flag.
func (f LookupFlag) MarkAttachClass() uint16 {
	return uint16(f>>8) & 0xFF
}

// Lookup is one entry of a LookupList: a type tag, a flag, and the parsed
// subtables. Type-7 (GSUB) / Type-9 (GPOS) "Extension" indirection is
// unwrapped at parse time, so Type here is always the concrete type.
//
// Digest summarizes the union of first-glyph coverage across Subtables,
// letting the engine skip this lookup outright for a glyph it provably
// does not touch.
type Lookup struct {
	Type             uint16
	Flag             LookupFlag
	MarkFilteringSet uint16
	Subtables        []any
	Digest           Digest
}

// LookupList is the decoded LookupList shared by GSUB and GPOS.
type LookupList struct {
	Lookups []*Lookup
}

func (ll *LookupList) At(i uint16) *Lookup {
	if int(i) >= len(ll.Lookups) {
		return nil
	}
	return ll.Lookups[i]
}

// subtableParser decodes one subtable's body (already positioned past the
// lookup-type dispatch) given the enclosing table's bytes, the subtable's
// absolute offset, and the lookup type. It returns the parsed subtable
// value plus the Coverage used to compute the subtable's digest
// contribution (nil if the subtable yields no first-glyph coverage, e.g.
// a format-3 context rule with no input positions).
type subtableParser func(b []byte, offset int, lookupType uint16) (sub any, cov Coverage, err error)

func parseLookupList(b []byte, offset int, parseSub subtableParser) (*LookupList, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return &LookupList{}, nil
	}
	count := int(r.u16())
	offsets := make([]uint16, count)
	for i := range offsets {
		offsets[i] = r.u16()
	}
	if r.err != nil {
		return nil, fmt.Errorf("LookupList: %w", r.err)
	}
	base := r.data
	ll := &LookupList{Lookups: make([]*Lookup, count)}
	for i, off := range offsets {
		lk, err := parseLookup(base, int(off), parseSub)
		if err != nil {
			ll.Lookups[i] = &Lookup{} // malformed lookup: present but inert
			continue
		}
		ll.Lookups[i] = lk
	}
	return ll, nil
}

const (
	gsubExtensionType = 7
	gposExtensionType = 9
)

func parseLookup(b []byte, offset int, parseSub subtableParser) (*Lookup, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, err
	}
	lookupType := r.u16()
	flag := LookupFlag(r.u16())
	count := int(r.u16())
	subOffsets := make([]uint16, count)
	for i := range subOffsets {
		subOffsets[i] = r.u16()
	}
	var markFilteringSet uint16
	if flag&LookupUseMarkFilteringSet != 0 {
		markFilteringSet = r.u16()
	}
	if r.err != nil {
		return nil, r.err
	}
	base := r.data
	lk := &Lookup{Flag: flag, MarkFilteringSet: markFilteringSet}
	lk.Subtables = make([]any, 0, count)
	for _, off := range subOffsets {
		effectiveType, effOffset, effBase := lookupType, int(off), base
		if lookupType == gsubExtensionType || lookupType == gposExtensionType {
			t, newOff, newBase, err := unwrapExtension(base, int(off))
			if err != nil {
				continue
			}
			effectiveType, effOffset, effBase = t, newOff, newBase
		}
		sub, cov, err := parseSub(effBase, effOffset, effectiveType)
		if err != nil {
			continue // malformed subtable: advisory no-op, never fatal
		}
		lk.Subtables = append(lk.Subtables, sub)
		if cov != nil {
			lk.Digest = lk.Digest.Union(cov.Digest())
		}
	}
	lk.Type = lookupType
	if lookupType == gsubExtensionType || lookupType == gposExtensionType {
		// All extension subtables of one lookup share the lookup's
		// declared "true" type only by convention; recover it from the
		// first successfully unwrapped entry, defaulting to 0 (skip) if
		// every entry was malformed.
		lk.Type = firstUnwrappedType(base, subOffsets)
	}
	return lk, nil
}

func firstUnwrappedType(base []byte, offsets []uint16) uint16 {
	for _, off := range offsets {
		t, _, _, err := unwrapExtension(base, int(off))
		if err == nil {
			return t
		}
	}
	return 0
}

// unwrapExtension dereferences a Type-7/9 ExtensionSubstFormat1 table,
// returning the real lookup type, the real subtable's offset, and the
// byte slice that offset is relative to.
func unwrapExtension(b []byte, offset int) (realType uint16, realOffset int, base []byte, err error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return 0, 0, nil, err
	}
	r.skip(2) // format, always 1
	realType = r.u16()
	off32 := r.offset32()
	if r.err != nil {
		return 0, 0, nil, r.err
	}
	return realType, offset + off32, b, nil
}

// --- Shared GSUB/GPOS sequence-context (types 5/6 in GSUB, 7/8 in GPOS) ---

// SequenceLookupRecord invokes a nested lookup at a position relative to
// the start of a matched context sequence.
type SequenceLookupRecord struct {
	SequenceIndex uint16
	LookupIndex   uint16
}

// ContextSubtable is GSUB type 5 / GPOS type 7: apply nested lookups when
// an input sequence matches, expressed in one of three formats.
type ContextSubtable struct {
	Format int
	// Format 1: simple glyph sequences, keyed by first-glyph coverage.
	Coverage  Coverage
	RuleSets  [][]SimpleContextRule // indexed by coverage index
	// Format 2: class-based sequences.
	ClassDef  ClassDef
	ClassSets [][]ClassContextRule
	// Format 3: explicit per-position coverage.
	InputCoverage []Coverage
	Lookups       []SequenceLookupRecord
}

type SimpleContextRule struct {
	Input   []GlyphID // excludes the first glyph (implied by Coverage)
	Lookups []SequenceLookupRecord
}

type ClassContextRule struct {
	Input   []uint16
	Lookups []SequenceLookupRecord
}

// ChainContextSubtable is GSUB type 6 / GPOS type 8: like ContextSubtable
// but additionally requires backtrack and lookahead sequences to match.
type ChainContextSubtable struct {
	Format int
	Coverage Coverage
	RuleSets [][]ChainSimpleRule

	BacktrackClassDef, InputClassDef, LookaheadClassDef ClassDef
	ClassSets                                            [][]ChainClassRule

	BacktrackCoverage, InputCoverage, LookaheadCoverage []Coverage
	Lookups                                              []SequenceLookupRecord
}

type ChainSimpleRule struct {
	Backtrack []GlyphID
	Input     []GlyphID
	Lookahead []GlyphID
	Lookups   []SequenceLookupRecord
}

type ChainClassRule struct {
	Backtrack []uint16
	Input     []uint16
	Lookahead []uint16
	Lookups   []SequenceLookupRecord
}

func parseSequenceLookupRecords(r *reader, n int) []SequenceLookupRecord {
	out := make([]SequenceLookupRecord, n)
	for i := range out {
		out[i] = SequenceLookupRecord{SequenceIndex: r.u16(), LookupIndex: r.u16()}
	}
	return out
}

func parseContextSubtable(b []byte, offset int) (*ContextSubtable, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	format := int(r.u16())
	cs := &ContextSubtable{Format: format}
	switch format {
	case 1:
		covOffset := int(r.u16())
		count := int(r.u16())
		ruleSetOffsets := r.u16Array(count)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.Coverage, _ = parseCoverage(r.data, covOffset)
		cs.RuleSets = make([][]SimpleContextRule, count)
		for i, off := range ruleSetOffsets {
			cs.RuleSets[i] = parseSimpleRuleSet(r.data, int(off))
		}
	case 2:
		covOffset := int(r.u16())
		classDefOffset := int(r.u16())
		count := int(r.u16())
		ruleSetOffsets := r.u16Array(count)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.Coverage, _ = parseCoverage(r.data, covOffset)
		cs.ClassDef, _ = parseClassDef(r.data, classDefOffset)
		cs.ClassSets = make([][]ClassContextRule, count)
		for i, off := range ruleSetOffsets {
			cs.ClassSets[i] = parseClassRuleSet(r.data, int(off))
		}
	case 3:
		glyphCount := int(r.u16())
		lookupCount := int(r.u16())
		covOffsets := r.u16Array(glyphCount)
		cs.Lookups = parseSequenceLookupRecords(r, lookupCount)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.InputCoverage = make([]Coverage, glyphCount)
		for i, off := range covOffsets {
			cs.InputCoverage[i], _ = parseCoverage(r.data, int(off))
		}
	default:
		return nil, nil, fmt.Errorf("Context: unsupported format %d", format)
	}
	cov := cs.Coverage
	if format == 3 && len(cs.InputCoverage) > 0 {
		cov = cs.InputCoverage[0]
	}
	return cs, cov, nil
}

func parseSimpleRuleSet(b []byte, offset int) []SimpleContextRule {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	offsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	rules := make([]SimpleContextRule, 0, count)
	for _, off := range offsets {
		rr, err := newReader(r.data).subReader(int(off), len(r.data)-int(off))
		if err != nil {
			continue
		}
		glyphCount := int(rr.u16())
		lookupCount := int(rr.u16())
		if glyphCount == 0 {
			continue
		}
		input := make([]GlyphID, glyphCount-1)
		for i := range input {
			input[i] = GlyphID(rr.u16())
		}
		lookups := parseSequenceLookupRecords(rr, lookupCount)
		if rr.err != nil {
			continue
		}
		rules = append(rules, SimpleContextRule{Input: input, Lookups: lookups})
	}
	return rules
}

func parseClassRuleSet(b []byte, offset int) []ClassContextRule {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	offsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	rules := make([]ClassContextRule, 0, count)
	for _, off := range offsets {
		rr, err := newReader(r.data).subReader(int(off), len(r.data)-int(off))
		if err != nil {
			continue
		}
		glyphCount := int(rr.u16())
		lookupCount := int(rr.u16())
		if glyphCount == 0 {
			continue
		}
		input := rr.u16Array(glyphCount - 1)
		lookups := parseSequenceLookupRecords(rr, lookupCount)
		if rr.err != nil {
			continue
		}
		rules = append(rules, ClassContextRule{Input: input, Lookups: lookups})
	}
	return rules
}

func parseChainContextSubtable(b []byte, offset int) (*ChainContextSubtable, Coverage, error) {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil, nil, err
	}
	format := int(r.u16())
	cs := &ChainContextSubtable{Format: format}
	switch format {
	case 1:
		covOffset := int(r.u16())
		count := int(r.u16())
		ruleSetOffsets := r.u16Array(count)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.Coverage, _ = parseCoverage(r.data, covOffset)
		cs.RuleSets = make([][]ChainSimpleRule, count)
		for i, off := range ruleSetOffsets {
			cs.RuleSets[i] = parseChainSimpleRuleSet(r.data, int(off))
		}
	case 2:
		covOffset := int(r.u16())
		backtrackCDOffset := int(r.u16())
		inputCDOffset := int(r.u16())
		lookaheadCDOffset := int(r.u16())
		count := int(r.u16())
		ruleSetOffsets := r.u16Array(count)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.Coverage, _ = parseCoverage(r.data, covOffset)
		cs.BacktrackClassDef, _ = parseClassDef(r.data, backtrackCDOffset)
		cs.InputClassDef, _ = parseClassDef(r.data, inputCDOffset)
		cs.LookaheadClassDef, _ = parseClassDef(r.data, lookaheadCDOffset)
		cs.ClassSets = make([][]ChainClassRule, count)
		for i, off := range ruleSetOffsets {
			cs.ClassSets[i] = parseChainClassRuleSet(r.data, int(off))
		}
	case 3:
		backtrackCount := int(r.u16())
		backtrackOffsets := r.u16Array(backtrackCount)
		inputCount := int(r.u16())
		inputOffsets := r.u16Array(inputCount)
		lookaheadCount := int(r.u16())
		lookaheadOffsets := r.u16Array(lookaheadCount)
		lookupCount := int(r.u16())
		cs.Lookups = parseSequenceLookupRecords(r, lookupCount)
		if r.err != nil {
			return nil, nil, r.err
		}
		cs.BacktrackCoverage = parseCoverageList(r.data, backtrackOffsets)
		cs.InputCoverage = parseCoverageList(r.data, inputOffsets)
		cs.LookaheadCoverage = parseCoverageList(r.data, lookaheadOffsets)
		if len(cs.InputCoverage) > 0 {
			cs.Coverage = cs.InputCoverage[0]
		}
	default:
		return nil, nil, fmt.Errorf("ChainContext: unsupported format %d", format)
	}
	return cs, cs.Coverage, nil
}

func parseCoverageList(b []byte, offsets []uint16) []Coverage {
	out := make([]Coverage, len(offsets))
	for i, off := range offsets {
		out[i], _ = parseCoverage(b, int(off))
	}
	return out
}

func parseChainSimpleRuleSet(b []byte, offset int) []ChainSimpleRule {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	offsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	rules := make([]ChainSimpleRule, 0, count)
	for _, off := range offsets {
		rr, err := newReader(r.data).subReader(int(off), len(r.data)-int(off))
		if err != nil {
			continue
		}
		backtrack := readGlyphArrayCounted(rr)
		inputCount := int(rr.u16())
		if inputCount == 0 {
			continue
		}
		input := make([]GlyphID, inputCount-1)
		for i := range input {
			input[i] = GlyphID(rr.u16())
		}
		lookahead := readGlyphArrayCounted(rr)
		lookupCount := int(rr.u16())
		lookups := parseSequenceLookupRecords(rr, lookupCount)
		if rr.err != nil {
			continue
		}
		rules = append(rules, ChainSimpleRule{Backtrack: backtrack, Input: input, Lookahead: lookahead, Lookups: lookups})
	}
	return rules
}

func readGlyphArrayCounted(r *reader) []GlyphID {
	n := int(r.u16())
	out := make([]GlyphID, n)
	for i := range out {
		out[i] = GlyphID(r.u16())
	}
	return out
}

func parseChainClassRuleSet(b []byte, offset int) []ChainClassRule {
	r, err := newReader(b).subReader(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	count := int(r.u16())
	offsets := r.u16Array(count)
	if r.err != nil {
		return nil
	}
	rules := make([]ChainClassRule, 0, count)
	for _, off := range offsets {
		rr, err := newReader(r.data).subReader(int(off), len(r.data)-int(off))
		if err != nil {
			continue
		}
		backtrackCount := int(rr.u16())
		backtrack := rr.u16Array(backtrackCount)
		inputCount := int(rr.u16())
		if inputCount == 0 {
			continue
		}
		input := rr.u16Array(inputCount - 1)
		lookaheadCount := int(rr.u16())
		lookahead := rr.u16Array(lookaheadCount)
		lookupCount := int(rr.u16())
		lookups := parseSequenceLookupRecords(rr, lookupCount)
		if rr.err != nil {
			continue
		}
		rules = append(rules, ChainClassRule{Backtrack: backtrack, Input: input, Lookahead: lookahead, Lookups: lookups})
	}
	return rules
}
