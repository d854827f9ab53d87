package ot

import "fmt"

// KernPair is one glyph-pair kerning adjustment: Value is added to the
// first glyph's x_advance when it is immediately followed by Second.
type KernPair struct {
	First, Second GlyphID
	Value         int16
}

// KernTable is the legacy 'kern' table, used as a GPOS stand-in per
// spec.md §4.11 step 8 when a font has no GPOS kern feature. Only format-0
// (ordered pair list) and format-2 (two-dimensional class array) subtables
// are supported, the two formats spec.md names explicitly; others are
// skipped.
type KernTable struct {
	pairs map[uint32]int16
}

func kernKey(first, second GlyphID) uint32 {
	return uint32(first)<<16 | uint32(second)
}

// Lookup returns the kerning adjustment between an ordered glyph pair, or
// 0 if the table carries none.
func (t *KernTable) Lookup(first, second GlyphID) int16 {
	if t == nil {
		return 0
	}
	return t.pairs[kernKey(first, second)]
}

func parseKern(b []byte) (*KernTable, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("kern: too short")
	}
	r := newReader(b)
	majorVersion := r.u16()
	kt := &KernTable{pairs: make(map[uint32]int16)}
	if majorVersion == 1 {
		// Apple's "kern" version (Fixed 1.0 majorVersion==1 with a u32
		// nTables header) is not emitted by the fonts this shaper targets;
		// treat as having no subtables rather than misreading the header.
		return kt, nil
	}
	r2 := newReader(b)
	r2.skip(2) // version
	nTables := int(r2.u16())
	pos := r2.pos
	for i := 0; i < nTables && r2.err == nil; i++ {
		if pos+6 > len(b) {
			break
		}
		subReader := newReader(b)
		subReader.seek(pos)
		subReader.skip(2) // subtable version
		length := int(subReader.u16())
		coverage := subReader.u16()
		format := coverage >> 8
		if length < 6 || pos+length > len(b) {
			break
		}
		parseKernSubtable(b[pos:pos+length], format, kt)
		pos += length
	}
	return kt, nil
}

func parseKernSubtable(b []byte, format uint16, kt *KernTable) {
	switch format {
	case 0:
		parseKernFormat0(b, kt)
	case 2:
		parseKernFormat2(b, kt)
	}
}

func parseKernFormat0(b []byte, kt *KernTable) {
	r := newReader(b)
	r.skip(6) // subtable header: version, length, coverage
	nPairs := int(r.u16())
	r.skip(6) // searchRange, entrySelector, rangeShift
	for i := 0; i < nPairs; i++ {
		if r.pos+6 > len(b) {
			break
		}
		left := GlyphID(r.u16())
		right := GlyphID(r.u16())
		value := r.i16()
		if r.err != nil {
			break
		}
		kt.pairs[kernKey(left, right)] = value
	}
}

// parseKernFormat2 decodes the two-dimensional class-kerning format: a
// left-class lookup, a right-class lookup, and a row-major array of values
// indexed by (leftClass, rightClass).
func parseKernFormat2(b []byte, kt *KernTable) {
	r := newReader(b)
	r.skip(6) // subtable header
	rowWidth := int(r.u16())
	leftOffset := int(r.u16())
	rightOffset := int(r.u16())
	arrayOffset := int(r.u16())
	if r.err != nil || rowWidth == 0 {
		return
	}
	leftFirst, leftClasses := parseKernClassTable(b, leftOffset)
	rightFirst, rightClasses := parseKernClassTable(b, rightOffset)
	for li, lc := range leftClasses {
		left := GlyphID(leftFirst + uint16(li))
		for ri, rc := range rightClasses {
			right := GlyphID(rightFirst + uint16(ri))
			pos := arrayOffset + int(lc) + int(rc)
			if pos+2 > len(b) {
				continue
			}
			value := int16(u16From(b, pos))
			if value != 0 {
				kt.pairs[kernKey(left, right)] = value
			}
		}
	}
}

func parseKernClassTable(b []byte, offset int) (firstGlyph uint16, classValues []uint16) {
	if offset <= 0 || offset+6 > len(b) {
		return 0, nil
	}
	r := newReader(b)
	r.seek(offset)
	firstGlyph = r.u16()
	nGlyphs := int(r.u16())
	if r.err != nil || nGlyphs <= 0 || r.pos+2*nGlyphs > len(b) {
		return firstGlyph, nil
	}
	return firstGlyph, r.u16Array(nGlyphs)
}
