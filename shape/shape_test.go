package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// The helpers below assemble a minimal, valid single-font sfnt byte stream:
// just enough of head/maxp/hhea/hmtx/cmap (and optionally kern) for ot.Parse
// to succeed, with no GSUB/GPOS/morx tables — exercising the GSUB-absent/
// GPOS-absent fallback paths spec.md §4.11 names.

func putU16(b []byte, off int, v uint16) { b[off], b[off+1] = byte(v>>8), byte(v) }
func putI16(b []byte, off int, v int16)  { putU16(b, off, uint16(v)) }
func putU32(b []byte, off int, v uint32) {
	b[off], b[off+1], b[off+2], b[off+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

func buildHead(unitsPerEm uint16) []byte {
	b := make([]byte, 54)
	putU16(b, 18, unitsPerEm)
	return b
}

func buildMaxp(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	putU16(b, 4, numGlyphs)
	return b
}

func buildHHea(numHMetrics uint16) []byte {
	b := make([]byte, 38)
	putU16(b, 34, numHMetrics)
	return b
}

func buildHMtx(advances []uint16) []byte {
	b := make([]byte, 4*len(advances))
	for i, adv := range advances {
		putU16(b, i*4, adv)
		putI16(b, i*4+2, 0)
	}
	return b
}

// buildCMapFormat0 maps every rune in mapping (must be ASCII) to its glyph
// ID via a format-0 byte-encoding subtable, wrapped in a one-record cmap.
func buildCMapFormat0(mapping map[byte]byte) []byte {
	sub := make([]byte, 262)
	putU16(sub, 0, 0) // format
	putU16(sub, 2, 262)
	putU16(sub, 4, 0) // language
	for cp, gid := range mapping {
		sub[6+int(cp)] = gid
	}

	header := make([]byte, 12)
	putU16(header, 0, 0) // version
	putU16(header, 2, 1) // numTables
	putU16(header, 4, 1) // platformID (Macintosh)
	putU16(header, 6, 0) // encodingID
	putU32(header, 8, 12)
	return append(header, sub...)
}

func putU24(b []byte, off int, v uint32) {
	b[off], b[off+1], b[off+2] = byte(v>>16), byte(v>>8), byte(v)
}

// buildCMapFormat0AndVariation builds a two-record cmap: a format-0 table
// for the ordinary mapping plus a format-14 Unicode variation sequence
// subtable mapping (base, selector) to variantGID via a non-default UVS
// table, exercising CMap.LookupVariant.
func buildCMapFormat0AndVariation(mapping map[byte]byte, base, selector rune, variantGID byte) []byte {
	sub0 := make([]byte, 262)
	putU16(sub0, 0, 0) // format
	putU16(sub0, 2, 262)
	putU16(sub0, 4, 0) // language
	for cp, gid := range mapping {
		sub0[6+int(cp)] = gid
	}

	sub14 := make([]byte, 30)
	putU16(sub14, 0, 14) // format
	putU32(sub14, 2, 30) // length
	putU32(sub14, 6, 1)  // numVarSelectorRecords
	putU24(sub14, 10, uint32(selector))
	putU32(sub14, 13, 0)  // defaultUVSOffset (none)
	putU32(sub14, 17, 21) // nonDefaultUVSOffset, relative to the subtable's own start
	putU32(sub14, 21, 1)  // NonDefaultUVS.numUVSMappings
	putU24(sub14, 25, uint32(base))
	putU16(sub14, 28, uint16(variantGID))

	header := make([]byte, 12+2*8)
	putU16(header, 0, 0) // version
	putU16(header, 2, 2) // numTables
	// record 0: format-0, Macintosh
	putU16(header, 4, 1)
	putU16(header, 6, 0)
	putU32(header, 8, uint32(len(header)))
	// record 1: format-14, Unicode variation sequences (platform 0, encoding 5)
	putU16(header, 12, 0)
	putU16(header, 14, 5)
	putU32(header, 16, uint32(len(header)+len(sub0)))

	out := append(header, sub0...)
	out = append(out, sub14...)
	return out
}

func buildKernFormat0(pairs [][3]int16) []byte {
	n := len(pairs)
	b := make([]byte, 18+6*n)
	putU16(b, 0, 0) // version
	putU16(b, 2, 1) // nTables
	putU16(b, 4, 0) // subtable version
	putU16(b, 6, uint16(14+6*n))
	putU16(b, 8, 0) // coverage: format 0
	putU16(b, 10, uint16(n))
	pos := 18
	for _, p := range pairs {
		putU16(b, pos, uint16(p[0]))
		putU16(b, pos+2, uint16(p[1]))
		putI16(b, pos+4, p[2])
		pos += 6
	}
	return b
}

func assembleSfnt(tables map[string][]byte) []byte {
	order := []string{"head", "maxp", "hhea", "hmtx", "cmap", "kern"}
	var names []string
	for _, n := range order {
		if _, ok := tables[n]; ok {
			names = append(names, n)
		}
	}
	dirLen := 12 + 16*len(names)
	out := make([]byte, dirLen)
	putU32(out, 0, 0x00010000)
	putU16(out, 4, uint16(len(names)))

	pos := dirLen
	for i, name := range names {
		data := tables[name]
		rec := 12 + i*16
		copy(out[rec:rec+4], name)
		putU32(out, rec+8, uint32(pos))
		putU32(out, rec+12, uint32(len(data)))
		out = append(out, data...)
		pos += len(data)
	}
	return out
}

func buildTestFont(t *testing.T) *ot.Font {
	t.Helper()
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(3),
		"hhea": buildHHea(3),
		"hmtx": buildHMtx([]uint16{0, 500, 600}),
		"cmap": buildCMapFormat0(map[byte]byte{'A': 1, 'B': 2}),
		"kern": buildKernFormat0([][3]int16{{1, 2, -40}}),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)
	return font
}

func TestShapeMapsGlyphsWithNoGSub(t *testing.T) {
	font := buildTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)

	Shape(font, buf, Options{})

	require.Equal(t, 2, buf.Len())
	assert.Equal(t, ot.GlyphID(1), buf.Info[0].GlyphID)
	assert.Equal(t, ot.GlyphID(2), buf.Info[1].GlyphID)
}

func TestShapeKernFallbackAdjustsAdvance(t *testing.T) {
	font := buildTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)

	Shape(font, buf, Options{})

	assert.Equal(t, int32(500-40), buf.Pos[0].XAdvance)
	assert.Equal(t, int32(600), buf.Pos[1].XAdvance)
}

func TestShapeUnmappedCodepointKeepsClusterAndNotdef(t *testing.T) {
	font := buildTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('Z', 0) // not in the test cmap

	Shape(font, buf, Options{})

	assert.Equal(t, ot.NotDef, buf.Info[0].GlyphID)
	assert.Equal(t, uint32(0), buf.Info[0].Cluster)
}

func TestShapeMapToGlyphsConsultsVariationSelector(t *testing.T) {
	const base, selector = 'A', rune(0xFE0F) // VS16
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(3),
		"hhea": buildHHea(3),
		"hmtx": buildHMtx([]uint16{0, 500, 500}),
		"cmap": buildCMapFormat0AndVariation(map[byte]byte{'A': 1, 'B': 2}, base, selector, 9),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint(base, 0)
	buf.AddCodepoint(selector, 1)
	buf.AddCodepoint('B', 2)

	mapToGlyphs(buf, font)

	assert.Equal(t, ot.GlyphID(9), buf.Info[0].GlyphID, "base+selector should resolve through LookupVariant")
	assert.Equal(t, ot.GlyphID(2), buf.Info[2].GlyphID, "plain codepoint unaffected")
}

func TestShapeMapToGlyphsFallsBackWithoutVariantEntry(t *testing.T) {
	const base, selector = 'A', rune(0xFE0F)
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(3),
		"hhea": buildHHea(3),
		"hmtx": buildHMtx([]uint16{0, 500, 500}),
		// variation table keys on a different base than what follows the
		// selector in the buffer below, so LookupVariant must miss.
		"cmap": buildCMapFormat0AndVariation(map[byte]byte{'A': 1, 'B': 2}, 'B', selector, 9),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint(base, 0)
	buf.AddCodepoint(selector, 1)

	mapToGlyphs(buf, font)

	assert.Equal(t, ot.GlyphID(1), buf.Info[0].GlyphID, "no variant entry for this base: falls back to plain Lookup")
}

func TestShapeRTLReversesBuffer(t *testing.T) {
	font := buildTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)

	Shape(font, buf, Options{Direction: buffer.RTL, Script: ot.T("arab")})

	assert.Equal(t, ot.GlyphID(2), buf.Info[0].GlyphID)
	assert.Equal(t, ot.GlyphID(1), buf.Info[1].GlyphID)
}
