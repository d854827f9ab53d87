package otquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/ot"
)

// The helpers below assemble a minimal, valid single-font sfnt byte stream
// with a 'name' table carrying one Windows/BMP family-name record, enough
// to exercise NamesRange/HeadInfo/MaxPInfo/FontMetrics/GlyphMetrics against
// a real parsed *ot.Font rather than hand-built Go structs.

func put16(b []byte, off int, v uint16) { b[off], b[off+1] = byte(v>>8), byte(v) }
func put32(b []byte, off int, v uint32) {
	b[off], b[off+1], b[off+2], b[off+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

func buildHead(unitsPerEm uint16) []byte {
	b := make([]byte, 54)
	put16(b, 18, unitsPerEm)
	return b
}

func buildMaxp(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	put16(b, 4, numGlyphs)
	return b
}

func buildHHea(numHMetrics uint16, ascender, descender, lineGap int16, advanceWidthMax uint16) []byte {
	b := make([]byte, 38)
	put16(b, 4, uint16(ascender))
	put16(b, 6, uint16(descender))
	put16(b, 8, uint16(lineGap))
	put16(b, 10, advanceWidthMax)
	put16(b, 34, numHMetrics)
	return b
}

func buildHMtx(advances []uint16) []byte {
	b := make([]byte, 4*len(advances))
	for i, adv := range advances {
		put16(b, i*4, adv)
	}
	return b
}

func buildCMapFormat0(mapping map[byte]byte) []byte {
	sub := make([]byte, 262)
	put16(sub, 2, 262)
	for cp, gid := range mapping {
		sub[6+int(cp)] = gid
	}
	header := make([]byte, 12)
	put16(header, 2, 1) // numTables
	put16(header, 4, 3) // platformID (Windows)
	put16(header, 6, 1) // encodingID (BMP)
	put32(header, 8, 12)
	return append(header, sub...)
}

func buildNameTable(family string) []byte {
	utf16be := make([]byte, 0, len(family)*2)
	for _, r := range family {
		utf16be = append(utf16be, byte(r>>8), byte(r))
	}
	header := make([]byte, 6)
	put16(header, 0, 0) // format
	put16(header, 2, 1) // count
	put16(header, 4, 18) // stringOffset == header(6) + 1*record(12)

	record := make([]byte, 12)
	put16(record, 0, 3)      // platformID: Windows
	put16(record, 2, 1)      // encodingID: BMP
	put16(record, 4, 0x0409) // languageID: en-US
	put16(record, 6, 1)      // nameID: Family
	put16(record, 8, uint16(len(utf16be)))
	put16(record, 10, 0) // offset within storage

	out := append(header, record...)
	return append(out, utf16be...)
}

func assembleSfnt(tables map[string][]byte) []byte {
	order := []string{"head", "maxp", "hhea", "hmtx", "cmap", "name"}
	var names []string
	for _, n := range order {
		if _, ok := tables[n]; ok {
			names = append(names, n)
		}
	}
	dirLen := 12 + 16*len(names)
	out := make([]byte, dirLen)
	put32(out, 0, 0x00010000)
	put16(out, 4, uint16(len(names)))

	pos := dirLen
	for i, name := range names {
		data := tables[name]
		rec := 12 + i*16
		copy(out[rec:rec+4], name)
		put32(out, rec+8, uint32(pos))
		put32(out, rec+12, uint32(len(data)))
		out = append(out, data...)
		pos += len(data)
	}
	return out
}

func buildQueryTestFont(t *testing.T) *ot.Font {
	t.Helper()
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(2048),
		"maxp": buildMaxp(3),
		"hhea": buildHHea(3, 1900, -400, 100, 600),
		"hmtx": buildHMtx([]uint16{0, 500, 600}),
		"cmap": buildCMapFormat0(map[byte]byte{'A': 1, 'B': 2}),
		"name": buildNameTable("Testface"),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)
	return font
}

func TestNamesRangeDecodesFamilyName(t *testing.T) {
	font := buildQueryTestFont(t)
	got := map[NameID]string{}
	for id, s := range NamesRange(font) {
		got[id] = s
	}
	assert.Equal(t, "Testface", got[NameIDFamily])
}

func TestNamesRangeOnFontWithoutNameTable(t *testing.T) {
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(1),
		"hhea": buildHHea(1, 0, 0, 0, 0),
		"hmtx": buildHMtx([]uint16{0}),
		"cmap": buildCMapFormat0(map[byte]byte{'A': 1}),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)
	count := 0
	for range NamesRange(font) {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestHeadInfoDecodesUnitsPerEm(t *testing.T) {
	font := buildQueryTestFont(t)
	info, ok := HeadInfo(font)
	require.True(t, ok)
	assert.Equal(t, uint16(2048), info.UnitsPerEm)
}

func TestMaxPInfoDecodesNumGlyphs(t *testing.T) {
	font := buildQueryTestFont(t)
	info, ok := MaxPInfo(font)
	require.True(t, ok)
	assert.Equal(t, uint16(3), info.NumGlyphs)
	assert.False(t, info.HasExtendedProfile)
}

func TestFontMetricsReadsHHea(t *testing.T) {
	font := buildQueryTestFont(t)
	m := FontMetrics(font)
	assert.Equal(t, uint16(2048), m.UnitsPerEm)
	assert.Equal(t, int16(1900), m.Ascent)
	assert.Equal(t, int16(-400), m.Descent)
	assert.Equal(t, int16(100), m.LineGap)
	assert.Equal(t, uint16(600), m.MaxAdvance)
}

func TestGlyphIndexAndMetrics(t *testing.T) {
	font := buildQueryTestFont(t)
	gid := GlyphIndex(font, 'B')
	assert.Equal(t, ot.GlyphID(2), gid)

	metrics := GlyphMetrics(font, gid)
	assert.Equal(t, uint16(600), metrics.Advance)
}

func TestGlyphIndexUnmappedReturnsNotdef(t *testing.T) {
	font := buildQueryTestFont(t)
	assert.Equal(t, ot.GlyphID(0), GlyphIndex(font, 'Z'))
}
