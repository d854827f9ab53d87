package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// buildGPosSingleAdjust builds a GPOS table with an empty ScriptList/
// FeatureList and one lookup: type 1 (single positioning), format 1,
// applying a shared XAdvance delta to every glyph the coverage lists.
func buildGPosSingleAdjust(targetGlyph ot.GlyphID, xAdvanceDelta int16) []byte {
	b := make([]byte, 40)
	putU16(b, 0, 1)  // version high half
	putU16(b, 2, 0)  // version low half
	putU16(b, 4, 10) // scriptListOffset
	putU16(b, 6, 12) // featureListOffset
	putU16(b, 8, 14) // lookupListOffset
	putU16(b, 10, 0) // ScriptList.count = 0
	putU16(b, 12, 0) // FeatureList.count = 0
	putU16(b, 14, 1) // LookupList.count = 1
	putU16(b, 16, 4) // LookupList.offsets[0], relative to offset 14

	putU16(b, 18, ot.GPosSingle) // lookupType
	putU16(b, 20, 0)             // lookupFlag
	putU16(b, 22, 1)             // subtable count
	putU16(b, 24, 8)             // subOffsets[0], relative to offset 18

	putU16(b, 26, 1)                   // SinglePos format 1
	putU16(b, 28, 8)                   // covOffset, relative to offset 26
	putU16(b, 30, uint16(ot.ValueXAdvance)) // valueFormat
	putU16(b, 32, uint16(xAdvanceDelta))    // XAdvance value

	putU16(b, 34, 1)                 // Coverage format 1
	putU16(b, 36, 1)                 // Coverage glyph count
	putU16(b, 38, uint16(targetGlyph)) // covered glyph

	return b
}

func buildGPosTestFont(t *testing.T, targetGlyph ot.GlyphID, delta int16) *ot.Font {
	t.Helper()
	data := assembleSfntWithGPos(targetGlyph, delta)
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GPos)
	return font
}

// assembleSfntWithGPos mirrors assembleSfnt but swaps in a GPOS table,
// since assembleSfnt's fixed table order only has a GSUB slot.
func assembleSfntWithGPos(targetGlyph ot.GlyphID, delta int16) []byte {
	tables := map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(4),
		"hhea": buildHHea(4),
		"hmtx": buildHMtx([]uint16{0, 500, 500, 500}),
		"cmap": buildCMapFormat0(map[byte]byte{'A': byte(targetGlyph)}),
		"GPOS": buildGPosSingleAdjust(targetGlyph, delta),
	}
	order := []string{"head", "maxp", "hhea", "hmtx", "cmap", "GPOS"}
	dirLen := 12 + 16*len(order)
	out := make([]byte, dirLen)
	out[0], out[1], out[2], out[3] = 0, 1, 0, 0
	putU16(out, 4, uint16(len(order)))

	pos := dirLen
	for i, name := range order {
		data := tables[name]
		rec := 12 + i*16
		copy(out[rec:rec+4], name)
		out[rec+8], out[rec+9], out[rec+10], out[rec+11] = byte(pos>>24), byte(pos>>16), byte(pos>>8), byte(pos)
		l := len(data)
		out[rec+12], out[rec+13], out[rec+14], out[rec+15] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
		out = append(out, data...)
		pos += l
	}
	return out
}

func TestApplyGPosLookupSinglePosAdjustsXAdvance(t *testing.T) {
	font := buildGPosTestFont(t, 1, 50)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.Info[0].GlyphID = 1
	buf.Info[0].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	require.NotNil(t, lookup)

	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.True(t, applied)
	assert.Equal(t, int32(50), buf.Pos[0].XAdvance)
}

func TestApplyGPosLookupSkipsGlyphOutsideMask(t *testing.T) {
	font := buildGPosTestFont(t, 1, 50)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.Info[0].GlyphID = 1
	buf.Info[0].Mask = 0

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XAdvance)
}

func TestApplyGPosLookupSkipsUncoveredGlyph(t *testing.T) {
	font := buildGPosTestFont(t, 1, 50)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.Info[0].GlyphID = 2 // not the covered glyph (1)
	buf.Info[0].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XAdvance)
}
