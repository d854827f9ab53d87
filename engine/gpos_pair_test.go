package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// buildGPosPairAdjust builds a GPOS table with one lookup: type 2 (pair
// positioning), format 1, a single pair set applying an XAdvance delta
// to the first glyph of the pair (first=1, second=2).
func buildGPosPairAdjust(xAdvanceDelta int16) []byte {
	b := make([]byte, 50)
	putU16(b, 0, 1)  // version hi
	putU16(b, 2, 0)  // version lo
	putU16(b, 4, 10) // scriptListOffset
	putU16(b, 6, 12) // featureListOffset
	putU16(b, 8, 14) // lookupListOffset
	putU16(b, 10, 0) // ScriptList.count = 0
	putU16(b, 12, 0) // FeatureList.count = 0
	putU16(b, 14, 1) // LookupList.count = 1
	putU16(b, 16, 4) // LookupList.offsets[0], relative to offset 14

	putU16(b, 18, ot.GPosPair) // lookupType
	putU16(b, 20, 0)           // lookupFlag
	putU16(b, 22, 1)           // subtable count
	putU16(b, 24, 8)           // subOffsets[0], relative to offset 18

	// PairPos format 1 subtable starts at offset 26.
	putU16(b, 26, 1)                       // format 1
	putU16(b, 28, 18)                       // covOffset, relative to offset 26
	putU16(b, 30, uint16(ot.ValueXAdvance)) // valueFormat1
	putU16(b, 32, 0)                        // valueFormat2 (no second-glyph value)
	putU16(b, 34, 1)                        // pairSet count
	putU16(b, 36, 12)                       // setOffsets[0], relative to offset 26

	// PairSet table at offset 38 (26+12).
	putU16(b, 38, 1)                   // record count
	putU16(b, 40, 2)                   // second glyph
	putU16(b, 42, uint16(xAdvanceDelta)) // first.XAdvance

	// Coverage (first glyph = 1) at offset 44 (26+18).
	putU16(b, 44, 1) // format 1
	putU16(b, 46, 1) // glyph count
	putU16(b, 48, 1) // covered glyph

	return b
}

// buildGPosMarkToBase builds a GPOS table with one lookup: type 4
// (mark-to-base), one mark class, mark glyph 3 attaching to base glyph 1.
// Mark anchor is (0, 700); base anchor is (500, 1000), so attachment
// should produce XOffset=500, YOffset=300.
func buildGPosMarkToBase() []byte {
	b := make([]byte, 72)
	putU16(b, 0, 1)  // version hi
	putU16(b, 2, 0)  // version lo
	putU16(b, 4, 10) // scriptListOffset
	putU16(b, 6, 12) // featureListOffset
	putU16(b, 8, 14) // lookupListOffset
	putU16(b, 10, 0) // ScriptList.count = 0
	putU16(b, 12, 0) // FeatureList.count = 0
	putU16(b, 14, 1) // LookupList.count = 1
	putU16(b, 16, 4) // LookupList.offsets[0], relative to offset 14

	putU16(b, 18, ot.GPosMarkToBase) // lookupType
	putU16(b, 20, 0)                 // lookupFlag
	putU16(b, 22, 1)                 // subtable count
	putU16(b, 24, 8)                 // subOffsets[0], relative to offset 18

	// MarkBasePos subtable starts at offset 26.
	putU16(b, 26, 1)  // format, always 1
	putU16(b, 28, 34) // markCovOffset, relative to offset 26
	putU16(b, 30, 40) // baseCovOffset, relative to offset 26
	putU16(b, 32, 1)  // mark class count
	putU16(b, 34, 12) // markArrayOffset, relative to offset 26
	putU16(b, 36, 24) // baseArrayOffset, relative to offset 26

	// MarkArray at offset 38 (26+12).
	putU16(b, 38, 1) // mark count
	putU16(b, 40, 0) // mark class 0
	putU16(b, 42, 6) // anchorOffset, relative to MarkArray start (38)
	putU16(b, 44, 1) // anchor format 1
	putU16(b, 46, 0) // anchor X
	putU16(b, 48, 700) // anchor Y

	// BaseArray at offset 50 (26+24).
	putU16(b, 50, 1) // base count
	putU16(b, 52, 4) // offsets[0], relative to BaseArray start (50)
	putU16(b, 54, 1) // anchor format 1
	putU16(b, 56, 500) // anchor X
	putU16(b, 58, 1000) // anchor Y

	// mark coverage (glyph 3) at offset 60 (26+34).
	putU16(b, 60, 1)
	putU16(b, 62, 1)
	putU16(b, 64, 3)

	// base coverage (glyph 1) at offset 66 (26+40).
	putU16(b, 66, 1)
	putU16(b, 68, 1)
	putU16(b, 70, 1)

	return b
}

func assembleSfntWithGPosSub(gpos []byte) []byte {
	tables := map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(4),
		"hhea": buildHHea(4),
		"hmtx": buildHMtx([]uint16{0, 500, 500, 500}),
		"cmap": buildCMapFormat0(map[byte]byte{'A': 1, 'B': 2, 'C': 3}),
		"GPOS": gpos,
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

func TestApplyGPosLookupPairPosAdjustsFirstGlyph(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosPairAdjust(75))
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GPos)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)
	buf.Info[0].GlyphID = 1
	buf.Info[1].GlyphID = 2
	buf.Info[0].Mask = 1
	buf.Info[1].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	require.NotNil(t, lookup)

	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.True(t, applied)
	assert.Equal(t, int32(75), buf.Pos[0].XAdvance)
	assert.Equal(t, int32(0), buf.Pos[1].XAdvance)
}

func TestApplyGPosLookupPairPosNoMatchForDifferentSecondGlyph(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosPairAdjust(75))
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('C', 1)
	buf.Info[0].GlyphID = 1
	buf.Info[1].GlyphID = 3 // not the expected second glyph (2)
	buf.Info[0].Mask = 1
	buf.Info[1].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XAdvance)
}

func TestApplyGPosLookupMarkToBaseAttachesAnchor(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToBase())
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GPos)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('M', 1)
	buf.Info[0].GlyphID = 1 // base
	buf.Info[1].GlyphID = 3 // mark
	buf.Info[0].Mask = 1
	buf.Info[1].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	require.NotNil(t, lookup)

	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.True(t, applied)
	assert.Equal(t, int32(500), buf.Pos[1].XOffset)
	assert.Equal(t, int32(300), buf.Pos[1].YOffset)
}

func TestApplyGPosLookupMarkToBaseSkipsWithoutPrecedingBase(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToBase())
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint('M', 0)
	buf.Info[0].GlyphID = 3 // mark, with nothing preceding it
	buf.Info[0].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XOffset)
}
