package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// buildGSubReverseChain builds a GSUB table with one lookup: type 8
// (reverse chaining single substitution), substituting glyph 2 -> 9 when
// preceded by glyph 1 and followed by glyph 3.
func buildGSubReverseChain() []byte {
	b := make([]byte, 60)
	putU16(b, 0, 1)  // version hi
	putU16(b, 2, 0)  // version lo
	putU16(b, 4, 10) // scriptListOffset
	putU16(b, 6, 12) // featureListOffset
	putU16(b, 8, 14) // lookupListOffset
	putU16(b, 10, 0) // ScriptList.count = 0
	putU16(b, 12, 0) // FeatureList.count = 0
	putU16(b, 14, 1) // LookupList.count = 1
	putU16(b, 16, 4) // LookupList.offsets[0], relative to offset 14 -> 18

	// Lookup 0 at offset 18.
	putU16(b, 18, ot.GSubReverseChaining)
	putU16(b, 20, 0) // flag
	putU16(b, 22, 1) // subtable count
	putU16(b, 24, 8) // subOffsets[0], relative to offset 18 -> 26

	// ReverseChainSingleSubst at offset 26.
	putU16(b, 26, 1)  // format, always 1
	putU16(b, 28, 28) // covOffset, relative to offset 26 -> 54
	putU16(b, 30, 1)  // backtrackCount
	putU16(b, 32, 16) // backtrackOffsets[0], relative to offset 26 -> 42
	putU16(b, 34, 1)  // lookaheadCount
	putU16(b, 36, 22) // lookaheadOffsets[0], relative to offset 26 -> 48
	putU16(b, 38, 1)  // glyphCount
	putU16(b, 40, 9)  // substitute glyph for coverage index 0

	// Backtrack coverage (glyph 1) at offset 42.
	putU16(b, 42, 1)
	putU16(b, 44, 1)
	putU16(b, 46, 1)

	// Lookahead coverage (glyph 3) at offset 48.
	putU16(b, 48, 1)
	putU16(b, 50, 1)
	putU16(b, 52, 3)

	// Input coverage (glyph 2) at offset 54.
	putU16(b, 54, 1)
	putU16(b, 56, 1)
	putU16(b, 58, 2)

	return b
}

func buildReverseChainTestFont(t *testing.T) *ot.Font {
	t.Helper()
	data := assembleSfnt(map[string][]byte{
		"head": buildHead(1000),
		"maxp": buildMaxp(10),
		"hhea": buildHHea(10),
		"hmtx": buildHMtx(make([]uint16, 10)),
		"cmap": buildCMapFormat0(map[byte]byte{'A': 1}),
		"GSUB": buildGSubReverseChain(),
	})
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GSub)
	return font
}

func TestApplyGSubLookupReverseChainSubstitutesBetweenContext(t *testing.T) {
	font := buildReverseChainTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('A', 1)
	buf.AddCodepoint('A', 2)
	buf.Info[0].GlyphID = 1
	buf.Info[1].GlyphID = 2
	buf.Info[2].GlyphID = 3
	for i := range buf.Info {
		buf.Info[i].Mask = 1
	}

	lookup := font.GSub.LookupList.At(0)
	require.NotNil(t, lookup)

	ctx := New(buf, font)
	applied := ApplyGSubLookup(ctx, font.GSub, lookup, 1)

	require.True(t, applied)
	require.Equal(t, 3, buf.Len())
	assert.Equal(t, ot.GlyphID(1), buf.Info[0].GlyphID)
	assert.Equal(t, ot.GlyphID(9), buf.Info[1].GlyphID)
	assert.Equal(t, ot.GlyphID(3), buf.Info[2].GlyphID)
}

func TestApplyGSubLookupReverseChainSkipsWithoutMatchingBacktrack(t *testing.T) {
	font := buildReverseChainTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('A', 1)
	buf.AddCodepoint('A', 2)
	buf.Info[0].GlyphID = 5 // not the required backtrack glyph (1)
	buf.Info[1].GlyphID = 2
	buf.Info[2].GlyphID = 3
	for i := range buf.Info {
		buf.Info[i].Mask = 1
	}

	lookup := font.GSub.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGSubLookup(ctx, font.GSub, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, ot.GlyphID(2), buf.Info[1].GlyphID)
}

func TestApplyGSubLookupReverseChainSkipsWithoutMatchingLookahead(t *testing.T) {
	font := buildReverseChainTestFont(t)
	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('A', 1)
	buf.AddCodepoint('A', 2)
	buf.Info[0].GlyphID = 1
	buf.Info[1].GlyphID = 2
	buf.Info[2].GlyphID = 6 // not the required lookahead glyph (3)
	for i := range buf.Info {
		buf.Info[i].Mask = 1
	}

	lookup := font.GSub.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGSubLookup(ctx, font.GSub, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, ot.GlyphID(2), buf.Info[1].GlyphID)
}
