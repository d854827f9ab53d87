package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// buildGPosCursive builds a GPOS table with one lookup: type 3 (cursive
// positioning). Glyph 1 has only an exit anchor (500, 200); glyph 2 has
// only an entry anchor (100, 50).
func buildGPosCursive() []byte {
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

	putU16(b, 18, ot.GPosCursive)
	putU16(b, 20, 0) // flag
	putU16(b, 22, 1) // subtable count
	putU16(b, 24, 8) // subOffsets[0], relative to offset 18 -> 26

	// CursivePos at offset 26.
	putU16(b, 26, 1)  // format, always 1
	putU16(b, 28, 26) // covOffset, relative to offset 26 -> 52
	putU16(b, 30, 2)  // entry/exit pair count
	putU16(b, 32, 0)  // pair[0] (glyph 1): entryOffset (none)
	putU16(b, 34, 14) // pair[0]: exitOffset, relative to offset 26 -> 40
	putU16(b, 36, 20) // pair[1] (glyph 2): entryOffset, relative to offset 26 -> 46
	putU16(b, 38, 0)  // pair[1]: exitOffset (none)

	// Exit anchor for glyph 1 at offset 40.
	putU16(b, 40, 1)
	putU16(b, 42, 500)
	putU16(b, 44, 200)

	// Entry anchor for glyph 2 at offset 46.
	putU16(b, 46, 1)
	putU16(b, 48, 100)
	putU16(b, 50, 50)

	// Coverage (glyphs 1, 2) at offset 52.
	putU16(b, 52, 1)
	putU16(b, 54, 2)
	putU16(b, 56, 1)
	putU16(b, 58, 2)

	return b
}

func TestApplyGPosLookupCursivePosAligns(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosCursive())
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

	require.True(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].YOffset)
	assert.Equal(t, int32(150), buf.Pos[1].YOffset) // 200 - 50 + prev's YOffset(0)
}

// buildGPosMarkToLigature builds a GPOS table with one lookup: type 5
// (mark-to-ligature), ligature glyph 5 has two components; the mark
// (glyph 7) attaches via buf.Info[i].LigComponent to pick the row.
func buildGPosMarkToLigature() []byte {
	b := make([]byte, 84)
	putU16(b, 0, 1)
	putU16(b, 2, 0)
	putU16(b, 4, 10)
	putU16(b, 6, 12)
	putU16(b, 8, 14)
	putU16(b, 10, 0)
	putU16(b, 12, 0)
	putU16(b, 14, 1)
	putU16(b, 16, 4)

	putU16(b, 18, ot.GPosMarkToLig)
	putU16(b, 20, 0)
	putU16(b, 22, 1)
	putU16(b, 24, 8) // subOffsets[0], relative to offset 18 -> 26

	// MarkLigPos at offset 26.
	putU16(b, 26, 1)  // format, always 1
	putU16(b, 28, 46) // markCovOffset, relative to offset 26 -> 72
	putU16(b, 30, 52) // ligCovOffset, relative to offset 26 -> 78
	putU16(b, 32, 1)  // classCount
	putU16(b, 34, 12) // markArrayOffset, relative to offset 26 -> 38
	putU16(b, 36, 24) // ligArrayOffset, relative to offset 26 -> 50

	// MarkArray at offset 38.
	putU16(b, 38, 1) // count
	putU16(b, 40, 0) // class
	putU16(b, 42, 6) // anchorOffset, relative to offset 38 -> 44
	putU16(b, 44, 1) // mark anchor: format
	putU16(b, 46, 10)
	putU16(b, 48, 700)

	// LigatureArray at offset 50.
	putU16(b, 50, 1) // ligature count
	putU16(b, 52, 4) // ligOffsets[0], relative to offset 50 -> 54

	// LigatureAttach at offset 54: 2 components, 1 mark class each.
	putU16(b, 54, 2) // compCount
	putU16(b, 56, 6) // offsets[0] (component 0), relative to offset 54 -> 60
	putU16(b, 58, 12) // offsets[1] (component 1), relative to offset 54 -> 66

	putU16(b, 60, 1) // component 0 anchor
	putU16(b, 62, 200)
	putU16(b, 64, 1000)

	putU16(b, 66, 1) // component 1 anchor
	putU16(b, 68, 400)
	putU16(b, 70, 1200)

	// Mark coverage (glyph 7) at offset 72.
	putU16(b, 72, 1)
	putU16(b, 74, 1)
	putU16(b, 76, 7)

	// Ligature coverage (glyph 5) at offset 78.
	putU16(b, 78, 1)
	putU16(b, 80, 1)
	putU16(b, 82, 5)

	return b
}

func TestApplyGPosLookupMarkToLigatureAttachesToComponent(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToLigature())
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GPos)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)
	buf.Info[0].GlyphID = 5 // ligature
	buf.Info[1].GlyphID = 7 // mark
	buf.Info[1].LigComponent = 1
	buf.Info[0].Mask = 1
	buf.Info[1].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	require.NotNil(t, lookup)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	require.True(t, applied)
	assert.Equal(t, int32(390), buf.Pos[1].XOffset) // 400 - 10
	assert.Equal(t, int32(500), buf.Pos[1].YOffset) // 1200 - 700
}

func TestApplyGPosLookupMarkToLigatureSkipsWithoutPrecedingLigature(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToLigature())
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.Info[0].GlyphID = 7 // mark with nothing preceding it
	buf.Info[0].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XOffset)
}

// buildGPosMarkToMark builds a GPOS table with one lookup: type 6
// (mark-to-mark), mark1 (glyph 9) attaching to mark2 (glyph 4).
func buildGPosMarkToMark() []byte {
	b := make([]byte, 72)
	putU16(b, 0, 1)
	putU16(b, 2, 0)
	putU16(b, 4, 10)
	putU16(b, 6, 12)
	putU16(b, 8, 14)
	putU16(b, 10, 0)
	putU16(b, 12, 0)
	putU16(b, 14, 1)
	putU16(b, 16, 4)

	putU16(b, 18, ot.GPosMarkToMark)
	putU16(b, 20, 0)
	putU16(b, 22, 1)
	putU16(b, 24, 8) // subOffsets[0], relative to offset 18 -> 26

	// MarkMarkPos at offset 26.
	putU16(b, 26, 1)  // format, always 1
	putU16(b, 28, 34) // mark1CovOffset, relative to offset 26 -> 60
	putU16(b, 30, 40) // mark2CovOffset, relative to offset 26 -> 66
	putU16(b, 32, 1)  // classCount
	putU16(b, 34, 12) // mark1ArrayOffset, relative to offset 26 -> 38
	putU16(b, 36, 24) // mark2ArrayOffset, relative to offset 26 -> 50

	// Mark1Array at offset 38.
	putU16(b, 38, 1) // count
	putU16(b, 40, 0) // class
	putU16(b, 42, 6) // anchorOffset, relative to offset 38 -> 44
	putU16(b, 44, 1) // mark1 anchor
	putU16(b, 46, 20)
	putU16(b, 48, 900)

	// Mark2Array (BaseArray-shaped) at offset 50.
	putU16(b, 50, 1) // count
	putU16(b, 52, 4) // offsets[0], relative to offset 50 -> 54
	putU16(b, 54, 1) // mark2 anchor
	putU16(b, 56, 300)
	putU16(b, 58, 1100)

	// Mark1 coverage (glyph 9) at offset 60.
	putU16(b, 60, 1)
	putU16(b, 62, 1)
	putU16(b, 64, 9)

	// Mark2 coverage (glyph 4) at offset 66.
	putU16(b, 66, 1)
	putU16(b, 68, 1)
	putU16(b, 70, 4)

	return b
}

func TestApplyGPosLookupMarkToMarkAttachesAnchor(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToMark())
	font, err := ot.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, font.GPos)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.AddCodepoint('B', 1)
	buf.Info[0].GlyphID = 4 // base mark
	buf.Info[1].GlyphID = 9 // combining mark
	buf.Info[0].Mask = 1
	buf.Info[1].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	require.NotNil(t, lookup)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	require.True(t, applied)
	assert.Equal(t, int32(280), buf.Pos[1].XOffset) // 300 - 20
	assert.Equal(t, int32(200), buf.Pos[1].YOffset)  // 1100 - 900
}

func TestApplyGPosLookupMarkToMarkSkipsWithoutPrecedingMark(t *testing.T) {
	data := assembleSfntWithGPosSub(buildGPosMarkToMark())
	font, err := ot.Parse(data)
	require.NoError(t, err)

	buf := buffer.New()
	buf.AddCodepoint('A', 0)
	buf.Info[0].GlyphID = 9
	buf.Info[0].Mask = 1

	lookup := font.GPos.LookupList.At(0)
	ctx := New(buf, font)
	applied := ApplyGPosLookup(ctx, font.GPos, lookup, 1)

	assert.False(t, applied)
	assert.Equal(t, int32(0), buf.Pos[0].XOffset)
}
