package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGDef assembles a GDEF table (version 1.2) with a glyph-class
// def (glyph 1 = base, glyph 2 = mark, glyph 3 = ligature), a
// mark-attachment-class def (glyph 2 = class 5), and one mark-glyph-set
// containing glyph 5.
func buildGDef() []byte {
	b := make([]byte, 48)
	putU16 := func(off int, v uint16) { b[off] = byte(v >> 8); b[off+1] = byte(v) }
	putU32 := func(off int, v uint32) {
		b[off], b[off+1], b[off+2], b[off+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	}

	putU16(0, 1)  // majorVersion
	putU16(2, 2)  // minorVersion
	putU16(4, 14) // glyphClassOffset
	putU16(6, 0)  // attachListOffset (unused)
	putU16(8, 0)  // ligCaretListOffset (unused)
	putU16(10, 26) // markAttachClassOffset
	putU16(12, 34) // markGlyphSetsOffset

	// GlyphClassDef (format 1) at offset 14: glyphs 1-3.
	putU16(14, 1) // format
	putU16(16, 1) // startGlyph
	putU16(18, 3) // count
	putU16(20, 1) // glyph 1: base
	putU16(22, 3) // glyph 2: mark
	putU16(24, 2) // glyph 3: ligature

	// MarkAttachClassDef (format 1) at offset 26: glyph 2 -> class 5.
	putU16(26, 1) // format
	putU16(28, 2) // startGlyph
	putU16(30, 1) // count
	putU16(32, 5) // glyph 2: class 5

	// MarkGlyphSetsTable at offset 34.
	putU16(34, 1) // format
	putU16(36, 1) // mark-glyph-set count
	putU32(38, 8) // offsets[0], relative to offset 34

	// Coverage (format 1, glyph 5) at offset 34+8=42.
	putU16(42, 1)
	putU16(44, 1)
	putU16(46, 5)

	return b
}

func TestParseGDefCategoryByGlyphClass(t *testing.T) {
	gdef, err := parseGDef(buildGDef())
	require.NoError(t, err)

	assert.Equal(t, CategoryBase, gdef.Category(1))
	assert.Equal(t, CategoryMark, gdef.Category(2))
	assert.Equal(t, CategoryLigature, gdef.Category(3))
	assert.Equal(t, CategoryUnknown, gdef.Category(99))
}

func TestParseGDefMarkAttachmentClass(t *testing.T) {
	gdef, err := parseGDef(buildGDef())
	require.NoError(t, err)

	assert.Equal(t, uint16(5), gdef.MarkAttachmentClass(2))
	assert.Equal(t, uint16(0), gdef.MarkAttachmentClass(1))
}

func TestParseGDefMarkGlyphSetMembership(t *testing.T) {
	gdef, err := parseGDef(buildGDef())
	require.NoError(t, err)

	assert.True(t, gdef.InMarkGlyphSet(0, 5))
	assert.False(t, gdef.InMarkGlyphSet(0, 6))
	assert.False(t, gdef.InMarkGlyphSet(1, 5)) // no such set
}

func TestGDefTableNilReceiverDefaultsGracefully(t *testing.T) {
	var gdef *GDefTable
	assert.Equal(t, CategoryUnknown, gdef.Category(1))
	assert.Equal(t, uint16(0), gdef.MarkAttachmentClass(1))
	assert.False(t, gdef.InMarkGlyphSet(0, 1))
}
