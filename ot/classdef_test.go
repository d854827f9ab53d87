package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClassDefFormat1(startGlyph uint16, classes []uint16) []byte {
	b := make([]byte, 6+2*len(classes))
	putU16 := func(off int, v uint16) { b[off] = byte(v >> 8); b[off+1] = byte(v) }
	putU16(0, 1) // format
	putU16(2, startGlyph)
	putU16(4, uint16(len(classes)))
	for i, c := range classes {
		putU16(6+2*i, c)
	}
	return b
}

func buildClassDefFormat2(ranges [][3]uint16) []byte {
	b := make([]byte, 4+6*len(ranges))
	putU16 := func(off int, v uint16) { b[off] = byte(v >> 8); b[off+1] = byte(v) }
	putU16(0, 2) // format
	putU16(2, uint16(len(ranges)))
	for i, r := range ranges {
		putU16(4+6*i, r[0])
		putU16(4+6*i+2, r[1])
		putU16(4+6*i+4, r[2])
	}
	return b
}

func TestParseClassDefFormat1RangeAndDefault(t *testing.T) {
	b := buildClassDefFormat1(10, []uint16{1, 2, 1})
	cd, err := parseClassDef(b, 0)
	require.NoError(t, err)

	assert.Equal(t, uint16(1), cd.Class(10))
	assert.Equal(t, uint16(2), cd.Class(11))
	assert.Equal(t, uint16(0), cd.Class(9))  // before startGlyph
	assert.Equal(t, uint16(0), cd.Class(13)) // past the trimmed array
}

func TestParseClassDefFormat2Ranges(t *testing.T) {
	b := buildClassDefFormat2([][3]uint16{{5, 10, 3}, {20, 25, 7}})
	cd, err := parseClassDef(b, 0)
	require.NoError(t, err)

	assert.Equal(t, uint16(3), cd.Class(7))
	assert.Equal(t, uint16(7), cd.Class(25))
	assert.Equal(t, uint16(0), cd.Class(15)) // gap between ranges
}

func TestParseClassDefZeroOffsetIsEmpty(t *testing.T) {
	cd, err := parseClassDef([]byte{}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), cd.Class(42))
}
