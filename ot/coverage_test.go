package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCoverageFormat1(glyphs []uint16) []byte {
	b := make([]byte, 4+2*len(glyphs))
	putU16 := func(off int, v uint16) { b[off] = byte(v >> 8); b[off+1] = byte(v) }
	putU16(0, 1) // format
	putU16(2, uint16(len(glyphs)))
	for i, g := range glyphs {
		putU16(4+2*i, g)
	}
	return b
}

func buildCoverageFormat2(ranges [][3]uint16) []byte {
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

func TestParseCoverageFormat1IndexAndContains(t *testing.T) {
	b := buildCoverageFormat1([]uint16{5, 9, 20})
	cov, err := parseCoverage(b, 0)
	require.NoError(t, err)

	idx, ok := cov.Index(9)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	assert.True(t, cov.Contains(20))
	assert.False(t, cov.Contains(10))

	_, ok = cov.Index(4)
	assert.False(t, ok)
}

func TestParseCoverageFormat1GlyphsIteratesInOrder(t *testing.T) {
	b := buildCoverageFormat1([]uint16{5, 9, 20})
	cov, err := parseCoverage(b, 0)
	require.NoError(t, err)

	var got []GlyphID
	cov.Glyphs(func(g GlyphID, idx int) bool {
		got = append(got, g)
		assert.Equal(t, len(got)-1, idx)
		return true
	})
	assert.Equal(t, []GlyphID{5, 9, 20}, got)
}

func TestParseCoverageFormat2RangeIndex(t *testing.T) {
	b := buildCoverageFormat2([][3]uint16{{10, 15, 0}, {30, 30, 6}})
	cov, err := parseCoverage(b, 0)
	require.NoError(t, err)

	idx, ok := cov.Index(12)
	assert.True(t, ok)
	assert.Equal(t, 2, idx) // 10->0, 11->1, 12->2

	idx, ok = cov.Index(30)
	assert.True(t, ok)
	assert.Equal(t, 6, idx)

	_, ok = cov.Index(20)
	assert.False(t, ok)
}

func TestParseCoverageUnsupportedFormatErrors(t *testing.T) {
	b := make([]byte, 4)
	b[1] = 3 // format 3, unsupported
	_, err := parseCoverage(b, 0)
	assert.Error(t, err)
}

func TestEmptyCoverageRejectsEverything(t *testing.T) {
	var c emptyCoverage
	_, ok := c.Index(1)
	assert.False(t, ok)
	assert.False(t, c.Contains(1))
	assert.Equal(t, Digest(0), c.Digest())
}
