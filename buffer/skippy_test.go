package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphkit/opentype/ot"
)

func categorizedBuffer(categories ...ot.GlyphCategory) *Buffer {
	b := New()
	for i, cat := range categories {
		b.AddCodepoint(rune('a'+i), uint32(i))
		b.Info[i].Category = cat
	}
	return b
}

func TestSkippyIteratorIgnoresMarksWhenFlagged(t *testing.T) {
	b := categorizedBuffer(ot.CategoryBase, ot.CategoryMark, ot.CategoryMark, ot.CategoryBase)
	it := NewSkippyIterator(b, nil, ot.LookupIgnoreMarks, 0)

	assert.True(t, it.Skippable(1))
	assert.True(t, it.Skippable(2))
	assert.False(t, it.Skippable(0))
	assert.Equal(t, 3, it.Next(0))
	assert.Equal(t, 0, it.Prev(3))
}

func TestSkippyIteratorIgnoresLigaturesAndBaseGlyphs(t *testing.T) {
	b := categorizedBuffer(ot.CategoryBase, ot.CategoryLigature, ot.CategoryMark)
	it := NewSkippyIterator(b, nil, ot.LookupIgnoreBaseGlyphs|ot.LookupIgnoreLigatures, 0)

	assert.True(t, it.Skippable(0))
	assert.True(t, it.Skippable(1))
	assert.False(t, it.Skippable(2))
}

func TestSkippyIteratorWithNoFlagsSkipsNothing(t *testing.T) {
	b := categorizedBuffer(ot.CategoryBase, ot.CategoryMark, ot.CategoryLigature)
	it := NewSkippyIterator(b, nil, 0, 0)

	for i := 0; i < b.Len(); i++ {
		assert.False(t, it.Skippable(i))
	}
}

func TestSkippyIteratorMarkAttachClassFilter(t *testing.T) {
	b := categorizedBuffer(ot.CategoryMark, ot.CategoryMark)
	b.Info[0].MarkAttachClass = 1
	b.Info[1].MarkAttachClass = 2

	flag := ot.LookupFlag(2 << 8) // mark attachment class 2, high byte of the flag
	it := NewSkippyIterator(b, nil, flag, 0)

	assert.True(t, it.Skippable(0))  // class 1 != 2, filtered out
	assert.False(t, it.Skippable(1)) // class 2 matches, kept
}

func TestSkippyIteratorNextPrevOutOfRange(t *testing.T) {
	b := categorizedBuffer(ot.CategoryBase)
	it := NewSkippyIterator(b, nil, 0, 0)

	assert.Equal(t, -1, it.Next(0))
	assert.Equal(t, -1, it.Prev(0))
	assert.False(t, it.Skippable(-1))
	assert.False(t, it.Skippable(5))
}
