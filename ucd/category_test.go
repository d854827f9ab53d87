package ucd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneralCategoryOfClassifiesBasicKinds(t *testing.T) {
	assert.Equal(t, CategoryLetter, GeneralCategoryOf('A'))
	assert.Equal(t, CategoryNumber, GeneralCategoryOf('7'))
	assert.Equal(t, CategoryPunctuation, GeneralCategoryOf('.'))
	assert.Equal(t, CategoryMarkNonspacing, GeneralCategoryOf('́')) // combining acute accent
}

func TestIsMarkOnlyTrueForCombiningMarks(t *testing.T) {
	assert.True(t, IsMark('́'))
	assert.False(t, IsMark('A'))
	assert.False(t, IsMark('7'))
}

func TestCombiningClassDistinguishesBaseFromMark(t *testing.T) {
	assert.Equal(t, uint8(0), CombiningClass('A'))
	assert.NotEqual(t, uint8(0), CombiningClass('́'))
}

func TestIsVariationSelectorRecognizesBothBlocks(t *testing.T) {
	assert.True(t, IsVariationSelector(0xFE0F))  // VS16, standard block
	assert.True(t, IsVariationSelector(0xE0100)) // VS17, supplementary block
	assert.False(t, IsVariationSelector('A'))
	assert.False(t, IsVariationSelector('.'))
}
