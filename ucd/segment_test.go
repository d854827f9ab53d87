package ucd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphemeBoundariesSplitsPlainLetters(t *testing.T) {
	cps := []rune("abc")
	assert.Equal(t, []int{0, 1, 2, 3}, GraphemeBoundaries(cps))
}

func TestGraphemeBoundariesKeepsZWJSequenceTogether(t *testing.T) {
	// family emoji: man + ZWJ + woman + ZWJ + girl, one extended grapheme cluster
	cps := []rune("\U0001F468‍\U0001F469‍\U0001F467")
	bounds := GraphemeBoundaries(cps)
	assert.Equal(t, []int{0, len(cps)}, bounds)
}

func TestGraphemeBoundariesEmptyInput(t *testing.T) {
	assert.Equal(t, []int{0}, GraphemeBoundaries(nil))
}

func TestWordBoundariesSplitsOnSpace(t *testing.T) {
	cps := []rune("go lang")
	bounds := WordBoundaries(cps)
	assert.Equal(t, 0, bounds[0])
	assert.Equal(t, len(cps), bounds[len(bounds)-1])
	assert.Greater(t, len(bounds), 2) // at least one internal boundary around the space
}
