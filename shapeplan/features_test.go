package shapeplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphkit/opentype/ot"
)

func TestSelectShaper(t *testing.T) {
	assert.Equal(t, ShaperArabic, SelectShaper(ot.T("arab")))
	assert.Equal(t, ShaperHebrew, SelectShaper(ot.T("hebr")))
	assert.Equal(t, ShaperIndic, SelectShaper(ot.T("deva")))
	assert.Equal(t, ShaperIndic, SelectShaper(ot.T("dev2")))
	assert.Equal(t, ShaperHangul, SelectShaper(ot.T("hang")))
	assert.Equal(t, ShaperDefault, SelectShaper(ot.T("latn")))
}

func TestFeatureOrderGlobalFirstDedupedPositioningLast(t *testing.T) {
	order := featureOrder(ShaperDefault, []Feature{
		{Tag: ot.T("liga"), Value: 1},
		{Tag: ot.T("rlig"), Value: 1}, // already global; must not duplicate
	})
	assert.Equal(t, ot.T("ccmp"), order[0])
	assert.Equal(t, ot.T("rlig"), order[2])
	assert.Contains(t, order, ot.T("liga"))
	assert.Equal(t, ot.T("kern"), order[len(order)-7])

	count := 0
	for _, tag := range order {
		if tag == ot.T("rlig") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAssignMasksOneBitPerFeature(t *testing.T) {
	order := []ot.Tag{ot.T("ccmp"), ot.T("liga")}
	ml := assignMasks(order)
	assert.NotEqual(t, ml.FeatureBits[ot.T("ccmp")], ml.FeatureBits[ot.T("liga")])
	assert.Equal(t, ml.FeatureBits[ot.T("ccmp")], ml.GlobalMask)
}
