package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// Apply walks every chain of a morx table in order, running each
// subtable whose feature flags are enabled by effectiveMask and whose
// coverage matches the buffer's direction. It is the GSUB/morx fallback
// named in spec.md §4.11 step 6: fonts with no GSUB table but a morx table
// (e.g. many historic Apple fonts, and some fonts shipping "smcp"-style
// features only via AAT) still get feature-gated substitution.
func Apply(buf *buffer.Buffer, morx *ot.MorxTable, effectiveMask uint32) bool {
	if morx == nil {
		return false
	}
	applied := false
	for _, chain := range morx.Chains {
		chainMask := chain.DefaultFlags ^ effectiveMask
		for _, sub := range chain.Subtables {
			if sub.SubFeatureFlags&chainMask == 0 {
				continue
			}
			if !sub.AllDirections && sub.Vertical != buf.Direction.IsVertical() {
				continue
			}
			if runSubtable(buf, sub) {
				applied = true
			}
		}
	}
	if applied {
		tracer().Debugf("aat: morx fallback applied %d chain(s)", len(morx.Chains))
	}
	return applied
}

func runSubtable(buf *buffer.Buffer, sub ot.MorxSubtable) bool {
	switch sub.Type {
	case ot.MorxRearrangement:
		return sub.Rearrangement != nil && runRearrangement(buf, sub.Rearrangement)
	case ot.MorxContextual:
		return sub.Contextual != nil && runContextual(buf, sub.Contextual)
	case ot.MorxLigature:
		return sub.Ligature != nil && runLigature(buf, sub.Ligature)
	case ot.MorxNonContextual:
		return sub.NonContextual != nil && runNonContextual(buf, sub.NonContextual)
	case ot.MorxInsertion:
		return sub.Insertion != nil && runInsertion(buf, sub.Insertion)
	default:
		return false
	}
}
