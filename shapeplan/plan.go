package shapeplan

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// Plan is computed once per (font, script, language, direction,
// feature_list) and is safe to reuse across shape calls against the same
// font (spec.md §4.10, "memoizable").
type Plan struct {
	Script   ot.Tag
	Language ot.Tag
	Shaper   Shaper

	Masks MaskLayout

	GSub []LookupRef
	GPos []LookupRef
}

// Build assembles a plan for one (script, language) pair against font,
// honoring the caller's discretionary feature list.
func Build(font *ot.Font, script, language ot.Tag, userFeatures []Feature) *Plan {
	shaper := SelectShaper(script)
	order := featureOrder(shaper, userFeatures)
	masks := assignMasks(order)

	p := &Plan{Script: script, Language: language, Shaper: shaper, Masks: masks}
	if font.GSub != nil {
		p.GSub = expandLookups(font.GSub.ScriptList, font.GSub.FeatureList, script, language, masks)
	}
	if font.GPos != nil {
		p.GPos = expandLookups(font.GPos.ScriptList, font.GPos.FeatureList, script, language, masks)
	}
	tracer().Debugf("shapeplan: built %s plan, %d gsub lookups, %d gpos lookups", shaper, len(p.GSub), len(p.GPos))
	return p
}

// AssignMasks sets every glyph's Mask to the plan's GlobalMask, then ORs in
// each caller feature's bit for the glyphs whose cluster falls within that
// feature's [start,end) range, per spec.md §6's feature-range contract.
func (p *Plan) AssignMasks(buf *buffer.Buffer, userFeatures []Feature) {
	for i := range buf.Info {
		buf.Info[i].Mask = p.Masks.GlobalMask
	}
	for _, f := range userFeatures {
		if f.Value == 0 {
			continue
		}
		bit, ok := p.Masks.FeatureBits[f.Tag]
		if !ok {
			continue
		}
		end := f.End
		if end == 0 {
			end = wholeBuffer
		}
		for i := range buf.Info {
			c := buf.Info[i].Cluster
			if c >= f.Start && c < end {
				buf.Info[i].Mask |= bit
			}
		}
	}
}

// PreShape runs the plan's shaper-specific pre-GSUB step (spec.md §4.11
// step 4): Arabic joining-form classification, Hangul syllable
// decomposition, or a no-op for shapers this module does not further
// specialize.
func (p *Plan) PreShape(buf *buffer.Buffer, font *ot.Font) {
	switch p.Shaper {
	case ShaperArabic:
		applyArabicJoining(buf, p.Masks)
	case ShaperHangul:
		decomposeHangul(buf, font)
	default:
		// Hebrew/Indic/Khmer/Myanmar/Thai/Tibetan/USE/Default: no pre-GSUB
		// step. Indic and USE plans carry the Indic stage-bridge features;
		// their reordering and decomposition steps are not implemented.
	}
}

// PostShape runs shaper-specific post-GPOS cleanup (spec.md §4.11 step 9
// names RTL reversal/cursive-chain resolution/mark clamp as universal;
// per-shaper extras, such as Arabic's combining-mark reorder, live here).
func (p *Plan) PostShape(buf *buffer.Buffer) {
	if p.Shaper == ShaperArabic {
		reorderArabicMarks(buf)
	}
}
