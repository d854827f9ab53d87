package shape

import (
	"github.com/glyphkit/opentype/aat"
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/engine"
	"github.com/glyphkit/opentype/ot"
	"github.com/glyphkit/opentype/shapeplan"
	"github.com/glyphkit/opentype/ucd"
)

// Options carries the caller's shape-input contract (spec.md §6):
// direction/script/language are hints, not commands — a zero Script or
// Language falls back to guessing/DFLT, and a zero-value Direction means
// LTR. Features lets the caller force-enable or force-disable individual
// OpenType features over a cluster range.
type Options struct {
	Direction buffer.Direction
	Script    ot.Tag
	Language  ot.Tag
	Features  []shapeplan.Feature
}

// Shape runs the full pipeline described by spec.md §4.11 over buf, which
// must already hold one AddCodepoint call per input rune (cluster set to
// the rune's original index). On return buf.Info/buf.Pos hold the shaped
// glyph run in final visual order for the requested direction.
func Shape(font *ot.Font, buf *buffer.Buffer, opts Options) {
	buf.Direction = opts.Direction
	buf.Script = opts.Script
	buf.Language = opts.Language
	if buf.Script.IsNull() && buf.Len() > 0 {
		buf.Script = ucd.ScriptOf(buf.Info[0].Codepoint)
	}
	if buf.Language.IsNull() {
		buf.Language = ot.DefaultLanguage()
	}

	plan := shapeplan.Build(font, buf.Script, buf.Language, opts.Features)

	mapToGlyphs(buf, font)
	if font.GDef != nil {
		buf.SetGDefProperties(font.GDef)
	}
	plan.AssignMasks(buf, opts.Features)

	plan.PreShape(buf, font)

	ctx := engine.New(buf, font)
	if font.GSub != nil {
		for _, ref := range plan.GSub {
			lookup := font.GSub.LookupList.At(ref.Index)
			if lookup == nil {
				continue
			}
			engine.ApplyGSubLookup(ctx, font.GSub, lookup, ref.Mask)
		}
	} else if font.Morx != nil {
		if aat.Apply(buf, font.Morx, 0) {
			tracer().Debugf("shape: morx fallback substituted glyphs, no GSUB table present")
		}
	}

	assignDefaultPositions(buf, font)

	if font.GPos != nil {
		for _, ref := range plan.GPos {
			lookup := font.GPos.LookupList.At(ref.Index)
			if lookup == nil {
				continue
			}
			engine.ApplyGPosLookup(ctx, font.GPos, lookup, ref.Mask)
		}
	} else if font.Kern != nil && !buf.Direction.IsVertical() {
		applyKernFallback(buf, font)
	}

	if buf.Direction.IsBackward() {
		buf.Reverse()
	}
	buf.ClampMarkAdvances()

	plan.PostShape(buf)

	tracer().Debugf("shape: shaped %d glyphs, script=%s shaper=%s", buf.Len(), buf.Script, plan.Shaper)
}

// mapToGlyphs resolves every buffer entry's Codepoint through the font's
// cmap (spec.md §4.11 step 3). A codepoint the font does not map keeps
// GlyphID 0 (.notdef) and its original cluster, rather than being dropped:
// shaping never shrinks a cluster run silently.
//
// When a base codepoint is immediately followed by a Unicode variation
// selector, the pair is first consulted through the cmap's format-14
// variation subtable (CMap.LookupVariant); only a miss there falls back
// to the plain per-codepoint Lookup. The selector itself still gets its
// own (typically .notdef-mapping) GlyphID, matching how the rest of the
// pipeline later collapses it via GDEF/mask handling rather than here.
func mapToGlyphs(buf *buffer.Buffer, font *ot.Font) {
	if font.CMap == nil {
		return
	}
	for i := range buf.Info {
		cp := buf.Info[i].Codepoint
		if i+1 < len(buf.Info) && ucd.IsVariationSelector(buf.Info[i+1].Codepoint) {
			if gid, ok := font.CMap.LookupVariant(cp, buf.Info[i+1].Codepoint); ok {
				buf.Info[i].GlyphID = gid
				continue
			}
		}
		buf.Info[i].GlyphID = font.CMap.Lookup(cp)
	}
}

// assignDefaultPositions seeds every glyph's advance from hmtx (or from
// vmtx, in a vertical run) before GPOS/kern adjusts it, per spec.md §4.11
// step 7. VORG's vertical origin is not applied to any glyph offset.
func assignDefaultPositions(buf *buffer.Buffer, font *ot.Font) {
	vertical := buf.Direction.IsVertical()
	for i := range buf.Info {
		g := buf.Info[i].GlyphID
		if vertical && font.VMtx != nil {
			if adv, ok := font.VMtx.Advance(g); ok {
				buf.Pos[i].YAdvance = -int32(adv)
				continue
			}
		}
		if font.HMtx != nil {
			buf.Pos[i].XAdvance = int32(font.HMtx.Advance(g))
		}
	}
}

// applyKernFallback adds legacy 'kern' pair adjustments to x_advance for
// adjacent glyphs, used only when the font has no GPOS table (spec.md
// §4.11 step 8).
func applyKernFallback(buf *buffer.Buffer, font *ot.Font) {
	for i := 0; i+1 < buf.Len(); i++ {
		v := font.Kern.Lookup(buf.Info[i].GlyphID, buf.Info[i+1].GlyphID)
		if v != 0 {
			buf.Pos[i].XAdvance += int32(v)
		}
	}
}
