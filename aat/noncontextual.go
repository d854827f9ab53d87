package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// runNonContextual drives an AAT type-4 subtable: an unconditional
// glyph-to-glyph substitution applied to every buffer position, with no
// state tracking at all.
func runNonContextual(buf *buffer.Buffer, sub *ot.NonContextualSubtable) bool {
	applied := false
	for i := range buf.Info {
		if g, ok := sub.Substitute(buf.Info[i].GlyphID); ok {
			buf.Info[i].GlyphID = g
			applied = true
		}
	}
	return applied
}
