package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

const (
	contextFlagSetMark   = 0x8000
	contextFlagDontAdvance = 0x4000
)

// runContextual drives an AAT type-1 subtable: on each state transition the
// entry may name a substitution lookup table for the glyph at the current
// position and/or the most recently marked position.
func runContextual(buf *buffer.Buffer, sub *ot.ContextualSubtable) bool {
	applied := false
	mark := -1
	state := 0
	i := 0
	for i < buf.Len() {
		class := sub.Machine.ClassOf(buf.Info[i].GlyphID)
		entryIdx := sub.Machine.EntryIndex(state, class)
		entry := sub.Entry(entryIdx)

		if lt := sub.SubstTable(entry.CurrentIndex); lt != nil {
			if g, ok := lt.Lookup(buf.Info[i].GlyphID); ok {
				buf.Info[i].GlyphID = g
				applied = true
			}
		}
		if mark >= 0 {
			if lt := sub.SubstTable(entry.MarkIndex); lt != nil {
				if g, ok := lt.Lookup(buf.Info[mark].GlyphID); ok {
					buf.Info[mark].GlyphID = g
					applied = true
				}
			}
		}
		if entry.Flags&contextFlagSetMark != 0 {
			mark = i
		}
		state = int(entry.NewState)
		if entry.Flags&contextFlagDontAdvance == 0 {
			i++
		}
	}
	return applied
}
