package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

const (
	insFlagSetMark        = 0x8000
	insFlagDontAdvance    = 0x4000
	insFlagCurrentIsKashidaLike = 0x2000
	insFlagMarkedIsKashidaLike  = 0x1000
	insFlagCurrentInsertBefore  = 0x0800
	insFlagMarkedInsertBefore   = 0x0400
	insCurrentCountMask   = 0x03E0
	insMarkedCountMask    = 0x001F
)

// runInsertion drives an AAT type-5 subtable: entries may splice a run of
// glyphs from the insertion-glyph array before or after the current and/or
// marked positions (used e.g. for visible viramas or split-vowel insertion).
func runInsertion(buf *buffer.Buffer, sub *ot.InsertionSubtable) bool {
	applied := false
	mark := -1
	state := 0
	i := 0
	for i < buf.Len() {
		class := sub.Machine.ClassOf(buf.Info[i].GlyphID)
		entryIdx := sub.Machine.EntryIndex(state, class)
		entry := sub.Entry(entryIdx)

		markedCount := int((entry.Flags & insMarkedCountMask))
		if entry.MarkedInsertIndex != 0xFFFF && markedCount > 0 && mark >= 0 {
			at := mark
			if entry.Flags&insFlagMarkedInsertBefore == 0 {
				at = mark + 1
			}
			n := insertGlyphs(buf, at, sub.InsertionGlyphs, int(entry.MarkedInsertIndex), markedCount)
			if at <= i {
				i += n
			}
			applied = true
		}
		currentCount := int((entry.Flags & insCurrentCountMask) >> 5)
		if entry.CurrentInsertIndex != 0xFFFF && currentCount > 0 {
			at := i
			if entry.Flags&insFlagCurrentInsertBefore == 0 {
				at = i + 1
			}
			n := insertGlyphs(buf, at, sub.InsertionGlyphs, int(entry.CurrentInsertIndex), currentCount)
			if at <= i {
				i += n
			}
			applied = true
		}

		if entry.Flags&insFlagSetMark != 0 {
			mark = i
		}
		state = int(entry.NewState)
		if entry.Flags&insFlagDontAdvance == 0 {
			i++
		}
	}
	return applied
}

func insertGlyphs(buf *buffer.Buffer, at int, glyphs []ot.GlyphID, start, count int) int {
	if start < 0 || start+count > len(glyphs) {
		return 0
	}
	cluster := uint32(0)
	if at > 0 && at-1 < buf.Len() {
		cluster = buf.Info[at-1].Cluster
	} else if at < buf.Len() {
		cluster = buf.Info[at].Cluster
	}
	for k := 0; k < count; k++ {
		buf.InsertAt(at+k, buffer.GlyphInfo{GlyphID: glyphs[start+k], Cluster: cluster})
	}
	return count
}
