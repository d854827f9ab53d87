package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

const (
	rearrFlagMarkFirst    = 0x8000
	rearrFlagDontAdvance  = 0x4000
	rearrFlagVerbMask     = 0x000F
)

// rearrangementGroup describes one of the 16 AAT rearrangement verbs as a
// front/back group swap around the unchanged middle run, per the verb table
// in Apple's "glyph rearrangement" subtable documentation.
type rearrangementGroup struct {
	frontLen, backLen           int
	reverseFront, reverseBack bool
}

var rearrangementVerbs = [16]rearrangementGroup{
	{0, 0, false, false},
	{1, 0, false, false},
	{0, 1, false, false},
	{1, 1, false, false},
	{2, 0, false, false},
	{2, 0, true, false},
	{0, 2, false, false},
	{0, 2, false, true},
	{1, 2, false, false},
	{1, 2, false, true},
	{2, 1, false, false},
	{2, 1, true, false},
	{2, 2, false, false},
	{2, 2, true, false},
	{2, 2, false, true},
	{2, 2, true, true},
}

// runRearrangement drives an AAT type-0 subtable. Mark records the start of
// the span subject to rearrangement; on an entry whose verb is non-zero,
// glyphs between mark and the current position are permuted in place per
// the verb table.
func runRearrangement(buf *buffer.Buffer, sub *ot.RearrangementSubtable) bool {
	applied := false
	mark := -1
	state := 0
	i := 0
	for i < buf.Len() {
		class := sub.Machine.ClassOf(buf.Info[i].GlyphID)
		entryIdx := sub.Machine.EntryIndex(state, class)
		entry := sub.Entry(entryIdx)

		if entry.Flags&rearrFlagMarkFirst != 0 {
			mark = i
		}
		verb := entry.Flags & rearrFlagVerbMask
		if verb != 0 && mark >= 0 && mark <= i {
			if rearrangeSpan(buf, mark, i, verb) {
				applied = true
			}
		}
		state = int(entry.NewState)
		if entry.Flags&rearrFlagDontAdvance == 0 {
			i++
		}
	}
	return applied
}

func rearrangeSpan(buf *buffer.Buffer, mark, cur int, verb uint16) bool {
	n := cur - mark + 1
	g := rearrangementVerbs[verb]
	if g.frontLen+g.backLen > n {
		return false
	}
	orig := append([]buffer.GlyphInfo(nil), buf.Info[mark:cur+1]...)
	origPos := append([]buffer.GlyphPosition(nil), buf.Pos[mark:cur+1]...)

	out := make([]int, 0, n)
	for k := n - g.backLen; k < n; k++ {
		out = append(out, k)
	}
	if g.reverseBack {
		reverseInts(out[len(out)-g.backLen:])
	}
	for k := g.frontLen; k < n-g.backLen; k++ {
		out = append(out, k)
	}
	frontStart := len(out)
	for k := 0; k < g.frontLen; k++ {
		out = append(out, k)
	}
	if g.reverseFront {
		reverseInts(out[frontStart:])
	}
	for k, srcIdx := range out {
		buf.Info[mark+k] = orig[srcIdx]
		buf.Pos[mark+k] = origPos[srcIdx]
	}
	return true
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
