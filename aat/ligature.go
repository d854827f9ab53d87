package aat

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

const (
	ligFlagSetComponent  = 0x8000
	ligFlagDontAdvance   = 0x4000
	ligFlagPerformAction = 0x2000

	ligActionLast       = 0x80000000
	ligActionStore      = 0x40000000
	ligActionOffsetMask = 0x3FFFFFFF
	ligActionOffsetSign = 0x20000000
)

// runLigature drives an AAT type-2 subtable: a component stack accumulates
// glyph positions as the state machine walks the buffer, and a "perform
// action" entry resolves the stack (per the ligature-action/component/
// ligature arrays) into a single output glyph. State-machine iteration runs
// over the original (pre-ligature) indexing throughout; any positions a
// ligature formation consumes are only removed in one compaction pass once
// the whole subtable has finished.
func runLigature(buf *buffer.Buffer, sub *ot.LigatureSubtable) bool {
	var stack []int
	var dead []int
	state := 0
	i := 0
	for i < buf.Len() {
		class := sub.Machine.ClassOf(buf.Info[i].GlyphID)
		entryIdx := sub.Machine.EntryIndex(state, class)
		entry := sub.Entry(entryIdx)

		if entry.Flags&ligFlagSetComponent != 0 {
			stack = append(stack, i)
		}
		if entry.Flags&ligFlagPerformAction != 0 && len(stack) > 0 {
			dead = append(dead, resolveLigatureAction(buf, sub, stack, entry.LigActionIndex)...)
			stack = stack[:0]
		}
		state = int(entry.NewState)
		if entry.Flags&ligFlagDontAdvance == 0 {
			i++
		}
	}
	if len(dead) == 0 {
		return false
	}
	compactBuffer(buf, dead)
	return true
}

// resolveLigatureAction walks the ligature-action array starting at
// actionIndex, one action per stacked component (oldest first), accumulating
// a ligature-table index from the component table. Whenever an action's
// "store" bit is set, the accumulated index is resolved through the
// ligature array and written over the run's leftmost position; every other
// position in that run is returned for later removal, mirroring how
// engine/ligature.go folds GSUB ligature components into one glyph.
func resolveLigatureAction(buf *buffer.Buffer, sub *ot.LigatureSubtable, stack []int, actionIndex uint16) []int {
	var dead []int
	ligIndex := 0
	run := make([]int, 0, len(stack))
	idx := int(actionIndex)
	for si := 0; si < len(stack); si++ {
		if idx >= len(sub.LigActions) {
			break
		}
		action := sub.LigActions[idx]
		idx++
		pos := stack[si]
		run = append(run, pos)

		offset := int32(action & ligActionOffsetMask)
		if action&ligActionOffsetSign != 0 {
			offset -= 1 << 30
		}
		class := int32(sub.Machine.ClassOf(buf.Info[pos].GlyphID))
		componentIdx := int(class + offset)
		if componentIdx >= 0 && componentIdx < len(sub.Components) {
			ligIndex += int(sub.Components[componentIdx])
		}
		if action&ligActionStore != 0 {
			if ligIndex >= 0 && ligIndex < len(sub.Ligatures) {
				stageAATLigature(buf, sub.Ligatures[ligIndex], run)
				dead = append(dead, run[1:]...)
			}
			ligIndex = 0
			run = run[:0]
		}
		if action&ligActionLast != 0 {
			break
		}
	}
	return dead
}

func stageAATLigature(buf *buffer.Buffer, ligGlyph ot.GlyphID, run []int) {
	if len(run) == 0 {
		return
	}
	min, _ := buf.MinMaxCluster(run[0], run[len(run)-1]+1)
	buf.Info[run[0]].GlyphID = ligGlyph
	buf.Info[run[0]].Cluster = min
}

// compactBuffer removes the given buffer positions (e.g. ligature
// components folded into a preceding glyph), preserving the relative order
// of everything else.
func compactBuffer(buf *buffer.Buffer, dead []int) {
	remove := make(map[int]bool, len(dead))
	for _, d := range dead {
		remove[d] = true
	}
	w := 0
	for r := 0; r < buf.Len(); r++ {
		if remove[r] {
			continue
		}
		if w != r {
			buf.Info[w] = buf.Info[r]
			buf.Pos[w] = buf.Pos[r]
		}
		w++
	}
	buf.Truncate(w)
}
