package engine

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// applyContext matches GSUB type 5 / GPOS type 7 at position i, applies
// any nested lookups the match triggers, stages the (possibly now
// rewritten) matched range into the buffer's scratch array, and returns
// how many original positions were consumed — 0 if nothing matched.
func applyContext(ctx *Context, res lookupResolver, s *ot.ContextSubtable, i int, flag ot.LookupFlag, mfs uint16, mask uint32) int {
	skip := ctx.skippy(flag, mfs)
	buf := ctx.Buf
	g := buf.Info[i].GlyphID

	var records []ot.SequenceLookupRecord
	var matched []int

	switch s.Format {
	case 1:
		idx, ok := s.Coverage.Index(g)
		if !ok || idx >= len(s.RuleSets) {
			return 0
		}
		for _, rule := range s.RuleSets[idx] {
			if pos := matchGlyphSequence(buf, skip, i, rule.Input); pos != nil {
				matched, records = pos, rule.Lookups
				break
			}
		}
	case 2:
		if s.ClassDef == nil {
			return 0
		}
		if !s.Coverage.Contains(g) {
			return 0
		}
		class := s.ClassDef.Class(g)
		if int(class) >= len(s.ClassSets) {
			return 0
		}
		for _, rule := range s.ClassSets[class] {
			if pos := matchClassSequence(buf, skip, s.ClassDef, i, rule.Input); pos != nil {
				matched, records = pos, rule.Lookups
				break
			}
		}
	case 3:
		if len(s.InputCoverage) == 0 {
			return 0
		}
		if pos := matchCoverageSequence(buf, skip, i, s.InputCoverage); pos != nil {
			matched, records = pos, s.Lookups
		}
	}
	if matched == nil {
		return 0
	}
	applySequenceLookups(ctx, res, matched, records, mask)
	stageMatchedRange(buf, i, matched[len(matched)-1])
	return matched[len(matched)-1] - i + 1
}

// applyChainContext matches GSUB type 6 / GPOS type 8: like applyContext
// but additionally requires a backtrack and lookahead sequence to match.
func applyChainContext(ctx *Context, res lookupResolver, s *ot.ChainContextSubtable, i int, flag ot.LookupFlag, mfs uint16, mask uint32) int {
	skip := ctx.skippy(flag, mfs)
	buf := ctx.Buf
	g := buf.Info[i].GlyphID

	var records []ot.SequenceLookupRecord
	var matched []int

	switch s.Format {
	case 1:
		idx, ok := s.Coverage.Index(g)
		if !ok || idx >= len(s.RuleSets) {
			return 0
		}
		for _, rule := range s.RuleSets[idx] {
			if !matchBacktrackGlyphs(buf, skip, i, rule.Backtrack) {
				continue
			}
			pos := matchGlyphSequence(buf, skip, i, rule.Input)
			if pos == nil {
				continue
			}
			if !matchLookaheadGlyphs(buf, skip, pos[len(pos)-1], rule.Lookahead) {
				continue
			}
			matched, records = pos, rule.Lookups
			break
		}
	case 2:
		if s.InputClassDef == nil {
			return 0
		}
		if !s.Coverage.Contains(g) {
			return 0
		}
		class := s.InputClassDef.Class(g)
		if int(class) >= len(s.ClassSets) {
			return 0
		}
		for _, rule := range s.ClassSets[class] {
			if !matchBacktrackClasses(buf, skip, s.BacktrackClassDef, i, rule.Backtrack) {
				continue
			}
			pos := matchClassSequence(buf, skip, s.InputClassDef, i, rule.Input)
			if pos == nil {
				continue
			}
			if !matchLookaheadClasses(buf, skip, s.LookaheadClassDef, pos[len(pos)-1], rule.Lookahead) {
				continue
			}
			matched, records = pos, rule.Lookups
			break
		}
	case 3:
		if len(s.InputCoverage) == 0 {
			return 0
		}
		if !matchBacktrackCoverage(buf, skip, i, s.BacktrackCoverage) {
			return 0
		}
		pos := matchCoverageSequence(buf, skip, i, s.InputCoverage)
		if pos == nil {
			return 0
		}
		if !matchLookaheadCoverage(buf, skip, pos[len(pos)-1], s.LookaheadCoverage) {
			return 0
		}
		matched, records = pos, s.Lookups
	}
	if matched == nil {
		return 0
	}
	applySequenceLookups(ctx, res, matched, records, mask)
	stageMatchedRange(buf, i, matched[len(matched)-1])
	return matched[len(matched)-1] - i + 1
}

// applySequenceLookups invokes each nested lookup at its matched input
// position. SequenceIndex targets are always >= the input start (never a
// backtrack position), so the target glyph is still unprocessed primary
// buffer content and mutating buf.Info[pos] in place is safe.
func applySequenceLookups(ctx *Context, res lookupResolver, matched []int, records []ot.SequenceLookupRecord, mask uint32) {
	for _, rec := range records {
		if int(rec.SequenceIndex) >= len(matched) {
			continue
		}
		pos := matched[rec.SequenceIndex]
		lookup := res.resolve(rec.LookupIndex)
		if lookup == nil {
			continue
		}
		nc := ctx.nested()
		if nc == nil {
			continue
		}
		res.applyAt(nc, lookup, pos, mask)
	}
}

// stageMatchedRange copies [start, end] (inclusive, in original buffer
// order) into the scratch buffer verbatim. Any nested-lookup rewrites
// already landed in buf.Info via applySequenceLookups; glyphs the skippy
// iterator stepped over (e.g. marks between input positions) are carried
// through unchanged.
func stageMatchedRange(buf *buffer.Buffer, start, end int) {
	for pos := start; pos <= end; pos++ {
		buf.StageInfo(buf.Info[pos])
	}
}

// matchGlyphSequence matches a format-1 context rule: want holds the
// expected glyphs after the one already matched at i. Returns the
// absolute buffer positions of every matched glyph (length len(want)+1,
// first element i), or nil if the sequence doesn't continue.
func matchGlyphSequence(buf *buffer.Buffer, skip *buffer.SkippyIterator, i int, want []ot.GlyphID) []int {
	positions := make([]int, 1, len(want)+1)
	positions[0] = i
	cur := i
	for _, g := range want {
		cur = skip.Next(cur)
		if cur < 0 || buf.Info[cur].GlyphID != g {
			return nil
		}
		positions = append(positions, cur)
	}
	return positions
}

// matchClassSequence is matchGlyphSequence's format-2 counterpart: want
// holds expected glyph classes under cd, rather than literal glyph ids.
func matchClassSequence(buf *buffer.Buffer, skip *buffer.SkippyIterator, cd ot.ClassDef, i int, want []uint16) []int {
	positions := make([]int, 1, len(want)+1)
	positions[0] = i
	cur := i
	for _, cls := range want {
		cur = skip.Next(cur)
		if cur < 0 || cd.Class(buf.Info[cur].GlyphID) != cls {
			return nil
		}
		positions = append(positions, cur)
	}
	return positions
}

// matchCoverageSequence is the format-3 counterpart: covs[0] covers the
// glyph already at i, the rest cover each subsequent input position.
func matchCoverageSequence(buf *buffer.Buffer, skip *buffer.SkippyIterator, i int, covs []ot.Coverage) []int {
	if !covs[0].Contains(buf.Info[i].GlyphID) {
		return nil
	}
	positions := make([]int, 1, len(covs))
	positions[0] = i
	cur := i
	for _, cov := range covs[1:] {
		cur = skip.Next(cur)
		if cur < 0 || !cov.Contains(buf.Info[cur].GlyphID) {
			return nil
		}
		positions = append(positions, cur)
	}
	return positions
}

// matchBacktrackGlyphs checks that the glyphs immediately preceding i
// (skipping ignored glyphs, scanning backward) equal backtrack in order —
// backtrack[0] is the glyph immediately before i.
func matchBacktrackGlyphs(buf *buffer.Buffer, skip *buffer.SkippyIterator, i int, backtrack []ot.GlyphID) bool {
	cur := i
	for _, g := range backtrack {
		cur = skip.Prev(cur)
		if cur < 0 || buf.Info[cur].GlyphID != g {
			return false
		}
	}
	return true
}

func matchBacktrackClasses(buf *buffer.Buffer, skip *buffer.SkippyIterator, cd ot.ClassDef, i int, backtrack []uint16) bool {
	if cd == nil {
		return len(backtrack) == 0
	}
	cur := i
	for _, cls := range backtrack {
		cur = skip.Prev(cur)
		if cur < 0 || cd.Class(buf.Info[cur].GlyphID) != cls {
			return false
		}
	}
	return true
}

func matchBacktrackCoverage(buf *buffer.Buffer, skip *buffer.SkippyIterator, i int, covs []ot.Coverage) bool {
	cur := i
	for _, cov := range covs {
		cur = skip.Prev(cur)
		if cur < 0 || !cov.Contains(buf.Info[cur].GlyphID) {
			return false
		}
	}
	return true
}

// matchLookaheadGlyphs checks that the glyphs following the last matched
// input position (skipping ignored glyphs) equal lookahead in order.
func matchLookaheadGlyphs(buf *buffer.Buffer, skip *buffer.SkippyIterator, lastInput int, lookahead []ot.GlyphID) bool {
	cur := lastInput
	for _, g := range lookahead {
		cur = skip.Next(cur)
		if cur < 0 || buf.Info[cur].GlyphID != g {
			return false
		}
	}
	return true
}

func matchLookaheadClasses(buf *buffer.Buffer, skip *buffer.SkippyIterator, cd ot.ClassDef, lastInput int, lookahead []uint16) bool {
	if cd == nil {
		return len(lookahead) == 0
	}
	cur := lastInput
	for _, cls := range lookahead {
		cur = skip.Next(cur)
		if cur < 0 || cd.Class(buf.Info[cur].GlyphID) != cls {
			return false
		}
	}
	return true
}

func matchLookaheadCoverage(buf *buffer.Buffer, skip *buffer.SkippyIterator, lastInput int, covs []ot.Coverage) bool {
	cur := lastInput
	for _, cov := range covs {
		cur = skip.Next(cur)
		if cur < 0 || !cov.Contains(buf.Info[cur].GlyphID) {
			return false
		}
	}
	return true
}
