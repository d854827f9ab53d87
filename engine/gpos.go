package engine

import "github.com/glyphkit/opentype/ot"

// ApplyGPosLookup sweeps the buffer once for one positioning lookup.
// Positioning never changes glyph count, so unlike ApplyGSubLookup this
// walks buf.Pos in place with no staged-copy machinery.
func ApplyGPosLookup(ctx *Context, tbl *ot.GPosTable, lookup *ot.Lookup, mask uint32) bool {
	if lookup == nil || len(lookup.Subtables) == 0 {
		return false
	}
	buf := ctx.Buf
	res := gposResolver{tbl: tbl}
	applied := false

	i := 0
	for i < buf.Len() {
		g := buf.Info[i].GlyphID
		if buf.Info[i].Mask&mask == 0 || !lookup.Digest.Test(g) {
			i++
			continue
		}
		consumed := 0
		for _, sub := range lookup.Subtables {
			consumed = applyGPosSubtable(ctx, res, lookup, sub, i, mask)
			if consumed > 0 {
				break
			}
		}
		if consumed == 0 {
			consumed = 1
		} else {
			applied = true
		}
		i += consumed
	}
	return applied
}

// applyGPosLookupAt applies lookup to a single position, for a nested
// SequenceLookupRecord invoked from applySequenceLookups. Only single
// adjustment (SinglePos) subtables are evaluated; other positioning types
// leave the position unchanged.
func applyGPosLookupAt(ctx *Context, tbl *ot.GPosTable, lookup *ot.Lookup, pos int, mask uint32) bool {
	if lookup == nil {
		return false
	}
	for _, sub := range lookup.Subtables {
		if s, ok := sub.(*ot.SinglePos); ok {
			if v, ok := s.ValueFor(ctx.Buf.Info[pos].GlyphID); ok {
				applyValueRecord(ctx, pos, v)
				return true
			}
		}
	}
	return false
}

func applyGPosSubtable(ctx *Context, res gposResolver, lookup *ot.Lookup, sub any, i int, mask uint32) int {
	buf := ctx.Buf
	switch s := sub.(type) {
	case *ot.SinglePos:
		v, ok := s.ValueFor(buf.Info[i].GlyphID)
		if !ok {
			return 0
		}
		applyValueRecord(ctx, i, v)
		return 1
	case *ot.PairPos:
		return applyPairPos(ctx, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.CursivePos:
		return applyCursivePos(ctx, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.MarkBasePos:
		return applyMarkToBase(ctx, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.MarkLigPos:
		return applyMarkToLigature(ctx, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.MarkMarkPos:
		return applyMarkToMark(ctx, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.ContextSubtable:
		return applyPositionContext(ctx, res, s, i, lookup.Flag, lookup.MarkFilteringSet, mask)
	case *ot.ChainContextSubtable:
		return applyPositionChainContext(ctx, res, s, i, lookup.Flag, lookup.MarkFilteringSet, mask)
	default:
		return 0
	}
}

func applyValueRecord(ctx *Context, i int, v ot.ValueRecord) {
	p := &ctx.Buf.Pos[i]
	p.XOffset += int32(v.XPlacement)
	p.YOffset += int32(v.YPlacement)
	p.XAdvance += int32(v.XAdvance)
	p.YAdvance += int32(v.YAdvance)
}

func applyPairPos(ctx *Context, s *ot.PairPos, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	skip := ctx.skippy(flag, mfs)
	first := buf.Info[i].GlyphID
	j := skip.Next(i)
	if j < 0 {
		return 0
	}
	second := buf.Info[j].GlyphID

	switch s.Format {
	case 1:
		idx, ok := s.Coverage.Index(first)
		if !ok || idx >= len(s.PairSets) {
			return 0
		}
		for _, rec := range s.PairSets[idx] {
			if rec.Second == second {
				applyValueRecord(ctx, i, rec.First)
				applyValueRecord(ctx, j, rec.SecondValue)
				return j - i + 1
			}
		}
		return 0
	case 2:
		if s.ClassDef1 == nil || s.ClassDef2 == nil || !s.Coverage.Contains(first) {
			return 0
		}
		c1 := int(s.ClassDef1.Class(first))
		c2 := int(s.ClassDef2.Class(second))
		if c1 >= len(s.ClassRecords) || c2 >= len(s.ClassRecords[c1]) {
			return 0
		}
		rec := s.ClassRecords[c1][c2]
		applyValueRecord(ctx, i, rec.First)
		applyValueRecord(ctx, j, rec.Second)
		return j - i + 1
	default:
		return 0
	}
}

// applyCursivePos aligns glyph i's entry anchor to the exit anchor of the
// nearest preceding attachable glyph, accumulating the vertical shift so a
// whole cursive-joined run lines up — a simplification of the spec's
// single-pass chain resolution that skips horizontal re-justification.
func applyCursivePos(ctx *Context, s *ot.CursivePos, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	skip := ctx.skippy(flag, mfs)
	idx, ok := s.Coverage.Index(buf.Info[i].GlyphID)
	if !ok || idx >= len(s.Entries) || s.Entries[idx].Entry == nil {
		return 0
	}
	prev := skip.Prev(i)
	if prev < 0 {
		return 0
	}
	pIdx, ok := s.Coverage.Index(buf.Info[prev].GlyphID)
	if !ok || pIdx >= len(s.Entries) || s.Entries[pIdx].Exit == nil {
		return 0
	}
	entry := s.Entries[idx].Entry
	exit := s.Entries[pIdx].Exit
	dy := int32(exit.Y) - int32(entry.Y) + buf.Pos[prev].YOffset
	buf.Pos[i].YOffset += dy
	return 1
}

func applyMarkToBase(ctx *Context, s *ot.MarkBasePos, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	skip := ctx.skippy(flag, mfs)
	markIdx, ok := s.MarkCoverage.Index(buf.Info[i].GlyphID)
	if !ok || s.MarkArray == nil || markIdx >= len(s.MarkArray.Marks) {
		return 0
	}
	base := skip.Prev(i)
	if base < 0 {
		return 0
	}
	baseIdx, ok := s.BaseCoverage.Index(buf.Info[base].GlyphID)
	if !ok || baseIdx >= len(s.BaseArray) {
		return 0
	}
	markRec := s.MarkArray.Marks[markIdx]
	if markRec.Anchor == nil || int(markRec.Class) >= len(s.BaseArray[baseIdx]) {
		return 0
	}
	baseAnchor := s.BaseArray[baseIdx][markRec.Class]
	if baseAnchor == nil {
		return 0
	}
	attachMarkAnchor(ctx, i, base, baseAnchor, markRec.Anchor)
	return 1
}

func applyMarkToLigature(ctx *Context, s *ot.MarkLigPos, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	skip := ctx.skippy(flag, mfs)
	markIdx, ok := s.MarkCoverage.Index(buf.Info[i].GlyphID)
	if !ok || s.MarkArray == nil || markIdx >= len(s.MarkArray.Marks) {
		return 0
	}
	lig := skip.Prev(i)
	if lig < 0 {
		return 0
	}
	ligIdx, ok := s.LigatureCoverage.Index(buf.Info[lig].GlyphID)
	if !ok || ligIdx >= len(s.LigatureArray) {
		return 0
	}
	components := s.LigatureArray[ligIdx]
	if len(components) == 0 {
		return 0
	}
	// The component a mark attaches to is, absent a closer signal, the one
	// the buffer recorded when the ligature was formed.
	component := int(buf.Info[i].LigComponent)
	if component >= len(components) {
		component = 0
	}
	markRec := s.MarkArray.Marks[markIdx]
	if markRec.Anchor == nil || int(markRec.Class) >= len(components[component]) {
		return 0
	}
	ligAnchor := components[component][markRec.Class]
	if ligAnchor == nil {
		return 0
	}
	attachMarkAnchor(ctx, i, lig, ligAnchor, markRec.Anchor)
	return 1
}

func applyMarkToMark(ctx *Context, s *ot.MarkMarkPos, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	skip := ctx.skippy(flag, mfs)
	mark1Idx, ok := s.Mark1Coverage.Index(buf.Info[i].GlyphID)
	if !ok || s.Mark1Array == nil || mark1Idx >= len(s.Mark1Array.Marks) {
		return 0
	}
	mark2 := skip.Prev(i)
	if mark2 < 0 {
		return 0
	}
	mark2Idx, ok := s.Mark2Coverage.Index(buf.Info[mark2].GlyphID)
	if !ok || mark2Idx >= len(s.Mark2Array) {
		return 0
	}
	mark1Rec := s.Mark1Array.Marks[mark1Idx]
	if mark1Rec.Anchor == nil || int(mark1Rec.Class) >= len(s.Mark2Array[mark2Idx]) {
		return 0
	}
	mark2Anchor := s.Mark2Array[mark2Idx][mark1Rec.Class]
	if mark2Anchor == nil {
		return 0
	}
	attachMarkAnchor(ctx, i, mark2, mark2Anchor, mark1Rec.Anchor)
	return 1
}

// attachMarkAnchor offsets the mark at i so its anchor coincides with the
// base anchor, relative to the base glyph's own accumulated offset.
func attachMarkAnchor(ctx *Context, markPos, basePos int, baseAnchor, markAnchor *ot.Anchor) {
	p := &ctx.Buf.Pos[markPos]
	b := ctx.Buf.Pos[basePos]
	p.XOffset = b.XOffset + int32(baseAnchor.X) - int32(markAnchor.X)
	p.YOffset = b.YOffset + int32(baseAnchor.Y) - int32(markAnchor.Y)
}

func applyPositionContext(ctx *Context, res lookupResolver, s *ot.ContextSubtable, i int, flag ot.LookupFlag, mfs uint16, mask uint32) int {
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
		if s.ClassDef == nil || !s.Coverage.Contains(g) {
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
	return matched[len(matched)-1] - i + 1
}

func applyPositionChainContext(ctx *Context, res lookupResolver, s *ot.ChainContextSubtable, i int, flag ot.LookupFlag, mfs uint16, mask uint32) int {
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
		if s.InputClassDef == nil || !s.Coverage.Contains(g) {
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
	return matched[len(matched)-1] - i + 1
}
