package engine

import "github.com/glyphkit/opentype/ot"

// ApplyGSubLookup sweeps the entire buffer once for one lookup, rewriting
// Info/Pos through the staged-copy pattern. Reverse-chaining (type 8) is
// the one format that never changes glyph count, so it mutates in place
// while sweeping right-to-left instead of staging anything.
func ApplyGSubLookup(ctx *Context, tbl *ot.GSubTable, lookup *ot.Lookup, mask uint32) bool {
	if lookup == nil || len(lookup.Subtables) == 0 {
		return false
	}
	if lookup.Type == ot.GSubReverseChaining {
		return applyReverseChaining(ctx, lookup, mask)
	}

	buf := ctx.Buf
	res := gsubResolver{tbl: tbl}
	ids := &ligatureIDs{}
	applied := false

	buf.BeginSweep()
	i := 0
	for i < buf.Len() {
		g := buf.Info[i].GlyphID
		if buf.Info[i].Mask&mask == 0 || !lookup.Digest.Test(g) {
			buf.StageCopy(i)
			i++
			continue
		}
		consumed := 0
		for _, sub := range lookup.Subtables {
			consumed = applyGSubSubtable(ctx, res, ids, lookup, sub, i, mask)
			if consumed > 0 {
				break
			}
		}
		if consumed == 0 {
			buf.StageCopy(i)
			i++
			continue
		}
		applied = true
		i += consumed
	}
	buf.EndSweep()
	if applied {
		recomputeGDefProps(ctx)
	}
	return applied
}

// applyGSubLookupAt applies lookup to a single position, for use from a
// nested contextual SequenceLookupRecord. It mutates buf.Info[pos] in
// place without the sweep's staged-copy machinery and never changes the
// buffer length: a multiple or alternate substitution keeps only its first
// output glyph.
func applyGSubLookupAt(ctx *Context, tbl *ot.GSubTable, lookup *ot.Lookup, pos int, mask uint32) bool {
	if lookup == nil {
		return false
	}
	buf := ctx.Buf
	g := buf.Info[pos].GlyphID
	for _, sub := range lookup.Subtables {
		switch s := sub.(type) {
		case *ot.SingleSubst:
			if out, ok := s.Apply(g); ok {
				buf.Info[pos].GlyphID = out
				return true
			}
		case *ot.MultipleSubst:
			if out, ok := s.Apply(g); ok && len(out) > 0 {
				buf.Info[pos].GlyphID = out[0]
				return true
			}
		case *ot.AlternateSubst:
			if out, ok := s.Apply(g); ok && len(out) > 0 {
				buf.Info[pos].GlyphID = out[0]
				return true
			}
		case *ot.LigatureSubst:
			// A ligature nested inside another context rule only ever
			// touches the buffer at pos itself (length-changing nested
			// rewrites are not representable without a second sweep), so
			// only a ligature with no further components is applied here;
			// longer ligatures are not formed at a nested position.
			for _, lig := range s.Apply(g) {
				if len(lig.Component) == 0 {
					buf.Info[pos].GlyphID = lig.GlyphID
					return true
				}
			}
		}
	}
	return false
}

// applyGSubSubtable dispatches one subtable of a lookup at position i,
// returning how many original buffer positions it consumed (0 if it
// didn't match). On success the matched range has already been staged.
func applyGSubSubtable(ctx *Context, res gsubResolver, ids *ligatureIDs, lookup *ot.Lookup, sub any, i int, mask uint32) int {
	buf := ctx.Buf
	g := buf.Info[i].GlyphID
	switch s := sub.(type) {
	case *ot.SingleSubst:
		out, ok := s.Apply(g)
		if !ok {
			return 0
		}
		info := buf.Info[i]
		info.GlyphID = out
		buf.StageInfo(info)
		return 1
	case *ot.MultipleSubst:
		out, ok := s.Apply(g)
		if !ok {
			return 0
		}
		if len(out) == 0 {
			return 1 // deletion: the glyph vanishes, cluster numbering absorbs it elsewhere
		}
		base := buf.Info[i]
		for _, ng := range out {
			info := base
			info.GlyphID = ng
			buf.StageInfo(info)
		}
		return 1
	case *ot.AlternateSubst:
		out, ok := s.Apply(g)
		if !ok || len(out) == 0 {
			return 0
		}
		info := buf.Info[i]
		info.GlyphID = out[0]
		buf.StageInfo(info)
		return 1
	case *ot.LigatureSubst:
		return applyLigature(ctx, ids, s, i, lookup.Flag, lookup.MarkFilteringSet)
	case *ot.ContextSubtable:
		return applyContext(ctx, res, s, i, lookup.Flag, lookup.MarkFilteringSet, mask)
	case *ot.ChainContextSubtable:
		return applyChainContext(ctx, res, s, i, lookup.Flag, lookup.MarkFilteringSet, mask)
	default:
		return 0
	}
}

// applyReverseChaining implements GSUB type 8, the one substitution format
// defined to sweep right-to-left; since it only ever replaces one glyph
// with exactly one glyph, it rewrites buf.Info in place.
func applyReverseChaining(ctx *Context, lookup *ot.Lookup, mask uint32) bool {
	buf := ctx.Buf
	skip := ctx.skippy(lookup.Flag, lookup.MarkFilteringSet)
	applied := false
	for i := buf.Len() - 1; i >= 0; i-- {
		if buf.Info[i].Mask&mask == 0 || !lookup.Digest.Test(buf.Info[i].GlyphID) {
			continue
		}
		for _, sub := range lookup.Subtables {
			s, ok := sub.(*ot.ReverseChainSingleSubst)
			if !ok {
				continue
			}
			if !matchBacktrackCoverage(buf, skip, i, s.BacktrackCoverage) {
				continue
			}
			if !matchLookaheadCoverage(buf, skip, i, s.LookaheadCoverage) {
				continue
			}
			if out, ok := s.Apply(buf.Info[i].GlyphID); ok {
				buf.Info[i].GlyphID = out
				applied = true
				break
			}
		}
	}
	if applied {
		recomputeGDefProps(ctx)
	}
	return applied
}

// recomputeGDefProps refreshes GDEF-derived category/mark-attachment-class
// fields after a sweep that may have introduced new glyph ids (ligatures,
// single/multiple/alternate substitutions) whose categories GDEF assigns
// independently of the glyphs they replaced.
func recomputeGDefProps(ctx *Context) {
	if ctx.Font.GDef != nil {
		ctx.Buf.SetGDefProperties(ctx.Font.GDef)
	}
}
