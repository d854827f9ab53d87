package engine

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// ligatureIDs hands out small non-zero identifiers shared by every glyph a
// single ligature formation touches — the formed glyph and any marks that
// got skipped over while matching it — so a later shaping stage can still
// tell which original components a ligature glyph stands for.
type ligatureIDs struct{ next uint8 }

func (l *ligatureIDs) take() uint8 {
	l.next++
	if l.next == 0 {
		l.next = 1
	}
	return l.next
}

// applyLigature tries every ligature candidate for the glyph at i (GSUB
// type 4), in font order — fonts list longer matches first. On success it
// stages the formed ligature glyph followed by any interstitial marks the
// skippy iterator stepped over, each tagged with the component they
// trailed, and returns the count of original positions consumed.
func applyLigature(ctx *Context, ids *ligatureIDs, sub *ot.LigatureSubst, i int, flag ot.LookupFlag, mfs uint16) int {
	buf := ctx.Buf
	candidates := sub.Apply(buf.Info[i].GlyphID)
	if len(candidates) == 0 {
		return 0
	}
	skip := ctx.skippy(flag, mfs)

	for _, lig := range candidates {
		matched := make([]int, 1, len(lig.Component)+1)
		matched[0] = i
		cur := i
		ok := true
		for _, want := range lig.Component {
			next := skip.Next(cur)
			if next < 0 || buf.Info[next].GlyphID != want {
				ok = false
				break
			}
			matched = append(matched, next)
			cur = next
		}
		if !ok {
			continue
		}
		last := matched[len(matched)-1]
		stageLigature(buf, ids.take(), lig.GlyphID, i, last, matched)
		return last - i + 1
	}
	return 0
}

// stageLigature writes the formed ligature glyph at the range's start,
// then every position through last: matched component positions vanish
// into the ligature glyph, while skipped glyphs between them (marks, under
// a typical IgnoreMarks ligature lookup) survive tagged with the component
// index they trailed.
func stageLigature(buf *buffer.Buffer, ligID uint8, ligGlyph ot.GlyphID, start, last int, matched []int) {
	min, _ := buf.MinMaxCluster(start, last+1)

	base := buf.Info[start]
	base.GlyphID = ligGlyph
	base.Cluster = min
	base.LigID = ligID
	base.LigComponent = 0
	buf.StageInfo(base)

	component := 0
	mi := 1
	for pos := start + 1; pos <= last; pos++ {
		if mi < len(matched) && matched[mi] == pos {
			component++
			mi++
			continue // this position folded into the ligature glyph above
		}
		info := buf.Info[pos]
		info.Cluster = min
		info.LigID = ligID
		info.LigComponent = uint8(component)
		buf.StageInfo(info)
	}
}
