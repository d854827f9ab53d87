package shapeplan

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

const (
	hangulBase  = 0xAC00
	hangulCount = 11172
	lCount      = 19
	vCount      = 21
	tCount      = 28
	nCount      = vCount * tCount
)

// decomposeHangul splits each precomposed Hangul syllable into its
// Leading/Vowel/Trailing jamo, but only when the font actually has glyphs
// for all parts — otherwise the precomposed glyph is kept, per spec.md
// §4.10: "decompose precomposed syllables ... if the font has those
// glyphs; otherwise keep composed."
func decomposeHangul(buf *buffer.Buffer, font *ot.Font) {
	if font.CMap == nil {
		return
	}
	i := 0
	for i < buf.Len() {
		cp := buf.Info[i].Codepoint
		l, v, t, ok := decomposeSyllable(cp)
		if !ok {
			i++
			continue
		}
		lg, lok := lookupJamo(font, l)
		vg, vok := lookupJamo(font, v)
		if !lok || !vok {
			i++
			continue
		}
		cluster := buf.Info[i].Cluster
		replacement := []buffer.GlyphInfo{
			{GlyphID: lg, Codepoint: l, Cluster: cluster},
			{GlyphID: vg, Codepoint: v, Cluster: cluster},
		}
		if t != 0 {
			if tg, tok := lookupJamo(font, t); tok {
				replacement = append(replacement, buffer.GlyphInfo{GlyphID: tg, Codepoint: t, Cluster: cluster})
			} else {
				i++
				continue
			}
		}
		spliceInfos(buf, i, replacement)
		i += len(replacement)
	}
}

func lookupJamo(font *ot.Font, cp rune) (ot.GlyphID, bool) {
	g := font.CMap.Lookup(cp)
	return g, g != ot.NotDef
}

// decomposeSyllable implements the standard Hangul syllable decomposition
// formula (Unicode 3.12, Hangul Syllable Decomposition).
func decomposeSyllable(cp rune) (l, v, t rune, ok bool) {
	s := int(cp) - hangulBase
	if s < 0 || s >= hangulCount {
		return 0, 0, 0, false
	}
	l = rune(0x1100 + s/nCount)
	v = rune(0x1161 + (s%nCount)/tCount)
	tIndex := s % tCount
	if tIndex != 0 {
		t = rune(0x11A7 + tIndex)
	}
	return l, v, t, true
}

// spliceInfos replaces the single buffer position at i with replacement,
// shifting everything after it.
func spliceInfos(buf *buffer.Buffer, i int, replacement []buffer.GlyphInfo) {
	buf.Info[i] = replacement[0]
	for k := 1; k < len(replacement); k++ {
		buf.InsertAt(i+k, replacement[k])
	}
}
