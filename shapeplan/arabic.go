package shapeplan

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
)

// joiningType is the Unicode Arabic-joining classification of a codepoint,
// used to decide which contextual form (isolated/initial/medial/final) a
// letter takes once shaped among its neighbors.
type joiningType uint8

const (
	joiningTypeU joiningType = iota // non-joining
	joiningTypeR                    // right-joining (joins preceding only)
	joiningTypeD                    // dual-joining (joins both sides)
	joiningTypeT                    // transparent (combining marks; skipped when scanning neighbors)
	joiningTypeC                    // joining causer (ZWJ, tatweel)
)

func classifyJoiningType(cp rune) joiningType {
	switch cp {
	case 0, '‌': // NUL, ZWNJ
		return joiningTypeU
	case '‍', 'ـ': // ZWJ, tatweel
		return joiningTypeC
	}
	if unicode.Is(unicode.M, cp) {
		return joiningTypeT
	}
	if isRightJoining(cp) {
		return joiningTypeR
	}
	if unicode.IsLetter(cp) && (unicode.In(cp, unicode.Arabic) || unicode.In(cp, unicode.Syriac)) {
		return joiningTypeD
	}
	return joiningTypeU
}

// rightJoiningRunes lists the common dual-is-actually-right-joining Arabic
// and Syriac letters (alef, dal/dhal, reh/zain, waw and their extended
// forms) that only ever join to a preceding letter.
var rightJoiningRunes = map[rune]bool{
	'آ': true, 'أ': true, 'ؤ': true, 'إ': true, 'ا': true, 'ة': true,
	'د': true, 'ذ': true, 'ر': true, 'ز': true, 'و': true,
	'ٱ': true, 'ٲ': true, 'ٳ': true, 'ٵ': true, 'ٶ': true, 'ٷ': true,
	'ڈ': true, 'ډ': true, 'ڑ': true,
	'ۀ': true, 'ۃ': true, 'ۄ': true, 'ۅ': true, 'ۆ': true,
	'ۇ': true, 'ۈ': true, 'ۉ': true, 'ۊ': true, 'ۋ': true, 'ۍ': true,
	'ܐ': true, 'ܕ': true, 'ܖ': true, 'ܘ': true, 'ܙ': true, 'ܚ': true,
	'ܝ': true, 'ܪ': true, 'ܫ': true, 'ܬ': true, 'ܭ': true, 'ܮ': true, 'ܯ': true,
}

func isRightJoining(cp rune) bool { return rightJoiningRunes[cp] }

func canJoinPreceding(t joiningType) bool { return t == joiningTypeD || t == joiningTypeR || t == joiningTypeC }
func canJoinFollowing(t joiningType) bool { return t == joiningTypeD || t == joiningTypeC }

const (
	formIsol = iota
	formFina
	formMedi
	formInit
)

var arabicFormTags = [...]string{formIsol: "isol", formFina: "fina", formMedi: "medi", formInit: "init"}

// applyArabicJoining computes each glyph's joining form from its original
// codepoint and ORs in the corresponding feature bit from the plan's mask
// layout, per spec.md §4.10's Arabic pre-GSUB step: "compute joining state
// ... derive per-position feature bits, then run GSUB".
func applyArabicJoining(buf *buffer.Buffer, masks MaskLayout) {
	n := buf.Len()
	types := make([]joiningType, n)
	for i := range buf.Info {
		types[i] = classifyJoiningType(buf.Info[i].Codepoint)
	}
	for i := 0; i < n; i++ {
		t := types[i]
		if t != joiningTypeD && t != joiningTypeR {
			continue
		}
		prev := prevJoinType(types, i)
		next := nextJoinType(types, i)
		joinPrev := prev >= 0 && canJoinFollowing(types[prev]) && canJoinPreceding(t)
		joinNext := next >= 0 && canJoinFollowing(t) && canJoinPreceding(types[next])

		form := formIsol
		switch {
		case joinPrev && joinNext:
			form = formMedi
		case joinPrev:
			form = formFina
		case joinNext:
			form = formInit
		}
		if bit, ok := masks.FeatureBits[ot.T(arabicFormTags[form])]; ok {
			buf.Info[i].Mask |= bit
		}
		buf.Info[i].Syllable = uint8(form)
	}
}

func prevJoinType(types []joiningType, i int) int {
	for j := i - 1; j >= 0; j-- {
		if types[j] != joiningTypeT {
			return j
		}
	}
	return -1
}

func nextJoinType(types []joiningType, i int) int {
	for j := i + 1; j < len(types); j++ {
		if types[j] != joiningTypeT {
			return j
		}
	}
	return -1
}

// reorderArabicMarks stable-sorts combining marks within each maximal run
// of marks sharing a base glyph by their Unicode combining class, the
// normalization-adjacent step spec.md §4.10 calls out for Arabic.
func reorderArabicMarks(buf *buffer.Buffer) {
	i := 0
	for i < buf.Len() {
		if buf.Info[i].Category != ot.CategoryMark {
			i++
			continue
		}
		start := i
		for i < buf.Len() && buf.Info[i].Category == ot.CategoryMark {
			i++
		}
		sortMarksByCombiningClass(buf, start, i)
	}
}

func sortMarksByCombiningClass(buf *buffer.Buffer, start, end int) {
	for a := start + 1; a < end; a++ {
		for b := a; b > start && combiningClass(buf.Info[b-1].Codepoint) > combiningClass(buf.Info[b].Codepoint); b-- {
			buf.Info[b-1], buf.Info[b] = buf.Info[b], buf.Info[b-1]
			buf.Pos[b-1], buf.Pos[b] = buf.Pos[b], buf.Pos[b-1]
		}
	}
}

func combiningClass(cp rune) uint8 {
	if cp == 0 {
		return 0
	}
	return norm.NFD.PropertiesString(string(cp)).CCC()
}
