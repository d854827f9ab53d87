package ucd

import "unicode"

// GeneralCategory is the coarse Unicode general-category grouping shaping
// cares about: whether a codepoint is a base letter/number/symbol, or one
// of the three mark kinds that combine with a preceding base.
type GeneralCategory uint8

const (
	CategoryOther GeneralCategory = iota
	CategoryLetter
	CategoryMarkNonspacing
	CategoryMarkSpacingCombining
	CategoryMarkEnclosing
	CategoryNumber
	CategoryPunctuation
	CategorySymbol
	CategorySeparator
)

// GeneralCategoryOf classifies cp using the standard library's compiled
// Unicode range tables.
func GeneralCategoryOf(cp rune) GeneralCategory {
	switch {
	case unicode.Is(unicode.Mn, cp):
		return CategoryMarkNonspacing
	case unicode.Is(unicode.Mc, cp):
		return CategoryMarkSpacingCombining
	case unicode.Is(unicode.Me, cp):
		return CategoryMarkEnclosing
	case unicode.IsLetter(cp):
		return CategoryLetter
	case unicode.IsNumber(cp):
		return CategoryNumber
	case unicode.IsPunct(cp):
		return CategoryPunctuation
	case unicode.IsSymbol(cp):
		return CategorySymbol
	case unicode.IsSpace(cp):
		return CategorySeparator
	default:
		return CategoryOther
	}
}

// IsMark reports whether cp is any of the three combining-mark general
// categories (the set shaping treats as "attaches to the preceding base").
func IsMark(cp rune) bool {
	switch GeneralCategoryOf(cp) {
	case CategoryMarkNonspacing, CategoryMarkSpacingCombining, CategoryMarkEnclosing:
		return true
	}
	return false
}

// IsVariationSelector reports whether cp is one of the Unicode variation
// selectors (VS1-16, U+FE00-FE0F, or the supplementary VS17-256 block,
// U+E0100-E01EF) that can follow a base codepoint to pick a specific
// glyph variant via a font's cmap format-14 subtable.
func IsVariationSelector(cp rune) bool {
	return unicode.Is(unicode.Variation_Selector, cp)
}
