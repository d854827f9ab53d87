package ucd

import (
	"unicode"

	"github.com/glyphkit/opentype/ot"
)

// scriptTags maps the Go standard library's unicode.Scripts table names
// (English script names) to their 4-letter OpenType script tags. Only
// scripts this package's callers (the per-script shapers) distinguish are
// listed; ScriptOf returns DFLT for anything else.
var scriptTags = map[string]ot.Tag{
	"Latin":      ot.T("latn"),
	"Greek":      ot.T("grek"),
	"Cyrillic":   ot.T("cyrl"),
	"Armenian":   ot.T("armn"),
	"Georgian":   ot.T("geor"),
	"Arabic":     ot.T("arab"),
	"Hebrew":     ot.T("hebr"),
	"Syriac":     ot.T("syrc"),
	"Thaana":     ot.T("thaa"),
	"Devanagari": ot.T("deva"),
	"Bengali":    ot.T("beng"),
	"Gurmukhi":   ot.T("guru"),
	"Gujarati":   ot.T("gujr"),
	"Oriya":      ot.T("orya"),
	"Tamil":      ot.T("taml"),
	"Telugu":     ot.T("telu"),
	"Kannada":    ot.T("knda"),
	"Malayalam":  ot.T("mlym"),
	"Sinhala":    ot.T("sinh"),
	"Thai":       ot.T("thai"),
	"Lao":        ot.T("lao "),
	"Tibetan":    ot.T("tibt"),
	"Myanmar":    ot.T("mymr"),
	"Khmer":      ot.T("khmr"),
	"Hangul":     ot.T("hang"),
	"Han":        ot.T("hani"),
	"Hiragana":   ot.T("kana"),
	"Katakana":   ot.T("kana"),
	"Common":     ot.T("DFLT"),
	"Inherited":  ot.T("zinh"),
}

// ScriptOf returns cp's OpenType script tag, consulting the standard
// library's compiled per-script range tables. Codepoints in more than one
// candidate script (Go evaluates ranges, not properties, so ties are
// broken by map iteration) resolve to whichever matches first; this
// mirrors how an OpenType cmap-adjacent script guess only needs "good
// enough for the first strong character," not exhaustive resolution.
func ScriptOf(cp rune) ot.Tag {
	for name, tag := range scriptTags {
		if table, ok := unicode.Scripts[name]; ok && unicode.Is(table, cp) {
			return tag
		}
	}
	return ot.DFLT
}
