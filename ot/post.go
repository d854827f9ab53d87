package ot

import "fmt"

// PostTable is the decoded 'post' table: italic angle, underline metrics,
// the monospace hint, and (for format 2.0 fonts) per-glyph names.
type PostTable struct {
	Version           Fixed
	ItalicAngle       Fixed
	UnderlinePosition int16
	UnderlineThickness int16
	IsFixedPitch      uint32
	names             []string // format 2.0 only
}

var macGlyphNames = [258]string{
	".notdef", ".null", "nonmarkingreturn", "space", "exclam", "quotedbl",
	"numbersign", "dollar", "percent", "ampersand", "quotesingle",
	"parenleft", "parenright", "asterisk", "plus", "comma", "hyphen",
	"period", "slash", "zero", "one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "colon", "semicolon", "less",
	"equal", "greater", "question", "at", "A", "B", "C", "D", "E", "F",
	"G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
	"U", "V", "W", "X", "Y", "Z", "bracketleft", "backslash",
	"bracketright", "asciicircum", "underscore", "grave", "a", "b", "c",
	"d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q",
	"r", "s", "t", "u", "v", "w", "x", "y", "z", "braceleft", "bar",
	"braceright", "asciitilde",
	// only the first 98 of the 258 Macintosh standard glyph names are
	// compiled in; the remaining 160 entries are empty strings.
}

// GlyphName returns the PostScript name of glyph g, or "" if the table
// carries no names (format 1.0 uses the standard Macintosh set only up to
// what this package has compiled in; format 3.0 carries no names at all).
func (t *PostTable) GlyphName(g GlyphID) string {
	if int(g) < len(t.names) {
		return t.names[g]
	}
	if int(t.Version) == 0x00010000 && int(g) < len(macGlyphNames) {
		return macGlyphNames[g]
	}
	return ""
}

func parsePost(b []byte) (*PostTable, error) {
	r := newReader(b)
	t := &PostTable{}
	t.Version = r.fixed()
	t.ItalicAngle = r.fixed()
	t.UnderlinePosition = r.i16()
	t.UnderlineThickness = r.i16()
	t.IsFixedPitch = r.u32()
	r.skip(4 * 4) // minMemType42..maxMemType1

	switch int32(t.Version) {
	case 0x00010000, 0x00030000:
		// format 1.0: implied standard Macintosh names, no table data.
		// format 3.0: no names at all.
	case 0x00020000:
		numGlyphs := int(r.u16())
		indices := r.u16Array(numGlyphs)
		if r.err != nil {
			return nil, fmt.Errorf("post: %w", r.err)
		}
		var pascalNames []string
		for r.pos < len(b) {
			n := int(r.u8())
			if r.err != nil {
				break
			}
			s := r.take(n)
			if s == nil {
				break
			}
			pascalNames = append(pascalNames, string(s))
		}
		t.names = make([]string, numGlyphs)
		for i, idx := range indices {
			if idx < 258 {
				if int(idx) < len(macGlyphNames) {
					t.names[i] = macGlyphNames[idx]
				}
			} else {
				j := int(idx) - 258
				if j >= 0 && j < len(pascalNames) {
					t.names[i] = pascalNames[j]
				}
			}
		}
	default:
		return nil, fmt.Errorf("post: unsupported version 0x%08X", uint32(t.Version))
	}
	if r.err != nil {
		return nil, fmt.Errorf("post: %w", r.err)
	}
	return t, nil
}
