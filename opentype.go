/*
Package opentype handles OpenType fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package opentype

import (
	"github.com/glyphkit/opentype/buffer"
	"github.com/glyphkit/opentype/ot"
	"github.com/glyphkit/opentype/otquery"
	"github.com/glyphkit/opentype/shape"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable for shaping.
func FromBinary(data []byte) (*ot.Font, error) {
	return ot.Parse(data)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded by the current name-table reader.
func FamilyName(f *ot.Font) (family, subfamily string) {
	for nameId, stringValue := range otquery.NamesRange(f) {
		switch nameId {
		case otquery.NameIDFamily:
			family = stringValue
		case otquery.NameIDSubfamily:
			subfamily = stringValue
		}
	}
	return
}

// GlyphRecord is one shaped glyph: its identity, the cluster of source
// runes it maps back to, and its final pen-relative position.
type GlyphRecord struct {
	GlyphID  ot.GlyphID
	Cluster  uint32
	XAdvance int32
	YAdvance int32
	XOffset  int32
	YOffset  int32
}

// ShapeLatinText shapes UTF-8 text as one left-to-right run in "Latin" (i.e.,
// Western) script.
//
// It uses script `latn` and language `ENG `, and returns glyph records in
// final (visual) order. If otf is nil or text is empty, it does nothing.
//
// This is a convenience API for a very common use case of short pieces of
// Western text. Callers who need control over script, language, direction,
// or feature selection should call shape.Shape directly.
func ShapeLatinText(otf *ot.Font, text string) ([]GlyphRecord, error) {
	if otf == nil || text == "" {
		return nil, nil
	}
	buf := buffer.New()
	for i, r := range []rune(text) {
		buf.AddCodepoint(r, uint32(i))
	}
	shape.Shape(otf, buf, shape.Options{
		Direction: buffer.LTR,
		Script:    ot.T("latn"),
		Language:  ot.T("ENG "),
	})
	records := make([]GlyphRecord, buf.Len())
	for i := range buf.Info {
		records[i] = GlyphRecord{
			GlyphID:  buf.Info[i].GlyphID,
			Cluster:  buf.Info[i].Cluster,
			XAdvance: buf.Pos[i].XAdvance,
			YAdvance: buf.Pos[i].YAdvance,
			XOffset:  buf.Pos[i].XOffset,
			YOffset:  buf.Pos[i].YOffset,
		}
	}
	return records, nil
}
