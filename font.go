/*
Package opentype provides the table-level OpenType/TrueType parser used
throughout this module — see the ot subpackage for the real parsing work.

This root package additionally carries a reference-font reader wrapping
golang.org/x/image/font/sfnt, an independent sfnt implementation kept
around for exactly one purpose: giving cmd/otshape a second opinion on a
font file (otshape dump -verify). If x/image's reader and this module's
own ot.Parse disagree about whether a file is even a valid font, that
check surfaces it. It is never used as a shaping source itself.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package opentype

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}

// ReferenceFont is a font parsed by the independent x/image/font/sfnt
// reader. cmd/otshape loads one alongside its own ot.Parse result as a
// sanity check, not as a shaping source.
type ReferenceFont struct {
	Name     string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the reference reader's own container
}

// LoadReferenceFont reads fontfile from disk and hands it to the
// reference reader.
func LoadReferenceFont(fontfile string) (*ReferenceFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, fmt.Errorf("reference reader: reading %s: %w", fontfile, err)
	}
	f, err := ParseReferenceFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseReferenceFont parses fbytes with the reference reader and, on
// success, recovers the font's full name so a caller can compare it
// against whatever this module's own parser reports for the same bytes.
func ParseReferenceFont(fbytes []byte) (f *ReferenceFont, err error) {
	f = &ReferenceFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, fmt.Errorf("reference reader: %w", err)
	}
	if f.Name, err = f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("reference reader: parsed %s", f.Name)
	} else {
		tracer().Debugf("reference reader: no full name: %s", err)
		err = nil
	}
	return f, nil
}
