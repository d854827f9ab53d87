// Package ucd exposes the Unicode data shaping consults beyond font
// tables: grapheme/word boundary detection, general category, canonical
// combining class, and script lookup.
//
// Boundary detection is delegated to github.com/rivo/uniseg (a UAX #29
// implementation); combining class is delegated to
// golang.org/x/text/unicode/norm, whose Properties already carry it as a
// side effect of normalization-form detection. General category and
// script use the standard library's compiled-in unicode range tables,
// with a script-name-to-OpenType-tag mapping layered on top since Go's
// unicode.Scripts is keyed by English script name, not ISO 15924/OpenType
// tag.
package ucd

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.ucd")
}
