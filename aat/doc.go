/*
Package aat drives the extended state machines described by a font's morx
table: rearrangement, contextual substitution, ligature formation,
non-contextual substitution, and insertion. ot.MorxTable only decodes the
byte layout; this package walks it against a shaping buffer.
*/
package aat

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.aat")
}
