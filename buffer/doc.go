// Package buffer implements the shaping buffer: the mutable sequence of
// glyph info and position records that a shaping plan rewrites in place.
//
// A Buffer starts life holding one GlyphInfo per input codepoint and ends
// shaping holding one GlyphInfo/GlyphPosition pair per output glyph.
// A GSUB sweep does not mutate Buffer.Info directly while iterating it; it
// stages its rewrites into a scratch buffer and EndSweep promotes it once
// the sweep completes, so the lookup never observes its own output
// mid-sweep. Reverse-chaining substitution and nested contextual lookups
// are the exceptions: they rewrite Info in place.
package buffer

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.buffer")
}
