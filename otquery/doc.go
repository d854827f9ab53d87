// Package otquery offers read-only, display-oriented accessors over a
// parsed *ot.Font: name-table strings, head/maxp summaries, and font/glyph
// metrics — the kind of information cmd/otshape's dump subcommand prints,
// not anything the shaping pipeline itself consults.
package otquery

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.otquery")
}
