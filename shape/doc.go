// Package shape is the top-level entry point: given a font and a run of
// codepoints it drives cmap lookup, the per-script shape plan, the GSUB/GPOS
// engine (or the AAT/kern fallbacks for fonts that lack them), and the
// universal post-processing every shaped run needs before it can be drawn.
package shape

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.shape")
}
