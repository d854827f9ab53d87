// Package shapeplan builds a shaping plan: the ordered, per-script feature
// list, the mask bits assigned to each feature, and the GSUB/GPOS lookup
// indices those features expand to for one (font, script, language) triple.
// It also hosts the per-script pre-shaping steps (Arabic joining,
// normalization) that run before the plan's GSUB stages.
package shapeplan

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.shapeplan")
}
