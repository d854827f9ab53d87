// Package engine evaluates GSUB/GPOS lookups against a shaping buffer:
// coverage tests, the skippy iterator, feature masking, ligature
// formation, contextual and chaining-contextual matching, reverse-chaining
// substitution, and mark/cursive positioning.
//
// A lookup sweep is advisory end to end: a subtable that fails to match at
// a position is a no-op, and a malformed subtable (already degraded to
// "absent" by package ot) simply contributes nothing. The engine never
// aborts a shape call over lookup content.
package engine

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("opentype.engine")
}

// maxContextRecursion bounds nested-lookup recursion from contextual and
// chaining-contextual subtables, guarding against a (malformed or
// adversarial) font whose context rules invoke each other in a cycle.
const maxContextRecursion = 8
