package shapeplan

import "github.com/glyphkit/opentype/ot"

// Feature is one caller-requested feature toggle, matching spec.md §6's
// shape-input contract: Start/End bound the cluster range it applies to,
// 0..MaxUint32 meaning the whole buffer.
type Feature struct {
	Tag   ot.Tag
	Value uint32
	Start uint32
	End   uint32
}

const wholeBuffer = ^uint32(0)

// globalFeatures are always enabled, buffer-wide, regardless of shaper or
// caller request (spec.md §4.10 step 2, "Global, always-on").
var globalFeatures = []string{"ccmp", "locl", "rlig", "rclt"}

// positioningFeatures are the fixed-order GPOS-side stage (spec.md §4.10
// step 2, "Positioning").
var positioningFeatures = []string{"kern", "mark", "mkmk", "cpsp", "abvm", "blwm", "dist"}

// stageBridgeFeatures are the shaper-specific substitution features that
// run between the global stage and the caller's discretionary features.
func stageBridgeFeatures(shaper Shaper) []string {
	switch shaper {
	case ShaperArabic:
		return []string{"isol", "fina", "medi", "init", "fin2", "fin3", "med2"}
	case ShaperIndic, ShaperUSE:
		return []string{"nukt", "akhn", "rphf", "blwf", "half", "pstf", "vatu", "cjct"}
	default:
		return nil
	}
}

// featureOrder builds the fixed per-shaper feature tag sequence of spec.md
// §4.10 step 2: global, stage bridges, discretionary user features in
// caller order, then positioning — with duplicates removed, first
// occurrence wins (spec.md §9's calt/clig tie-break resolution).
func featureOrder(shaper Shaper, user []Feature) []ot.Tag {
	seen := make(map[ot.Tag]bool)
	var order []ot.Tag
	add := func(tag ot.Tag) {
		if !seen[tag] {
			seen[tag] = true
			order = append(order, tag)
		}
	}
	for _, s := range globalFeatures {
		add(ot.T(s))
	}
	for _, s := range stageBridgeFeatures(shaper) {
		add(ot.T(s))
	}
	for _, f := range user {
		if f.Value != 0 {
			add(f.Tag)
		}
	}
	for _, s := range positioningFeatures {
		add(ot.T(s))
	}
	return order
}

// MaskLayout assigns each ordered feature tag its own bit (up to 32, per
// spec.md §4.10 step 3 and §9's "Feature masks" note).
type MaskLayout struct {
	GlobalMask  uint32
	FeatureBits map[ot.Tag]uint32
	Order       []ot.Tag
}

func assignMasks(order []ot.Tag) MaskLayout {
	ml := MaskLayout{FeatureBits: make(map[ot.Tag]uint32, len(order))}
	bit := uint(0)
	for _, tag := range order {
		if bit >= 32 {
			tracer().Infof("shapeplan: feature %s dropped, mask space exhausted", tag)
			continue
		}
		mask := uint32(1) << bit
		ml.FeatureBits[tag] = mask
		ml.Order = append(ml.Order, tag)
		bit++
	}
	for _, s := range globalFeatures {
		ml.GlobalMask |= ml.FeatureBits[ot.T(s)]
	}
	return ml
}

// LookupRef is one lookup this plan will sweep, tagged with the feature
// mask bit(s) that gate it.
type LookupRef struct {
	FeatureTag ot.Tag
	Index      uint16
	Mask       uint32
}

// expandFeature resolves tag to its lookup indices for (script, language),
// falling back to the DFLT script and default language per spec.md §4.4/
// §4.10 step 4.
func expandFeature(scripts *ot.ScriptList, features *ot.FeatureList, script, language, tag ot.Tag) []uint16 {
	if scripts == nil || features == nil {
		return nil
	}
	s, _ := scripts.ScriptFor(script)
	if s == nil {
		return nil
	}
	langSys := s.LangSysFor(language)
	if langSys == nil {
		return nil
	}
	var indices []uint16
	if langSys.RequiredFeature >= 0 {
		indices = append(indices, uint16(langSys.RequiredFeature))
	}
	indices = append(indices, langSys.FeatureIndices...)

	var lookups []uint16
	for _, idx := range indices {
		if int(idx) >= len(features.Features) {
			continue
		}
		feat := features.Features[idx]
		if feat.Tag == tag {
			lookups = append(lookups, feat.LookupIndices...)
		}
	}
	return lookups
}

// expandLookups walks the ordered, masked feature list and produces the
// deduped (feature_tag, lookup_index) sequence spec.md §4.8's "Lookup
// dispatch order" describes — first occurrence wins, original order kept.
func expandLookups(scripts *ot.ScriptList, features *ot.FeatureList, script, language ot.Tag, ml MaskLayout) []LookupRef {
	seen := make(map[uint16]int) // lookup index -> position in refs
	var refs []LookupRef
	for _, tag := range ml.Order {
		mask := ml.FeatureBits[tag]
		for _, idx := range expandFeature(scripts, features, script, language, tag) {
			if pos, ok := seen[idx]; ok {
				refs[pos].Mask |= mask
				continue
			}
			seen[idx] = len(refs)
			refs = append(refs, LookupRef{FeatureTag: tag, Index: idx, Mask: mask})
		}
	}
	return refs
}
