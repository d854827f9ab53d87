package shapeplan

import "github.com/glyphkit/opentype/ot"

// Shaper names the per-script shaping strategy a plan selects, per
// spec.md §4.10 step 1.
type Shaper string

const (
	ShaperArabic  Shaper = "arabic"
	ShaperHebrew  Shaper = "hebrew"
	ShaperIndic   Shaper = "indic"
	ShaperKhmer   Shaper = "khmer"
	ShaperMyanmar Shaper = "myanmar"
	ShaperThai    Shaper = "thai"
	ShaperTibetan Shaper = "tibetan"
	ShaperHangul  Shaper = "hangul"
	ShaperUSE     Shaper = "use"
	ShaperDefault Shaper = "default"
)

// indicScripts lists the OpenType script tags handled by the Indic-family
// shaper (the newer "2"-suffixed tags, e.g. dev2/bng2, take the same shaper as
// their legacy counterparts).
var indicScripts = map[string]bool{
	"deva": true, "dev2": true,
	"beng": true, "bng2": true,
	"guru": true, "gur2": true,
	"gujr": true, "gjr2": true,
	"orya": true, "ory2": true,
	"taml": true, "tml2": true,
	"telu": true, "tel2": true,
	"knda": true, "knd2": true,
	"mlym": true, "mlm2": true,
	"sinh": true,
}

// useScripts lists scripts the Universal Shaping Engine covers.
// SelectShaper returns ShaperUSE for them; that shaper gets the Indic
// stage-bridge features and has no pre-GSUB reordering step of its own.
var useScripts = map[string]bool{
	"bali": true, "batk": true, "brah": true, "bugi": true, "buhd": true,
	"cham": true, "java": true, "kali": true, "lepc": true, "limb": true,
	"mtei": true, "rjng": true, "saur": true, "sund": true, "sylo": true,
	"tagb": true, "tale": true, "talu": true, "tavt": true, "tglg": true,
	"tfng": true,
}

// SelectShaper chooses a shaping strategy for a script tag per spec.md
// §4.10 step 1.
func SelectShaper(script ot.Tag) Shaper {
	s := script.String()
	switch s {
	case "arab", "syrc":
		return ShaperArabic
	case "hebr":
		return ShaperHebrew
	case "khmr":
		return ShaperKhmer
	case "mymr", "mym2":
		return ShaperMyanmar
	case "thai", "lao ":
		return ShaperThai
	case "tibt":
		return ShaperTibetan
	case "hang":
		return ShaperHangul
	}
	if indicScripts[s] {
		return ShaperIndic
	}
	if useScripts[s] {
		return ShaperUSE
	}
	return ShaperDefault
}
