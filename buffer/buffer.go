package buffer

import "github.com/glyphkit/opentype/ot"

// Direction is the buffer's logical reading direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
	TTB
	BTT
)

func (d Direction) IsBackward() bool { return d == RTL || d == BTT }
func (d Direction) IsVertical() bool { return d == TTB || d == BTT }

// GlyphInfo is one buffer entry: identity, source attribution, and the
// per-position metadata the lookup engine and script shapers consult.
//
// Codepoint and GlyphID share no storage; Codepoint holds the original
// scalar value until cmap mapping runs (§4.11 step 3), after which
// GlyphID is authoritative and Codepoint is kept only for shapers that
// still need the original character (e.g. Arabic joining classification).
type GlyphInfo struct {
	GlyphID   ot.GlyphID
	Codepoint rune
	Cluster   uint32
	Mask      uint32

	Category           ot.GlyphCategory
	MarkAttachClass    uint8
	Syllable           uint8
	LigID              uint8
	LigComponent        uint8
}

// GlyphPosition is the positioning result for one GlyphInfo.
type GlyphPosition struct {
	XAdvance, YAdvance int32
	XOffset, YOffset   int32
}

// Buffer is the shaping buffer: parallel GlyphInfo/GlyphPosition arrays
// plus a scratch array used to stage rewrites mid-sweep.
type Buffer struct {
	Info      []GlyphInfo
	Pos       []GlyphPosition
	Direction Direction
	Script    ot.Tag
	Language  ot.Tag

	scratchInfo []GlyphInfo
	scratchPos  []GlyphPosition
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Reset clears the buffer for reuse, keeping underlying array capacity.
func (b *Buffer) Reset() {
	b.Info = b.Info[:0]
	b.Pos = b.Pos[:0]
	b.scratchInfo = b.scratchInfo[:0]
	b.scratchPos = b.scratchPos[:0]
}

// Len returns the current glyph count.
func (b *Buffer) Len() int { return len(b.Info) }

// AddCodepoint appends one pre-shaping glyph info, cluster set to its
// source codepoint index.
func (b *Buffer) AddCodepoint(cp rune, cluster uint32) {
	b.Info = append(b.Info, GlyphInfo{Codepoint: cp, Cluster: cluster})
	b.Pos = append(b.Pos, GlyphPosition{})
}

// BeginSweep prepares the scratch arrays for a fresh rewrite pass: a
// lookup sweep appends to Scratch* via Stage* while reading only Info/Pos,
// then EndSweep promotes the scratch content to be the new primary.
func (b *Buffer) BeginSweep() {
	b.scratchInfo = b.scratchInfo[:0]
	b.scratchPos = b.scratchPos[:0]
}

// StageCopy appends the untouched glyph at index i to the scratch buffer.
func (b *Buffer) StageCopy(i int) {
	b.scratchInfo = append(b.scratchInfo, b.Info[i])
	b.scratchPos = append(b.scratchPos, b.Pos[i])
}

// StageInfo appends a freshly produced glyph (e.g. a substitution's
// output) to the scratch buffer, paired with a zeroed GlyphPosition.
func (b *Buffer) StageInfo(info GlyphInfo) {
	b.scratchInfo = append(b.scratchInfo, info)
	b.scratchPos = append(b.scratchPos, GlyphPosition{})
}

// EndSweep swaps the scratch buffer into place as the new primary buffer.
// After this call the arrays a sweep staged into become Info/Pos, and the
// old Info/Pos become scratch space for the next sweep.
func (b *Buffer) EndSweep() {
	b.Info, b.scratchInfo = b.scratchInfo, b.Info
	b.Pos, b.scratchPos = b.scratchPos, b.Pos
}

// MergeClusters sets every glyph in [start, end) to share the minimum
// cluster value found in that range, per the "cluster equals min(a..b)"
// invariant.
func (b *Buffer) MergeClusters(start, end int) {
	if start >= end || end > len(b.Info) {
		return
	}
	min := b.Info[start].Cluster
	for i := start + 1; i < end; i++ {
		if b.Info[i].Cluster < min {
			min = b.Info[i].Cluster
		}
	}
	for i := start; i < end; i++ {
		b.Info[i].Cluster = min
	}
}

// MinMaxCluster reports the minimum and maximum cluster value in [start, end).
func (b *Buffer) MinMaxCluster(start, end int) (min, max uint32) {
	if start >= end || end > len(b.Info) {
		return 0, 0
	}
	min, max = b.Info[start].Cluster, b.Info[start].Cluster
	for i := start + 1; i < end; i++ {
		c := b.Info[i].Cluster
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

// Truncate shortens the buffer to its first n glyphs, used by engines (such
// as the AAT state-machine driver) that compact deleted positions via a
// write-index pass rather than the GSUB staged-sweep machinery.
func (b *Buffer) Truncate(n int) {
	b.Info = b.Info[:n]
	b.Pos = b.Pos[:n]
}

// InsertAt splices info into the buffer at position i, shifting everything
// at or after i one slot to the right.
func (b *Buffer) InsertAt(i int, info GlyphInfo) {
	b.Info = append(b.Info, GlyphInfo{})
	copy(b.Info[i+1:], b.Info[i:])
	b.Info[i] = info
	b.Pos = append(b.Pos, GlyphPosition{})
	copy(b.Pos[i+1:], b.Pos[i:])
	b.Pos[i] = GlyphPosition{}
}

// Reverse reverses the entire buffer in place (used for RTL runs after
// GSUB/GPOS, so glyph order matches left-to-right visual order).
func (b *Buffer) Reverse() {
	b.ReverseRange(0, len(b.Info))
}

// ReverseRange reverses [start, end) in place, keeping Info and Pos
// aligned.
func (b *Buffer) ReverseRange(start, end int) {
	for i, j := start, end-1; i < j; i, j = i+1, j-1 {
		b.Info[i], b.Info[j] = b.Info[j], b.Info[i]
		b.Pos[i], b.Pos[j] = b.Pos[j], b.Pos[i]
	}
}

// SetGDefProperties fills Category and MarkAttachClass for every glyph
// from the font's GDEF table, once glyph ids are known (post-cmap).
func (b *Buffer) SetGDefProperties(gdef *ot.GDefTable) {
	for i := range b.Info {
		b.Info[i].Category = gdef.Category(b.Info[i].GlyphID)
		b.Info[i].MarkAttachClass = uint8(gdef.MarkAttachmentClass(b.Info[i].GlyphID))
	}
}

// ClampMarkAdvances zeroes x_advance for every glyph GDEF marked as a
// combining mark, per invariant 5: a mark's own advance is carried by the
// base it is attached to.
func (b *Buffer) ClampMarkAdvances() {
	for i := range b.Info {
		if b.Info[i].Category == ot.CategoryMark {
			b.Pos[i].XAdvance = 0
		}
	}
}
