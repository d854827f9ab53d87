package ucd

import "github.com/rivo/uniseg"

// GraphemeBoundaries returns every grapheme-cluster boundary in cps as
// rune-index offsets, starting with 0 and ending with len(cps); consecutive
// boundaries bracket one extended grapheme cluster (UAX #29), keeping
// ZWJ-joined emoji sequences and regional-indicator pairs together.
func GraphemeBoundaries(cps []rune) []int {
	if len(cps) == 0 {
		return []int{0}
	}
	s := string(cps)
	bounds := make([]int, 0, len(cps)+1)
	bounds = append(bounds, 0)
	pos := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		pos += runeCount(cluster)
		bounds = append(bounds, pos)
	}
	return bounds
}

// WordBoundaries returns every word-boundary offset in cps, including 0
// and len(cps).
func WordBoundaries(cps []rune) []int {
	if len(cps) == 0 {
		return []int{0}
	}
	s := string(cps)
	bounds := make([]int, 0, len(cps)+1)
	bounds = append(bounds, 0)
	pos := 0
	state := -1
	for len(s) > 0 {
		var word string
		word, s, state = uniseg.FirstWordInString(s, state)
		pos += runeCount(word)
		bounds = append(bounds, pos)
	}
	return bounds
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
