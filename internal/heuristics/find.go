// Package heuristics locates structures in a ROM image that has no header
// pointing at them: plain byte-pattern search, and recovery of relative
// displacement fields from the anchor they point at.
package heuristics

import (
	"bytes"

	"roxtract/internal/bview"
)

// Find returns the offset of the first occurrence of needle in haystack.
// An empty needle or an empty haystack never matches.
func Find(haystack, needle bview.View) (uint32, bool) {
	if haystack.IsEmpty() {
		return 0, false
	}
	first, rest, ok := needle.SplitFirst()
	if !ok {
		return 0, false
	}

	hs := haystack
	var base uint32
	for {
		i := bytes.IndexByte(hs.Bytes(), first)
		if i < 0 {
			return 0, false
		}
		start := uint32(i) + 1
		end, ok := bview.CheckedAdd(uint32(i), needle.Len())
		if !ok || end > hs.Len() {
			// the rest of the haystack cannot hold the needle
			return 0, false
		}

		cand, err := hs.Subrange(start, end)
		if err != nil {
			return 0, false
		}
		if cand.Equal(rest) {
			return base + uint32(i), true
		}

		// resume past the matched first byte
		hs, err = hs.SubrangeFrom(start)
		if err != nil {
			return 0, false
		}
		base += start
	}
}
