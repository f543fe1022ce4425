package heuristics

import "roxtract/internal/bview"

// FindOffsetTo locates a relative displacement field that points at needle.
//
// The field at position p holds a value v such that (p - adjust) + v equals
// the offset of needle in haystack. Word positions are scanned backward from
// the last complete word before needle, and the closest match wins. The
// returned offset is p - adjust, the reference point of the displacement.
func FindOffsetTo(haystack, needle bview.View, adjust uint32) (uint32, bool) {
	if haystack.Len() < 4 {
		return 0, false
	}
	target, ok := Find(haystack, needle)
	if !ok {
		return 0, false
	}
	before, err := haystack.Subrange(0, target)
	if err != nil {
		return 0, false
	}

	for c := newWordCursorEnd(before); c.valid(); c.prev() {
		start, ok := bview.CheckedSub(c.pos, adjust)
		if !ok {
			continue
		}
		v, ok := c.current()
		if !ok {
			continue
		}
		if sum, ok := bview.CheckedAdd(start, v); ok && sum == target {
			return start, true
		}
	}
	return 0, false
}

// wordCursor walks the complete 4-byte words of a view.
type wordCursor struct {
	words bview.View
	pos   uint32
	done  bool
}

func newWordCursorEnd(v bview.View) *wordCursor {
	words, _ := v.Subrange(0, v.Len()&^3)
	c := &wordCursor{words: words}
	if words.Len() < 4 {
		c.done = true
		return c
	}
	c.pos = words.Len() - 4
	return c
}

func (c *wordCursor) valid() bool { return !c.done }

func (c *wordCursor) current() (uint32, bool) {
	if c.done {
		return 0, false
	}
	w, err := c.words.WordAt(c.pos)
	return w, err == nil
}

// prev moves one word back; moving before the first word ends the walk.
func (c *wordCursor) prev() {
	if c.pos < 4 {
		c.done = true
		return
	}
	c.pos -= 4
}
