package rom

type cacheState uint8

const (
	unresolved cacheState = iota
	found
	absent
)

// cachedOffset memoizes an offset lookup, including a failed one.
type cachedOffset struct {
	state cacheState
	off   uint32
}

func (c *cachedOffset) get(find func() (uint32, bool)) (uint32, bool) {
	switch c.state {
	case found:
		return c.off, true
	case absent:
		return 0, false
	}

	off, ok := find()
	if !ok {
		c.state = absent
		return 0, false
	}
	c.state, c.off = found, off
	return off, true
}
