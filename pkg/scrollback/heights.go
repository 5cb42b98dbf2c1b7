package scrollback

import "github.com/killallgit/backscroll/pkg/history"

// HeightCache remembers measured message heights for one content width.
// Any width change invalidates every entry.
type HeightCache struct {
	heights map[history.Hash]float64
	width   float64
}

func NewHeightCache() *HeightCache {
	return &HeightCache{heights: make(map[history.Hash]float64)}
}

// Get returns the measured height of a message
func (c *HeightCache) Get(h history.Hash) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.heights[h]
	return v, ok
}

// HeightOr returns the measured height, or def when the message was never measured
func (c *HeightCache) HeightOr(h history.Hash, def float64) float64 {
	if v, ok := c.Get(h); ok {
		return v
	}
	return def
}

// Set records a measurement. Non-positive heights are ignored.
func (c *HeightCache) Set(h history.Hash, height float64) {
	if height <= 0 {
		return
	}
	c.heights[h] = height
}

func (c *HeightCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.heights)
}

func (c *HeightCache) Clear() {
	c.heights = make(map[history.Hash]float64)
}

// Width is the content width the cached heights were measured at
func (c *HeightCache) Width() float64 {
	return c.width
}

// SetWidth records the content width and drops every entry when it changed.
// It reports whether the cache was invalidated.
func (c *HeightCache) SetWidth(w float64) bool {
	if w == c.width {
		return false
	}
	c.width = w
	if len(c.heights) == 0 {
		return false
	}
	c.Clear()
	return true
}
