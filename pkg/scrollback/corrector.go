package scrollback

import (
	"math"

	"github.com/killallgit/backscroll/pkg/history"
)

// corrector keeps the message at the top of the viewport still while content
// above it changes height. It only corrects while the view is unlocked; in
// Bottom status the bottom edge is the anchor and needs no help.
type corrector struct {
	elements []Element

	anchor    history.Hash
	anchorTop float64
	anchored  bool
}

// capture remembers the first element that reaches into the viewport
func (c *corrector) capture(vp Viewport) {
	c.anchored = false
	top := vp.FromTop()
	for _, e := range c.elements {
		if e.Top+e.Height > top {
			c.anchor, c.anchorTop, c.anchored = e.Hash, e.Top, true
			return
		}
	}
}

// repainted compares the anchor's new position to the captured one and
// returns the scroll needed to undo the shift. An anchor that is no longer
// rendered is dropped without correcting.
func (c *corrector) repainted(elements []Element, vp Viewport, enabled bool) *ScrollBy {
	c.elements = elements
	if !enabled {
		c.anchored = false
		return nil
	}
	if !c.anchored {
		c.capture(vp)
		return nil
	}

	for _, e := range elements {
		if e.Hash != c.anchor {
			continue
		}
		delta := e.Top - c.anchorTop
		c.anchorTop = e.Top
		if math.Abs(delta) <= edgeEpsilon {
			return nil
		}
		return &ScrollBy{Delta: delta}
	}

	c.anchored = false
	return nil
}

func (c *corrector) reset() {
	c.elements = nil
	c.anchored = false
}
