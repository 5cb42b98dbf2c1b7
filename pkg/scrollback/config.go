package scrollback

import (
	"math"
	"time"
)

// Config holds the windowing parameters of a View. Heights are in the host's
// units (terminal rows for the TUI).
type Config struct {
	// WindowSize is the count of the initial Bottom limit and of Around limits.
	WindowSize int
	// RowHeight is the height assumed for a message that was never measured.
	RowHeight float64
	// BufferPages is how many pages of content are rendered on either side of the viewport.
	BufferPages float64
	// MinGrowth is the smallest number of messages a limit grows by.
	MinGrowth int
	// RetryDelay is how long navigation waits for the layout before locating its target.
	RetryDelay time.Duration

	MarkReadOnBottom bool
	InfiniteScroll   bool
	// BackfillPage is how far a Top limit grows when older history is requested.
	BackfillPage int
	HideServer   bool
}

// DefaultConfig returns the configuration used when none is supplied
func DefaultConfig() Config {
	return Config{
		WindowSize:       200,
		RowHeight:        1,
		BufferPages:      3,
		MinGrowth:        10,
		RetryDelay:       50 * time.Millisecond,
		MarkReadOnBottom: true,
		InfiniteScroll:   true,
		BackfillPage:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.RowHeight <= 0 {
		c.RowHeight = d.RowHeight
	}
	if c.BufferPages < 0 {
		c.BufferPages = 0
	}
	if c.MinGrowth <= 0 {
		c.MinGrowth = d.MinGrowth
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.BackfillPage <= 0 {
		c.BackfillPage = d.BackfillPage
	}
	return c
}

// growth is the number of messages one page of scrolling is worth
func (c Config) growth(page float64) int {
	n := int(math.Ceil(page / c.RowHeight))
	if n < c.MinGrowth {
		return c.MinGrowth
	}
	return n
}
