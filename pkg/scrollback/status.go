package scrollback

import "math"

// Status says which end of the conversation the view is pinned to
type Status int

const (
	// StatusBottom follows the live tail. Offsets are measured from the bottom.
	StatusBottom Status = iota
	// StatusUnlocked is reading history. Offsets are measured from the top.
	StatusUnlocked
)

func (s Status) String() string {
	if s == StatusBottom {
		return "bottom"
	}
	return "unlocked"
}

// Edge is the side a scroll offset is measured from
func (s Status) Edge() Edge {
	if s == StatusBottom {
		return EdgeEnd
	}
	return EdgeStart
}

// Edge is the reference side of a scroll offset
type Edge int

const (
	EdgeEnd Edge = iota
	EdgeStart
)

func (e Edge) String() string {
	if e == EdgeEnd {
		return "end"
	}
	return "start"
}

// edgeEpsilon absorbs fractional rounding in host offsets
const edgeEpsilon = 0.01

// Viewport is the scroll geometry reported by the host
type Viewport struct {
	Offset        float64 // distance from Edge
	Edge          Edge
	ContentHeight float64
	PageHeight    float64
}

// MaxOffset is the largest offset the content allows
func (v Viewport) MaxOffset() float64 {
	return math.Max(0, v.ContentHeight-v.PageHeight)
}

func (v Viewport) clamped() float64 {
	return math.Min(math.Max(0, v.Offset), v.MaxOffset())
}

// FromTop is the distance between the top of the content and the top of the page
func (v Viewport) FromTop() float64 {
	if v.Edge == EdgeStart {
		return v.clamped()
	}
	return v.MaxOffset() - v.clamped()
}

// FromBottom is the distance between the bottom of the page and the bottom of the content
func (v Viewport) FromBottom() float64 {
	if v.Edge == EdgeEnd {
		return v.clamped()
	}
	return v.MaxOffset() - v.clamped()
}

// OffsetFrom expresses the position relative to the given edge
func (v Viewport) OffsetFrom(e Edge) float64 {
	if e == EdgeStart {
		return v.FromTop()
	}
	return v.FromBottom()
}

// Reversed returns the same position measured from the opposite edge
func (v Viewport) Reversed() Viewport {
	out := v
	out.Offset = math.Max(0, v.ContentHeight-v.PageHeight-v.Offset)
	if v.Edge == EdgeEnd {
		out.Edge = EdgeStart
	} else {
		out.Edge = EdgeEnd
	}
	return out
}

// Relative is the position as a fraction, 0 at the top and 1 at the bottom
func (v Viewport) Relative() float64 {
	max := v.MaxOffset()
	if max == 0 {
		return 1
	}
	return v.FromTop() / max
}
