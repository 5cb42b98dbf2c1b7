package scrollback

import (
	"math"

	"github.com/killallgit/backscroll/pkg/history"
)

// Input is everything Virtualize looks at. It is read, never written.
type Input struct {
	Window  *history.Window
	Heights *HeightCache
	// Offset is the last scroll offset measured from Status's edge.
	Offset      float64
	Status      Status
	PageHeight  float64
	RowHeight   float64
	BufferPages float64
	// RenderAll disables virtualization, used while a navigation target is
	// being located.
	RenderAll bool
}

// Layout is the slice of the window to render. Messages outside
// [Start, End) are replaced by fillers of their combined height.
type Layout struct {
	Start, End  int
	FillerAbove float64
	FillerBelow float64
	Total       int
	Virtualized bool
}

// Len is the number of messages rendered
func (l Layout) Len() int {
	return l.End - l.Start
}

// Contains reports whether message i of the window is rendered
func (l Layout) Contains(i int) bool {
	return i >= l.Start && i < l.End
}

// Virtualize picks the render range for the given scroll state. It walks the
// window from the pinned edge to find the first visible message, then widens
// the range by BufferPages of content on both sides. Unmeasured messages count
// as RowHeight.
func Virtualize(in Input) Layout {
	total := in.Window.Len()
	if total == 0 {
		return Layout{}
	}

	row := in.RowHeight
	if row <= 0 {
		row = 1
	}
	page := math.Max(in.PageHeight, row)
	visibleRows := int(math.Ceil(page / row))
	budget := visibleRows + 2*int(math.Ceil(in.BufferPages*float64(visibleRows)))

	if in.RenderAll || total <= budget {
		return Layout{Start: 0, End: total, Total: total}
	}

	// k counts messages away from the pinned edge
	at := func(k int) int {
		if in.Status == StatusBottom {
			return total - 1 - k
		}
		return k
	}
	height := func(k int) float64 {
		return in.Heights.HeightOr(in.Window.At(at(k)).Hash, row)
	}

	offset := math.Max(0, in.Offset)
	first := total - 1
	acc := 0.0
	for k := 0; k < total; k++ {
		acc += height(k)
		if acc > offset {
			first = k
			break
		}
	}

	buffer := in.BufferPages * page

	lo := first
	for acc = 0; lo > 0 && acc < buffer; {
		lo--
		acc += height(lo)
	}

	hi := first
	for acc = 0; hi < total && acc < page+buffer; hi++ {
		acc += height(hi)
	}

	var start, end int
	if in.Status == StatusBottom {
		start, end = total-hi, total-lo
	} else {
		start, end = lo, hi
	}

	l := Layout{Start: start, End: end, Total: total, Virtualized: true}
	for i := 0; i < start; i++ {
		l.FillerAbove += in.Heights.HeightOr(in.Window.At(i).Hash, row)
	}
	for i := end; i < total; i++ {
		l.FillerBelow += in.Heights.HeightOr(in.Window.At(i).Hash, row)
	}
	return l
}
