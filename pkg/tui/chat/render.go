package chat

import (
	"math"
	"strings"

	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/scrollback"
)

// document is the laid-out content: blank filler rows standing in for
// messages outside the render range, then the rendered lines.
type document struct {
	fillerAbove int
	lines       []string
	fillerBelow int
	elements    []scrollback.Element
}

func (d document) height() int {
	return d.fillerAbove + len(d.lines) + d.fillerBelow
}

// line returns row i of the content, blank inside fillers
func (d document) line(i int) string {
	j := i - d.fillerAbove
	if j < 0 || j >= len(d.lines) {
		return ""
	}
	return d.lines[j]
}

func (d document) element(h history.Hash) (scrollback.Element, bool) {
	for _, el := range d.elements {
		if el.Hash == h {
			return el, true
		}
	}
	return scrollback.Element{}, false
}

// layoutDocument renders the view's current layout. The divider is part of
// the block of the first live message, so it moves with that message.
func (m *chatModel) layoutDocument() {
	width := m.contentWidth()
	if width != m.renderAt {
		m.rendered = make(map[history.Hash]string)
		m.renderAt = width
	}

	l := m.view.Layout()
	doc := document{
		fillerAbove: int(math.Round(l.FillerAbove)),
		fillerBelow: int(math.Round(l.FillerBelow)),
	}

	w := m.view.Window()
	divider := w.DividerIndex()
	for i := l.Start; i < l.End; i++ {
		msg := w.At(i)
		block := m.block(msg, i == divider)
		top := doc.fillerAbove + len(doc.lines)
		lines := strings.Split(block, "\n")
		doc.lines = append(doc.lines, lines...)
		doc.elements = append(doc.elements, scrollback.Element{
			Hash:   msg.Hash,
			Top:    float64(top),
			Height: float64(len(lines)),
		})
	}
	m.doc = doc
}

func (m *chatModel) block(msg *history.Message, divider bool) string {
	out, ok := m.rendered[msg.Hash]
	if !ok {
		out = m.formatter.Render(msg, m.renderAt)
		m.rendered[msg.Hash] = out
	}
	if divider {
		return m.formatter.Divider(m.renderAt) + "\n" + out
	}
	return out
}

// measure answers a MeasureHeights command from the laid-out document,
// rendering messages that are not part of it.
func (m *chatModel) measure(hashes []history.Hash) []scrollback.Measurement {
	w := m.view.Window()
	divider := w.DividerIndex()

	out := make([]scrollback.Measurement, 0, len(hashes))
	for _, h := range hashes {
		if el, ok := m.doc.element(h); ok {
			out = append(out, scrollback.Measurement{Hash: h, Height: el.Height})
			continue
		}
		i := w.Index(h)
		if i < 0 {
			continue
		}
		block := m.block(w.At(i), i == divider)
		out = append(out, scrollback.Measurement{Hash: h, Height: float64(strings.Count(block, "\n") + 1)})
	}
	return out
}

// find answers a FindElement command. A divider target resolves to the
// block of its message, whose first row is the divider.
func (m *chatModel) find(c scrollback.FindElement) scrollback.ElementFound {
	el, ok := m.doc.element(c.Target.Hash)
	if !ok {
		return scrollback.ElementFound{Target: c.Target, Seq: c.Seq}
	}
	return scrollback.ElementFound{
		Target: c.Target,
		Seq:    c.Seq,
		Bounds: scrollback.Bounds{Top: el.Top, Height: el.Height},
		Found:  true,
	}
}
