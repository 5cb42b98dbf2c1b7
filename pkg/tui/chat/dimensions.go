package chat

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/backscroll/pkg/scrollback"
)

// header and status line
const chromeRows = 2

func (m *chatModel) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *chatModel) pageHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		return 1
	}
	return h
}

// viewport describes the current scroll position over the laid-out document
func (m *chatModel) viewport() scrollback.Viewport {
	return scrollback.Viewport{
		Offset:        m.offset,
		Edge:          m.edge,
		ContentHeight: float64(m.doc.height()),
		PageHeight:    float64(m.pageHeight()),
	}
}

// topLine is the first document row on screen
func (m *chatModel) topLine() int {
	return int(math.Round(m.viewport().FromTop()))
}

// clampOffset keeps the offset inside the document
func (m *chatModel) clampOffset() {
	max := m.viewport().MaxOffset()
	m.offset = math.Max(0, math.Min(m.offset, max))
}

// handleWindowResize updates all dimensions when window size changes
func (m *chatModel) handleWindowResize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.statusBar, _ = m.statusBar.Update(tea.WindowSizeMsg{Width: width, Height: height})

	return m.dispatch(scrollback.Resized{
		Width:  float64(m.contentWidth()),
		Height: float64(m.pageHeight()),
	})
}

// scrollLines moves the view by n rows, positive toward older messages
func (m *chatModel) scrollLines(n int) tea.Cmd {
	vp := m.viewport()
	fromTop := math.Max(0, math.Min(vp.FromTop()-float64(n), vp.MaxOffset()))
	if m.edge == scrollback.EdgeStart {
		m.offset = fromTop
	} else {
		m.offset = vp.MaxOffset() - fromTop
	}
	return m.dispatch(scrollback.Scrolled{Viewport: m.viewport()})
}
