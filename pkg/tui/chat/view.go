package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m chatModel) View() string {
	if m.width == 0 {
		return ""
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.statusBar.View(),
	)
}

func (m chatModel) renderHeader() string {
	key := m.view.Key()
	title := fmt.Sprintf("%s  %s", key.String(), key.Kind)
	return m.styles.Header.Width(m.width).MaxHeight(1).Render(title)
}

// renderBody shows exactly one page of the document
func (m chatModel) renderBody() string {
	page := m.pageHeight()
	top := m.topLine()

	rows := make([]string, page)
	for i := range rows {
		rows[i] = m.doc.line(top + i)
	}
	return strings.Join(rows, "\n")
}
