package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/backscroll/pkg/scrollback"
	"github.com/killallgit/backscroll/pkg/tui/theme"
)

func (m StatusModel) View() string {
	if m.width == 0 {
		return ""
	}

	var components []string

	if m.status == scrollback.StatusBottom {
		components = append(components, m.styles.StatusLive.Render("● live"))
	} else {
		components = append(components, m.styles.StatusUnlocked.Render("▲ scrolled"))
	}

	if m.limit != "" {
		components = append(components, m.styles.StatusMuted.Render(m.limit))
	}
	components = append(components, m.styles.StatusMuted.Render(fmt.Sprintf("%d msgs", m.loaded)))

	if m.unread > 0 {
		components = append(components, m.styles.StatusUnlocked.Render(fmt.Sprintf("%d unread", m.unread)))
	}

	if m.pending {
		components = append(components, m.styles.StatusMuted.Render("jumping"))
	}

	switch {
	case m.backfilling:
		components = append(components, m.spinner.View()+m.styles.StatusMuted.Render(" loading older"))
	case m.exhausted:
		components = append(components, m.styles.StatusMuted.Render("start of history"))
	}

	if m.err != nil {
		components = append(components, m.styles.StatusError.Render(m.err.Error()))
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorBase03).Render(" | ")
	statusLine := strings.Join(components, separator)

	return m.styles.StatusBar.
		Width(m.width).
		MaxHeight(1).
		Render(statusLine)
}
