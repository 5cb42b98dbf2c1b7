package status

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.backfilling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScrollStateMsg:
		m.status = msg.Status
		m.limit = msg.Limit
		m.loaded = msg.Loaded
		m.unread = msg.Unread
		m.pending = msg.Pending
		return m, nil

	case StartBackfillMsg:
		m.backfilling = true
		m.exhausted = false
		return m, m.spinner.Tick

	case StopBackfillMsg:
		m.backfilling = false
		m.exhausted = msg.Exhausted
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}
