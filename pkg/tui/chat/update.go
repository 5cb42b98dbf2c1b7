package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/backscroll/pkg/backfill"
	"github.com/killallgit/backscroll/pkg/scrollback"
	"github.com/killallgit/backscroll/pkg/tui/chat/status"
)

const wheelRows = 3

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmd := m.handleWindowResize(msg.Width, msg.Height)
		return m, cmd

	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			cmd := m.scrollLines(wheelRows)
			return m, cmd
		case tea.MouseButtonWheelDown:
			cmd := m.scrollLines(-wheelRows)
			return m, cmd
		}
		return m, nil

	case openedMsg:
		cmd := m.dispatch(scrollback.Opened{})
		if m.opts.Jump != "" {
			cmd = tea.Batch(cmd, m.dispatch(scrollback.ScrollToMessage{Hash: m.opts.Jump}))
		}
		return m, cmd

	case historyChangedMsg:
		cmd := m.dispatch(scrollback.HistoryLoaded{})
		return m, cmd

	case heightsMeasuredMsg:
		cmd := m.dispatch(scrollback.HeightsMeasured{Heights: msg})
		return m, cmd

	case retryMsg:
		cmd := m.dispatch(scrollback.RetryElapsed{Seq: msg.seq})
		return m, cmd

	case elementFoundMsg:
		cmd := m.dispatch(scrollback.ElementFound(msg))
		return m, cmd

	case backfillDoneMsg:
		exhausted := errors.Is(msg.err, backfill.ErrExhausted)
		if exhausted {
			m.exhausted = true
		} else if msg.err != nil {
			m.setError(msg.err)
		}
		m.statusBar, _ = m.statusBar.Update(status.StopBackfillMsg{Added: msg.added, Exhausted: exhausted})
		cmd := m.dispatch(scrollback.HistoryLoaded{})
		return m, cmd

	case liveTickMsg:
		cmd := tea.Batch(m.appendLive(), liveTick(m.opts.Live))
		return m, cmd

	case errMsg:
		m.setError(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.statusBar, cmd = m.statusBar.Update(msg)
	return m, cmd
}

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.pageHeight() - 1
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(msg, m.keys.LineUp):
		cmd := m.scrollLines(1)
		return m, cmd
	case key.Matches(msg, m.keys.LineDown):
		cmd := m.scrollLines(-1)
		return m, cmd
	case key.Matches(msg, m.keys.PageUp):
		cmd := m.scrollLines(page)
		return m, cmd
	case key.Matches(msg, m.keys.PageDown):
		cmd := m.scrollLines(-page)
		return m, cmd
	case key.Matches(msg, m.keys.Oldest):
		cmd := m.scrollLines(m.doc.height())
		return m, cmd
	case key.Matches(msg, m.keys.Bottom):
		cmd := m.dispatch(scrollback.ScrollToBottom{})
		return m, cmd
	case key.Matches(msg, m.keys.Backlog):
		cmd := m.dispatch(scrollback.ScrollToBacklog{})
		return m, cmd
	}
	return m, nil
}

// dispatch feeds one event to the scrollback view, carries out the
// resulting commands and repaints.
func (m *chatModel) dispatch(ev scrollback.Event) tea.Cmd {
	cmds, app := m.view.Update(m.ctx, ev)
	out := m.apply(cmds)
	if app != nil {
		out = append(out, m.handleAppEvent(app))
	}
	out = append(out, m.repaint()...)
	m.syncStatus()
	return tea.Batch(out...)
}

// repaint lays out the document and reports the new positions. A correction
// from the view is applied and laid out once more without another report.
func (m *chatModel) repaint() []tea.Cmd {
	m.layoutDocument()
	m.clampOffset()

	cmds, _ := m.view.Update(m.ctx, scrollback.Repainted{
		Elements: m.doc.elements,
		Viewport: m.viewport(),
	})
	out := m.apply(cmds)
	for _, c := range cmds {
		if _, ok := c.(scrollback.ScrollBy); ok {
			m.layoutDocument()
			m.clampOffset()
			break
		}
	}
	return out
}

// apply carries out view commands. Scrolls take effect immediately, the rest
// come back as messages.
func (m *chatModel) apply(cmds []scrollback.Command) []tea.Cmd {
	var out []tea.Cmd
	for _, c := range cmds {
		switch c := c.(type) {
		case scrollback.ScrollTo:
			m.offset, m.edge = c.Offset, c.Edge
		case scrollback.ScrollBy:
			m.offset += c.Delta
		case scrollback.MeasureHeights:
			heights := m.measure(c.Hashes)
			out = append(out, func() tea.Msg { return heightsMeasuredMsg(heights) })
		case scrollback.FindElement:
			found := m.find(c)
			out = append(out, func() tea.Msg { return elementFoundMsg(found) })
		case scrollback.StartTimer:
			out = append(out, retryAfter(c))
		default:
			m.log.Warn("ignoring unknown command", "type", fmt.Sprintf("%T", c))
		}
	}
	return out
}

func retryAfter(c scrollback.StartTimer) tea.Cmd {
	seq := c.Seq
	return tea.Tick(c.After, func(_ time.Time) tea.Msg {
		return retryMsg{seq: seq}
	})
}

func (m *chatModel) handleAppEvent(ev scrollback.AppEvent) tea.Cmd {
	ctx := m.ctx
	switch e := ev.(type) {
	case scrollback.RequestOlderHistory:
		fetcher := m.opts.Fetcher
		if fetcher == nil || m.exhausted {
			return func() tea.Msg { return backfillDoneMsg{err: backfill.ErrExhausted} }
		}
		var start tea.Cmd
		m.statusBar, start = m.statusBar.Update(status.StartBackfillMsg{})
		return tea.Batch(start, func() tea.Msg {
			n, err := fetcher.Fetch(ctx, e.Key)
			return backfillDoneMsg{added: n, err: err}
		})

	case scrollback.MarkAsRead:
		store := m.opts.Store
		return func() tea.Msg {
			if err := store.MarkRead(ctx, e.Key, e.Until); err != nil {
				return errMsg(fmt.Errorf("failed to mark %s read: %w", e.Key, err))
			}
			return historyChangedMsg{}
		}
	}
	return nil
}

func (m *chatModel) syncStatus() {
	unread := 0
	if w := m.view.Window(); w != nil {
		unread = len(w.New)
	}
	_, pending := m.view.Pending()
	m.statusBar, _ = m.statusBar.Update(status.ScrollStateMsg{
		Status:  m.view.Status(),
		Limit:   m.view.Limit().String(),
		Loaded:  m.view.Window().Len(),
		Unread:  unread,
		Pending: pending,
	})
}

func (m *chatModel) setError(err error) {
	m.err = err
	m.log.Error("view error", "key", m.opts.Key, "error", err)
	m.statusBar, _ = m.statusBar.Update(status.ErrorMsg{Err: err})
}
