package chat

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/backscroll/pkg/backfill"
)

func (m chatModel) Init() tea.Cmd {
	store, key, ctx := m.opts.Store, m.opts.Key, m.ctx
	load := func() tea.Msg {
		if err := store.Load(ctx, key); err != nil {
			return errMsg(fmt.Errorf("failed to load %s: %w", key, err))
		}
		return openedMsg{}
	}

	if m.opts.Live > 0 {
		return tea.Batch(load, liveTick(m.opts.Live))
	}
	return load
}

func liveTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return liveTickMsg{}
	})
}

// appendLive writes one generated message to the live tail
func (m *chatModel) appendLive() tea.Cmd {
	msg := backfill.Line(m.rng, time.Now().UTC(), m.opts.Senders)
	store, key, ctx := m.opts.Store, m.opts.Key, m.ctx
	return func() tea.Msg {
		if err := store.Append(ctx, key, msg); err != nil {
			return errMsg(fmt.Errorf("failed to append message: %w", err))
		}
		return historyChangedMsg{}
	}
}
