package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// rootModel wraps the conversation view with the process-level bindings
type rootModel struct {
	ctx    context.Context
	view   tea.Model
	width  int
	height int
}

func NewRootModel(ctx context.Context, view tea.Model) rootModel {
	return rootModel{ctx: ctx, view: view}
}

func (m rootModel) Init() tea.Cmd {
	if m.ctx.Err() != nil {
		return tea.Quit
	}
	if m.view == nil {
		return nil
	}
	return m.view.Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Suspend):
			return m, tea.Suspend
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.ResumeMsg:
		// the terminal may have been resized while stopped
		return m, tea.Batch(tea.ClearScreen, tea.WindowSize())
	}

	if m.view == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m rootModel) View() string {
	if m.view == nil {
		return ""
	}
	return m.view.View()
}
