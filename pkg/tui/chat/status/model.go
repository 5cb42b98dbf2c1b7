package status

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/backscroll/pkg/scrollback"
	"github.com/killallgit/backscroll/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner spinner.Model
	styles  *theme.Styles

	status  scrollback.Status
	limit   string
	loaded  int
	unread  int
	pending bool

	backfilling bool
	exhausted   bool
	err         error

	width int
}

// NewStatusModel creates a new status bar model
func NewStatusModel(styles *theme.Styles) StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorViolet)

	return StatusModel{
		spinner: s,
		styles:  styles,
		status:  scrollback.StatusBottom,
	}
}

// Backfilling reports whether a fetch of older history is in flight
func (m StatusModel) Backfilling() bool {
	return m.backfilling
}
