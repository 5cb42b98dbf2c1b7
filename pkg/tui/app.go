package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/backscroll/pkg/logger"
	"github.com/killallgit/backscroll/pkg/tui/chat"
)

// StartApp runs the scrollback viewer for one conversation until the user quits
func StartApp(ctx context.Context, opts chat.Options) error {
	log := logger.WithComponent("tui")

	p := tea.NewProgram(NewRootModel(ctx, chat.NewChatModel(ctx, opts)),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	log.Info("starting viewer", "key", opts.Key, "live", opts.Live)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer stopped: %w", err)
	}
	return nil
}
