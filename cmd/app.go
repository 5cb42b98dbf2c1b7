package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/backscroll/pkg/backfill"
	"github.com/killallgit/backscroll/pkg/config"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
	"github.com/killallgit/backscroll/pkg/scrollback"
	"github.com/killallgit/backscroll/pkg/tui"
	"github.com/killallgit/backscroll/pkg/tui/chat"
)

const (
	demoCount  = 500
	demoUnread = 40
	// how far back the demo source can backfill
	demoSpan = 7 * 24 * time.Hour
)

// AppConfig contains all configuration needed to run the viewer
type AppConfig struct {
	Config *config.Config
	Key    history.Key
	Jump   history.Hash
	Live   time.Duration
	Demo   bool
}

// RunApplication is the main entry point for the application logic
func RunApplication(ctx context.Context, appCfg *AppConfig) error {
	log := logger.WithComponent("app")
	cfg := appCfg.Config

	store, err := history.OpenSQLite(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := chat.Options{
		Key:             appCfg.Key,
		Store:           store,
		Scrollback:      scrollbackConfig(cfg),
		Markdown:        cfg.Display.Markdown,
		TimestampFormat: cfg.Display.TimestampFormat,
		Jump:            appCfg.Jump,
		Live:            appCfg.Live,
	}

	if appCfg.Demo {
		source := backfill.NewGeneratedSource(time.Now().Add(-demoSpan))
		seeded, err := seedIfEmpty(ctx, store, appCfg.Key, demoCount, demoUnread)
		if err != nil {
			return err
		}
		if seeded > 0 {
			log.Info("seeded demo history", "key", appCfg.Key, "count", seeded)
		}
		opts.Fetcher = backfill.NewFetcher(store, source, backfillConfig(cfg))
	}

	if err := tui.StartApp(ctx, opts); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

// scrollbackConfig maps settings onto the view's windowing parameters
func scrollbackConfig(cfg *config.Config) scrollback.Config {
	return scrollback.Config{
		WindowSize:       cfg.Scrollback.WindowSize,
		RowHeight:        cfg.Scrollback.RowHeight,
		BufferPages:      cfg.Scrollback.BufferPages,
		MinGrowth:        cfg.Scrollback.MinGrowth,
		RetryDelay:       cfg.Scrollback.RetryDelay,
		MarkReadOnBottom: cfg.Scrollback.MarkReadOnBottom,
		InfiniteScroll:   cfg.Scrollback.InfiniteScroll,
		BackfillPage:     cfg.Backfill.PageSize,
		HideServer:       cfg.History.HideServer,
	}
}

func backfillConfig(cfg *config.Config) backfill.Config {
	return backfill.Config{
		PageSize: cfg.Backfill.PageSize,
		Rate:     cfg.Backfill.Rate,
		Burst:    cfg.Backfill.Burst,
	}
}
