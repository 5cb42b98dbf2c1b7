package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ErrExhausted is returned when the source has nothing older to offer
var ErrExhausted = errors.New("no older history available")

// Config controls paging and pacing of backfill requests
type Config struct {
	PageSize int
	Rate     float64 // requests per second
	Burst    int
}

// Fetcher answers RequestOlderHistory by pulling a page from a Source and
// prepending it to the store. Concurrent requests for one conversation
// share a single fetch, and all fetches are rate limited.
type Fetcher struct {
	store    history.ReadWriter
	source   Source
	limiter  *rate.Limiter
	group    singleflight.Group
	pageSize int
	log      *logger.ComponentLogger
}

func NewFetcher(store history.ReadWriter, source Source, cfg Config) *Fetcher {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	return &Fetcher{
		store:    store,
		source:   source,
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		pageSize: cfg.PageSize,
		log:      logger.WithComponent("backfill"),
	}
}

// Fetch loads one page of history older than the oldest stored message and
// returns how many messages were added.
func (f *Fetcher) Fetch(ctx context.Context, key history.Key) (int, error) {
	v, err, shared := f.group.Do(key.String(), func() (interface{}, error) {
		return f.fetch(ctx, key)
	})
	if shared {
		f.log.Debug("joined in-flight fetch", "key", key)
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (f *Fetcher) fetch(ctx context.Context, key history.Key) (int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("backfill wait: %w", err)
	}

	before, err := f.oldest(ctx, key)
	if err != nil {
		return 0, err
	}

	msgs, err := f.source.Before(ctx, key, before, f.pageSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch history before %s: %w", before.Format(time.RFC3339), err)
	}
	if len(msgs) == 0 {
		return 0, ErrExhausted
	}

	if err := f.store.Prepend(ctx, key, msgs...); err != nil {
		return 0, fmt.Errorf("failed to store fetched history: %w", err)
	}
	f.log.Info("backfilled history", "key", key, "count", len(msgs), "before", before.Format(time.RFC3339))
	return len(msgs), nil
}

// oldest is the time of the oldest stored message, or now for an empty conversation
func (f *Fetcher) oldest(ctx context.Context, key history.Key) (time.Time, error) {
	w, err := f.store.Window(ctx, key, history.Top(1), history.Options{Peek: true})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read oldest message: %w", err)
	}
	if m := w.Oldest(); m != nil {
		return m.ServerTime, nil
	}
	return time.Now().UTC(), nil
}
