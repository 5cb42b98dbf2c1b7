package scrollback

import (
	"context"
	"errors"

	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
)

// View is the scroll state of one conversation. It owns the limit, the
// loaded window and the height cache, and turns host events into commands.
// A View is not safe for concurrent use; the host serializes events.
type View struct {
	key   history.Key
	store history.Store
	cfg   Config
	log   *logger.ComponentLogger

	status   Status
	limit    history.Limit
	window   *history.Window
	index    map[history.Hash]int
	heights  *HeightCache
	viewport Viewport

	// resince defers replacing a grown Bottom limit with a Since limit
	// until the grown window has been fetched.
	resince     bool
	backfilling bool

	pending         *Target
	awaitingHistory bool
	seq             int

	corrector corrector
}

func NewView(key history.Key, store history.Store, cfg Config) *View {
	cfg = cfg.withDefaults()
	return &View{
		key:      key,
		store:    store,
		cfg:      cfg,
		log:      logger.WithComponent("scrollback"),
		status:   StatusBottom,
		limit:    history.Bottom(cfg.WindowSize),
		heights:  NewHeightCache(),
		viewport: Viewport{Edge: EdgeEnd},
	}
}

// Update applies one event and returns the host commands it produced,
// in order, plus at most one application event.
func (v *View) Update(ctx context.Context, ev Event) ([]Command, AppEvent) {
	var cmds []Command
	if v.resince {
		cmds = append(cmds, v.applyResince(ctx)...)
	}

	switch e := ev.(type) {
	case Opened:
		cmds = append(cmds, v.refresh(ctx)...)
		if v.pending != nil {
			cmds = append(cmds, v.resume(ctx)...)
		}
		return cmds, nil

	case HistoryLoaded:
		v.backfilling = false
		cmds = append(cmds, v.refresh(ctx)...)
		if v.pending != nil && v.awaitingHistory {
			cmds = append(cmds, v.resume(ctx)...)
		}
		return cmds, nil

	case Scrolled:
		more, app := v.onScrolled(ctx, e.Viewport)
		return append(cmds, more...), app

	case Resized:
		v.onResized(e)
		return cmds, nil

	case HeightsMeasured:
		v.onHeightsMeasured(e.Heights)
		return cmds, nil

	case Repainted:
		return append(cmds, v.onRepainted(e)...), nil

	case ScrollToMessage:
		return append(cmds, v.navigate(ctx, Target{Hash: e.Hash})...), nil

	case ScrollToBacklog:
		more, app := v.scrollToBacklog(ctx)
		return append(cmds, more...), app

	case ScrollToBottom:
		more, app := v.scrollToBottom(ctx)
		return append(cmds, more...), app

	case RetryElapsed:
		return append(cmds, v.onRetry(e.Seq)...), nil

	case ElementFound:
		return append(cmds, v.onElementFound(ctx, e)...), nil
	}

	v.log.Warn("ignoring unknown event", "type", ev)
	return cmds, nil
}

// Layout returns the render range for the current state
func (v *View) Layout() Layout {
	return Virtualize(Input{
		Window:      v.window,
		Heights:     v.heights,
		Offset:      v.viewport.OffsetFrom(v.status.Edge()),
		Status:      v.status,
		PageHeight:  v.viewport.PageHeight,
		RowHeight:   v.cfg.RowHeight,
		BufferPages: v.cfg.BufferPages,
		RenderAll:   v.pending != nil,
	})
}

func (v *View) Key() history.Key        { return v.key }
func (v *View) Status() Status          { return v.status }
func (v *View) Limit() history.Limit    { return v.limit }
func (v *View) Window() *history.Window { return v.window }
func (v *View) Heights() *HeightCache   { return v.heights }
func (v *View) Viewport() Viewport      { return v.viewport }

// Pending returns the navigation target still being located, if any
func (v *View) Pending() (Target, bool) {
	if v.pending == nil {
		return Target{}, false
	}
	return *v.pending, true
}

// Backfilling reports whether a RequestOlderHistory is outstanding
func (v *View) Backfilling() bool {
	return v.backfilling
}

// refresh re-queries the store with the current limit. A history that is
// not loaded yet leaves the view empty; other errors keep the previous window.
func (v *View) refresh(ctx context.Context) []Command {
	w, err := v.store.Window(ctx, v.key, v.limit, history.Options{HideServer: v.cfg.HideServer})
	if errors.Is(err, history.ErrNotLoaded) {
		v.setWindow(nil)
		return nil
	}
	if err != nil {
		v.log.Warn("failed to fetch window", "key", v.key, "limit", v.limit, "error", err)
		return nil
	}

	v.setWindow(w)
	if w.Cleared {
		return v.reset()
	}
	return nil
}

func (v *View) setWindow(w *history.Window) {
	v.window = w
	v.index = make(map[history.Hash]int, w.Len())
	for i := 0; i < w.Len(); i++ {
		v.index[w.At(i).Hash] = i
	}
}

// reset returns to the live tail after the history was cleared
func (v *View) reset() []Command {
	v.log.Debug("history cleared, resetting view", "key", v.key)
	v.status = StatusBottom
	v.limit = history.Bottom(v.cfg.WindowSize)
	v.resince = false
	v.pending = nil
	v.awaitingHistory = false
	v.corrector.reset()
	v.heights.Clear()
	v.viewport.Offset = 0
	v.viewport.Edge = EdgeEnd
	return []Command{ScrollTo{Offset: 0, Edge: EdgeEnd}}
}

// setLimit replaces the limit and refetches when it changed
func (v *View) setLimit(ctx context.Context, l history.Limit) []Command {
	if v.limit.Equal(l) {
		return nil
	}
	v.log.Debug("limit changed", "key", v.key, "from", v.limit, "to", l)
	v.limit = l
	return v.refresh(ctx)
}

func (v *View) applyResince(ctx context.Context) []Command {
	v.resince = false
	if v.status != StatusUnlocked || !v.limit.Is(history.LimitBottom) {
		return nil
	}
	oldest := v.window.Oldest()
	if oldest == nil {
		return nil
	}
	return v.setLimit(ctx, history.Since(oldest.ServerTime))
}

func (v *View) onResized(e Resized) {
	v.viewport.PageHeight = e.Height
	if v.heights.SetWidth(e.Width) {
		v.log.Debug("width changed, height cache cleared", "width", e.Width)
	}
}

// onHeightsMeasured merges measurements for messages that are loaded or
// already known. Answers for messages that have since left the window are dropped.
func (v *View) onHeightsMeasured(ms []Measurement) {
	for _, m := range ms {
		_, inWindow := v.index[m.Hash]
		_, cached := v.heights.Get(m.Hash)
		if inWindow || cached {
			v.heights.Set(m.Hash, m.Height)
		}
	}
}

func (v *View) onRepainted(e Repainted) []Command {
	v.viewport = e.Viewport

	// rendered heights replace earlier measurements; blocks change height
	// when the divider moves or content reflows
	for _, el := range e.Elements {
		if _, ok := v.index[el.Hash]; ok {
			v.heights.Set(el.Hash, el.Height)
		}
	}

	var cmds []Command
	if cmd := v.corrector.repainted(e.Elements, e.Viewport, v.status == StatusUnlocked); cmd != nil {
		v.viewport.Offset += cmd.Delta
		cmds = append(cmds, *cmd)
	}

	var unmeasured []history.Hash
	l := v.Layout()
	for i := l.Start; i < l.End; i++ {
		h := v.window.At(i).Hash
		if _, ok := v.heights.Get(h); !ok {
			unmeasured = append(unmeasured, h)
		}
	}
	if len(unmeasured) > 0 {
		cmds = append(cmds, MeasureHeights{Hashes: unmeasured})
	}
	return cmds
}
