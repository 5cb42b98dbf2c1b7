package scrollback

import (
	"context"
	"math"

	"github.com/killallgit/backscroll/pkg/history"
)

// navigate loads a window around the target and starts waiting for the
// layout to place it. Before the history is loaded the target is only
// armed; HistoryLoaded resumes it.
func (v *View) navigate(ctx context.Context, t Target) []Command {
	v.pending = &t
	if v.window == nil {
		v.awaitingHistory = true
		v.log.Debug("history not loaded, deferring navigation", "key", v.key, "target", t.Hash)
		return nil
	}
	v.awaitingHistory = false
	v.resince = false
	v.seq++

	cmds := v.setLimit(ctx, history.Around(v.cfg.WindowSize, t.Hash))
	if _, ok := v.index[t.Hash]; !ok {
		v.log.Debug("navigation target not in history", "key", v.key, "target", t.Hash)
		v.pending = nil
		more, _ := v.toBottom(ctx)
		return append(cmds, more...)
	}

	return append(cmds, StartTimer{Seq: v.seq, After: v.cfg.RetryDelay})
}

// resume retries an armed target once a window is available
func (v *View) resume(ctx context.Context) []Command {
	if v.window == nil {
		return nil
	}
	t := *v.pending
	if t.Divider && t.Hash == "" {
		cmds, _ := v.scrollToBacklog(ctx)
		return cmds
	}
	return v.navigate(ctx, t)
}

// scrollToBacklog navigates to the divider above the first unread message.
// Without unread messages it is the same as ScrollToBottom.
func (v *View) scrollToBacklog(ctx context.Context) ([]Command, AppEvent) {
	if v.window == nil {
		v.pending = &Target{Divider: true}
		v.awaitingHistory = true
		return nil, nil
	}

	idx := v.window.DividerIndex()
	if idx < 0 {
		v.pending = nil
		return v.scrollToBottom(ctx)
	}
	return v.navigate(ctx, Target{Hash: v.window.At(idx).Hash, Divider: true}), nil
}

func (v *View) scrollToBottom(ctx context.Context) ([]Command, AppEvent) {
	v.pending = nil
	v.awaitingHistory = false
	v.seq++

	cmds, left := v.toBottom(ctx)
	if left {
		return cmds, v.markRead()
	}
	return cmds, nil
}

// toBottom pins the view to the live tail
func (v *View) toBottom(ctx context.Context) ([]Command, bool) {
	left := v.status != StatusBottom
	v.status = StatusBottom
	v.resince = false
	v.corrector.reset()
	cmds := v.setLimit(ctx, history.Bottom(v.cfg.WindowSize))
	v.viewport.Offset = 0
	v.viewport.Edge = EdgeEnd
	return append(cmds, ScrollTo{Offset: 0, Edge: EdgeEnd}), left
}

func (v *View) onRetry(seq int) []Command {
	if v.pending == nil || seq != v.seq {
		return nil
	}
	return []Command{FindElement{Target: *v.pending, Seq: seq}}
}

// onElementFound scrolls so the target sits one row below the top of the
// page. A target that lands on the last page of a window with nothing newer
// pins the view to the bottom instead.
func (v *View) onElementFound(ctx context.Context, e ElementFound) []Command {
	if v.pending == nil || e.Seq != v.seq {
		return nil
	}
	v.pending = nil
	if !e.Found {
		v.log.Debug("navigation target was not rendered", "key", v.key, "target", e.Target.Hash)
		return nil
	}

	max := v.viewport.MaxOffset()
	offset := math.Min(math.Max(0, e.Bounds.Top-v.cfg.RowHeight), max)

	v.corrector.reset()
	if offset >= max && !v.window.HasMoreNewer {
		v.status = StatusBottom
		v.viewport.Offset, v.viewport.Edge = 0, EdgeEnd
		cmds := v.setLimit(ctx, history.Bottom(v.window.Len()))
		return append(cmds, ScrollTo{Offset: 0, Edge: EdgeEnd})
	}

	v.status = StatusUnlocked
	v.viewport.Offset, v.viewport.Edge = offset, EdgeStart
	return []Command{ScrollTo{Offset: offset, Edge: EdgeStart}}
}
