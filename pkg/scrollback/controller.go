package scrollback

import (
	"context"

	"github.com/killallgit/backscroll/pkg/history"
)

// onScrolled runs the status and limit transition for a user scroll. When the
// status flips, the offset is re-expressed from the new edge before the
// corrector captures a new anchor, so the content does not jump.
func (v *View) onScrolled(ctx context.Context, vp Viewport) ([]Command, AppEvent) {
	v.viewport = vp
	if v.window == nil {
		return nil, nil
	}

	prev := v.status
	next, limit, app := v.transition(vp)

	var cmds []Command
	v.status = next
	if next.Edge() != vp.Edge {
		flipped := vp.Reversed()
		v.log.Debug("status flipped", "from", prev, "to", next, "offset", flipped.Offset)
		v.viewport = flipped
		cmds = append(cmds, ScrollTo{Offset: flipped.Offset, Edge: flipped.Edge})
	}

	cmds = append(cmds, v.setLimit(ctx, limit)...)
	v.corrector.capture(v.viewport)
	return cmds, app
}

// transition decides the next status and limit. The first matching rule wins:
//
//  1. within a page of the live edge with newer history unloaded: grow toward it
//  2. at the live edge: follow the tail
//  3. within a page of the historical edge with older history in the store: grow toward it
//  4. at the historical edge with nothing older in the store: ask the source for more
//  5. leaving the tail: pin the oldest message
//  6. anywhere else: keep the oldest message pinned
func (v *View) transition(vp Viewport) (Status, history.Limit, AppEvent) {
	w := v.window
	page := vp.PageHeight
	toLive := vp.FromBottom()
	toHistory := vp.FromTop()
	step := v.cfg.growth(page)

	switch {
	case toLive <= page && w.HasMoreNewer:
		return StatusUnlocked, v.limit.Grow(step), nil

	case toLive <= edgeEpsilon:
		if v.status != StatusBottom {
			return StatusBottom, history.Bottom(v.cfg.WindowSize), v.markRead()
		}
		if toHistory <= page && w.HasMoreOlder {
			return StatusBottom, history.Bottom(w.Len() + step), nil
		}
		if !v.limit.Is(history.LimitBottom) {
			return StatusBottom, history.Bottom(v.cfg.WindowSize), nil
		}
		return StatusBottom, v.limit, nil

	case toHistory <= page && w.HasMoreOlder:
		// Top windows start at the oldest message and never get here
		if v.limit.Is(history.LimitAround) {
			return StatusUnlocked, v.limit.Grow(step), nil
		}
		v.resince = true
		return StatusUnlocked, history.Bottom(w.Len() + step), nil

	case toHistory <= edgeEpsilon:
		if v.cfg.InfiniteScroll && v.key.Live() && !v.backfilling {
			v.backfilling = true
			v.log.Debug("requesting older history", "key", v.key)
			return StatusUnlocked, history.Top(w.Len() + v.cfg.BackfillPage), RequestOlderHistory{Key: v.key}
		}
		if v.limit.Is(history.LimitTop) || v.limit.Is(history.LimitAround) {
			return StatusUnlocked, v.limit, nil
		}
		return StatusUnlocked, v.sinceOldest(), nil

	case v.status == StatusBottom:
		return StatusUnlocked, v.sinceOldest(), nil

	default:
		if v.limit.Is(history.LimitTop) || v.limit.Is(history.LimitAround) {
			return StatusUnlocked, v.limit, nil
		}
		return StatusUnlocked, v.sinceOldest(), nil
	}
}

// sinceOldest pins the oldest loaded message so new arrivals append below it
func (v *View) sinceOldest() history.Limit {
	oldest := v.window.Oldest()
	if oldest == nil {
		return v.limit
	}
	return history.Since(oldest.ServerTime)
}

func (v *View) markRead() AppEvent {
	if !v.cfg.MarkReadOnBottom {
		return nil
	}
	newest := v.window.Newest()
	if newest == nil {
		return nil
	}
	return MarkAsRead{Key: v.key, Until: newest.ServerTime}
}
