package history

import (
	"sort"
	"time"
)

// Window is a read-only slice of a conversation's history, split at the
// read marker into historical (Old) and live (New) messages.
// A Window is never mutated after it is returned by a Store.
type Window struct {
	Old []*Message
	New []*Message

	HasMoreOlder bool
	HasMoreNewer bool

	// Cleared is set on the first window returned after the history was cleared
	Cleared bool
}

// Len returns the combined number of messages
func (w *Window) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Old) + len(w.New)
}

// At returns the message at index i of Old followed by New
func (w *Window) At(i int) *Message {
	if i < len(w.Old) {
		return w.Old[i]
	}
	return w.New[i-len(w.Old)]
}

// Index returns the position of the message with the given hash, or -1
func (w *Window) Index(h Hash) int {
	if w == nil {
		return -1
	}
	for i, m := range w.Old {
		if m.Hash == h {
			return i
		}
	}
	for i, m := range w.New {
		if m.Hash == h {
			return len(w.Old) + i
		}
	}
	return -1
}

// Contains reports whether the window holds the message
func (w *Window) Contains(h Hash) bool {
	return w.Index(h) >= 0
}

// Oldest returns the first message of the window, or nil when empty
func (w *Window) Oldest() *Message {
	if w.Len() == 0 {
		return nil
	}
	return w.At(0)
}

// Newest returns the last message of the window, or nil when empty
func (w *Window) Newest() *Message {
	if w.Len() == 0 {
		return nil
	}
	return w.At(w.Len() - 1)
}

// DividerIndex returns the index of the first live message, which the divider
// precedes. It returns -1 when the window has no live messages.
func (w *Window) DividerIndex() int {
	if w == nil || len(w.New) == 0 {
		return -1
	}
	return len(w.Old)
}

// Messages returns Old and New concatenated in a fresh slice
func (w *Window) Messages() []*Message {
	out := make([]*Message, 0, w.Len())
	out = append(out, w.Old...)
	return append(out, w.New...)
}

// selection is the outcome of applying a Limit to an ordered message list.
type selection struct {
	messages  []*Message
	moreOlder bool
	moreNewer bool
}

// selectLimit applies limit to msgs, which must be ordered oldest first.
// Around with an unknown anchor falls back to Bottom with the same count.
func selectLimit(msgs []*Message, limit Limit) selection {
	total := len(msgs)

	switch limit.Kind {
	case LimitTop:
		end := min(total, max(limit.Count, 0))
		return selection{messages: msgs[:end], moreNewer: end < total}

	case LimitSince:
		start := sort.Search(total, func(i int) bool {
			return !msgs[i].ServerTime.Before(limit.Since)
		})
		return selection{messages: msgs[start:], moreOlder: start > 0}

	case LimitAround:
		idx := -1
		for i, m := range msgs {
			if m.Hash == limit.Anchor {
				idx = i
				break
			}
		}
		if idx < 0 {
			return selectLimit(msgs, Bottom(limit.Count))
		}
		count := max(limit.Count, 1)
		start := max(0, idx-count/2)
		end := min(total, start+count)
		start = max(0, end-count)
		return selection{
			messages:  msgs[start:end],
			moreOlder: start > 0,
			moreNewer: end < total,
		}

	default:
		start := max(0, total-max(limit.Count, 0))
		return selection{messages: msgs[start:], moreOlder: start > 0}
	}
}

// splitAtMarker divides msgs at the read marker. A zero marker means the
// conversation has never been read past, so everything counts as history.
func splitAtMarker(msgs []*Message, marker time.Time) (old, live []*Message) {
	if marker.IsZero() {
		return msgs, nil
	}
	idx := sort.Search(len(msgs), func(i int) bool {
		return msgs[i].ServerTime.After(marker)
	})
	return msgs[:idx], msgs[idx:]
}

func filterServer(msgs []*Message) []*Message {
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsServer() {
			out = append(out, m)
		}
	}
	return out
}
