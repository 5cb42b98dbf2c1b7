package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type conversation struct {
	messages   []*Message
	seen       map[Hash]struct{}
	readMarker time.Time
	cleared    bool
}

// MemoryStore keeps every conversation in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[Key]*conversation
}

// NewMemoryStore creates an empty in-memory history store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[Key]*conversation)}
}

// Load marks a conversation as available. Loading twice is a no-op.
func (s *MemoryStore) Load(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[key]; !ok {
		s.convs[key] = &conversation{seen: make(map[Hash]struct{})}
	}
	return nil
}

// Window returns a freshly built window for key and limit
func (s *MemoryStore) Window(_ context.Context, key Key, limit Limit, opts Options) (*Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[key]
	if !ok {
		return nil, ErrNotLoaded
	}

	msgs := conv.messages
	if opts.HideServer {
		msgs = filterServer(msgs)
	}

	sel := selectLimit(msgs, limit)
	picked := make([]*Message, len(sel.messages))
	copy(picked, sel.messages)

	old, live := splitAtMarker(picked, conv.readMarker)
	w := &Window{
		Old:          old,
		New:          live,
		HasMoreOlder: sel.moreOlder,
		HasMoreNewer: sel.moreNewer,
		Cleared:      conv.cleared && !opts.Peek,
	}
	if !opts.Peek {
		conv.cleared = false
	}

	return w, nil
}

// Append adds messages at the live end. Messages already stored are skipped.
func (s *MemoryStore) Append(_ context.Context, key Key, msgs ...*Message) error {
	return s.insert(key, msgs)
}

// Prepend adds older messages fetched by backfill
func (s *MemoryStore) Prepend(_ context.Context, key Key, msgs ...*Message) error {
	return s.insert(key, msgs)
}

func (s *MemoryStore) insert(key Key, msgs []*Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	for _, m := range msgs {
		if _, dup := conv.seen[m.Hash]; dup {
			continue
		}
		conv.seen[m.Hash] = struct{}{}
		conv.messages = append(conv.messages, m)
	}

	// Stable so equal timestamps keep insertion order
	sort.SliceStable(conv.messages, func(i, j int) bool {
		return conv.messages[i].ServerTime.Before(conv.messages[j].ServerTime)
	})
	return nil
}

// MarkRead moves the read marker forward. Markers never move backwards.
func (s *MemoryStore) MarkRead(_ context.Context, key Key, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if until.After(conv.readMarker) {
		conv.readMarker = until.UTC()
	}
	return nil
}

// ReadMarker returns the conversation's read marker
func (s *MemoryStore) ReadMarker(key Key) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if conv, ok := s.convs[key]; ok {
		return conv.readMarker
	}
	return time.Time{}
}

// Clear drops all messages of a conversation
func (s *MemoryStore) Clear(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	conv.messages = nil
	conv.seen = make(map[Hash]struct{})
	conv.cleared = true
	return nil
}
