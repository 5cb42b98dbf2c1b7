package history

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotLoaded means the history for a conversation is not available yet.
	// Callers should render nothing and wait for a later load notification.
	ErrNotLoaded = errors.New("history not loaded")

	// ErrUnknownKey is returned by write operations on a conversation that was never loaded
	ErrUnknownKey = errors.New("unknown conversation")
)

// Options is the render configuration applied when materializing a Window
type Options struct {
	HideServer bool
	// Peek leaves a pending clear notification for the next reader
	Peek bool
}

// Store answers windowed queries over a conversation's history.
type Store interface {
	Window(ctx context.Context, key Key, limit Limit, opts Options) (*Window, error)
}

// Writer is the mutating side of a history store
type Writer interface {
	Load(ctx context.Context, key Key) error
	Append(ctx context.Context, key Key, msgs ...*Message) error
	Prepend(ctx context.Context, key Key, msgs ...*Message) error
	MarkRead(ctx context.Context, key Key, until time.Time) error
	Clear(ctx context.Context, key Key) error
}

// ReadWriter is a Store that can also be written to
type ReadWriter interface {
	Store
	Writer
}
