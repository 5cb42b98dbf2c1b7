package chat

import (
	"context"
	"math/rand"
	"time"

	"github.com/killallgit/backscroll/pkg/backfill"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
	"github.com/killallgit/backscroll/pkg/scrollback"
	"github.com/killallgit/backscroll/pkg/tui/chat/status"
	"github.com/killallgit/backscroll/pkg/tui/theme"
)

// Options configures one conversation view
type Options struct {
	Key   history.Key
	Store history.ReadWriter
	// Fetcher answers requests for older history. Nil disables backfill.
	Fetcher    *backfill.Fetcher
	Scrollback scrollback.Config

	Markdown        bool
	TimestampFormat string

	// Jump navigates to a message once the history is loaded
	Jump history.Hash
	// Live appends a generated message at this interval. Zero disables it.
	Live    time.Duration
	Senders []string
}

type chatModel struct {
	ctx       context.Context
	opts      Options
	view      *scrollback.View
	formatter *Formatter
	styles    *theme.Styles
	keys      keyMap
	statusBar status.StatusModel
	log       *logger.ComponentLogger

	width  int
	height int

	// scroll position, measured from edge
	offset float64
	edge   scrollback.Edge

	doc      document
	rendered map[history.Hash]string
	renderAt int

	// the backfill source has nothing older
	exhausted bool

	rng *rand.Rand
	err error
}

func NewChatModel(ctx context.Context, opts Options) chatModel {
	if len(opts.Senders) == 0 {
		opts.Senders = []string{"alice", "bob", "carol", "dave"}
	}
	styles := theme.DefaultStyles()

	return chatModel{
		ctx:       ctx,
		opts:      opts,
		view:      scrollback.NewView(opts.Key, opts.Store, opts.Scrollback),
		formatter: NewFormatter(styles, opts.Markdown, opts.TimestampFormat),
		styles:    styles,
		keys:      defaultKeyMap(),
		statusBar: status.NewStatusModel(styles),
		log:       logger.WithComponent("chat"),
		edge:      scrollback.EdgeEnd,
		rendered:  make(map[history.Hash]string),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
