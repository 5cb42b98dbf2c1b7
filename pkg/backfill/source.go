package backfill

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/backscroll/pkg/history"
)

// Source produces history older than what the store holds
type Source interface {
	// Before returns up to limit messages older than before, oldest first.
	// An empty result means the source has nothing older.
	Before(ctx context.Context, key history.Key, before time.Time, limit int) ([]*history.Message, error)
}

// GeneratedSource fabricates plausible older chat lines down to a fixed
// floor. It backs the demo and seed commands.
type GeneratedSource struct {
	Floor    time.Time
	Interval time.Duration
	Senders  []string
}

var phrases = []string{
	"has anyone tried the new release?",
	"works on my machine",
	"see the `go vet` output, it complains about the copy",
	"pushed a fix, can you rebase?",
	"```go\nfor i := range items {\n\tfmt.Println(i)\n}\n```",
	"the benchmark went from 40ms to 12ms",
	"**heads up**: the server restarts at midnight",
	"lgtm",
	"I think the window should stay put while scrolling",
	"brb",
}

func NewGeneratedSource(floor time.Time) *GeneratedSource {
	return &GeneratedSource{
		Floor:    floor.UTC(),
		Interval: 90 * time.Second,
		Senders:  []string{"alice", "bob", "carol", "dave"},
	}
}

func (s *GeneratedSource) Before(ctx context.Context, key history.Key, before time.Time, limit int) ([]*history.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(before.UnixNano()))
	var out []*history.Message
	at := before.Add(-s.Interval)
	for len(out) < limit && at.After(s.Floor) {
		out = append(out, Line(rng, at, s.Senders))
		at = at.Add(-s.Interval)
	}

	// oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Line builds one random chat line at the given time
func Line(rng *rand.Rand, at time.Time, senders []string) *history.Message {
	sender := senders[rng.Intn(len(senders))]
	text := phrases[rng.Intn(len(phrases))]
	kind := history.KindPrivmsg
	switch n := rng.Intn(20); {
	case n == 0:
		kind = history.KindServer
		text = fmt.Sprintf("%s has joined", sender)
		sender = "*"
	case n == 1:
		kind = history.KindAction
	}
	if text[0] == '`' && kind == history.KindPrivmsg {
		kind = history.KindCode
	}
	return history.NewMessage(at, sender, text, kind).WithID(uuid.NewString())
}
