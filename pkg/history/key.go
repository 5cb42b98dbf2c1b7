package history

import (
	"fmt"
	"strings"
)

// KeyKind distinguishes live conversations from read-only log buffers
type KeyKind string

const (
	KeyKindChannel KeyKind = "channel"
	KeyKindQuery   KeyKind = "query"
	KeyKindLogs    KeyKind = "logs"
)

// Key identifies one conversation's history.
type Key struct {
	Server string  `json:"server"`
	Target string  `json:"target"`
	Kind   KeyKind `json:"kind"`
}

// Live reports whether new content can still arrive for this conversation,
// which is what makes backfill from the network meaningful.
func (k Key) Live() bool {
	return k.Kind != KeyKindLogs
}

func (k Key) String() string {
	return k.Server + "/" + k.Target
}

// ParseKey parses "server/target". Targets starting with '#' or '&' are channels.
func ParseKey(s string) (Key, error) {
	server, target, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || server == "" || target == "" {
		return Key{}, fmt.Errorf("invalid conversation %q: expected server/target", s)
	}

	kind := KeyKindQuery
	switch {
	case target == "*logs*":
		kind = KeyKindLogs
	case strings.HasPrefix(target, "#"), strings.HasPrefix(target, "&"):
		kind = KeyKindChannel
	}

	return Key{Server: server, Target: target, Kind: kind}, nil
}
