package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLimit is returned by ParseLimit for malformed descriptors
var ErrInvalidLimit = errors.New("invalid limit")

// LimitKind selects the addressing mode of a Limit
type LimitKind int

const (
	// LimitBottom selects the Count most recent messages (live tail).
	LimitBottom LimitKind = iota
	// LimitTop selects the Count oldest loaded messages and grows toward newer ones.
	LimitTop
	// LimitAround centers a Count sized window on Anchor.
	LimitAround
	// LimitSince selects everything from Since up to now.
	LimitSince
)

func (k LimitKind) String() string {
	switch k {
	case LimitBottom:
		return "bottom"
	case LimitTop:
		return "top"
	case LimitAround:
		return "around"
	case LimitSince:
		return "since"
	default:
		return "unknown"
	}
}

// Limit describes which slice of a conversation's history to request.
// It is plain data and is replaced wholesale rather than patched.
type Limit struct {
	Kind   LimitKind
	Count  int
	Anchor Hash
	Since  time.Time
}

func Top(n int) Limit    { return Limit{Kind: LimitTop, Count: n} }
func Bottom(n int) Limit { return Limit{Kind: LimitBottom, Count: n} }

func Around(n int, anchor Hash) Limit {
	return Limit{Kind: LimitAround, Count: n, Anchor: anchor}
}

func Since(t time.Time) Limit {
	return Limit{Kind: LimitSince, Since: t.UTC()}
}

// Counted reports whether the limit is sized by a message count
func (l Limit) Counted() bool {
	return l.Kind != LimitSince
}

// Grow returns the limit extended by n messages from the same edge.
// Since limits are not count based and are returned unchanged.
func (l Limit) Grow(n int) Limit {
	if !l.Counted() || n <= 0 {
		return l
	}
	l.Count += n
	return l
}

// Is reports whether the limit uses the given addressing mode
func (l Limit) Is(kind LimitKind) bool {
	return l.Kind == kind
}

// Equal compares limits by value; Since instants compare with time.Equal
func (l Limit) Equal(o Limit) bool {
	return l.Kind == o.Kind && l.Count == o.Count && l.Anchor == o.Anchor && l.Since.Equal(o.Since)
}

func (l Limit) String() string {
	switch l.Kind {
	case LimitAround:
		return fmt.Sprintf("around:%d:%s", l.Count, l.Anchor)
	case LimitSince:
		return "since:" + l.Since.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%s:%d", l.Kind, l.Count)
	}
}

// ParseLimit parses the String form: "bottom:200", "top:50",
// "around:80:<hash>" or "since:<RFC3339>".
func ParseLimit(s string) (Limit, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return Limit{}, fmt.Errorf("%w: %q", ErrInvalidLimit, s)
	}

	kind, rest := strings.ToLower(parts[0]), parts[1]
	switch kind {
	case "since":
		t, err := time.Parse(time.RFC3339Nano, rest)
		if err != nil {
			return Limit{}, fmt.Errorf("%w: %v", ErrInvalidLimit, err)
		}
		return Since(t), nil
	case "around":
		countStr, anchor, ok := strings.Cut(rest, ":")
		if !ok || anchor == "" {
			return Limit{}, fmt.Errorf("%w: around needs a count and a hash", ErrInvalidLimit)
		}
		n, err := parseCount(countStr)
		if err != nil {
			return Limit{}, err
		}
		return Around(n, Hash(anchor)), nil
	case "top", "bottom":
		n, err := parseCount(rest)
		if err != nil {
			return Limit{}, err
		}
		if kind == "top" {
			return Top(n), nil
		}
		return Bottom(n), nil
	default:
		return Limit{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidLimit, kind)
	}
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: count must be a positive integer, got %q", ErrInvalidLimit, s)
	}
	return n, nil
}
