package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Hash identifies a message independently of where it sits in a window.
type Hash string

// MessageKind describes how a message should be presented
type MessageKind string

const (
	KindPrivmsg MessageKind = "privmsg"
	KindNotice  MessageKind = "notice"
	KindAction  MessageKind = "action"
	KindServer  MessageKind = "server"
	KindCode    MessageKind = "code"
)

// Message is a single history entry. Messages are immutable once stored.
type Message struct {
	Hash       Hash        `json:"hash"`
	ID         string      `json:"id,omitempty"` // network message id, optional
	ServerTime time.Time   `json:"server_time"`
	Sender     string      `json:"sender"`
	Text       string      `json:"text"`
	Kind       MessageKind `json:"kind"`
}

// NewMessage builds a message and derives its content hash
func NewMessage(serverTime time.Time, sender, text string, kind MessageKind) *Message {
	if kind == "" {
		kind = KindPrivmsg
	}
	return &Message{
		Hash:       HashOf(serverTime, sender, text),
		ServerTime: serverTime.UTC(),
		Sender:     sender,
		Text:       text,
		Kind:       kind,
	}
}

// WithID returns a copy of the message carrying a network message id
func (m *Message) WithID(id string) *Message {
	c := *m
	c.ID = id
	return &c
}

// IsServer reports whether the message originates from the server rather than a user
func (m *Message) IsServer() bool {
	return m.Kind == KindServer
}

// HashOf computes the content hash used as message identity.
func HashOf(serverTime time.Time, sender, text string) Hash {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(serverTime.UnixNano(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(sender))
	h.Write([]byte{0})
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Hash(hex.EncodeToString(sum[:8]))
}

// Short returns an abbreviated form for logs and status lines
func (h Hash) Short() string {
	if len(h) > 7 {
		return string(h[:7])
	}
	return string(h)
}
